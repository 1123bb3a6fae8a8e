package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// reconciliationService flags a leg and its counterpart as reconciled in one transaction.
type reconciliationService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryWithTx
	resolver    portssvc.OpposingLegResolverSvc
}

// NewReconciliationService creates a new ReconcilerSvc.
func NewReconciliationService(journalRepo portsrepo.JournalRepositoryWithTx, resolver portssvc.OpposingLegResolverSvc, publisher portssvc.EventPublisher) portssvc.ReconcilerSvc {
	return &reconciliationService{
		BaseService: newBaseService(publisher),
		journalRepo: journalRepo,
		resolver:    resolver,
	}
}

var _ portssvc.ReconcilerSvc = (*reconciliationService)(nil)

// Reconcile marks the leg and its opposing leg as reconciled. Both flags change
// together or not at all. A leg without a counterpart is left untouched and the
// outcome says why. Reconciling an already reconciled pair succeeds again.
func (s *reconciliationService) Reconcile(ctx context.Context, userID string, legID int64) (domain.ReconciliationOutcome, error) {
	logger := s.GetLogger(ctx).With(slog.Int64("leg_id", legID))

	leg, err := s.journalRepo.FindLegByID(ctx, userID, legID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.ReconciliationOutcome{}, apperrors.NewNotFoundError(fmt.Sprintf("leg %d not found", legID))
		}
		logger.Error("Failed to load leg for reconciliation", slog.String("error", err.Error()))
		return domain.ReconciliationOutcome{}, fmt.Errorf("failed to load leg %d: %w", legID, err)
	}

	opposing, found, err := s.resolver.FindOpposingFor(ctx, userID, *leg)
	if err != nil {
		return domain.ReconciliationOutcome{}, fmt.Errorf("failed to resolve opposing leg of %d: %w", legID, err)
	}
	if !found {
		logger.Info("Leg not reconciled, no opposing leg")
		return domain.ReconciliationOutcome{Leg: leg, Reason: domain.ReasonNoOpposingLeg}, nil
	}

	if err := s.markPair(ctx, userID, *leg, *opposing); err != nil {
		return domain.ReconciliationOutcome{}, err
	}

	leg.Reconciled = true
	opposing.Reconciled = true
	logger.Info("Legs reconciled", slog.Int64("opposing_leg_id", opposing.ID))

	s.publish(ctx, domain.NewLedgerEvent(domain.EventLegsReconciled, userID,
		[]int64{leg.JournalID}, []int64{leg.ID, opposing.ID}, s.Now()))

	return domain.ReconciliationOutcome{Reconciled: true, Leg: leg, Opposing: opposing}, nil
}

// markPair locks both legs, checks they still oppose each other and flags them
// with a single statement that must touch exactly two rows.
func (s *reconciliationService) markPair(ctx context.Context, userID string, leg, opposing domain.TransactionLeg) error {
	ids := []int64{leg.ID, opposing.ID}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin reconciliation transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.journalRepo.Rollback(ctx, tx) // no-op after commit

	locked, err := s.journalRepo.LockLegsInTx(ctx, tx, userID, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to lock legs", slog.Any("leg_ids", ids))
		return fmt.Errorf("failed to lock legs: %w", err)
	}
	if len(locked) != 2 {
		return apperrors.NewConflictError(fmt.Sprintf("legs %d and %d changed during reconciliation", leg.ID, opposing.ID))
	}
	lockedLeg := locked[0]
	if lockedLeg.ID != leg.ID {
		lockedLeg = locked[1]
	}
	if _, n := domain.OpposingLeg(lockedLeg, locked); n != 1 {
		return apperrors.NewConflictError(fmt.Sprintf("legs %d and %d no longer oppose each other", leg.ID, opposing.ID))
	}

	affected, err := s.journalRepo.MarkLegsReconciledInTx(ctx, tx, ids, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to mark legs reconciled", slog.Any("leg_ids", ids))
		return fmt.Errorf("failed to mark legs reconciled: %w", err)
	}
	if affected != 2 {
		return apperrors.NewConflictError(fmt.Sprintf("expected to reconcile 2 legs, updated %d", affected))
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit reconciliation", slog.Any("leg_ids", ids))
		return fmt.Errorf("failed to commit reconciliation: %w", err)
	}
	return nil
}
