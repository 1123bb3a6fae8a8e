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

// opposingLegResolver finds the counterpart of a leg among the other legs of its journal.
type opposingLegResolver struct {
	BaseService
	legRepo portsrepo.LegReader
}

// NewOpposingLegResolver creates a resolver reading legs from legRepo.
func NewOpposingLegResolver(legRepo portsrepo.LegReader) portssvc.OpposingLegResolverSvc {
	return &opposingLegResolver{
		BaseService: newBaseService(nil),
		legRepo:     legRepo,
	}
}

var _ portssvc.OpposingLegResolverSvc = (*opposingLegResolver)(nil)

// FindOpposingLeg loads the leg owned by userID and resolves its counterpart.
// An unknown or foreign leg is reported as not found.
func (s *opposingLegResolver) FindOpposingLeg(ctx context.Context, userID string, legID int64) (*domain.TransactionLeg, bool, error) {
	leg, err := s.legRepo.FindLegByID(ctx, userID, legID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, nil
		}
		s.LogError(ctx, err, "Failed to load leg for opposing lookup", slog.Int64("leg_id", legID))
		return nil, false, fmt.Errorf("failed to load leg %d: %w", legID, err)
	}
	return s.FindOpposingFor(ctx, userID, *leg)
}

// FindOpposingFor resolves the counterpart of leg: a different leg of the same
// journal with the same identifier whose amount is the exact negation.
func (s *opposingLegResolver) FindOpposingFor(ctx context.Context, userID string, leg domain.TransactionLeg) (*domain.TransactionLeg, bool, error) {
	logger := s.GetLogger(ctx)

	candidates, err := s.legRepo.FindLegsByJournalID(ctx, userID, leg.JournalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, nil
		}
		s.LogError(ctx, err, "Failed to load candidate legs", slog.Int64("journal_id", leg.JournalID))
		return nil, false, fmt.Errorf("failed to load legs of journal %d: %w", leg.JournalID, err)
	}

	match, matches := domain.OpposingLeg(leg, candidates)
	switch {
	case matches == 0:
		logger.Debug("No opposing leg", slog.Int64("leg_id", leg.ID), slog.Int64("journal_id", leg.JournalID))
		return nil, false, nil
	case matches > 1:
		logger.Warn("Several legs oppose the same leg, using the lowest id",
			slog.Int64("leg_id", leg.ID),
			slog.Int64("journal_id", leg.JournalID),
			slog.Int("matches", matches),
			slog.Int64("chosen_leg_id", match.ID),
		)
	}
	return &match, true, nil
}
