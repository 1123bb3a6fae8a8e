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
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// conversionService changes the kind of an unsplit journal and moves its legs to new accounts.
type conversionService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryWithTx
	accountRepo portsrepo.AccountReader
}

// NewConversionService creates a new JournalConverterSvc.
func NewConversionService(journalRepo portsrepo.JournalRepositoryWithTx, accountRepo portsrepo.AccountReader, publisher portssvc.EventPublisher) portssvc.JournalConverterSvc {
	return &conversionService{
		BaseService: newBaseService(publisher),
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.JournalConverterSvc = (*conversionService)(nil)

// ConvertJournal validates every precondition, collecting all failures, and only
// when none failed reassigns the legs and the kind in one storage transaction.
// The outgoing leg moves to the source account and the incoming leg to the
// destination account. Converting to a transfer detaches the budget.
func (s *conversionService) ConvertJournal(ctx context.Context, userID string, journalID int64, req dto.ConvertJournalRequest) (*domain.ValidationResult, error) {
	logger := s.GetLogger(ctx).With(slog.Int64("journal_id", journalID), slog.String("kind", string(req.Kind)))

	journal, err := s.journalRepo.FindJournalByID(ctx, userID, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal %d not found", journalID))
		}
		logger.Error("Failed to load journal for conversion", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load journal %d: %w", journalID, err)
	}

	result := domain.NewValidationResult()

	source, destination, accountsOK, err := s.loadAccounts(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if !accountsOK {
		addAccountFailures(result)
	}

	kindOK := req.Kind.IsValid()
	if !kindOK {
		result.Add(domain.FieldTransactionType, fmt.Sprintf("unknown transaction type %q", req.Kind))
	}

	result.Merge(s.checkLegs(*journal))

	if accountsOK && kindOK {
		result.Merge(checkRoles(req.Kind, source, destination))
	}

	if !result.IsValid() {
		logger.Info("Journal conversion rejected", slog.Any("fields", result.Fields()))
		return result, nil
	}

	if err := s.applyConversion(ctx, userID, journalID, req.Kind, source, destination); err != nil {
		return nil, err
	}

	logger.Info("Journal converted",
		slog.Int64("source_account_id", source.ID),
		slog.Int64("destination_account_id", destination.ID),
	)
	s.publish(ctx, domain.NewLedgerEvent(domain.EventJournalConverted, userID, []int64{journalID}, legIDs(journal.Legs), s.Now()))

	return result, nil
}

// loadAccounts fetches both accounts. ok is false when either is missing or both ids are the same.
func (s *conversionService) loadAccounts(ctx context.Context, userID string, req dto.ConvertJournalRequest) (domain.Account, domain.Account, bool, error) {
	if req.SourceAccountID == req.DestinationAccountID {
		return domain.Account{}, domain.Account{}, false, nil
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, userID, []int64{req.SourceAccountID, req.DestinationAccountID})
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for conversion")
		return domain.Account{}, domain.Account{}, false, fmt.Errorf("failed to load accounts: %w", err)
	}
	source, okSource := accounts[req.SourceAccountID]
	destination, okDestination := accounts[req.DestinationAccountID]
	return source, destination, okSource && okDestination, nil
}

func addAccountFailures(result *domain.ValidationResult) {
	const msg = "source and destination must be two different existing accounts"
	result.Add(domain.FieldSourceAccountID, msg)
	result.Add(domain.FieldSourceAccountName, msg)
	result.Add(domain.FieldDestinationAccountID, msg)
	result.Add(domain.FieldDestinationAccountName, msg)
}

// checkLegs verifies the journal is an unsplit pair of one outgoing and one incoming leg that balance.
func (s *conversionService) checkLegs(journal domain.Journal) *domain.ValidationResult {
	result := domain.NewValidationResult()
	if !domain.IsUnsplit(journal) {
		result.Add(domain.FieldTransactions, "only journals with exactly two legs in one group can be converted")
		return result
	}
	_, hasSource := domain.SourceLeg(journal.Legs)
	_, hasDestination := domain.DestinationLeg(journal.Legs)
	if !hasSource || !hasDestination {
		result.Add(domain.FieldTransactions, "journal needs one outgoing and one incoming leg")
		return result
	}
	if !domain.IsBalanced(journal.Legs) {
		result.Add(domain.FieldTransactions, "legs do not balance")
	}
	return result
}

// checkRoles applies the kind/role matrix to the chosen accounts.
func checkRoles(kind domain.TransactionKind, source, destination domain.Account) *domain.ValidationResult {
	result := domain.NewValidationResult()
	srcRole, dstRole := domain.RoleFor(source), domain.RoleFor(destination)

	srcOK := domain.AllowsSource(kind, srcRole)
	dstOK := domain.AllowsDestination(kind, dstRole)
	if !srcOK {
		result.Add(domain.FieldSourceAccountID, fmt.Sprintf("a %s account cannot be the source of a %s", srcRole, kind))
	}
	if !dstOK {
		result.Add(domain.FieldDestinationAccountID, fmt.Sprintf("a %s account cannot be the destination of a %s", dstRole, kind))
	}
	if srcOK && dstOK && !domain.AllowsRoles(kind, srcRole, dstRole) {
		result.Add(domain.FieldDestinationAccountID, fmt.Sprintf("a %s cannot move money from a %s account to a %s account", kind, srcRole, dstRole))
	}
	return result
}

// applyConversion performs every write of the conversion in one transaction.
func (s *conversionService) applyConversion(ctx context.Context, userID string, journalID int64, kind domain.TransactionKind, source, destination domain.Account) error {
	now := s.Now()

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin conversion transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.journalRepo.Rollback(ctx, tx) // no-op after commit

	locked, err := s.journalRepo.FindJournalForUpdateInTx(ctx, tx, userID, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewConflictError(fmt.Sprintf("journal %d was removed during conversion", journalID))
		}
		return fmt.Errorf("failed to lock journal %d: %w", journalID, err)
	}
	if !domain.IsUnsplit(*locked) {
		return apperrors.NewConflictError(fmt.Sprintf("journal %d changed during conversion", journalID))
	}
	sourceLeg, okSource := domain.SourceLeg(locked.Legs)
	destinationLeg, okDestination := domain.DestinationLeg(locked.Legs)
	if !okSource || !okDestination {
		return apperrors.NewConflictError(fmt.Sprintf("journal %d changed during conversion", journalID))
	}

	accountByLeg := map[int64]int64{
		sourceLeg.ID:      source.ID,
		destinationLeg.ID: destination.ID,
	}
	if err := s.journalRepo.ReassignLegAccountsInTx(ctx, tx, accountByLeg, now); err != nil {
		s.LogError(ctx, err, "Failed to reassign leg accounts", slog.Int64("journal_id", journalID))
		return fmt.Errorf("failed to reassign leg accounts: %w", err)
	}

	detachBudget := kind == domain.KindTransfer
	if err := s.journalRepo.UpdateJournalKindInTx(ctx, tx, journalID, kind, detachBudget, now); err != nil {
		s.LogError(ctx, err, "Failed to update journal kind", slog.Int64("journal_id", journalID))
		return fmt.Errorf("failed to update journal kind: %w", err)
	}

	legs, err := s.journalRepo.FindLegsByJournalIDInTx(ctx, tx, journalID)
	if err != nil {
		return fmt.Errorf("failed to re-read legs of journal %d: %w", journalID, err)
	}
	if unbalanced := domain.UnbalancedGroups(legs); len(unbalanced) > 0 {
		s.GetLogger(ctx).Error("Conversion would leave unbalanced groups", slog.Int64("journal_id", journalID), slog.Any("groups", unbalanced))
		return apperrors.NewAppError(500, fmt.Sprintf("journal %d would not balance after conversion", journalID), apperrors.ErrInternal)
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit conversion", slog.Int64("journal_id", journalID))
		return fmt.Errorf("failed to commit conversion: %w", err)
	}
	return nil
}

func legIDs(legs []domain.TransactionLeg) []int64 {
	ids := make([]int64, len(legs))
	for i, l := range legs {
		ids[i] = l.ID
	}
	return ids
}
