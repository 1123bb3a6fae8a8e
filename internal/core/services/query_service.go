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
	"github.com/shopspring/decimal"
)

// queryService answers read-only questions about a user's journals and legs.
type queryService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	noteRepo    portsrepo.NoteReader
}

// NewQueryService creates a new JournalQuerySvcFacade.
func NewQueryService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, noteRepo portsrepo.NoteReader) portssvc.JournalQuerySvcFacade {
	return &queryService{
		BaseService: newBaseService(nil),
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		noteRepo:    noteRepo,
	}
}

var _ portssvc.JournalQuerySvcFacade = (*queryService)(nil)

// FirstJournalByDate returns the user's earliest journal.
func (s *queryService) FirstJournalByDate(ctx context.Context, userID string) (*domain.Journal, bool, error) {
	journal, err := s.journalRepo.FindFirstJournal(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, nil
		}
		s.LogError(ctx, err, "Failed to load first journal")
		return nil, false, fmt.Errorf("failed to load first journal: %w", err)
	}
	return journal, true, nil
}

// JournalByID returns a journal with its legs.
func (s *queryService) JournalByID(ctx context.Context, userID string, journalID int64) (*domain.Journal, bool, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, userID, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, nil
		}
		s.LogError(ctx, err, "Failed to load journal", slog.Int64("journal_id", journalID))
		return nil, false, fmt.Errorf("failed to load journal %d: %w", journalID, err)
	}
	return journal, true, nil
}

// LegsByIDs returns the live legs among ids, ordered by id.
func (s *queryService) LegsByIDs(ctx context.Context, userID string, legIDs []int64) ([]domain.TransactionLeg, error) {
	if len(legIDs) == 0 {
		return []domain.TransactionLeg{}, nil
	}
	legs, err := s.journalRepo.FindLegsByIDs(ctx, userID, legIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load legs", slog.Int("count", len(legIDs)))
		return nil, fmt.Errorf("failed to load legs: %w", err)
	}
	domain.SortLegsByID(legs)
	return legs, nil
}

// AssetLeg returns the leg of the journal booked on an asset account.
// When several qualify the lowest id wins.
func (s *queryService) AssetLeg(ctx context.Context, userID string, journalID int64) (*domain.TransactionLeg, bool, error) {
	legs, err := s.legsWithAccounts(ctx, userID, journalID)
	if err != nil {
		return nil, false, err
	}

	var assets []domain.TransactionLeg
	for _, l := range legs {
		if l.Account != nil && domain.RoleFor(*l.Account) == domain.RoleAsset {
			assets = append(assets, l)
		}
	}
	if len(assets) == 0 {
		return nil, false, nil
	}
	domain.SortLegsByID(assets)
	if len(assets) > 1 {
		s.GetLogger(ctx).Warn("Journal has several asset legs, using the lowest id",
			slog.Int64("journal_id", journalID),
			slog.Int("asset_legs", len(assets)),
		)
	}
	return &assets[0], true, nil
}

// CountLegs counts the live legs of a journal. Unknown journals have none.
func (s *queryService) CountLegs(ctx context.Context, userID string, journalID int64) (int, error) {
	n, err := s.journalRepo.CountLegsByJournalID(ctx, userID, journalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count legs", slog.Int64("journal_id", journalID))
		return 0, fmt.Errorf("failed to count legs of journal %d: %w", journalID, err)
	}
	return n, nil
}

// NoteFor returns the note text of a journal.
func (s *queryService) NoteFor(ctx context.Context, userID string, journalID int64) (string, bool, error) {
	note, err := s.noteRepo.FindNoteByJournalID(ctx, userID, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", false, nil
		}
		s.LogError(ctx, err, "Failed to load note", slog.Int64("journal_id", journalID))
		return "", false, fmt.Errorf("failed to load note of journal %d: %w", journalID, err)
	}
	return note, true, nil
}

// JournalTotal returns the sum of the journal's positive legs.
func (s *queryService) JournalTotal(ctx context.Context, userID string, journalID int64) (decimal.Decimal, error) {
	journal, err := s.requireJournal(ctx, userID, journalID)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.JournalTotal(journal.Legs), nil
}

// SourceAccounts returns the distinct accounts of the outgoing legs, in leg order.
func (s *queryService) SourceAccounts(ctx context.Context, userID string, journalID int64) ([]domain.Account, error) {
	return s.accountsWhere(ctx, userID, journalID, domain.TransactionLeg.IsOutgoing)
}

// DestinationAccounts returns the distinct accounts of the incoming legs, in leg order.
func (s *queryService) DestinationAccounts(ctx context.Context, userID string, journalID int64) ([]domain.Account, error) {
	return s.accountsWhere(ctx, userID, journalID, domain.TransactionLeg.IsIncoming)
}

// IsTransfer reports whether the journal is a transfer.
func (s *queryService) IsTransfer(ctx context.Context, userID string, journalID int64) (bool, error) {
	journal, err := s.requireJournal(ctx, userID, journalID)
	if err != nil {
		return false, err
	}
	return journal.Kind == domain.KindTransfer, nil
}

// VerifyIntegrity returns the identifiers of the journal's unbalanced groups.
func (s *queryService) VerifyIntegrity(ctx context.Context, userID string, journalID int64) ([]int, error) {
	journal, err := s.requireJournal(ctx, userID, journalID)
	if err != nil {
		return nil, err
	}
	unbalanced := domain.UnbalancedGroups(journal.Legs)
	if len(unbalanced) > 0 {
		s.GetLogger(ctx).Warn("Journal has unbalanced groups",
			slog.Int64("journal_id", journalID),
			slog.Any("groups", unbalanced),
		)
	}
	return unbalanced, nil
}

// SetOrder updates the ordering index of a journal.
func (s *queryService) SetOrder(ctx context.Context, userID string, journalID int64, order int) error {
	if order < 0 {
		return apperrors.NewAppError(400, "order must not be negative", apperrors.ErrValidation)
	}
	if err := s.journalRepo.UpdateJournalOrder(ctx, userID, journalID, order, s.Now()); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("journal %d not found", journalID))
		}
		s.LogError(ctx, err, "Failed to update journal order", slog.Int64("journal_id", journalID))
		return fmt.Errorf("failed to update order of journal %d: %w", journalID, err)
	}
	return nil
}

func (s *queryService) requireJournal(ctx context.Context, userID string, journalID int64) (*domain.Journal, error) {
	journal, found, err := s.JournalByID(ctx, userID, journalID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal %d not found", journalID))
	}
	return journal, nil
}

// legsWithAccounts loads the legs of a journal, filling in any account the read did not join.
func (s *queryService) legsWithAccounts(ctx context.Context, userID string, journalID int64) ([]domain.TransactionLeg, error) {
	legs, err := s.journalRepo.FindLegsByJournalID(ctx, userID, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to load legs", slog.Int64("journal_id", journalID))
		return nil, fmt.Errorf("failed to load legs of journal %d: %w", journalID, err)
	}

	var missing []int64
	for _, l := range legs {
		if l.Account == nil {
			missing = append(missing, l.AccountID)
		}
	}
	if len(missing) == 0 {
		return legs, nil
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, userID, missing)
	if err != nil {
		s.LogError(ctx, err, "Failed to load leg accounts", slog.Int64("journal_id", journalID))
		return nil, fmt.Errorf("failed to load accounts of journal %d: %w", journalID, err)
	}
	for i := range legs {
		if legs[i].Account != nil {
			continue
		}
		if acc, ok := accounts[legs[i].AccountID]; ok {
			legs[i].Account = &acc
		}
	}
	return legs, nil
}

func (s *queryService) accountsWhere(ctx context.Context, userID string, journalID int64, keep func(domain.TransactionLeg) bool) ([]domain.Account, error) {
	legs, err := s.legsWithAccounts(ctx, userID, journalID)
	if err != nil {
		return nil, err
	}
	domain.SortLegsByID(legs)

	seen := make(map[int64]bool)
	accounts := []domain.Account{}
	for _, l := range legs {
		if !keep(l) || l.Account == nil || seen[l.AccountID] {
			continue
		}
		seen[l.AccountID] = true
		accounts = append(accounts, *l.Account)
	}
	return accounts, nil
}
