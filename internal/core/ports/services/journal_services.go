package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
)

// Lookups follow the comma-ok convention: found=false with a nil error means the
// entity does not exist for the user. Errors are reserved for storage failures.

// OpposingLegResolverSvc locates the counterpart of a leg inside its journal.
type OpposingLegResolverSvc interface {
	// FindOpposingLeg loads the leg and resolves its counterpart.
	FindOpposingLeg(ctx context.Context, userID string, legID int64) (*domain.TransactionLeg, bool, error)

	// FindOpposingFor resolves the counterpart of an already loaded leg.
	FindOpposingFor(ctx context.Context, userID string, leg domain.TransactionLeg) (*domain.TransactionLeg, bool, error)
}

// ReconcilerSvc marks a leg and its counterpart as reconciled together.
type ReconcilerSvc interface {
	Reconcile(ctx context.Context, userID string, legID int64) (domain.ReconciliationOutcome, error)
}

// JournalConverterSvc changes the kind of an unsplit journal and reassigns its accounts.
type JournalConverterSvc interface {
	// ConvertJournal returns an invalid result (and changes nothing) when a precondition fails.
	ConvertJournal(ctx context.Context, userID string, journalID int64, req dto.ConvertJournalRequest) (*domain.ValidationResult, error)
}

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	FirstJournalByDate(ctx context.Context, userID string) (*domain.Journal, bool, error)
	JournalByID(ctx context.Context, userID string, journalID int64) (*domain.Journal, bool, error)
	NoteFor(ctx context.Context, userID string, journalID int64) (string, bool, error)
	IsTransfer(ctx context.Context, userID string, journalID int64) (bool, error)
}

// LegReaderSvc defines read operations for transaction legs
type LegReaderSvc interface {
	LegsByIDs(ctx context.Context, userID string, legIDs []int64) ([]domain.TransactionLeg, error)
	AssetLeg(ctx context.Context, userID string, journalID int64) (*domain.TransactionLeg, bool, error)
	CountLegs(ctx context.Context, userID string, journalID int64) (int, error)
	SourceAccounts(ctx context.Context, userID string, journalID int64) ([]domain.Account, error)
	DestinationAccounts(ctx context.Context, userID string, journalID int64) ([]domain.Account, error)
}

// JournalCalculatorSvc defines calculation operations related to journals
type JournalCalculatorSvc interface {
	// JournalTotal is the sum of the positive legs.
	JournalTotal(ctx context.Context, userID string, journalID int64) (decimal.Decimal, error)

	// VerifyIntegrity returns the identifiers of groups that do not sum to zero.
	VerifyIntegrity(ctx context.Context, userID string, journalID int64) ([]int, error)
}

// JournalOrderSvc updates the display order of a journal.
type JournalOrderSvc interface {
	SetOrder(ctx context.Context, userID string, journalID int64, order int) error
}

// JournalQuerySvcFacade combines all journal query service interfaces
type JournalQuerySvcFacade interface {
	JournalReaderSvc
	LegReaderSvc
	JournalCalculatorSvc
	JournalOrderSvc
}
