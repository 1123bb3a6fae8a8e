package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// Every method is scoped to the owning user and ignores soft-deleted journals and legs.
// Single-entity lookups return apperrors.ErrNotFound when nothing matches.

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a journal with its legs and their accounts.
	FindJournalByID(ctx context.Context, userID string, journalID int64) (*domain.Journal, error)

	// FindFirstJournal retrieves the journal with the earliest date, ties broken by id.
	FindFirstJournal(ctx context.Context, userID string) (*domain.Journal, error)
}

// JournalWriter defines single-statement write operations for journal data
type JournalWriter interface {
	// UpdateJournalOrder sets the ordering index of a journal.
	UpdateJournalOrder(ctx context.Context, userID string, journalID int64, order int, now time.Time) error
}

// LegReader defines read operations for transaction legs
type LegReader interface {
	// FindLegByID retrieves a single leg.
	FindLegByID(ctx context.Context, userID string, legID int64) (*domain.TransactionLeg, error)

	// FindLegsByJournalID retrieves the legs of a journal ordered by id, accounts loaded.
	FindLegsByJournalID(ctx context.Context, userID string, journalID int64) ([]domain.TransactionLeg, error)

	// FindLegsByIDs retrieves the legs with the given ids ordered by id. Unknown ids are skipped.
	FindLegsByIDs(ctx context.Context, userID string, legIDs []int64) ([]domain.TransactionLeg, error)

	// CountLegsByJournalID counts the live legs of a journal.
	CountLegsByJournalID(ctx context.Context, userID string, journalID int64) (int, error)
}

// JournalTransactionSupport defines the operations that run inside a caller-owned transaction.
type JournalTransactionSupport interface {
	// FindJournalForUpdateInTx loads and locks a journal row and its legs.
	FindJournalForUpdateInTx(ctx context.Context, tx pgx.Tx, userID string, journalID int64) (*domain.Journal, error)

	// LockLegsInTx locks the given legs with SELECT ... FOR UPDATE and returns them ordered by id.
	LockLegsInTx(ctx context.Context, tx pgx.Tx, userID string, legIDs []int64) ([]domain.TransactionLeg, error)

	// MarkLegsReconciledInTx flags the legs as reconciled with one statement and
	// returns the number of rows affected.
	MarkLegsReconciledInTx(ctx context.Context, tx pgx.Tx, legIDs []int64, now time.Time) (int64, error)

	// ReassignLegAccountsInTx points each leg (map key) at a new account (map value).
	ReassignLegAccountsInTx(ctx context.Context, tx pgx.Tx, accountByLeg map[int64]int64, now time.Time) error

	// UpdateJournalKindInTx sets the kind of a journal, clearing its budget when detachBudget is set.
	UpdateJournalKindInTx(ctx context.Context, tx pgx.Tx, journalID int64, kind domain.TransactionKind, detachBudget bool, now time.Time) error

	// FindLegsByJournalIDInTx re-reads the legs of a journal inside the transaction.
	FindLegsByJournalIDInTx(ctx context.Context, tx pgx.Tx, journalID int64) ([]domain.TransactionLeg, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LegReader
	JournalTransactionSupport
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
