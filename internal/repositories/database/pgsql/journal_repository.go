package pgsql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal and leg data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const journalColumns = `j.id, j.user_id, j.kind, j.date, j.description, j."order", j.budget_id, j.created_at, j.updated_at`

// legSelect reads live legs of live journals together with their accounts.
const legSelect = `
	SELECT t.id, t.journal_id, t.account_id, t.amount, t.identifier, t.reconciled, t.created_at, t.updated_at,
	       a.id, a.user_id, a.name, a.role, a.created_at, a.updated_at
	FROM transactions t
	JOIN transaction_journals j ON j.id = t.journal_id
	JOIN accounts a ON a.id = t.account_id
	WHERE t.deleted_at IS NULL AND j.deleted_at IS NULL`

func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.UserID,
		&m.Kind,
		&m.JournalDate,
		&m.Description,
		&m.Order,
		&m.BudgetID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func scanLeg(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	var acc models.Account
	err := row.Scan(
		&m.TransactionID,
		&m.JournalID,
		&m.AccountID,
		&m.Amount,
		&m.Identifier,
		&m.Reconciled,
		&m.CreatedAt,
		&m.UpdatedAt,
		&acc.AccountID,
		&acc.UserID,
		&acc.Name,
		&acc.Role,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	m.Account = &acc
	return m, err
}

func queryLegs(ctx context.Context, q querier, sql string, args ...any) ([]domain.TransactionLeg, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query legs", err)
	}
	defer rows.Close()

	var ms []models.Transaction
	for rows.Next() {
		m, err := scanLeg(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan leg", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate legs", err)
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

func (r *PgxJournalRepository) loadJournal(ctx context.Context, q querier, sql string, args ...any) (*domain.Journal, error) {
	m, err := scanJournal(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapNoRows(err, "journal")
	}
	journal := mapping.ToDomainJournal(m)

	legs, err := queryLegs(ctx, q, legSelect+` AND t.journal_id = $1 ORDER BY t.id`, journal.ID)
	if err != nil {
		return nil, err
	}
	journal.Legs = legs
	return &journal, nil
}

// FindJournalByID retrieves a journal and its legs.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, userID string, journalID int64) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + `
		FROM transaction_journals j
		WHERE j.id = $1 AND j.user_id = $2 AND j.deleted_at IS NULL;`
	return r.loadJournal(ctx, r.Pool, query, journalID, userID)
}

// FindFirstJournal retrieves the user's earliest journal by date, ties broken by id.
func (r *PgxJournalRepository) FindFirstJournal(ctx context.Context, userID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + `
		FROM transaction_journals j
		WHERE j.user_id = $1 AND j.deleted_at IS NULL
		ORDER BY j.date ASC, j.id ASC
		LIMIT 1;`
	return r.loadJournal(ctx, r.Pool, query, userID)
}

// UpdateJournalOrder sets the ordering index of a journal.
func (r *PgxJournalRepository) UpdateJournalOrder(ctx context.Context, userID string, journalID int64, order int, now time.Time) error {
	query := `
		UPDATE transaction_journals SET "order" = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4 AND deleted_at IS NULL;`
	cmdTag, err := r.Pool.Exec(ctx, query, order, now, journalID, userID)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to update order of journal %d", journalID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("journal %d not found", journalID))
	}
	return nil
}

// FindLegByID retrieves a single live leg of the user.
func (r *PgxJournalRepository) FindLegByID(ctx context.Context, userID string, legID int64) (*domain.TransactionLeg, error) {
	m, err := scanLeg(r.Pool.QueryRow(ctx, legSelect+` AND t.id = $1 AND j.user_id = $2;`, legID, userID))
	if err != nil {
		return nil, mapNoRows(err, fmt.Sprintf("leg %d", legID))
	}
	leg := mapping.ToDomainTransaction(m)
	return &leg, nil
}

// FindLegsByJournalID retrieves the live legs of a journal ordered by id.
func (r *PgxJournalRepository) FindLegsByJournalID(ctx context.Context, userID string, journalID int64) ([]domain.TransactionLeg, error) {
	return queryLegs(ctx, r.Pool, legSelect+` AND t.journal_id = $1 AND j.user_id = $2 ORDER BY t.id;`, journalID, userID)
}

// FindLegsByIDs retrieves the live legs among legIDs ordered by id.
func (r *PgxJournalRepository) FindLegsByIDs(ctx context.Context, userID string, legIDs []int64) ([]domain.TransactionLeg, error) {
	if len(legIDs) == 0 {
		return []domain.TransactionLeg{}, nil
	}
	return queryLegs(ctx, r.Pool, legSelect+` AND t.id = ANY($1) AND j.user_id = $2 ORDER BY t.id;`, legIDs, userID)
}

// CountLegsByJournalID counts the live legs of a journal.
func (r *PgxJournalRepository) CountLegsByJournalID(ctx context.Context, userID string, journalID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions t
		JOIN transaction_journals j ON j.id = t.journal_id
		WHERE t.journal_id = $1 AND j.user_id = $2 AND t.deleted_at IS NULL AND j.deleted_at IS NULL;`
	var n int
	if err := r.Pool.QueryRow(ctx, query, journalID, userID).Scan(&n); err != nil {
		return 0, apperrors.NewAppError(500, fmt.Sprintf("failed to count legs of journal %d", journalID), err)
	}
	return n, nil
}

// FindJournalForUpdateInTx locks a journal row and its legs for the rest of tx.
func (r *PgxJournalRepository) FindJournalForUpdateInTx(ctx context.Context, tx pgx.Tx, userID string, journalID int64) (*domain.Journal, error) {
	m, err := scanJournal(tx.QueryRow(ctx, `SELECT `+journalColumns+`
		FROM transaction_journals j
		WHERE j.id = $1 AND j.user_id = $2 AND j.deleted_at IS NULL
		FOR UPDATE;`, journalID, userID))
	if err != nil {
		return nil, mapNoRows(err, fmt.Sprintf("journal %d", journalID))
	}
	journal := mapping.ToDomainJournal(m)

	legs, err := queryLegs(ctx, tx, legSelect+` AND t.journal_id = $1 ORDER BY t.id FOR UPDATE OF t;`, journalID)
	if err != nil {
		return nil, err
	}
	journal.Legs = legs
	return &journal, nil
}

// LockLegsInTx locks the given legs in id order, which keeps concurrent lockers from deadlocking.
func (r *PgxJournalRepository) LockLegsInTx(ctx context.Context, tx pgx.Tx, userID string, legIDs []int64) ([]domain.TransactionLeg, error) {
	return queryLegs(ctx, tx, legSelect+` AND t.id = ANY($1) AND j.user_id = $2 ORDER BY t.id FOR UPDATE OF t;`, legIDs, userID)
}

// MarkLegsReconciledInTx flags every live leg in legIDs with one statement.
func (r *PgxJournalRepository) MarkLegsReconciledInTx(ctx context.Context, tx pgx.Tx, legIDs []int64, now time.Time) (int64, error) {
	query := `
		UPDATE transactions SET reconciled = TRUE, updated_at = $2
		WHERE id = ANY($1) AND deleted_at IS NULL;`
	cmdTag, err := tx.Exec(ctx, query, legIDs, now)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to mark legs reconciled", err)
	}
	return cmdTag.RowsAffected(), nil
}

// ReassignLegAccountsInTx moves each leg to its new account in one batch.
func (r *PgxJournalRepository) ReassignLegAccountsInTx(ctx context.Context, tx pgx.Tx, accountByLeg map[int64]int64, now time.Time) error {
	legIDs := make([]int64, 0, len(accountByLeg))
	for legID := range accountByLeg {
		legIDs = append(legIDs, legID)
	}
	sort.Slice(legIDs, func(i, j int) bool { return legIDs[i] < legIDs[j] })

	batch := &pgx.Batch{}
	query := `UPDATE transactions SET account_id = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL;`
	for _, legID := range legIDs {
		batch.Queue(query, accountByLeg[legID], now, legID)
	}

	br := tx.SendBatch(ctx, batch)
	for _, legID := range legIDs {
		ct, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return apperrors.NewAppError(500, fmt.Sprintf("failed to reassign account of leg %d", legID), err)
		}
		if ct.RowsAffected() != 1 {
			_ = br.Close()
			return apperrors.NewConflictError(fmt.Sprintf("leg %d disappeared during update", legID))
		}
	}
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close leg update batch", err)
	}
	return nil
}

// UpdateJournalKindInTx sets the kind of a journal and optionally clears its budget.
func (r *PgxJournalRepository) UpdateJournalKindInTx(ctx context.Context, tx pgx.Tx, journalID int64, kind domain.TransactionKind, detachBudget bool, now time.Time) error {
	query := `
		UPDATE transaction_journals
		SET kind = $1,
		    budget_id = CASE WHEN $2::boolean THEN NULL ELSE budget_id END,
		    updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL;`
	cmdTag, err := tx.Exec(ctx, query, string(kind), detachBudget, now, journalID)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to update kind of journal %d", journalID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("journal %d not found", journalID))
	}
	return nil
}

// FindLegsByJournalIDInTx re-reads the legs of a journal through tx.
func (r *PgxJournalRepository) FindLegsByJournalIDInTx(ctx context.Context, tx pgx.Tx, journalID int64) ([]domain.TransactionLeg, error) {
	return queryLegs(ctx, tx, legSelect+` AND t.journal_id = $1 ORDER BY t.id;`, journalID)
}
