package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountSelect = `
	SELECT id, user_id, name, role, created_at, updated_at
	FROM accounts`

// FindAccountByID retrieves a live account owned by the user.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, userID string, accountID int64) (*domain.Account, error) {
	var m models.Account
	err := r.pool.QueryRow(ctx, accountSelect+` WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL;`, accountID, userID).Scan(
		&m.AccountID,
		&m.UserID,
		&m.Name,
		&m.Role,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err, fmt.Sprintf("account %d", accountID))
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountsByIDs retrieves live accounts owned by the user; unknown ids are simply absent.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, userID string, accountIDs []int64) (map[int64]domain.Account, error) {
	accounts := make(map[int64]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return accounts, nil
	}

	rows, err := r.pool.Query(ctx, accountSelect+` WHERE id = ANY($1) AND user_id = $2 AND deleted_at IS NULL;`, accountIDs, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Account
		if err := rows.Scan(&m.AccountID, &m.UserID, &m.Name, &m.Role, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate accounts", err)
	}
	return accounts, nil
}
