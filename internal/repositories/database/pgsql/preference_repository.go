package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgForeignKeyViolation = "23503"

type PgxPreferenceRepository struct {
	pool *pgxpool.Pool
}

func newPgxPreferenceRepository(pool *pgxpool.Pool) portsrepo.PreferenceRepositoryFacade {
	return &PgxPreferenceRepository{pool: pool}
}

var _ portsrepo.PreferenceRepositoryFacade = (*PgxPreferenceRepository)(nil)

// UpsertPreference stores value under name for the user.
func (r *PgxPreferenceRepository) UpsertPreference(ctx context.Context, userID, name, value string, now time.Time) error {
	query := `
		INSERT INTO preferences (user_id, name, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id, name) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at;`
	_, err := r.pool.Exec(ctx, query, userID, name, value, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", userID))
		}
		return apperrors.NewAppError(500, fmt.Sprintf("failed to store preference %s", name), err)
	}
	return nil
}
