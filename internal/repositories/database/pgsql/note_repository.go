package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxNoteRepository struct {
	pool *pgxpool.Pool
}

func newPgxNoteRepository(pool *pgxpool.Pool) portsrepo.NoteRepositoryFacade {
	return &PgxNoteRepository{pool: pool}
}

var _ portsrepo.NoteRepositoryFacade = (*PgxNoteRepository)(nil)

// FindNoteByJournalID returns the note attached to a live journal of the user.
func (r *PgxNoteRepository) FindNoteByJournalID(ctx context.Context, userID string, journalID int64) (string, error) {
	query := `
		SELECT n.text
		FROM notes n
		JOIN transaction_journals j ON j.id = n.journal_id
		WHERE n.journal_id = $1 AND j.user_id = $2 AND j.deleted_at IS NULL;`
	var text string
	if err := r.pool.QueryRow(ctx, query, journalID, userID).Scan(&text); err != nil {
		return "", mapNoRows(err, fmt.Sprintf("note of journal %d", journalID))
	}
	return text, nil
}
