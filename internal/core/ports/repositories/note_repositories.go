package repositories

import "context"

// NoteReader reads free-text notes attached to journals.
type NoteReader interface {
	// FindNoteByJournalID returns the note text; apperrors.ErrNotFound when the journal has none.
	FindNoteByJournalID(ctx context.Context, userID string, journalID int64) (string, error)
}

// NoteRepositoryFacade combines all note-related repository interfaces
type NoteRepositoryFacade interface {
	NoteReader
}
