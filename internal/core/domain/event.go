package domain

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEventType names a post-commit change notification.
type LedgerEventType string

const (
	EventJournalConverted LedgerEventType = "journal.converted"
	EventLegsReconciled   LedgerEventType = "legs.reconciled"
)

// LedgerEvent tells dependent caches that committed ledger state changed.
type LedgerEvent struct {
	ID         uuid.UUID       `json:"id"`
	Type       LedgerEventType `json:"type"`
	UserID     string          `json:"userID"`
	JournalIDs []int64         `json:"journalIDs"`
	LegIDs     []int64         `json:"legIDs,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// NewLedgerEvent stamps a new event with a fresh id.
func NewLedgerEvent(eventType LedgerEventType, userID string, journalIDs, legIDs []int64, at time.Time) LedgerEvent {
	return LedgerEvent{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		JournalIDs: journalIDs,
		LegIDs:     legIDs,
		OccurredAt: at,
	}
}
