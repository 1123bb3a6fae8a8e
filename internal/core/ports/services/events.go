package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// EventPublisher delivers post-commit notifications. Publish must not block and
// cannot fail the operation that raised the event.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent)
}
