package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Publisher portssvc.EventPublisher
	Clock     func() time.Time
}

func newBaseService(publisher portssvc.EventPublisher) BaseService {
	return BaseService{Publisher: publisher, Clock: time.Now}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}

// publish hands a committed change to the event publisher, if any.
// It must only be called after the storage transaction committed.
func (s *BaseService) publish(ctx context.Context, event domain.LedgerEvent) {
	if s.Publisher == nil {
		return
	}
	s.Publisher.Publish(ctx, event)
}
