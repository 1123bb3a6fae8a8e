// Package events delivers post-commit ledger notifications to subscribers.
// Delivery happens on a single background worker, outside any storage
// transaction. A slow or failing subscriber never affects the publisher.
package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// Subscriber reacts to a ledger event. Returned errors are logged and dropped.
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, event domain.LedgerEvent) error
}

// Dispatcher queues events in a bounded buffer and fans them out to subscribers.
type Dispatcher struct {
	logger      *slog.Logger
	queue       chan domain.LedgerEvent
	mu          sync.RWMutex
	subscribers []Subscriber
	closed      bool
	done        chan struct{}
	startOnce   sync.Once
	closeOnce   sync.Once
}

var _ portssvc.EventPublisher = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher holding at most bufferSize undelivered events.
func NewDispatcher(bufferSize int, logger *slog.Logger) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		logger: logger,
		queue:  make(chan domain.LedgerEvent, bufferSize),
		done:   make(chan struct{}),
	}
}

// Subscribe registers s for every event published afterwards.
func (d *Dispatcher) Subscribe(s Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, s)
}

// Publish enqueues the event without blocking. When the buffer is full or the
// dispatcher is closed the event is dropped and logged.
func (d *Dispatcher) Publish(ctx context.Context, event domain.LedgerEvent) {
	if d == nil {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	logger := middleware.GetLoggerFromCtx(ctx)
	if d.closed {
		logger.Warn("Event dropped, dispatcher closed", slog.String("event_type", string(event.Type)))
		return
	}
	select {
	case d.queue <- event:
	default:
		logger.Warn("Event dropped, dispatcher buffer full",
			slog.String("event_type", string(event.Type)),
			slog.String("event_id", event.ID.String()),
		)
	}
}

// Start runs the delivery worker until ctx is cancelled or Close is called.
// Either way the dispatcher stops accepting events and delivers what is queued.
func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		go d.run(ctx)
	})
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			d.stop()
			d.drain(context.WithoutCancel(ctx))
			return
		case event, ok := <-d.queue:
			if !ok {
				return
			}
			d.deliver(ctx, event)
		}
	}
}

// stop rejects further publishes and closes the queue once.
func (d *Dispatcher) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.queue)
}

func (d *Dispatcher) drain(ctx context.Context) {
	for event := range d.queue {
		d.deliver(ctx, event)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event domain.LedgerEvent) {
	d.mu.RLock()
	subscribers := append([]Subscriber(nil), d.subscribers...)
	d.mu.RUnlock()

	for _, s := range subscribers {
		if err := s.Handle(ctx, event); err != nil {
			d.logger.Error("Event subscriber failed",
				slog.String("subscriber", s.Name()),
				slog.String("event_type", string(event.Type)),
				slog.String("user_id", event.UserID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Close stops accepting events and waits until the queued ones are delivered.
// It is safe to call after the Start context was cancelled.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.Start(context.Background())
		d.stop()
		<-d.done
	})
}
