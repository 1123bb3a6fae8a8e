package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// LastActivityPreference is the preference row touched after every ledger change.
// Views keyed on it rebuild their cached data.
const LastActivityPreference = "lastActivity"

// PreferenceMarker stamps the user's lastActivity preference.
type PreferenceMarker struct {
	prefs portsrepo.PreferenceWriter
}

// NewPreferenceMarker creates a PreferenceMarker writing through prefs.
func NewPreferenceMarker(prefs portsrepo.PreferenceWriter) *PreferenceMarker {
	return &PreferenceMarker{prefs: prefs}
}

func (m *PreferenceMarker) Name() string { return "preference_marker" }

func (m *PreferenceMarker) Handle(ctx context.Context, event domain.LedgerEvent) error {
	value := strconv.FormatInt(event.OccurredAt.UnixMilli(), 10)
	if err := m.prefs.UpsertPreference(ctx, event.UserID, LastActivityPreference, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark last activity for user %s: %w", event.UserID, err)
	}
	return nil
}

// analyticsSink is the part of the PostHog wrapper the tracker needs.
type analyticsSink interface {
	Enqueue(distinctID string, event string, properties map[string]any) error
}

// AnalyticsTracker forwards ledger events to product analytics.
type AnalyticsTracker struct {
	sink analyticsSink
}

// NewAnalyticsTracker creates an AnalyticsTracker. The PostHog wrapper satisfies sink.
func NewAnalyticsTracker(sink analyticsSink) *AnalyticsTracker {
	return &AnalyticsTracker{sink: sink}
}

func (t *AnalyticsTracker) Name() string { return "analytics_tracker" }

func (t *AnalyticsTracker) Handle(_ context.Context, event domain.LedgerEvent) error {
	props := map[string]any{
		"event_id":    event.ID.String(),
		"journal_ids": event.JournalIDs,
		"leg_ids":     event.LegIDs,
		"occurred_at": event.OccurredAt.Format(time.RFC3339),
	}
	return t.sink.Enqueue(event.UserID, string(event.Type), props)
}
