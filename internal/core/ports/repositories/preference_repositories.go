package repositories

import (
	"context"
	"time"
)

// PreferenceWriter persists per-user preference values.
type PreferenceWriter interface {
	// UpsertPreference stores value under name for the user, replacing any previous value.
	UpsertPreference(ctx context.Context, userID, name, value string, now time.Time) error
}

// PreferenceRepositoryFacade combines all preference-related repository interfaces
type PreferenceRepositoryFacade interface {
	PreferenceWriter
}
