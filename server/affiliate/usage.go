package affiliate

import (
	"context"
	"time"
)

// UsageRecorder appends a usage event for every resolved tag.
type UsageRecorder struct {
	store    SettingsStore
	now      func() time.Time
	log      Logger
	observer Observer
}

// NewUsageRecorder creates a recorder writing to store.
func NewUsageRecorder(store SettingsStore, log Logger) *UsageRecorder {
	return &UsageRecorder{
		store:    store,
		now:      time.Now,
		log:      log,
		observer: nopObserver{},
	}
}

// Record appends one event. Store failures are logged and otherwise ignored.
func (u *UsageRecorder) Record(ctx context.Context, scope Scope, region string) {
	event := UsageEvent{
		Scope:  scope,
		Region: region,
		At:     u.now().UTC(),
	}

	if err := u.store.AppendUsage(ctx, event); err != nil {
		u.log.LogError("Failed to record link usage", "scope", scope.String(), "region", region, "error", err.Error())
		return
	}

	u.observer.UsageRecorded(region)
}
