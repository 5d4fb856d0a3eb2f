// Package affiliate turns marketplace links shared in chat into affiliate-tagged links.
//
// The package holds the link pipeline only: extraction, redirect resolution, marketplace
// parsing, message classification, tag resolution and usage recording. Delivery of the
// results is left to the caller, which receives an Intent describing what to present.
package affiliate

import (
	"context"
	"errors"
	"time"
)

// DirectMessage is the scope used for direct and group messages, where no team settings apply.
const DirectMessage Scope = "DM"

// DefaultTeamFooter is used for team scopes that never configured a footer.
const DefaultTeamFooter = "Using this link you support our server!"

// DefaultFallbackRegion is the region assigned to links whose host is not amazon.<suffix>.
const DefaultFallbackRegion = "de"

// NoFallbackRegion disables the region fallback so such links are rejected.
const NoFallbackRegion = "none"

var (
	// ErrTagUnavailable is returned when no tier of the fallback chain has a tag for the region.
	ErrTagUnavailable = errors.New("no tracking tag available for region")

	// ErrUnknownRegion is returned when a configuration change targets a region that is not a marketplace.
	ErrUnknownRegion = errors.New("unknown marketplace region")
)

// Scope identifies where settings are looked up: a team or the direct-message sentinel.
type Scope string

// TeamScope returns the scope of the given team. An empty team id means a direct message.
func TeamScope(teamID string) Scope {
	if teamID == "" {
		return DirectMessage
	}
	return Scope(teamID)
}

// IsDirectMessage reports whether the scope is the direct-message sentinel.
func (s Scope) IsDirectMessage() bool {
	return s == DirectMessage
}

// String returns the scope id.
func (s Scope) String() string {
	return string(s)
}

// UsageEvent is one successful tag resolution.
type UsageEvent struct {
	Scope  Scope
	Region string
	At     time.Time
}

// RegionCount is an aggregate of usage events for one region.
type RegionCount struct {
	Region string `json:"region"`
	Count  int64  `json:"count"`
}

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks . SettingsStore

// SettingsStore persists per-scope tags, footers and the usage log.
// Writes are idempotent upserts keyed by scope and region.
type SettingsStore interface {
	// GetTag returns the stored tag for the region, and whether a row exists.
	GetTag(ctx context.Context, scope Scope, region string) (string, bool, error)
	// GetFooter returns the stored footer template, and whether a row exists.
	GetFooter(ctx context.Context, scope Scope) (string, bool, error)
	// ListTags returns every configured region of the scope with its tag.
	ListTags(ctx context.Context, scope Scope) (map[string]string, error)
	SetTag(ctx context.Context, scope Scope, region, tag string) error
	SetFooter(ctx context.Context, scope Scope, template string) error
	AppendUsage(ctx context.Context, event UsageEvent) error
	// CountUsage counts usage events of the scope, or of every scope when scope is nil.
	CountUsage(ctx context.Context, scope *Scope) (int64, error)
	// TopRegions returns the regions of the scope ordered by usage count, highest first.
	TopRegions(ctx context.Context, scope Scope, limit int) ([]RegionCount, error)
}

// Logger is the subset of the plugin API used for logging. Key/value pairs alternate.
type Logger interface {
	LogDebug(msg string, keyValuePairs ...interface{})
	LogInfo(msg string, keyValuePairs ...interface{})
	LogWarn(msg string, keyValuePairs ...interface{})
	LogError(msg string, keyValuePairs ...interface{})
}

// Observer receives pipeline outcomes, typically to feed metrics.
type Observer interface {
	LinkProcessed(outcome string)
	RedirectFailed()
	UsageRecorded(region string)
	MessageClassified(composition string)
}

type nopObserver struct{}

func (nopObserver) LinkProcessed(string)     {}
func (nopObserver) RedirectFailed()          {}
func (nopObserver) UsageRecorded(string)     {}
func (nopObserver) MessageClassified(string) {}
