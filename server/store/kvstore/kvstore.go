package kvstore

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/mattermost/mattermost/server/public/pluginapi"
	"github.com/pkg/errors"

	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/affiliate"
)

// Tags and footers are kept per scope. Usage is not stored as an event log: each event
// increments the summary of all scopes first and then the summary of its scope, which is all
// the stats need. A failure between the two writes leaves the scope total short, never above
// the global total. Keys stay well below the 150 character limit of the KV store.
const (
	tagsKeyPrefix   = "tags_"
	footerKeyPrefix = "footer_"
	usageKeyPrefix  = "usage_"
	usageAllKey     = "usage_all"
)

// UsageSummary is the aggregated usage of one scope.
type UsageSummary struct {
	Total   int64            `json:"total"`
	Regions map[string]int64 `json:"regions"`
	LastAt  time.Time        `json:"lastAt"`
}

// Client stores affiliate settings in the plugin KV store.
// We expose the KV calls through affiliate.SettingsStore so the pipeline does not depend on key layout.
type Client struct {
	client *pluginapi.Client
}

var _ affiliate.SettingsStore = (*Client)(nil)

// NewKVStore returns a store backed by the plugin KV store.
func NewKVStore(client *pluginapi.Client) *Client {
	return &Client{
		client: client,
	}
}

func tagsKey(scope affiliate.Scope) string {
	return tagsKeyPrefix + scope.String()
}

func footerKey(scope affiliate.Scope) string {
	return footerKeyPrefix + scope.String()
}

func usageKey(scope affiliate.Scope) string {
	return usageKeyPrefix + scope.String()
}

// ListTags returns the region to tag map of the scope.
func (kv *Client) ListTags(_ context.Context, scope affiliate.Scope) (map[string]string, error) {
	tags := map[string]string{}
	if err := kv.client.KV.Get(tagsKey(scope), &tags); err != nil {
		return nil, errors.Wrapf(err, "failed to get tags for %s", scope)
	}
	if tags == nil {
		tags = map[string]string{}
	}
	return tags, nil
}

// GetTag returns the tag of one region of the scope and whether it is set.
func (kv *Client) GetTag(ctx context.Context, scope affiliate.Scope, region string) (string, bool, error) {
	tags, err := kv.ListTags(ctx, scope)
	if err != nil {
		return "", false, err
	}
	tag, ok := tags[region]
	return tag, ok, nil
}

// SetTag upserts one region of the scope's tag map. Concurrent writers are retried.
func (kv *Client) SetTag(_ context.Context, scope affiliate.Scope, region, tag string) error {
	err := kv.client.KV.SetAtomicWithRetries(tagsKey(scope), func(oldValue []byte) (interface{}, error) {
		tags := map[string]string{}
		if len(oldValue) > 0 {
			if err := json.Unmarshal(oldValue, &tags); err != nil {
				return nil, errors.Wrap(err, "failed to unmarshal stored tags")
			}
		}
		if tags == nil {
			tags = map[string]string{}
		}
		tags[region] = tag
		return tags, nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to set tag for %s/%s", scope, region)
	}
	return nil
}

// GetFooter returns the footer template of the scope and whether it is set.
func (kv *Client) GetFooter(_ context.Context, scope affiliate.Scope) (string, bool, error) {
	var footer *string
	if err := kv.client.KV.Get(footerKey(scope), &footer); err != nil {
		return "", false, errors.Wrapf(err, "failed to get footer for %s", scope)
	}
	if footer == nil {
		return "", false, nil
	}
	return *footer, true, nil
}

// SetFooter replaces the footer template of the scope.
func (kv *Client) SetFooter(_ context.Context, scope affiliate.Scope, template string) error {
	if _, err := kv.client.KV.Set(footerKey(scope), template); err != nil {
		return errors.Wrapf(err, "failed to set footer for %s", scope)
	}
	return nil
}

// AppendUsage adds the event to the summary of all scopes, then to the scope summary.
func (kv *Client) AppendUsage(_ context.Context, event affiliate.UsageEvent) error {
	for _, key := range []string{usageAllKey, usageKey(event.Scope)} {
		if err := kv.client.KV.SetAtomicWithRetries(key, incrementUsage(event)); err != nil {
			return errors.Wrapf(err, "failed to record usage in %s", key)
		}
	}
	return nil
}

func incrementUsage(event affiliate.UsageEvent) func([]byte) (interface{}, error) {
	return func(oldValue []byte) (interface{}, error) {
		summary := UsageSummary{}
		if len(oldValue) > 0 {
			if err := json.Unmarshal(oldValue, &summary); err != nil {
				return nil, errors.Wrap(err, "failed to unmarshal usage summary")
			}
		}
		if summary.Regions == nil {
			summary.Regions = map[string]int64{}
		}
		summary.Total++
		summary.Regions[event.Region]++
		if event.At.After(summary.LastAt) {
			summary.LastAt = event.At
		}
		return summary, nil
	}
}

func (kv *Client) usageSummary(key string) (UsageSummary, error) {
	summary := UsageSummary{}
	if err := kv.client.KV.Get(key, &summary); err != nil {
		return UsageSummary{}, errors.Wrapf(err, "failed to get usage summary %s", key)
	}
	return summary, nil
}

// CountUsage returns the total of the scope, or of every scope when scope is nil.
func (kv *Client) CountUsage(_ context.Context, scope *affiliate.Scope) (int64, error) {
	key := usageAllKey
	if scope != nil {
		key = usageKey(*scope)
	}
	summary, err := kv.usageSummary(key)
	if err != nil {
		return 0, err
	}
	return summary.Total, nil
}

// TopRegions returns the most used regions of the scope, highest count first.
func (kv *Client) TopRegions(_ context.Context, scope affiliate.Scope, limit int) ([]affiliate.RegionCount, error) {
	summary, err := kv.usageSummary(usageKey(scope))
	if err != nil {
		return nil, err
	}

	counts := make([]affiliate.RegionCount, 0, len(summary.Regions))
	for region, count := range summary.Regions {
		counts = append(counts, affiliate.RegionCount{Region: region, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Region < counts[j].Region
	})

	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}
