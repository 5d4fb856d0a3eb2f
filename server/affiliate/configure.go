package affiliate

import (
	"context"
	"sort"
	"strings"
)

// ConfigChange is a submitted team configuration. Blank fields are left untouched.
type ConfigChange struct {
	Region string
	Tag    string
	Footer string
}

// Configurator writes team tags and footers.
type Configurator struct {
	store SettingsStore
	log   Logger
}

// NewConfigurator creates a configurator writing to store.
func NewConfigurator(store SettingsStore, log Logger) *Configurator {
	return &Configurator{store: store, log: log}
}

// Current returns the stored tag of the region and the stored footer, empty when unset.
// For GlobalRegion the tag is empty.
func (c *Configurator) Current(ctx context.Context, scope Scope, region string) (string, string) {
	var tag string
	if region != GlobalRegion {
		t, _, err := c.store.GetTag(ctx, scope, region)
		if err != nil {
			c.log.LogWarn("Failed to read current tag", "scope", scope.String(), "region", region, "error", err.Error())
		}
		tag = t
	}

	footer, _, err := c.store.GetFooter(ctx, scope)
	if err != nil {
		c.log.LogWarn("Failed to read current footer", "scope", scope.String(), "error", err.Error())
		footer = ""
	}

	return tag, footer
}

// Apply stores the change and returns how many writes succeeded. A tag for GlobalRegion is
// written to every region the team already configured, or to the seed regions when there
// are none. Failed writes are logged and not counted.
func (c *Configurator) Apply(ctx context.Context, scope Scope, change ConfigChange) (int, error) {
	region := strings.ToLower(strings.TrimSpace(change.Region))
	if !IsKnownRegion(region) {
		return 0, ErrUnknownRegion
	}

	writes := 0

	if tag := strings.TrimSpace(change.Tag); tag != "" {
		for _, target := range c.tagTargets(ctx, scope, region) {
			if err := c.store.SetTag(ctx, scope, target, tag); err != nil {
				c.log.LogError("Failed to store tracking tag", "scope", scope.String(), "region", target, "error", err.Error())
				continue
			}
			writes++
		}
	}

	if footer := strings.TrimSpace(change.Footer); footer != "" {
		if err := c.store.SetFooter(ctx, scope, footer); err != nil {
			c.log.LogError("Failed to store footer", "scope", scope.String(), "error", err.Error())
		} else {
			writes++
		}
	}

	return writes, nil
}

func (c *Configurator) tagTargets(ctx context.Context, scope Scope, region string) []string {
	if region != GlobalRegion {
		return []string{region}
	}

	existing, err := c.store.ListTags(ctx, scope)
	if err != nil {
		c.log.LogError("Failed to list configured regions", "scope", scope.String(), "error", err.Error())
		return nil
	}

	if len(existing) == 0 {
		return seedRegions
	}

	regions := make([]string, 0, len(existing))
	for r := range existing {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}
