package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/affiliate"
)

const (
	storeDriverKV     = "kvstore"
	storeDriverSQLite = "sqlite"

	defaultHintLifetime = 10 * time.Second

	envTagPrefix = "DEFAULT_TRACKING_TAG_"
	envSignature = "DEFAULT_SIGNATURE"
	envFileName  = ".env"
)

// configuration captures the plugin's external configuration as exposed in the Mattermost server
// configuration, as well as values computed from the configuration. Any public fields will be
// deserialized from the Mattermost server configuration in OnConfigurationChange.
//
// As plugins are inherently concurrent (hooks being called asynchronously), and the plugin
// configuration can change at any time, access to the configuration must be synchronized. The
// strategy used in this plugin is to guard a pointer to the configuration, and clone the entire
// struct whenever it changes.
type configuration struct {
	// DefaultTrackingTags holds region=tag pairs separated by commas or new lines.
	DefaultTrackingTags   string
	DefaultSignature      string
	DefaultTeamFooter     string
	FallbackRegion        string
	StoreDriver           string
	DatabaseURL           string
	ResolveTimeoutSeconds int
	HintLifetimeSeconds   int

	// defaults is computed from the fields above and the environment.
	defaults affiliate.Defaults
}

func (c *configuration) storeDriver() string {
	driver := strings.ToLower(strings.TrimSpace(c.StoreDriver))
	if driver == "" {
		return storeDriverKV
	}
	return driver
}

func (c *configuration) resolveTimeout() time.Duration {
	if c.ResolveTimeoutSeconds <= 0 {
		return affiliate.DefaultResolveTimeout
	}
	return time.Duration(c.ResolveTimeoutSeconds) * time.Second
}

func (c *configuration) hintLifetime() time.Duration {
	if c.HintLifetimeSeconds <= 0 {
		return defaultHintLifetime
	}
	return time.Duration(c.HintLifetimeSeconds) * time.Second
}

// IsValid checks the settings that cannot be defaulted.
func (c *configuration) IsValid() error {
	switch c.storeDriver() {
	case storeDriverKV:
	case storeDriverSQLite:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DatabaseURL is required when StoreDriver is sqlite")
		}
	default:
		return errors.Errorf("unknown StoreDriver %q, must be %s or %s", c.StoreDriver, storeDriverKV, storeDriverSQLite)
	}

	if c.ResolveTimeoutSeconds < 0 {
		return errors.New("ResolveTimeoutSeconds must not be negative")
	}
	if c.HintLifetimeSeconds < 0 {
		return errors.New("HintLifetimeSeconds must not be negative")
	}

	fallback := strings.ToLower(strings.TrimSpace(c.FallbackRegion))
	if fallback != "" && fallback != affiliate.NoFallbackRegion && (fallback == affiliate.GlobalRegion || !affiliate.IsKnownRegion(fallback)) {
		return errors.Errorf("unknown FallbackRegion %q", c.FallbackRegion)
	}

	return nil
}

// buildDefaults merges the default tags of the settings with the environment. Settings win over
// the environment for the same region.
func (c *configuration) buildDefaults(env map[string]string) (affiliate.Defaults, error) {
	tags := map[string]string{}

	for key, value := range env {
		suffix, ok := strings.CutPrefix(key, envTagPrefix)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		region := strings.ToLower(strings.ReplaceAll(suffix, "_", "."))
		tags[region] = strings.TrimSpace(value)
	}

	configured, err := parseTrackingTags(c.DefaultTrackingTags)
	if err != nil {
		return affiliate.Defaults{}, err
	}
	for region, tag := range configured {
		tags[region] = tag
	}

	signature := c.DefaultSignature
	if strings.TrimSpace(signature) == "" {
		signature = env[envSignature]
	}

	return affiliate.Defaults{
		Tags:           tags,
		Signature:      strings.TrimSpace(signature),
		TeamFooter:     strings.TrimSpace(c.DefaultTeamFooter),
		FallbackRegion: strings.ToLower(strings.TrimSpace(c.FallbackRegion)),
	}, nil
}

// parseTrackingTags reads region=tag pairs separated by commas, semicolons or new lines.
func parseTrackingTags(raw string) (map[string]string, error) {
	tags := map[string]string{}

	entries := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		region, tag, ok := strings.Cut(entry, "=")
		region = strings.ToLower(strings.TrimSpace(region))
		tag = strings.TrimSpace(tag)
		if !ok || region == "" || tag == "" {
			return nil, errors.Errorf("invalid default tracking tag %q, expected region=tag", entry)
		}
		if region == affiliate.GlobalRegion || !affiliate.IsKnownRegion(region) {
			return nil, errors.Errorf("unknown region %q in default tracking tags", region)
		}

		tags[region] = tag
	}

	return tags, nil
}

// loadEnvironment reads the .env file of the plugin bundle, then the process environment,
// which wins for keys present in both.
func (p *Plugin) loadEnvironment() map[string]string {
	env := map[string]string{}

	bundlePath, err := p.API.GetBundlePath()
	if err != nil {
		p.API.LogWarn("Failed to get bundle path, skipping .env file", "error", err.Error())
	} else {
		values, err := godotenv.Read(filepath.Join(bundlePath, envFileName))
		switch {
		case err == nil:
			for key, value := range values {
				env[key] = value
			}
		case !errors.Is(err, os.ErrNotExist):
			p.API.LogWarn("Failed to read .env file", "error", err.Error())
		}
	}

	for _, pair := range os.Environ() {
		key, value, _ := strings.Cut(pair, "=")
		if strings.HasPrefix(key, envTagPrefix) || key == envSignature {
			env[key] = value
		}
	}

	return env
}

// getConfiguration retrieves the active configuration under lock, making it safe to use
// concurrently. The active configuration may change underneath the client of this method, but
// the struct returned by this API call is considered immutable.
func (p *Plugin) getConfiguration() *configuration {
	p.configurationLock.RLock()
	defer p.configurationLock.RUnlock()

	if p.configuration == nil {
		return &configuration{}
	}

	return p.configuration
}

// setConfiguration replaces the active configuration under lock.
//
// Do not call setConfiguration while holding the configurationLock, as sync.Mutex is not
// reentrant. In particular, avoid using the plugin API entirely, as this may in turn trigger a
// hook back into the plugin. If that hook attempts to acquire this lock, a deadlock may occur.
//
// This method panics if setConfiguration is called with the existing configuration. This almost
// certainly means that the configuration was modified without being cloned and may result in
// an unsafe access.
func (p *Plugin) setConfiguration(configuration *configuration) {
	p.configurationLock.Lock()
	defer p.configurationLock.Unlock()

	if configuration != nil && p.configuration == configuration {
		// Ignore assignment if the configuration struct is empty. Go will optimize the
		// allocation for same to point at the same memory address, breaking the check
		// above.
		if reflect.ValueOf(*configuration).NumField() == 0 {
			return
		}

		panic("setConfiguration called with the existing configuration")
	}

	p.configuration = configuration
}

// OnConfigurationChange is invoked when configuration changes may have been made.
// A StoreDriver or DatabaseURL change takes effect on the next activation.
func (p *Plugin) OnConfigurationChange() error {
	var config = new(configuration)

	// Load the public configuration fields from the Mattermost server configuration.
	if err := p.API.LoadPluginConfiguration(config); err != nil {
		return errors.Wrap(err, "failed to load plugin configuration")
	}

	if err := config.IsValid(); err != nil {
		p.API.LogError("Invalid plugin configuration", "error", err.Error())
		return errors.Wrap(err, "invalid plugin configuration")
	}

	defaults, err := config.buildDefaults(p.loadEnvironment())
	if err != nil {
		p.API.LogError("Invalid default tracking tags", "error", err.Error())
		return errors.Wrap(err, "invalid default tracking tags")
	}
	config.defaults = defaults

	p.setConfiguration(config)

	p.API.LogDebug("Configuration loaded", "regions", len(defaults.Tags), "store", config.storeDriver())

	return nil
}
