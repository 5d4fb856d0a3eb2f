package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/affiliate"
)

func TestParseTrackingTags(t *testing.T) {
	for name, tc := range map[string]struct {
		raw     string
		want    map[string]string
		wantErr bool
	}{
		"empty": {
			raw:  "",
			want: map[string]string{},
		},
		"new lines and commas": {
			raw:  "de=abc-21\nco.uk = xyz-21, com=foo-20",
			want: map[string]string{"de": "abc-21", "co.uk": "xyz-21", "com": "foo-20"},
		},
		"semicolons and upper case region": {
			raw:  "DE=abc-21;fr=def-21;",
			want: map[string]string{"de": "abc-21", "fr": "def-21"},
		},
		"missing tag": {
			raw:     "de=",
			wantErr: true,
		},
		"missing separator": {
			raw:     "abc-21",
			wantErr: true,
		},
		"unknown region": {
			raw:     "xx=abc-21",
			wantErr: true,
		},
		"global is not a region": {
			raw:     "global=abc-21",
			wantErr: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := parseTrackingTags(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuildDefaults(t *testing.T) {
	t.Run("settings win over the environment", func(t *testing.T) {
		config := &configuration{
			DefaultTrackingTags: "de=settings-21",
			DefaultTeamFooter:   " Support us! ",
			FallbackRegion:      "FR",
		}
		env := map[string]string{
			"DEFAULT_TRACKING_TAG_DE":    "env-21",
			"DEFAULT_TRACKING_TAG_CO_UK": "env-uk-21",
			"DEFAULT_SIGNATURE":          "Tagged by the server",
			"UNRELATED":                  "value",
		}

		defaults, err := config.buildDefaults(env)
		require.NoError(t, err)

		assert.Equal(t, affiliate.Defaults{
			Tags:           map[string]string{"de": "settings-21", "co.uk": "env-uk-21"},
			Signature:      "Tagged by the server",
			TeamFooter:     "Support us!",
			FallbackRegion: "fr",
		}, defaults)
	})

	t.Run("signature setting wins", func(t *testing.T) {
		config := &configuration{DefaultSignature: "From settings"}

		defaults, err := config.buildDefaults(map[string]string{"DEFAULT_SIGNATURE": "From env"})
		require.NoError(t, err)
		assert.Equal(t, "From settings", defaults.Signature)
	})

	t.Run("blank environment values are skipped", func(t *testing.T) {
		config := &configuration{}

		defaults, err := config.buildDefaults(map[string]string{"DEFAULT_TRACKING_TAG_DE": "  "})
		require.NoError(t, err)
		assert.Empty(t, defaults.Tags)
	})

	t.Run("invalid settings", func(t *testing.T) {
		config := &configuration{DefaultTrackingTags: "nope"}

		_, err := config.buildDefaults(nil)
		require.Error(t, err)
	})
}

func TestConfigurationIsValid(t *testing.T) {
	for name, tc := range map[string]struct {
		config  configuration
		wantErr bool
	}{
		"zero value":                   {config: configuration{}},
		"sqlite with url":              {config: configuration{StoreDriver: "sqlite", DatabaseURL: "file:affiliate.db"}},
		"sqlite without url":           {config: configuration{StoreDriver: "sqlite"}, wantErr: true},
		"unknown driver":               {config: configuration{StoreDriver: "postgres"}, wantErr: true},
		"negative timeout":             {config: configuration{ResolveTimeoutSeconds: -1}, wantErr: true},
		"negative hint lifetime":       {config: configuration{HintLifetimeSeconds: -1}, wantErr: true},
		"fallback disabled":            {config: configuration{FallbackRegion: "none"}},
		"fallback region":              {config: configuration{FallbackRegion: "co.uk"}},
		"unknown fallback region":      {config: configuration{FallbackRegion: "atlantis"}, wantErr: true},
		"global is not a fallback too": {config: configuration{FallbackRegion: "global"}, wantErr: true},
	} {
		t.Run(name, func(t *testing.T) {
			err := tc.config.IsValid()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigurationDurations(t *testing.T) {
	config := &configuration{}
	assert.Equal(t, affiliate.DefaultResolveTimeout, config.resolveTimeout())
	assert.Equal(t, defaultHintLifetime, config.hintLifetime())
	assert.Equal(t, storeDriverKV, config.storeDriver())

	config = &configuration{ResolveTimeoutSeconds: 3, HintLifetimeSeconds: 30, StoreDriver: " SQLite "}
	assert.Equal(t, 3*time.Second, config.resolveTimeout())
	assert.Equal(t, 30*time.Second, config.hintLifetime())
	assert.Equal(t, storeDriverSQLite, config.storeDriver())
}
