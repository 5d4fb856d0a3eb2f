package main

import (
	"context"
	"testing"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin/plugintest"
	"github.com/stretchr/testify/mock"

	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/affiliate"
)

// setupTestAPI returns a plugin API mock that accepts any log call.
func setupTestAPI(t *testing.T) *plugintest.API {
	api := &plugintest.API{}
	for i := 1; i <= 21; i += 2 {
		args := make([]interface{}, i)
		for j := range args {
			args[j] = mock.Anything
		}
		api.On("LogDebug", args...).Maybe().Return(nil)
		api.On("LogInfo", args...).Maybe().Return(nil)
		api.On("LogWarn", args...).Maybe().Return(nil)
		api.On("LogError", args...).Maybe().Return(nil)
	}
	t.Cleanup(func() { api.AssertExpectations(t) })
	return api
}

// newTestPlugin returns a plugin with the given store and configuration, and a linker that
// resolves links through resolver.
func newTestPlugin(api *plugintest.API, store affiliate.SettingsStore, config *configuration, resolver affiliate.URLResolver) *Plugin {
	p := &Plugin{store: store}
	p.SetAPI(api)
	p.setConfiguration(config)

	p.linker = affiliate.NewLinker(affiliate.Options{
		Store:    store,
		Defaults: config.defaults,
		Logger:   api,
		Resolver: resolver,
	})
	p.linkerConfig = config

	return p
}

type stubResolver map[string]string

func (s stubResolver) Resolve(_ context.Context, rawURL string) string {
	if final, ok := s[rawURL]; ok {
		return final
	}
	return rawURL
}

func teamChannel(id, teamID string) *model.Channel {
	return &model.Channel{Id: id, TeamId: teamID, Type: model.ChannelTypeOpen}
}

func directChannel(id string) *model.Channel {
	return &model.Channel{Id: id, Type: model.ChannelTypeDirect}
}
