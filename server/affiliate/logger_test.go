package affiliate_test

import (
	"context"

	"github.com/mattermost/mattermost/server/public/plugin/plugintest"
	"github.com/stretchr/testify/mock"
)

func setupLogAPI() *plugintest.API {
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
	return api
}

// stubResolver maps short links to their landing URL and returns anything else as is.
type stubResolver map[string]string

func (s stubResolver) Resolve(_ context.Context, rawURL string) string {
	if final, ok := s[rawURL]; ok {
		return final
	}
	return rawURL
}

type recordingObserver struct {
	outcomes     []string
	compositions []string
	regions      []string
	redirects    int
}

func (o *recordingObserver) LinkProcessed(outcome string) {
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) RedirectFailed() {
	o.redirects++
}

func (o *recordingObserver) UsageRecorded(region string) {
	o.regions = append(o.regions, region)
}

func (o *recordingObserver) MessageClassified(composition string) {
	o.compositions = append(o.compositions, composition)
}
