package affiliate

import (
	"github.com/mattermost/mattermost/server/public/plugin/plugintest"
	"github.com/stretchr/testify/mock"
)

// setupTestAPI returns a plugin API mock that accepts any log call.
func setupTestAPI() *plugintest.API {
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
