package command

import (
	"testing"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin/plugintest"
	"github.com/mattermost/mattermost/server/public/pluginapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type env struct {
	client *pluginapi.Client
	api    *plugintest.API
}

func setupTest() *env {
	api := &plugintest.API{}
	driver := &plugintest.Driver{}
	client := pluginapi.NewClient(api, driver)

	return &env{
		api:    api,
		client: client,
	}
}

type recordingDispatcher struct {
	invocations []Invocation
}

func (d *recordingDispatcher) Dispatch(_ *model.CommandArgs, invocation Invocation) (*model.CommandResponse, error) {
	d.invocations = append(d.invocations, invocation)
	return &model.CommandResponse{Text: "dispatched"}, nil
}

func TestNewCommandHandlerRegistersCommands(t *testing.T) {
	env := setupTest()
	env.api.On("RegisterCommand", mock.MatchedBy(func(cmd *model.Command) bool {
		return cmd.Trigger == amazonCommandTrigger && cmd.AutocompleteData != nil
	})).Return(nil).Once()
	env.api.On("RegisterCommand", mock.MatchedBy(func(cmd *model.Command) bool {
		return cmd.Trigger == affiliateCommandTrigger && len(cmd.AutocompleteData.SubCommands) == 3
	})).Return(nil).Once()

	NewCommandHandler(env.client, &recordingDispatcher{})

	env.api.AssertExpectations(t)
}

func TestHandleDispatchesInvocations(t *testing.T) {
	env := setupTest()
	env.api.On("RegisterCommand", mock.Anything).Return(nil)

	dispatcher := &recordingDispatcher{}
	handler := NewCommandHandler(env.client, dispatcher)

	for _, text := range []string{
		"/amazon https://amzn.to/abc",
		"/affiliate configure DE",
		"/affiliate stats",
		"/affiliate",
	} {
		response, err := handler.Handle(&model.CommandArgs{Command: text})
		require.NoError(t, err)
		assert.Equal(t, "dispatched", response.Text)
	}

	assert.Equal(t, []Invocation{
		TagLinkInvocation{URL: "https://amzn.to/abc"},
		ConfigureInvocation{Region: "de"},
		StatsInvocation{},
		HelpInvocation{},
	}, dispatcher.invocations)
}

func TestHandleUsageErrors(t *testing.T) {
	env := setupTest()
	env.api.On("RegisterCommand", mock.Anything).Return(nil)

	dispatcher := &recordingDispatcher{}
	handler := NewCommandHandler(env.client, dispatcher)

	tests := []struct {
		command  string
		expected string
	}{
		{command: "/amazon", expected: "Please provide an Amazon link: `/amazon <link>`"},
		{command: "/affiliate configure", expected: "Please choose a region: `/affiliate configure <region>`"},
		{command: "/hello world", expected: "Unknown command: /hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			response, err := handler.Handle(&model.CommandArgs{Command: tt.command})
			require.NoError(t, err)
			assert.Equal(t, model.CommandResponseTypeEphemeral, response.ResponseType)
			assert.Equal(t, tt.expected, response.Text)
		})
	}

	assert.Empty(t, dispatcher.invocations)
}

func TestParse(t *testing.T) {
	tests := []struct {
		text     string
		expected Invocation
	}{
		{text: "/amazon   amazon.de/dp/B0X  trailing words", expected: TagLinkInvocation{URL: "amazon.de/dp/B0X"}},
		{text: "/affiliate CONFIGURE co.uk", expected: ConfigureInvocation{Region: "co.uk"}},
		{text: "/affiliate help", expected: HelpInvocation{}},
		{text: "/affiliate unknown", expected: HelpInvocation{}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			invocation, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, invocation)
		})
	}

	_, err := Parse("   ")
	assert.Error(t, err)
}
