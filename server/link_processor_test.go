package main

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin/plugintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/affiliate"
)

const testBotID = "bot1"

type stubHandler struct {
	intent   affiliate.Intent
	messages []affiliate.Message
}

func (h *stubHandler) HandleMessage(_ context.Context, msg affiliate.Message) affiliate.Intent {
	h.messages = append(h.messages, msg)
	return h.intent
}

func newTestProcessor(t *testing.T) (*LinkProcessor, *deletionScheduler, *stubHandler, *plugintest.API) {
	api := setupTestAPI(t)
	replies := NewReplyService(api, testBotID)
	deletions := newDeletionScheduler(replies.DeletePost, api)
	t.Cleanup(deletions.Close)

	return NewLinkProcessor(api, replies, deletions, testBotID), deletions, &stubHandler{}, api
}

func TestProcessPostSkips(t *testing.T) {
	t.Run("bot post", func(t *testing.T) {
		lp, _, handler, _ := newTestProcessor(t)
		post := &model.Post{Id: "p1", UserId: testBotID, ChannelId: "c1", Message: "https://amazon.de/dp/B0EXAMPLE/"}

		require.NoError(t, lp.ProcessPost(context.Background(), handler, post, time.Second))
		assert.Empty(t, handler.messages)
	})

	t.Run("no marketplace link", func(t *testing.T) {
		lp, _, handler, _ := newTestProcessor(t)
		post := &model.Post{Id: "p1", UserId: "u1", ChannelId: "c1", Message: "hello there"}

		require.NoError(t, lp.ProcessPost(context.Background(), handler, post, time.Second))
		assert.Empty(t, handler.messages)
	})

	t.Run("system message", func(t *testing.T) {
		lp, _, handler, _ := newTestProcessor(t)
		post := &model.Post{Id: "p1", UserId: "u1", ChannelId: "c1", Type: model.PostTypeJoinChannel, Message: "amazon.de joined"}

		require.NoError(t, lp.ProcessPost(context.Background(), handler, post, time.Second))
		assert.Empty(t, handler.messages)
	})

	t.Run("direct channel", func(t *testing.T) {
		lp, _, handler, api := newTestProcessor(t)
		api.On("GetChannel", "c1").Return(directChannel("c1"), nil)
		post := &model.Post{Id: "p1", UserId: "u1", ChannelId: "c1", Message: "https://amazon.de/dp/B0EXAMPLE/"}

		require.NoError(t, lp.ProcessPost(context.Background(), handler, post, time.Second))
		assert.Empty(t, handler.messages)
	})

	t.Run("bot author", func(t *testing.T) {
		lp, _, handler, api := newTestProcessor(t)
		api.On("GetChannel", "c1").Return(teamChannel("c1", "team1"), nil)
		api.On("GetUser", "u1").Return(&model.User{Id: "u1", Username: "otherbot", IsBot: true}, nil)
		post := &model.Post{Id: "p1", UserId: "u1", ChannelId: "c1", Message: "https://amazon.de/dp/B0EXAMPLE/"}

		require.NoError(t, lp.ProcessPost(context.Background(), handler, post, time.Second))
		assert.Empty(t, handler.messages)
	})
}

func TestProcessPostLinkOnly(t *testing.T) {
	lp, deletions, handler, api := newTestProcessor(t)
	handler.intent = affiliate.DeleteWithHint{Mention: "@alice"}

	api.On("GetChannel", "c1").Return(teamChannel("c1", "team1"), nil)
	api.On("GetUser", "u1").Return(&model.User{Id: "u1", Username: "alice"}, nil)
	api.On("DeletePost", "p1").Return(nil).Once()
	api.On("CreatePost", mock.MatchedBy(func(post *model.Post) bool {
		return post.UserId == testBotID &&
			post.ChannelId == "c1" &&
			post.Message == "@alice, please use `/amazon <link>` to clean and tag your URL."
	})).Return(&model.Post{Id: "hint1"}, nil).Once()

	post := &model.Post{Id: "p1", UserId: "u1", ChannelId: "c1", Message: "https://amzn.to/abc"}
	require.NoError(t, lp.ProcessPost(context.Background(), handler, post, time.Hour))

	require.Len(t, handler.messages, 1)
	assert.Equal(t, affiliate.Message{
		Scope:   affiliate.TeamScope("team1"),
		Text:    "https://amzn.to/abc",
		Mention: "@alice",
	}, handler.messages[0])
	assert.Equal(t, 1, deletions.Pending())
}

func TestProcessPostLinkOnlyDeleteFails(t *testing.T) {
	lp, deletions, handler, api := newTestProcessor(t)
	handler.intent = affiliate.DeleteWithHint{Mention: "@alice"}

	api.On("GetChannel", "c1").Return(teamChannel("c1", "team1"), nil)
	api.On("GetUser", "u1").Return(&model.User{Id: "u1", Username: "alice"}, nil)
	api.On("DeletePost", "p1").Return(model.NewAppError("DeletePost", "app.post.delete.app_error", nil, "", http.StatusForbidden)).Once()
	api.On("CreatePost", mock.MatchedBy(func(post *model.Post) bool {
		return post.Message == "@alice, please use `/amazon <link>` to clean and tag your URL."
	})).Return(&model.Post{Id: "hint1"}, nil).Once()

	post := &model.Post{Id: "p1", UserId: "u1", ChannelId: "c1", Message: "https://amzn.to/abc"}
	require.NoError(t, lp.ProcessPost(context.Background(), handler, post, time.Hour))

	assert.Equal(t, 1, deletions.Pending())
}

func TestProcessPostLinkButtons(t *testing.T) {
	lp, _, handler, api := newTestProcessor(t)
	handler.intent = affiliate.LinkButtons{
		Links: []affiliate.TaggedLink{
			{URL: "https://amazon.de/dp/B0EXAMPLE/?tag=abc-21"},
			{URL: "https://amazon.de/dp/B0OTHER/?tag=abc-21"},
		},
		Footer: "@alice recommended this. Using this link you support our server!",
	}

	api.On("GetChannel", "c1").Return(teamChannel("c1", "team1"), nil)
	api.On("GetUser", "u1").Return(&model.User{Id: "u1", Username: "alice"}, nil)

	var reply *model.Post
	api.On("CreatePost", mock.AnythingOfType("*model.Post")).Run(func(args mock.Arguments) {
		reply = args.Get(0).(*model.Post)
	}).Return(&model.Post{Id: "reply1"}, nil).Once()

	post := &model.Post{Id: "p1", UserId: "u1", ChannelId: "c1", Message: "look at these amazon.de/dp/B0EXAMPLE and amazon.de/dp/B0OTHER"}
	require.NoError(t, lp.ProcessPost(context.Background(), handler, post, time.Second))

	require.NotNil(t, reply)
	assert.Equal(t, "p1", reply.RootId)
	assert.Equal(t, testBotID, reply.UserId)

	attachments := reply.Attachments()
	require.Len(t, attachments, 1)
	assert.Equal(t, linkColor, attachments[0].Color)
	assert.Equal(t, "@alice recommended this. Using this link you support our server!", attachments[0].Footer)
	lines := strings.Split(attachments[0].Text, "\n")
	assert.Equal(t, []string{
		"[🛒 View on Amazon (1)](https://amazon.de/dp/B0EXAMPLE/?tag=abc-21)",
		"[🛒 View on Amazon (2)](https://amazon.de/dp/B0OTHER/?tag=abc-21)",
	}, lines)
}

func TestProcessPostRejectsCommandIntents(t *testing.T) {
	lp, _, handler, api := newTestProcessor(t)
	handler.intent = affiliate.CleanLinkReply{URL: "https://amazon.de/dp/B0EXAMPLE/"}

	api.On("GetChannel", "c1").Return(teamChannel("c1", "team1"), nil)
	api.On("GetUser", "u1").Return(&model.User{Id: "u1", Username: "alice"}, nil)

	post := &model.Post{Id: "p1", UserId: "u1", ChannelId: "c1", Message: "see amazon.de/dp/B0EXAMPLE"}
	assert.Error(t, lp.ProcessPost(context.Background(), handler, post, time.Second))
}

func TestReplyWithSingleLink(t *testing.T) {
	api := setupTestAPI(t)
	replies := NewReplyService(api, testBotID)

	var reply *model.Post
	api.On("CreatePost", mock.AnythingOfType("*model.Post")).Run(func(args mock.Arguments) {
		reply = args.Get(0).(*model.Post)
	}).Return(&model.Post{Id: "reply1"}, nil)

	post := &model.Post{Id: "p2", RootId: "root1", ChannelId: "c1"}
	require.NoError(t, replies.ReplyWithLinks(post, affiliate.LinkButtons{
		Links:  []affiliate.TaggedLink{{URL: "https://amazon.com/dp/B0EXAMPLE/?tag=abc-20"}},
		Footer: "Thanks!",
	}))

	require.NotNil(t, reply)
	assert.Equal(t, "root1", reply.RootId)
	assert.Equal(t, "[🛒 View on Amazon](https://amazon.com/dp/B0EXAMPLE/?tag=abc-20)", reply.Attachments()[0].Text)
}
