package main

import (
	"context"
	"time"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/pkg/errors"

	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/affiliate"
)

// MessageHandler decides what to do with a posted message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg affiliate.Message) affiliate.Intent
}

// LinkProcessor runs posted messages through the link pipeline and carries out the result
type LinkProcessor struct {
	api       plugin.API
	replies   *ReplyService
	deletions *deletionScheduler
	botID     string
}

// NewLinkProcessor creates a new link processor
func NewLinkProcessor(api plugin.API, replies *ReplyService, deletions *deletionScheduler, botID string) *LinkProcessor {
	return &LinkProcessor{
		api:       api,
		replies:   replies,
		deletions: deletions,
		botID:     botID,
	}
}

// ProcessPost handles a post in a team channel. Posts of bots, system messages and posts in
// direct or group channels are skipped.
func (lp *LinkProcessor) ProcessPost(ctx context.Context, handler MessageHandler, post *model.Post, hintLifetime time.Duration) error {
	if post.UserId == lp.botID || post.IsSystemMessage() || !affiliate.MentionsMarketplace(post.Message) {
		return nil
	}

	channel, appErr := lp.api.GetChannel(post.ChannelId)
	if appErr != nil {
		return errors.Wrap(appErr, "failed to get channel")
	}
	if channel.IsGroupOrDirect() {
		return nil
	}

	user, appErr := lp.api.GetUser(post.UserId)
	if appErr != nil {
		return errors.Wrap(appErr, "failed to get post author")
	}
	if user.IsBot {
		return nil
	}

	intent := handler.HandleMessage(ctx, affiliate.Message{
		Scope:   affiliate.TeamScope(channel.TeamId),
		Text:    post.Message,
		Mention: "@" + user.Username,
	})

	return lp.execute(post, intent, hintLifetime)
}

func (lp *LinkProcessor) execute(post *model.Post, intent affiliate.Intent, hintLifetime time.Duration) error {
	switch in := intent.(type) {
	case affiliate.Ignore:
		return nil

	case affiliate.DeleteWithHint:
		// The hint is posted even when the original post could not be removed.
		if err := lp.replies.DeletePost(post.Id); err != nil {
			lp.api.LogWarn("Failed to delete link-only post", "postID", post.Id, "error", err.Error())
		}
		hint, err := lp.replies.PostHint(post, in.Mention)
		if err != nil {
			return err
		}
		lp.deletions.Schedule(hint.Id, hintLifetime)
		lp.api.LogDebug("Replaced link-only post with a hint", "postID", post.Id, "hintID", hint.Id)
		return nil

	case affiliate.LinkButtons:
		if err := lp.replies.ReplyWithLinks(post, in); err != nil {
			return err
		}
		lp.api.LogDebug("Replied with tagged links", "postID", post.Id, "links", len(in.Links))
		return nil

	case affiliate.CleanLinkReply, affiliate.ErrorReply:
		return errors.Errorf("unexpected %T for a posted message", intent)

	default:
		return errors.Errorf("unknown intent %T", intent)
	}
}
