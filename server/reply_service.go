package main

import (
	"fmt"
	"strings"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/pkg/errors"

	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/affiliate"
)

const (
	linkButtonLabel = "🛒 View on Amazon"
	linkColor       = "#FF9900"
)

// ReplyService posts the bot messages that answer posted links
type ReplyService struct {
	api   plugin.API
	botID string
}

// NewReplyService creates a new reply service
func NewReplyService(api plugin.API, botID string) *ReplyService {
	return &ReplyService{
		api:   api,
		botID: botID,
	}
}

// threadRoot returns the post that replies to post belong under.
func threadRoot(post *model.Post) string {
	if post.RootId != "" {
		return post.RootId
	}
	return post.Id
}

// ReplyWithLinks answers a post in its thread with the tagged links and the footer
func (r *ReplyService) ReplyWithLinks(post *model.Post, buttons affiliate.LinkButtons) error {
	lines := make([]string, 0, len(buttons.Links))
	for i, link := range buttons.Links {
		label := linkButtonLabel
		if len(buttons.Links) > 1 {
			label = fmt.Sprintf("%s (%d)", linkButtonLabel, i+1)
		}
		lines = append(lines, fmt.Sprintf("[%s](%s)", label, link.URL))
	}

	reply := &model.Post{
		UserId:    r.botID,
		ChannelId: post.ChannelId,
		RootId:    threadRoot(post),
		CreateAt:  model.GetMillis(),
	}
	model.ParseSlackAttachment(reply, []*model.SlackAttachment{{
		Text:   strings.Join(lines, "\n"),
		Footer: buttons.Footer,
		Color:  linkColor,
	}})

	if _, appErr := r.api.CreatePost(reply); appErr != nil {
		return errors.Wrap(appErr, "failed to create link reply")
	}

	return nil
}

// PostHint asks the author of a removed post to use the link command and returns the hint post
func (r *ReplyService) PostHint(post *model.Post, mention string) (*model.Post, error) {
	hint := &model.Post{
		UserId:    r.botID,
		ChannelId: post.ChannelId,
		RootId:    post.RootId,
		Message:   fmt.Sprintf("%s, please use `/amazon <link>` to clean and tag your URL.", mention),
		CreateAt:  model.GetMillis(),
	}

	created, appErr := r.api.CreatePost(hint)
	if appErr != nil {
		return nil, errors.Wrap(appErr, "failed to create hint post")
	}

	return created, nil
}

// DeletePost removes a post
func (r *ReplyService) DeletePost(postID string) error {
	if appErr := r.api.DeletePost(postID); appErr != nil {
		return errors.Wrapf(appErr, "failed to delete post %s", postID)
	}
	return nil
}
