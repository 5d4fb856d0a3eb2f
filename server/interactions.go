package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/pkg/errors"

	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/affiliate"
	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/command"
)

const (
	configureDialogPath = "/api/v1/dialog/configure"
	configureCallbackID = "configure"

	dialogFieldTag    = "tag"
	dialogFieldFooter = "footer"

	maxTagLength    = 50
	maxFooterLength = 500
)

// Responses shown to users.
const (
	msgInvalidURL       = "Could not parse Amazon URL. Ensure it's valid."
	msgNoTagForRegion   = "No tracking tag available for this region."
	msgTeamOnly         = "This command can only be used in a team channel."
	msgNotTeamAdmin     = "You must be a team administrator or a system administrator to run this command."
	msgNoChanges        = "ℹ️ No changes made."
	msgStatsUnavailable = "❌ Unable to fetch statistics. Please try again later."
)

// interaction is an event started by a user. The set is closed: commandInteraction,
// autocompleteInteraction and dialogSubmission.
type interaction interface {
	isInteraction()
}

type commandInteraction struct {
	args       *model.CommandArgs
	invocation command.Invocation
}

type autocompleteInteraction struct {
	query string
}

type dialogSubmission struct {
	request *model.SubmitDialogRequest
}

func (commandInteraction) isInteraction()      {}
func (autocompleteInteraction) isInteraction() {}
func (dialogSubmission) isInteraction()        {}

// interactionResult holds the response of the interaction kind that was routed.
type interactionResult struct {
	command     *model.CommandResponse
	suggestions []model.AutocompleteListItem
	dialog      *model.SubmitDialogResponse
}

// route sends every interaction kind to its handler.
func (p *Plugin) route(ctx context.Context, in interaction) (interactionResult, error) {
	switch i := in.(type) {
	case commandInteraction:
		response, err := p.runCommand(ctx, i)
		return interactionResult{command: response}, err
	case autocompleteInteraction:
		return interactionResult{suggestions: regionSuggestions(i.query)}, nil
	case dialogSubmission:
		response, err := p.submitConfiguration(ctx, i.request)
		return interactionResult{dialog: response}, err
	default:
		return interactionResult{}, errors.Errorf("unhandled interaction %T", in)
	}
}

// Dispatch implements command.Dispatcher.
func (p *Plugin) Dispatch(args *model.CommandArgs, invocation command.Invocation) (*model.CommandResponse, error) {
	result, err := p.route(context.Background(), commandInteraction{args: args, invocation: invocation})
	if err != nil {
		return nil, err
	}
	return result.command, nil
}

func (p *Plugin) runCommand(ctx context.Context, in commandInteraction) (*model.CommandResponse, error) {
	switch inv := in.invocation.(type) {
	case command.TagLinkInvocation:
		return p.runTagLink(ctx, in.args, inv)
	case command.ConfigureInvocation:
		return p.runConfigure(ctx, in.args, inv)
	case command.StatsInvocation:
		return p.runStats(ctx, in.args)
	case command.HelpInvocation:
		return ephemeralResponse(command.HelpText), nil
	default:
		return nil, errors.Errorf("unhandled invocation %T", in.invocation)
	}
}

// commandScope returns the team scope of the channel, or the direct message scope.
func (p *Plugin) commandScope(channelID, teamID string) (affiliate.Scope, error) {
	channel, appErr := p.API.GetChannel(channelID)
	if appErr != nil {
		return "", errors.Wrap(appErr, "failed to get channel")
	}
	if channel.IsGroupOrDirect() {
		return affiliate.DirectMessage, nil
	}
	if channel.TeamId != "" {
		teamID = channel.TeamId
	}
	return affiliate.TeamScope(teamID), nil
}

func (p *Plugin) runTagLink(ctx context.Context, args *model.CommandArgs, inv command.TagLinkInvocation) (*model.CommandResponse, error) {
	scope, err := p.commandScope(args.ChannelId, args.TeamId)
	if err != nil {
		return nil, err
	}

	user, appErr := p.API.GetUser(args.UserId)
	if appErr != nil {
		return nil, errors.Wrap(appErr, "failed to get user")
	}

	intent := p.getLinker().TagLink(ctx, affiliate.LinkRequest{
		Scope:   scope,
		URL:     inv.URL,
		Mention: "@" + user.Username,
	})

	switch in := intent.(type) {
	case affiliate.CleanLinkReply:
		return &model.CommandResponse{
			ResponseType: model.CommandResponseTypeInChannel,
			Text:         in.URL + "\n" + in.Footer,
		}, nil
	case affiliate.ErrorReply:
		return ephemeralResponse(errorMessage(in)), nil
	default:
		return nil, errors.Errorf("unexpected %T for a link command", intent)
	}
}

func errorMessage(reply affiliate.ErrorReply) string {
	switch reply.Key {
	case affiliate.ErrorKeyNoTagForRegion:
		return msgNoTagForRegion
	default:
		return msgInvalidURL
	}
}

// canConfigure reports whether the user administers the team or the system.
func (p *Plugin) canConfigure(userID, teamID string) bool {
	return p.API.HasPermissionToTeam(userID, teamID, model.PermissionManageTeam) ||
		p.API.HasPermissionTo(userID, model.PermissionManageSystem)
}

func (p *Plugin) runConfigure(ctx context.Context, args *model.CommandArgs, inv command.ConfigureInvocation) (*model.CommandResponse, error) {
	scope, err := p.commandScope(args.ChannelId, args.TeamId)
	if err != nil {
		return nil, err
	}
	if scope.IsDirectMessage() {
		return ephemeralResponse(msgTeamOnly), nil
	}
	if !p.canConfigure(args.UserId, scope.String()) {
		return ephemeralResponse(msgNotTeamAdmin), nil
	}
	if !affiliate.IsKnownRegion(inv.Region) {
		return ephemeralResponse(fmt.Sprintf("Unknown region `%s`. Pick one of the suggested regions.", inv.Region)), nil
	}

	tag, footer := p.configurator().Current(ctx, scope, inv.Region)

	request := model.OpenDialogRequest{
		TriggerId: args.TriggerId,
		URL:       p.pluginURL() + configureDialogPath,
		Dialog:    configureDialog(inv.Region, tag, footer),
	}
	if appErr := p.API.OpenInteractiveDialog(request); appErr != nil {
		return nil, errors.Wrap(appErr, "failed to open configuration dialog")
	}

	return &model.CommandResponse{}, nil
}

func configureDialog(region, tag, footer string) model.Dialog {
	title := "🌍 Global Amazon Configuration"
	tagLabel := "🏷️ Tracking Tag for all regions"
	if region != affiliate.GlobalRegion {
		title = "🌍 Configure Amazon " + strings.ToUpper(region)
		tagLabel = "🏷️ Tracking Tag for " + strings.ToUpper(region)
	}

	placeholder := "your-tag-20"
	if strings.Contains(region, "co.") {
		placeholder = "your-tag-21"
	}

	return model.Dialog{
		CallbackId:  configureCallbackID,
		Title:       title,
		SubmitLabel: "Save",
		State:       region,
		Elements: []model.DialogElement{
			{
				DisplayName: tagLabel,
				Name:        dialogFieldTag,
				Type:        "text",
				Default:     tag,
				Placeholder: placeholder,
				MaxLength:   maxTagLength,
				Optional:    true,
			},
			{
				DisplayName: "💬 Footer",
				Name:        dialogFieldFooter,
				Type:        "textarea",
				Default:     footer,
				Placeholder: affiliate.SenderPlaceholder + " recommended this and supports our server!",
				HelpText:    affiliate.SenderPlaceholder + " is replaced by the person who shared the link.",
				MaxLength:   maxFooterLength,
				Optional:    true,
			},
		},
	}
}

func (p *Plugin) submitConfiguration(ctx context.Context, request *model.SubmitDialogRequest) (*model.SubmitDialogResponse, error) {
	if request.Cancelled {
		return &model.SubmitDialogResponse{}, nil
	}
	if request.TeamId == "" {
		return &model.SubmitDialogResponse{Error: msgTeamOnly}, nil
	}
	if !p.canConfigure(request.UserId, request.TeamId) {
		return &model.SubmitDialogResponse{Error: msgNotTeamAdmin}, nil
	}

	change := affiliate.ConfigChange{
		Region: request.State,
		Tag:    submissionValue(request.Submission, dialogFieldTag),
		Footer: submissionValue(request.Submission, dialogFieldFooter),
	}

	writes, err := p.configurator().Apply(ctx, affiliate.TeamScope(request.TeamId), change)
	if errors.Is(err, affiliate.ErrUnknownRegion) {
		return &model.SubmitDialogResponse{Error: fmt.Sprintf("Unknown region `%s`.", request.State)}, nil
	}
	if err != nil {
		return nil, err
	}

	p.API.SendEphemeralPost(request.UserId, &model.Post{
		UserId:    p.botID(),
		ChannelId: request.ChannelId,
		Message:   configurationSummary(change.Region, writes),
	})

	return &model.SubmitDialogResponse{}, nil
}

func submissionValue(submission map[string]interface{}, key string) string {
	value, _ := submission[key].(string)
	return value
}

func configurationSummary(region string, writes int) string {
	switch {
	case writes == 0:
		return msgNoChanges
	case strings.EqualFold(region, affiliate.GlobalRegion):
		return fmt.Sprintf("✅ Global configuration updated!\n🌍 %d regions configured", writes)
	default:
		return fmt.Sprintf("✅ Configuration updated for %s!\n🌍 %d items configured", strings.ToUpper(strings.TrimSpace(region)), writes)
	}
}

func regionSuggestions(query string) []model.AutocompleteListItem {
	options := affiliate.SuggestRegions(query)
	items := make([]model.AutocompleteListItem, 0, len(options))
	for _, option := range options {
		items = append(items, model.AutocompleteListItem{
			Item:     option.Code,
			HelpText: option.Label,
		})
	}
	return items
}

func (p *Plugin) runStats(ctx context.Context, args *model.CommandArgs) (*model.CommandResponse, error) {
	scope, err := p.commandScope(args.ChannelId, args.TeamId)
	if err != nil {
		return nil, err
	}
	if scope.IsDirectMessage() {
		return ephemeralResponse(msgTeamOnly), nil
	}

	stats, err := loadStats(ctx, p.store, scope)
	if err != nil {
		p.API.LogError("Failed to load stats", "team", scope.String(), "error", err.Error())
		return ephemeralResponse(msgStatsUnavailable), nil
	}

	return &model.CommandResponse{
		ResponseType: model.CommandResponseTypeInChannel,
		Attachments:  []*model.SlackAttachment{stats.Attachment()},
	}, nil
}

// pluginURL returns the absolute URL of the plugin routes.
func (p *Plugin) pluginURL() string {
	siteURL := ""
	if config := p.API.GetConfig(); config != nil && config.ServiceSettings.SiteURL != nil {
		siteURL = strings.TrimSuffix(*config.ServiceSettings.SiteURL, "/")
	}
	return siteURL + "/plugins/" + url.PathEscape(pluginID)
}

func ephemeralResponse(text string) *model.CommandResponse {
	return &model.CommandResponse{
		ResponseType: model.CommandResponseTypeEphemeral,
		Text:         text,
	}
}
