package affiliate

import (
	"context"
	"fmt"
	"strings"
)

// SenderPlaceholder is replaced by a mention of the user who shared the link.
const SenderPlaceholder = "{{sender}}"

// Resolution is the tag and footer template that apply to one link.
type Resolution struct {
	Scope          Scope
	Region         string
	Tag            string
	FooterTemplate string
}

// TagResolver picks the tracking tag and footer for a scope and region.
type TagResolver struct {
	store    SettingsStore
	defaults Defaults
	log      Logger
}

// NewTagResolver creates a resolver reading team settings from store and falling back to defaults.
func NewTagResolver(store SettingsStore, defaults Defaults, log Logger) *TagResolver {
	return &TagResolver{
		store:    store,
		defaults: defaults.withFallbacks(),
		log:      log,
	}
}

// Resolve walks the fallback chain: team tag and footer, then the defaults for the region.
// A team without a tag for the region gets the default tag and the default signature, its
// own footer is not used in that case.
func (r *TagResolver) Resolve(ctx context.Context, scope Scope, region string) (Resolution, error) {
	res := r.defaultResolution(scope, region)

	if !scope.IsDirectMessage() {
		tag, footer := r.teamSettings(ctx, scope, region)
		if tag != "" {
			res.Tag = tag
			res.FooterTemplate = footer
		}
	}

	if res.Tag == "" {
		return res, ErrTagUnavailable
	}

	return res, nil
}

func (r *TagResolver) defaultResolution(scope Scope, region string) Resolution {
	return Resolution{
		Scope:          scope,
		Region:         region,
		Tag:            r.defaults.TagFor(region),
		FooterTemplate: r.defaults.Signature,
	}
}

// teamSettings reads the team's tag and footer. Store failures degrade to an empty tag
// and the default team footer.
func (r *TagResolver) teamSettings(ctx context.Context, scope Scope, region string) (string, string) {
	tag, _, err := r.store.GetTag(ctx, scope, region)
	if err != nil {
		r.log.LogWarn("Failed to read team tag, using defaults", "scope", scope.String(), "region", region, "error", err.Error())
		tag = ""
	}

	footer, ok, err := r.store.GetFooter(ctx, scope)
	if err != nil {
		r.log.LogWarn("Failed to read team footer, using default footer", "scope", scope.String(), "error", err.Error())
		ok = false
	}
	if !ok {
		footer = r.defaults.TeamFooter
	}

	return strings.TrimSpace(tag), footer
}

// RenderFooter fills the footer template for the user who shared the link.
// Direct messages get the template as is.
func RenderFooter(res Resolution, mention string) string {
	if res.Scope.IsDirectMessage() {
		return res.FooterTemplate
	}
	return frameForSender(res.FooterTemplate, mention)
}

func frameForSender(template, mention string) string {
	if strings.Contains(template, SenderPlaceholder) {
		return strings.ReplaceAll(template, SenderPlaceholder, mention)
	}
	return fmt.Sprintf("%s recommended this. %s", mention, template)
}
