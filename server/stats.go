package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/pkg/errors"

	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/affiliate"
)

const topRegionsLimit = 5

// Stats is the usage report of a team
type Stats struct {
	GlobalTotal int64                   `json:"globalTotal"`
	TeamTotal   int64                   `json:"teamTotal"`
	TopRegions  []affiliate.RegionCount `json:"topRegions"`
}

// loadStats reads the usage aggregates of the team.
func loadStats(ctx context.Context, store affiliate.SettingsStore, scope affiliate.Scope) (*Stats, error) {
	global, err := store.CountUsage(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count global usage")
	}

	team, err := store.CountUsage(ctx, &scope)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count team usage")
	}

	top, err := store.TopRegions(ctx, scope, topRegionsLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load top regions")
	}
	if top == nil {
		top = []affiliate.RegionCount{}
	}

	return &Stats{
		GlobalTotal: global,
		TeamTotal:   team,
		TopRegions:  top,
	}, nil
}

// Attachment renders the stats as a message attachment
func (s *Stats) Attachment() *model.SlackAttachment {
	regions := "No regions yet"
	if len(s.TopRegions) > 0 {
		lines := make([]string, 0, len(s.TopRegions))
		for _, rc := range s.TopRegions {
			lines = append(lines, fmt.Sprintf("🌍 **%s**: %d links", strings.ToUpper(rc.Region), rc.Count))
		}
		regions = strings.Join(lines, "\n")
	}

	return &model.SlackAttachment{
		Title: "📊 Affiliate link statistics",
		Text:  "Link generation statistics for this team",
		Color: "#3498DB",
		Fields: []*model.SlackAttachmentField{
			{Title: "🌐 Global Total", Value: fmt.Sprintf("%d links", s.GlobalTotal), Short: true},
			{Title: "🏠 This Team", Value: fmt.Sprintf("%d links", s.TeamTotal), Short: true},
			{Title: "📈 Top Regions", Value: regions, Short: false},
		},
		Footer: "Keep sharing those affiliate links! 💰",
	}
}
