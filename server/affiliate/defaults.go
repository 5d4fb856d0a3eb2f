package affiliate

import "strings"

// Defaults holds the configuration-sourced fallbacks used by the tag resolver.
// It is built once per configuration change and never read from the environment afterwards.
type Defaults struct {
	// Tags maps a region code to the default tracking tag.
	Tags map[string]string
	// Signature is the footer used together with a default tag.
	Signature string
	// TeamFooter is the footer for teams that have a tag but no footer of their own.
	TeamFooter string
	// FallbackRegion is assigned to links whose host is not amazon.<suffix>.
	FallbackRegion string
}

// TagFor returns the default tag of the region, or an empty string.
func (d Defaults) TagFor(region string) string {
	return strings.TrimSpace(d.Tags[strings.ToLower(region)])
}

// withFallbacks fills the unset fields with the built-in values.
func (d Defaults) withFallbacks() Defaults {
	if d.TeamFooter == "" {
		d.TeamFooter = DefaultTeamFooter
	}
	if d.FallbackRegion == "" {
		d.FallbackRegion = DefaultFallbackRegion
	}
	if d.Tags == nil {
		d.Tags = map[string]string{}
	}
	return d
}
