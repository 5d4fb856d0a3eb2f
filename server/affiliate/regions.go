package affiliate

import "strings"

// GlobalRegion is the configuration target that applies a tag to every configured region.
const GlobalRegion = "global"

const maxRegionSuggestions = 25

// RegionOption is a selectable marketplace.
type RegionOption struct {
	Code  string
	Label string
}

var regionCatalog = []RegionOption{
	{Code: GlobalRegion, Label: "🌍 Global Settings (All Regions)"},
	{Code: "com", Label: "🇺🇸 USA (amazon.com)"},
	{Code: "ca", Label: "🇨🇦 Canada (amazon.ca)"},
	{Code: "com.mx", Label: "🇲🇽 Mexico (amazon.com.mx)"},
	{Code: "com.br", Label: "🇧🇷 Brazil (amazon.com.br)"},
	{Code: "co.uk", Label: "🇬🇧 UK (amazon.co.uk)"},
	{Code: "de", Label: "🇩🇪 Germany (amazon.de)"},
	{Code: "fr", Label: "🇫🇷 France (amazon.fr)"},
	{Code: "es", Label: "🇪🇸 Spain (amazon.es)"},
	{Code: "it", Label: "🇮🇹 Italy (amazon.it)"},
	{Code: "nl", Label: "🇳🇱 Netherlands (amazon.nl)"},
	{Code: "se", Label: "🇸🇪 Sweden (amazon.se)"},
	{Code: "pl", Label: "🇵🇱 Poland (amazon.pl)"},
	{Code: "ae", Label: "🇦🇪 UAE (amazon.ae)"},
	{Code: "sa", Label: "🇸🇦 Saudi Arabia (amazon.sa)"},
	{Code: "in", Label: "🇮🇳 India (amazon.in)"},
	{Code: "co.jp", Label: "🇯🇵 Japan (amazon.co.jp)"},
	{Code: "sg", Label: "🇸🇬 Singapore (amazon.sg)"},
	{Code: "cn", Label: "🇨🇳 China (amazon.cn)"},
	{Code: "com.au", Label: "🇦🇺 Australia (amazon.com.au)"},
}

// seedRegions receive a global tag when a team has no configured region yet.
var seedRegions = []string{"com", "de", "co.uk", "fr"}

// SuggestRegions returns the catalog entries whose code or label contains input.
func SuggestRegions(input string) []RegionOption {
	needle := strings.ToLower(strings.TrimSpace(input))

	var out []RegionOption
	for _, option := range regionCatalog {
		if strings.Contains(option.Code, needle) || strings.Contains(strings.ToLower(option.Label), needle) {
			out = append(out, option)
		}
		if len(out) == maxRegionSuggestions {
			break
		}
	}
	return out
}

// IsKnownRegion reports whether code is a catalog entry, including GlobalRegion.
func IsKnownRegion(code string) bool {
	for _, option := range regionCatalog {
		if option.Code == code {
			return true
		}
	}
	return false
}
