package affiliate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const marketplacePrefix = "amazon."

// hostPrefixes are stripped from the host, in order, each at most once.
var hostPrefixes = []string{"www.", "smile.", "smile-redirect."}

// listingPathPattern captures the ASIN from a /dp/ path segment.
var listingPathPattern = regexp.MustCompile(`/dp/([A-Z0-9]+)/?`)

// Listing is a parsed marketplace product reference.
type Listing struct {
	// ASIN is the catalog id, case preserved.
	ASIN string
	// Region is the lowercase marketplace suffix, e.g. "de" or "co.uk".
	Region string
	// RegionDefaulted is set when the host was not amazon.<suffix> and the fallback region was used.
	RegionDefaulted bool
}

// CleanURL returns the canonical product link carrying the tracking tag.
func (l Listing) CleanURL(tag string) string {
	return fmt.Sprintf("https://amazon.%s/dp/%s/?tag=%s", l.Region, l.ASIN, url.QueryEscape(tag))
}

// parseListing extracts the ASIN and region of a resolved marketplace URL. Hosts that are
// not amazon.<suffix> get fallbackRegion, unless it is NoFallbackRegion.
func parseListing(resolvedURL, fallbackRegion string) (Listing, bool) {
	u, err := url.Parse(resolvedURL)
	if err != nil {
		return Listing{}, false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return Listing{}, false
	}

	domain := host
	for _, prefix := range hostPrefixes {
		domain = strings.TrimPrefix(domain, prefix)
	}

	listing := Listing{}
	if region, ok := strings.CutPrefix(domain, marketplacePrefix); ok && region != "" {
		listing.Region = region
	} else {
		if fallbackRegion == NoFallbackRegion {
			return Listing{}, false
		}
		listing.Region = fallbackRegion
		listing.RegionDefaulted = true
	}

	match := listingPathPattern.FindStringSubmatch(u.Path)
	if len(match) < 2 {
		return Listing{}, false
	}
	listing.ASIN = match[1]

	return listing, true
}
