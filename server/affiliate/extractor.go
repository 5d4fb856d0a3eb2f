package affiliate

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// schemedLinkPattern matches any schemed URL; marketplace hosts are filtered afterwards.
	schemedLinkPattern = regexp.MustCompile(`https?://\S+`)

	// bareLinkPattern matches marketplace domains written without a scheme.
	// The leading group stands in for a start-of-text or whitespace lookbehind.
	bareLinkPattern = regexp.MustCompile(`(?:^|\s)((?:amazon\.[a-z]{2,3}(?:\.[a-z]{2,3})?|amzn\.to)\b(?:[/?#]\S*)?)`)
)

// CandidateLink is a substring of a message that looks like a marketplace link.
type CandidateLink struct {
	// URL is the candidate with a scheme, ready to be resolved.
	URL string
	// Raw is the text as it appeared in the message.
	Raw string
	// Offset is the byte offset of Raw in the message.
	Offset int
	// Schemed is false when the link was written without http:// or https://.
	Schemed bool
}

type span struct {
	start, end int
}

// MentionsMarketplace reports whether the text contains anything that may be a marketplace link.
func MentionsMarketplace(text string) bool {
	return strings.Contains(text, "amazon.") || strings.Contains(text, "amzn.to")
}

// ExtractLinks returns the marketplace link candidates of a message in order of first
// occurrence, without duplicates.
func ExtractLinks(text string) []CandidateLink {
	var found []CandidateLink

	for _, loc := range schemedSpans(text) {
		raw := text[loc.start:loc.end]
		found = append(found, CandidateLink{
			URL:     trimTrailingPunctuation(raw),
			Raw:     raw,
			Offset:  loc.start,
			Schemed: true,
		})
	}

	for _, loc := range bareSpans(text) {
		raw := text[loc.start:loc.end]
		found = append(found, CandidateLink{
			URL:    "https://" + trimTrailingPunctuation(raw),
			Raw:    raw,
			Offset: loc.start,
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Offset < found[j].Offset
	})

	links := make([]CandidateLink, 0, len(found))
	seen := make(map[string]bool)
	for _, link := range found {
		key := dedupKey(link.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		links = append(links, link)
	}

	return links
}

// dedupKey identifies a link regardless of its scheme, so http://, https:// and bare forms
// of the same link collapse into one candidate.
func dedupKey(link string) string {
	lower := strings.ToLower(link)
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(lower, scheme) {
			return lower[len(scheme):]
		}
	}
	return lower
}

// schemedSpans returns the spans of schemed URLs that point at a marketplace.
func schemedSpans(text string) []span {
	var spans []span
	for _, loc := range schemedLinkPattern.FindAllStringIndex(text, -1) {
		body := text[loc[0]:loc[1]]
		if !MentionsMarketplace(body) {
			continue
		}
		spans = append(spans, span{start: loc[0], end: loc[1]})
	}
	return spans
}

// bareSpans returns the spans of scheme-less marketplace links, excluding the leading whitespace.
func bareSpans(text string) []span {
	var spans []span
	for _, loc := range bareLinkPattern.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, span{start: loc[2], end: loc[3]})
	}
	return spans
}

func trimTrailingPunctuation(s string) string {
	return strings.TrimRight(s, ".,;:!?)")
}
