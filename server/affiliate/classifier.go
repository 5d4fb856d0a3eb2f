package affiliate

import (
	"sort"
	"strings"
)

// Composition describes what a message is made of.
type Composition int

const (
	// LinkOnly messages contain nothing but marketplace links and whitespace.
	LinkOnly Composition = iota
	// Mixed messages carry other text next to the links.
	Mixed
)

func (c Composition) String() string {
	switch c {
	case LinkOnly:
		return "link_only"
	case Mixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// Classify removes every marketplace link from the text and reports whether anything but
// whitespace remains. Callers are expected to check MentionsMarketplace first.
func Classify(text string) Composition {
	spans := append(schemedSpans(text), bareSpans(text)...)
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].start < spans[j].start
	})

	var rest strings.Builder
	cursor := 0
	for _, s := range spans {
		if s.start > cursor {
			rest.WriteString(text[cursor:s.start])
		}
		if s.end > cursor {
			cursor = s.end
		}
	}
	if cursor < len(text) {
		rest.WriteString(text[cursor:])
	}

	if strings.TrimSpace(rest.String()) == "" {
		return LinkOnly
	}
	return Mixed
}
