package affiliate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Composition
	}{
		{name: "single short link", text: "https://amzn.to/abc", expected: LinkOnly},
		{name: "link with surrounding whitespace", text: "  https://amzn.to/abc \n", expected: LinkOnly},
		{name: "several links", text: "https://amzn.to/abc amazon.de/dp/B0X\nhttps://www.amazon.com/dp/B1", expected: LinkOnly},
		{name: "bare link only", text: "amazon.de/dp/B0EXAMPLE", expected: LinkOnly},
		{name: "text around link", text: "check this out https://amzn.to/abc thanks", expected: Mixed},
		{name: "text before bare link", text: "deal: amazon.de/dp/B0X", expected: Mixed},
		{name: "other url next to link", text: "https://amzn.to/abc https://example.com", expected: Mixed},
		{name: "trailing punctuation counts as text", text: "https://amzn.to/abc !", expected: Mixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.text))
		})
	}
}

func TestCompositionString(t *testing.T) {
	assert.Equal(t, "link_only", LinkOnly.String())
	assert.Equal(t, "mixed", Mixed.String())
}
