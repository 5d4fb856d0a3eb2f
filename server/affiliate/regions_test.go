package affiliate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestRegions(t *testing.T) {
	assert.Len(t, SuggestRegions(""), len(regionCatalog))

	suggestions := SuggestRegions("uk")
	if assert.Len(t, suggestions, 1) {
		assert.Equal(t, "co.uk", suggestions[0].Code)
	}

	suggestions = SuggestRegions("Germ")
	if assert.Len(t, suggestions, 1) {
		assert.Equal(t, "de", suggestions[0].Code)
	}

	assert.Empty(t, SuggestRegions("atlantis"))
}

func TestIsKnownRegion(t *testing.T) {
	assert.True(t, IsKnownRegion("de"))
	assert.True(t, IsKnownRegion("com.br"))
	assert.True(t, IsKnownRegion(GlobalRegion))
	assert.False(t, IsKnownRegion("DE"))
	assert.False(t, IsKnownRegion("mars"))
}

func TestScope(t *testing.T) {
	assert.Equal(t, DirectMessage, TeamScope(""))
	assert.True(t, TeamScope("").IsDirectMessage())
	assert.Equal(t, "team1", TeamScope("team1").String())
	assert.False(t, TeamScope("team1").IsDirectMessage())
}
