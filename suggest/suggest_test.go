package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompleteByPrefix(t *testing.T) {
	ix := New()
	ix.Seed([]string{"look", "lookup", "loom", "turn"})

	assert.ElementsMatch(t, []string{"look", "lookup", "loom"}, ix.Complete("loo", 10))
	assert.ElementsMatch(t, []string{"lookup"}, ix.Complete("look", 10))
	assert.Empty(t, ix.Complete("z", 10))
}

func TestCompleteLimit(t *testing.T) {
	ix := New()
	ix.Seed([]string{"aa", "ab", "ac", "ad"})

	assert.Len(t, ix.Complete("a", 2), 2)
	assert.Empty(t, ix.Complete("a", 0))
}

func TestRecentNewestFirstDeduplicated(t *testing.T) {
	ix := New()
	ix.Add("alpha")
	ix.Add("beta")
	ix.Add("alpha")

	assert.Equal(t, []string{"alpha", "beta"}, ix.Recent(10))
	assert.Equal(t, []string{"alpha"}, ix.Recent(1))
}

func TestSeedDoesNotFillRecent(t *testing.T) {
	ix := New()
	ix.Seed([]string{"alpha", "beta"})

	assert.Empty(t, ix.Recent(10))
	assert.NotEmpty(t, ix.Complete("al", 5))
}

func TestAddEmptyTermIgnored(t *testing.T) {
	ix := New()
	ix.Add("")

	assert.Empty(t, ix.Recent(10))
}
