package mask

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		input   string
		pattern string
		banned  string
	}{
		{"a__ow, jfk", "a__ow", "jfk"},
		{"a__ow,jfk", "a__ow", "jfk"},
		{"a__ow jfk", "a__ow", "jfk"},
		{"a__ow,", "a__ow", ""},
		{"a__ow", "a__ow", ""},
		{"_z", "_z", ""},
		{"___ly", "___ly", ""},
		{"q_____________z, abcdefghijklm", "q_____________z", "abcdefghijklm"},
	}

	for _, tt := range tests {
		m, err := Parse(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.pattern, m.Pattern, "input %q", tt.input)
		assert.Equal(t, tt.banned, m.Banned, "input %q", tt.input)
	}
}

func TestParseWrongFormat(t *testing.T) {
	tests := []string{
		"",
		"a__0w",
		"a__ow, jfk, x",
		"jfk, a__ow,",
		"A__ow",
		"a__ow,  jfk",
		"a__ow, JFK",
	}

	for _, tt := range tests {
		_, err := Parse(tt)
		assert.ErrorIs(t, err, ErrWrongFormat, "input %q", tt)
	}
}

func TestParseInvalidLength(t *testing.T) {
	tests := []string{
		"_",
		"a" + strings.Repeat("_", 15),
		"a__ow, abcdefghijklmn",
	}

	for _, tt := range tests {
		_, err := Parse(tt)
		assert.ErrorIs(t, err, ErrInvalidLength, "input %q", tt)
	}
}

func TestParseInvalidQuery(t *testing.T) {
	tests := []string{
		"arrow",
		"_____",
		"ab",
		"__",
	}

	for _, tt := range tests {
		_, err := Parse(tt)
		assert.ErrorIs(t, err, ErrInvalidQuery, "input %q", tt)
	}
}

func TestParseErrorsAreDistinct(t *testing.T) {
	_, err := Parse("arrow")
	assert.False(t, errors.Is(err, ErrWrongFormat))
	assert.False(t, errors.Is(err, ErrInvalidLength))
}

func TestFilter(t *testing.T) {
	m := Mask{Pattern: "a__ow", Banned: "jfk"}
	candidates := []string{"allow", "arrow", "aglow", "askew"}

	assert.Equal(t, []string{"allow", "arrow", "aglow", "askew"}, m.Filter(candidates))

	m.Banned = "lg"
	assert.Equal(t, []string{"arrow", "askew"}, m.Filter(candidates))
}

func TestFilterEmptyBanListReturnsInputUnchanged(t *testing.T) {
	m := Mask{Pattern: "a__ow"}
	candidates := []string{"allow", "arrow"}

	got := m.Filter(candidates)
	assert.Equal(t, candidates, got)
	// Identity, not a copy.
	assert.Same(t, &candidates[0], &got[0])
}

func TestFilterEmptyCandidates(t *testing.T) {
	m := Mask{Pattern: "a__ow", Banned: "x"}
	assert.Empty(t, m.Filter(nil))
}

func TestFilterIdempotentUnderDuplicateBans(t *testing.T) {
	candidates := []string{"allow", "arrow", "aglow", "ashes"}

	once := Mask{Pattern: "a____", Banned: "lrw"}.Filter(candidates)
	twice := Mask{Pattern: "a____", Banned: "lrwlrw"}.Filter(candidates)

	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"ashes"}, once)
}
