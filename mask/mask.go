// Package mask parses and validates fill-in-the-blank letter masks with an
// optional ban-list of letters that must not appear in candidate words.
package mask

import (
	"errors"
	"regexp"
	"strings"
)

const (
	// MinLen and MaxLen bound the mask itself.
	MinLen = 2
	MaxLen = 15
	// MaxBanLen bounds the ban-list. Banning more than half the alphabet
	// leaves too few letters to fill the blanks with.
	MaxBanLen = 13
)

var (
	// ErrWrongFormat means the input is not "<mask>" or "<mask>, <banlist>".
	ErrWrongFormat = errors.New("wrong finder query format")
	// ErrInvalidLength means the mask or ban-list length is out of range.
	ErrInvalidLength = errors.New("mask or ban-list length out of range")
	// ErrInvalidQuery means the mask has no blank to fill or no fixed letter.
	ErrInvalidQuery = errors.New("mask needs at least one blank and one letter")
)

// finderRe accepts a lowercase mask, an optional comma and an optional single
// space, then an optional lowercase ban-list.
var finderRe = regexp.MustCompile(`^([a-z_]+),? ?([a-z]*)$`)

// Mask is a validated finder pattern. Pattern is over {a-z, '_'} where each
// underscore is one unknown letter; Banned letters must not appear anywhere
// in a candidate.
type Mask struct {
	Pattern string
	Banned  string
}

// Parse validates raw finder input of the form "<mask>" or "<mask>, <banlist>".
func Parse(raw string) (Mask, error) {
	m := finderRe.FindStringSubmatch(raw)
	if m == nil {
		return Mask{}, ErrWrongFormat
	}
	pattern, banned := m[1], m[2]

	if len(pattern) < MinLen || len(pattern) > MaxLen {
		return Mask{}, ErrInvalidLength
	}
	if len(banned) > MaxBanLen {
		return Mask{}, ErrInvalidLength
	}

	var hasBlank, hasLetter bool
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '_' {
			hasBlank = true
		} else {
			hasLetter = true
		}
	}
	if !hasBlank || !hasLetter {
		return Mask{}, ErrInvalidQuery
	}

	return Mask{Pattern: pattern, Banned: banned}, nil
}

// Filter keeps only candidates containing none of the banned letters. With an
// empty ban-list or no candidates the input is returned unchanged. Duplicate
// letters in the ban-list do not change the result.
func (m Mask) Filter(candidates []string) []string {
	if m.Banned == "" || len(candidates) == 0 {
		return candidates
	}

	var class strings.Builder
	for _, r := range m.Banned {
		if !strings.ContainsRune(class.String(), r) {
			class.WriteRune(r)
		}
	}
	banned := class.String()

	kept := make([]string, 0, len(candidates))
	for _, w := range candidates {
		if !strings.ContainsAny(w, banned) {
			kept = append(kept, w)
		}
	}
	return kept
}
