// Package compose renders heterogeneous lookup results into a destination
// surface: a long-form chat message or an inline-query article list. The
// lookup pipeline drives a Composer through a sequence of visit calls and
// finalizes it with Build; it never needs to know the surface's rendering.
package compose

import (
	"errors"

	"lexibot/provider"
)

// ErrEmptyBuild is returned by Build when no visit call produced any content.
// The pipeline always visits something (or NothingFound), so hitting this is
// a composition bug, surfaced to users as a generic error.
var ErrEmptyBuild = errors.New("composer finalized with no content")

// NothingFoundText is the fixed message rendered when a lookup yields no
// results in any category.
const NothingFoundText = "Nothing found. Try another word, or f.a__ow to find words by pattern."

// Composer receives one visit call per result entity, tagged with its
// positional index within its category, interleaved with section titles and
// deep links, and is finalized with Build.
type Composer interface {
	Title(text string)
	Link(label, url string)
	Word(index int, def provider.Definition)
	Phrase(index int, def provider.Definition)
	Abbreviation(index int, category, expansion string)
	Slang(index int, entry provider.SlangEntry)
	Thesaurus(index int, entry provider.ThesaurusEntry)
	Candidate(index int, word string)
	NothingFound()
	Build() error
}
