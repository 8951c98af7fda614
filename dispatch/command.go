// Package dispatch classifies free-text queries into typed commands and
// routes them through the lookup pipeline.
package dispatch

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoCommand means the query text matches none of the recognized shapes.
// Callers treat it as a silent no-op, not a user-visible error.
var ErrNoCommand = errors.New("query matches no command")

// CommandKind enumerates the closed set of query commands.
type CommandKind int

const (
	Suggestions CommandKind = iota
	WordLookup
	PhraseLookup
	SlangLookup
	ThesaurusLookup
	MaskFinder
)

// String returns the kind's storage/log name.
func (k CommandKind) String() string {
	switch k {
	case Suggestions:
		return "suggestions"
	case WordLookup:
		return "word"
	case PhraseLookup:
		return "phrase"
	case SlangLookup:
		return "slang"
	case ThesaurusLookup:
		return "thesaurus"
	case MaskFinder:
		return "mask"
	default:
		return "unknown"
	}
}

// Command is one classified query. Text is the payload; for MaskFinder it is
// the raw finder input, preserved verbatim for the mask parser.
type Command struct {
	Kind CommandKind
	Text string
}

// taggedForm routes "tag.payload" queries. Order matters: tags are checked
// before the plain word/phrase split so "u.turn" is never read as a phrase.
var taggedForms = []struct {
	prefix string
	kind   CommandKind
}{
	{"u.", SlangLookup},
	{"sa.", ThesaurusLookup},
	{"f.", MaskFinder},
}

var plainRe = regexp.MustCompile(`^[a-z_ ]+$`)

// Classify maps lower-cased query text to exactly one Command, or ErrNoCommand
// if the text matches nothing (digits, punctuation, uppercase).
func Classify(text string) (Command, error) {
	if text == "" {
		return Command{Kind: Suggestions}, nil
	}

	for _, tf := range taggedForms {
		if strings.HasPrefix(text, tf.prefix) {
			return Command{Kind: tf.kind, Text: strings.TrimPrefix(text, tf.prefix)}, nil
		}
	}

	if !plainRe.MatchString(text) {
		return Command{}, ErrNoCommand
	}

	// A mask like "___ly" has no spaces, so blanks are checked before the
	// whitespace split.
	if strings.Contains(text, "_") {
		return Command{Kind: MaskFinder, Text: text}, nil
	}

	tokens := strings.Fields(text)
	switch len(tokens) {
	case 0:
		return Command{Kind: Suggestions}, nil
	case 1:
		return Command{Kind: WordLookup, Text: tokens[0]}, nil
	default:
		return Command{Kind: PhraseLookup, Text: strings.Join(tokens, " ")}, nil
	}
}
