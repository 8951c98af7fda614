package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"lexibot/compose"
	"lexibot/mask"
	"lexibot/provider"
)

// defaultDisplayLimit is how many entries render per category before the
// remainder collapses into a single deep link.
const defaultDisplayLimit = 5

// Dictionary looks up definitions, abbreviations and thesaurus entries.
type Dictionary interface {
	Definitions(ctx context.Context, kind provider.Kind, term string) ([]provider.Definition, error)
	Abbreviations(ctx context.Context, term string) ([]provider.AbbreviationGroup, error)
	Thesaurus(ctx context.Context, term string) ([]provider.ThesaurusEntry, error)
}

// Slang looks up crowd-sourced slang definitions.
type Slang interface {
	Define(ctx context.Context, term string) ([]provider.SlangEntry, error)
}

// PatternFinder finds words matching a letter mask.
type PatternFinder interface {
	FindByMask(ctx context.Context, pattern string) ([]string, error)
}

// Suggester completes partial terms from past successful lookups.
type Suggester interface {
	Add(term string)
	Complete(prefix string, limit int) []string
	Recent(limit int) []string
}

// Recorder persists successful lookups.
type Recorder interface {
	RecordQuery(ctx context.Context, userID int64, term, kind string) error
}

// Pipeline routes a classified Command through its lookup and composes the
// result into the caller's destination surface.
type Pipeline struct {
	dict         Dictionary
	slang        Slang
	finder       PatternFinder
	suggester    Suggester
	recorder     Recorder
	displayLimit int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDisplayLimit overrides the per-category entry limit.
func WithDisplayLimit(n int) Option {
	return func(p *Pipeline) {
		p.displayLimit = n
	}
}

// NewPipeline creates a lookup pipeline over the given collaborators.
// suggester and recorder may be nil; recording is then skipped.
func NewPipeline(dict Dictionary, slang Slang, finder PatternFinder, suggester Suggester, recorder Recorder, opts ...Option) *Pipeline {
	p := &Pipeline{
		dict:         dict,
		slang:        slang,
		finder:       finder,
		suggester:    suggester,
		recorder:     recorder,
		displayLimit: defaultDisplayLimit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes cmd for userID, visiting results on out and finalizing it.
// Mask parse errors pass through unwrapped so callers can map them to
// corrective messages; everything else is wrapped.
func (p *Pipeline) Run(ctx context.Context, userID int64, cmd Command, out compose.Composer) error {
	var err error
	switch cmd.Kind {
	case Suggestions:
		err = p.runSuggestions(out)
	case WordLookup:
		err = p.runWord(ctx, userID, cmd.Text, out)
	case PhraseLookup:
		err = p.runPhrase(ctx, userID, cmd.Text, out)
	case SlangLookup:
		err = p.runSlang(ctx, userID, cmd.Text, out)
	case ThesaurusLookup:
		err = p.runThesaurus(ctx, userID, cmd.Text, out)
	case MaskFinder:
		err = p.runMaskFinder(ctx, userID, cmd.Text, out)
	default:
		err = fmt.Errorf("unknown command kind %d", cmd.Kind)
	}
	if err != nil {
		return err
	}

	if err := out.Build(); err != nil {
		return fmt.Errorf("build response: %w", err)
	}
	return nil
}

func (p *Pipeline) runSuggestions(out compose.Composer) error {
	var terms []string
	if p.suggester != nil {
		terms = p.suggester.Recent(p.displayLimit)
	}
	if len(terms) == 0 {
		out.NothingFound()
		return nil
	}

	out.Title("Recent lookups")
	for i, term := range terms {
		out.Candidate(i, term)
	}
	return nil
}

func (p *Pipeline) runWord(ctx context.Context, userID int64, term string, out compose.Composer) error {
	if term == "" {
		out.NothingFound()
		return nil
	}

	var (
		defs   []provider.Definition
		groups []provider.AbbreviationGroup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		defs, err = p.dict.Definitions(gctx, provider.KindWord, term)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = p.dict.Abbreviations(gctx, term)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("word lookup %q: %w", term, err)
	}

	expansions := flattenGroups(groups)
	if len(defs) == 0 && len(expansions) == 0 {
		p.suggestAlternatives(term, out)
		return nil
	}

	if len(defs) > 0 {
		out.Title("Definitions")
		for i, d := range defs {
			if i == p.displayLimit {
				out.Link("See more definitions", wordLink(term))
				break
			}
			out.Word(i, d)
		}
	}
	if len(expansions) > 0 {
		out.Title("Abbreviations")
		for i, e := range expansions {
			if i == p.displayLimit {
				out.Link("See more abbreviations", wordLink(term))
				break
			}
			out.Abbreviation(i, e.category, e.expansion)
		}
	}

	p.record(ctx, userID, term, WordLookup)
	return nil
}

func (p *Pipeline) runPhrase(ctx context.Context, userID int64, term string, out compose.Composer) error {
	if term == "" {
		out.NothingFound()
		return nil
	}

	defs, err := p.dict.Definitions(ctx, provider.KindPhrase, term)
	if err != nil {
		return fmt.Errorf("phrase lookup %q: %w", term, err)
	}
	if len(defs) == 0 {
		out.NothingFound()
		return nil
	}

	out.Title("Definitions")
	for i, d := range defs {
		if i == p.displayLimit {
			out.Link("See more definitions", wordLink(term))
			break
		}
		out.Phrase(i, d)
	}

	p.record(ctx, userID, term, PhraseLookup)
	return nil
}

func (p *Pipeline) runSlang(ctx context.Context, userID int64, term string, out compose.Composer) error {
	if term == "" {
		out.NothingFound()
		return nil
	}

	entries, err := p.slang.Define(ctx, term)
	if err != nil {
		return fmt.Errorf("slang lookup %q: %w", term, err)
	}
	if len(entries) == 0 {
		out.NothingFound()
		return nil
	}

	out.Title("Slang")
	for i, e := range entries {
		if i == p.displayLimit {
			out.Link("See more on Urban Dictionary", slangLink(term))
			break
		}
		out.Slang(i, e)
	}

	p.record(ctx, userID, term, SlangLookup)
	return nil
}

func (p *Pipeline) runThesaurus(ctx context.Context, userID int64, term string, out compose.Composer) error {
	if term == "" {
		out.NothingFound()
		return nil
	}

	entries, err := p.dict.Thesaurus(ctx, term)
	if err != nil {
		return fmt.Errorf("thesaurus lookup %q: %w", term, err)
	}
	if len(entries) == 0 {
		out.NothingFound()
		return nil
	}

	out.Title("Synonyms and antonyms")
	for i, e := range entries {
		if i == p.displayLimit {
			out.Link("See more", thesaurusLink(term))
			break
		}
		out.Thesaurus(i, e)
	}

	p.record(ctx, userID, term, ThesaurusLookup)
	return nil
}

func (p *Pipeline) runMaskFinder(ctx context.Context, userID int64, raw string, out compose.Composer) error {
	m, err := mask.Parse(raw)
	if err != nil {
		return err
	}

	words, err := p.finder.FindByMask(ctx, m.Pattern)
	if err != nil {
		return fmt.Errorf("mask lookup %q: %w", m.Pattern, err)
	}

	// Sort before filtering so output is deterministic regardless of
	// provider order.
	sort.Strings(words)
	words = m.Filter(words)
	if len(words) == 0 {
		out.NothingFound()
		return nil
	}

	out.Title("Matching words")
	for i, w := range words {
		if i == p.displayLimit {
			out.Link("See more matches", maskLink(m.Pattern))
			break
		}
		out.Candidate(i, w)
	}

	p.record(ctx, userID, m.Pattern, MaskFinder)
	return nil
}

// suggestAlternatives renders prefix completions of term from past lookups,
// falling back to the nothing-found message.
func (p *Pipeline) suggestAlternatives(term string, out compose.Composer) {
	var terms []string
	if p.suggester != nil {
		terms = p.suggester.Complete(term, p.displayLimit)
	}
	if len(terms) == 0 {
		out.NothingFound()
		return
	}

	out.Title("Did you mean")
	for i, t := range terms {
		out.Candidate(i, t)
	}
}

func (p *Pipeline) record(ctx context.Context, userID int64, term string, kind CommandKind) {
	if p.suggester != nil {
		p.suggester.Add(term)
	}
	if p.recorder == nil {
		return
	}
	if err := p.recorder.RecordQuery(ctx, userID, term, kind.String()); err != nil {
		slog.Warn("failed to record query", "user_id", userID, "kind", kind.String(), "error", err)
	}
}

type flatExpansion struct {
	category  string
	expansion string
}

func flattenGroups(groups []provider.AbbreviationGroup) []flatExpansion {
	var flat []flatExpansion
	for _, g := range groups {
		for _, e := range g.Expansions {
			flat = append(flat, flatExpansion{category: g.Category, expansion: e})
		}
	}
	return flat
}

func wordLink(term string) string {
	return "https://www.thefreedictionary.com/" + url.PathEscape(term)
}

func slangLink(term string) string {
	return "https://www.urbandictionary.com/define.php?term=" + url.QueryEscape(term)
}

func thesaurusLink(term string) string {
	return "https://www.thesaurus.com/browse/" + url.PathEscape(term)
}

func maskLink(pattern string) string {
	return "https://onelook.com/?w=" + url.QueryEscape(strings.ReplaceAll(pattern, "_", "?"))
}
