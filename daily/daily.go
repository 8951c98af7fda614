// Package daily maintains a process-wide, date-keyed cache of the word
// game's answer of the day plus its dictionary enrichment. The refresh is
// single-flight: under concurrent access the upstream fetch pair runs at
// most once per calendar day.
package daily

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"lexibot/provider"
)

// ErrNotYetFetched is returned by Current before any answer has been cached.
// It is distinct from a fetch failure.
var ErrNotYetFetched = errors.New("daily answer not fetched yet")

// dayFormat keys the cache by UTC calendar date.
const dayFormat = "2006-01-02"

// Enrichment is the derived lookup data for the day's solution.
type Enrichment struct {
	Definitions []provider.Definition
	Excerpt     string
}

// Answer is one day's cached answer. Never mutated after construction.
type Answer struct {
	Day        string
	Game       provider.GameAnswer
	Enrichment Enrichment
}

// GameSource fetches the day's solution.
type GameSource interface {
	AnswerForDate(ctx context.Context, date time.Time) (*provider.GameAnswer, error)
}

// Enricher fetches derived lookup data keyed off the solution word.
type Enricher interface {
	Enrich(ctx context.Context, word string) (Enrichment, error)
}

// Recorder persists fetched answers. Persistence is best-effort and does not
// affect cache behavior.
type Recorder interface {
	SaveDailyAnswer(ctx context.Context, day, solution, excerpt string) error
}

// Cache is the daily answer cell. Safe for concurrent use.
type Cache struct {
	game     GameSource
	enricher Enricher
	recorder Recorder
	now      func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	current *Answer
}

// Option configures a Cache.
type Option func(*Cache)

// WithRecorder persists each successful refresh.
func WithRecorder(r Recorder) Option {
	return func(c *Cache) {
		c.recorder = r
	}
}

// WithNow overrides the clock (for testing).
func WithNow(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates an empty cache over the given collaborators.
func NewCache(game GameSource, enricher Enricher, opts ...Option) *Cache {
	c := &Cache{
		game:     game,
		enricher: enricher,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fresh returns the answer for the current UTC date, refreshing it from the
// upstream providers if the cached one is missing or from a previous day.
// Concurrent callers on a cold day share one refresh; a failed refresh
// leaves any previously cached answer untouched.
func (c *Cache) Fresh(ctx context.Context) (*Answer, error) {
	day := c.now().UTC().Format(dayFormat)

	if a := c.cached(day); a != nil {
		return a, nil
	}

	v, err, _ := c.group.Do(day, func() (any, error) {
		// A concurrent caller may have refreshed between our check and
		// winning the flight.
		if a := c.cached(day); a != nil {
			return a, nil
		}
		return c.refresh(ctx, day)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Answer), nil
}

// Current returns whatever is cached right now without refreshing. The
// answer may be from a previous day.
func (c *Cache) Current() (*Answer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil, ErrNotYetFetched
	}
	return c.current, nil
}

// Prime seeds the cache, typically from persisted state at startup. It never
// replaces a same-day or newer answer.
func (c *Cache) Prime(a *Answer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.Day < a.Day {
		c.current = a
	}
}

func (c *Cache) cached(day string) *Answer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current != nil && c.current.Day == day {
		return c.current
	}
	return nil
}

func (c *Cache) refresh(ctx context.Context, day string) (*Answer, error) {
	date, err := time.Parse(dayFormat, day)
	if err != nil {
		return nil, fmt.Errorf("parse day %q: %w", day, err)
	}

	game, err := c.game.AnswerForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetch daily answer: %w", err)
	}

	enrichment, err := c.enricher.Enrich(ctx, game.Solution)
	if err != nil {
		return nil, fmt.Errorf("enrich daily answer: %w", err)
	}

	answer := &Answer{Day: day, Game: *game, Enrichment: enrichment}

	c.mu.Lock()
	c.current = answer
	c.mu.Unlock()

	if c.recorder != nil {
		if err := c.recorder.SaveDailyAnswer(ctx, day, game.Solution, enrichment.Excerpt); err != nil {
			slog.Warn("failed to persist daily answer", "day", day, "error", err)
		}
	}

	slog.Info("daily answer refreshed", "day", day, "game_id", game.ID)
	return answer, nil
}
