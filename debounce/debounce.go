// Package debounce suppresses rapid repeated interactive queries from the
// same user so that only the most recent one in a burst is answered.
package debounce

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultWindow is the interval within which a newer query from the same
// user supersedes an older one.
const DefaultWindow = time.Second

const cancelTimeout = 5 * time.Second

// Canceler delivers the best-effort "this query will not be answered" signal
// for a superseded query. Failures are logged, never propagated: if the
// transport cannot cancel, the stale answer may still reach the user.
type Canceler interface {
	Cancel(ctx context.Context, queryID string) error
}

type entry struct {
	queryID  string
	issuedAt time.Time
}

// Debouncer tracks the latest query per user. It is safe for concurrent use.
type Debouncer struct {
	canceler Canceler
	window   time.Duration

	mu      sync.Mutex
	entries map[int64]entry
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithWindow overrides the debounce window.
func WithWindow(d time.Duration) Option {
	return func(db *Debouncer) {
		db.window = d
	}
}

// New creates a Debouncer. canceler may be nil; superseded queries are then
// simply dropped without a cancel signal.
func New(canceler Canceler, opts ...Option) *Debouncer {
	db := &Debouncer{
		canceler: canceler,
		window:   DefaultWindow,
		entries:  make(map[int64]entry),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Admit registers queryID as userID's latest query, waits out the debounce
// window, and reports whether the query is still the latest — i.e. whether
// it should be answered. A query superseding a very recent one triggers a
// fire-and-forget cancel of the previous query id.
//
// Admit blocks for the window; callers run it on its own goroutine.
func (db *Debouncer) Admit(ctx context.Context, userID int64, queryID string) bool {
	now := time.Now()

	db.mu.Lock()
	prev, had := db.entries[userID]
	db.entries[userID] = entry{queryID: queryID, issuedAt: now}
	db.mu.Unlock()

	if had && now.Sub(prev.issuedAt) < db.window && db.canceler != nil {
		go func() {
			cctx, cancel := context.WithTimeout(context.Background(), cancelTimeout)
			defer cancel()
			if err := db.canceler.Cancel(cctx, prev.queryID); err != nil {
				slog.Warn("failed to cancel superseded query", "user_id", userID, "query_id", prev.queryID, "error", err)
			}
		}()
	}

	select {
	case <-time.After(db.window):
	case <-ctx.Done():
		return false
	}

	db.mu.Lock()
	cur := db.entries[userID]
	db.mu.Unlock()

	return cur.queryID == queryID
}
