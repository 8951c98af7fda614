// Package suggest keeps a prefix index of successfully looked-up terms and
// completes partial queries from it.
package suggest

import (
	"errors"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"
)

const maxRecent = 100

// errStop aborts a trie walk once enough completions are collected.
var errStop = errors.New("stop walk")

// Index is an in-memory suggestion index. Safe for concurrent use.
type Index struct {
	mu     sync.RWMutex
	trie   *patricia.Trie
	recent []string
}

// New creates an empty index.
func New() *Index {
	return &Index{trie: patricia.NewTrie()}
}

// Seed bulk-loads terms, typically from the persisted query log at startup.
// Seeded terms populate the trie but not the recent list.
func (ix *Index) Seed(terms []string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, t := range terms {
		if t != "" {
			ix.trie.Insert(patricia.Prefix(t), struct{}{})
		}
	}
}

// Add records one successful lookup.
func (ix *Index) Add(term string) {
	if term == "" {
		return
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.trie.Insert(patricia.Prefix(term), struct{}{})

	for i, r := range ix.recent {
		if r == term {
			ix.recent = append(ix.recent[:i], ix.recent[i+1:]...)
			break
		}
	}
	ix.recent = append([]string{term}, ix.recent...)
	if len(ix.recent) > maxRecent {
		ix.recent = ix.recent[:maxRecent]
	}
}

// Complete returns up to limit known terms starting with prefix, in
// lexicographic order. The prefix itself is not returned as a completion.
func (ix *Index) Complete(prefix string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var out []string
	err := ix.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		term := string(p)
		if term == prefix {
			return nil
		}
		out = append(out, term)
		if len(out) >= limit {
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil
	}
	return out
}

// Recent returns up to limit of the most recently added terms, newest first.
func (ix *Index) Recent(limit int) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if limit > len(ix.recent) {
		limit = len(ix.recent)
	}
	return append([]string(nil), ix.recent[:limit]...)
}
