// Package cache holds the two memoization layers of the matcher: complete
// results keyed by document content and subscriber population, and per-topic
// verdicts keyed by document content alone.
package cache

import (
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/subscription"
)

// ResultKey combines the word-set hash of a document with the hash of the
// subscriber population it was matched against.
type ResultKey struct {
	Words      uint64
	Population uint64
}

// ResultCache remembers complete match results. Entries are evicted least
// recently used first.
type ResultCache struct {
	entries *lru.Cache[ResultKey, []subscription.ID]
	onEvict func()
}

// NewResultCache creates a cache holding at most size results. onEvict, if
// non-nil, is called once per evicted entry.
func NewResultCache(size int, onEvict func()) (*ResultCache, error) {
	entries, err := lru.New[ResultKey, []subscription.ID](size)
	if err != nil {
		return nil, fmt.Errorf("creating result cache: %w", err)
	}
	return &ResultCache{entries: entries, onEvict: onEvict}, nil
}

// Get returns a copy of the cached result for key.
func (c *ResultCache) Get(key ResultKey) ([]subscription.ID, bool) {
	ids, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return slices.Clone(ids), true
}

// Put stores a copy of ids under key.
func (c *ResultCache) Put(key ResultKey, ids []subscription.ID) {
	if evicted := c.entries.Add(key, slices.Clone(ids)); evicted && c.onEvict != nil {
		c.onEvict()
	}
}

func (c *ResultCache) Len() int {
	return c.entries.Len()
}

func (c *ResultCache) Purge() {
	c.entries.Purge()
}
