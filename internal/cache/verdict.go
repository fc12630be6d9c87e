package cache

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/subscription"
)

// Verdict is what a word set is known to do to a topic.
type Verdict uint8

const (
	Unknown Verdict = iota
	Positive
	Negative
)

type topicSet map[subscription.TopicKey]struct{}

type verdictEntry struct {
	negative topicSet
	positive topicSet
}

// VerdictCache remembers, per document word set, which topics fired and which
// did not. A topic's verdict depends only on its key and the word set, so
// entries stay valid as subscriptions come and go.
type VerdictCache struct {
	mu      sync.Mutex
	entries *lru.Cache[uint64, *verdictEntry]
	setCap  int
	onEvict func()
}

// NewVerdictCache creates a cache for at most size word sets, each holding at
// most setCap positive and setCap negative topics.
func NewVerdictCache(size, setCap int, onEvict func()) (*VerdictCache, error) {
	if setCap <= 0 {
		return nil, fmt.Errorf("creating verdict cache: set cap must be positive, got %d", setCap)
	}
	entries, err := lru.New[uint64, *verdictEntry](size)
	if err != nil {
		return nil, fmt.Errorf("creating verdict cache: %w", err)
	}
	return &VerdictCache{entries: entries, setCap: setCap, onEvict: onEvict}, nil
}

// Classify returns the remembered verdict of each key for the word set hashed
// to words. found is false when the word set has never been recorded.
func (c *VerdictCache) Classify(words uint64, keys []subscription.TopicKey) (verdicts []Verdict, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries.Get(words)
	if !ok {
		return nil, false
	}
	verdicts = make([]Verdict, len(keys))
	for i, key := range keys {
		if _, ok := entry.positive[key]; ok {
			verdicts[i] = Positive
		} else if _, ok := entry.negative[key]; ok {
			verdicts[i] = Negative
		}
	}
	return verdicts, true
}

// Merge records fired topics as positive and unfired ones as negative for the
// word set. When a set grows past the cap, arbitrary members are dropped.
func (c *VerdictCache) Merge(words uint64, fired, unfired []subscription.TopicKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries.Get(words)
	if !ok {
		entry = &verdictEntry{
			negative: make(topicSet, min(len(unfired), c.setCap)),
			positive: make(topicSet, min(len(fired), c.setCap)),
		}
		if evicted := c.entries.Add(words, entry); evicted && c.onEvict != nil {
			c.onEvict()
		}
	}
	entry.positive.merge(fired, c.setCap)
	entry.negative.merge(unfired, c.setCap)
}

func (c *VerdictCache) Len() int {
	return c.entries.Len()
}

func (c *VerdictCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

func (s topicSet) merge(keys []subscription.TopicKey, limit int) {
	for _, key := range keys {
		s[key] = struct{}{}
	}
	for key := range s {
		if len(s) <= limit {
			break
		}
		delete(s, key)
	}
}
