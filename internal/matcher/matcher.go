// Package matcher decides which subscriptions a document satisfies. All
// strategies share the Matcher interface so the engine can pick one at
// startup without touching subscription or document types.
package matcher

import (
	"slices"

	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/results"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/subscription"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/pkg/hashing"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/pkg/metrics"
)

// Document is one transient bag of words. Words are sorted and unique.
type Document struct {
	ID    results.DocID
	Words []string
	Hash  uint64
}

// NewDocument collapses duplicate words and computes the content hash.
func NewDocument(id results.DocID, words []string) Document {
	sorted := slices.Clone(words)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return Document{ID: id, Words: sorted, Hash: hashing.SortedWords(sorted)}
}

// Outcome is the id-sorted set of satisfied subscriptions and the path that
// produced it.
type Outcome struct {
	IDs  []subscription.ID
	Path string
}

type Matcher interface {
	Name() string
	Match(doc Document) Outcome
}

// Resolution paths, shared with the metrics labels.
const (
	PathResultCache    = metrics.PathResultCache
	PathVerdictCache   = metrics.PathVerdictCache
	PathPartialVerdict = metrics.PathPartialVerdict
	PathScan           = metrics.PathScan
	PathBruteForce     = metrics.PathBruteForce
)
