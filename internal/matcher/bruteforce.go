package matcher

import (
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/distance"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/subscription"
)

// BruteForce tests every keyword of every subscription against every document
// word. It keeps no index and no cache and serves as the correctness baseline.
type BruteForce struct {
	index *subscription.Index
	eval  *distance.Evaluator
}

func NewBruteForce(index *subscription.Index, eval *distance.Evaluator) *BruteForce {
	return &BruteForce{index: index, eval: eval}
}

func (b *BruteForce) Name() string { return "bruteforce" }

func (b *BruteForce) Match(doc Document) Outcome {
	ids := make([]subscription.ID, 0)
	for _, sub := range b.index.Subscriptions() {
		if b.satisfied(sub, doc.Words) {
			ids = append(ids, sub.ID)
		}
	}
	return Outcome{IDs: ids, Path: PathBruteForce}
}

func (b *BruteForce) satisfied(sub *subscription.Subscription, words []string) bool {
	for _, keyword := range sub.Keywords {
		matched := false
		for _, w := range words {
			if b.eval.Match(sub.Metric, keyword, w, sub.Tolerance) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
