package matcher

import (
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/distance"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/subscription"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/trie"
)

// probe answers whether some word of one document satisfies a topic. Probes
// are built per document and must be safe for concurrent Test calls.
type probe interface {
	Test(key subscription.TopicKey) bool
}

// prober builds the probe for a document.
type prober func(doc Document) probe

type pairwiseProbe struct {
	eval  *distance.Evaluator
	words []string
	set   map[string]struct{}
}

func pairwise(eval *distance.Evaluator) prober {
	return func(doc Document) probe {
		return newPairwiseProbe(eval, doc.Words)
	}
}

func newPairwiseProbe(eval *distance.Evaluator, words []string) *pairwiseProbe {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return &pairwiseProbe{eval: eval, words: words, set: set}
}

func (p *pairwiseProbe) Test(key subscription.TopicKey) bool {
	if key.Metric == distance.Exact {
		_, ok := p.set[key.Word]
		return ok
	}
	for _, w := range p.words {
		if p.eval.Match(key.Metric, key.Word, w, key.Tolerance) {
			return true
		}
	}
	return false
}

// trieProbe indexes the document vocabulary in a trie and answers exact and
// Hamming topics from it. Edit topics, and topic words outside the trie
// alphabet, fall back to pairwise evaluation.
type trieProbe struct {
	tr       *trie.Trie
	fallback *pairwiseProbe
}

func trieBacked(eval *distance.Evaluator, logger *slog.Logger) prober {
	return func(doc Document) probe {
		fallback := newPairwiseProbe(eval, doc.Words)
		tr, err := trie.Build(doc.Words)
		if err != nil {
			logger.Debug("document vocabulary outside trie alphabet, using pairwise evaluation",
				"doc_id", doc.ID,
				"error", err,
			)
			return fallback
		}
		return &trieProbe{tr: tr, fallback: fallback}
	}
}

func (p *trieProbe) Test(key subscription.TopicKey) bool {
	var (
		ok  bool
		err error
	)
	switch key.Metric {
	case distance.Exact:
		ok, err = p.tr.SearchExact(key.Word)
	case distance.Hamming:
		ok, err = p.tr.SearchHamming(key.Word, key.Tolerance)
	default:
		return p.fallback.Test(key)
	}
	if err != nil {
		return p.fallback.Test(key)
	}
	return ok
}
