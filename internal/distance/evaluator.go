package distance

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

type evalKey struct {
	metric    Metric
	a, b      string
	tolerance int
}

// Evaluator memoizes Within. Words repeat heavily across documents, so most
// lookups are hits. The memo is bounded and evicts least recently used pairs.
type Evaluator struct {
	memo *lru.Cache[evalKey, bool]
}

// NewEvaluator creates an Evaluator remembering at most size pairs.
func NewEvaluator(size int) (*Evaluator, error) {
	memo, err := lru.New[evalKey, bool](size)
	if err != nil {
		return nil, fmt.Errorf("creating distance memo: %w", err)
	}
	return &Evaluator{memo: memo}, nil
}

// Match reports whether docWord satisfies word under metric and tolerance.
// Exact comparisons bypass the memo.
func (e *Evaluator) Match(metric Metric, word, docWord string, tolerance int) bool {
	if metric == Exact {
		return word == docWord
	}
	key := evalKey{metric: metric, a: word, b: docWord, tolerance: tolerance}
	if v, ok := e.memo.Get(key); ok {
		return v
	}
	v := Within(metric, word, docWord, tolerance)
	e.memo.Add(key, v)
	return v
}

// Len returns the number of memoized pairs.
func (e *Evaluator) Len() int {
	return e.memo.Len()
}

// Purge drops every memoized pair.
func (e *Evaluator) Purge() {
	e.memo.Purge()
}
