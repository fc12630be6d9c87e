package matcher

import (
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/cache"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/distance"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/subscription"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/pkg/logger"
)

// IndexedConfig wires the shared engine state into an Indexed matcher.
type IndexedConfig struct {
	Index    *subscription.Index
	Eval     *distance.Evaluator
	Results  *cache.ResultCache
	Verdicts *cache.VerdictCache
	// Workers bounds the goroutines evaluating topics; 0 means GOMAXPROCS.
	Workers int
	// ParallelThreshold is the number of unresolved topics from which
	// evaluation fans out. 0 disables fan-out.
	ParallelThreshold int
	// UseTrie probes exact and Hamming topics through a trie built over the
	// document vocabulary.
	UseTrie bool
}

// Indexed resolves a document topic by topic, consulting the result cache and
// the verdict cache before testing any word.
type Indexed struct {
	cfg    IndexedConfig
	probe  prober
	name   string
	logger *slog.Logger
}

func NewIndexed(cfg IndexedConfig) *Indexed {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	m := &Indexed{
		cfg:    cfg,
		name:   "indexed",
		logger: logger.WithComponent("matcher"),
	}
	m.probe = pairwise(cfg.Eval)
	if cfg.UseTrie {
		m.name = "trie"
		m.probe = trieBacked(cfg.Eval, m.logger)
	}
	return m
}

func (m *Indexed) Name() string { return m.name }

func (m *Indexed) Match(doc Document) Outcome {
	key := cache.ResultKey{Words: doc.Hash, Population: m.cfg.Index.PopulationHash()}
	if ids, ok := m.cfg.Results.Get(key); ok {
		return Outcome{IDs: ids, Path: PathResultCache}
	}

	topics := m.cfg.Index.Topics()
	keys := make([]subscription.TopicKey, len(topics))
	for i, t := range topics {
		keys[i] = t.Key
	}
	verdicts, found := m.cfg.Verdicts.Classify(doc.Hash, keys)
	if !found {
		verdicts = make([]cache.Verdict, len(topics))
	}

	acc := &accumulator{}
	fired := make([]bool, len(topics))
	unknown := make([]int, 0, len(topics))
	for i, v := range verdicts {
		switch v {
		case cache.Positive:
			fired[i] = true
			m.cfg.Index.Fire(topics[i].ID, acc.add)
		case cache.Unknown:
			unknown = append(unknown, i)
		}
	}

	path := PathScan
	if found {
		path = PathPartialVerdict
		if len(unknown) == 0 {
			path = PathVerdictCache
		}
	}
	if len(unknown) > 0 {
		m.evaluate(m.probe(doc), topics, unknown, fired, acc)
	}
	m.cfg.Index.ResetRemaining()

	firedKeys := make([]subscription.TopicKey, 0, len(topics))
	unfiredKeys := make([]subscription.TopicKey, 0, len(topics))
	for i, k := range keys {
		if fired[i] {
			firedKeys = append(firedKeys, k)
		} else {
			unfiredKeys = append(unfiredKeys, k)
		}
	}
	m.cfg.Verdicts.Merge(doc.Hash, firedKeys, unfiredKeys)

	ids := acc.sorted()
	m.cfg.Results.Put(key, ids)
	m.logger.Debug("document matched",
		"doc_id", doc.ID,
		"path", path,
		"topics", len(topics),
		"evaluated", len(unknown),
		"satisfied", len(ids),
	)
	return Outcome{IDs: ids, Path: path}
}

// evaluate tests the unresolved topics against the document and fires those
// that match. Disjoint topics are independent, so large batches are split
// across a bounded worker group.
func (m *Indexed) evaluate(p probe, topics []*subscription.Topic, unknown []int, fired []bool, acc *accumulator) {
	test := func(idxs []int) {
		for _, i := range idxs {
			if p.Test(topics[i].Key) {
				fired[i] = true
				m.cfg.Index.Fire(topics[i].ID, acc.add)
			}
		}
	}
	if m.cfg.ParallelThreshold == 0 || len(unknown) < m.cfg.ParallelThreshold || m.cfg.Workers == 1 {
		test(unknown)
		return
	}

	chunk := (len(unknown) + m.cfg.Workers - 1) / m.cfg.Workers
	var g errgroup.Group
	g.SetLimit(m.cfg.Workers)
	for start := 0; start < len(unknown); start += chunk {
		part := unknown[start:min(start+chunk, len(unknown))]
		g.Go(func() error {
			test(part)
			return nil
		})
	}
	_ = g.Wait()
}

// accumulator collects satisfied subscriptions; firing may run concurrently.
type accumulator struct {
	mu  sync.Mutex
	ids []subscription.ID
}

func (a *accumulator) add(id subscription.ID) {
	a.mu.Lock()
	a.ids = append(a.ids, id)
	a.mu.Unlock()
}

func (a *accumulator) sorted() []subscription.ID {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := slices.Clone(a.ids)
	if ids == nil {
		ids = []subscription.ID{}
	}
	slices.Sort(ids)
	return ids
}
