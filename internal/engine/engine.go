// Package engine is the matching engine context. It owns the subscription
// index, both caches, the distance memo and the staged results, and exposes
// the four operations the harness drives: StartQuery, EndQuery,
// MatchDocument and GenNextAvailableResult.
//
// Operations are serialised by the engine; a match never overlaps an index
// mutation.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/cache"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/distance"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/matcher"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/results"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/subscription"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/pkg/metrics"
)

type Engine struct {
	mu       sync.Mutex
	cfg      config.EngineConfig
	index    *subscription.Index
	eval     *distance.Evaluator
	results  *cache.ResultCache
	verdicts *cache.VerdictCache
	store    *results.Store
	matcher  matcher.Matcher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Stats is a point-in-time view of engine state.
type Stats struct {
	Strategy      string
	Subscriptions int
	Topics        int
	StagedResults int
	ResultCache   int
	VerdictCache  int
	DistanceMemo  int
}

// New builds an engine from cfg. A nil m records metrics into a private
// registry.
func New(cfg config.EngineConfig, m *metrics.Metrics) (*Engine, error) {
	if m == nil {
		m = metrics.NewUnregistered()
	}
	eval, err := distance.NewEvaluator(cfg.DistanceCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	resultCache, err := cache.NewResultCache(cfg.ResultCacheSize, m.Evicted("result"))
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	verdictCache, err := cache.NewVerdictCache(cfg.VerdictCacheSize, cfg.VerdictSetCap, m.Evicted("verdict"))
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	e := &Engine{
		cfg:      cfg,
		index:    subscription.NewIndex(),
		eval:     eval,
		results:  resultCache,
		verdicts: verdictCache,
		store:    results.NewStore(),
		metrics:  m,
		logger:   logger.WithComponent("engine"),
	}
	switch cfg.Strategy {
	case config.StrategyBruteForce:
		e.matcher = matcher.NewBruteForce(e.index, e.eval)
	case config.StrategyIndexed, config.StrategyTrie:
		e.matcher = matcher.NewIndexed(matcher.IndexedConfig{
			Index:             e.index,
			Eval:              e.eval,
			Results:           e.results,
			Verdicts:          e.verdicts,
			Workers:           cfg.Workers,
			ParallelThreshold: cfg.ParallelThreshold,
			UseTrie:           cfg.Strategy == config.StrategyTrie,
		})
	default:
		return nil, apperrors.Newf(apperrors.ErrInvalidConfig, apperrors.CodeFail, "unknown strategy %q", cfg.Strategy)
	}
	e.logger.Info("engine created",
		"strategy", e.matcher.Name(),
		"result_cache_size", cfg.ResultCacheSize,
		"verdict_cache_size", cfg.VerdictCacheSize,
	)
	return e, nil
}

// NewFromConfig installs the configured default logger and builds an engine,
// registering its metrics with reg when metrics are enabled.
func NewFromConfig(cfg *config.Config, reg prometheus.Registerer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	var m *metrics.Metrics
	if cfg.Metrics.Enabled && reg != nil {
		m = metrics.New(reg, cfg.Metrics.Namespace)
	}
	return New(cfg.Engine, m)
}

// StartQuery registers subscription id. An empty keyword list, an unknown
// metric or a negative tolerance fail with ErrInvalidSubscription and leave
// the engine unchanged. Registering an id that is still active is a
// programming error and panics.
func (e *Engine) StartQuery(id subscription.ID, metric distance.Metric, keywords []string, tolerance int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.index.Add(id, metric, tolerance, keywords); err != nil {
		if apperrors.Is(err, subscription.ErrSubscriptionExists) {
			e.logger.Error("subscription id reused while active", "id", id)
			panic(err)
		}
		return fmt.Errorf("starting query %d: %w", id, err)
	}
	e.updateGauges()
	return nil
}

// EndQuery removes subscription id. Unknown ids are a no-op.
func (e *Engine) EndQuery(id subscription.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.index.Remove(id) {
		e.logger.Debug("end of unknown query ignored", "id", id)
	}
	e.updateGauges()
	return nil
}

// MatchDocument computes which active subscriptions the document satisfies and
// stages the id-sorted result under id.
func (e *Engine) MatchDocument(id results.DocID, words []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := time.Now()
	doc := matcher.NewDocument(id, words)
	out := e.matcher.Match(doc)
	e.store.Stage(id, out.IDs)

	e.metrics.MatchDuration.WithLabelValues(e.matcher.Name()).Observe(time.Since(start).Seconds())
	e.metrics.DocumentsMatchedTotal.WithLabelValues(out.Path).Inc()
	e.recordCacheLookups(out.Path)
	e.metrics.ResultsStaged.Set(float64(e.store.Len()))
	return nil
}

// GenNextAvailableResult returns and clears the staged result for id. It fails
// immediately with ErrNoAvailableResult if nothing is staged.
func (e *Engine) GenNextAvailableResult(id results.DocID) ([]subscription.ID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids, err := e.store.RetrieveAndClear(id)
	if err != nil {
		e.metrics.ResultsUnavailableTotal.Inc()
		return nil, err
	}
	e.metrics.ResultsRetrievedTotal.Inc()
	e.metrics.ResultsStaged.Set(float64(e.store.Len()))
	return ids, nil
}

// Reset drops every subscription, topic, cache entry and staged result.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.index.Reset()
	e.results.Purge()
	e.verdicts.Purge()
	e.eval.Purge()
	e.store.Reset()
	e.updateGauges()
	e.metrics.ResultsStaged.Set(0)
	e.logger.Info("engine reset")
}

func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		Strategy:      e.matcher.Name(),
		Subscriptions: e.index.Len(),
		Topics:        e.index.TopicCount(),
		StagedResults: e.store.Len(),
		ResultCache:   e.results.Len(),
		VerdictCache:  e.verdicts.Len(),
		DistanceMemo:  e.eval.Len(),
	}
}

func (e *Engine) updateGauges() {
	e.metrics.SubscriptionsActive.Set(float64(e.index.Len()))
	e.metrics.TopicsActive.Set(float64(e.index.TopicCount()))
}

func (e *Engine) recordCacheLookups(path string) {
	switch path {
	case matcher.PathResultCache:
		e.metrics.CacheHit("result", true)
	case matcher.PathVerdictCache, matcher.PathPartialVerdict:
		e.metrics.CacheHit("result", false)
		e.metrics.CacheHit("verdict", true)
	case matcher.PathScan:
		e.metrics.CacheHit("result", false)
		e.metrics.CacheHit("verdict", false)
	}
}
