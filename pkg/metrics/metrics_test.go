package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "test")

	m.SubscriptionsActive.Set(3)
	m.CacheHit("result", true)
	m.CacheHit("result", false)
	m.CacheHit("result", false)
	m.Evicted("verdict")()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.SubscriptionsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("result", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("result", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheEvictionsTotal.WithLabelValues("verdict")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_subscriptions_active")
	assert.Contains(t, names, "test_cache_lookups_total")
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg, "dup")
	assert.Panics(t, func() { New(reg, "dup") })
}

func TestNewUnregisteredIsIsolated(t *testing.T) {
	a := NewUnregistered()
	b := NewUnregistered()
	a.ResultsRetrievedTotal.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ResultsRetrievedTotal))
}
