package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/distance"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/subscription"
)

func key(word string) subscription.TopicKey {
	return subscription.NewTopicKey(word, distance.Exact, 0)
}

func TestResultCacheCopiesValues(t *testing.T) {
	c, err := NewResultCache(4, nil)
	require.NoError(t, err)

	in := []subscription.ID{1, 2}
	c.Put(ResultKey{Words: 1, Population: 2}, in)
	in[0] = 99

	got, ok := c.Get(ResultKey{Words: 1, Population: 2})
	require.True(t, ok)
	assert.Equal(t, []subscription.ID{1, 2}, got)
	got[1] = 42

	again, _ := c.Get(ResultKey{Words: 1, Population: 2})
	assert.Equal(t, []subscription.ID{1, 2}, again)

	_, ok = c.Get(ResultKey{Words: 1, Population: 3})
	assert.False(t, ok)
}

func TestResultCacheEvictsLeastRecentlyUsed(t *testing.T) {
	evictions := 0
	c, err := NewResultCache(2, func() { evictions++ })
	require.NoError(t, err)

	a, b, d := ResultKey{Words: 1}, ResultKey{Words: 2}, ResultKey{Words: 3}
	c.Put(a, nil)
	c.Put(b, nil)
	_, _ = c.Get(a)
	c.Put(d, nil)

	_, okA := c.Get(a)
	_, okB := c.Get(b)
	assert.True(t, okA, "recently read entry survives")
	assert.False(t, okB, "least recently used entry is evicted")
	assert.Equal(t, 1, evictions)
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestVerdictCacheClassify(t *testing.T) {
	c, err := NewVerdictCache(8, 100, nil)
	require.NoError(t, err)

	_, found := c.Classify(7, []subscription.TopicKey{key("cat")})
	assert.False(t, found)

	c.Merge(7, []subscription.TopicKey{key("cat")}, []subscription.TopicKey{key("dog")})
	c.Merge(7, []subscription.TopicKey{key("fish")}, nil)

	verdicts, found := c.Classify(7, []subscription.TopicKey{key("cat"), key("dog"), key("fish"), key("bird")})
	require.True(t, found)
	assert.Equal(t, []Verdict{Positive, Negative, Positive, Unknown}, verdicts)
}

func TestVerdictCacheDistinguishesMetric(t *testing.T) {
	c, err := NewVerdictCache(8, 100, nil)
	require.NoError(t, err)

	exact := subscription.NewTopicKey("bat", distance.Exact, 0)
	hamming := subscription.NewTopicKey("bat", distance.Hamming, 1)
	c.Merge(1, []subscription.TopicKey{hamming}, []subscription.TopicKey{exact})

	verdicts, _ := c.Classify(1, []subscription.TopicKey{exact, hamming})
	assert.Equal(t, []Verdict{Negative, Positive}, verdicts)
}

func TestVerdictCacheCapsSets(t *testing.T) {
	c, err := NewVerdictCache(8, 3, nil)
	require.NoError(t, err)

	keys := []subscription.TopicKey{key("a"), key("b"), key("c"), key("d"), key("e")}
	c.Merge(1, keys, keys)

	verdicts, _ := c.Classify(1, keys)
	known := 0
	for _, v := range verdicts {
		if v == Positive {
			known++
		}
	}
	assert.Equal(t, 3, known)
}

func TestVerdictCacheEvicts(t *testing.T) {
	evictions := 0
	c, err := NewVerdictCache(2, 10, func() { evictions++ })
	require.NoError(t, err)

	c.Merge(1, nil, nil)
	c.Merge(2, nil, nil)
	c.Merge(3, nil, nil)
	assert.Equal(t, 1, evictions)
	assert.Equal(t, 2, c.Len())

	_, found := c.Classify(1, nil)
	assert.False(t, found)

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestNewVerdictCacheValidates(t *testing.T) {
	_, err := NewVerdictCache(0, 10, nil)
	assert.Error(t, err)
	_, err = NewVerdictCache(10, 0, nil)
	assert.Error(t, err)
}
