// Package subscription maintains the subscription index: subscriptions and the
// topics they share, both held as arena records addressed by integer id.
package subscription

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/distance"
	apperrors "github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/pkg/hashing"
	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/pkg/logger"
)

// ErrSubscriptionExists is returned when an id is registered while active.
var ErrSubscriptionExists = errors.New("subscription id already active")

type Index struct {
	mu     sync.RWMutex
	subs   map[ID]*Subscription
	topics []*Topic
	free   []TopicID
	byKey  map[TopicKey]TopicID
	serial uint64

	popHash  uint64
	popDirty bool
	logger   *slog.Logger
}

func NewIndex() *Index {
	return &Index{
		subs:     make(map[ID]*Subscription),
		byKey:    make(map[TopicKey]TopicID),
		popDirty: true,
		logger:   logger.WithComponent("subscription-index"),
	}
}

// Add registers a subscription and attaches it to one topic per distinct
// keyword. Validation happens before any topic is touched, so a rejected
// subscription leaves the index unchanged.
func (x *Index) Add(id ID, metric distance.Metric, tolerance int, keywords []string) (*Subscription, error) {
	if err := validate(id, metric, tolerance, keywords); err != nil {
		return nil, err
	}
	if metric == distance.Exact {
		tolerance = 0
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if _, exists := x.subs[id]; exists {
		return nil, fmt.Errorf("adding subscription %d: %w", id, ErrSubscriptionExists)
	}

	x.serial++
	sub := &Subscription{
		ID:        id,
		Metric:    metric,
		Tolerance: tolerance,
		Keywords:  slices.Clone(keywords),
		Serial:    x.serial,
	}
	sub.reset()

	counts := make(map[TopicKey]int, len(keywords))
	for _, word := range keywords {
		key := NewTopicKey(word, metric, tolerance)
		if counts[key] == 0 {
			sub.keys = append(sub.keys, key)
		}
		counts[key]++
	}
	for _, key := range sub.keys {
		t := x.topicFor(key)
		t.members[id] = counts[key]
	}
	x.subs[id] = sub
	x.popDirty = true

	x.logger.Debug("subscription added",
		"id", id,
		"metric", metric,
		"tolerance", tolerance,
		"keywords", len(keywords),
		"topics", len(x.byKey),
	)
	return sub, nil
}

// Remove detaches id from all of its topics, destroying topics left without
// members. Unknown ids are ignored; the return value reports whether id was
// active.
func (x *Index) Remove(id ID) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	sub, exists := x.subs[id]
	if !exists {
		return false
	}
	for _, key := range sub.keys {
		tid, ok := x.byKey[key]
		if !ok {
			panic(fmt.Sprintf("subscription: topic %+v of subscription %d missing", key, id))
		}
		t := x.topics[tid]
		delete(t.members, id)
		if len(t.members) == 0 {
			x.destroyTopic(t)
		}
	}
	delete(x.subs, id)
	x.popDirty = true
	x.logger.Debug("subscription removed", "id", id, "topics", len(x.byKey))
	return true
}

// Get returns the active subscription with the given id.
func (x *Index) Get(id ID) (*Subscription, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	sub, ok := x.subs[id]
	return sub, ok
}

// Topic returns the live topic in slot tid, or nil.
func (x *Index) Topic(tid TopicID) *Topic {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if int(tid) < 0 || int(tid) >= len(x.topics) {
		return nil
	}
	return x.topics[tid]
}

// TopicByKey looks a topic up by identity.
func (x *Index) TopicByKey(key TopicKey) (*Topic, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	tid, ok := x.byKey[key]
	if !ok {
		return nil, false
	}
	return x.topics[tid], true
}

// Topics returns every live topic ordered by slot.
func (x *Index) Topics() []*Topic {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]*Topic, 0, len(x.byKey))
	for _, t := range x.topics {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Subscriptions returns the active subscriptions ordered by id.
func (x *Index) Subscriptions() []*Subscription {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]*Subscription, 0, len(x.subs))
	for _, sub := range x.subs {
		out = append(out, sub)
	}
	slices.SortFunc(out, func(a, b *Subscription) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.subs)
}

func (x *Index) TopicCount() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byKey)
}

// PopulationHash identifies the current set of active subscriptions: the
// id-ordered sequence of (id, serial) pairs.
func (x *Index) PopulationHash() uint64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.popDirty {
		return x.popHash
	}
	ids := make([]ID, 0, len(x.subs))
	for id := range x.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	seq := make([]uint64, 0, 2*len(ids))
	for _, id := range ids {
		seq = append(seq, uint64(id), x.subs[id].Serial)
	}
	x.popHash = hashing.Sequence(seq)
	x.popDirty = false
	return x.popHash
}

// Fire notifies every member of topic tid that one of its keywords matched.
// satisfied is called exactly once for a subscription, when its remaining
// count reaches zero. Fire is safe for concurrent use on distinct topics.
func (x *Index) Fire(tid TopicID, satisfied func(ID)) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	t := x.topics[tid]
	if t == nil {
		panic(fmt.Sprintf("subscription: firing destroyed topic %d", tid))
	}
	for id, count := range t.members {
		left := x.subs[id].remaining.Add(-int64(count))
		switch {
		case left == 0:
			satisfied(id)
		case left < 0:
			panic(fmt.Sprintf("subscription: remaining count of %d dropped below zero", id))
		}
	}
}

// ResetRemaining restores every subscription's remaining count to the number
// of its keywords. It must run after each document cycle.
func (x *Index) ResetRemaining() {
	x.mu.RLock()
	defer x.mu.RUnlock()
	for _, sub := range x.subs {
		sub.reset()
	}
}

// Reset drops every subscription and topic.
func (x *Index) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.subs = make(map[ID]*Subscription)
	x.topics = nil
	x.free = nil
	x.byKey = make(map[TopicKey]TopicID)
	x.popDirty = true
}

func (x *Index) topicFor(key TopicKey) *Topic {
	if tid, ok := x.byKey[key]; ok {
		return x.topics[tid]
	}
	var tid TopicID
	if n := len(x.free); n > 0 {
		tid = x.free[n-1]
		x.free = x.free[:n-1]
	} else {
		tid = TopicID(len(x.topics))
		x.topics = append(x.topics, nil)
	}
	t := &Topic{ID: tid, Key: key, members: make(map[ID]int)}
	x.topics[tid] = t
	x.byKey[key] = tid
	return t
}

func (x *Index) destroyTopic(t *Topic) {
	x.topics[t.ID] = nil
	x.free = append(x.free, t.ID)
	delete(x.byKey, t.Key)
}

func validate(id ID, metric distance.Metric, tolerance int, keywords []string) error {
	if len(keywords) == 0 {
		return apperrors.Newf(apperrors.ErrInvalidSubscription, apperrors.CodeFail, "subscription %d has no keywords", id)
	}
	if !metric.Valid() {
		return apperrors.Newf(apperrors.ErrInvalidSubscription, apperrors.CodeFail, "subscription %d has unknown metric %d", id, int(metric))
	}
	if metric != distance.Exact && tolerance < 0 {
		return apperrors.Newf(apperrors.ErrInvalidSubscription, apperrors.CodeFail, "subscription %d has negative tolerance %d", id, tolerance)
	}
	return nil
}
