package subscription

import (
	"sync/atomic"

	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/distance"
)

// ID is the caller-assigned subscription identifier.
type ID int

// TopicID addresses a Topic slot in the index arena. Slots are reused after a
// topic is destroyed, so a TopicID is only meaningful while the topic lives.
type TopicID int

// TopicKey is the identity of a Topic. Exact topics always carry tolerance 0.
type TopicKey struct {
	Word      string
	Metric    distance.Metric
	Tolerance int
}

func NewTopicKey(word string, metric distance.Metric, tolerance int) TopicKey {
	if metric == distance.Exact {
		tolerance = 0
	}
	return TopicKey{Word: word, Metric: metric, Tolerance: tolerance}
}

// Subscription is a standing interest: every keyword must be satisfied by some
// document word under Metric and Tolerance.
type Subscription struct {
	ID        ID
	Metric    distance.Metric
	Tolerance int
	Keywords  []string
	// Serial increases with every registration, so an id that is ended and
	// registered again is distinguishable from its previous incarnation.
	Serial uint64

	keys      []TopicKey
	remaining atomic.Int64
}

// Remaining returns the number of keywords not yet satisfied in the current
// document cycle.
func (s *Subscription) Remaining() int {
	return int(s.remaining.Load())
}

func (s *Subscription) reset() {
	s.remaining.Store(int64(len(s.Keywords)))
}

// Topic groups all subscriptions sharing one (word, metric, tolerance).
// Members maps a subscription to how many of its keywords equal Word.
type Topic struct {
	ID      TopicID
	Key     TopicKey
	members map[ID]int
}

// Members returns the number of distinct member subscriptions.
func (t *Topic) Members() int {
	return len(t.members)
}
