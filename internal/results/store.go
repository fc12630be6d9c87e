// Package results stages computed match results until the harness consumes
// them. Each staged result can be retrieved exactly once.
package results

import (
	"slices"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/internal/subscription"
	apperrors "github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/pkg/errors"
)

// DocID is the caller-assigned document identifier.
type DocID int

type Store struct {
	mu     sync.Mutex
	staged map[DocID][]subscription.ID
}

func NewStore() *Store {
	return &Store{staged: make(map[DocID][]subscription.ID)}
}

// Stage records ids as the result for doc, replacing any result not yet
// retrieved.
func (s *Store) Stage(doc DocID, ids []subscription.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged[doc] = slices.Clone(ids)
}

// RetrieveAndClear returns and removes the staged result for doc. It never
// blocks: without a staged result it fails with ErrNoAvailableResult.
func (s *Store) RetrieveAndClear(doc DocID) ([]subscription.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, ok := s.staged[doc]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrNoAvailableResult, apperrors.CodeNoAvailableResult, "document %d", doc)
	}
	delete(s.staged, doc)
	if ids == nil {
		ids = []subscription.ID{}
	}
	return ids, nil
}

// Len returns the number of staged results.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.staged)
}

func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = make(map[DocID][]subscription.ID)
}
