package match

import (
	"context"
	"sync"
)

// MatchPersistence stores and loads match snapshots.
type MatchPersistence interface {
	Save(ctx context.Context, matchID string, snap Snapshot) error
	Load(ctx context.Context, matchID string) (Snapshot, bool, error)
}

// InMemoryMatchStore keeps snapshots in process. Used when Redis is not
// configured.
type InMemoryMatchStore struct {
	mu sync.Mutex
	m  map[string]Snapshot
}

func NewInMemoryMatchStore() *InMemoryMatchStore {
	return &InMemoryMatchStore{
		m: make(map[string]Snapshot),
	}
}

func (s *InMemoryMatchStore) Save(_ context.Context, matchID string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[matchID] = snap
	return nil
}

func (s *InMemoryMatchStore) Load(_ context.Context, matchID string) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.m[matchID]
	return snap, ok, nil
}

func (s *InMemoryMatchStore) Delete(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, matchID)
}
