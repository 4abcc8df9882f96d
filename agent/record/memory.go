package record

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps contracts in process memory. It backs tests and the
// no-database demo mode; ordering and matching semantics mirror the
// Postgres store.
type MemoryStore struct {
	mu        sync.RWMutex
	contracts map[string]Contract
	seq       int64
	now       func() time.Time
}

type MemoryOption func(*MemoryStore)

func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		contracts: make(map[string]Contract),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) GetAll(ctx context.Context) ([]Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[id]
	if !ok {
		return Contract{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) Insert(ctx context.Context, c Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.CreatedAt.IsZero() {
		// Sequence offsets keep creation order stable when inserts share a
		// wall-clock timestamp.
		s.seq++
		c.CreatedAt = s.now().UTC().Add(time.Duration(s.seq) * time.Microsecond)
	}
	s.contracts[c.ID] = c
	return nil
}

func (s *MemoryStore) UpdateByID(ctx context.Context, id string, patch Patch) (Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contracts[id]
	if !ok {
		return Contract{}, ErrNotFound
	}
	c = patch.Apply(c)
	s.contracts[id] = c
	return c, nil
}

func (s *MemoryStore) FindFirstByNameContains(ctx context.Context, text string) (Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return Contract{}, ErrNotFound
	}
	for _, c := range s.snapshotLocked() {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return c, nil
		}
	}
	return Contract{}, ErrNotFound
}

func (s *MemoryStore) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[id]; !ok {
		return ErrNotFound
	}
	delete(s.contracts, id)
	return nil
}

func (s *MemoryStore) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if _, ok := s.contracts[id]; ok {
			delete(s.contracts, id)
			deleted++
		}
	}
	return deleted, nil
}

// snapshotLocked returns contracts newest-first; callers hold the lock.
func (s *MemoryStore) snapshotLocked() []Contract {
	out := make([]Contract, 0, len(s.contracts))
	for _, c := range s.contracts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

var _ Store = (*MemoryStore)(nil)
