package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.New().String()
}

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Add(_ context.Context, r Record) (Record, error) {
	r, err := prepare(r)
	if err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.filter(func(old Record) bool {
		return old.Owner != r.Owner || old.Expression != r.Expression
	})
	s.records = append(s.records, r)
	return r, nil
}

func (s *MemoryStore) List(_ context.Context, owner string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, r := range s.records {
		if r.Owner == owner {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.records)
	s.records = s.filter(func(r Record) bool { return r.ID != id })
	if len(s.records) == n {
		return ErrNotFound
	}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.filter(func(r Record) bool { return r.Owner != owner })
	return nil
}

func (s *MemoryStore) Prune(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.records)
	s.records = s.filter(func(r Record) bool { return !r.Timestamp.Before(before) })
	return n - len(s.records), nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// filter keeps the records for which keep is true. The caller holds the
// write lock.
func (s *MemoryStore) filter(keep func(Record) bool) []Record {
	out := s.records[:0]
	for _, r := range s.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	clear(s.records[len(out):])
	return out
}
