package memstore

import (
	"fmt"
	"sort"
	"sync"

	"ngramlm/internal/domain"
)

type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]domain.Run
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make(map[string]domain.Run),
	}
}

func (s *MemoryStore) PutRun(run domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(id string) (domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return domain.Run{}, fmt.Errorf("run not found: %s", id)
	}
	return run, nil
}

func (s *MemoryStore) ListRuns() ([]domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]domain.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}

func (s *MemoryStore) DeleteRun(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
