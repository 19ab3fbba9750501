package memory

import (
	"context"
	"sync"

	"github.com/aretw0/lectern/pkg/domain"
)

// Store implements ports.ExecutionStore in memory.
// Safe for concurrent use.
type Store struct {
	data  map[string]*domain.WorkflowExecution
	order []string
	mu    sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.WorkflowExecution),
	}
}

// Save persists a copy of the execution.
func (s *Store) Save(ctx context.Context, exec *domain.WorkflowExecution) error {
	copied := exec.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[exec.ID]; !ok {
		s.order = append(s.order, exec.ID)
	}
	s.data[exec.ID] = copied
	return nil
}

// Load retrieves a copy of the execution.
func (s *Store) Load(ctx context.Context, id string) (*domain.WorkflowExecution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exec, ok := s.data[id]
	if !ok {
		return nil, domain.ErrExecutionNotFound
	}
	// Copy on read so callers can't mutate store state through the pointer
	return exec.Clone(), nil
}

// Delete removes the execution.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return nil
	}
	delete(s.data, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns archived execution IDs, oldest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...), nil
}
