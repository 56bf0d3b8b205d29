package store

import (
	"context"
	"fmt"
	"sync"

	"git.sr.ht/~jakintosh/todo/internal/domain"
)

// InMemoryStore satisfies domain.Store without touching disk. Ids are never
// reused, matching the SQLite store.
type InMemoryStore struct {
	mu     sync.RWMutex
	tasks  []domain.Task
	nextID int64
	closed bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		tasks:  []domain.Task{},
		nextID: 1,
	}
}

func (s *InMemoryStore) Open(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkOpen()
}

func (s *InMemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *InMemoryStore) checkOpen() error {
	if s.closed {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, domain.ErrClosed)
	}
	return nil
}

func (s *InMemoryStore) Create(ctx context.Context, description string) (domain.Task, error) {
	if !domain.ValidDescription(description) {
		return domain.Task{}, domain.ErrEmptyDescription
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.Task{}, err
	}

	t := domain.Task{
		ID:          s.nextID,
		Description: description,
	}
	s.nextID++
	s.tasks = append(s.tasks, t)
	return t, nil
}

// List returns a copy so callers can't mutate stored tasks.
func (s *InMemoryStore) List(ctx context.Context) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *InMemoryStore) Get(ctx context.Context, id int64) (domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return domain.Task{}, err
	}

	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Task{}, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
}

func (s *InMemoryStore) Update(ctx context.Context, task domain.Task) (domain.Result, error) {
	if !domain.ValidDescription(task.Description) {
		return domain.NotFound, domain.ErrEmptyDescription
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.NotFound, err
	}

	for i, t := range s.tasks {
		if t.ID == task.ID {
			s.tasks[i] = task
			return domain.Updated, nil
		}
	}
	return domain.NotFound, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id int64) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.NotFound, err
	}

	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return domain.Deleted, nil
		}
	}
	return domain.NotFound, nil
}

// Seed fills the store with a couple of sample tasks.
func (s *InMemoryStore) Seed() {
	ctx := context.Background()
	s.Create(ctx, "Buy milk")
	walk, _ := s.Create(ctx, "Walk dog")
	s.Update(ctx, walk.Toggle())
}
