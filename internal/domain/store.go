package domain

import "context"

// Store persists tasks. Implementations are safe for concurrent use, but
// callers are expected to issue one operation at a time and re-fetch with
// List after any mutation.
type Store interface {
	Open(ctx context.Context) error
	Close() error

	Create(ctx context.Context, description string) (Task, error)
	List(ctx context.Context) ([]Task, error)
	Get(ctx context.Context, id int64) (Task, error)
	Update(ctx context.Context, task Task) (Result, error)
	Delete(ctx context.Context, id int64) (Result, error)
}
