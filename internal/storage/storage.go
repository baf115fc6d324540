package storage

import (
	"context"
	"errors"
	"time"

	"linkcut/internal/models"
)

var (
	// ErrNotFound means no live record matched the query.
	ErrNotFound = errors.New("storage: record not found")
	// ErrDuplicateKey means an insert hit the unique index on code.
	ErrDuplicateKey = errors.New("storage: duplicate key")
	// ErrUnavailable wraps any other store failure. It is never converted
	// into a domain error by callers.
	ErrUnavailable = errors.New("storage: unavailable")
)

// Store is the only component that reads or writes Link records. The unique
// index on code is the final arbiter of code uniqueness: Create is a single
// atomic insert, never a check followed by an insert.
type Store interface {
	Create(ctx context.Context, link *models.Link) error
	GetByCode(ctx context.Context, code string) (*models.Link, error)
	// RecordVisit atomically bumps visit_count and sets last_visited_at for
	// the record with the given id. Returns false when no row matched,
	// i.e. the record was deleted in the meantime.
	RecordVisit(ctx context.Context, id int64, at time.Time) (bool, error)
	List(ctx context.Context) ([]models.Link, error)
	// DeleteByCode hard-deletes the record and reports whether one existed.
	DeleteByCode(ctx context.Context, code string) (bool, error)
}
