package repository

import (
	"context"
	"errors"

	"taskmanager/internal/domain"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("record not found")

// TaskStore executes task queries against the underlying database.
type TaskStore interface {
	// Insert stores t with completed forced to false and returns the new id.
	Insert(ctx context.Context, t *domain.Task) (int64, error)
	// List returns every task ordered by id.
	List(ctx context.Context) ([]domain.Task, error)
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	// Update writes only the fields present in p and reads the row back.
	Update(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// EnsureDefault inserts u with its explicit id unless that id exists.
	EnsureDefault(ctx context.Context, u *domain.User) error
}

// Store is the process-wide storage handle. It is opened once at startup
// and released with Close.
type Store interface {
	Tasks() TaskStore
	Users() UserStore
	// EnsureSchema creates the users and tasks tables if absent.
	EnsureSchema(ctx context.Context) error
	// Schema returns the DDL EnsureSchema applies, without applying it.
	Schema(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	Close() error
}
