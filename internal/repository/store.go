package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the pgx-backed Store.
type PostgresStore struct {
	db    *pgxpool.Pool
	tasks *TaskRepository
	users *UserRepository
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db:    db,
		tasks: NewTaskRepository(db),
		users: NewUserRepository(db),
	}
}

func (s *PostgresStore) Tasks() TaskStore { return s.tasks }
func (s *PostgresStore) Users() UserStore { return s.users }

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Schema(context.Context) (string, error) {
	return strings.Join(postgresSchema, ";\n\n") + ";\n", nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
