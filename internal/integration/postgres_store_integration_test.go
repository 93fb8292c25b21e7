package integration

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"taskmanager/internal/domain"
	"taskmanager/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func openPostgres(t *testing.T) *repository.PostgresStore {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" || !strings.HasPrefix(dsn, "postgres") {
		t.Skip("DATABASE_URL not set to a postgres database")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	store := repository.NewPostgresStore(pool)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	owner := &domain.User{ID: 1, Username: "default", Email: "default@localhost", PasswordHash: "!"}
	if err := store.Users().EnsureDefault(ctx, owner); err != nil {
		t.Fatalf("ensure default user: %v", err)
	}
	return store
}

func TestPostgresTaskRepository_PartialUpdate(t *testing.T) {
	store := openPostgres(t)
	ctx := context.Background()
	tasks := store.Tasks()

	desc := "2%"
	id, err := tasks.Insert(ctx, &domain.Task{Title: "Buy milk", UserID: 1})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	t.Cleanup(func() { _, _ = tasks.Delete(context.Background(), id) })

	got, err := tasks.Update(ctx, id, domain.TaskPatch{Description: domain.Of(desc)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "Buy milk" || got.Description == nil || *got.Description != desc || got.DueDate != nil || got.Completed {
		t.Fatalf("unexpected task after partial update: %+v", got)
	}

	list, err := tasks.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, task := range list {
		if task.ID == id {
			found = true
		}
	}
	if !found {
		t.Fatalf("task %d missing from list", id)
	}
}

func TestPostgresTaskRepository_DeleteAndNotFound(t *testing.T) {
	store := openPostgres(t)
	ctx := context.Background()
	tasks := store.Tasks()

	id, err := tasks.Insert(ctx, &domain.Task{Title: "temp", UserID: 1})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	ok, err := tasks.Delete(ctx, id)
	if err != nil || !ok {
		t.Fatalf("delete = %v, %v", ok, err)
	}
	if _, err := tasks.GetByID(ctx, id); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("get after delete = %v; want ErrNotFound", err)
	}
	ok, err = tasks.Delete(ctx, id)
	if err != nil || ok {
		t.Fatalf("second delete = %v, %v", ok, err)
	}
}

func TestPostgresTaskRepository_ForeignKey(t *testing.T) {
	store := openPostgres(t)
	if _, err := store.Tasks().Insert(context.Background(), &domain.Task{Title: "orphan", UserID: -1}); err == nil {
		t.Fatalf("expected foreign key violation")
	}
}

func TestPostgresTaskRepository_DueDateReadAsUTC(t *testing.T) {
	store := openPostgres(t)
	ctx := context.Background()
	tasks := store.Tasks()

	due := time.Date(2025, 6, 1, 14, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	id, err := tasks.Insert(ctx, &domain.Task{Title: "call", DueDate: &due, UserID: 1})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	t.Cleanup(func() { _, _ = tasks.Delete(context.Background(), id) })

	got, err := tasks.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) || got.DueDate.Location() != time.UTC {
		t.Fatalf("due date = %v; want %v in UTC", got.DueDate, due.UTC())
	}
}

func TestPostgresUserRepository_EnsureDefaultRejectsTakenUsername(t *testing.T) {
	store := openPostgres(t)
	ctx := context.Background()

	// openPostgres already owns username "default" under id 1
	owner := &domain.User{ID: 987654, Username: "default", Email: "default@localhost", PasswordHash: "!"}
	if err := store.Users().EnsureDefault(ctx, owner); err == nil {
		t.Fatalf("expected an error for a username held by another id")
	}
	if _, err := store.Users().GetByID(ctx, owner.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("get user %d: %v; want ErrNotFound", owner.ID, err)
	}
}
