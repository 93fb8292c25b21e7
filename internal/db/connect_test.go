package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestSQLitePath(t *testing.T) {
	cases := map[string]string{
		"sqlite:///./tasks.db":           "./tasks.db?_foreign_keys=1",
		"sqlite:////var/lib/tasks.db":    "/var/lib/tasks.db?_foreign_keys=1",
		"sqlite://:memory:":              ":memory:?_foreign_keys=1",
		"sqlite://":                      ":memory:?_foreign_keys=1",
		"sqlite:///data.db?cache=shared": "data.db?cache=shared&_foreign_keys=1",
	}
	for in, want := range cases {
		if got := SQLitePath(in); got != want {
			t.Fatalf("SQLitePath(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestOpenUnsupported(t *testing.T) {
	_, err := Open(context.Background(), "mysql://localhost/tasks")
	if !errors.Is(err, ErrUnsupportedURL) {
		t.Fatalf("err = %v; want ErrUnsupportedURL", err)
	}
}

func TestOpenSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.db")
	store, err := Open(context.Background(), "sqlite:///"+path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
