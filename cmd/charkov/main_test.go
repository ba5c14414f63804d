package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/CTAG07/charkov/pkg/corpus"
)

// setupTestApp returns an app with default settings, a discarding logger and
// a fresh store in a temporary directory.
func setupTestApp(t *testing.T) *app {
	config := DefaultConfig()
	config.TextDir = t.TempDir()

	a := &app{
		config: config,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	db, err := initDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err = corpus.SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}
	store, err := corpus.NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	a.db = db
	a.store = store
	t.Cleanup(a.Close)

	return a
}
