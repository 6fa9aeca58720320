package container_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"divegraph/internal/container"
	"divegraph/internal/logging"
)

func TestCleanStaleMissingRoot(t *testing.T) {
	result := container.CleanStale(context.Background(), filepath.Join(t.TempDir(), "absent"), time.Hour, logging.NewNop())
	if len(result.Removed) != 0 || len(result.Errors) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestCleanStaleRemovesOldExtractions(t *testing.T) {
	root := t.TempDir()
	old := time.Now().Add(-2 * time.Hour)

	mkdir := func(name string, mtime time.Time) string {
		t.Helper()
		dir := filepath.Join(root, name)
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.Chtimes(dir, mtime, mtime); err != nil {
			t.Fatalf("chtimes %s: %v", name, err)
		}
		return dir
	}

	stale := mkdir("divegraph-123", old)
	fresh := mkdir("divegraph-456", time.Now())
	foreign := mkdir("someone-else", old)

	result := container.CleanStale(context.Background(), root, time.Hour, logging.NewNop())
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != stale {
		t.Fatalf("removed = %v, want [%s]", result.Removed, stale)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed, stat err %v", stale, err)
	}
	for _, dir := range []string{fresh, foreign} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected %s kept: %v", dir, err)
		}
	}
}
