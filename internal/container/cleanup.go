package container

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"divegraph/internal/logging"
)

const extractDirPrefix = "divegraph-"

// StaleExtractionAge is how old an extraction directory must be before
// CleanStale treats it as left behind by an interrupted run.
const StaleExtractionAge = time.Hour

// CleanupResult contains the outcome of a stale extraction sweep.
type CleanupResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes extraction directories under tempRoot older than maxAge.
// Only directories this package created are considered. An empty tempRoot
// means the system temp directory.
func CleanStale(ctx context.Context, tempRoot string, maxAge time.Duration, logger *slog.Logger) CleanupResult {
	result := CleanupResult{}
	if logger == nil {
		logger = logging.NewNop()
	}

	tempRoot = strings.TrimSpace(tempRoot)
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}

	entries, err := os.ReadDir(tempRoot)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: tempRoot, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), extractDirPrefix) {
			continue
		}

		dirPath := filepath.Join(tempRoot, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.RemoveAll(dirPath); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale extraction directory",
				"extract_cleanup_failed",
				logging.String("path", dirPath),
				logging.String(logging.FieldErrorHint, "check temp_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
				logging.Error(err),
			)
			continue
		}
		result.Removed = append(result.Removed, dirPath)
		logger.Info("removed stale extraction directory",
			logging.String("path", dirPath),
			logging.Duration("age", time.Since(info.ModTime())),
			logging.String(logging.FieldEventType, "extract_cleanup"),
		)
	}
	return result
}
