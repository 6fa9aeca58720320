// Package logging assembles the slog loggers used by divegraph commands.
//
// It owns the console and JSON handlers, level parsing, output routing
// (stderr plus an optional per-run file), retention of old run logs, and the
// attribute helpers and field names library packages share. Library code
// accepts a *slog.Logger and falls back to NewNop when given nil.
package logging
