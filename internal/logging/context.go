package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldInput is the path the user handed to a command.
	FieldInput = "input"
	// FieldDiveIndex is the zero-based dive position within a session.
	FieldDiveIndex = "dive_index"
	// FieldImportID identifies one catalog import.
	FieldImportID = "import_id"
	// FieldEventType classifies warnings for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries a next step for the reader of a warning.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey int

const (
	inputKey contextKey = iota
	importIDKey
)

// WithInput stores the command input path on ctx.
func WithInput(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, inputKey, path)
}

// WithImportID stores a catalog import identifier on ctx.
func WithImportID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, importIDKey, id)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if path, ok := ctx.Value(inputKey).(string); ok && path != "" {
		fields = append(fields, slog.String(FieldInput, path))
	}
	if id, ok := ctx.Value(importIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldImportID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
