package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"divegraph/internal/config"
	"divegraph/internal/divelog"
	"divegraph/internal/logging"
)

var (
	// ErrNotFound reports an unknown import identifier.
	ErrNotFound = errors.New("import not found")
	// ErrAmbiguousID reports an identifier prefix matching several imports.
	ErrAmbiguousID = errors.New("import id prefix is ambiguous")
	// ErrLocked reports that another process holds the catalog write lock.
	ErrLocked = errors.New("catalog is locked by another process")
)

// lockWait bounds how long Record and Remove wait for another writer.
var lockWait = 5 * time.Second

// Import is one recorded session.
type Import struct {
	ID         string    `json:"id"`
	SourcePath string    `json:"source_path"`
	SHA256     string    `json:"sha256"`
	Label      string    `json:"label"`
	StartedAt  time.Time `json:"started_at"`
	ImportedAt time.Time `json:"imported_at"`
	DiveCount  int       `json:"dive_count"`
	// Replaced is set by Record when an earlier import of the same
	// telemetry was removed.
	Replaced bool `json:"replaced,omitempty"`
}

// Dive is the stored summary of one dive.
type Dive struct {
	ImportID    string        `json:"import_id"`
	Index       int           `json:"index"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	MaxDepth    float64       `json:"max_depth"`
	PeakRate    float64       `json:"peak_rate"`
	DescentRate float64       `json:"descent_rate"`
	AscentRate  float64       `json:"ascent_rate"`
	Alarms      int           `json:"alarms"`
}

// Catalog is the SQLite-backed import history.
type Catalog struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	logger *slog.Logger
	now    func() time.Time
}

// Open initializes or connects to the catalog database at
// cfg.Paths.CatalogPath and creates the schema when missing.
func Open(cfg *config.Config, logger *slog.Logger) (*Catalog, error) {
	dbPath := strings.TrimSpace(cfg.Paths.CatalogPath)
	if dbPath == "" {
		return nil, errors.New("catalog path is not configured")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	c := &Catalog{
		db:     db,
		path:   dbPath,
		lock:   flock.New(dbPath + ".lock"),
		logger: logging.NewComponentLogger(logger, "catalog"),
		now:    func() time.Time { return time.Now().UTC() },
	}
	if err := c.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// connectionPragmas run on every pooled connection, not only the first.
var connectionPragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

func dsn(path string) string {
	query := url.Values{"_pragma": connectionPragmas}
	return path + "?" + query.Encode()
}

// Path returns the database file path.
func (c *Catalog) Path() string {
	return c.path
}

// Close closes the underlying database connection.
func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Record stores log as a new import. An earlier import with the same
// telemetry digest is deleted in the same transaction.
func (c *Catalog) Record(ctx context.Context, log *divelog.Log) (*Import, error) {
	if log == nil {
		return nil, errors.New("log is nil")
	}
	if log.SHA256 == "" {
		return nil, errors.New("log has no telemetry digest")
	}

	unlock, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	imp := &Import{
		ID:         uuid.NewString(),
		SourcePath: log.Source,
		SHA256:     log.SHA256,
		Label:      log.Label,
		StartedAt:  log.Start.UTC(),
		ImportedAt: c.now(),
		DiveCount:  len(log.Entries),
	}

	err = retryOnBusy(ctx, func() error {
		replaced, txErr := c.insert(ctx, imp, log)
		imp.Replaced = replaced
		return txErr
	})
	if err != nil {
		return nil, err
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldImportID, imp.ID),
		logging.String(logging.FieldInput, imp.SourcePath),
		logging.Int("dives", imp.DiveCount),
	}
	if imp.Replaced {
		attrs = append(attrs, logging.Bool("replaced", true))
	}
	c.logger.Info("import recorded", logging.Args(attrs...)...)
	return imp, nil
}

// acquire takes the cross-process write lock, waiting up to lockWait.
func (c *Catalog) acquire(ctx context.Context) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()
	locked, err := c.lock.TryLockContext(lockCtx, 50*time.Millisecond)
	switch {
	case errors.Is(err, context.DeadlineExceeded) || (err == nil && !locked):
		return nil, fmt.Errorf("%w: %s", ErrLocked, c.lock.Path())
	case err != nil:
		return nil, fmt.Errorf("acquire catalog lock: %w", err)
	}
	return func() {
		if err := c.lock.Unlock(); err != nil {
			c.logger.Debug("catalog unlock failed", logging.Error(err))
		}
	}, nil
}

func (c *Catalog) insert(ctx context.Context, imp *Import, log *divelog.Log) (bool, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM imports WHERE sha256 = ?`, imp.SHA256)
	if err != nil {
		return false, fmt.Errorf("delete previous import: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO imports (id, source_path, sha256, label, started_at, imported_at, dive_count)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		imp.ID,
		imp.SourcePath,
		imp.SHA256,
		imp.Label,
		imp.StartedAt.Format(time.RFC3339Nano),
		imp.ImportedAt.Format(time.RFC3339Nano),
		imp.DiveCount,
	); err != nil {
		return false, fmt.Errorf("insert import: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO dives (
            import_id, dive_index, started_at, duration_ms,
            max_depth, peak_rate, descent_rate, ascent_rate, alarms
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("prepare dive insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range log.Entries {
		if _, err := stmt.ExecContext(
			ctx,
			imp.ID,
			entry.Index,
			entry.Start.UTC().Format(time.RFC3339Nano),
			entry.Duration.Milliseconds(),
			entry.Summary.MaxDepth,
			entry.Summary.PeakRate,
			entry.Summary.DescentRate,
			entry.Summary.AscentRate,
			entry.Summary.Alarms,
		); err != nil {
			return false, fmt.Errorf("insert dive %d: %w", entry.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit import: %w", err)
	}
	return removed > 0, nil
}

const importColumns = `id, source_path, sha256, label, started_at, imported_at, dive_count`

type scanner interface {
	Scan(dest ...any) error
}

func scanImport(row scanner) (*Import, error) {
	var (
		imp                 Import
		started, importedAt string
	)
	if err := row.Scan(&imp.ID, &imp.SourcePath, &imp.SHA256, &imp.Label, &started, &importedAt, &imp.DiveCount); err != nil {
		return nil, err
	}
	imp.StartedAt = parseTime(started)
	imp.ImportedAt = parseTime(importedAt)
	return &imp, nil
}

// Imports returns every import, most recent session first.
func (c *Catalog) Imports(ctx context.Context) ([]*Import, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+importColumns+` FROM imports ORDER BY started_at DESC, imported_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	var imports []*Import
	for rows.Next() {
		imp, err := scanImport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}

// Import returns the import whose id equals or starts with idOrPrefix.
func (c *Catalog) Import(ctx context.Context, idOrPrefix string) (*Import, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, ErrNotFound
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+importColumns+` FROM imports WHERE id = ? OR substr(id, 1, ?) = ? ORDER BY id LIMIT 2`,
		idOrPrefix, len(idOrPrefix), idOrPrefix,
	)
	if err != nil {
		return nil, fmt.Errorf("query import: %w", err)
	}
	defer rows.Close()

	var matches []*Import
	for rows.Next() {
		imp, err := scanImport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		matches = append(matches, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, idOrPrefix)
	}
}

// Dives returns the dive summaries of an import in session order.
func (c *Catalog) Dives(ctx context.Context, importID string) ([]Dive, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT import_id, dive_index, started_at, duration_ms, max_depth, peak_rate, descent_rate, ascent_rate, alarms
         FROM dives WHERE import_id = ? ORDER BY dive_index`,
		importID,
	)
	if err != nil {
		return nil, fmt.Errorf("query dives: %w", err)
	}
	defer rows.Close()

	var dives []Dive
	for rows.Next() {
		var (
			d          Dive
			started    string
			durationMS int64
		)
		if err := rows.Scan(&d.ImportID, &d.Index, &started, &durationMS, &d.MaxDepth, &d.PeakRate, &d.DescentRate, &d.AscentRate, &d.Alarms); err != nil {
			return nil, fmt.Errorf("scan dive: %w", err)
		}
		d.StartedAt = parseTime(started)
		d.Duration = time.Duration(durationMS) * time.Millisecond
		dives = append(dives, d)
	}
	return dives, rows.Err()
}

// Remove deletes an import and its dives under the write lock.
func (c *Catalog) Remove(ctx context.Context, importID string) error {
	unlock, err := c.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	return retryOnBusy(ctx, func() error {
		res, err := c.db.ExecContext(ctx, `DELETE FROM imports WHERE id = ?`, importID)
		if err != nil {
			return fmt.Errorf("delete import: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, importID)
		}
		return nil
	})
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
