package container

import (
	"archive/zip"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"divegraph/internal/fileutil"
	"divegraph/internal/logging"
)

// ActivitySuffix is the case-sensitive name suffix Garmin gives the activity
// telemetry file, both inside exports and when saved on its own.
const ActivitySuffix = "ACTIVITY.fit"

var (
	// ErrInvalidArchive reports a zip that cannot be read or holds no
	// activity member.
	ErrInvalidArchive = errors.New("invalid archive")
	// ErrInvalidTelemetryFile reports a bare .fit path that is not an
	// activity file.
	ErrInvalidTelemetryFile = errors.New("invalid telemetry file")
	// ErrUnsupportedInput reports an input that is neither .zip nor .fit.
	ErrUnsupportedInput = errors.New("unsupported input")
	// ErrInsufficientSpace reports a temp filesystem too small for the
	// extracted member.
	ErrInsufficientSpace = errors.New("insufficient space for extraction")
)

// Kind tells Resolve how to interpret an input path.
type Kind int

const (
	KindUnknown Kind = iota
	KindArchive
	KindTelemetry
)

func (k Kind) String() string {
	switch k {
	case KindArchive:
		return "archive"
	case KindTelemetry:
		return "telemetry"
	default:
		return "unknown"
	}
}

// Input is a path whose kind has already been decided.
type Input struct {
	Path string
	Kind Kind
}

// Classify maps a path onto an Input by its extension. Matching is exact and
// case-sensitive: ".zip" is an archive, ".fit" is telemetry.
func Classify(path string) (Input, error) {
	switch filepath.Ext(path) {
	case ".zip":
		return Input{Path: path, Kind: KindArchive}, nil
	case ".fit":
		return Input{Path: path, Kind: KindTelemetry}, nil
	default:
		return Input{}, fmt.Errorf("%w: %q (expected .zip or .fit)", ErrUnsupportedInput, path)
	}
}

// Reference points at a telemetry file. When the file was extracted from an
// archive, Path stays valid only until Close.
type Reference struct {
	Path string

	tempDir string
}

// Extracted reports whether the reference owns a temporary directory.
func (r *Reference) Extracted() bool {
	return r != nil && r.tempDir != ""
}

// Close removes the extraction directory. It is a no-op for bare files and
// for references that were already closed.
func (r *Reference) Close() error {
	if r == nil || r.tempDir == "" {
		return nil
	}
	dir := r.tempDir
	r.tempDir = ""
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove extraction dir: %w", err)
	}
	return nil
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTempRoot sets the parent directory for extraction directories. Empty
// means the system temp directory.
func WithTempRoot(dir string) Option {
	return func(r *Resolver) {
		r.tempRoot = dir
	}
}

// WithLogger attaches a logger to the resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Resolver turns classified inputs into telemetry references.
type Resolver struct {
	tempRoot  string
	logger    *slog.Logger
	freeSpace func(dir string) (uint64, error)
}

// NewResolver builds a Resolver with the supplied options.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{freeSpace: availableBytes}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "container")
	return r
}

// Resolve locates the telemetry file for in using a default Resolver.
func Resolve(in Input) (*Reference, error) {
	return NewResolver().Resolve(in)
}

// With resolves in, calls fn with the telemetry path, and releases the
// reference afterwards using a default Resolver.
func With(in Input, fn func(path string) error) error {
	return NewResolver().With(in, fn)
}

// Resolve locates the telemetry file for in. Archives are opened and their
// first member whose name ends in ActivitySuffix is extracted into a new
// temporary directory. Bare telemetry paths are returned as-is after the
// name check.
func (r *Resolver) Resolve(in Input) (*Reference, error) {
	switch in.Kind {
	case KindArchive:
		return r.extract(in.Path)
	case KindTelemetry:
		if !strings.HasSuffix(in.Path, ActivitySuffix) {
			return nil, fmt.Errorf("%w: %q does not end with %s", ErrInvalidTelemetryFile, in.Path, ActivitySuffix)
		}
		return &Reference{Path: in.Path}, nil
	default:
		return nil, fmt.Errorf("%w: %q has kind %s", ErrUnsupportedInput, in.Path, in.Kind)
	}
}

// With resolves in, calls fn with the telemetry path, and closes the
// reference on every exit path. An error from fn takes precedence over a
// cleanup error.
func (r *Resolver) With(in Input, fn func(path string) error) (err error) {
	ref, err := r.Resolve(in)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := ref.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(ref.Path)
}

func (r *Resolver) extract(archivePath string) (*Reference, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInvalidArchive, archivePath, err)
	}
	defer zr.Close()

	member := firstActivityMember(zr.File)
	if member == nil {
		return nil, fmt.Errorf("%w: %s contains no member ending in %s", ErrInvalidArchive, archivePath, ActivitySuffix)
	}
	r.logger.Debug("archive member selected",
		logging.String(logging.FieldInput, archivePath),
		logging.String("member", member.Name),
		logging.Int64("size", int64(member.UncompressedSize64)),
	)

	if err := r.ensureSpace(member.UncompressedSize64); err != nil {
		return nil, err
	}

	tempDir, err := os.MkdirTemp(r.tempRoot, extractDirPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("create extraction dir: %w", err)
	}
	ref := &Reference{tempDir: tempDir}

	target := filepath.Join(tempDir, filepath.Base(member.Name))
	if err := writeMember(member, target); err != nil {
		_ = ref.Close()
		return nil, fmt.Errorf("%w: extract %s: %v", ErrInvalidArchive, member.Name, err)
	}
	ref.Path = target
	return ref, nil
}

func firstActivityMember(files []*zip.File) *zip.File {
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.HasSuffix(f.Name, ActivitySuffix) {
			return f
		}
	}
	return nil
}

func writeMember(member *zip.File, target string) error {
	rc, err := member.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = fileutil.WriteFromReader(target, rc, 0o644)
	return err
}

func (r *Resolver) ensureSpace(need uint64) error {
	dir := r.tempRoot
	if dir == "" {
		dir = os.TempDir()
	}
	avail, err := r.freeSpace(dir)
	if err != nil {
		r.logger.Debug("free space check skipped", logging.String("dir", dir), logging.Error(err))
		return nil
	}
	if need > avail {
		return fmt.Errorf("%w: need %d bytes in %s, %d available", ErrInsufficientSpace, need, dir, avail)
	}
	return nil
}
