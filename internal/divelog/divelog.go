package divelog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"divegraph/internal/config"
	"divegraph/internal/container"
	"divegraph/internal/dive"
	"divegraph/internal/fileutil"
	"divegraph/internal/logging"
	"divegraph/internal/session"
)

// ErrNoDives reports a session in which no dive survived segmentation.
var ErrNoDives = errors.New("no dives found")

// Entry is one dive of a Log.
type Entry struct {
	// Index is the zero-based position of the dive in its session.
	Index    int
	Start    time.Time
	Duration time.Duration
	Series   *dive.Series
	Summary  dive.Summary
}

// Log is every dive derived from one input.
type Log struct {
	// Source is the path the user supplied.
	Source string
	// SHA256 is the digest of the telemetry file, so a bare file and the
	// archive that carries it share an identity.
	SHA256  string
	Label   string
	Start   time.Time
	Entries []Entry
}

// Entry returns the dive at index or an error naming the valid range.
func (l *Log) Entry(index int) (*Entry, error) {
	if index < 0 || index >= len(l.Entries) {
		if len(l.Entries) == 0 {
			return nil, ErrNoDives
		}
		return nil, fmt.Errorf("%w: %d (valid 0-%d)", session.ErrDiveIndex, index, len(l.Entries)-1)
	}
	return &l.Entries[index], nil
}

type labeler interface {
	Label() string
}

type starter interface {
	Start() time.Time
}

// Loader wires a resolver and a decoder into the extraction pipeline.
type Loader struct {
	resolver *container.Resolver
	decoder  dive.Decoder
	logger   *slog.Logger
}

// NewLoader builds a Loader from explicit collaborators. A nil resolver uses
// the system temp directory.
func NewLoader(resolver *container.Resolver, decoder dive.Decoder, logger *slog.Logger) *Loader {
	if resolver == nil {
		resolver = container.NewResolver(container.WithLogger(logger))
	}
	return &Loader{
		resolver: resolver,
		decoder:  decoder,
		logger:   logging.NewComponentLogger(logger, "loader"),
	}
}

// NewLoaderFromConfig builds the Loader used by the CLI: the temp root comes
// from [paths] and segmentation from [session].
func NewLoaderFromConfig(cfg *config.Config, logger *slog.Logger) *Loader {
	var tempRoot string
	if cfg != nil {
		tempRoot = cfg.Paths.TempDir
	}
	resolver := container.NewResolver(container.WithTempRoot(tempRoot), container.WithLogger(logger))
	decoder := session.NewDecoder(session.OptionsFromConfig(cfg, logger))
	return NewLoader(resolver, decoder, logger)
}

// Load runs the pipeline for in. Errors from the resolver and decoder are
// wrapped with %w and keep their sentinels.
func (l *Loader) Load(ctx context.Context, in container.Input) (*Log, error) {
	ctx = logging.WithInput(ctx, in.Path)
	logger := logging.WithContext(ctx, l.logger)

	out := &Log{Source: in.Path}
	err := l.resolver.With(in, func(path string) error {
		digest, err := fileutil.SHA256File(path)
		if err != nil {
			return err
		}
		out.SHA256 = digest

		sess, err := l.decoder.Decode(path)
		if err != nil {
			return err
		}
		if lb, ok := sess.(labeler); ok {
			out.Label = lb.Label()
		}
		if st, ok := sess.(starter); ok {
			out.Start = st.Start()
		}

		out.Entries = make([]Entry, 0, sess.Len())
		for i := 0; i < sess.Len(); i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry, err := deriveEntry(sess, i)
			if err != nil {
				return err
			}
			out.Entries = append(out.Entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", in.Path, err)
	}

	if out.Start.IsZero() && len(out.Entries) > 0 {
		out.Start = out.Entries[0].Start
	}
	if out.Label == "" {
		out.Label = "Activity"
	}
	logger.Info("session loaded",
		logging.String("label", out.Label),
		logging.Int("dives", len(out.Entries)),
	)
	return out, nil
}

func deriveEntry(sess dive.Session, index int) (Entry, error) {
	d, err := sess.Dive(index)
	if err != nil {
		return Entry{}, err
	}
	d.Finish()
	series, err := dive.Extract(d)
	if err != nil {
		return Entry{}, fmt.Errorf("dive %d: %w", index, err)
	}
	summary := dive.Summarize(series)
	return Entry{
		Index:    index,
		Start:    d.Timeline()[0].Timestamp,
		Duration: summary.Duration,
		Series:   series,
		Summary:  summary,
	}, nil
}
