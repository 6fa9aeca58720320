package divelog_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"divegraph/internal/container"
	"divegraph/internal/dive"
	"divegraph/internal/divelog"
	"divegraph/internal/fit"
	"divegraph/internal/logging"
	"divegraph/internal/testsupport"
)

var t0 = time.Date(2024, 7, 14, 9, 30, 0, 0, time.UTC)

// twoDiveActivity returns a FIT file with a 6 s dive to 10 m and an 8 s
// dive to 20 m carrying one alert.
func twoDiveActivity() []byte {
	b := testsupport.NewFITBuilder().
		Activity(t0).
		Session(t0, fit.SportDiving, 56)
	depths := []float64{0, 2, 6, 10, 6, 2, 0, 0, 5, 10, 15, 20, 15, 10, 5, 0}
	for i, d := range depths {
		b.Record(t0.Add(time.Duration(i)*time.Second), d)
	}
	b.Event(t0.Add(11*time.Second), fit.EventDiveAlert, 3)
	return b.Bytes()
}

func newLoader(t *testing.T) (*divelog.Loader, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return divelog.NewLoaderFromConfig(cfg, logging.NewNop()), cfg.Paths.TempDir
}

func TestLoadBareTelemetry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ACTIVITY.fit")
	if err := os.WriteFile(path, twoDiveActivity(), 0o644); err != nil {
		t.Fatal(err)
	}
	loader, _ := newLoader(t)

	in, err := container.Classify(path)
	if err != nil {
		t.Fatal(err)
	}
	log, err := loader.Load(context.Background(), in)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if log.Label != "Apnea Diving" || !log.Start.Equal(t0) || log.Source != path {
		t.Fatalf("unexpected log header: %+v", log)
	}
	if len(log.SHA256) != 64 {
		t.Fatalf("SHA256 = %q, want hex digest", log.SHA256)
	}
	if len(log.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(log.Entries))
	}

	first := log.Entries[0]
	if first.Index != 0 || !first.Start.Equal(t0) || first.Duration != 6*time.Second {
		t.Fatalf("first entry = %+v", first)
	}
	if first.Series.MaxDepth != 10 || first.Summary.Alarms != 0 {
		t.Fatalf("first entry series max %v alarms %d", first.Series.MaxDepth, first.Summary.Alarms)
	}

	second := log.Entries[1]
	if !second.Start.Equal(t0.Add(7 * time.Second)) {
		t.Fatalf("second entry start = %v", second.Start)
	}
	if second.Series.MaxDepth != 20 || second.Series.PeakTimeOffset != 4 {
		t.Fatalf("second entry peak = %v at %v", second.Series.MaxDepth, second.Series.PeakTimeOffset)
	}
	if len(second.Series.Alarms) != 1 || second.Series.Alarms[0] != (dive.Marker{Time: 4, Depth: -20}) {
		t.Fatalf("second entry alarms = %+v", second.Series.Alarms)
	}
	if math.Abs(second.Summary.DescentRate-5) > 1e-9 || math.Abs(second.Summary.AscentRate-5) > 1e-9 {
		t.Fatalf("second entry rates = %+v", second.Summary)
	}
}

func TestLoadArchiveMatchesBareTelemetry(t *testing.T) {
	dir := t.TempDir()
	data := twoDiveActivity()
	bare := filepath.Join(dir, "ACTIVITY.fit")
	if err := os.WriteFile(bare, data, 0o644); err != nil {
		t.Fatal(err)
	}
	archive := testsupport.WriteZip(t, filepath.Join(dir, "export.zip"),
		testsupport.ZipMember{Name: "bar.fit", Data: []byte("decoy")},
		testsupport.ZipMember{Name: "foo/ACTIVITY.fit", Data: data},
	)
	loader, tempRoot := newLoader(t)

	fromBare, err := loader.Load(context.Background(), container.Input{Path: bare, Kind: container.KindTelemetry})
	if err != nil {
		t.Fatal(err)
	}
	fromZip, err := loader.Load(context.Background(), container.Input{Path: archive, Kind: container.KindArchive})
	if err != nil {
		t.Fatal(err)
	}
	if fromBare.SHA256 != fromZip.SHA256 {
		t.Fatal("archive and bare file should share a digest")
	}
	if len(fromZip.Entries) != len(fromBare.Entries) {
		t.Fatalf("entry count differs: %d vs %d", len(fromZip.Entries), len(fromBare.Entries))
	}
	entries, err := os.ReadDir(tempRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected temp root empty after Load, found %d entries", len(entries))
	}
}

func TestLoadReleasesTempDirOnDecodeFailure(t *testing.T) {
	dir := t.TempDir()
	archive := testsupport.WriteZip(t, filepath.Join(dir, "export.zip"),
		testsupport.ZipMember{Name: "ACTIVITY.fit", Data: []byte("not a fit file")},
	)
	loader, tempRoot := newLoader(t)

	_, err := loader.Load(context.Background(), container.Input{Path: archive, Kind: container.KindArchive})
	if !errors.Is(err, fit.ErrInvalidFile) {
		t.Fatalf("error = %v, want fit.ErrInvalidFile", err)
	}
	entries, err := os.ReadDir(tempRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected temp root empty after failure, found %d entries", len(entries))
	}
}

func TestLoadPropagatesResolverErrors(t *testing.T) {
	loader, _ := newLoader(t)
	_, err := loader.Load(context.Background(), container.Input{Path: filepath.Join(t.TempDir(), "other.fit"), Kind: container.KindTelemetry})
	if !errors.Is(err, container.ErrInvalidTelemetryFile) {
		t.Fatalf("error = %v, want ErrInvalidTelemetryFile", err)
	}
}

type emptyDive struct{}

func (emptyDive) Finish()                 {}
func (emptyDive) Timeline() []dive.Sample { return nil }
func (emptyDive) Peak() dive.Sample       { return dive.Sample{} }

type oneDiveSession struct{ d dive.Dive }

func (s oneDiveSession) Len() int                    { return 1 }
func (s oneDiveSession) Dive(int) (dive.Dive, error) { return s.d, nil }

func TestLoadFailsWholeLogOnEmptyTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ACTIVITY.fit")
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	decoder := dive.DecoderFunc(func(string) (dive.Session, error) {
		return oneDiveSession{d: emptyDive{}}, nil
	})
	loader := divelog.NewLoader(nil, decoder, nil)

	log, err := loader.Load(context.Background(), container.Input{Path: path, Kind: container.KindTelemetry})
	if !errors.Is(err, dive.ErrEmptyTimeline) {
		t.Fatalf("error = %v, want ErrEmptyTimeline", err)
	}
	if log != nil {
		t.Fatal("expected no partial log")
	}
}

func TestLoadHonoursCancellation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ACTIVITY.fit")
	if err := os.WriteFile(path, twoDiveActivity(), 0o644); err != nil {
		t.Fatal(err)
	}
	loader, _ := newLoader(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, container.Input{Path: path, Kind: container.KindTelemetry})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestLogEntry(t *testing.T) {
	log := &divelog.Log{Entries: []divelog.Entry{{Index: 0}, {Index: 1}}}
	entry, err := log.Entry(1)
	if err != nil || entry.Index != 1 {
		t.Fatalf("Entry(1) = %+v, %v", entry, err)
	}
	if _, err := log.Entry(2); err == nil {
		t.Fatal("expected out of range error")
	}
	if _, err := (&divelog.Log{}).Entry(0); !errors.Is(err, divelog.ErrNoDives) {
		t.Fatalf("error = %v, want ErrNoDives", err)
	}
}

func TestLoadFollowsSessionConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ACTIVITY.fit")
	if err := os.WriteFile(path, twoDiveActivity(), 0o644); err != nil {
		t.Fatal(err)
	}
	in, err := container.Classify(path)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		opts    []testsupport.ConfigOption
		wantMax []float64
	}{
		{"defaults", nil, []float64{10, 20}},
		{"long minimum", []testsupport.ConfigOption{testsupport.WithMinDiveSeconds(60)}, nil},
		{"deep surface", []testsupport.ConfigOption{testsupport.WithSurfaceThreshold(8)}, []float64{20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t, tt.opts...)
			log, err := divelog.NewLoaderFromConfig(cfg, logging.NewNop()).Load(context.Background(), in)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if len(log.Entries) != len(tt.wantMax) {
				t.Fatalf("entries = %d, want %d", len(log.Entries), len(tt.wantMax))
			}
			for i, want := range tt.wantMax {
				if got := log.Entries[i].Summary.MaxDepth; got != want {
					t.Fatalf("entry %d max = %v, want %v", i, got, want)
				}
			}
		})
	}
}
