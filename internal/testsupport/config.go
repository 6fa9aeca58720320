package testsupport

import (
	"path/filepath"
	"testing"

	"divegraph/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CatalogPath = filepath.Join(base, "catalog", "divegraph.db")
	cfgVal.Paths.OutputDir = filepath.Join(base, "charts")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.TempDir = filepath.Join(base, "tmp")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithSurfaceThreshold overrides the dive segmentation depth.
func WithSurfaceThreshold(metres float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Session.SurfaceThreshold = metres
	}
}

// WithMinDiveSeconds overrides the minimum dive length.
func WithMinDiveSeconds(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Session.MinDiveSeconds = seconds
	}
}

// WithChartFormat overrides the default chart format.
func WithChartFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Chart.Format = format
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
