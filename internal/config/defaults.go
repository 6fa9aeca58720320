package config

const (
	defaultConfigPath       = "~/.config/divegraph/config.toml"
	defaultCatalogPath      = "~/.local/share/divegraph/catalog.db"
	defaultOutputDir        = "~/divegraph"
	defaultLogDir           = "~/.local/share/divegraph/logs"
	defaultSurfaceThreshold = 0.5
	defaultMinDiveSeconds   = 5
	defaultChartFormat      = "png"
	defaultChartWidth       = 1280
	defaultChartHeight      = 720
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogPath: defaultCatalogPath,
			OutputDir:   defaultOutputDir,
			LogDir:      defaultLogDir,
		},
		Session: Session{
			SurfaceThreshold: defaultSurfaceThreshold,
			MinDiveSeconds:   defaultMinDiveSeconds,
		},
		Chart: Chart{
			Format: defaultChartFormat,
			Width:  defaultChartWidth,
			Height: defaultChartHeight,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
