package preflight

import (
	"os"
	"strings"

	"divegraph/internal/config"
)

// MinTempSpace is the free space below which the extraction directory is
// reported as a warning. Garmin activity files rarely exceed a few MiB.
const MinTempSpace uint64 = 64 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Chart directory", cfg.Paths.OutputDir))
	results = append(results, CheckCatalogPath("Catalog", cfg.Paths.CatalogPath))

	if cfg.Logging.ToFile {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	tempDir := strings.TrimSpace(cfg.Paths.TempDir)
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	results = append(results, CheckDirectoryAccess("Temp directory", tempDir))
	results = append(results, CheckFreeSpace("Temp space", tempDir, MinTempSpace))

	return results
}
