package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"divegraph/internal/config"
	"divegraph/internal/fit"
	"divegraph/internal/testsupport"
)

var sessionStart = time.Date(2024, 7, 14, 9, 30, 0, 0, time.UTC)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "divegraph", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ncatalog_path = %q\noutput_dir = %q\nlog_dir = %q\ntemp_dir = %q\n\n[chart]\nformat = %q\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.CatalogPath,
		cfg.Paths.OutputDir,
		cfg.Paths.LogDir,
		cfg.Paths.TempDir,
		cfg.Chart.Format,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeActivity writes a FIT activity with a dive to 10 m followed by a
// dive to 20 m that carries one alert.
func writeActivity(t *testing.T, path string) string {
	t.Helper()
	return activityBuilder().WriteTo(t, path)
}

func activityBuilder() *testsupport.FITBuilder {
	b := testsupport.NewFITBuilder().
		Activity(sessionStart).
		Session(sessionStart, fit.SportDiving, 56)
	depths := []float64{0, 2, 6, 10, 6, 2, 0, 0, 5, 10, 15, 20, 15, 10, 5, 0}
	for i, d := range depths {
		b.Record(sessionStart.Add(time.Duration(i)*time.Second), d)
	}
	return b.Event(sessionStart.Add(11*time.Second), fit.EventDiveAlert, 3)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, "")
}

func runCLIWithInput(t *testing.T, args []string, configPath, input string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
