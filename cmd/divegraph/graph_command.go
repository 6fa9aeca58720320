package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"divegraph/internal/config"
	"divegraph/internal/divelog"
	"divegraph/internal/logging"
	"divegraph/internal/render"
)

func newGraphCommand(ctx *commandContext) *cobra.Command {
	var (
		index     int
		output    string
		all       bool
		outputDir string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "graph INPUT",
		Short: "Render depth and rate charts for dives",
		Long: `Render a depth and vertical-rate chart for one dive, or for every dive with --all.

Without --index the dives are listed and you are asked to pick one; this
requires an interactive terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			chartFormat, err := resolveChartFormat(cfg, format, output, cmd.Flags().Changed("format"))
			if err != nil {
				return err
			}
			opts := render.Options{Format: chartFormat, Width: cfg.Chart.Width, Height: cfg.Chart.Height}

			log, err := ctx.loadLog(cmd, args[0])
			if err != nil {
				return err
			}
			if len(log.Entries) == 0 {
				return fmt.Errorf("%w in %s", divelog.ErrNoDives, args[0])
			}

			if all {
				dir := strings.TrimSpace(outputDir)
				if dir == "" {
					dir = cfg.Paths.OutputDir
				}
				return renderAll(ctx, cmd, log, dir, opts)
			}

			if !cmd.Flags().Changed("index") {
				if !isTerminal(cmd.InOrStdin()) {
					return errors.New("--index is required when stdin is not a terminal (or use --all)")
				}
				index, err = promptDiveIndex(cmd.InOrStdin(), cmd.OutOrStdout(), log)
				if err != nil {
					return err
				}
			}
			entry, err := log.Entry(index)
			if err != nil {
				return err
			}

			target := strings.TrimSpace(output)
			if target == "" {
				target = filepath.Join(cfg.Paths.OutputDir, render.FileName(log.Label, log.Start, entry.Index, chartFormat))
			}
			if err := render.WriteFile(target, entry.Series, opts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}

	cmd.Flags().IntVarP(&index, "index", "i", 0, "Index of the dive to render (interactive if not set)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Chart file path (default: output_dir/<label>-<start>-diveNN.<format>)")
	cmd.Flags().BoolVar(&all, "all", false, "Render every dive")
	cmd.Flags().StringVar(&outputDir, "dir", "", "Directory for --all charts (default: output_dir)")
	cmd.Flags().StringVar(&format, "format", "", "Chart format: png or svg (default from config)")
	cmd.MarkFlagsMutuallyExclusive("index", "all")
	cmd.MarkFlagsMutuallyExclusive("output", "all")
	return cmd
}

// resolveChartFormat prefers an explicit --format, then the extension of
// --output, then the configured default.
func resolveChartFormat(cfg *config.Config, flagValue, output string, flagSet bool) (render.Format, error) {
	if flagSet {
		return render.ParseFormat(flagValue)
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
		if f, err := render.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return render.ParseFormat(cfg.Chart.Format)
}

func renderAll(ctx *commandContext, cmd *cobra.Command, log *divelog.Log, dir string, opts render.Options) error {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, entry := range log.Entries {
		if err := commandCtx(cmd).Err(); err != nil {
			return err
		}
		target := filepath.Join(dir, render.FileName(log.Label, log.Start, entry.Index, opts.Format))
		if err := render.WriteFile(target, entry.Series, opts); err != nil {
			return fmt.Errorf("dive %d: %w", entry.Index, err)
		}
		logger.Debug("chart written",
			logging.Int(logging.FieldDiveIndex, entry.Index),
			logging.Float64("max_depth", entry.Summary.MaxDepth),
			logging.String("path", target),
		)
		fmt.Fprintln(out, target)
	}
	return nil
}
