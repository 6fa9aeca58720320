package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"divegraph/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check configuration and writable paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			lines := renderSectionHeader("Configuration", colorize)
			configPath := ctx.configPath
			if configPath == "" {
				configPath = "(defaults)"
			}
			lines = append(lines,
				renderStatusLine("Config", statusInfo, configPath, colorize),
				renderStatusLine("Segmentation", statusInfo, fmt.Sprintf("surface %.2f m, min %ds", cfg.Session.SurfaceThreshold, cfg.Session.MinDiveSeconds), colorize),
				renderStatusLine("Charts", statusInfo, fmt.Sprintf("%s %dx%d", cfg.Chart.Format, cfg.Chart.Width, cfg.Chart.Height), colorize),
				"",
			)
			lines = append(lines, renderSectionHeader("Paths", colorize)...)

			checks, failed := preflightLines(preflight.RunAll(cfg), strict, colorize)
			lines = append(lines, checks...)
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			if strict && failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat failed checks as errors and exit non-zero")
	return cmd
}
