package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"divegraph/internal/divelog"
)

type diveRow struct {
	Index       int     `json:"index"`
	Start       string  `json:"start"`
	Duration    float64 `json:"duration_seconds"`
	MaxDepth    float64 `json:"max_depth"`
	PeakRate    float64 `json:"peak_rate"`
	DescentRate float64 `json:"descent_rate"`
	AscentRate  float64 `json:"ascent_rate"`
	Alarms      int     `json:"alarms"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list INPUT",
		Short: "List the dives in a .fit file or Garmin .zip export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := ctx.loadLog(cmd, args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSONList(cmd, diveRows(log))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s, %s, %d dive(s)\n", log.Label, formatStart(log.Start), len(log.Entries))
			if len(log.Entries) == 0 {
				return nil
			}
			fmt.Fprintln(out, renderDiveTable(log))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func diveRows(log *divelog.Log) []diveRow {
	rows := make([]diveRow, 0, len(log.Entries))
	for _, entry := range log.Entries {
		rows = append(rows, diveRow{
			Index:       entry.Index,
			Start:       entry.Start.UTC().Format(time.RFC3339),
			Duration:    entry.Duration.Seconds(),
			MaxDepth:    entry.Summary.MaxDepth,
			PeakRate:    entry.Summary.PeakRate,
			DescentRate: entry.Summary.DescentRate,
			AscentRate:  entry.Summary.AscentRate,
			Alarms:      entry.Summary.Alarms,
		})
	}
	return rows
}

func renderDiveTable(log *divelog.Log) string {
	columns := []column{
		rightColumn("#"),
		leftColumn("Start"),
		rightColumn("Duration"),
		rightColumn("Max depth"),
		rightColumn("Peak rate"),
		rightColumn("Descent"),
		rightColumn("Ascent"),
		rightColumn("Alarms"),
	}
	rows := make([][]string, 0, len(log.Entries))
	var (
		underwater time.Duration
		deepest    float64
		alarms     int
	)
	for _, entry := range log.Entries {
		underwater += entry.Duration
		deepest = max(deepest, entry.Summary.MaxDepth)
		alarms += entry.Summary.Alarms
		rows = append(rows, []string{
			strconv.Itoa(entry.Index),
			formatStart(entry.Start),
			formatDuration(entry.Duration),
			formatDepth(entry.Summary.MaxDepth),
			formatRate(entry.Summary.PeakRate),
			formatRate(entry.Summary.DescentRate),
			formatRate(entry.Summary.AscentRate),
			strconv.Itoa(entry.Summary.Alarms),
		})
	}
	footer := []string{"", "Total", formatDuration(underwater), formatDepth(deepest), "", "", "", strconv.Itoa(alarms)}
	return renderTable(columns, rows, footer)
}
