package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"divegraph/internal/catalog"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "import INPUT...",
		Short: "Record sessions in the dive catalog",
		Long: `Record one or more sessions in the dive catalog.

Importing the same activity again, bare or inside a different export,
replaces the earlier import.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(cat *catalog.Catalog) error {
				imported := make([]*catalog.Import, 0, len(args))
				for _, path := range args {
					log, err := ctx.loadLog(cmd, path)
					if err != nil {
						return err
					}
					imp, err := cat.Record(commandCtx(cmd), log)
					if err != nil {
						return err
					}
					imported = append(imported, imp)
				}
				if jsonOut {
					return writeJSON(cmd, imported)
				}
				out := cmd.OutOrStdout()
				for _, imp := range imported {
					note := ""
					if imp.Replaced {
						note = " (replaced earlier import)"
					}
					fmt.Fprintf(out, "Imported %s with %d dive(s) as %s%s\n", imp.Label, imp.DiveCount, imp.ID, note)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history [IMPORT_ID]",
		Short: "Show catalog imports, or the dives of one import",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(cat *catalog.Catalog) error {
				if len(args) == 1 {
					return showImport(cmd, cat, args[0], jsonOut)
				}
				imports, err := cat.Imports(commandCtx(cmd))
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSONList(cmd, imports)
				}
				out := cmd.OutOrStdout()
				if len(imports) == 0 {
					fmt.Fprintln(out, "Catalog is empty")
					return nil
				}
				rows := make([][]string, 0, len(imports))
				for _, imp := range imports {
					rows = append(rows, []string{
						shortID(imp.ID),
						formatStart(imp.StartedAt),
						imp.Label,
						strconv.Itoa(imp.DiveCount),
						imp.SourcePath,
					})
				}
				columns := []column{
					leftColumn("ID"),
					leftColumn("Start"),
					leftColumn("Activity"),
					rightColumn("Dives"),
					leftColumn("Source"),
				}
				fmt.Fprintln(out, renderTable(columns, rows, nil))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func showImport(cmd *cobra.Command, cat *catalog.Catalog, id string, jsonOut bool) error {
	imp, err := cat.Import(commandCtx(cmd), id)
	if err != nil {
		return err
	}
	dives, err := cat.Dives(commandCtx(cmd), imp.ID)
	if err != nil {
		return err
	}
	if jsonOut {
		if dives == nil {
			dives = []catalog.Dive{}
		}
		return writeJSON(cmd, struct {
			Import *catalog.Import `json:"import"`
			Dives  []catalog.Dive  `json:"dives"`
		}{imp, dives})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s, %s, %d dive(s)\n", imp.Label, formatStart(imp.StartedAt), imp.DiveCount)
	fmt.Fprintf(out, "Import %s from %s\n", imp.ID, imp.SourcePath)
	if len(dives) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(dives))
	for _, d := range dives {
		rows = append(rows, []string{
			strconv.Itoa(d.Index),
			formatStart(d.StartedAt),
			formatDuration(d.Duration),
			formatDepth(d.MaxDepth),
			formatRate(d.PeakRate),
			strconv.Itoa(d.Alarms),
		})
	}
	columns := []column{
		rightColumn("#"),
		leftColumn("Start"),
		rightColumn("Duration"),
		rightColumn("Max depth"),
		rightColumn("Peak rate"),
		rightColumn("Alarms"),
	}
	fmt.Fprintln(out, renderTable(columns, rows, nil))
	return nil
}

func newForgetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "forget IMPORT_ID",
		Short: "Remove an import and its dives from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(cat *catalog.Catalog) error {
				imp, err := cat.Import(commandCtx(cmd), args[0])
				if err != nil {
					return err
				}
				if err := cat.Remove(commandCtx(cmd), imp.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%s, %d dive(s))\n", imp.ID, imp.Label, imp.DiveCount)
				return nil
			})
		},
	}
}
