package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"divegraph/internal/export"
	"divegraph/internal/fileutil"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		indices     []int
		format      string
		output      string
		summaryOnly bool
	)

	cmd := &cobra.Command{
		Use:   "export INPUT",
		Short: "Export dive series as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docFormat, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			log, err := ctx.loadLog(cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := export.NewDocument(log, export.Options{Indices: indices, SummaryOnly: summaryOnly})
			if err != nil {
				return err
			}

			target := strings.TrimSpace(output)
			if target == "" || target == "-" {
				return export.Write(cmd.OutOrStdout(), doc, docFormat)
			}
			if err := fileutil.WriteAtomic(target, func(w io.Writer) error {
				return export.Write(w, doc, docFormat)
			}); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d dive(s) to %s\n", len(doc.Dives), target)
			return nil
		},
	}

	cmd.Flags().IntSliceVarP(&indices, "index", "i", nil, "Dive indices to export (default: all)")
	cmd.Flags().StringVar(&format, "format", "json", "Document format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "Omit per-sample series")
	return cmd
}
