package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bikeshare/internal/exporter"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		out string
		rf  rangeFlags
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every derived table as CSV plus an Excel workbook",
		Example: `  dashboard export --data hour.csv --out ./out
  dashboard export --out ./out --start 2011-03-01 --end 2011-05-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			o, err := openOffline(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			dash, err := o.build(ctx, rf)
			if err != nil {
				return err
			}

			files, err := exporter.NewExporter(o.paths, o.logger).ExportAll(ctx, out, dash.Views, dash.KPIs)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Exported %s to %s:\n", dash.Range, out)
			for _, f := range files {
				fmt.Fprintf(w, "  %s\n", f)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory")
	cmd.Flags().StringVar(&rf.start, "start", "", "first day (YYYY-MM-DD), defaults to the earliest date")
	cmd.Flags().StringVar(&rf.end, "end", "", "last day (YYYY-MM-DD), defaults to the latest date")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
