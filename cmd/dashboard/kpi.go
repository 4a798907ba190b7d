package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bikeshare/internal/kpi"
)

func newKPICmd(opts *rootOptions) *cobra.Command {
	var (
		rf     rangeFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Print the headline KPIs for a date range",
		Args:  cobra.NoArgs,
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

			widgets := kpi.Widgets(dash.KPIs)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(widgets)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Range\t%s\n", dash.Range)
			for _, wd := range widgets {
				fmt.Fprintf(tw, "%s\t%s\n", wd.Label, wd.Value)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&rf.start, "start", "", "first day (YYYY-MM-DD), defaults to the earliest date")
	cmd.Flags().StringVar(&rf.end, "end", "", "last day (YYYY-MM-DD), defaults to the latest date")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print widgets as JSON")
	return cmd
}
