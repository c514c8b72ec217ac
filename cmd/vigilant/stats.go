package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vigilant-link/internal/bootstrap"
)

func statsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show counts by classification over the most recent reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := root.openApp(cmd, bootstrap.Options{Redis: true})
			if err != nil {
				return err
			}
			defer app.Close()

			stats, err := app.Service.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if root.jsonOutput {
				return printJSON(out, stats)
			}
			_, _ = fmt.Fprintf(out, "Last %d reports\n", app.Config.Reports.StatsWindow)
			_, _ = fmt.Fprintf(out, "  total:     %d\n", stats.Total)
			_, _ = fmt.Fprintf(out, "  high risk: %d\n", stats.HighRisk)
			_, _ = fmt.Fprintf(out, "  warning:   %d\n", stats.Warning)
			_, _ = fmt.Fprintf(out, "  safe:      %d\n", stats.Safe)
			return nil
		},
	}
}
