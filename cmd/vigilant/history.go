package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vigilant-link/internal/bootstrap"
)

func historyCmd(root *rootOptions) *cobra.Command {
	var (
		user  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List a user's saved reports, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user == "" {
				return fmt.Errorf("--user is required")
			}

			app, err := root.openApp(cmd, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()

			reports, err := app.Service.History(cmd.Context(), user, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if root.jsonOutput {
				return printJSON(out, reports)
			}
			if len(reports) == 0 {
				_, _ = fmt.Fprintln(out, "No reports found")
				return nil
			}
			printReports(out, reports)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user id")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum reports to list (default from config)")

	return cmd
}
