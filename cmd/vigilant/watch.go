package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vigilant-link/internal/bootstrap"
	"vigilant-link/internal/domain/models"
	"vigilant-link/internal/streaming"
)

func watchCmd(root *rootOptions) *cobra.Command {
	var (
		minClass string
		minScore int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream report events published by the API",
		Long:  `Subscribe to report events on NATS JetStream and print them until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := &streaming.Filter{MinRiskScore: minScore}
			if minClass != "" {
				c, err := models.ParseClassification(minClass)
				if err != nil {
					return fmt.Errorf("invalid --min-classification: %w", err)
				}
				filter.MinClassification = c
			}

			app, err := root.openApp(cmd, bootstrap.Options{NATS: true})
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Publisher == nil {
				return errors.New("NATS is not enabled or unreachable; set nats.enabled")
			}

			events, err := app.Publisher.Subscribe(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for event := range events {
				if root.jsonOutput {
					_ = printJSON(out, event)
					continue
				}
				_, _ = fmt.Fprintf(out, "%s  %-9s  %3d  %s\n",
					event.ReportedAt.Format("15:04:05"), event.Classification, event.RiskScore, event.ReportID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&minClass, "min-classification", "", "only show events at or above this classification")
	cmd.Flags().IntVar(&minScore, "min-score", 0, "only show events with at least this risk score")

	return cmd
}
