package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"vigilant-link/internal/bootstrap"
	"vigilant-link/internal/detection"
	"vigilant-link/internal/domain/models"
	"vigilant-link/internal/domain/services"
)

// errThreshold makes the process exit non-zero without an extra message
var errThreshold = errors.New("classification at or above --fail-on")

type classifyResult struct {
	Verdict            models.Verdict     `json:"verdict"`
	PreviouslyReported bool               `json:"previouslyReported"`
	Report             *models.ScamReport `json:"report,omitempty"`
}

func classifyCmd(root *rootOptions) *cobra.Command {
	var (
		save   bool
		user   string
		failOn string
	)

	cmd := &cobra.Command{
		Use:   "classify [message|-]",
		Short: "Classify a message",
		Long: `Classify a message and print its verdict. With no argument or "-" the
message is read from stdin. Use --save to store the verdict as a report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := readMessage(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			var threshold models.Classification
			if failOn != "" {
				if threshold, err = models.ParseClassification(failOn); err != nil {
					return fmt.Errorf("invalid --fail-on: %w", err)
				}
			}

			var result classifyResult
			if save {
				if result, err = classifyAndSave(cmd, root, message, user); err != nil {
					// The verdict is still worth printing
					printResult(cmd, root, result)
					return fmt.Errorf("failed to save report: %w", err)
				}
			} else {
				// Storage is only opened when a report is requested
				result.Verdict = classify(message)
			}

			printResult(cmd, root, result)

			if failOn != "" && result.Verdict.Classification >= threshold {
				return errThreshold
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store the verdict as a report")
	cmd.Flags().StringVar(&user, "user", "", "user id to attach to a saved report")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "exit non-zero at or above this classification (warning, high_risk)")

	return cmd
}

func classify(message string) models.Verdict {
	return detection.NewClassifier(detection.DefaultCatalogue()).Classify(message)
}

// classifyAndSave returns the verdict even when storage fails
func classifyAndSave(cmd *cobra.Command, root *rootOptions, message, user string) (classifyResult, error) {
	app, err := root.openApp(cmd, bootstrap.Options{NATS: true})
	if err != nil {
		return classifyResult{Verdict: classify(message)}, err
	}
	defer app.Close()

	result := classifyResult{
		Verdict:            app.Service.Analyze(message),
		PreviouslyReported: app.Service.PreviouslyReported(message),
	}

	result.Report, err = app.Service.Save(cmd.Context(), services.SaveReportInput{
		Message: message,
		Verdict: result.Verdict,
		UserID:  user,
	})
	return result, err
}

func printResult(cmd *cobra.Command, root *rootOptions, result classifyResult) {
	out := cmd.OutOrStdout()
	if root.jsonOutput {
		_ = printJSON(out, result)
		return
	}
	printVerdict(out, result.Verdict, result.PreviouslyReported)
	if result.Report != nil {
		_, _ = fmt.Fprintf(out, "Saved report %s\n", result.Report.ID)
	}
}

func readMessage(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read message from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
