package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vigilant-link/internal/detection"
)

type patternsExport struct {
	Rules    []detection.RuleInfo `json:"rules"`
	Keywords detection.KeywordSet `json:"keywords"`
	Weights  detection.Weights    `json:"weights"`
}

func patternsCmd(root *rootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the scam detection rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := detection.DefaultCatalogue()

			rules := cat.Export()
			if category != "" {
				filtered := rules[:0]
				for _, r := range rules {
					if r.Category == category {
						filtered = append(filtered, r)
					}
				}
				rules = filtered
			}

			out := cmd.OutOrStdout()
			if root.jsonOutput {
				return printJSON(out, patternsExport{Rules: rules, Keywords: cat.Keywords(), Weights: cat.Weights()})
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "CATEGORY\tWEIGHT\tDESCRIPTION\tPATTERN")
			for _, r := range rules {
				_, _ = fmt.Fprintf(tw, "%s\t%+d\t%s\t%s\n", r.Category, r.Weight, r.Description, r.Pattern)
			}
			_ = tw.Flush()

			kw := cat.Keywords()
			_, _ = fmt.Fprintf(out, "\nSuspicious keywords: %s\n", strings.Join(kw.Suspicious, ", "))
			_, _ = fmt.Fprintf(out, "Payment keywords:    %s\n", strings.Join(kw.Payment, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list one category (high_risk, warning, safe_indicator)")

	return cmd
}
