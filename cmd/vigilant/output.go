package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"vigilant-link/internal/domain/models"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printVerdict(w io.Writer, v models.Verdict, previouslyReported bool) {
	_, _ = fmt.Fprintf(w, "Classification: %s\n", v.Classification)
	_, _ = fmt.Fprintf(w, "Risk score:     %d/100\n", v.RiskScore)
	if len(v.DetectedPatterns) > 0 {
		_, _ = fmt.Fprintln(w, "Detected:")
		for _, p := range v.DetectedPatterns {
			_, _ = fmt.Fprintf(w, "  - %s\n", p)
		}
	}
	a := v.Analysis
	_, _ = fmt.Fprintf(w, "Keywords:       %d suspicious, %d payment, %d safe indicators\n",
		a.SuspiciousKeywords, a.PaymentKeywords, a.SafeIndicators)
	_, _ = fmt.Fprintf(w, "Links: %t  Phone number: %t\n", a.HasLinks, a.HasPhoneNumber)
	if previouslyReported {
		_, _ = fmt.Fprintln(w, "A similar message was reported before.")
	}
}

func printReports(w io.Writer, reports []models.ScamReport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "REPORTED\tCLASSIFICATION\tSCORE\tMESSAGE")
	for _, r := range reports {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			r.ReportedAt.Format("2006-01-02 15:04"), r.Classification, r.RiskScore, truncate(r.Message, 60))
	}
	_ = tw.Flush()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
