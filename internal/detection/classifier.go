package detection

import (
	"strings"

	"vigilant-link/internal/domain/models"
)

// Classifier scores payment notification messages against a Catalogue.
// It holds no mutable state and may be shared between goroutines.
type Classifier struct {
	catalogue *Catalogue
}

// NewClassifier creates a classifier over the given catalogue
func NewClassifier(catalogue *Catalogue) *Classifier {
	return &Classifier{catalogue: catalogue}
}

// Catalogue returns the rule set the classifier evaluates
func (c *Classifier) Catalogue() *Catalogue {
	return c.catalogue
}

// Classify returns the verdict for message. Every rule is evaluated; there is
// no short-circuit on the first match. Any string is valid input.
func (c *Classifier) Classify(message string) models.Verdict {
	cat := c.catalogue
	w := cat.weights

	score := 0
	detected := []string{}
	class := models.ClassificationSafe

	for _, r := range cat.highRisk {
		if r.matcher.MatchString(message) {
			score += w.HighRisk
			detected = append(detected, r.Description)
			class = class.Upgrade(models.ClassificationHighRisk)
		}
	}

	for _, r := range cat.warning {
		if r.matcher.MatchString(message) {
			score += w.Warning
			detected = append(detected, r.Description)
			class = class.Upgrade(models.ClassificationWarning)
		}
	}

	safeIndicators := 0
	for _, r := range cat.safe {
		if r.matcher.MatchString(message) {
			safeIndicators++
			score -= w.SafeIndicator
		}
	}

	lower := strings.ToLower(message)
	suspiciousCount := countContained(lower, cat.suspicious)
	paymentCount := countContained(lower, cat.payment)

	if suspiciousCount >= 2 && paymentCount >= 1 {
		score += w.Combination
		detected = append(detected, LabelCombination)
		class = class.Upgrade(models.ClassificationWarning)
	}

	hasLinks := cat.link.MatchString(message)
	if hasLinks {
		score += w.Link
		detected = append(detected, LabelLinks)
		class = class.Upgrade(models.ClassificationWarning)
	}

	// The reported flag is raw presence; only the score is gated on suspicious keywords.
	hasPhone := cat.phone.MatchString(message)
	if hasPhone && suspiciousCount > 0 {
		score += w.Phone
		detected = append(detected, LabelPhone)
	}

	// Thresholds override everything decided above, including downgrades.
	switch {
	case score >= w.HighRiskThreshold:
		class = models.ClassificationHighRisk
	case score >= w.WarningThreshold:
		class = models.ClassificationWarning
	case safeIndicators > 0 || score < 0:
		class = models.ClassificationSafe
		score = max(score, 0)
	}

	score = min(max(score, 0), 100)

	return models.Verdict{
		Classification:   class,
		RiskScore:        score,
		DetectedPatterns: detected,
		Analysis: models.MessageAnalysis{
			SuspiciousKeywords: suspiciousCount,
			PaymentKeywords:    paymentCount,
			SafeIndicators:     safeIndicators,
			HasLinks:           hasLinks,
			HasPhoneNumber:     hasPhone,
		},
	}
}

func countContained(s string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(s, k) {
			n++
		}
	}
	return n
}
