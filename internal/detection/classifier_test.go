package detection

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigilant-link/internal/domain/models"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(DefaultCatalogue())

	tests := []struct {
		name     string
		message  string
		want     models.Classification
		score    int
		patterns []string
		analysis models.MessageAnalysis
	}{
		{
			name:     "empty message",
			message:  "",
			want:     models.ClassificationSafe,
			score:    0,
			patterns: []string{},
		},
		{
			name:    "lottery prize scam",
			message: "Congratulations! You have won ₹50,000. Scan this QR code to claim your reward immediately.",
			want:    models.ClassificationHighRisk,
			score:   100,
			patterns: []string{
				"Fake lottery/prize scam",
				"QR code scan request",
				LabelCombination,
			},
			analysis: models.MessageAnalysis{SuspiciousKeywords: 4, PaymentKeywords: 1},
		},
		{
			name:     "genuine credit alert",
			message:  "You received ₹500 from John Doe via UPI. Transaction ID: 123456789",
			want:     models.ClassificationSafe,
			score:    0,
			patterns: []string{},
			analysis: models.MessageAnalysis{PaymentKeywords: 2, SafeIndicators: 1},
		},
		{
			name:    "pay small amount scam",
			message: "Pay ₹1 and get ₹500 cashback instantly! Limited time offer. Scan now!",
			want:    models.ClassificationHighRisk,
			score:   100,
			patterns: []string{
				"Pay small amount scam",
				"Urgency-based offer",
				LabelCombination,
			},
			analysis: models.MessageAnalysis{SuspiciousKeywords: 3, PaymentKeywords: 2},
		},
		{
			name:     "bare phone number without suspicious keywords",
			message:  "Call 9876543210 for details",
			want:     models.ClassificationSafe,
			score:    0,
			patterns: []string{},
			analysis: models.MessageAnalysis{HasPhoneNumber: true},
		},
		{
			name:     "phone number with a suspicious keyword",
			message:  "Call 9876543210 to activate",
			want:     models.ClassificationSafe,
			score:    15,
			patterns: []string{LabelPhone},
			analysis: models.MessageAnalysis{SuspiciousKeywords: 1, HasPhoneNumber: true},
		},
		{
			name:     "combination heuristic alone reaches warning",
			message:  "Please verify your refund on paytm",
			want:     models.ClassificationWarning,
			score:    30,
			patterns: []string{LabelCombination},
			analysis: models.MessageAnalysis{SuspiciousKeywords: 2, PaymentKeywords: 2},
		},
		{
			name:     "link alone keeps warning below threshold",
			message:  "Track your parcel at https://example.com/x",
			want:     models.ClassificationWarning,
			score:    25,
			patterns: []string{LabelLinks},
			analysis: models.MessageAnalysis{HasLinks: true},
		},
		{
			name:     "shortener matched case-insensitively",
			message:  "Claim at BIT.LY/abc",
			want:     models.ClassificationWarning,
			score:    25,
			patterns: []string{LabelLinks},
			analysis: models.MessageAnalysis{SuspiciousKeywords: 1, HasLinks: true},
		},
		{
			name:     "high risk rule is case-insensitive",
			message:  "URGENT: VERIFY YOUR ACCOUNT NOW",
			want:     models.ClassificationHighRisk,
			score:    80,
			patterns: []string{"Account verification phishing"},
			analysis: models.MessageAnalysis{SuspiciousKeywords: 2},
		},
		{
			name:     "safe indicators suppress a warning rule",
			message:  "Update KYC. Transaction successful. Balance ₹200",
			want:     models.ClassificationSafe,
			score:    0,
			patterns: []string{"KYC update request"},
			analysis: models.MessageAnalysis{PaymentKeywords: 1, SafeIndicators: 2},
		},
		{
			// Reproduced as-is: explicit high-risk match downgraded by safe indicators.
			name:     "safe indicators downgrade a high risk rule",
			message:  "Government subsidy: verify details. Paid ₹100 to Ration Office. Transaction successful. Balance ₹50",
			want:     models.ClassificationSafe,
			score:    20,
			patterns: []string{"Fake government scheme"},
			analysis: models.MessageAnalysis{SuspiciousKeywords: 1, PaymentKeywords: 1, SafeIndicators: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.message)
			assert.Equal(t, tt.want, got.Classification)
			assert.Equal(t, tt.score, got.RiskScore)
			assert.Equal(t, tt.patterns, got.DetectedPatterns)
			assert.Equal(t, tt.analysis, got.Analysis)
		})
	}
}

func TestClassifier_EmptyMessage(t *testing.T) {
	got := NewClassifier(DefaultCatalogue()).Classify("")
	assert.Equal(t, models.Verdict{
		Classification:   models.ClassificationSafe,
		RiskScore:        0,
		DetectedPatterns: []string{},
	}, got)
}

func TestClassifier_HighRiskScenarios(t *testing.T) {
	c := NewClassifier(DefaultCatalogue())

	for _, msg := range []string{
		"Congratulations! You have won ₹50,000. Scan this QR code to claim your reward immediately.",
		"Pay ₹1 and get ₹500 cashback instantly! Limited time offer. Scan now!",
	} {
		got := c.Classify(msg)
		assert.Equal(t, models.ClassificationHighRisk, got.Classification, msg)
		assert.GreaterOrEqual(t, got.RiskScore, 70, msg)
		assert.NotEmpty(t, got.DetectedPatterns, msg)
	}
}

func TestClassifier_ScoreAlwaysInRange(t *testing.T) {
	c := NewClassifier(DefaultCatalogue())

	inputs := []string{
		"",
		" ",
		strings.Repeat("transaction successful balance ₹1 ", 50),
		strings.Repeat("congratulations won scan kbc winner scan urgent verify account ", 20),
		"received ₹1 from paid ₹2 to transaction successful balance ₹3",
		"\x00\xff\xfe invalid utf8",
		"http://a https://b bit.ly tinyurl 1234567890",
		strings.Repeat("a", 1<<16),
	}

	for _, in := range inputs {
		got := c.Classify(in)
		assert.GreaterOrEqual(t, got.RiskScore, 0)
		assert.LessOrEqual(t, got.RiskScore, 100)
		assert.True(t, got.Classification.Valid())
	}
}

func TestClassifier_Idempotent(t *testing.T) {
	c := NewClassifier(DefaultCatalogue())
	msg := "URGENT! Update KYC at http://bit.ly/x or call 9876543210 to claim reward via UPI"

	first := c.Classify(msg)
	second := c.Classify(msg)
	assert.Equal(t, first, second)
}

func TestClassifier_ConcurrentUse(t *testing.T) {
	c := NewClassifier(DefaultCatalogue())
	msg := "Scan to receive cashback of ₹200 on your UPI"
	want := c.Classify(msg)

	var wg sync.WaitGroup
	results := make([]models.Verdict, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Classify(msg)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestClassifier_RulesDoNotSpanLineTerminators(t *testing.T) {
	c := NewClassifier(DefaultCatalogue())

	// "balance.*₹\d+" would subtract a safe indicator if it spanned the \r
	got := c.Classify("K \n claim balance \r verify time subsidy ₹500")
	assert.Equal(t, models.ClassificationWarning, got.Classification)
	assert.Equal(t, 30, got.RiskScore)
	assert.Equal(t, []string{LabelCombination}, got.DetectedPatterns)
	assert.Zero(t, got.Analysis.SafeIndicators)

	same := c.Classify("Congratulations you won, scan now")
	assert.Equal(t, models.ClassificationHighRisk, same.Classification)

	split := c.Classify("Congratulations\u2028you won, scan now")
	assert.Equal(t, models.ClassificationSafe, split.Classification)
	assert.Equal(t, 0, split.RiskScore)
	assert.Empty(t, split.DetectedPatterns)
}

func TestClassifier_PhoneFlagIndependentOfGate(t *testing.T) {
	c := NewClassifier(DefaultCatalogue())

	got := c.Classify("Your OTP line is 9876543210")
	assert.True(t, got.Analysis.HasPhoneNumber)
	assert.NotContains(t, got.DetectedPatterns, LabelPhone)

	// 11 digits is not a standalone 10-digit token
	got = c.Classify("Call 98765432101 to verify")
	assert.False(t, got.Analysis.HasPhoneNumber)
}

func TestClassifier_CustomWeights(t *testing.T) {
	w := DefaultWeights()
	w.Link = 70
	cat, err := NewCatalogue(DefaultRules, DefaultKeywords, w)
	require.NoError(t, err)

	got := NewClassifier(cat).Classify("see https://example.com")
	assert.Equal(t, models.ClassificationHighRisk, got.Classification)
	assert.Equal(t, 70, got.RiskScore)
}

func FuzzClassify(f *testing.F) {
	f.Add("")
	f.Add("Congratulations! You have won ₹50,000. Scan this QR code")
	f.Add("You received ₹500 from John Doe via UPI")
	f.Add("Call 9876543210 to verify your refund on paytm http://x")

	c := NewClassifier(DefaultCatalogue())
	f.Fuzz(func(t *testing.T, msg string) {
		got := c.Classify(msg)
		if got.RiskScore < 0 || got.RiskScore > 100 {
			t.Fatalf("score %d out of range for %q", got.RiskScore, msg)
		}
		if got.DetectedPatterns == nil {
			t.Fatalf("nil detected patterns for %q", msg)
		}
		if again := c.Classify(msg); again.RiskScore != got.RiskScore || again.Classification != got.Classification {
			t.Fatalf("non-deterministic verdict for %q", msg)
		}
	})
}
