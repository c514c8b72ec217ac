package detection

import (
	"fmt"
	"strings"
)

// Category groups catalogue rules by their effect on the score
type Category int

const (
	CategoryHighRisk Category = iota
	CategoryWarning
	CategorySafeIndicator
)

func (c Category) String() string {
	switch c {
	case CategoryHighRisk:
		return "high_risk"
	case CategoryWarning:
		return "warning"
	case CategorySafeIndicator:
		return "safe_indicator"
	default:
		return "unknown"
	}
}

// PatternRule is one entry of the static catalogue
type PatternRule struct {
	Pattern     string
	Description string
	Category    Category
}

// KeywordSet holds the lowercase tokens used for co-occurrence scoring
type KeywordSet struct {
	Suspicious []string `json:"suspicious"`
	Payment    []string `json:"payment"`
}

// Weights are the score contributions and tier thresholds
type Weights struct {
	HighRisk          int `json:"highRisk"`
	Warning           int `json:"warning"`
	SafeIndicator     int `json:"safeIndicator"` // subtracted
	Combination       int `json:"combination"`
	Link              int `json:"link"`
	Phone             int `json:"phone"`
	HighRiskThreshold int `json:"highRiskThreshold"`
	WarningThreshold  int `json:"warningThreshold"`
}

// DefaultWeights returns the production scoring policy
func DefaultWeights() Weights {
	return Weights{
		HighRisk:          80,
		Warning:           40,
		SafeIndicator:     20,
		Combination:       30,
		Link:              25,
		Phone:             15,
		HighRiskThreshold: 70,
		WarningThreshold:  30,
	}
}

// Heuristic labels appended to detected patterns
const (
	LabelCombination = "Multiple suspicious keywords with payment context"
	LabelLinks       = "Contains external links"
	LabelPhone       = "Phone number in suspicious context"
)

const (
	linkPattern  = `https?://|bit\.ly|tinyurl`
	phonePattern = `\b\d{10}\b`
)

// DefaultRules is the UPI scam rule table
var DefaultRules = []PatternRule{
	// High risk
	{Pattern: `scan.*to.*receive.*cashback`, Description: "Fake cashback scan trap", Category: CategoryHighRisk},
	{Pattern: `refund.*credited.*verify`, Description: "Fake refund verification scam", Category: CategoryHighRisk},
	{Pattern: `congratulations.*won.*scan`, Description: "Fake lottery/prize scam", Category: CategoryHighRisk},
	{Pattern: `urgent.*verify.*account`, Description: "Account verification phishing", Category: CategoryHighRisk},
	{Pattern: `click.*link.*claim.*reward`, Description: "Reward claim phishing", Category: CategoryHighRisk},
	{Pattern: `pay.*₹1.*get.*₹\d+`, Description: "Pay small amount scam", Category: CategoryHighRisk},
	{Pattern: `kbc.*winner.*scan`, Description: "KBC lottery scam", Category: CategoryHighRisk},
	{Pattern: `government.*subsidy.*verify`, Description: "Fake government scheme", Category: CategoryHighRisk},

	// Warning
	{Pattern: `cashback.*pay`, Description: "Suspicious cashback offer", Category: CategoryWarning},
	{Pattern: `reward.*upi`, Description: "UPI reward scheme", Category: CategoryWarning},
	{Pattern: `verify.*payment`, Description: "Payment verification request", Category: CategoryWarning},
	{Pattern: `update.*kyc`, Description: "KYC update request", Category: CategoryWarning},
	{Pattern: `limited.*time.*offer`, Description: "Urgency-based offer", Category: CategoryWarning},
	{Pattern: `scan.*qr.*code`, Description: "QR code scan request", Category: CategoryWarning},

	// Safe indicators
	{Pattern: `received.*₹\d+.*from`, Description: "Payment received confirmation", Category: CategorySafeIndicator},
	{Pattern: `paid.*₹\d+.*to`, Description: "Payment sent confirmation", Category: CategorySafeIndicator},
	{Pattern: `transaction.*successful`, Description: "Transaction success message", Category: CategorySafeIndicator},
	{Pattern: `balance.*₹\d+`, Description: "Balance inquiry response", Category: CategorySafeIndicator},
}

// DefaultKeywords is the keyword table used by the combination heuristic
var DefaultKeywords = KeywordSet{
	Suspicious: []string{
		"scan", "verify", "claim", "reward", "cashback", "refund", "winner",
		"congratulations", "urgent", "limited time", "expire", "activate",
	},
	Payment: []string{"pay", "upi", "paytm", "gpay", "phonepe", "₹", "rupees"},
}

type compiledRule struct {
	PatternRule
	matcher Matcher
}

// Catalogue is the compiled, read-only rule set. It is safe for concurrent use.
type Catalogue struct {
	highRisk []compiledRule
	warning  []compiledRule
	safe     []compiledRule

	suspicious []string
	payment    []string

	link  Matcher
	phone Matcher

	weights Weights
}

// NewCatalogue compiles rules and keywords. Rule order within a category is
// preserved and determines the order of detected patterns.
func NewCatalogue(rules []PatternRule, keywords KeywordSet, weights Weights) (*Catalogue, error) {
	c := &Catalogue{
		suspicious: normalizeKeywords(keywords.Suspicious),
		payment:    normalizeKeywords(keywords.Payment),
		weights:    weights,
	}

	for i, r := range rules {
		if r.Description == "" {
			return nil, fmt.Errorf("rule %d: missing description", i)
		}
		m, err := CompilePattern(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r.Description, err)
		}
		cr := compiledRule{PatternRule: r, matcher: m}
		switch r.Category {
		case CategoryHighRisk:
			c.highRisk = append(c.highRisk, cr)
		case CategoryWarning:
			c.warning = append(c.warning, cr)
		case CategorySafeIndicator:
			c.safe = append(c.safe, cr)
		default:
			return nil, fmt.Errorf("rule %d (%s): unknown category %d", i, r.Description, r.Category)
		}
	}

	var err error
	if c.link, err = CompilePattern(linkPattern); err != nil {
		return nil, err
	}
	if c.phone, err = CompilePattern(phonePattern); err != nil {
		return nil, err
	}

	return c, nil
}

// DefaultCatalogue returns the built-in catalogue. It panics if the built-in
// tables fail to compile, which can only happen through a programming error.
func DefaultCatalogue() *Catalogue {
	c, err := NewCatalogue(DefaultRules, DefaultKeywords, DefaultWeights())
	if err != nil {
		panic(fmt.Sprintf("detection: default catalogue: %v", err))
	}
	return c
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Weights returns the scoring policy
func (c *Catalogue) Weights() Weights {
	return c.weights
}

// RuleInfo describes a rule for export to clients
type RuleInfo struct {
	Pattern     string `json:"pattern"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Weight      int    `json:"weight"`
}

// Export lists the rules in evaluation order with their signed score weight
func (c *Catalogue) Export() []RuleInfo {
	out := make([]RuleInfo, 0, len(c.highRisk)+len(c.warning)+len(c.safe))
	add := func(rules []compiledRule, weight int) {
		for _, r := range rules {
			out = append(out, RuleInfo{
				Pattern:     r.Pattern,
				Description: r.Description,
				Category:    r.Category.String(),
				Weight:      weight,
			})
		}
	}
	add(c.highRisk, c.weights.HighRisk)
	add(c.warning, c.weights.Warning)
	add(c.safe, -c.weights.SafeIndicator)
	return out
}

// Keywords returns copies of the keyword sets
func (c *Catalogue) Keywords() KeywordSet {
	return KeywordSet{
		Suspicious: append([]string(nil), c.suspicious...),
		Payment:    append([]string(nil), c.payment...),
	}
}
