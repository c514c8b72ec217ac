package models

import (
	"encoding/json"
	"fmt"
)

// Classification is the risk tier of a message. The ordering is meaningful:
// Safe < Warning < HighRisk.
type Classification int

const (
	ClassificationSafe Classification = iota
	ClassificationWarning
	ClassificationHighRisk
)

// String returns the wire form used in API responses and storage
func (c Classification) String() string {
	switch c {
	case ClassificationSafe:
		return "safe"
	case ClassificationWarning:
		return "warning"
	case ClassificationHighRisk:
		return "high_risk"
	default:
		return fmt.Sprintf("classification(%d)", int(c))
	}
}

// Valid reports whether c is one of the three defined tiers
func (c Classification) Valid() bool {
	return c >= ClassificationSafe && c <= ClassificationHighRisk
}

// Upgrade returns the higher of c and to. It never lowers a classification.
func (c Classification) Upgrade(to Classification) Classification {
	if to > c {
		return to
	}
	return c
}

// ParseClassification converts the wire form back to a Classification
func ParseClassification(s string) (Classification, error) {
	switch s {
	case "safe":
		return ClassificationSafe, nil
	case "warning":
		return ClassificationWarning, nil
	case "high_risk":
		return ClassificationHighRisk, nil
	default:
		return ClassificationSafe, fmt.Errorf("unknown classification %q", s)
	}
}

func (c Classification) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", c)
	}
	return json.Marshal(c.String())
}

func (c *Classification) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClassification(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Verdict is the result of classifying one message
type Verdict struct {
	Classification   Classification  `json:"classification"`
	RiskScore        int             `json:"riskScore"`
	DetectedPatterns []string        `json:"detectedPatterns"`
	Analysis         MessageAnalysis `json:"analysis"`
}

// MessageAnalysis holds the counters derived while scoring a message
type MessageAnalysis struct {
	SuspiciousKeywords int  `json:"suspiciousKeywords"`
	PaymentKeywords    int  `json:"paymentKeywords"`
	SafeIndicators     int  `json:"safeIndicators"`
	HasLinks           bool `json:"hasLinks"`
	HasPhoneNumber     bool `json:"hasPhoneNumber"`
}
