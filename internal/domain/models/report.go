package models

import (
	"time"

	"github.com/google/uuid"
)

// ScamReport is a persisted classification. It is only created when a caller
// explicitly asks to save a verdict.
type ScamReport struct {
	ID               uuid.UUID      `json:"id"`
	Message          string         `json:"message"`
	Classification   Classification `json:"classification"`
	RiskScore        int            `json:"riskScore"`
	DetectedPatterns []string       `json:"detectedPatterns"`
	UserID           string         `json:"userId,omitempty"`
	ReportedAt       time.Time      `json:"reportedAt"`
}

// NewScamReport builds an unsaved report from a message and its verdict
func NewScamReport(message string, v Verdict, userID string) *ScamReport {
	patterns := v.DetectedPatterns
	if patterns == nil {
		patterns = []string{}
	}
	return &ScamReport{
		ID:               uuid.New(),
		Message:          message,
		Classification:   v.Classification,
		RiskScore:        v.RiskScore,
		DetectedPatterns: patterns,
		UserID:           userID,
		ReportedAt:       time.Now().UTC(),
	}
}

// ReportStats are counts by classification over the most recent reports
type ReportStats struct {
	Total    int `json:"total"`
	HighRisk int `json:"highRisk"`
	Warning  int `json:"warning"`
	Safe     int `json:"safe"`
}

// Add counts one report of the given classification
func (s *ReportStats) Add(c Classification) {
	s.AddN(c, 1)
}

// AddN counts n reports of the given classification
func (s *ReportStats) AddN(c Classification, n int) {
	s.Total += n
	switch c {
	case ClassificationHighRisk:
		s.HighRisk += n
	case ClassificationWarning:
		s.Warning += n
	case ClassificationSafe:
		s.Safe += n
	}
}
