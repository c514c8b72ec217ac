package streaming

import (
	"time"

	"github.com/google/uuid"

	"vigilant-link/internal/domain/models"
)

// EventType represents the type of report event
type EventType string

const (
	EventTypeReportSaved EventType = "report.saved"
)

// DefaultSubjectPrefix roots every subject the report stream carries
const DefaultSubjectPrefix = "reports"

// ReportEvent announces a persisted scam report. The message body is left out
// so subscribers never receive user content.
type ReportEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	ReportID         string                `json:"report_id"`
	Classification   models.Classification `json:"classification"`
	RiskScore        int                   `json:"risk_score"`
	DetectedPatterns []string              `json:"detected_patterns,omitempty"`
	Authenticated    bool                  `json:"authenticated"`
	ReportedAt       time.Time             `json:"reported_at"`
}

// NewReportEvent creates a saved event from a report
func NewReportEvent(report *models.ScamReport) *ReportEvent {
	return &ReportEvent{
		ID:               uuid.New().String(),
		Type:             EventTypeReportSaved,
		Timestamp:        time.Now().UTC(),
		ReportID:         report.ID.String(),
		Classification:   report.Classification,
		RiskScore:        report.RiskScore,
		DetectedPatterns: report.DetectedPatterns,
		Authenticated:    report.UserID != "",
		ReportedAt:       report.ReportedAt,
	}
}

// Subject returns <prefix>.<classification>, e.g. reports.high_risk
func (e *ReportEvent) Subject(prefix string) string {
	return prefix + "." + e.Classification.String()
}

// Filter selects events for a subscriber
type Filter struct {
	MinClassification models.Classification
	MinRiskScore      int
}

// Matches checks if an event passes the filter
func (f *Filter) Matches(e *ReportEvent) bool {
	if f == nil {
		return true
	}
	if e.Classification < f.MinClassification {
		return false
	}
	return e.RiskScore >= f.MinRiskScore
}
