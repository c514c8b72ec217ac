package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassification_Upgrade(t *testing.T) {
	tests := []struct {
		from, to, want Classification
	}{
		{ClassificationSafe, ClassificationWarning, ClassificationWarning},
		{ClassificationWarning, ClassificationSafe, ClassificationWarning},
		{ClassificationHighRisk, ClassificationWarning, ClassificationHighRisk},
		{ClassificationWarning, ClassificationHighRisk, ClassificationHighRisk},
		{ClassificationSafe, ClassificationSafe, ClassificationSafe},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Upgrade(tt.to))
		})
	}
}

func TestClassification_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		C Classification `json:"c"`
	}{ClassificationHighRisk})
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":"high_risk"}`, string(data))

	var c Classification
	require.NoError(t, json.Unmarshal([]byte(`"warning"`), &c))
	assert.Equal(t, ClassificationWarning, c)

	assert.Error(t, json.Unmarshal([]byte(`"critical"`), &c))

	_, err = json.Marshal(Classification(7))
	assert.Error(t, err)
}

func TestVerdict_EmptyPatternsEncodeAsArray(t *testing.T) {
	data, err := json.Marshal(Verdict{DetectedPatterns: []string{}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"detectedPatterns":[]`)
}

func TestReportStats_Add(t *testing.T) {
	var s ReportStats
	s.Add(ClassificationHighRisk)
	s.Add(ClassificationSafe)
	s.AddN(ClassificationWarning, 3)
	assert.Equal(t, ReportStats{Total: 5, HighRisk: 1, Warning: 3, Safe: 1}, s)
}

func TestNewScamReport(t *testing.T) {
	r := NewScamReport("hi", Verdict{Classification: ClassificationWarning, RiskScore: 40}, "")
	assert.NotEqual(t, [16]byte{}, [16]byte(r.ID))
	assert.Equal(t, []string{}, r.DetectedPatterns)
	assert.Empty(t, r.UserID)
	assert.False(t, r.ReportedAt.IsZero())
}
