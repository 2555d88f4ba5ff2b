package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rabbikazmi/HackingDelhi/models"
)

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		name       string
		leakage    bool
		score      float64
		wantStatus string
		wantSource string
	}{
		{"leakage with high score", true, 0.8, models.FlagPriority, models.FlagSourceML},
		{"leakage at priority threshold", true, 0.7, models.FlagReview, models.FlagSourceML},
		{"leakage alone", true, 0.1, models.FlagReview, models.FlagSourceML},
		{"score above review threshold", false, 0.51, models.FlagReview, models.FlagSourceML},
		{"score at review threshold", false, 0.5, models.FlagNormal, models.FlagSourceNone},
		{"clean", false, 0.3, models.FlagNormal, models.FlagSourceNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, source := ClassifyRisk(tt.leakage, tt.score)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestClassifyVerification(t *testing.T) {
	tests := []struct {
		name       string
		conflict   bool
		confidence int
		wantStatus string
		wantSource string
	}{
		{"conflict wins over confidence", true, 95, models.FlagPriority, models.FlagSourceAI},
		{"low confidence", false, 69, models.FlagReview, models.FlagSourceAI},
		{"confidence at threshold", false, 70, models.FlagNormal, models.FlagSourceNone},
		{"confident", false, 100, models.FlagNormal, models.FlagSourceNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, source := ClassifyVerification(tt.conflict, tt.confidence)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestSignals(t *testing.T) {
	r := models.CensusRecord{
		SchemeLeakageFlag:       true,
		ExclusionErrorRiskScore: 0.6,
		AIVerification:          &models.RecordVerification{Confidence: 40, ConflictDetected: true},
	}
	var names []string
	for _, s := range Signals(r) {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"scheme_leakage", "elevated_risk_score", "ai_conflict", "low_ai_confidence"}, names)

	assert.Empty(t, Signals(models.CensusRecord{ExclusionErrorRiskScore: 0.2}))
	assert.NotNil(t, Signals(models.CensusRecord{}))
}
