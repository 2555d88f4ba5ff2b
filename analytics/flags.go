package analytics

import "github.com/rabbikazmi/HackingDelhi/models"

// Policy thresholds for triage flags.
const (
	priorityRiskScore   = 0.7
	reviewRiskScore     = 0.5
	minAIConfidence     = 70
	defaultAIConfidence = 100
)

// ClassifyRisk flags a record from the ML leakage signal and its exclusion
// error risk score.
func ClassifyRisk(leakage bool, riskScore float64) (status, source string) {
	switch {
	case leakage && riskScore > priorityRiskScore:
		return models.FlagPriority, models.FlagSourceML
	case leakage || riskScore > reviewRiskScore:
		return models.FlagReview, models.FlagSourceML
	}
	return models.FlagNormal, models.FlagSourceNone
}

// ClassifyVerification flags a record from the mobile app's AI verification
// result. confidence is 0-100.
func ClassifyVerification(conflictDetected bool, confidence int) (status, source string) {
	switch {
	case conflictDetected:
		return models.FlagPriority, models.FlagSourceAI
	case confidence < minAIConfidence:
		return models.FlagReview, models.FlagSourceAI
	}
	return models.FlagNormal, models.FlagSourceNone
}

// Signal is one reason a record was, or could be, raised for review.
type Signal struct {
	Name   string  `json:"name"`
	Source string  `json:"source"`
	Value  float64 `json:"value"`
	Detail string  `json:"detail"`
}

// Signals lists the risk inputs of a record that cross a flag threshold.
func Signals(r models.CensusRecord) []Signal {
	out := []Signal{}
	if r.SchemeLeakageFlag {
		out = append(out, Signal{Name: "scheme_leakage", Source: models.FlagSourceML, Value: 1, Detail: "scheme leakage flagged"})
	}
	switch {
	case r.ExclusionErrorRiskScore > priorityRiskScore:
		out = append(out, Signal{Name: "high_risk_score", Source: models.FlagSourceML, Value: r.ExclusionErrorRiskScore, Detail: "exclusion error risk above 0.7"})
	case r.ExclusionErrorRiskScore > reviewRiskScore:
		out = append(out, Signal{Name: "elevated_risk_score", Source: models.FlagSourceML, Value: r.ExclusionErrorRiskScore, Detail: "exclusion error risk above 0.5"})
	}
	if v := r.AIVerification; v != nil {
		if v.ConflictDetected {
			out = append(out, Signal{Name: "ai_conflict", Source: models.FlagSourceAI, Value: 1, Detail: "declared income conflicts with verification"})
		}
		if v.Confidence < minAIConfidence {
			out = append(out, Signal{Name: "low_ai_confidence", Source: models.FlagSourceAI, Value: float64(v.Confidence), Detail: "verification confidence below 70"})
		}
	}
	return out
}
