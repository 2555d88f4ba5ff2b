package store

import (
	"time"

	"github.com/rabbikazmi/HackingDelhi/analytics"
	"github.com/rabbikazmi/HackingDelhi/models"
	"github.com/rabbikazmi/HackingDelhi/utils"
)

// Placeholders for survey fields the mobile app does not collect.
const (
	surveyRegion   = "Mobile Survey"
	surveyDistrict = "District Unknown"
	surveyState    = "State Unknown"
	surveyRelation = "head"
	surveyCaste    = "General"
	surveyName     = "Unknown"
	surveySex      = "Unknown"
)

// SurveyHouseholdID derives the household a mobile survey belongs to.
func SurveyHouseholdID(surveyID string) string {
	prefix := surveyID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "HH" + prefix
}

// RecordFromSurvey maps a mobile survey onto the canonical record. The flag
// comes from the AI verification result until a reviewer has acted.
func RecordFromSurvey(s models.Survey) models.CensusRecord {
	status, source := analytics.ClassifyVerification(s.AIVerification.ConflictDetected, s.AIVerification.Confidence)
	r := models.CensusRecord{
		RecordID:    s.ID,
		HouseholdID: SurveyHouseholdID(s.ID),
		Name:        orDefault(s.Name, surveyName),
		Age:         utils.ParseCount(s.Age),
		Sex:         orDefault(s.Sex, surveySex),
		Relation:    surveyRelation,
		Caste:       orDefault(s.Caste, surveyCaste),
		Income:      utils.ParseCount(s.Income),
		Region:      surveyRegion,
		District:    surveyDistrict,
		State:       surveyState,
		FlagStatus:  status,
		FlagSource:  source,
		AIVerification: &models.RecordVerification{
			IncomeStatus:     s.AIVerification.IncomeStatus,
			Confidence:       s.AIVerification.Confidence,
			ConflictDetected: s.AIVerification.ConflictDetected,
		},
		CreatedAt: surveyCreatedAt(s),
	}
	if s.BlockchainReceipt != (models.BlockchainReceipt{}) {
		r.BlockchainReceipt = &models.RecordReceipt{
			TransactionHash: s.BlockchainReceipt.TransactionHash,
			Timestamp:       s.BlockchainReceipt.Timestamp,
			Status:          s.BlockchainReceipt.Status,
		}
	}
	if s.Reviewed {
		r.Reviewed = true
		r.ReviewedBy = s.ReviewedBy
		r.ReviewedAt = s.ReviewedAt
		r.ReviewAction = s.ReviewAction
		r.FlagStatus = models.FlagAfterReview(s.ReviewAction, r.FlagStatus)
	}
	return r
}

// NormalizeRecord fills in the triage flag of a demo dataset record that
// arrived without one.
func NormalizeRecord(r models.CensusRecord) models.CensusRecord {
	if r.FlagStatus == "" {
		r.FlagStatus, r.FlagSource = analytics.ClassifyRisk(r.SchemeLeakageFlag, r.ExclusionErrorRiskScore)
	}
	return r
}

func surveyCreatedAt(s models.Survey) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02"} {
		if t, err := time.Parse(layout, s.CreatedAt); err == nil {
			return t.UTC()
		}
	}
	return s.SyncedAt.UTC()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
