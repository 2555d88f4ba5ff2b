// Package analytics holds the reporting engines of the review portal. Every
// function here is a pure scan over a record snapshot supplied by the
// caller: no I/O, no shared state, safe for concurrent use.
package analytics

import (
	"math"

	"github.com/rabbikazmi/HackingDelhi/models"
	"github.com/rabbikazmi/HackingDelhi/utils"
)

// Data quality figures are published constants, not measurements.
const (
	dataCompleteness = 98.7
	dataAccuracy     = 96.2
	dataConsistency  = 99.1
)

type Summary struct {
	TotalRecords       int               `json:"total_records"`
	TotalHouseholds    int               `json:"total_households"`
	ByRegion           map[string]int    `json:"by_region"`
	ByCaste            map[string]int    `json:"by_caste"`
	ByState            map[string]int    `json:"by_state"`
	ByIncome           map[string]int    `json:"by_income"`
	ByEmployment       map[string]int    `json:"by_employment"`
	ByRationCard       map[string]int    `json:"by_ration_card"`
	PendingReview      int               `json:"pending_review"`
	PriorityCases      int               `json:"priority_cases"`
	VerifiedRecords    int               `json:"verified_records"`
	NormalCases        int               `json:"normal_cases"`
	SchemeLeakageCount int               `json:"scheme_leakage_count"`
	SchemeLeakageRate  float64           `json:"scheme_leakage_rate"`
	AvgIncome          int               `json:"avg_income"`
	AvgWelfareScore    float64           `json:"avg_welfare_score"`
	WelfareIndicators  WelfareIndicators `json:"welfare_indicators"`
	DataQuality        DataQuality       `json:"data_quality"`
}

// WelfareIndicators are percentages of all records, one decimal, capped at 100.
type WelfareIndicators struct {
	SchemeCoverage   float64 `json:"scheme_coverage"`
	ToiletAccess     float64 `json:"toilet_access"`
	WaterAccess      float64 `json:"water_access"`
	EmploymentRate   float64 `json:"employment_rate"`
	BPLCoverage      float64 `json:"bpl_coverage"`
	DigitalInclusion float64 `json:"digital_inclusion"`
}

type DataQuality struct {
	Completeness float64 `json:"completeness"`
	Accuracy     float64 `json:"accuracy"`
	Consistency  float64 `json:"consistency"`
}

func publishedDataQuality() DataQuality {
	return DataQuality{Completeness: dataCompleteness, Accuracy: dataAccuracy, Consistency: dataConsistency}
}

// Summarize computes the analytics dashboard over records in a single pass.
// An empty snapshot yields FallbackSummary.
func Summarize(records []models.CensusRecord) Summary {
	if len(records) == 0 {
		return FallbackSummary()
	}

	s := Summary{
		TotalRecords: len(records),
		ByRegion:     map[string]int{},
		ByCaste:      map[string]int{},
		ByState:      map[string]int{},
		ByIncome:     emptyBrackets(summaryIncomeBrackets),
		ByEmployment: map[string]int{},
		ByRationCard: map[string]int{},
		DataQuality:  publishedDataQuality(),
	}

	households := make(map[string]struct{})
	var incomeSum, welfareSum float64
	var enrolled, toilets, water, employed, bpl, online, leakage int
	for _, r := range records {
		if r.HouseholdID != "" {
			households[r.HouseholdID] = struct{}{}
		}
		s.ByRegion[category(r.Region)]++
		s.ByCaste[category(r.Caste)]++
		s.ByState[category(r.State)]++
		s.ByEmployment[category(r.EmploymentStatus)]++
		s.ByRationCard[category(r.RationCardType)]++
		s.ByIncome[bracketOf(summaryIncomeBrackets, r.Income)]++

		switch r.FlagStatus {
		case models.FlagReview:
			s.PendingReview++
		case models.FlagPriority:
			s.PriorityCases++
		default:
			s.VerifiedRecords++
		}

		if r.SchemeLeakageFlag {
			leakage++
		}
		incomeSum += float64(r.Income)
		welfareSum += r.WelfareScore

		if r.SchemeEnrollmentCount > 0 {
			enrolled++
		}
		if r.ToiletAccess == 1 {
			toilets++
		}
		if r.WaterSource == 1 {
			water++
		}
		if r.EmploymentStatus == "employed" {
			employed++
		}
		if r.RationCardType == "BPL" {
			bpl++
		}
		if r.InternetAccess == 1 {
			online++
		}
	}

	total := len(records)
	s.TotalHouseholds = len(households)
	s.NormalCases = s.VerifiedRecords
	s.SchemeLeakageCount = leakage
	s.SchemeLeakageRate = utils.Percent(leakage, total, 2)
	s.AvgIncome = int(math.Round(utils.Mean(incomeSum, total)))
	s.AvgWelfareScore = utils.Round(utils.Mean(welfareSum, total), 2)
	s.WelfareIndicators = WelfareIndicators{
		SchemeCoverage:   indicator(enrolled, total),
		ToiletAccess:     indicator(toilets, total),
		WaterAccess:      indicator(water, total),
		EmploymentRate:   indicator(employed, total),
		BPLCoverage:      indicator(bpl, total),
		DigitalInclusion: indicator(online, total),
	}
	return s
}

func indicator(count, total int) float64 {
	return math.Min(utils.Percent(count, total, 1), 100)
}
