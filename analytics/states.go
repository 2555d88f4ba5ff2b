package analytics

import (
	"math"

	"github.com/rabbikazmi/HackingDelhi/models"
)

type StateStats struct {
	TotalPopulation int `json:"total_population"`
	Normal          int `json:"normal"`
	Review          int `json:"review"`
	Priority        int `json:"priority"`
	AvgIncome       int `json:"avg_income"`
}

// StateBreakdown groups records by state with triage counts and average
// income. Reviewed records (approved, verification_requested) count toward
// the population only. An empty snapshot yields FallbackStates.
func StateBreakdown(records []models.CensusRecord) map[string]StateStats {
	if len(records) == 0 {
		return FallbackStates()
	}

	out := make(map[string]StateStats)
	incomes := make(map[string]float64)
	for _, r := range records {
		state := category(r.State)
		st := out[state]
		st.TotalPopulation++
		incomes[state] += float64(r.Income)
		switch r.FlagStatus {
		case models.FlagNormal, "":
			st.Normal++
		case models.FlagReview:
			st.Review++
		case models.FlagPriority:
			st.Priority++
		}
		out[state] = st
	}
	for state, st := range out {
		st.AvgIncome = int(math.Round(incomes[state] / float64(st.TotalPopulation)))
		out[state] = st
	}
	return out
}
