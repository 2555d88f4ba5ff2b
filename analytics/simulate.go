package analytics

import (
	"math"

	"github.com/rabbikazmi/HackingDelhi/models"
	"github.com/rabbikazmi/HackingDelhi/utils"
)

type SimulationResult struct {
	TotalPopulation           int            `json:"total_population"`
	EligiblePopulation        int            `json:"eligible_population"`
	EligibilityPercentage     float64        `json:"eligibility_percentage"`
	AvgIncomeEligible         int            `json:"avg_income_eligible"`
	AvgWelfareEligible        float64        `json:"avg_welfare_eligible"`
	RegionDistribution        map[string]int `json:"region_distribution"`
	CasteDistribution         map[string]int `json:"caste_distribution"`
	SexDistribution           map[string]int `json:"sex_distribution"`
	OccupationDistribution    map[string]int `json:"occupation_distribution"`
	HousingDistribution       map[string]int `json:"housing_distribution"`
	IncomeBrackets            map[string]int `json:"income_brackets"`
	AgeGroups                 map[string]int `json:"age_groups"`
	HouseholdSizeDistribution map[string]int `json:"household_size_distribution"`
}

// Simulate applies a welfare scheme's eligibility criteria to the population
// and describes who would qualify. The region distribution is keyed by state.
func Simulate(records []models.CensusRecord, c Criteria) SimulationResult {
	res := SimulationResult{
		TotalPopulation:           len(records),
		RegionDistribution:        map[string]int{},
		CasteDistribution:         map[string]int{},
		SexDistribution:           map[string]int{},
		OccupationDistribution:    map[string]int{},
		HousingDistribution:       map[string]int{},
		IncomeBrackets:            emptyBrackets(simulationIncomeBrackets),
		AgeGroups:                 emptyBrackets(ageGroups),
		HouseholdSizeDistribution: map[string]int{},
	}

	var incomeSum, welfareSum float64
	for _, r := range records {
		if !c.Matches(r) {
			continue
		}
		res.EligiblePopulation++
		incomeSum += float64(r.Income)
		welfareSum += r.WelfareScore

		res.RegionDistribution[category(r.State)]++
		res.CasteDistribution[category(r.Caste)]++
		res.SexDistribution[category(r.Sex)]++
		res.OccupationDistribution[category(r.OccupationCategory)]++
		res.HousingDistribution[category(r.HousingType)]++
		res.IncomeBrackets[bracketOf(simulationIncomeBrackets, r.Income)]++
		res.AgeGroups[bracketOf(ageGroups, r.Age)]++
		res.HouseholdSizeDistribution[householdSizeKey(r.HouseholdSize)]++
	}

	res.EligibilityPercentage = utils.Percent(res.EligiblePopulation, res.TotalPopulation, 2)
	res.AvgIncomeEligible = int(math.Round(utils.Mean(incomeSum, res.EligiblePopulation)))
	res.AvgWelfareEligible = utils.Round(utils.Mean(welfareSum, res.EligiblePopulation), 2)
	return res
}
