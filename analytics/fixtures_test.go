package analytics

import (
	"fmt"

	"github.com/rabbikazmi/HackingDelhi/models"
)

func intPtr(v int) *int { return &v }

// population builds n varied records. Every tenth record leaves its
// categorical fields empty.
func population(n int) []models.CensusRecord {
	castes := []string{"General", "OBC", "SC", "ST"}
	states := []string{"Maharashtra", "Karnataka", "Bihar", "Tamil Nadu"}
	flags := []string{models.FlagNormal, models.FlagReview, models.FlagPriority, models.FlagApproved, models.FlagNormal}
	out := make([]models.CensusRecord, 0, n)
	for i := 0; i < n; i++ {
		r := models.CensusRecord{
			RecordID:              fmt.Sprintf("REC%06d", i),
			HouseholdID:           fmt.Sprintf("HH%04d", i/3),
			Name:                  fmt.Sprintf("Person %d", i),
			Age:                   (i * 7) % 90,
			Sex:                   []string{"Male", "Female"}[i%2],
			Relation:              []string{"head", "spouse", "son"}[i%3],
			Caste:                 castes[i%len(castes)],
			Income:                i * 9000,
			Region:                []string{"urban", "rural"}[i%2],
			District:              fmt.Sprintf("District %d", i%5),
			State:                 states[i%len(states)],
			PinCode:               fmt.Sprintf("4%05d", i%7),
			FlagStatus:            flags[i%len(flags)],
			WelfareScore:          float64(i%10) / 10,
			RationCardType:        []string{"BPL", "APL", "AAY"}[i%3],
			SchemeEnrollmentCount: i % 3,
			SchemeLeakageFlag:     i%6 == 0,
			EmploymentStatus:      []string{"employed", "unemployed"}[i%2],
			OccupationCategory:    []string{"agriculture", "labour", "service"}[i%3],
			HousingType:           []string{"kutcha", "pucca"}[i%2],
			WaterSource:           i % 2,
			ToiletAccess:          (i + 1) % 2,
			InternetAccess:        boolToInt(i%4 == 0),
			HouseholdSize:         1 + i%6,
		}
		if i%10 == 9 {
			r.Caste, r.State, r.Region, r.EmploymentStatus, r.RationCardType = "", "", "", "", ""
			r.Sex, r.OccupationCategory, r.HousingType = "", "", ""
			r.HouseholdSize = 0
		}
		out = append(out, r)
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sum(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
