package analytics

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rabbikazmi/HackingDelhi/models"
)

// FallbackSummary is the illustrative national-scale dashboard shown while no
// records are loaded.
func FallbackSummary() Summary {
	return Summary{
		TotalRecords:    1500000,
		TotalHouseholds: 375000,
		ByRegion:        map[string]int{"North": 350000, "South": 400000, "East": 300000, "West": 250000, "Central": 200000},
		ByCaste:         map[string]int{"General": 600000, "OBC": 450000, "SC": 300000, "ST": 150000},
		ByState: map[string]int{
			"Uttar Pradesh": 420000, "Maharashtra": 360000, "West Bengal": 270000,
			"Tamil Nadu": 240000, "Karnataka": 210000,
		},
		ByIncome:           map[string]int{"0-50k": 500000, "50k-100k": 450000, "100k-200k": 350000, "200k+": 200000},
		ByEmployment:       map[string]int{"employed": 840000, "unemployed": 270000, "self_employed": 390000},
		ByRationCard:       map[string]int{"BPL": 540000, "APL": 720000, "AAY": 120000, "None": 120000},
		PendingReview:      180000,
		PriorityCases:      45000,
		VerifiedRecords:    1275000,
		NormalCases:        1275000,
		SchemeLeakageCount: 67500,
		SchemeLeakageRate:  4.5,
		AvgIncome:          72000,
		AvgWelfareScore:    0.58,
		WelfareIndicators: WelfareIndicators{
			SchemeCoverage:   64.2,
			ToiletAccess:     71.8,
			WaterAccess:      83.5,
			EmploymentRate:   56.0,
			BPLCoverage:      36.0,
			DigitalInclusion: 42.3,
		},
		DataQuality: publishedDataQuality(),
	}
}

var fallbackStates = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand",
	"Karnataka", "Kerala", "Madhya Pradesh", "Maharashtra", "Manipur",
	"Meghalaya", "Mizoram", "Nagaland", "Odisha", "Punjab",
	"Rajasthan", "Sikkim", "Tamil Nadu", "Telangana", "Tripura",
	"Uttar Pradesh", "Uttarakhand", "West Bengal", "Delhi", "Jammu and Kashmir",
}

// FallbackStates is the illustrative per-state table shown while no records
// are loaded. It is seeded, so every call returns the same figures.
func FallbackStates() map[string]StateStats {
	rng := rand.New(rand.NewPCG(42, 42))
	between := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

	out := make(map[string]StateStats, len(fallbackStates))
	for _, state := range fallbackStates {
		pop := 50000 + rng.IntN(450001)
		out[state] = StateStats{
			TotalPopulation: pop,
			Normal:          int(float64(pop) * between(0.75, 0.85)),
			Review:          int(float64(pop) * between(0.10, 0.18)),
			Priority:        int(float64(pop) * between(0.02, 0.07)),
			AvgIncome:       40000 + rng.IntN(110001),
		}
	}
	return out
}

// FallbackAuditLog is the illustrative audit trail shown while no review has
// been recorded.
func FallbackAuditLog(now time.Time) []models.AuditLogEntry {
	out := make([]models.AuditLogEntry, 0, 10)
	for i := 0; i < 10; i++ {
		out = append(out, models.AuditLogEntry{
			AuditID:   fmt.Sprintf("audit_%d", i),
			UserID:    "user_admin",
			UserName:  "System Admin",
			Action:    fmt.Sprintf("Record reviewed: REC%06d", i),
			Details:   models.AuditDetails{Action: models.ReviewApprove},
			Timestamp: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	return out
}
