package analytics

import (
	"fmt"
	"strings"

	"github.com/rabbikazmi/HackingDelhi/models"
)

// Criteria is the eligibility predicate shared by the policy simulation and
// the pincode map. Empty strings, "all" and nil pointers leave a dimension
// unconstrained.
type Criteria struct {
	IncomeThreshold  *int
	Caste            string
	State            string
	Sex              string
	Occupation       string
	HousingType      string
	HouseholdSizeMin *int
	HouseholdSizeMax *int
}

func (c Criteria) Validate() error {
	if c.IncomeThreshold != nil && *c.IncomeThreshold < 0 {
		return fmt.Errorf("income_threshold must be non-negative")
	}
	if c.HouseholdSizeMin != nil && *c.HouseholdSizeMin < 0 {
		return fmt.Errorf("household_size_min must be non-negative")
	}
	if c.HouseholdSizeMax != nil && *c.HouseholdSizeMax < 0 {
		return fmt.Errorf("household_size_max must be non-negative")
	}
	if c.HouseholdSizeMin != nil && c.HouseholdSizeMax != nil && *c.HouseholdSizeMin > *c.HouseholdSizeMax {
		return fmt.Errorf("household_size_min %d exceeds household_size_max %d", *c.HouseholdSizeMin, *c.HouseholdSizeMax)
	}
	return nil
}

// Matches reports whether r satisfies every active constraint.
func (c Criteria) Matches(r models.CensusRecord) bool {
	if c.IncomeThreshold != nil && r.Income > *c.IncomeThreshold {
		return false
	}
	if Active(c.Caste) && r.Caste != c.Caste {
		return false
	}
	if Active(c.State) && r.State != c.State {
		return false
	}
	if Active(c.Sex) && r.Sex != c.Sex {
		return false
	}
	if Active(c.Occupation) && r.OccupationCategory != c.Occupation {
		return false
	}
	if Active(c.HousingType) && r.HousingType != c.HousingType {
		return false
	}
	if c.HouseholdSizeMin != nil && r.HouseholdSize < *c.HouseholdSizeMin {
		return false
	}
	if c.HouseholdSizeMax != nil && r.HouseholdSize > *c.HouseholdSizeMax {
		return false
	}
	return true
}

// Active reports whether a categorical filter value constrains anything.
func Active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, "all")
}
