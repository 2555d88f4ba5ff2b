package store

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rabbikazmi/HackingDelhi/analytics"
	"github.com/rabbikazmi/HackingDelhi/models"
	"github.com/rabbikazmi/HackingDelhi/utils"
)

type demoState struct {
	name      string
	region    string
	districts []string
	pinPrefix int
}

var demoStates = []demoState{
	{"Delhi", "North", []string{"New Delhi", "South Delhi", "East Delhi"}, 110},
	{"Maharashtra", "West", []string{"Mumbai", "Pune", "Nagpur"}, 400},
	{"Karnataka", "South", []string{"Bengaluru Urban", "Mysuru", "Hubballi"}, 560},
	{"Tamil Nadu", "South", []string{"Chennai", "Coimbatore", "Madurai"}, 600},
	{"Uttar Pradesh", "North", []string{"Lucknow", "Kanpur", "Varanasi"}, 226},
	{"West Bengal", "East", []string{"Kolkata", "Howrah", "Siliguri"}, 700},
	{"Bihar", "East", []string{"Patna", "Gaya", "Muzaffarpur"}, 800},
	{"Rajasthan", "North", []string{"Jaipur", "Jodhpur", "Udaipur"}, 302},
}

var (
	demoFirstNames  = []string{"Aarav", "Vivaan", "Aditya", "Ananya", "Diya", "Ishaan", "Kavya", "Rohan", "Saanvi", "Arjun", "Meera", "Kabir", "Priya", "Rahul", "Sunita", "Vikram"}
	demoLastNames   = []string{"Sharma", "Verma", "Patel", "Reddy", "Iyer", "Singh", "Das", "Khan", "Gupta", "Nair"}
	demoCastes      = []string{"General", "OBC", "SC", "ST"}
	demoOccupations = []string{"Agriculture", "Construction", "Manufacturing", "Services", "Trade", "Government", "Unemployed"}
	demoHousing     = []string{"Pucca", "Semi-Pucca", "Kutcha"}
	demoRationCards = []string{"APL", "BPL", "AAY", "None"}
	demoEmployment  = []string{"employed", "self_employed", "unemployed", "student", "retired"}
)

var demoEpoch = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

// GenerateDemo builds n synthetic census records grouped into households of
// one to six members. The same seed always yields the same dataset.
func GenerateDemo(n int, seed uint64) []models.CensusRecord {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	records := make([]models.CensusRecord, 0, n)

	household := 0
	for len(records) < n {
		household++
		size := 1 + rng.IntN(6)
		if left := n - len(records); size > left {
			size = left
		}
		records = append(records, demoHousehold(rng, household, size, len(records))...)
	}
	return records
}

func demoHousehold(rng *rand.Rand, household, size, offset int) []models.CensusRecord {
	st := demoStates[rng.IntN(len(demoStates))]
	hid := fmt.Sprintf("HH%06d", household)
	pin := fmt.Sprintf("%03d%03d", st.pinPrefix, rng.IntN(60))
	district := st.districts[rng.IntN(len(st.districts))]
	last := demoLastNames[rng.IntN(len(demoLastNames))]
	caste := demoCastes[rng.IntN(len(demoCastes))]
	housing := demoHousing[rng.IntN(len(demoHousing))]
	ration := demoRationCards[rng.IntN(len(demoRationCards))]
	water, toilet, fuel, internet := amenity(rng, 0.8), amenity(rng, 0.7), amenity(rng, 0.6), amenity(rng, 0.45)

	headID := fmt.Sprintf("%s-M1", hid)
	members := make([]models.CensusRecord, 0, size)
	for i := 0; i < size; i++ {
		id := fmt.Sprintf("%s-M%d", hid, i+1)
		r := models.CensusRecord{
			RecordID:       id,
			HouseholdID:    hid,
			Name:           demoFirstNames[rng.IntN(len(demoFirstNames))] + " " + last,
			Caste:          caste,
			Region:         st.region,
			District:       district,
			State:          st.name,
			PinCode:        pin,
			HousingType:    housing,
			RationCardType: ration,
			WaterSource:    water,
			ToiletAccess:   toilet,
			CookingFuel:    fuel,
			InternetAccess: internet,
			HouseholdSize:  size,
			CreatedAt:      demoEpoch.Add(time.Duration(offset+i) * time.Minute),
		}
		switch {
		case i == 0:
			r.Relation = "head"
			r.Age = 30 + rng.IntN(40)
		case i == 1 && size > 2:
			r.Relation = "spouse"
			r.Age = 25 + rng.IntN(40)
			r.SpouseID = headID
		default:
			r.Relation = "child"
			r.Age = rng.IntN(25)
			r.ParentID = headID
		}
		if i == 0 && size > 2 {
			r.SpouseID = fmt.Sprintf("%s-M2", hid)
		}
		if rng.IntN(2) == 0 {
			r.Sex = "Male"
		} else {
			r.Sex = "Female"
		}

		if r.Age >= 18 {
			if r.Age >= 60 && rng.IntN(2) == 0 {
				r.EmploymentStatus = "retired"
			} else {
				r.EmploymentStatus = demoEmployment[rng.IntN(3)]
			}
			r.OccupationCategory = demoOccupations[rng.IntN(len(demoOccupations))]
			r.Income = 10000 + rng.IntN(240000)
		} else {
			r.EmploymentStatus = "student"
			r.OccupationCategory = "Unemployed"
		}
		r.SchemeEnrollmentCount = rng.IntN(5)
		r.SchemeLeakageFlag = rng.Float64() < 0.08
		r.ExclusionErrorRiskScore = utils.Round(rng.Float64(), 3)
		r.WelfareScore = utils.Round(rng.Float64(), 2)
		r.FlagStatus, r.FlagSource = analytics.ClassifyRisk(r.SchemeLeakageFlag, r.ExclusionErrorRiskScore)
		members = append(members, r)
	}
	return members
}

func amenity(rng *rand.Rand, p float64) int {
	if rng.Float64() < p {
		return 1
	}
	return 0
}
