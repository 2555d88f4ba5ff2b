package analytics

import (
	"hash/fnv"
	"math"
	"sort"

	"github.com/rabbikazmi/HackingDelhi/models"
	"github.com/rabbikazmi/HackingDelhi/utils"
)

const (
	DefaultPointLimit = 5000
	jitterSpread      = 4.0
)

type centroid struct{ lat, lon float64 }

var stateCentroids = map[string]centroid{
	"Maharashtra":   {19.7515, 75.7139},
	"Uttar Pradesh": {26.8467, 80.9462},
	"Karnataka":     {15.3173, 75.7139},
	"Tamil Nadu":    {11.1271, 78.6569},
	"West Bengal":   {22.9868, 87.8550},
}

var defaultCentroid = centroid{22.5937, 78.9629}

// Coordinate places a pincode on the map without geocoding: the state
// centroid shifted by a jitter derived from the pincode's FNV-1a hash. The
// result depends only on (state, pinCode).
func Coordinate(state, pinCode string) (lat, lon float64) {
	c, ok := stateCentroids[state]
	if !ok {
		c = defaultCentroid
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(pinCode))
	sum := h.Sum32()
	latBits := float64(sum & 0xFFFF)
	lonBits := float64((sum >> 16) & 0xFFFF)
	lat = c.lat + (latBits/0xFFFF-0.5)*jitterSpread
	lon = c.lon + (lonBits/0xFFFF-0.5)*jitterSpread
	return utils.Round(lat, 6), utils.Round(lon, 6)
}

type GeoQuery struct {
	State    string
	Criteria Criteria
	Limit    int
}

type GeoPoint struct {
	Pincode       string  `json:"pincode"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	State         string  `json:"state"`
	District      string  `json:"district"`
	Count         int     `json:"count"`
	AvgWelfare    float64 `json:"avg_welfare"`
	AvgIncome     int     `json:"avg_income"`
	EligibleCount int     `json:"eligible_count"`
	EligiblePct   float64 `json:"eligible_pct"`
	PriorityCount int     `json:"priority_count"`
	LeakageCount  int     `json:"leakage_count"`
}

type GeoResult struct {
	Points        []GeoPoint `json:"points"`
	TotalPincodes int        `json:"total_pincodes"`
	TotalRecords  int        `json:"total_records"`
}

type pointAcc struct {
	point      GeoPoint
	welfareSum float64
	incomeSum  float64
}

// AggregateByPincode groups records into one map point per pincode, counting
// how many match the eligibility criteria. Points are ordered by record
// count, largest first, then by pincode, and cut to q.Limit. Records without
// a pincode are not plotted.
func AggregateByPincode(records []models.CensusRecord, q GeoQuery) GeoResult {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPointLimit
	}

	byPin := make(map[string]*pointAcc)
	placed := 0
	for _, r := range records {
		if Active(q.State) && r.State != q.State {
			continue
		}
		if r.PinCode == "" {
			continue
		}
		acc, ok := byPin[r.PinCode]
		if !ok {
			lat, lon := Coordinate(r.State, r.PinCode)
			acc = &pointAcc{point: GeoPoint{
				Pincode:  r.PinCode,
				Lat:      lat,
				Lon:      lon,
				State:    category(r.State),
				District: category(r.District),
			}}
			byPin[r.PinCode] = acc
		}
		placed++
		acc.point.Count++
		acc.welfareSum += r.WelfareScore
		acc.incomeSum += float64(r.Income)
		if q.Criteria.Matches(r) {
			acc.point.EligibleCount++
		}
		if r.FlagStatus == models.FlagPriority {
			acc.point.PriorityCount++
		}
		if r.SchemeLeakageFlag {
			acc.point.LeakageCount++
		}
	}

	points := make([]GeoPoint, 0, len(byPin))
	for _, acc := range byPin {
		p := acc.point
		p.AvgWelfare = utils.Round(acc.welfareSum/float64(p.Count), 2)
		p.AvgIncome = int(math.Round(acc.incomeSum / float64(p.Count)))
		p.EligiblePct = utils.Percent(p.EligibleCount, p.Count, 1)
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Count != points[j].Count {
			return points[i].Count > points[j].Count
		}
		return points[i].Pincode < points[j].Pincode
	})
	if len(points) > limit {
		points = points[:limit]
	}

	return GeoResult{Points: points, TotalPincodes: len(byPin), TotalRecords: placed}
}
