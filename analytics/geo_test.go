package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbikazmi/HackingDelhi/models"
)

func TestCoordinateIsDeterministic(t *testing.T) {
	lat1, lon1 := Coordinate("Maharashtra", "411001")
	lat2, lon2 := Coordinate("Maharashtra", "411001")
	assert.Equal(t, lat1, lat2)
	assert.Equal(t, lon1, lon2)

	lat3, lon3 := Coordinate("Maharashtra", "411002")
	assert.False(t, lat1 == lat3 && lon1 == lon3, "distinct pincodes should not collide")
}

func TestCoordinateKnownPincode(t *testing.T) {
	// FNV-1a("560001") = 0xb3c49205: low half 0x9205 shifts latitude, high half
	// 0xb3c4 shifts longitude.
	lat, lon := Coordinate("Karnataka", "560001")
	assert.InDelta(t, 15.598890, lat, 1e-6)
	assert.InDelta(t, 76.522781, lon, 1e-6)
}

func TestCoordinateStaysNearCentroid(t *testing.T) {
	cases := map[string]centroid{
		"Karnataka":   stateCentroids["Karnataka"],
		"West Bengal": stateCentroids["West Bengal"],
		"Goa":         defaultCentroid,
		"":            defaultCentroid,
	}
	for state, c := range cases {
		for _, pin := range []string{"000000", "560001", "700001", "999999", ""} {
			lat, lon := Coordinate(state, pin)
			assert.InDelta(t, c.lat, lat, jitterSpread/2+1e-6, "%s/%s", state, pin)
			assert.InDelta(t, c.lon, lon, jitterSpread/2+1e-6, "%s/%s", state, pin)
		}
	}
}

func TestAggregateByPincode(t *testing.T) {
	records := []models.CensusRecord{
		{PinCode: "560001", State: "Karnataka", District: "Bengaluru", Income: 20000, WelfareScore: 0.4, Caste: "SC", FlagStatus: models.FlagPriority},
		{PinCode: "560001", State: "Karnataka", Income: 80000, WelfareScore: 0.6, Caste: "General", SchemeLeakageFlag: true},
		{PinCode: "560001", State: "Karnataka", Income: 30000, WelfareScore: 0.5, Caste: "SC"},
		{PinCode: "600001", State: "Tamil Nadu", Income: 10000, WelfareScore: 0.9, Caste: "SC"},
		{PinCode: "", State: "Tamil Nadu", Income: 10000},
	}
	res := AggregateByPincode(records, GeoQuery{Criteria: Criteria{IncomeThreshold: intPtr(50000), Caste: "SC"}})

	require.Len(t, res.Points, 2)
	assert.Equal(t, 2, res.TotalPincodes)
	assert.Equal(t, 4, res.TotalRecords)

	p := res.Points[0]
	assert.Equal(t, "560001", p.Pincode)
	assert.Equal(t, "Karnataka", p.State)
	assert.Equal(t, "Bengaluru", p.District)
	assert.Equal(t, 3, p.Count)
	assert.Equal(t, 2, p.EligibleCount)
	assert.Equal(t, 66.7, p.EligiblePct)
	assert.Equal(t, 0.5, p.AvgWelfare)
	assert.Equal(t, 43333, p.AvgIncome)
	assert.Equal(t, 1, p.PriorityCount)
	assert.Equal(t, 1, p.LeakageCount)

	lat, lon := Coordinate("Karnataka", "560001")
	assert.Equal(t, lat, p.Lat)
	assert.Equal(t, lon, p.Lon)

	assert.Equal(t, 100.0, res.Points[1].EligiblePct)
}

func TestAggregateByPincodeStateFilterAndLimit(t *testing.T) {
	records := population(200)

	all := AggregateByPincode(records, GeoQuery{State: "all"})
	assert.Equal(t, 7, all.TotalPincodes)
	assert.Equal(t, 200, all.TotalRecords)
	for i := 1; i < len(all.Points); i++ {
		prev, cur := all.Points[i-1], all.Points[i]
		assert.True(t, prev.Count > cur.Count || (prev.Count == cur.Count && prev.Pincode < cur.Pincode))
	}
	for _, p := range all.Points {
		assert.Equal(t, 100.0, p.EligiblePct, "no criteria means everyone is eligible")
	}

	limited := AggregateByPincode(records, GeoQuery{Limit: 3})
	assert.Len(t, limited.Points, 3)
	assert.Equal(t, 7, limited.TotalPincodes)
	assert.Equal(t, all.Points[:3], limited.Points)

	bihar := AggregateByPincode(records, GeoQuery{State: "Bihar", Criteria: Criteria{IncomeThreshold: intPtr(300000)}})
	total := 0
	for _, p := range bihar.Points {
		assert.Equal(t, "Bihar", p.State)
		assert.GreaterOrEqual(t, p.EligiblePct, 0.0)
		assert.LessOrEqual(t, p.EligiblePct, 100.0)
		total += p.Count
	}
	assert.Equal(t, bihar.TotalRecords, total)
}

func TestAggregateByPincodeEmpty(t *testing.T) {
	res := AggregateByPincode(nil, GeoQuery{})
	assert.NotNil(t, res.Points)
	assert.Empty(t, res.Points)
	assert.Zero(t, res.TotalPincodes)
	assert.Zero(t, res.TotalRecords)
}
