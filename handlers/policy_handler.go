package handlers

import (
	"net/http"

	"github.com/rabbikazmi/HackingDelhi/analytics"
	"github.com/rabbikazmi/HackingDelhi/apperr"
	"github.com/rabbikazmi/HackingDelhi/response"
)

type SimulationRequest struct {
	IncomeThreshold   *int   `json:"income_threshold"`
	CasteFilter       string `json:"caste_filter"`
	RegionFilter      string `json:"region_filter"`
	SexFilter         string `json:"sex_filter"`
	OccupationFilter  string `json:"occupation_filter"`
	HousingTypeFilter string `json:"housing_type_filter"`
	HouseholdSizeMin  *int   `json:"household_size_min"`
	HouseholdSizeMax  *int   `json:"household_size_max"`
}

func (req SimulationRequest) criteria() (analytics.Criteria, error) {
	if req.IncomeThreshold == nil {
		return analytics.Criteria{}, apperr.Validation("income_threshold is required")
	}
	c := analytics.Criteria{
		IncomeThreshold:  req.IncomeThreshold,
		Caste:            req.CasteFilter,
		State:            req.RegionFilter,
		Sex:              req.SexFilter,
		Occupation:       req.OccupationFilter,
		HousingType:      req.HousingTypeFilter,
		HouseholdSizeMin: req.HouseholdSizeMin,
		HouseholdSizeMax: req.HouseholdSizeMax,
	}
	if err := c.Validate(); err != nil {
		return analytics.Criteria{}, apperr.Validation("%v", err)
	}
	return c, nil
}

func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := req.criteria()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	records, err := h.snapshot(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, analytics.Simulate(records, c))
}
