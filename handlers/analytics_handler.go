package handlers

import (
	"net/http"
	"strings"

	"github.com/rabbikazmi/HackingDelhi/analytics"
	"github.com/rabbikazmi/HackingDelhi/apperr"
	"github.com/rabbikazmi/HackingDelhi/config"
	"github.com/rabbikazmi/HackingDelhi/models"
	"github.com/rabbikazmi/HackingDelhi/response"
	"github.com/rabbikazmi/HackingDelhi/store"
)

const (
	summaryCacheKey = "analytics:summary"
	statesCacheKey  = "analytics:states"
)

func (h *Handler) snapshot(r *http.Request) ([]models.CensusRecord, error) {
	return h.store.List(r.Context(), store.ListOptions{Limit: h.opts.AnalyticsFetchLimit})
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	key := config.GetCacheKey(summaryCacheKey, h.opts.AnalyticsFetchLimit)
	if cached, ok := h.cache.Get(key); ok {
		h.log.Debug("analytics cache hit", "key", key)
		response.OK(w, cached)
		return
	}
	records, err := h.snapshot(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	summary := analytics.Summarize(records)
	h.cache.Set(key, summary)
	response.OK(w, summary)
}

func (h *Handler) States(w http.ResponseWriter, r *http.Request) {
	key := config.GetCacheKey(statesCacheKey, h.opts.AnalyticsFetchLimit)
	if cached, ok := h.cache.Get(key); ok {
		h.log.Debug("analytics cache hit", "key", key)
		response.OK(w, cached)
		return
	}
	records, err := h.snapshot(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	states := analytics.StateBreakdown(records)
	h.cache.Set(key, states)
	response.OK(w, states)
}

func (h *Handler) PincodePoints(w http.ResponseWriter, r *http.Request) {
	q, err := geoQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	records, err := h.snapshot(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, analytics.AggregateByPincode(records, q))
}

func geoQuery(r *http.Request) (analytics.GeoQuery, error) {
	values := r.URL.Query()
	var q analytics.GeoQuery

	limit, err := queryInt(r, "limit")
	if err != nil {
		return q, err
	}
	if limit != nil {
		if *limit <= 0 {
			return q, apperr.Validation("limit must be positive")
		}
		q.Limit = *limit
	}
	if q.Criteria.IncomeThreshold, err = queryInt(r, "income_threshold"); err != nil {
		return q, err
	}
	if q.Criteria.HouseholdSizeMin, err = queryInt(r, "household_size_min"); err != nil {
		return q, err
	}
	if q.Criteria.HouseholdSizeMax, err = queryInt(r, "household_size_max"); err != nil {
		return q, err
	}
	q.State = strings.TrimSpace(values.Get("state_filter"))
	q.Criteria.Caste = strings.TrimSpace(values.Get("caste_filter"))
	q.Criteria.Sex = strings.TrimSpace(values.Get("sex_filter"))
	q.Criteria.Occupation = strings.TrimSpace(values.Get("occupation_filter"))
	q.Criteria.HousingType = strings.TrimSpace(values.Get("housing_type_filter"))

	if err := q.Criteria.Validate(); err != nil {
		return q, apperr.Validation("%v", err)
	}
	return q, nil
}
