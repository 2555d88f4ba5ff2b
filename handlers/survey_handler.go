package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rabbikazmi/HackingDelhi/apperr"
	"github.com/rabbikazmi/HackingDelhi/models"
	"github.com/rabbikazmi/HackingDelhi/response"
	"github.com/rabbikazmi/HackingDelhi/store"
)

const surveyListLimit = 1000

func (h *Handler) prepareSurvey(s *models.Survey) error {
	s.ID = strings.TrimSpace(s.ID)
	if s.ID == "" {
		return apperr.Validation("id is required")
	}
	s.Synced = true
	s.SyncedAt = h.now()
	s.Reviewed, s.ReviewedBy, s.ReviewedAt, s.ReviewAction = false, "", nil, ""
	return nil
}

// CreateSurvey accepts one survey from the mobile app.
func (h *Handler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	var s models.Survey
	if err := decodeJSON(r, &s); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.prepareSurvey(&s); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.store.InsertSurvey(r.Context(), s); err != nil {
		h.fail(w, r, storeErr(err, "Survey with this ID"))
		return
	}
	h.cache.Flush()
	h.log.Info("survey submitted", "survey_id", s.ID)
	response.OK(w, s)
}

// BulkSurveys syncs a batch queued offline. The whole batch is validated
// before anything is stored. Surveys that already exist are returned as
// stored.
func (h *Handler) BulkSurveys(w http.ResponseWriter, r *http.Request) {
	var batch []models.Survey
	if err := decodeJSON(r, &batch); err != nil {
		h.fail(w, r, err)
		return
	}

	for i := range batch {
		if err := h.prepareSurvey(&batch[i]); err != nil {
			h.fail(w, r, apperr.Validation("survey %d: %v", i, apperr.From(err).Err))
			return
		}
	}

	out := make([]models.Survey, 0, len(batch))
	inserted := 0
	defer func() {
		if inserted > 0 {
			h.cache.Flush()
		}
	}()
	for _, s := range batch {
		err := h.store.InsertSurvey(r.Context(), s)
		if errors.Is(err, store.ErrDuplicate) {
			existing, gerr := h.store.GetSurvey(r.Context(), s.ID)
			if gerr != nil {
				h.fail(w, r, gerr)
				return
			}
			out = append(out, existing)
			continue
		}
		if err != nil {
			h.fail(w, r, err)
			return
		}
		inserted++
		out = append(out, s)
	}
	h.log.Info("bulk survey sync", "received", len(batch), "inserted", inserted)
	response.OK(w, out)
}

func (h *Handler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.store.ListSurveys(r.Context(), surveyListLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, surveys)
}

func (h *Handler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.GetSurvey(r.Context(), pathVar(r, "survey_id"))
	if err != nil {
		h.fail(w, r, storeErr(err, "Survey"))
		return
	}
	response.OK(w, s)
}
