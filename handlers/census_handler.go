package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rabbikazmi/HackingDelhi/analytics"
	"github.com/rabbikazmi/HackingDelhi/apperr"
	"github.com/rabbikazmi/HackingDelhi/models"
	"github.com/rabbikazmi/HackingDelhi/response"
	"github.com/rabbikazmi/HackingDelhi/store"
)

// ListRecords returns up to RecordLimit records, optionally narrowed to one
// flag status.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	opts := store.ListOptions{
		FlagStatus: strings.TrimSpace(r.URL.Query().Get("flag_status")),
		Limit:      h.opts.RecordLimit,
	}
	records, err := h.store.List(r.Context(), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, records)
}

func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.Get(r.Context(), pathVar(r, "record_id"))
	if err != nil {
		h.fail(w, r, storeErr(err, "Record"))
		return
	}
	response.OK(w, rec)
}

// ReviewRecord applies a reviewer's decision and appends the audit entry.
// The two writes are independent; a failed audit append is logged and the
// review still stands.
func (h *Handler) ReviewRecord(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req models.ReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if !models.ValidReviewAction(req.Action) {
		h.fail(w, r, apperr.Validation("action must be %q or %q", models.ReviewApprove, models.ReviewRequestVerification))
		return
	}

	recordID := pathVar(r, "record_id")
	now := h.now()
	rec, err := h.store.MarkReviewed(r.Context(), recordID, store.Review{
		ReviewerID: u.UserID,
		Action:     req.Action,
		At:         now,
	})
	if err != nil {
		h.fail(w, r, storeErr(err, "Record"))
		return
	}

	entry := models.AuditLogEntry{
		AuditID:   "audit_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		UserID:    u.UserID,
		UserName:  u.Name,
		Action:    fmt.Sprintf("Reviewed record %s", recordID),
		Details:   models.AuditDetails{RecordID: recordID, Action: req.Action},
		Timestamp: now,
	}
	if err := h.store.AppendAudit(r.Context(), entry); err != nil {
		h.log.Error("audit append failed after review", "record_id", recordID, "user_id", u.UserID, "error", err)
	}
	h.cache.Flush()

	h.log.Info("record reviewed", "record_id", recordID, "action", req.Action, "user_id", u.UserID)
	response.OK(w, rec)
}

func (h *Handler) GetHousehold(w http.ResponseWriter, r *http.Request) {
	householdID := pathVar(r, "household_id")
	members, err := h.store.ByHousehold(r.Context(), householdID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, analytics.BuildHousehold(householdID, members))
}
