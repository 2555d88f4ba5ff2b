package handlers

import (
	"net/http"
	"strings"

	"github.com/rabbikazmi/HackingDelhi/analytics"
	"github.com/rabbikazmi/HackingDelhi/response"
)

const (
	integrityAnchored = "anchored"
	integrityPending  = "pending"
)

type IntegrityStatus struct {
	RecordID        string `json:"record_id"`
	Status          string `json:"status"`
	LedgerAnchored  bool   `json:"ledger_anchored"`
	TransactionHash string `json:"transaction_hash,omitempty"`
	AnchoredAt      string `json:"anchored_at,omitempty"`
	Message         string `json:"message"`
}

type AuditSignals struct {
	RecordID        string             `json:"record_id"`
	FlagStatus      string             `json:"flag_status"`
	FlagSource      string             `json:"flag_source"`
	Signals         []analytics.Signal `json:"signals"`
	ModelConfidence *int               `json:"model_confidence"`
}

func (h *Handler) IntegrityStatus(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.Get(r.Context(), pathVar(r, "record_id"))
	if err != nil {
		h.fail(w, r, storeErr(err, "Record"))
		return
	}

	status := IntegrityStatus{
		RecordID: rec.RecordID,
		Status:   integrityPending,
		Message:  "No ledger receipt for this record",
	}
	if receipt := rec.BlockchainReceipt; receipt != nil {
		status.TransactionHash = receipt.TransactionHash
		if strings.EqualFold(receipt.Status, "Anchored") {
			status.Status = integrityAnchored
			status.LedgerAnchored = true
			status.AnchoredAt = receipt.Timestamp
			status.Message = "Record hash anchored on ledger"
		} else {
			status.Message = "Ledger anchoring pending"
		}
	}
	response.OK(w, status)
}

func (h *Handler) AuditSignals(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.Get(r.Context(), pathVar(r, "record_id"))
	if err != nil {
		h.fail(w, r, storeErr(err, "Record"))
		return
	}

	out := AuditSignals{
		RecordID:   rec.RecordID,
		FlagStatus: rec.FlagStatus,
		FlagSource: rec.FlagSource,
		Signals:    analytics.Signals(rec),
	}
	if rec.AIVerification != nil {
		confidence := rec.AIVerification.Confidence
		out.ModelConfidence = &confidence
	}
	response.OK(w, out)
}
