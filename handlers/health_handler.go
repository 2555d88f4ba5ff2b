package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rabbikazmi/HackingDelhi/response"
)

type HealthResponse struct {
	Status      string `json:"status"`
	Backend     string `json:"backend"`
	StoreStatus string `json:"store_status"`
	Error       string `json:"error,omitempty"`
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"message": "Governance Portal API", "status": "operational"})
}

func (h *Handler) HealthDetailed(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Backend: h.store.Backend(), StoreStatus: "connected"}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "error"
		resp.StoreStatus = "connection_error"
		resp.Error = err.Error()
	}
	response.OK(w, resp)
}
