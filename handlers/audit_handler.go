package handlers

import (
	"net/http"

	"github.com/rabbikazmi/HackingDelhi/analytics"
	"github.com/rabbikazmi/HackingDelhi/response"
)

const auditLogLimit = 100

// AuditLogs returns the newest review actions. An empty log is answered with
// illustrative entries so the audit screen always renders.
func (h *Handler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListAudit(r.Context(), auditLogLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(entries) == 0 {
		response.OK(w, analytics.FallbackAuditLog(h.now()))
		return
	}
	response.OK(w, entries)
}
