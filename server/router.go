package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rabbikazmi/HackingDelhi/auth"
	"github.com/rabbikazmi/HackingDelhi/handlers"
	"github.com/rabbikazmi/HackingDelhi/logger"
	"github.com/rabbikazmi/HackingDelhi/middleware"
)

// NewRouter mounts the portal API under /api. The middleware chain wraps the
// router itself so CORS preflights are answered before route matching.
func NewRouter(h *handlers.Handler, svc *auth.Service, log *logger.Logger, origins []string) http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	registerRoutes(api, h, svc)

	var handler http.Handler = r
	handler = middleware.CORSMiddleware(origins)(handler)
	handler = middleware.LoggingMiddleware(log)(handler)
	handler = middleware.RecoveryMiddleware(log)(handler)
	return handler
}

func registerRoutes(api *mux.Router, h *handlers.Handler, svc *auth.Service) {
	authed := middleware.RequireAuth(svc)
	gate := func(fn http.HandlerFunc, roles ...string) http.Handler {
		var next http.Handler = fn
		if len(roles) > 0 {
			next = middleware.RequireRole(roles...)(next)
		}
		return authed(next)
	}

	// Health
	api.HandleFunc("/", h.Root).Methods("GET")
	api.HandleFunc("/health/detailed", h.HealthDetailed).Methods("GET")

	// Auth
	api.HandleFunc("/auth/session", h.CreateSession).Methods("POST")
	api.HandleFunc("/auth/dev-login", h.DevLogin).Methods("POST")
	api.HandleFunc("/auth/logout", h.Logout).Methods("POST")
	api.Handle("/auth/me", gate(h.Me)).Methods("GET")
	api.Handle("/auth/role", gate(h.UpdateRole)).Methods("PUT")

	// Census
	api.Handle("/census/records", gate(h.ListRecords)).Methods("GET")
	api.Handle("/census/records/{record_id}", gate(h.GetRecord)).Methods("GET")
	api.Handle("/census/records/{record_id}/review", gate(h.ReviewRecord, auth.ReviewRoles...)).Methods("PUT")
	api.Handle("/census/household/{household_id}", gate(h.GetHousehold)).Methods("GET")

	// Analytics
	api.Handle("/analytics/summary", gate(h.Summary, auth.AnalyticsRoles...)).Methods("GET")
	api.Handle("/analytics/states", gate(h.States, auth.AnalyticsRoles...)).Methods("GET")
	api.Handle("/analytics/pincode-points", gate(h.PincodePoints, auth.AnalyticsRoles...)).Methods("GET")

	api.Handle("/policy/simulate", gate(h.Simulate, auth.SimulationRoles...)).Methods("POST")
	api.Handle("/audit/logs", gate(h.AuditLogs, auth.AuditRoles...)).Methods("GET")

	api.Handle("/integrity/status/{record_id}", gate(h.IntegrityStatus)).Methods("GET")
	api.Handle("/ml/audit-signals/{record_id}", gate(h.AuditSignals)).Methods("GET")

	// Mobile survey intake
	api.HandleFunc("/surveys", h.CreateSurvey).Methods("POST")
	api.HandleFunc("/surveys/bulk", h.BulkSurveys).Methods("POST")
	api.HandleFunc("/surveys", h.ListSurveys).Methods("GET")
	api.HandleFunc("/surveys/{survey_id}", h.GetSurvey).Methods("GET")
}
