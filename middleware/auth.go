package middleware

import (
	"net/http"

	"github.com/rabbikazmi/HackingDelhi/apperr"
	"github.com/rabbikazmi/HackingDelhi/auth"
	"github.com/rabbikazmi/HackingDelhi/response"
)

// RequireAuth resolves the session token and puts the user in the request
// context.
func RequireAuth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := svc.Resolve(r.Context(), auth.TokenFromRequest(r))
			if err != nil {
				response.Error(w, err)
				return
			}
			tagUser(w, u.UserID)
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
		})
	}
}

// RequireRole rejects users whose role is not listed. It must run after
// RequireAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.UserFrom(r.Context())
			if !ok {
				response.Error(w, apperr.Unauthenticated("Not authenticated"))
				return
			}
			if !auth.HasRole(u, roles...) {
				response.Error(w, apperr.Forbidden("Insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
