package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rabbikazmi/HackingDelhi/apperr"
	"github.com/rabbikazmi/HackingDelhi/logger"
	"github.com/rabbikazmi/HackingDelhi/response"
)

func RecoveryMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic recovered",
						"panic", err,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					response.JSON(w, http.StatusInternalServerError, response.ErrorEnvelope{
						Error: response.APIError{Message: "Internal server error", Code: apperr.CodeInternal},
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
