package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rabbikazmi/HackingDelhi/models"
)

const CookieName = "session_token"

type ctxKey struct{}

func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(models.User)
	return u, ok
}

// TokenFromRequest reads the session token from the cookie, falling back to a
// bearer Authorization header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
