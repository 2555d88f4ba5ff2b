package handlers

import (
	"net/http"
	"time"

	"github.com/rabbikazmi/HackingDelhi/apperr"
	"github.com/rabbikazmi/HackingDelhi/auth"
	"github.com/rabbikazmi/HackingDelhi/models"
	"github.com/rabbikazmi/HackingDelhi/response"
)

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type roleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, sess models.Session) {
	sameSite := http.SameSiteLaxMode
	if h.opts.CookieSecure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(sess.ExpiresAt.Sub(sess.CreatedAt) / time.Second),
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: sameSite,
	})
}

// CreateSession exchanges an upstream OAuth session id for a portal session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	u, sess, err := h.auth.Login(r.Context(), req.SessionID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.setSessionCookie(w, sess)
	response.OK(w, models.SessionResponse{User: u, SessionToken: sess.Token})
}

func (h *Handler) DevLogin(w http.ResponseWriter, r *http.Request) {
	if !h.opts.DevLoginEnabled {
		h.fail(w, r, apperr.NotFound("Not found"))
		return
	}
	var req auth.DevLoginRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	u, sess, err := h.auth.DevLogin(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.setSessionCookie(w, sess)
	response.OK(w, models.SessionResponse{User: u, SessionToken: sess.Token})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, u)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), auth.TokenFromRequest(r)); err != nil {
		h.log.Warn("logout failed", "error", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
	})
	response.OK(w, map[string]string{"message": "Logged out successfully"})
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := h.auth.SetRole(r.Context(), u.UserID, req.Role)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, updated)
}
