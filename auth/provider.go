// Package auth resolves portal sessions to users. Identities come from an
// upstream OAuth session service; sessions themselves are opaque tokens kept
// in a session store.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rabbikazmi/HackingDelhi/apperr"
)

// Identity is what the upstream session service knows about a signed-in person.
type Identity struct {
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
}

type Provider interface {
	SessionData(ctx context.Context, sessionID string) (Identity, error)
}

// HTTPProvider exchanges a one-time session id for an identity by calling the
// upstream session-data URL with the X-Session-ID header.
type HTTPProvider struct {
	url    string
	client *http.Client
}

func NewHTTPProvider(url string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{url: url, client: &http.Client{Timeout: timeout}}
}

func (p *HTTPProvider) SessionData(ctx context.Context, sessionID string) (Identity, error) {
	if p.url == "" {
		return Identity{}, apperr.Upstream(errors.New("auth provider URL is not configured"))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("build session request: %w", err)
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := p.client.Do(req)
	if err != nil {
		return Identity{}, apperr.Upstream(fmt.Errorf("auth provider: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Identity{}, apperr.Unauthenticated("Invalid session_id")
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return Identity{}, apperr.Upstream(fmt.Errorf("decode session data: %w", err))
	}
	if id.Email == "" {
		return Identity{}, apperr.Upstream(errors.New("session data has no email"))
	}
	return id, nil
}
