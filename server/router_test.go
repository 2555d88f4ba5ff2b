package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbikazmi/HackingDelhi/auth"
	"github.com/rabbikazmi/HackingDelhi/config"
	"github.com/rabbikazmi/HackingDelhi/handlers"
	"github.com/rabbikazmi/HackingDelhi/logger"
	"github.com/rabbikazmi/HackingDelhi/models"
	"github.com/rabbikazmi/HackingDelhi/store"
)

const testOrigin = "http://localhost:3000"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	st := store.NewMemory(store.GenerateDemo(20, 1))
	svc := auth.NewService(st, store.NewMemorySessions(), auth.NewHTTPProvider("", time.Second), 0, nil)
	h := handlers.New(st, svc, config.NewCache(time.Minute), nil, handlers.Options{DevLoginEnabled: true})
	return NewRouter(h, svc, logger.Nop(), []string{testOrigin})
}

func request(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler, role string) string {
	t.Helper()
	rec := request(t, router, http.MethodPost, "/api/auth/dev-login", "", auth.DevLoginRequest{
		Email: role + "@example.gov",
		Name:  role,
		Role:  role,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionToken)
	assert.Equal(t, role, resp.User.Role)
	return resp.SessionToken
}

func TestPublicRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := request(t, router, http.MethodGet, "/api/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Governance Portal API")

	rec = request(t, router, http.MethodGet, "/api/health/detailed", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = request(t, router, http.MethodGet, "/api/surveys", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticatedRoutesRequireSession(t *testing.T) {
	router := newTestRouter(t)
	for _, path := range []string{
		"/api/auth/me",
		"/api/census/records",
		"/api/census/household/HH000001",
		"/api/analytics/summary",
		"/api/audit/logs",
		"/api/integrity/status/HH000001-M1",
		"/api/ml/audit-signals/HH000001-M1",
	} {
		rec := request(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := request(t, router, http.MethodGet, "/api/census/records", "session_bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleTable(t *testing.T) {
	router := newTestRouter(t)
	tokens := map[string]string{}
	for _, role := range models.Roles {
		tokens[role] = login(t, router, role)
	}

	tests := []struct {
		method  string
		path    string
		body    any
		allowed []string
	}{
		{http.MethodGet, "/api/census/records", nil, models.Roles},
		{http.MethodGet, "/api/census/records/HH000001-M1", nil, models.Roles},
		{http.MethodGet, "/api/census/household/HH000001", nil, models.Roles},
		{http.MethodGet, "/api/integrity/status/HH000001-M1", nil, models.Roles},
		{http.MethodGet, "/api/ml/audit-signals/HH000001-M1", nil, models.Roles},
		{http.MethodPut, "/api/census/records/HH000001-M1/review", models.ReviewRequest{Action: models.ReviewApprove}, auth.ReviewRoles},
		{http.MethodGet, "/api/analytics/summary", nil, auth.AnalyticsRoles},
		{http.MethodGet, "/api/analytics/states", nil, auth.AnalyticsRoles},
		{http.MethodGet, "/api/analytics/pincode-points", nil, auth.AnalyticsRoles},
		{http.MethodPost, "/api/policy/simulate", map[string]int{"income_threshold": 100000}, auth.SimulationRoles},
		{http.MethodGet, "/api/audit/logs", nil, auth.AuditRoles},
	}
	for _, tt := range tests {
		allowed := map[string]bool{}
		for _, r := range tt.allowed {
			allowed[r] = true
		}
		for _, role := range models.Roles {
			rec := request(t, router, tt.method, tt.path, tokens[role], tt.body)
			if allowed[role] {
				assert.Equal(t, http.StatusOK, rec.Code, "%s %s as %s: %s", tt.method, tt.path, role, rec.Body.String())
			} else {
				assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s as %s", tt.method, tt.path, role)
			}
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, models.RoleSupervisor)

	rec := request(t, router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(t, router, http.MethodPut, "/api/auth/role", token, map[string]string{"role": models.RolePolicyMaker})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = request(t, router, http.MethodPost, "/api/policy/simulate", token, map[string]int{"income_threshold": 50000})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = request(t, router, http.MethodPut, "/api/auth/role", token, map[string]string{"role": "emperor"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(t, router, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = request(t, router, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = request(t, router, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCookieSession(t *testing.T) {
	router := newTestRouter(t)
	rec := request(t, router, http.MethodPost, "/api/auth/dev-login", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookie)
	me := httptest.NewRecorder()
	router.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), auth.DevEmail)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/census/records", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := New(ln.Addr().String(), newTestRouter(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, ln, logger.Nop()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
