package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/rabbikazmi/HackingDelhi/apperr"
	"github.com/rabbikazmi/HackingDelhi/auth"
	"github.com/rabbikazmi/HackingDelhi/config"
	"github.com/rabbikazmi/HackingDelhi/logger"
	"github.com/rabbikazmi/HackingDelhi/models"
	"github.com/rabbikazmi/HackingDelhi/response"
	"github.com/rabbikazmi/HackingDelhi/store"
)

const maxBodyBytes = 10 << 20 // surveys may carry a photo

type Options struct {
	RecordLimit         int
	AnalyticsFetchLimit int
	DevLoginEnabled     bool
	CookieSecure        bool
}

// Handler serves the portal API. Every dependency is injected; nothing is
// read from package state.
type Handler struct {
	store store.Store
	auth  *auth.Service
	cache *config.Cache
	log   *logger.Logger
	opts  Options
	now   func() time.Time
}

func New(s store.Store, a *auth.Service, c *config.Cache, log *logger.Logger, opts Options) *Handler {
	if c == nil {
		c = config.NewCache(0)
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.RecordLimit <= 0 {
		opts.RecordLimit = 100
	}
	if opts.AnalyticsFetchLimit <= 0 {
		opts.AnalyticsFetchLimit = 100000
	}
	return &Handler{
		store: s,
		auth:  a,
		cache: c,
		log:   log,
		opts:  opts,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// fail writes err as an error envelope. Internal and upstream failures are
// logged with their cause, since the client only sees a generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if e := apperr.From(err); e.Code == apperr.CodeInternal || e.Code == apperr.CodeUpstream {
		h.log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", e.Code,
			"error", err,
		)
	}
	response.Error(w, err)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}

// decodeOptionalJSON accepts an empty body.
func decodeOptionalJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}

func currentUser(r *http.Request) (models.User, error) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		return models.User{}, apperr.Unauthenticated("Not authenticated")
	}
	return u, nil
}

func queryInt(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Validation("%s must be an integer", name)
	}
	return &v, nil
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// storeErr maps repository sentinels onto API errors.
func storeErr(err error, what string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound("%s not found", what)
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Conflict("%s already exists", what)
	}
	return err
}
