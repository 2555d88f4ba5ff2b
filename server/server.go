package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rabbikazmi/HackingDelhi/auth"
	"github.com/rabbikazmi/HackingDelhi/config"
	"github.com/rabbikazmi/HackingDelhi/handlers"
	"github.com/rabbikazmi/HackingDelhi/logger"
)

const (
	shutdownTimeout = 30 * time.Second
	authTimeout     = 10 * time.Second
)

// New builds the HTTP server with the portal router and standard timeouts.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		Addr:              addr,
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// Serve runs srv until ctx is cancelled, then drains in-flight requests.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, log *logger.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info("server shutdown completed")
		return nil
	})

	return g.Wait()
}

// Run wires the store, sessions and auth from cfg and serves until ctx ends.
func Run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	started := time.Now()

	st, err := config.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Warn("store close failed", "error", err)
		}
	}()

	sessions, closeSessions, err := config.OpenSessions(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSessions(); err != nil {
			log.Warn("session store close failed", "error", err)
		}
	}()

	svc := auth.NewService(st, sessions, auth.NewHTTPProvider(cfg.AuthURL, authTimeout), cfg.SessionTTL, log)
	h := handlers.New(st, svc, config.NewCache(cfg.CacheTTL), log, handlers.Options{
		RecordLimit:         cfg.RecordLimit,
		AnalyticsFetchLimit: cfg.AnalyticsFetchLimit,
		DevLoginEnabled:     cfg.DevLoginEnabled,
		CookieSecure:        cfg.CookieSecure,
	})

	addr := ":" + strconv.Itoa(cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := New(addr, NewRouter(h, svc, log, cfg.CORSOrigins))

	log.Info("server initialized",
		"backend", st.Backend(),
		"sessions", cfg.SessionBackend,
		"dev_login", cfg.DevLoginEnabled,
		"startup_ms", time.Since(started).Milliseconds(),
	)
	return Serve(ctx, srv, ln, log)
}
