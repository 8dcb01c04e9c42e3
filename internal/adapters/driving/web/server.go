// Package web is the HTTP driving adapter. It serves the consent flow and
// the manual sync endpoint used by the frontend, plus health and metrics
// endpoints for operators.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driving"
	"github.com/custodia-labs/contest-reminder/internal/logger"
	"github.com/custodia-labs/contest-reminder/internal/metrics"
)

const shutdownTimeout = 15 * time.Second

// Options configures the HTTP surface.
type Options struct {
	// FrontendURL is the origin allowed by CORS and the post-login redirect.
	FrontendURL string

	// SessionSecret signs the session cookie.
	SessionSecret string

	// SecureCookies marks the session cookie Secure. Enable behind HTTPS.
	SecureCookies bool

	// MetricsEnabled exposes /metrics.
	MetricsEnabled bool
}

// Dependencies are the core services the handlers call.
type Dependencies struct {
	Syncer  driving.UserSyncer
	Users   driving.UserDirectory
	Consent driven.ConsentProvider

	// Ready reports whether backing storage is reachable. Optional.
	Ready func(ctx context.Context) error
}

// Server serves the HTTP surface.
type Server struct {
	opts     Options
	deps     Dependencies
	sessions *sessionManager
	newState func() string
}

// NewServer creates a server.
func NewServer(opts Options, deps Dependencies) (*Server, error) {
	if deps.Syncer == nil || deps.Users == nil || deps.Consent == nil {
		return nil, errors.New("web: syncer, user directory and consent provider are required")
	}
	if opts.SessionSecret == "" {
		return nil, errors.New("web: session secret is required")
	}
	return &Server{
		opts:     opts,
		deps:     deps,
		sessions: newSessionManager(opts.SessionSecret, opts.SecureCookies),
		newState: newState,
	}, nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Consent endpoints: 5 requests per second, burst of 10
	authLimiter := newIPRateLimiter(rate.Limit(5), 10, 5*time.Minute)
	// Manual sync touches third-party APIs: 1 request per 10 seconds, burst of 3
	syncLimiter := newIPRateLimiter(rate.Every(10*time.Second), 3, 5*time.Minute)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.opts.FrontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", s.handleReady)

	if s.opts.MetricsEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware())
		r.Get("/login", s.handleLogin)
		r.Get("/auth/google/callback", s.handleCallback)
		r.Get("/check-auth", s.handleCheckAuth)
		r.Post("/logout", s.handleLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(syncLimiter.Middleware())
		r.Post("/", s.handleSync)
		r.Post("/sync", s.handleSync)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	logger.Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.deps.Ready(ctx); err != nil {
			logger.Warn("Readiness check failed: %v", err)
			http.Error(w, "unready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// requestLogger writes one debug line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s %d %s [%s]", r.Method, r.URL.Path, ww.Status(),
			time.Since(start).Round(time.Millisecond), middleware.GetReqID(r.Context()))
	})
}
