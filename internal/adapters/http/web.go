package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ergosanitas/internal/adapters/http/middleware"
	"ergosanitas/internal/adapters/http/perf"
	"ergosanitas/internal/adapters/notify"
	"ergosanitas/internal/application/shared"
	"ergosanitas/internal/domain/user"
)

// DefaultRateLimitPerSecond is the per-IP request budget.
const DefaultRateLimitPerSecond = 20

// Options configures the panel API.
type Options struct {
	CSRFKey        []byte
	Secure         bool
	TrustedOrigins []string
	RateLimit      int
	SlowRequestMs  int
	Feed           *notify.Feed        // optional: /api/notifications is empty without it
	Collector      *perf.Collector     // optional: timing is still logged without it
	Gatherer       prometheus.Gatherer // optional: defaults to prometheus.DefaultGatherer
	Now            func() time.Time    // optional
}

// Server serves the coordination panels' JSON API over one Module.
type Server struct {
	mod      *shared.Module
	sessions *middleware.SessionStore
	feed     *notify.Feed
	perf     *perf.Collector
	gatherer prometheus.Gatherer
	secure   bool
	now      func() time.Time
}

// NewServer builds a Server. Sessions are kept in memory.
func NewServer(mod *shared.Module, opts Options) *Server {
	s := &Server{
		mod:      mod,
		sessions: middleware.NewSessionStore(),
		feed:     opts.Feed,
		perf:     opts.Collector,
		gatherer: opts.Gatherer,
		secure:   opts.Secure,
		now:      opts.Now,
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Sessions exposes the browser session store.
func (s *Server) Sessions() *middleware.SessionStore { return s.sessions }

// Handler wires routes and middleware. ctx bounds the rate limiter's sweeper.
func (s *Server) Handler(ctx context.Context, opts Options) http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	rate := opts.RateLimit
	if rate <= 0 {
		rate = DefaultRateLimitPerSecond
	}
	limiter := middleware.NewRateLimiter(ctx, rate, time.Second)

	// Timing -> Recover -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(opts.CSRFKey, opts.Secure, opts.TrustedOrigins),
		middleware.Auth(s.sessions),
		middleware.RateLimit(limiter),
		middleware.Recover,
		middleware.Timing(s.perf, opts.SlowRequestMs),
	)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/logout", s.handleLogout)
	mux.HandleFunc("/api/session", s.handleSession)

	mux.HandleFunc("/api/alert", s.handleAlert)
	mux.HandleFunc("/api/status", s.handleStatus)

	mux.HandleFunc("/api/incidents", s.handleIncidents)
	mux.HandleFunc("/api/statistics", s.handleStatistics)
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/clubs", s.handleClubs)
	mux.HandleFunc("/reports/incidents", s.handleIncidentReport)

	mux.HandleFunc("/api/users", s.handleUsers)
	mux.HandleFunc("/api/users/", s.handleUser)
	mux.HandleFunc("/api/system", s.handleSystem)
	mux.HandleFunc("/api/data", s.handleData)
	mux.HandleFunc("/api/admin/perf", s.handleAdminPerf)

	mux.Handle("/api/notifications", middleware.RequireAuth(http.HandlerFunc(s.handleNotifications)))
	mux.Handle("/api/events", middleware.RequirePanel(user.PanelDashboard)(http.HandlerFunc(s.handleEvents)))
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
}

// ParseCSRFKey decodes a hex-encoded 32-byte CSRF secret. An empty key is
// generated at random outside production.
// PRE: keyHex is "" or 64 hex characters
// POST: Returns a 32-byte key, or an error in production when keyHex is empty
func ParseCSRFKey(keyHex string, production bool) ([]byte, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, errors.New("ERGOSANITAS_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	if production {
		return nil, errors.New("ERGOSANITAS_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	slog.Warn("csrf_event", "event", "random_key", "hint", "set ERGOSANITAS_CSRF_KEY so sessions survive restarts")
	return key, nil
}
