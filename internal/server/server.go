package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/drewdunne/cursorbridge/internal/bridge"
	"github.com/drewdunne/cursorbridge/internal/config"
	"github.com/drewdunne/cursorbridge/internal/handler"
	"github.com/drewdunne/cursorbridge/internal/logging"
	"github.com/drewdunne/cursorbridge/internal/metrics"
	"github.com/drewdunne/cursorbridge/internal/webhook"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// HealthResponse represents the health check response structure.
type HealthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]interface{} `json:"checks"`
}

// Server is the HTTP server for the bridge.
type Server struct {
	cfg          *config.Config
	mux          *chi.Mux
	httpServer   *httpServer
	httpServerMu sync.RWMutex  // protects httpServer pointer
	ready        chan struct{} // closed when server is ready to accept connections
	emitter      *bridge.Emitter
	journal      *logging.Journal
	logger       zerolog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithJournal records every handled message in journal.
func WithJournal(journal *logging.Journal) Option {
	return func(s *Server) {
		s.journal = journal
	}
}

// New creates a new Server that hands messages to emitter.
func New(cfg *config.Config, emitter *bridge.Emitter, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		mux:     chi.NewRouter(),
		ready:   make(chan struct{}),
		emitter: emitter,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Ready returns a channel that is closed when the server is ready to accept connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// dirAvailable reports whether instruction files can currently be written and
// logs the reason when they cannot.
func (s *Server) dirAvailable() bool {
	if err := s.emitter.CheckDir(); err != nil {
		s.logger.Warn().Err(err).Str("dir", s.emitter.Dir()).Msg("instructions directory unavailable")
		return false
	}
	return true
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// routes sets up the HTTP routes.
func (s *Server) routes() {
	s.mux.Use(middleware.RequestID)
	s.mux.Use(middleware.RealIP)
	s.mux.Use(middleware.Recoverer)

	s.mux.Get("/health", s.handleHealth)
	s.mux.Get("/metrics", s.handleMetrics)

	emit := handler.NewEmitHandler(s.emitter, s.journal, s.logger)
	s.mux.Method(http.MethodPost, "/v1/messages", webhook.NewHandler(
		s.cfg.Webhook.Secret,
		s.cfg.Webhook.Token,
		emit.Handle,
	))
}

// handleHealth responds with server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	settings := s.emitter.Settings()
	available := s.dirAvailable()
	checks := map[string]interface{}{
		"instructions_dir": available,
		"enabled":          settings.Enabled,
		"trigger_keyword":  settings.TriggerKeyword,
	}

	status := "ok"
	if !available {
		status = "degraded"
	}

	health := HealthResponse{
		Status: status,
		Checks: checks,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handleMetrics responds with current operational metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := metrics.Get()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m)
}
