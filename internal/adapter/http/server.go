package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/soundscape-telemetry/internal/domain"
	"github.com/couchcryptid/soundscape-telemetry/internal/observability"
	"github.com/couchcryptid/soundscape-telemetry/internal/telemetry"
)

// SnapshotSource is the telemetry loop as seen by the HTTP layer.
type SnapshotSource interface {
	sharedobs.ReadinessChecker
	Current() (domain.Snapshot, bool)
	Err() error
	State() telemetry.State
	Refresh() (domain.Snapshot, error)
	OnUpdate(fn telemetry.Listener) (unsubscribe func())
}

// Deps are the collaborators behind the API routes. Geocoder may be nil.
type Deps struct {
	Source     SnapshotSource
	Reports    domain.ReportStore
	Geocoder   domain.Geocoder
	QuietZones []domain.QuietZone
	Metrics    *observability.Metrics
}

// Server exposes the telemetry API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
	closing    chan struct{} // closed on Shutdown to end open streams
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the /api routes.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:    deps,
		logger:  logger,
		closing: make(chan struct{}),
	}
	s.httpServer.RegisterOnShutdown(func() { close(s.closing) })

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Source))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/views", s.handleViewNames)
	mux.HandleFunc("GET /api/views/{category}", s.handleView)
	mux.HandleFunc("GET /api/stream", s.handleStream)
	mux.HandleFunc("GET /api/quiet-zones", s.handleQuietZones)
	mux.HandleFunc("GET /api/locate", s.handleLocate)
	mux.HandleFunc("POST /api/reports", s.handleCreateReport)
	mux.HandleFunc("GET /api/reports", s.handleListReports)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	sharedobs.WriteJSON(w, status, v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
