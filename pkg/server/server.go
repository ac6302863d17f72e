// Package server exposes validation, layout and playback sessions over HTTP.
//
// # Routes
//
//	GET    /healthz
//	GET    /metrics
//	GET    /api/v1/algorithms
//	POST   /api/v1/validate
//	POST   /api/v1/layout?format=json|dot|svg
//	POST   /api/v1/sessions
//	GET    /api/v1/sessions/{id}
//	POST   /api/v1/sessions/{id}/play
//	POST   /api/v1/sessions/{id}/pause
//	POST   /api/v1/sessions/{id}/replay
//	DELETE /api/v1/sessions/{id}
//	GET    /api/v1/sessions/{id}/stream
//
// Request bodies for validate, layout and sessions are [pipeline.Options]
// documents: {"algorithm": "bfs", "input": {"graph": "A: B", "root": "A"}}.
//
// The stream endpoint upgrades to a websocket. It first sends a
// "snapshot" message with the current state, then one "update" message per
// published controller update. Clients may send {"action": "play"},
// {"action": "pause"} or {"action": "replay"} on the same connection.
//
// Errors are returned as {"error": message, "code": CODE}.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/algotrace/pkg/pipeline"
	"github.com/matzehuels/algotrace/pkg/session"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// ShutdownTimeout bounds graceful shutdown in [Server.ListenAndServe].
const ShutdownTimeout = 10 * time.Second

// Options configures a [Server].
type Options struct {
	Runner *pipeline.Runner
	Store  session.Store
	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	Logger   *log.Logger
	// CheckOrigin filters websocket upgrades. Defaults to allowing all origins.
	CheckOrigin func(r *http.Request) bool
}

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    session.Store
	gatherer prometheus.Gatherer
	logger   *log.Logger
	upgrader websocket.Upgrader
	router   chi.Router
}

// New creates a server. A nil Store selects an in-memory store with the
// default TTL.
func New(opts Options) *Server {
	s := &Server{
		runner:   opts.Runner,
		store:    opts.Store,
		gatherer: opts.Gatherer,
		logger:   opts.Logger,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.store == nil {
		s.store = session.NewMemoryStore(session.DefaultTTL)
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     checkOrigin,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/algorithms", s.handleAlgorithms)
		r.Post("/validate", s.handleValidate)
		r.Post("/layout", s.handleLayout)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/play", s.handlePlay)
				r.Post("/pause", s.handlePause)
				r.Post("/replay", s.handleReplay)
				r.Get("/stream", s.handleStream)
			})
		})
	})
	return r
}

// requestLogger logs one debug line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
