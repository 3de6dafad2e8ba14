package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ripple-state/ripple/pkg/loop"
	"github.com/ripple-state/ripple/pkg/ripple"
)

// Server owns a ripple store, its event loop, and the HTTP surface.
type Server struct {
	config *Config
	logger *slog.Logger

	loop  *loop.Loop
	store *ripple.Store

	// metrics is nil when metrics are disabled.
	metrics *metrics

	upgrader websocket.Upgrader

	httpServer *http.Server
}

// New creates a server from config. Unset config fields take defaults.
// The server's loop is not running until Start or ListenAndServe.
func New(config *Config) *Server {
	config = config.withDefaults()

	l := loop.New(
		loop.WithQueueSize(config.LoopQueueSize),
		loop.WithLogger(config.Logger),
	)

	storeOpts := []ripple.Option{ripple.WithScheduler(l)}
	if config.MaxNotifyDepth > 0 {
		storeOpts = append(storeOpts, ripple.WithMaxNotifyDepth(config.MaxNotifyDepth))
	}

	var m *metrics
	if !config.MetricsDisabled {
		m = newMetrics(config.MetricsNamespace, config.Registry)
		storeOpts = append(storeOpts, ripple.WithHooks(m.hooks()))
	}

	s := &Server{
		config:  config,
		logger:  config.Logger,
		loop:    l,
		store:   ripple.New(storeOpts...),
		metrics: m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	return s
}

// Store returns the server's property store. Mutations from outside the
// loop should go through Loop().Dispatch to keep semantics single-threaded.
func (s *Server) Store() *ripple.Store {
	return s.store
}

// Loop returns the server's event loop.
func (s *Server) Loop() *loop.Loop {
	return s.loop
}

// Handler builds the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(traceRequests)

	r.Get("/healthz", s.handleHealthz)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metricsHandler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/keys", s.handleListKeys)
		r.Post("/keys", s.handleSetBag)
		r.Get("/keys/{key}", s.handleGetKey)
		r.Put("/keys/{key}", s.handleSetKey)
		r.Get("/watch", s.handleWatch)
	})

	return r
}

// metricsHandler serves the configured registry when it is also a Gatherer,
// otherwise the default one.
func (s *Server) metricsHandler() http.Handler {
	if g, ok := s.config.Registry.(prometheus.Gatherer); ok {
		return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

// Start starts the event loop without binding a listener. Use it when
// mounting Handler on an existing http.Server or in tests.
func (s *Server) Start() {
	s.loop.Start()
}

// ListenAndServe starts the loop and serves HTTP on the configured address,
// blocking until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.loop.Start()

	s.httpServer = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("rippled listening", "addr", s.config.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server, then the event loop. Watch
// connections are closed by the HTTP shutdown; queued loop turns that have
// not started are discarded.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.loop.Stop()
	return err
}
