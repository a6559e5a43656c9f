// Package api exposes a running simulation session over HTTP and websocket.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	cache "github.com/patrickmn/go-cache"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fightsim/internal/health"
	"github.com/yourusername/fightsim/internal/metrics"
	"github.com/yourusername/fightsim/internal/session"
	"github.com/yourusername/fightsim/internal/stream"
)

const snapshotCacheKey = "snapshot"

// Config holds the API server settings.
type Config struct {
	ServiceName      string
	Version          string
	Port             int
	MetricsPath      string
	SnapshotCacheTTL time.Duration
	StreamInterval   time.Duration
	AllowedOrigins   []string
}

// Server serves the session's snapshot, recent trials, model and exports.
type Server struct {
	cfg        Config
	session    *session.Session
	hub        *stream.Hub
	health     *health.Handler
	cache      *cache.Cache
	logger     *logrus.Entry
	upgrader   websocket.Upgrader
	handler    http.Handler
	httpServer *http.Server
	ctx        context.Context
}

// NewServer creates an API server for s.
func NewServer(cfg Config, s *session.Session, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "fightsim"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.StreamInterval <= 0 {
		cfg.StreamInterval = 500 * time.Millisecond
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	srv := &Server{
		cfg:     cfg,
		session: s,
		hub:     stream.NewHub(logger),
		health:  health.NewHandler(cfg.ServiceName, cfg.Version),
		cache:   cache.New(cfg.SnapshotCacheTTL, time.Minute),
		logger:  logger.WithField("component", "api"),
		ctx:     context.Background(),
	}
	srv.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     srv.checkOrigin,
	}
	srv.health.AddCheck("session", s)
	srv.handler = srv.routes()
	return srv
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.health.HandleHealth).Methods(http.MethodGet)
	router.HandleFunc("/live", s.health.HandleLive).Methods(http.MethodGet)
	router.HandleFunc("/ready", s.health.HandleReady).Methods(http.MethodGet)
	router.Handle(s.cfg.MetricsPath, metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.handleWebSocket)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/trials/recent", s.handleRecentTrials).Methods(http.MethodGet)
	api.HandleFunc("/model", s.handleGetModel).Methods(http.MethodGet)
	api.HandleFunc("/model", s.handleUpdateModel).Methods(http.MethodPut)
	api.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/reseed", s.handleReseed).Methods(http.MethodPost)
	api.HandleFunc("/export/trials.csv", s.handleExportTrials).Methods(http.MethodGet)
	api.HandleFunc("/export/summary.csv", s.handleExportSummary).Methods(http.MethodGet)
	api.HandleFunc("/stream/stats", s.handleStreamStats).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(router)
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Hub returns the websocket hub.
func (s *Server) Hub() *stream.Hub {
	return s.hub
}

// SetReady marks the server ready for traffic.
func (s *Server) SetReady(ready bool) {
	s.health.SetReady(ready)
}

// Start runs the hub, the snapshot publisher and the HTTP listener in the
// background until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.Port <= 0 {
		return fmt.Errorf("invalid port %d", s.cfg.Port)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.ctx = ctx
	go s.hub.Run(ctx)
	go s.publish(ctx)

	go func() {
		s.logger.WithField("port", s.cfg.Port).Info("API server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	s.SetReady(true)
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown() error {
	if s.httpServer == nil {
		return nil
	}
	s.SetReady(false)
	s.logger.Info("API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// publish pushes a fresh snapshot to websocket clients whenever the session
// has moved on since the last push.
func (s *Server) publish(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.StreamInterval)
	defer ticker.Stop()

	lastTrials := int64(-1)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lastTrials = s.publishOnce(lastTrials)
		}
	}
}

func (s *Server) publishOnce(lastTrials int64) int64 {
	if s.hub.ClientCount() == 0 {
		return lastTrials
	}
	stats := s.session.Snapshot()
	if stats.TotalTrials == lastTrials {
		return lastTrials
	}
	s.hub.Broadcast(stream.MessageTypeSnapshot, stats)
	return stats.TotalTrials
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	c := stream.NewClient(uuid.New().String(), conn, s.hub, s.logger)
	s.hub.Register(c)

	// the first frame is the current state so clients need not wait a tick
	c.TrySend(stream.ServerMessage{
		Type:      stream.MessageTypeSnapshot,
		Payload:   s.session.Snapshot(),
		Timestamp: time.Now(),
	})

	// pumps follow the server's lifetime, not the upgrade request's
	go c.WritePump(s.ctx)
	go c.ReadPump(s.ctx)
}
