package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zeusync/simplebt/internal/core/npc"
	"github.com/zeusync/simplebt/internal/core/observability/log"
)

// Arena is the read side of a running simulation.
type Arena interface {
	Tick() uint64
	Finished() bool
	Snapshot() []npc.AgentSnapshot
}

// Server exposes arena status, tree snapshots and metrics over HTTP, and
// streams snapshots to websocket viewers.
type Server struct {
	arena   Arena
	metrics http.Handler
	hub     *streamHub

	http     *http.Server
	listener net.Listener
	running  atomic.Bool
	done     chan struct{}
	mu       sync.Mutex

	config Config
	logger log.Log
}

// Config holds server configuration
type Config struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() Config {
	return Config{
		ListenAddr:      "127.0.0.1:9090",
		ReadTimeout:     5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// NewServer creates a server. metrics may be nil, in which case /metrics is
// not mounted.
func NewServer(config Config, arena Arena, metrics http.Handler, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Server{
		arena:   arena,
		metrics: metrics,
		hub:     newStreamHub(),
		config:  config,
		logger:  logger.Named("server"),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/agents", s.handleAgents)
	r.Get("/agents/stream", s.handleStream)
	r.Get("/agents/{name}", s.handleAgent)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.config.ListenAddr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running.Load() {
		return ErrServerAlreadyRunning
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}
	s.listener = ln
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadTimeout,
	}
	s.done = make(chan struct{})
	s.running.Store(true)

	go func() {
		defer close(s.done)
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", log.Error(err))
		}
	}()

	s.logger.Info("http server started", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address while running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting up to ShutdownTimeout for requests.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.CompareAndSwap(true, false) {
		return ErrServerNotRunning
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultServerConfig().ShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.hub.closeAll()
	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Warn("graceful shutdown did not complete", log.Error(err))
		err = errors.Join(err, s.http.Close())
	}
	<-s.done
	s.listener = nil
	s.logger.Info("http server stopped")
	return err
}

type health struct {
	Status   string `json:"status"`
	Tick     uint64 `json:"tick"`
	Finished bool   `json:"finished"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, health{Status: "ok", Tick: s.arena.Tick(), Finished: s.arena.Finished()})
}

func (s *Server) handleAgents(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.arena.Snapshot())
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	for _, snap := range s.arena.Snapshot() {
		if snap.Name == name {
			s.writeJSON(w, http.StatusOK, snap)
			return
		}
	}
	http.Error(w, fmt.Sprintf("agent %q not found", name), http.StatusNotFound)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", log.Error(err))
	}
}
