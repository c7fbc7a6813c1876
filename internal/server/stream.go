package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/simplebt/internal/core/events/bus"
	"github.com/zeusync/simplebt/internal/core/npc"
	"github.com/zeusync/simplebt/internal/core/observability/log"
)

const writeWait = 5 * time.Second

// The stream is read-only, so any origin may watch it.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Frame is one message on /agents/stream.
type Frame struct {
	Tick     uint64              `json:"tick"`
	Finished bool                `json:"finished"`
	Agents   []npc.AgentSnapshot `json:"agents"`
}

type streamClient struct {
	conn *websocket.Conn
	wake chan struct{}
}

// streamHub tracks connected viewers. Each viewer has a one slot wake
// channel, so a slow viewer skips ticks instead of stalling the arena.
type streamHub struct {
	mu      sync.RWMutex
	clients map[*streamClient]struct{}
}

func newStreamHub() *streamHub {
	return &streamHub{clients: make(map[*streamClient]struct{})}
}

func (h *streamHub) add(c *streamClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *streamHub) remove(c *streamClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *streamHub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *streamHub) notify() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.wake <- struct{}{}:
		default:
		}
	}
}

// closeAll drops every viewer. Hijacked connections are not closed by
// http.Server.Shutdown.
func (h *streamHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.conn.Close()
	}
}

// Watch pushes a fresh frame to every viewer after each arena step published
// on b. The handler never blocks, so it is safe to run inside Step.
func (s *Server) Watch(b bus.Bus) (*bus.Subscription, error) {
	return b.Subscribe(npc.EventStepCompleted, func(bus.Event) error {
		s.hub.notify()
		return nil
	})
}

// Viewers returns the number of connected stream clients.
func (s *Server) Viewers() int {
	return s.hub.count()
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}
	c := &streamClient{conn: conn, wake: make(chan struct{}, 1)}
	s.hub.add(c)
	defer func() {
		s.hub.remove(c)
		_ = conn.Close()
	}()
	s.logger.Debug("stream viewer connected", log.String("remote", conn.RemoteAddr().String()))

	// Viewers never send anything meaningful; reading detects the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		frame := Frame{Tick: s.arena.Tick(), Finished: s.arena.Finished(), Agents: s.arena.Snapshot()}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(frame); err != nil {
			s.logger.Debug("stream write failed", log.Error(err))
			return
		}
		select {
		case <-c.wake:
		case <-gone:
			return
		}
	}
}
