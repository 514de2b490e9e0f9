package server

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"demoforge/internal/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Allow connections without origin header (e.g., CLI tools)
		if origin == "" {
			return true
		}

		// The dashboard is local-only; accept localhost origins
		allowedOrigins := []string{
			"http://localhost",
			"https://localhost",
			"http://127.0.0.1",
			"https://127.0.0.1",
			"http://[::1]",
			"https://[::1]",
		}

		for _, allowed := range allowedOrigins {
			if strings.HasPrefix(origin, allowed) {
				return true
			}
		}

		logger.WithFields(logger.Fields{
			"origin": origin,
			"remote": r.RemoteAddr,
		}).Warn("WebSocket connection rejected - invalid origin")

		return false
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// EventType classifies progress events sent to dashboard clients
type EventType string

const (
	// EventStatus reports a project lifecycle status change
	EventStatus EventType = "status"
	// EventPhase reports a setup or deployment phase transition
	EventPhase EventType = "phase"
)

// ProgressEvent is a single event broadcast to all connected clients
type ProgressEvent struct {
	Type    EventType `json:"type"`
	Project string    `json:"project,omitempty"`
	Phase   string    `json:"phase,omitempty"`
	Detail  string    `json:"detail,omitempty"`
	Time    time.Time `json:"time"`
}

// Hub fans progress events out to connected websocket clients.
// Slow clients are dropped rather than allowed to block the broadcast.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan ProgressEvent
	events  chan ProgressEvent
}

// NewHub creates a progress hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]chan ProgressEvent),
		events:  make(chan ProgressEvent, 64),
	}
}

// Publish queues an event for broadcast. Never blocks; if the hub's
// buffer is full the event is dropped.
func (h *Hub) Publish(event ProgressEvent) {
	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	select {
	case h.events <- event:
	default:
		logger.WithField("type", string(event.Type)).Warn("Progress event dropped, hub buffer full")
	}
}

// Run dispatches published events to all registered clients until the
// context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case event := <-h.events:
			h.mu.Lock()
			for conn, ch := range h.clients {
				select {
				case ch <- event:
				default:
					// Client is not keeping up; disconnect it
					delete(h.clients, conn)
					close(ch)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(conn *websocket.Conn) chan ProgressEvent {
	ch := make(chan ProgressEvent, 16)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for conn, ch := range h.clients {
		delete(h.clients, conn)
		close(ch)
		conn.Close()
	}
	h.mu.Unlock()
}

// handleWebSocket godoc
// @Summary Progress event stream
// @Description Establish a WebSocket connection receiving lifecycle and setup progress events
// @Tags websocket
// @Success 101 {string} string "Switching Protocols"
// @Failure 400 {object} ErrorResponse
// @Router /ws [get]
func (s *Server) handleWebSocket(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return err
	}
	defer ws.Close()

	events := s.hub.register(ws)
	defer s.hub.unregister(ws)

	logger.WithField("remote", ws.RemoteAddr().String()).Debug("Dashboard client connected")

	// Drain client frames so pings and close frames are processed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(event); err != nil {
				return nil
			}
		}
	}
}
