// Package websocket pushes dataset reload notifications to open dashboard pages.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"bikeshare/internal/infrastructure"
	"bikeshare/pkg/contracts/events"
)

// ErrHubStopped is returned when registering with a hub that is not running
var ErrHubStopped = errors.New("websocket hub is not running")

type outbound struct {
	msgType events.MessageType
	data    []byte
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client

	quit chan struct{}
	done chan struct{}

	mu      sync.RWMutex
	running bool
	stopped bool

	count   atomic.Int64
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan outbound, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		metrics:    metrics,
		logger:     logger.With(slog.String("component", "websocket.hub")),
	}
}

// Start launches the hub loop. Calling it twice, or after Stop, does nothing.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running || h.stopped {
		return
	}
	h.running = true
	go h.run()
	h.logger.Info("websocket hub started")
}

// Stop disconnects every client and waits for the hub loop to exit
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	wasRunning := h.running
	h.running = false
	h.stopped = true
	close(h.quit)
	h.mu.Unlock()

	if wasRunning {
		<-h.done
	}
	h.logger.Info("websocket hub stopped")
}

// Running reports whether the hub loop is active
func (h *Hub) Running() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) error {
	if !h.Running() {
		return ErrHubStopped
	}
	select {
	case h.register <- c:
		return nil
	case <-h.quit:
		return ErrHubStopped
	}
}

// Unregister removes a client. It never blocks once the hub is stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// Publish marshals msg and queues it for every connected client.
// Messages published while the hub is not running are dropped.
func (h *Hub) Publish(msg events.WebSocketMessage) {
	if !h.Running() {
		h.logger.Debug("dropping message, hub not running", slog.String("type", string(msg.Type)))
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal websocket message",
			slog.String("type", string(msg.Type)),
			slog.String("error", err.Error()))
		return
	}
	select {
	case h.broadcast <- outbound{msgType: msg.Type, data: data}:
	case <-h.quit:
	}
}

func (h *Hub) run() {
	defer close(h.done)
	ctx := context.Background()

	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int64(len(h.clients)))
			infrastructure.RecordWebSocketClient(ctx, h.metrics, 1)
			h.greet(c)
			h.logger.Info("client registered",
				slog.String("client_id", c.id),
				slog.String("remote_addr", c.remoteAddr),
				slog.Int("clients", len(h.clients)))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(ctx, c)
				h.logger.Info("client unregistered",
					slog.String("client_id", c.id),
					slog.Int("clients", len(h.clients)))
			}

		case m := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- m.data:
				default:
					h.logger.Warn("client send buffer full, disconnecting", slog.String("client_id", c.id))
					h.drop(ctx, c)
				}
			}
			infrastructure.RecordWebSocketBroadcast(ctx, h.metrics, string(m.msgType))
			h.logger.Debug("message broadcast",
				slog.String("type", string(m.msgType)),
				slog.Int("clients", len(h.clients)))

		case <-h.quit:
			for c := range h.clients {
				h.drop(ctx, c)
			}
			return
		}
	}
}

// drop must only be called from the hub loop
func (h *Hub) drop(ctx context.Context, c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Store(int64(len(h.clients)))
	infrastructure.RecordWebSocketClient(ctx, h.metrics, -1)
}

func (h *Hub) greet(c *Client) {
	msg := events.NewMessage(events.MessageTypeConnect, map[string]string{
		"status":    "connected",
		"client_id": c.id,
	})
	msg.TraceID = c.traceID
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
