package handlers

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/adstronaut/backend/internal/events"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// wsMessage is what clients receive for every event.
type wsMessage struct {
	Stream  string         `json:"stream"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

const wsSendBuffer = 32

// WSHub fans campaign and AI events out to connected dashboards. Each
// connection gets its own buffered queue and writer goroutine; a client whose
// queue is full misses events instead of stalling the hub.
type WSHub struct {
	subscriber events.Subscriber
	gauge      prometheus.Gauge
	log        *zap.Logger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	streams map[string]bool // nil = all
	send    chan []byte
}

func (cl *wsClient) wants(stream string) bool {
	return cl.streams == nil || cl.streams[stream]
}

// NewWSHub creates a hub. gauge may be nil.
func NewWSHub(subscriber events.Subscriber, gauge prometheus.Gauge, log *zap.Logger) *WSHub {
	return &WSHub{
		subscriber: subscriber,
		gauge:      gauge,
		log:        log,
		clients:    make(map[*wsClient]struct{}),
	}
}

// Start subscribes to every event stream until ctx is cancelled.
func (h *WSHub) Start(ctx context.Context) error {
	for _, stream := range events.Streams {
		if err := h.subscriber.Subscribe(ctx, stream, func(event events.Event) {
			h.broadcast(stream, event)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (h *WSHub) broadcast(stream string, event events.Event) {
	data, err := json.Marshal(wsMessage{Stream: stream, Type: event.Type, Payload: event.Payload})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for cl := range h.clients {
		if !cl.wants(stream) {
			continue
		}
		select {
		case cl.send <- data:
		default:
			h.log.Debug("ws client queue full, dropping event", zap.String("stream", stream), zap.String("type", event.Type))
		}
	}
}

func (h *WSHub) register(streams map[string]bool) *wsClient {
	cl := &wsClient{streams: streams, send: make(chan []byte, wsSendBuffer)}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	if h.gauge != nil {
		h.gauge.Inc()
	}
	return cl
}

// unregister removes cl and closes its queue, which ends its writer.
func (h *WSHub) unregister(cl *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[cl]
	if ok {
		delete(h.clients, cl)
		close(cl.send)
	}
	h.mu.Unlock()
	if ok && h.gauge != nil {
		h.gauge.Dec()
	}
}

// writeLoop sends queued messages until the queue is closed. After a failed
// write it calls onError once and discards the rest of the queue.
func (h *WSHub) writeLoop(cl *wsClient, write func([]byte) error, onError func()) {
	for data := range cl.send {
		if err := write(data); err != nil {
			h.log.Debug("ws write failed", zap.Error(err))
			onError()
			for range cl.send {
			}
			return
		}
	}
}

// Clients returns the number of open connections.
func (h *WSHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// WSUpgradeMiddleware checks for websocket upgrade
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// parseStreams reads ?streams=campaign,ai. Unknown names are ignored; an
// empty selection means every stream.
func parseStreams(q string) map[string]bool {
	if q == "" {
		return nil
	}
	out := make(map[string]bool)
	for _, name := range strings.Split(q, ",") {
		name = strings.TrimSpace(name)
		for _, s := range events.Streams {
			if s == name || s == "events:"+name {
				out[s] = true
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (h *WSHub) HandleWS(conn *websocket.Conn) {
	cl := h.register(parseStreams(conn.Query("streams")))

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(cl,
			func(data []byte) error { return conn.WriteMessage(websocket.TextMessage, data) },
			func() { _ = conn.Close() },
		)
	}()

	defer func() {
		h.unregister(cl)
		<-done
		conn.Close()
	}()

	// Read loop (keep alive / pings)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
