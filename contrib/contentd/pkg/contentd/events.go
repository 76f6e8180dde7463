package contentd

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lumenworks/contentkit/internal/metrics"
	"github.com/lumenworks/contentkit/pkg/models"
	"github.com/rs/zerolog"
)

const (
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = pongWait * 9 / 10
	clientBacklog = 32
)

// Hub fans change events out to every connected websocket client. A client
// that falls behind by more than its backlog is disconnected.
type Hub struct {
	mu       sync.Mutex
	clients  map[*subscriber]struct{}
	closed   bool
	upgrader websocket.Upgrader
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

type subscriber struct {
	conn *websocket.Conn
	send chan models.ChangeEvent
}

func NewHub(l zerolog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		clients: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:  l,
		metrics: m,
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish queues ev for every client.
func (h *Hub) Publish(ev models.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.clients {
		select {
		case s.send <- ev:
		default:
			h.logger.Warn().Msg("dropping slow event client")
			h.removeLocked(s)
		}
	}
}

// removeLocked unregisters s. The caller holds h.mu.
func (h *Hub) removeLocked(s *subscriber) {
	if _, ok := h.clients[s]; !ok {
		return
	}
	delete(h.clients, s)
	close(s.send)
	if h.metrics != nil {
		h.metrics.EventClients.Dec()
	}
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s)
}

// Close disconnects every client. Later connections are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for s := range h.clients {
		h.removeLocked(s)
	}
}

// ServeHTTP upgrades the request and streams events until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	s := &subscriber{conn: conn, send: make(chan models.ChangeEvent, clientBacklog)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[s] = struct{}{}
	if h.metrics != nil {
		h.metrics.EventClients.Inc()
	}
	h.mu.Unlock()

	go h.writePump(s)
	h.readPump(s)
}

// readPump discards client messages and notices when the connection drops.
func (h *Hub) readPump(s *subscriber) {
	defer h.remove(s)
	s.conn.SetReadLimit(512)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(s *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()
	for {
		select {
		case ev, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
