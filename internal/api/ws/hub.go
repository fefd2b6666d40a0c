// Package ws streams structural-change and session-change events to
// WebSocket subscribers: the presentation layer re-renders on them and
// the runtime-sync collaborator mirrors file content from them. All
// subscribers are passive; no message coming in over the socket mutates
// state.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/codedeck/backend/internal/infrastructure/logging"
	"github.com/codedeck/backend/internal/infrastructure/monitoring"
	"github.com/codedeck/backend/internal/shared/id"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS middleware owns origin policy
	},
}

// Envelope is the wire shape of every broadcast event
type Envelope struct {
	Channel   string      `json:"channel"` // "tree" or "session"
	Timestamp int64       `json:"timestamp"`
	Event     interface{} `json:"event"`
}

type client struct {
	id   id.ClientID
	conn *websocket.Conn
	send chan Envelope
}

// Hub fans broadcast events out to all connected clients
type Hub struct {
	mu      sync.RWMutex
	clients map[id.ClientID]*client
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewHub creates an empty hub
func NewHub(log *logging.Logger, metrics *monitoring.Metrics) *Hub {
	if log == nil {
		log = logging.NewNop()
	}
	return &Hub{
		clients: make(map[id.ClientID]*client),
		log:     log.Named("ws"),
		metrics: metrics,
	}
}

// Broadcast queues an event for every connected client. Slow clients
// drop events rather than stalling the mutation path.
func (h *Hub) Broadcast(channel string, event interface{}) {
	envelope := Envelope{
		Channel:   channel,
		Timestamp: time.Now().Unix(),
		Event:     event,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- envelope:
		default:
			h.log.Debug("dropping event for slow client", zap.String("client_id", c.id.String()))
		}
	}
	if h.metrics != nil {
		h.metrics.WSEvents.Inc()
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleConnection upgrades the request and serves the client until it
// disconnects
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		id:   id.NewClientID(),
		conn: conn,
		send: make(chan Envelope, sendBufferSize),
	}
	h.register(cl)
	h.log.Info("subscriber connected", zap.String("client_id", cl.id.String()))

	go h.writeLoop(cl)
	h.readLoop(cl)
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	h.clients[cl.id] = cl
	count := len(h.clients)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WSConnections.Set(float64(count))
	}
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, cl.id)
	count := len(h.clients)
	h.mu.Unlock()

	close(cl.send)
	cl.conn.Close()
	if h.metrics != nil {
		h.metrics.WSConnections.Set(float64(count))
	}
	h.log.Info("subscriber disconnected", zap.String("client_id", cl.id.String()))
}

// readLoop drains the connection; subscribers only send pings
func (h *Hub) readLoop(cl *client) {
	defer h.unregister(cl)

	cl.conn.SetReadLimit(1024)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case envelope, ok := <-cl.send:
			if !ok {
				return
			}
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteJSON(envelope); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
