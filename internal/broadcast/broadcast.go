// Package broadcast is a thin reference implementation of the long-lived
// push-channel collaborator mentioned in spec.md §1/§6.2. The collaborator
// itself is out of scope for the wire codec and state tracker, but the
// repository ships this consumer of observer.Observer's change-subscription
// hook the same way the teacher repo wires its broker core to websocket
// clients in main.go.
package broadcast

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"crewwire/internal/logging"
	"crewwire/internal/observer"
)

const (
	writeWait          = 10 * time.Second
	pongWaitMultiplier = 2
	pingInterval       = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Envelope is the JSON frame pushed to every connected client after an
// Observer reports a state-changing datagram.
type Envelope struct {
	Type     string `json:"type"`
	Snapshot any    `json:"snapshot,omitempty"`
	Digest   any    `json:"digest,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	log  *logging.Logger
}

// Hub fans out published snapshots/digests to every connected websocket
// client. Hub has no notion of the observer it is fed by; callers wire it in
// via observer.Observer.Subscribe(hub.Publish).
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
	logger  *logging.Logger
}

// NewHub constructs an empty Hub. A nil logger falls back to logging.L().
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.L()
	}
	return &Hub{clients: make(map[*client]bool), logger: logger}
}

// ServeHTTP upgrades the incoming request to a websocket connection and
// registers it for fan-out.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("broadcast: upgrade failed", logging.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 64), log: h.logger}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	waitDuration := pongWaitMultiplier * pingInterval
	_ = conn.SetReadDeadline(time.Now().Add(waitDuration))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(waitDuration))
	})

	go h.readLoop(c)
	go h.writeLoop(c)
}

// readLoop drains and discards inbound frames; this is a push-only channel,
// but the connection must still be read to process control frames (pings).
func (h *Hub) readLoop(c *client) {
	defer h.deregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				c.log.Debug("broadcast: read deadline exceeded")
			}
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.deregister(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				h.deregister(c)
				return
			}
		}
	}
}

func (h *Hub) deregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Publish has the observer.ChangeFunc signature: it marshals snap/digest
// into an Envelope and fans the JSON out to every connected client. A client
// whose send buffer is full does not receive this envelope; it stays
// registered, and the caller is never blocked. Wire it
// in directly via observer.Observer.Subscribe(hub.Publish).
func (h *Hub) Publish(snap map[string]any, digest observer.Digest) {
	payload, err := json.Marshal(Envelope{Type: "state_update", Snapshot: snap, Digest: digest})
	if err != nil {
		h.logger.Warn("broadcast: failed to marshal envelope", logging.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("broadcast: dropping update for slow client")
		}
	}
}

// ClientCount reports the number of currently connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
