package search_api

import (
	"encoding/json"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rskv-p/searchlab/pkg/x_log"
	"github.com/rskv-p/searchlab/servs/s_search/search_serv"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// DefaultWriteWait bounds a single websocket write.
const DefaultWriteWait = 5 * time.Second

// Hub pushes operation events to every connected websocket.
type Hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]*sync.Mutex // per-connection write lock
	writeWait time.Duration
	log       zerolog.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]*sync.Mutex),
		writeWait: DefaultWriteWait,
		log:       x_log.New("ws"),
	}
}

// SetWriteWait changes the per-write deadline; a client that cannot take a
// message within it is dropped.
func (h *Hub) SetWriteWait(d time.Duration) {
	h.mu.Lock()
	h.writeWait = d
	h.mu.Unlock()
}

// HandleWS upgrades the connection and keeps it registered until the
// client goes away.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("upgrade failed")
		return
	}
	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()
	if user, _, ok := UserFromContext(r.Context()); ok {
		h.log.Debug().Str("user", user).Msg("client connected")
	}

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// Broadcast sends ev to every client; clients failing a write are dropped.
func (h *Hub) Broadcast(ev search_serv.Event) {
	msg, err := json.Marshal(OutgoingEvent{Type: "operation", Event: ev})
	if err != nil {
		return
	}
	h.send(websocket.TextMessage, msg)
}

// send writes outside the hub lock so a stalled client holds up only
// its own connection, and only until the write deadline.
func (h *Hub) send(typ int, msg []byte) {
	h.mu.Lock()
	wait := h.writeWait
	targets := maps.Clone(h.clients)
	h.mu.Unlock()

	for conn, wl := range targets {
		wl.Lock()
		err := conn.SetWriteDeadline(time.Now().Add(wait))
		if err == nil {
			err = conn.WriteMessage(typ, msg)
		}
		wl.Unlock()
		if err != nil {
			h.log.Debug().Err(err).Msg("dropping client")
			h.drop(conn)
		}
	}
}

// Hook returns Broadcast as a service hook.
func (h *Hub) Hook() search_serv.HookFunc {
	return h.Broadcast
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.send(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}
