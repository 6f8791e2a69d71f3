package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"menthub/internal/core/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Conn wraps one websocket connection with its identity snapshot and a
// write lock. All writes to the socket go through send so concurrent
// emitters never interleave frames.
type Conn struct {
	ID       string
	Identity domain.Identity

	ws           *websocket.Conn
	writeMu      sync.Mutex
	writeTimeout time.Duration
	limiter      *rate.Limiter
}

func newConn(id string, identity domain.Identity, ws *websocket.Conn, writeTimeout time.Duration, limiter *rate.Limiter) *Conn {
	return &Conn{
		ID:           id,
		Identity:     identity,
		ws:           ws,
		writeTimeout: writeTimeout,
		limiter:      limiter,
	}
}

func (c *Conn) send(event ServerEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.sendRaw(data)
}

func (c *Conn) sendRaw(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// allow reports whether the connection is within its event rate budget.
func (c *Conn) allow() bool {
	if c.limiter == nil {
		return true
	}
	return c.limiter.Allow()
}

// Hub routes server events to channels. A channel is a named set of
// connections: identity channels (user_<id>), role channels (role_<role>)
// and ad-hoc group channels. Channels have no storage of their own.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Conn
	rooms map[string]map[string]*Conn

	logger *zap.SugaredLogger
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		conns:  make(map[string]*Conn),
		rooms:  make(map[string]map[string]*Conn),
		logger: logger,
	}
}

func (h *Hub) Add(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.ID] = c
}

// Remove drops the connection from the hub and from every channel it
// joined.
func (h *Hub) Remove(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.conns, c.ID)
	for room, members := range h.rooms {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Join adds the connection to a channel. Joining is advisory addressing,
// not an access-control boundary; the relay handlers authorize delivery
// independently.
func (h *Hub) Join(c *Conn, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*Conn)
		h.rooms[room] = members
	}
	members[c.ID] = c
}

// EmitToRoom sends the event to every connection in the channel. An empty
// or unknown channel is a no-op, not an error: an unreachable target is a
// silent drop by design.
func (h *Hub) EmitToRoom(room string, event ServerEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	members := make([]*Conn, 0, len(h.rooms[room]))
	for _, c := range h.rooms[room] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		if err := c.sendRaw(data); err != nil {
			h.logger.Warnw("failed to emit to connection",
				"room", room,
				"conn_id", c.ID,
				"event", event.Type,
				"error", err,
			)
		}
	}
	return nil
}

// EmitToUser sends the event to every connection of one identity.
// Implements ports.Emitter.
func (h *Hub) EmitToUser(id domain.UserID, event string, payload interface{}) error {
	return h.EmitToRoom(domain.UserChannel(id), ServerEvent{Type: event, Payload: payload})
}

// Broadcast sends the event to every connection on the hub.
func (h *Hub) Broadcast(event ServerEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorw("failed to marshal broadcast event", "event", event.Type, "error", err)
		return
	}

	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.sendRaw(data); err != nil {
			h.logger.Warnw("failed to broadcast to connection",
				"conn_id", c.ID,
				"event", event.Type,
				"error", err,
			)
		}
	}
}
