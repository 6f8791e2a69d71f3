package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"menthub/internal/core/domain"
	"menthub/internal/core/ports"
	"menthub/internal/core/services"
	"menthub/internal/infrastructure/monitoring"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Should be configured properly for production
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Gateway owns the realtime connection lifecycle: handshake authentication,
// presence bookkeeping, channel joins and event dispatch to the relays.
type Gateway struct {
	users         ports.UserRepository
	tokens        services.TokenService
	messages      services.MessageService
	notifications services.NotificationService

	registry    *Registry
	hub         *Hub
	presenceBus ports.PresencePublisher
	metrics     *monitoring.PrometheusCollector
	logger      *zap.SugaredLogger

	pingInterval   time.Duration
	pongTimeout    time.Duration
	writeTimeout   time.Duration
	maxMessageSize int64
	eventRate      float64
	eventBurst     int
}

func NewGateway(
	users ports.UserRepository,
	tokens services.TokenService,
	messages services.MessageService,
	notifications services.NotificationService,
	registry *Registry,
	hub *Hub,
	metrics *monitoring.PrometheusCollector,
	logger *zap.SugaredLogger,
) *Gateway {
	return &Gateway{
		users:          users,
		tokens:         tokens,
		messages:       messages,
		notifications:  notifications,
		registry:       registry,
		hub:            hub,
		metrics:        metrics,
		logger:         logger,
		pingInterval:   30 * time.Second,
		pongTimeout:    60 * time.Second,
		writeTimeout:   10 * time.Second,
		maxMessageSize: 64 * 1024,
	}
}

// SetPresencePublisher wires an optional pub/sub mirror for presence
// transitions.
func (g *Gateway) SetPresencePublisher(bus ports.PresencePublisher) {
	g.presenceBus = bus
}

// SetPingInterval sets ping interval for WebSocket connections
func (g *Gateway) SetPingInterval(interval time.Duration) {
	g.pingInterval = interval
}

// SetPongTimeout sets pong timeout for WebSocket connections
func (g *Gateway) SetPongTimeout(timeout time.Duration) {
	g.pongTimeout = timeout
}

// SetWriteTimeout sets the per-write deadline for outbound frames
func (g *Gateway) SetWriteTimeout(timeout time.Duration) {
	g.writeTimeout = timeout
}

// SetMaxMessageSize bounds inbound frame size; 0 leaves it unbounded
func (g *Gateway) SetMaxMessageSize(size int64) {
	g.maxMessageSize = size
}

// SetEventRate bounds the inbound event rate of a single connection;
// 0 disables the limiter.
func (g *Gateway) SetEventRate(perSecond float64, burst int) {
	g.eventRate = perSecond
	g.eventBurst = burst
}

// bearerToken extracts the handshake credential from the Authorization
// header or, for browser websocket clients that cannot set headers, from
// the token query parameter.
func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return r.URL.Query().Get("token")
}

// authenticate resolves the handshake credential to an identity snapshot.
// Any failure is terminal for the connection attempt.
func (g *Gateway) authenticate(r *http.Request) (domain.Identity, int, string, error) {
	token := bearerToken(r)
	if token == "" {
		return domain.Identity{}, http.StatusUnauthorized, "missing_token", errors.New("authentication token required")
	}

	claims, err := g.tokens.ValidateToken(token)
	if err != nil {
		return domain.Identity{}, http.StatusUnauthorized, "invalid_token", err
	}

	user, err := g.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		return domain.Identity{}, http.StatusUnauthorized, "unknown_user", fmt.Errorf("no account for token subject: %w", err)
	}

	if err := user.CanConnect(); err != nil {
		reason := "inactive_account"
		if errors.Is(err, domain.ErrApprovalPending) {
			reason = "approval_pending"
		}
		return domain.Identity{}, http.StatusForbidden, reason, err
	}

	return user.Identity(), 0, "", nil
}

func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	identity, status, reason, err := g.authenticate(r)
	if err != nil {
		g.metrics.RecordHandshakeRejected(reason)
		g.logger.Warnw("realtime handshake rejected", "reason", reason, "error", err)
		http.Error(w, err.Error(), status)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	var limiter *rate.Limiter
	if g.eventRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(g.eventRate), g.eventBurst)
	}

	c := newConn(uuid.New().String(), identity, ws, g.writeTimeout, limiter)

	// Presence and channel membership are mutated synchronously, with no
	// store round-trip in between, so connect/disconnect never race.
	g.hub.Add(c)
	g.hub.Join(c, domain.UserChannel(identity.ID))
	g.hub.Join(c, domain.RoleChannel(identity.Role))
	first := g.registry.Register(c.ID, identity)
	g.metrics.RecordConnected()

	g.logger.Infow("user connected",
		"conn_id", c.ID,
		"user_id", identity.ID,
		"role", identity.Role,
		"first_connection", first,
	)

	// Seed the new client with the current online set, then announce the
	// zero-to-one transition to everyone.
	if err := c.send(ServerEvent{Type: EventOnlineUsers, Payload: g.registry.OnlineUsers()}); err != nil {
		g.logger.Warnw("failed to send online users snapshot", "conn_id", c.ID, "error", err)
	}
	if first {
		g.hub.Broadcast(ServerEvent{Type: EventUserOnline, Payload: identity.ID})
		g.publishPresence(identity.ID, true)
	}

	if g.maxMessageSize > 0 {
		ws.SetReadLimit(g.maxMessageSize)
	}
	ws.SetReadDeadline(time.Now().Add(g.pongTimeout))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(g.pongTimeout))
		return nil
	})

	pingTicker := time.NewTicker(g.pingInterval)
	defer pingTicker.Stop()

	eventChan := make(chan ClientEvent, 10)
	errorChan := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	// done unblocks the reader if the event loop exits while the buffer is
	// full; closing the socket alone does not interrupt a channel send.
	go func() {
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				select {
				case errorChan <- err:
				case <-done:
				}
				return
			}
			ws.SetReadDeadline(time.Now().Add(g.pongTimeout))

			var event ClientEvent
			if err := json.Unmarshal(data, &event); err != nil {
				select {
				case errorChan <- fmt.Errorf("malformed event: %w", err):
				case <-done:
				}
				return
			}

			select {
			case eventChan <- event:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case event := <-eventChan:
			if !c.allow() {
				g.sendError(c, "rate limit exceeded")
				continue
			}
			if err := g.handleEvent(context.Background(), c, event); err != nil {
				g.logger.Infow("error handling event",
					"conn_id", c.ID,
					"user_id", identity.ID,
					"event", event.Type,
					"error", err,
				)
				g.sendError(c, err.Error())
			}

		case <-pingTicker.C:
			c.writeMu.Lock()
			ws.SetWriteDeadline(time.Now().Add(g.writeTimeout))
			err := ws.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				g.logger.Infow("error sending ping", "conn_id", c.ID, "error", err)
				goto cleanup
			}

		case err := <-errorChan:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				g.logger.Infow("error reading from connection", "conn_id", c.ID, "error", err)
			}
			goto cleanup
		}
	}

cleanup:
	g.hub.Remove(c)
	_, last := g.registry.Deregister(c.ID)
	g.metrics.RecordDisconnected()

	if last {
		g.hub.Broadcast(ServerEvent{Type: EventUserOffline, Payload: identity.ID})
		g.publishPresence(identity.ID, false)
	}

	g.logger.Infow("user disconnected",
		"conn_id", c.ID,
		"user_id", identity.ID,
		"last_connection", last,
	)
}

func (g *Gateway) handleEvent(ctx context.Context, c *Conn, event ClientEvent) error {
	if event.Type == "" {
		return fmt.Errorf("event type is required")
	}

	switch event.Type {
	case EventJoinRoom:
		return g.handleJoinRoom(c, event)
	case EventSendMessage:
		return g.handleSendMessage(ctx, c, event)
	case EventTypingStart:
		return g.handleTyping(c, event, EventUserTyping)
	case EventTypingStop:
		return g.handleTyping(c, event, EventUserStoppedTyping)
	case EventCallUser:
		return g.handleCallUser(c, event)
	case EventAnswerCall:
		return g.handleAnswerCall(c, event)
	case EventICECandidate:
		return g.handleICECandidate(c, event)
	case EventEndCall:
		return g.handleEndCall(c, event)
	case EventRejectCall:
		return g.handleRejectCall(c, event)
	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}
}

func (g *Gateway) sendError(c *Conn, message string) {
	if err := c.send(ServerEvent{Type: EventError, Payload: ErrorPayload{Error: message}}); err != nil {
		g.logger.Warnw("failed to send error event", "conn_id", c.ID, "error", err)
	}
}

// publishPresence mirrors a presence transition to the external backbone,
// best-effort and off the handler path.
func (g *Gateway) publishPresence(id domain.UserID, online bool) {
	if g.presenceBus == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := g.presenceBus.PublishPresence(ctx, id, online); err != nil {
			g.logger.Warnw("failed to publish presence transition",
				"user_id", id,
				"online", online,
				"error", err,
			)
		}
	}()
}
