package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"menthub/internal/core/domain"
	"menthub/pkg/tracing"
	"menthub/pkg/validation"
)

// handleJoinRoom joins the connection to an ad-hoc group channel. The join
// is advisory addressing only: membership is gated where groups are
// created, not here.
func (g *Gateway) handleJoinRoom(c *Conn, event ClientEvent) error {
	var payload JoinRoomPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("invalid join_room payload: %w", err)
	}
	if err := validation.ValidateGroupID(payload.RoomID); err != nil {
		return fmt.Errorf("invalid join_room payload: %w", err)
	}

	g.hub.Join(c, domain.GroupChannel(domain.GroupID(payload.RoomID)))
	g.logger.Debugw("joined room", "conn_id", c.ID, "user_id", c.Identity.ID, "room", payload.RoomID)
	return nil
}

// handleSendMessage persists the message under the authenticated sender,
// then relays the persisted record to its target channel and echoes it to
// the sending connection. Persistence failures surface to the sender only,
// as message_error; nothing is relayed and nothing is retried.
func (g *Gateway) handleSendMessage(ctx context.Context, c *Conn, event ClientEvent) error {
	var payload SendMessagePayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("invalid send_message payload: %w", err)
	}

	ctx, span := tracing.TraceRealtimeEvent(ctx, EventSendMessage, string(c.Identity.ID))
	defer span.End()

	msg, err := g.messages.Create(ctx, c.Identity, payload.Content, payload.ReceiverID, payload.GroupID)
	if err != nil {
		tracing.RecordError(ctx, err)
		g.metrics.RecordMessageError()
		if sendErr := c.send(ServerEvent{Type: EventMessageError, Payload: ErrorPayload{Error: err.Error()}}); sendErr != nil {
			g.logger.Warnw("failed to send message_error", "conn_id", c.ID, "error", sendErr)
		}
		return nil
	}

	if msg.Direct() {
		// Offline receivers miss the live push but find the message in
		// the store on their next history fetch.
		g.hub.EmitToRoom(domain.UserChannel(msg.ReceiverID), ServerEvent{Type: EventNewMessage, Payload: msg})
		g.metrics.RecordMessageRelayed("direct")
	} else {
		g.hub.EmitToRoom(domain.GroupChannel(msg.GroupID), ServerEvent{Type: EventNewMessage, Payload: msg})
		g.metrics.RecordMessageRelayed("group")
	}

	// Echo the server-confirmed record so the sender's UI shows the
	// generated id and timestamp instead of an optimistic local copy.
	if err := c.send(ServerEvent{Type: EventMessageSent, Payload: msg}); err != nil {
		g.logger.Warnw("failed to echo message_sent", "conn_id", c.ID, "error", err)
	}

	if msg.Direct() && msg.ReceiverID != msg.SenderID {
		g.notifications.NotifyAsync(&domain.Notification{
			UserID:   msg.ReceiverID,
			Title:    "New message",
			Body:     fmt.Sprintf("%s sent you a message", msg.SenderName),
			Category: domain.NotificationMessage,
			SenderID: msg.SenderID,
		})
	}

	return nil
}

// handleTyping relays a fire-and-forget typing hint to the addressed
// channel. No persistence, no failure path, no delivery guarantee.
func (g *Gateway) handleTyping(c *Conn, event ClientEvent, outType string) error {
	var payload TypingPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("invalid typing payload: %w", err)
	}

	notice := TypingNotice{UserID: c.Identity.ID, Name: c.Identity.Name}

	switch {
	case payload.ReceiverID != "":
		g.hub.EmitToRoom(domain.UserChannel(payload.ReceiverID), ServerEvent{Type: outType, Payload: notice})
	case payload.GroupID != "":
		g.hub.EmitToRoom(domain.GroupChannel(payload.GroupID), ServerEvent{Type: outType, Payload: notice})
	}
	return nil
}
