package realtime

import (
	"encoding/json"
	"fmt"

	"menthub/internal/core/domain"
)

// Call signaling is a stateless directed relay between two identities.
// Payload contents are opaque: offers, answers and candidates pass through
// byte-for-byte. An offline target means a silent drop; the message is
// transient and has no durable fallback, so the caller's client must
// impose its own timeout.

func (g *Gateway) handleCallUser(c *Conn, event ClientEvent) error {
	var payload CallUserPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("invalid call_user payload: %w", err)
	}
	if payload.ReceiverID == "" {
		return fmt.Errorf("call_user requires receiverId")
	}

	// Caller identity comes from the authenticated connection, never from
	// client input.
	g.hub.EmitToRoom(domain.UserChannel(payload.ReceiverID), ServerEvent{
		Type: EventIncomingCall,
		Payload: IncomingCallPayload{
			CallerID:   c.Identity.ID,
			CallerName: c.Identity.Name,
			Offer:      payload.Offer,
		},
	})
	g.metrics.RecordSignalRelayed(EventCallUser)

	g.logger.Debugw("relayed call offer",
		"caller_id", c.Identity.ID,
		"receiver_id", payload.ReceiverID,
		"offer_bytes", len(payload.Offer),
	)
	return nil
}

func (g *Gateway) handleAnswerCall(c *Conn, event ClientEvent) error {
	var payload AnswerCallPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("invalid answer_call payload: %w", err)
	}
	if payload.CallerID == "" {
		return fmt.Errorf("answer_call requires callerId")
	}

	g.hub.EmitToRoom(domain.UserChannel(payload.CallerID), ServerEvent{
		Type:    EventCallAnswered,
		Payload: CallAnsweredPayload{Answer: payload.Answer},
	})
	g.metrics.RecordSignalRelayed(EventAnswerCall)
	return nil
}

func (g *Gateway) handleICECandidate(c *Conn, event ClientEvent) error {
	var payload ICECandidatePayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("invalid ice_candidate payload: %w", err)
	}
	if payload.ReceiverID == "" {
		return fmt.Errorf("ice_candidate requires receiverId")
	}

	// Candidates trickle in from either party while negotiation runs.
	g.hub.EmitToRoom(domain.UserChannel(payload.ReceiverID), ServerEvent{
		Type:    EventICECandidate,
		Payload: CandidateNotice{Candidate: payload.Candidate},
	})
	g.metrics.RecordSignalRelayed(EventICECandidate)
	return nil
}

func (g *Gateway) handleEndCall(c *Conn, event ClientEvent) error {
	var payload EndCallPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("invalid end_call payload: %w", err)
	}
	if payload.ReceiverID == "" {
		return fmt.Errorf("end_call requires receiverId")
	}

	g.hub.EmitToRoom(domain.UserChannel(payload.ReceiverID), ServerEvent{Type: EventCallEnded})
	g.metrics.RecordSignalRelayed(EventEndCall)
	return nil
}

func (g *Gateway) handleRejectCall(c *Conn, event ClientEvent) error {
	var payload RejectCallPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("invalid reject_call payload: %w", err)
	}
	if payload.CallerID == "" {
		return fmt.Errorf("reject_call requires callerId")
	}

	g.hub.EmitToRoom(domain.UserChannel(payload.CallerID), ServerEvent{Type: EventCallRejected})
	g.metrics.RecordSignalRelayed(EventRejectCall)
	return nil
}
