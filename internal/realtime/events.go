package realtime

import (
	"encoding/json"

	"menthub/internal/core/domain"
)

// ClientEvent is the envelope for every client-to-server event. The payload
// stays raw until the handler for the event type decodes it.
type ClientEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerEvent is the envelope for every server-to-client event.
type ServerEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Client-to-server event types.
const (
	EventJoinRoom     = "join_room"
	EventSendMessage  = "send_message"
	EventTypingStart  = "typing_start"
	EventTypingStop   = "typing_stop"
	EventCallUser     = "call_user"
	EventAnswerCall   = "answer_call"
	EventICECandidate = "ice_candidate"
	EventEndCall      = "end_call"
	EventRejectCall   = "reject_call"
)

// Server-to-client event types.
const (
	EventOnlineUsers       = "online_users"
	EventUserOnline        = "user_online"
	EventUserOffline       = "user_offline"
	EventNewMessage        = "new_message"
	EventMessageSent       = "message_sent"
	EventMessageError      = "message_error"
	EventUserTyping        = "user_typing"
	EventUserStoppedTyping = "user_stopped_typing"
	EventIncomingCall      = "incoming_call"
	EventCallAnswered      = "call_answered"
	EventCallEnded         = "call_ended"
	EventCallRejected      = "call_rejected"
	EventNewNotification   = "new_notification"
	EventError             = "error"
)

type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
}

type SendMessagePayload struct {
	Content    string         `json:"content"`
	ReceiverID domain.UserID  `json:"receiverId,omitempty"`
	GroupID    domain.GroupID `json:"groupId,omitempty"`
}

type TypingPayload struct {
	ReceiverID domain.UserID  `json:"receiverId,omitempty"`
	GroupID    domain.GroupID `json:"groupId,omitempty"`
}

// TypingNotice is relayed to the addressed channel on typing_start/stop.
type TypingNotice struct {
	UserID domain.UserID `json:"userId"`
	Name   string        `json:"name,omitempty"`
}

// Signaling payloads are opaque to the relay: offers, answers and ICE
// candidates are forwarded as raw JSON, never decoded or rewritten.

type CallUserPayload struct {
	ReceiverID domain.UserID   `json:"receiverId"`
	Offer      json.RawMessage `json:"offer"`
}

type AnswerCallPayload struct {
	CallerID domain.UserID   `json:"callerId"`
	Answer   json.RawMessage `json:"answer"`
}

type ICECandidatePayload struct {
	ReceiverID domain.UserID   `json:"receiverId"`
	Candidate  json.RawMessage `json:"candidate"`
}

type EndCallPayload struct {
	ReceiverID domain.UserID `json:"receiverId"`
}

type RejectCallPayload struct {
	CallerID domain.UserID `json:"callerId"`
}

type IncomingCallPayload struct {
	CallerID   domain.UserID   `json:"callerId"`
	CallerName string          `json:"callerName"`
	Offer      json.RawMessage `json:"offer"`
}

type CallAnsweredPayload struct {
	Answer json.RawMessage `json:"answer"`
}

type CandidateNotice struct {
	Candidate json.RawMessage `json:"candidate"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
