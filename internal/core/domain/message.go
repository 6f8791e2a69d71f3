package domain

import "time"

type MessageID string

type GroupID string

// Message is a persisted chat message. Exactly one of ReceiverID/GroupID is
// set: ReceiverID for a direct message, GroupID for a group message.
type Message struct {
	ID         MessageID  `json:"id"`
	SenderID   UserID     `json:"senderId"`
	SenderName string     `json:"senderName"`
	ReceiverID UserID     `json:"receiverId,omitempty"`
	GroupID    GroupID    `json:"groupId,omitempty"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"createdAt"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
}

// Direct reports whether the message is addressed to a single user.
func (m *Message) Direct() bool {
	return m.ReceiverID != ""
}

// ValidateTarget enforces the receiver-XOR-group addressing rule.
func (m *Message) ValidateTarget() error {
	if m.ReceiverID != "" && m.GroupID != "" {
		return ErrAmbiguousTarget
	}
	if m.ReceiverID == "" && m.GroupID == "" {
		return ErrMissingTarget
	}
	return nil
}
