package domain

import "time"

type NotificationID string

type NotificationCategory string

const (
	NotificationMessage      NotificationCategory = "message"
	NotificationSession      NotificationCategory = "session"
	NotificationAnnouncement NotificationCategory = "announcement"
	NotificationApproval     NotificationCategory = "approval"
)

// Notification is the durable record. The realtime emit carrying the same
// payload is best-effort and never the only delivery path.
type Notification struct {
	ID        NotificationID       `json:"id"`
	UserID    UserID               `json:"userId"`
	Title     string               `json:"title"`
	Body      string               `json:"message"`
	Category  NotificationCategory `json:"type"`
	SenderID  UserID               `json:"senderId,omitempty"`
	Read      bool                 `json:"read"`
	CreatedAt time.Time            `json:"createdAt"`
}
