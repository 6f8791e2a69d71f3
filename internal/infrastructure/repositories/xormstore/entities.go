package xormstore

import (
	"time"

	"menthub/internal/core/domain"
)

// Row types keep the xorm mapping out of the domain package.

type userRow struct {
	ID           string    `xorm:"pk varchar(36) 'id'"`
	Name         string    `xorm:"varchar(100) notnull"`
	Email        string    `xorm:"varchar(254) notnull unique"`
	PasswordHash string    `xorm:"varchar(100) notnull"`
	Role         string    `xorm:"varchar(16) notnull index"`
	Status       string    `xorm:"varchar(16) notnull"`
	CreatedAt    time.Time `xorm:"created"`
}

func (userRow) TableName() string { return "mh_user" }

type messageRow struct {
	ID         string     `xorm:"pk varchar(36) 'id'"`
	SenderID   string     `xorm:"varchar(36) notnull index"`
	SenderName string     `xorm:"varchar(100) notnull"`
	ReceiverID string     `xorm:"varchar(36) index"`
	GroupID    string     `xorm:"varchar(100) index"`
	Content    string     `xorm:"varchar(2048) notnull"`
	CreatedAt  time.Time  `xorm:"created index"`
	DeletedAt  *time.Time `xorm:"null"`
}

func (messageRow) TableName() string { return "mh_message" }

type notificationRow struct {
	ID        string    `xorm:"pk varchar(36) 'id'"`
	UserID    string    `xorm:"varchar(36) notnull index"`
	Title     string    `xorm:"varchar(200) notnull"`
	Body      string    `xorm:"varchar(1024) notnull"`
	Category  string    `xorm:"varchar(32) notnull"`
	SenderID  string    `xorm:"varchar(36)"`
	Read      bool      `xorm:"notnull default 0 'is_read'"`
	CreatedAt time.Time `xorm:"created index"`
}

func (notificationRow) TableName() string { return "mh_notification" }

func toUserRow(u *domain.User) *userRow {
	return &userRow{
		ID:           string(u.ID),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Status:       string(u.Status),
		CreatedAt:    u.CreatedAt,
	}
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           domain.UserID(r.ID),
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		Status:       domain.AccountStatus(r.Status),
		CreatedAt:    r.CreatedAt,
	}
}

func toMessageRow(m *domain.Message) *messageRow {
	return &messageRow{
		ID:         string(m.ID),
		SenderID:   string(m.SenderID),
		SenderName: m.SenderName,
		ReceiverID: string(m.ReceiverID),
		GroupID:    string(m.GroupID),
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
		DeletedAt:  m.DeletedAt,
	}
}

func (r *messageRow) toDomain() *domain.Message {
	return &domain.Message{
		ID:         domain.MessageID(r.ID),
		SenderID:   domain.UserID(r.SenderID),
		SenderName: r.SenderName,
		ReceiverID: domain.UserID(r.ReceiverID),
		GroupID:    domain.GroupID(r.GroupID),
		Content:    r.Content,
		CreatedAt:  r.CreatedAt,
		DeletedAt:  r.DeletedAt,
	}
}

func toNotificationRow(n *domain.Notification) *notificationRow {
	return &notificationRow{
		ID:        string(n.ID),
		UserID:    string(n.UserID),
		Title:     n.Title,
		Body:      n.Body,
		Category:  string(n.Category),
		SenderID:  string(n.SenderID),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func (r *notificationRow) toDomain() *domain.Notification {
	return &domain.Notification{
		ID:        domain.NotificationID(r.ID),
		UserID:    domain.UserID(r.UserID),
		Title:     r.Title,
		Body:      r.Body,
		Category:  domain.NotificationCategory(r.Category),
		SenderID:  domain.UserID(r.SenderID),
		Read:      r.Read,
		CreatedAt: r.CreatedAt,
	}
}
