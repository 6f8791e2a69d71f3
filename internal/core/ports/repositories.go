package ports

import (
	"context"

	"menthub/internal/core/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id domain.MessageID) (*domain.Message, error)
	// Conversation returns the direct messages exchanged between two users,
	// newest first, excluding soft-deleted records.
	Conversation(ctx context.Context, a, b domain.UserID, limit int) ([]*domain.Message, error)
	// GroupHistory returns the messages of a group, newest first,
	// excluding soft-deleted records.
	GroupHistory(ctx context.Context, groupID domain.GroupID, limit int) ([]*domain.Message, error)
	SoftDelete(ctx context.Context, id domain.MessageID, requester domain.UserID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id domain.NotificationID, userID domain.UserID) error
	MarkAllRead(ctx context.Context, userID domain.UserID) error
}
