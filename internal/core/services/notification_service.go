package services

import (
	"context"
	"time"

	"menthub/internal/core/domain"
	"menthub/internal/core/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService persists a durable notification record and then, if
// the target currently has a registered connection, emits a realtime twin
// to the target's identity channel. The emit is best-effort: its failure
// never rolls back or blocks the persistence step.
type NotificationService interface {
	// Notify persists and emits synchronously. Returns the persistence
	// error, if any; emit failures are swallowed.
	Notify(ctx context.Context, n *domain.Notification) error
	// NotifyAsync submits Notify as a background task. Non-blocking,
	// no retry, no result.
	NotifyAsync(n *domain.Notification)
	List(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id domain.NotificationID, userID domain.UserID) error
	MarkAllRead(ctx context.Context, userID domain.UserID) error
}

const notifyTimeout = 10 * time.Second

type notificationService struct {
	notifications ports.NotificationRepository
	presence      ports.PresenceView
	emitter       ports.Emitter
	logger        *zap.SugaredLogger
}

func NewNotificationService(
	notifications ports.NotificationRepository,
	presence ports.PresenceView,
	emitter ports.Emitter,
	logger *zap.SugaredLogger,
) NotificationService {
	return &notificationService{
		notifications: notifications,
		presence:      presence,
		emitter:       emitter,
		logger:        logger,
	}
}

func (s *notificationService) Notify(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = domain.NotificationID(uuid.New().String())
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		return err
	}

	// Persist-then-notify: the record above is the source of truth, the
	// emit below is a freshness optimization for connected clients.
	if s.presence.IsOnline(n.UserID) {
		if err := s.emitter.EmitToUser(n.UserID, "new_notification", n); err != nil {
			s.logger.Warnw("realtime notification emit failed",
				"user_id", n.UserID,
				"category", n.Category,
				"error", err,
			)
		}
	}

	return nil
}

func (s *notificationService) NotifyAsync(n *domain.Notification) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.Notify(ctx, n); err != nil {
			s.logger.Warnw("background notification failed",
				"user_id", n.UserID,
				"category", n.Category,
				"error", err,
			)
		}
	}()
}

func (s *notificationService) List(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.notifications.ListByUser(ctx, userID, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, id domain.NotificationID, userID domain.UserID) error {
	return s.notifications.MarkRead(ctx, id, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID domain.UserID) error {
	return s.notifications.MarkAllRead(ctx, userID)
}
