package xormstore

import (
	"context"
	"fmt"

	"menthub/internal/core/domain"
	"menthub/internal/core/ports"

	"github.com/go-xorm/xorm"
)

type NotificationRepository struct {
	engine *xorm.Engine
}

func NewNotificationRepository(engine *xorm.Engine) *NotificationRepository {
	return &NotificationRepository{engine: engine}
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if _, err := r.engine.Insert(toNotificationRow(n)); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Notification, error) {
	var rows []notificationRow
	err := r.engine.
		Where("user_id = ?", string(userID)).
		Desc("created_at").
		Limit(limit).
		Find(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}

	result := make([]*domain.Notification, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toDomain())
	}
	return result, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id domain.NotificationID, userID domain.UserID) error {
	// MySQL counts affected rows as changed rows, so the update count
	// cannot distinguish "missing" from "already read". Read first.
	row := &notificationRow{ID: string(id)}
	found, err := r.engine.Get(row)
	if err != nil {
		return fmt.Errorf("failed to query notification: %w", err)
	}
	if !found || row.UserID != string(userID) {
		return domain.ErrNotificationNotFound
	}
	if row.Read {
		return nil
	}

	row.Read = true
	if _, err := r.engine.ID(row.ID).Cols("is_read").Update(row); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID domain.UserID) error {
	_, err := r.engine.
		Where("user_id = ?", string(userID)).
		And("is_read = ?", false).
		Cols("is_read").
		Update(&notificationRow{Read: true})
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
