package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"menthub/internal/core/domain"
	"menthub/internal/core/ports"
)

type MemoryNotificationRepository struct {
	notifications map[domain.NotificationID]*domain.Notification
	mu            sync.RWMutex
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{
		notifications: make(map[domain.NotificationID]*domain.Notification),
	}
}

var _ ports.NotificationRepository = (*MemoryNotificationRepository)(nil)

func (r *MemoryNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.notifications[n.ID]; exists {
		return fmt.Errorf("notification already exists: %s", n.ID)
	}
	stored := *n
	r.notifications[n.ID] = &stored
	return nil
}

func (r *MemoryNotificationRepository) ListByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			copied := *n
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MemoryNotificationRepository) MarkRead(ctx context.Context, id domain.NotificationID, userID domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, exists := r.notifications[id]
	if !exists || n.UserID != userID {
		return domain.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

func (r *MemoryNotificationRepository) MarkAllRead(ctx context.Context, userID domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}
