package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"menthub/internal/core/domain"
	"menthub/internal/core/ports"
)

type MemoryMessageRepository struct {
	messages map[domain.MessageID]*domain.Message
	mu       sync.RWMutex
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{
		messages: make(map[domain.MessageID]*domain.Message),
	}
}

var _ ports.MessageRepository = (*MemoryMessageRepository)(nil)

func (r *MemoryMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.messages[msg.ID]; exists {
		return fmt.Errorf("message already exists: %s", msg.ID)
	}
	stored := *msg
	r.messages[msg.ID] = &stored
	return nil
}

func (r *MemoryMessageRepository) GetByID(ctx context.Context, id domain.MessageID) (*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msg, exists := r.messages[id]
	if !exists {
		return nil, domain.ErrMessageNotFound
	}
	copied := *msg
	return &copied, nil
}

func (r *MemoryMessageRepository) Conversation(ctx context.Context, a, b domain.UserID, limit int) ([]*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Message
	for _, msg := range r.messages {
		if msg.DeletedAt != nil || msg.GroupID != "" {
			continue
		}
		if (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a) {
			copied := *msg
			result = append(result, &copied)
		}
	}

	sortNewestFirst(result)
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MemoryMessageRepository) GroupHistory(ctx context.Context, groupID domain.GroupID, limit int) ([]*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Message
	for _, msg := range r.messages {
		if msg.DeletedAt != nil {
			continue
		}
		if msg.GroupID == groupID {
			copied := *msg
			result = append(result, &copied)
		}
	}

	sortNewestFirst(result)
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MemoryMessageRepository) SoftDelete(ctx context.Context, id domain.MessageID, requester domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, exists := r.messages[id]
	if !exists || msg.DeletedAt != nil {
		return domain.ErrMessageNotFound
	}
	if msg.SenderID != requester {
		return domain.ErrNotMessageSender
	}

	now := time.Now().UTC()
	msg.DeletedAt = &now
	return nil
}

func sortNewestFirst(msgs []*domain.Message) {
	sort.Slice(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})
}
