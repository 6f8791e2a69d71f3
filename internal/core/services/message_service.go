package services

import (
	"context"
	"fmt"
	"time"

	"menthub/internal/core/domain"
	"menthub/internal/core/ports"
	"menthub/pkg/tracing"
	"menthub/pkg/validation"

	"github.com/google/uuid"
)

// MessageService owns the single write the realtime core performs against
// the store: persisting an inbound chat message under the authenticated
// sender's identity. The client-supplied sender is never trusted.
type MessageService interface {
	Create(ctx context.Context, sender domain.Identity, content string, receiverID domain.UserID, groupID domain.GroupID) (*domain.Message, error)
	Conversation(ctx context.Context, a, b domain.UserID, limit int) ([]*domain.Message, error)
	GroupHistory(ctx context.Context, groupID domain.GroupID, limit int) ([]*domain.Message, error)
	Delete(ctx context.Context, id domain.MessageID, requester domain.UserID) error
}

const defaultHistoryLimit = 50

type messageService struct {
	messages ports.MessageRepository
}

func NewMessageService(messages ports.MessageRepository) MessageService {
	return &messageService{messages: messages}
}

func (s *messageService) Create(ctx context.Context, sender domain.Identity, content string, receiverID domain.UserID, groupID domain.GroupID) (*domain.Message, error) {
	if err := validation.ValidateMessageContent(content); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:         domain.MessageID(uuid.New().String()),
		SenderID:   sender.ID,
		SenderName: sender.Name,
		ReceiverID: receiverID,
		GroupID:    groupID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}

	if err := msg.ValidateTarget(); err != nil {
		return nil, err
	}
	if groupID != "" {
		if err := validation.ValidateGroupID(string(groupID)); err != nil {
			return nil, err
		}
	}

	ctx, span := tracing.TraceDatabaseOperation(ctx, "insert", "message")
	defer span.End()

	if err := s.messages.Create(ctx, msg); err != nil {
		tracing.RecordError(ctx, err)
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}
	return msg, nil
}

func (s *messageService) Conversation(ctx context.Context, a, b domain.UserID, limit int) ([]*domain.Message, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.messages.Conversation(ctx, a, b, limit)
}

func (s *messageService) GroupHistory(ctx context.Context, groupID domain.GroupID, limit int) ([]*domain.Message, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.messages.GroupHistory(ctx, groupID, limit)
}

func (s *messageService) Delete(ctx context.Context, id domain.MessageID, requester domain.UserID) error {
	return s.messages.SoftDelete(ctx, id, requester)
}
