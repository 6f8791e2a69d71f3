package xormstore

import (
	"context"
	"fmt"
	"time"

	"menthub/internal/core/domain"
	"menthub/internal/core/ports"

	"github.com/go-xorm/xorm"
)

type MessageRepository struct {
	engine *xorm.Engine
}

func NewMessageRepository(engine *xorm.Engine) *MessageRepository {
	return &MessageRepository{engine: engine}
}

var _ ports.MessageRepository = (*MessageRepository)(nil)

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	if _, err := r.engine.Insert(toMessageRow(msg)); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id domain.MessageID) (*domain.Message, error) {
	row := &messageRow{ID: string(id)}
	found, err := r.engine.Get(row)
	if err != nil {
		return nil, fmt.Errorf("failed to query message: %w", err)
	}
	if !found || row.DeletedAt != nil {
		return nil, domain.ErrMessageNotFound
	}
	return row.toDomain(), nil
}

func (r *MessageRepository) Conversation(ctx context.Context, a, b domain.UserID, limit int) ([]*domain.Message, error) {
	var rows []messageRow
	err := r.engine.
		Where("deleted_at IS NULL").
		And("group_id = ''").
		And("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			string(a), string(b), string(b), string(a)).
		Desc("created_at").
		Limit(limit).
		Find(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	return toDomainMessages(rows), nil
}

func (r *MessageRepository) GroupHistory(ctx context.Context, groupID domain.GroupID, limit int) ([]*domain.Message, error) {
	var rows []messageRow
	err := r.engine.
		Where("deleted_at IS NULL").
		And("group_id = ?", string(groupID)).
		Desc("created_at").
		Limit(limit).
		Find(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query group history: %w", err)
	}
	return toDomainMessages(rows), nil
}

func (r *MessageRepository) SoftDelete(ctx context.Context, id domain.MessageID, requester domain.UserID) error {
	row := &messageRow{ID: string(id)}
	found, err := r.engine.Get(row)
	if err != nil {
		return fmt.Errorf("failed to query message: %w", err)
	}
	if !found || row.DeletedAt != nil {
		return domain.ErrMessageNotFound
	}
	if row.SenderID != string(requester) {
		return domain.ErrNotMessageSender
	}

	now := time.Now().UTC()
	row.DeletedAt = &now
	if _, err := r.engine.ID(row.ID).Cols("deleted_at").Update(row); err != nil {
		return fmt.Errorf("failed to soft-delete message: %w", err)
	}
	return nil
}

func toDomainMessages(rows []messageRow) []*domain.Message {
	msgs := make([]*domain.Message, 0, len(rows))
	for i := range rows {
		msgs = append(msgs, rows[i].toDomain())
	}
	return msgs
}
