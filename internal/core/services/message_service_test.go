package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"menthub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMessageRepo struct {
	created   []*domain.Message
	createErr error
}

func (r *stubMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, msg)
	return nil
}

func (r *stubMessageRepo) GetByID(ctx context.Context, id domain.MessageID) (*domain.Message, error) {
	return nil, domain.ErrMessageNotFound
}

func (r *stubMessageRepo) Conversation(ctx context.Context, a, b domain.UserID, limit int) ([]*domain.Message, error) {
	return nil, nil
}

func (r *stubMessageRepo) GroupHistory(ctx context.Context, groupID domain.GroupID, limit int) ([]*domain.Message, error) {
	return nil, nil
}

func (r *stubMessageRepo) SoftDelete(ctx context.Context, id domain.MessageID, requester domain.UserID) error {
	return nil
}

var sender = domain.Identity{ID: "alice", Name: "Alice", Role: domain.RoleMentee}

func TestMessageService_CreateStampsServerFields(t *testing.T) {
	repo := &stubMessageRepo{}
	svc := NewMessageService(repo)

	msg, err := svc.Create(context.Background(), sender, "hello", "bob", "")
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, domain.UserID("alice"), msg.SenderID)
	assert.Equal(t, "Alice", msg.SenderName)
	assert.False(t, msg.CreatedAt.IsZero())
	assert.Equal(t, "UTC", msg.CreatedAt.Location().String())
	require.Len(t, repo.created, 1)
}

func TestMessageService_CreateRejectsBadTargets(t *testing.T) {
	repo := &stubMessageRepo{}
	svc := NewMessageService(repo)

	tests := []struct {
		name       string
		receiverID domain.UserID
		groupID    domain.GroupID
		wantErr    error
	}{
		{"both targets", "bob", "study-1", domain.ErrAmbiguousTarget},
		{"no target", "", "", domain.ErrMissingTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), sender, "hello", tt.receiverID, tt.groupID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, repo.created)
}

func TestMessageService_CreateRejectsBadContent(t *testing.T) {
	repo := &stubMessageRepo{}
	svc := NewMessageService(repo)

	_, err := svc.Create(context.Background(), sender, "   ", "bob", "")
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), sender, strings.Repeat("x", 2001), "bob", "")
	assert.Error(t, err)

	assert.Empty(t, repo.created)
}

func TestMessageService_CreateRejectsMalformedGroupID(t *testing.T) {
	repo := &stubMessageRepo{}
	svc := NewMessageService(repo)

	for _, groupID := range []domain.GroupID{"has spaces", "slash/inside", domain.GroupID(strings.Repeat("g", 101))} {
		_, err := svc.Create(context.Background(), sender, "hello", "", groupID)
		assert.Error(t, err, "group id %q", groupID)
	}
	assert.Empty(t, repo.created)
}

func TestMessageService_CreateWrapsRepoError(t *testing.T) {
	repoErr := errors.New("connection refused")
	svc := NewMessageService(&stubMessageRepo{createErr: repoErr})

	_, err := svc.Create(context.Background(), sender, "hello", "bob", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, repoErr)
}
