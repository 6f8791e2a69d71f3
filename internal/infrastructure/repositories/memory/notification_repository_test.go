package memory

import (
	"context"
	"testing"
	"time"

	"menthub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotification(t *testing.T, repo *MemoryNotificationRepository, id string, userID domain.UserID) {
	t.Helper()

	require.NoError(t, repo.Create(context.Background(), &domain.Notification{
		ID:        domain.NotificationID(id),
		UserID:    userID,
		Title:     "New message",
		Body:      "body " + id,
		Category:  domain.NotificationMessage,
		CreatedAt: time.Now().UTC(),
	}))
}

func TestNotificationRepository_MarkReadIsIdempotent(t *testing.T) {
	repo := NewMemoryNotificationRepository()
	seedNotification(t, repo, "n1", "bob")

	require.NoError(t, repo.MarkRead(context.Background(), "n1", "bob"))

	// Marking an already-read notification succeeds again.
	require.NoError(t, repo.MarkRead(context.Background(), "n1", "bob"))

	list, err := repo.ListByUser(context.Background(), "bob", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)
}

func TestNotificationRepository_MarkReadScopedToOwner(t *testing.T) {
	repo := NewMemoryNotificationRepository()
	seedNotification(t, repo, "n1", "bob")

	err := repo.MarkRead(context.Background(), "n1", "alice")
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)

	err = repo.MarkRead(context.Background(), "nope", "bob")
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	repo := NewMemoryNotificationRepository()
	seedNotification(t, repo, "n1", "bob")
	seedNotification(t, repo, "n2", "bob")
	seedNotification(t, repo, "n3", "alice")

	require.NoError(t, repo.MarkAllRead(context.Background(), "bob"))

	// Repeating is a no-op, never an error.
	require.NoError(t, repo.MarkAllRead(context.Background(), "bob"))

	bobs, err := repo.ListByUser(context.Background(), "bob", 10)
	require.NoError(t, err)
	for _, n := range bobs {
		assert.True(t, n.Read)
	}

	others, err := repo.ListByUser(context.Background(), "alice", 10)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.False(t, others[0].Read)
}
