package memory

import (
	"context"
	"testing"

	"menthub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUserRecord(t *testing.T, repo *MemoryUserRepository, id string) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:     domain.UserID(id),
		Name:   "User " + id,
		Email:  id + "@example.com",
		Role:   domain.RoleMentee,
		Status: domain.StatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository_ReadsReturnDetachedCopies(t *testing.T) {
	repo := NewMemoryUserRepository()
	seedUserRecord(t, repo, "ada")

	byID, err := repo.GetByID(context.Background(), "ada")
	require.NoError(t, err)

	// Mutating a read result must not leak into the store.
	byID.Status = domain.StatusInactive
	byID.Name = "Changed"

	again, err := repo.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, again.Status)
	assert.Equal(t, "User ada", again.Name)
}

func TestUserRepository_CreateDetachesFromCaller(t *testing.T) {
	repo := NewMemoryUserRepository()
	user := seedUserRecord(t, repo, "ada")

	user.Status = domain.StatusInactive

	stored, err := repo.GetByID(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, stored.Status)
}

func TestUserRepository_UpdatePersists(t *testing.T) {
	repo := NewMemoryUserRepository()
	user := seedUserRecord(t, repo, "ada")

	user.Status = domain.StatusInactive
	require.NoError(t, repo.Update(context.Background(), user))

	stored, err := repo.GetByID(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, stored.Status)
}

func TestUserRepository_UpdateUnknownUser(t *testing.T) {
	repo := NewMemoryUserRepository()

	err := repo.Update(context.Background(), &domain.User{ID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
