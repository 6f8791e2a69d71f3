package xormstore

import (
	"context"
	"fmt"

	"menthub/internal/core/domain"
	"menthub/internal/core/ports"

	"github.com/go-xorm/xorm"
)

type UserRepository struct {
	engine *xorm.Engine
}

func NewUserRepository(engine *xorm.Engine) *UserRepository {
	return &UserRepository{engine: engine}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, err := r.engine.Insert(toUserRow(user)); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	row := &userRow{ID: string(id)}
	found, err := r.engine.Get(row)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return row.toDomain(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := &userRow{Email: email}
	found, err := r.engine.Get(row)
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return row.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	// MySQL reports changed rows rather than matched rows, so a no-op
	// update is indistinguishable from a missing record. Check existence
	// separately instead of trusting the affected count.
	existing := &userRow{ID: string(user.ID)}
	found, err := r.engine.Get(existing)
	if err != nil {
		return fmt.Errorf("failed to query user: %w", err)
	}
	if !found {
		return domain.ErrUserNotFound
	}
	if _, err := r.engine.ID(string(user.ID)).AllCols().Update(toUserRow(user)); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
