package user

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks -mock_names=Repository=MockUserRepository gramroute/internal/domain/user Repository

// Repository defines the interface for user persistence
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	SetAdmin(ctx context.Context, userID uuid.UUID, isAdmin bool) error
}
