package repository

import (
	"context"

	"github.com/ErlanBelekov/taskboard/internal/domain"
)

type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, email, passwordHash string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
