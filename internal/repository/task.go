package repository

import (
	"context"

	"github.com/ErlanBelekov/taskboard/internal/domain"
)

type ListTasksInput struct {
	UserID string
	Status domain.TaskStatus // empty or "all" = every status
	Search string            // case-insensitive substring of title or description
	Offset int
	Limit  int
}

// TaskRepository is scoped by owner on every call: a task owned by someone
// else is indistinguishable from a missing one (domain.ErrTaskNotFound).
type TaskRepository interface {
	// List returns one page ordered by created_at DESC plus the total number
	// of matching tasks before pagination.
	List(ctx context.Context, input ListTasksInput) ([]*domain.Task, int, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// Update applies only the non-nil fields of patch and bumps updated_at.
	Update(ctx context.Context, id, userID string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id, userID string) error
}
