package domain

import (
	"errors"
	"fmt"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusDone    TaskStatus = "done"

	// TaskStatusAll is accepted by list filters and means "no status filter".
	TaskStatusAll TaskStatus = "all"
)

func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusDone
}

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidTaskID = errors.New("invalid task id")
	ErrValidation    = errors.New("validation failed")
)

// ValidationError reports the first field that failed validation.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch carries the fields of a partial update. Nil means "leave as is".
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}
