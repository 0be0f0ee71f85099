package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/taskboard/internal/domain"
	"github.com/ErlanBelekov/taskboard/internal/metrics"
	"github.com/ErlanBelekov/taskboard/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*limit far away from integer overflow.
	MaxPage = 1_000_000
)

type TaskUsecase struct {
	repo     repository.TaskRepository
	validate *validator.Validate
}

func NewTaskUsecase(repo repository.TaskRepository) *TaskUsecase {
	return &TaskUsecase{repo: repo, validate: validator.New()}
}

// ValidateTaskID accepts only the canonical 36-character uuid form.
func ValidateTaskID(id string) error {
	if len(id) != 36 {
		return domain.ErrInvalidTaskID
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrInvalidTaskID
	}
	return nil
}

type ListTasksInput struct {
	UserID string
	Page   int
	Limit  int
	Search string
	Status string
}

type ListTasksResult struct {
	Tasks []*domain.Task
	Page  int
	Limit int
	Total int
	Pages int
}

func (u *TaskUsecase) ListTasks(ctx context.Context, input ListTasksInput) (ListTasksResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	tasks, total, err := u.repo.List(ctx, repository.ListTasksInput{
		UserID: input.UserID,
		// Any status other than "all" is an exact match, so an unknown value
		// yields an empty page. Search is matched verbatim.
		Status: domain.TaskStatus(input.Status),
		Search: input.Search,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return ListTasksResult{}, fmt.Errorf("list tasks: %w", err)
	}

	return ListTasksResult{
		Tasks: tasks,
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: (total + limit - 1) / limit,
	}, nil
}

func (u *TaskUsecase) GetTask(ctx context.Context, id, userID string) (*domain.Task, error) {
	if err := ValidateTaskID(id); err != nil {
		return nil, err
	}
	t, err := u.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

type CreateTaskInput struct {
	UserID      string
	Title       string
	Description string
	Status      *string // nil = pending
}

func (u *TaskUsecase) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	status := domain.TaskStatusPending
	if input.Status != nil {
		status = domain.TaskStatus(*input.Status)
	}

	if err := u.checkTitle(title); err != nil {
		return nil, err
	}
	if err := u.checkDescription(description); err != nil {
		return nil, err
	}
	if err := u.checkStatus(status); err != nil {
		return nil, err
	}

	created, err := u.repo.Create(ctx, &domain.Task{
		UserID:      input.UserID,
		Title:       title,
		Description: description,
		Status:      status,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	metrics.TaskMutationsTotal.WithLabelValues("create").Inc()
	return created, nil
}

type UpdateTaskInput struct {
	ID          string
	UserID      string
	Title       *string
	Description *string
	Status      *string
}

// UpdateTask overwrites only the fields that are non-nil in input.
func (u *TaskUsecase) UpdateTask(ctx context.Context, input UpdateTaskInput) (*domain.Task, error) {
	if err := ValidateTaskID(input.ID); err != nil {
		return nil, err
	}

	var patch domain.TaskPatch
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := u.checkTitle(title); err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if err := u.checkDescription(description); err != nil {
			return nil, err
		}
		patch.Description = &description
	}
	if input.Status != nil {
		status := domain.TaskStatus(*input.Status)
		if err := u.checkStatus(status); err != nil {
			return nil, err
		}
		patch.Status = &status
	}

	updated, err := u.repo.Update(ctx, input.ID, input.UserID, patch)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	metrics.TaskMutationsTotal.WithLabelValues("update").Inc()
	return updated, nil
}

func (u *TaskUsecase) DeleteTask(ctx context.Context, id, userID string) error {
	if err := ValidateTaskID(id); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	metrics.TaskMutationsTotal.WithLabelValues("delete").Inc()
	return nil
}

func (u *TaskUsecase) checkTitle(title string) error {
	return u.checkField("title", "Title", title, fmt.Sprintf("required,max=%d", domain.MaxTitleLength))
}

func (u *TaskUsecase) checkDescription(description string) error {
	return u.checkField("description", "Description", description, fmt.Sprintf("required,max=%d", domain.MaxDescriptionLength))
}

func (u *TaskUsecase) checkStatus(status domain.TaskStatus) error {
	return u.checkField("status", "Status", string(status), "oneof=pending done")
}

// checkField runs a validator tag against one value and turns the first
// failure into a *domain.ValidationError with a user-facing message.
func (u *TaskUsecase) checkField(field, label, value, tag string) error {
	err := u.validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &domain.ValidationError{Field: field, Message: label + " is invalid"}
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = label + " is required"
	case "max":
		msg = fmt.Sprintf("%s cannot exceed %s characters", label, fe.Param())
	case "oneof":
		msg = fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		msg = label + " is invalid"
	}
	return &domain.ValidationError{Field: field, Message: msg}
}
