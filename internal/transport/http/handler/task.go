package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ErlanBelekov/taskboard/internal/domain"
	"github.com/ErlanBelekov/taskboard/internal/usecase"
	"github.com/gin-gonic/gin"
)

// taskUsecaser is the subset of TaskUsecase the handler needs.
type taskUsecaser interface {
	ListTasks(ctx context.Context, input usecase.ListTasksInput) (usecase.ListTasksResult, error)
	GetTask(ctx context.Context, id, userID string) (*domain.Task, error)
	CreateTask(ctx context.Context, input usecase.CreateTaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, input usecase.UpdateTaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, id, userID string) error
}

type TaskHandler struct {
	tasks  taskUsecaser
	authn  authenticator
	logger *slog.Logger
}

func NewTaskHandler(tasks taskUsecaser, authn authenticator, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, authn: authn, logger: logger.With("component", "task_handler")}
}

// Pointer fields tell "absent" apart from "empty".
type taskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type taskResponse struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type paginationResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type listTasksResponse struct {
	Tasks      []taskResponse     `json:"tasks"`
	Pagination paginationResponse `json:"pagination"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// GET /tasks?page&limit&search&status
func (h *TaskHandler) List(ctx *gin.Context) {
	id, ok := requireIdentity(ctx, h.authn)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(ctx.Query("page"))
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	result, err := h.tasks.ListTasks(ctx.Request.Context(), usecase.ListTasksInput{
		UserID: id.UserID,
		Page:   page,
		Limit:  limit,
		Search: ctx.Query("search"),
		Status: ctx.Query("status"),
	})
	if err != nil {
		h.fail(ctx, "list tasks", err)
		return
	}

	items := make([]taskResponse, len(result.Tasks))
	for i, t := range result.Tasks {
		items[i] = toTaskResponse(t)
	}
	ctx.JSON(http.StatusOK, listTasksResponse{
		Tasks: items,
		Pagination: paginationResponse{
			Page:  result.Page,
			Limit: result.Limit,
			Total: result.Total,
			Pages: result.Pages,
		},
	})
}

// POST /tasks
func (h *TaskHandler) Create(ctx *gin.Context) {
	id, ok := requireIdentity(ctx, h.authn)
	if !ok {
		return
	}

	var req taskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}

	input := usecase.CreateTaskInput{UserID: id.UserID, Status: req.Status}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Description != nil {
		input.Description = *req.Description
	}

	task, err := h.tasks.CreateTask(ctx.Request.Context(), input)
	if err != nil {
		h.fail(ctx, "create task", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    toTaskResponse(task),
	})
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(ctx *gin.Context) {
	id, ok := requireIdentity(ctx, h.authn)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(ctx.Request.Context(), ctx.Param("id"), id.UserID)
	if err != nil {
		h.fail(ctx, "get task", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"task": toTaskResponse(task)})
}

// PUT /tasks/:id
func (h *TaskHandler) Update(ctx *gin.Context) {
	id, ok := requireIdentity(ctx, h.authn)
	if !ok {
		return
	}

	taskID := ctx.Param("id")
	if err := usecase.ValidateTaskID(taskID); err != nil {
		h.fail(ctx, "update task", err)
		return
	}

	var req taskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}

	task, err := h.tasks.UpdateTask(ctx.Request.Context(), usecase.UpdateTaskInput{
		ID:          taskID,
		UserID:      id.UserID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.fail(ctx, "update task", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    toTaskResponse(task),
	})
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(ctx *gin.Context) {
	id, ok := requireIdentity(ctx, h.authn)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(ctx.Request.Context(), ctx.Param("id"), id.UserID); err != nil {
		h.fail(ctx, "delete task", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// fail maps usecase errors onto status codes. Anything unrecognised is
// logged and reported as a bare 500.
func (h *TaskHandler) fail(ctx *gin.Context, op string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrInvalidTaskID):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errInvalidTaskID})
	case errors.As(err, &verr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, domain.ErrTaskNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
	default:
		h.logger.ErrorContext(ctx.Request.Context(), op, "task_id", ctx.Param("id"), "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
