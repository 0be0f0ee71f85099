package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ErlanBelekov/taskboard/internal/domain"
	"github.com/ErlanBelekov/taskboard/internal/repository"
	"github.com/ErlanBelekov/taskboard/internal/usecase"
)

type fakeTaskRepo struct {
	list    func(ctx context.Context, input repository.ListTasksInput) ([]*domain.Task, int, error)
	getByID func(ctx context.Context, id, userID string) (*domain.Task, error)
	create  func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	update  func(ctx context.Context, id, userID string, patch domain.TaskPatch) (*domain.Task, error)
	delete  func(ctx context.Context, id, userID string) error
}

func (r *fakeTaskRepo) List(ctx context.Context, input repository.ListTasksInput) ([]*domain.Task, int, error) {
	return r.list(ctx, input)
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id, userID string) (*domain.Task, error) {
	return r.getByID(ctx, id, userID)
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	return r.create(ctx, task)
}

func (r *fakeTaskRepo) Update(ctx context.Context, id, userID string, patch domain.TaskPatch) (*domain.Task, error) {
	return r.update(ctx, id, userID, patch)
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id, userID string) error {
	return r.delete(ctx, id, userID)
}

const testTaskID = "6f1c1c43-3d7e-4d0b-9a53-3c2f0a8f9b10"

func ptr[T any](v T) *T { return &v }

// ---- ListTasks ----

func TestListTasks_DefaultsAndPageMath(t *testing.T) {
	var got repository.ListTasksInput
	repo := &fakeTaskRepo{
		list: func(_ context.Context, input repository.ListTasksInput) ([]*domain.Task, int, error) {
			got = input
			return nil, 21, nil
		},
	}

	res, err := usecase.NewTaskUsecase(repo).ListTasks(context.Background(), usecase.ListTasksInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Offset != 0 || got.Limit != usecase.DefaultPageSize {
		t.Errorf("offset/limit = %d/%d, want 0/%d", got.Offset, got.Limit, usecase.DefaultPageSize)
	}
	if res.Page != 1 || res.Limit != 10 || res.Total != 21 || res.Pages != 3 {
		t.Errorf("result = %+v, want page 1 limit 10 total 21 pages 3", res)
	}
}

func TestListTasks_PagesIsCeilOfTotalOverLimit(t *testing.T) {
	cases := []struct{ total, limit, pages int }{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 7, 15},
	}
	for _, c := range cases {
		repo := &fakeTaskRepo{
			list: func(_ context.Context, _ repository.ListTasksInput) ([]*domain.Task, int, error) {
				return nil, c.total, nil
			},
		}
		res, err := usecase.NewTaskUsecase(repo).ListTasks(context.Background(), usecase.ListTasksInput{UserID: "u1", Limit: c.limit})
		if err != nil {
			t.Fatal(err)
		}
		if res.Pages != c.pages {
			t.Errorf("total=%d limit=%d: pages = %d, want %d", c.total, c.limit, res.Pages, c.pages)
		}
	}
}

func TestListTasks_OffsetClampingAndFilters(t *testing.T) {
	var got repository.ListTasksInput
	repo := &fakeTaskRepo{
		list: func(_ context.Context, input repository.ListTasksInput) ([]*domain.Task, int, error) {
			got = input
			return nil, 0, nil
		},
	}

	_, err := usecase.NewTaskUsecase(repo).ListTasks(context.Background(), usecase.ListTasksInput{
		UserID: "u1",
		Page:   3,
		Limit:  500,
		Search: "  abc ",
		Status: "done",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Limit != usecase.MaxPageSize || got.Offset != 2*usecase.MaxPageSize {
		t.Errorf("offset/limit = %d/%d", got.Offset, got.Limit)
	}
	if got.Search != "  abc " || got.Status != domain.TaskStatusDone || got.UserID != "u1" {
		t.Errorf("filter = %+v", got)
	}
}

func TestListTasks_UnknownStatusIsExactMatch(t *testing.T) {
	var got repository.ListTasksInput
	repo := &fakeTaskRepo{
		list: func(_ context.Context, input repository.ListTasksInput) ([]*domain.Task, int, error) {
			got = input
			return nil, 0, nil
		},
	}

	res, err := usecase.NewTaskUsecase(repo).ListTasks(context.Background(), usecase.ListTasksInput{UserID: "u1", Status: "archived"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != "archived" {
		t.Errorf("status passed to repo = %q, want archived", got.Status)
	}
	if len(res.Tasks) != 0 || res.Total != 0 || res.Pages != 0 {
		t.Errorf("result = %+v, want empty page", res)
	}
}

// ---- CreateTask ----

func TestCreateTask_TrimsAndDefaultsToPending(t *testing.T) {
	var stored *domain.Task
	repo := &fakeTaskRepo{
		create: func(_ context.Context, task *domain.Task) (*domain.Task, error) {
			stored = task
			return task, nil
		},
	}

	_, err := usecase.NewTaskUsecase(repo).CreateTask(context.Background(), usecase.CreateTaskInput{
		UserID:      "u1",
		Title:       "  A ",
		Description: "\tB\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Title != "A" || stored.Description != "B" {
		t.Errorf("stored = %+v, want trimmed fields", stored)
	}
	if stored.Status != domain.TaskStatusPending {
		t.Errorf("status = %q, want pending", stored.Status)
	}
	if stored.UserID != "u1" {
		t.Errorf("owner = %q", stored.UserID)
	}
}

func TestCreateTask_ValidationNeverReachesRepo(t *testing.T) {
	repo := &fakeTaskRepo{
		create: func(_ context.Context, _ *domain.Task) (*domain.Task, error) {
			t.Fatal("repository must not be called on invalid input")
			return nil, nil
		},
	}
	uc := usecase.NewTaskUsecase(repo)

	cases := []struct {
		name  string
		input usecase.CreateTaskInput
		field string
	}{
		{"empty title", usecase.CreateTaskInput{Title: "", Description: "x"}, "title"},
		{"blank title", usecase.CreateTaskInput{Title: "   ", Description: "x"}, "title"},
		{"missing description", usecase.CreateTaskInput{Title: "x"}, "description"},
		{"long title", usecase.CreateTaskInput{Title: strings.Repeat("t", 101), Description: "x"}, "title"},
		{"long description", usecase.CreateTaskInput{Title: "x", Description: strings.Repeat("d", 501)}, "description"},
		{"bad status", usecase.CreateTaskInput{Title: "x", Description: "y", Status: ptr("archived")}, "status"},
	}
	for _, c := range cases {
		_, err := uc.CreateTask(context.Background(), c.input)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: want ValidationError, got %v", c.name, err)
			continue
		}
		if verr.Field != c.field {
			t.Errorf("%s: field = %q, want %q", c.name, verr.Field, c.field)
		}
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: errors.Is(err, ErrValidation) = false", c.name)
		}
	}
}

func TestCreateTask_LengthCountsRunesNotBytes(t *testing.T) {
	repo := &fakeTaskRepo{
		create: func(_ context.Context, task *domain.Task) (*domain.Task, error) { return task, nil },
	}

	_, err := usecase.NewTaskUsecase(repo).CreateTask(context.Background(), usecase.CreateTaskInput{
		Title:       strings.Repeat("é", 100),
		Description: "ok",
	})
	if err != nil {
		t.Errorf("100 two-byte runes should be accepted, got %v", err)
	}
}

func TestCreateTask_ValidationMessages(t *testing.T) {
	uc := usecase.NewTaskUsecase(&fakeTaskRepo{})

	_, err := uc.CreateTask(context.Background(), usecase.CreateTaskInput{Title: "", Description: "x"})
	if err == nil || err.Error() != "title: Title is required" {
		t.Errorf("err = %v", err)
	}

	_, err = uc.CreateTask(context.Background(), usecase.CreateTaskInput{Title: strings.Repeat("t", 101), Description: "x"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Message != "Title cannot exceed 100 characters" {
		t.Errorf("err = %v", err)
	}
}

// ---- GetTask / DeleteTask ----

func TestGetTask_MalformedIDIsValidationNotNotFound(t *testing.T) {
	repo := &fakeTaskRepo{
		getByID: func(_ context.Context, _, _ string) (*domain.Task, error) {
			t.Fatal("repository must not be called with a malformed id")
			return nil, nil
		},
	}
	uc := usecase.NewTaskUsecase(repo)

	for _, id := range []string{"", "123", "not-a-uuid", "{" + testTaskID + "}", strings.ReplaceAll(testTaskID, "-", "")} {
		if _, err := uc.GetTask(context.Background(), id, "u1"); !errors.Is(err, domain.ErrInvalidTaskID) {
			t.Errorf("GetTask(%q): want ErrInvalidTaskID, got %v", id, err)
		}
	}
}

func TestGetTask_NotFoundPropagates(t *testing.T) {
	repo := &fakeTaskRepo{
		getByID: func(_ context.Context, _, _ string) (*domain.Task, error) { return nil, domain.ErrTaskNotFound },
	}

	_, err := usecase.NewTaskUsecase(repo).GetTask(context.Background(), testTaskID, "u1")
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("want ErrTaskNotFound, got %v", err)
	}
}

func TestDeleteTask_ScopesByOwner(t *testing.T) {
	var gotID, gotUser string
	repo := &fakeTaskRepo{
		delete: func(_ context.Context, id, userID string) error {
			gotID, gotUser = id, userID
			return nil
		},
	}

	if err := usecase.NewTaskUsecase(repo).DeleteTask(context.Background(), testTaskID, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != testTaskID || gotUser != "u1" {
		t.Errorf("delete(%q, %q)", gotID, gotUser)
	}
}

// ---- UpdateTask ----

func TestUpdateTask_OnlyPresentFieldsArePatched(t *testing.T) {
	var got domain.TaskPatch
	repo := &fakeTaskRepo{
		update: func(_ context.Context, _, _ string, patch domain.TaskPatch) (*domain.Task, error) {
			got = patch
			return &domain.Task{ID: testTaskID}, nil
		},
	}

	_, err := usecase.NewTaskUsecase(repo).UpdateTask(context.Background(), usecase.UpdateTaskInput{
		ID:     testTaskID,
		UserID: "u1",
		Status: ptr("done"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != nil || got.Description != nil {
		t.Errorf("title/description should be untouched, got %+v", got)
	}
	if got.Status == nil || *got.Status != domain.TaskStatusDone {
		t.Errorf("status patch = %v, want done", got.Status)
	}
}

func TestUpdateTask_TrimsAndValidatesPresentFields(t *testing.T) {
	var got domain.TaskPatch
	repo := &fakeTaskRepo{
		update: func(_ context.Context, _, _ string, patch domain.TaskPatch) (*domain.Task, error) {
			got = patch
			return &domain.Task{}, nil
		},
	}
	uc := usecase.NewTaskUsecase(repo)

	if _, err := uc.UpdateTask(context.Background(), usecase.UpdateTaskInput{ID: testTaskID, Title: ptr("  new ")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title == nil || *got.Title != "new" {
		t.Errorf("title patch = %v, want trimmed", got.Title)
	}

	_, err := uc.UpdateTask(context.Background(), usecase.UpdateTaskInput{ID: testTaskID, Description: ptr("  ")})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank description: want validation error, got %v", err)
	}
}

func TestUpdateTask_NotFoundPropagates(t *testing.T) {
	repo := &fakeTaskRepo{
		update: func(_ context.Context, _, _ string, _ domain.TaskPatch) (*domain.Task, error) {
			return nil, domain.ErrTaskNotFound
		},
	}

	_, err := usecase.NewTaskUsecase(repo).UpdateTask(context.Background(), usecase.UpdateTaskInput{ID: testTaskID, UserID: "u2"})
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("want ErrTaskNotFound, got %v", err)
	}
}
