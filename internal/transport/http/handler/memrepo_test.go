package handler_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ErlanBelekov/taskboard/internal/domain"
	"github.com/ErlanBelekov/taskboard/internal/repository"
	"github.com/google/uuid"
)

// memTaskRepo mirrors the postgres repository's contract in memory. The
// clock advances a millisecond per call so created_at ordering is strict.
type memTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
	clock time.Time
	err   error // returned by every call when set
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{
		tasks: make(map[string]*domain.Task),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memTaskRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Millisecond)
	return r.clock
}

func (r *memTaskRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

func (r *memTaskRepo) List(_ context.Context, input repository.ListTasksInput) ([]*domain.Task, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, 0, r.err
	}

	search := strings.ToLower(input.Search)
	var matched []*domain.Task
	for _, t := range r.tasks {
		if t.UserID != input.UserID {
			continue
		}
		if input.Status != "" && input.Status != domain.TaskStatusAll && t.Status != input.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		cp := *t
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if input.Offset >= total {
		return []*domain.Task{}, total, nil
	}
	end := input.Offset + input.Limit
	if end > total {
		end = total
	}
	return matched[input.Offset:end], total, nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id, userID string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	now := r.tick()
	t := *task
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.tasks[t.ID] = &t
	cp := t
	return &cp, nil
}

func (r *memTaskRepo) Update(_ context.Context, id, userID string, patch domain.TaskPatch) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	t.UpdatedAt = r.tick()
	cp := *t
	return &cp, nil
}

func (r *memTaskRepo) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}
