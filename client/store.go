package client

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"
)

// Store reads task pages through the cache and runs mutations optimistically:
// the edit is visible to readers while the request is in flight and is rolled
// back by settling if the server rejects it.
type Store struct {
	api   *Client
	cache *Cache
	group singleflight.Group
}

func NewStore(api *Client, cache *Cache) *Store {
	if cache == nil {
		cache = NewCache()
	}
	return &Store{api: api, cache: cache}
}

func (s *Store) Cache() *Cache { return s.cache }

// List serves a cached page when one exists and fetches it otherwise.
// Concurrent misses for the same page share one request.
func (s *Store) List(ctx context.Context, p ListParams) (TaskPage, error) {
	key := PageKey{Page: p.Page, Limit: p.Limit, Search: p.Search, Status: p.Status}
	if key.Page < 1 {
		key.Page = 1
	}
	if page, ok := s.cache.Page(key); ok {
		return page, nil
	}

	sfKey := fmt.Sprintf("%d|%d|%s|%q", key.Page, key.Limit, key.Status, key.Search)
	v, err, _ := s.group.Do(sfKey, func() (any, error) {
		gen := s.cache.Generation()
		page, err := s.api.ListTasks(ctx, p)
		if err != nil {
			return nil, err
		}
		s.cache.PutIfCurrent(key, *page, gen)
		return *page, nil
	})
	if err != nil {
		return TaskPage{}, err
	}

	if cached, ok := s.cache.Page(key); ok {
		return cached, nil
	}
	// A mutation settled while the request was in flight. The page was not
	// cached, so the next List goes back to the server.
	return v.(TaskPage), nil
}

func (s *Store) Create(ctx context.Context, in TaskInput) (*Task, error) {
	id := s.cache.Begin(Op{Kind: OpCreate, Task: Task{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Status:      in.Status,
	}})
	defer s.cache.Settle(id)
	return s.api.CreateTask(ctx, in)
}

func (s *Store) Update(ctx context.Context, taskID string, patch TaskPatch) (*Task, error) {
	id := s.cache.Begin(Op{Kind: OpUpdate, TaskID: taskID, Patch: patch})
	defer s.cache.Settle(id)
	return s.api.UpdateTask(ctx, taskID, patch)
}

func (s *Store) Delete(ctx context.Context, taskID string) error {
	id := s.cache.Begin(Op{Kind: OpDelete, TaskID: taskID})
	defer s.cache.Settle(id)
	return s.api.DeleteTask(ctx, taskID)
}
