package client

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PageKey identifies one cached list page. Limit is part of the key so two
// views with different page sizes never share an entry.
type PageKey struct {
	Page   int
	Limit  int
	Search string
	Status string
}

type OpKind int

const (
	OpCreate OpKind = iota
	OpUpdate
	OpDelete
)

// Op is a local edit that has been sent to the server but not yet settled.
// Create carries the provisional task, update carries TaskID and Patch,
// delete carries TaskID.
type Op struct {
	Kind   OpKind
	TaskID string
	Task   Task
	Patch  TaskPatch
}

// Cache holds server list pages plus an overlay of pending operations. Reads
// return the server page with the overlay applied. Settling an operation
// drops it from the overlay and invalidates every page, whether the request
// succeeded or not, so the next read goes back to the server.
type Cache struct {
	mu    sync.Mutex
	pages map[PageKey]TaskPage
	ops   map[string]Op
	order []string
	gen   uint64
	now   func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		pages: make(map[PageKey]TaskPage),
		ops:   make(map[string]Op),
		now:   time.Now,
	}
}

// Put stores an authoritative page fetched from the server.
func (c *Cache) Put(key PageKey, page TaskPage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	page.Tasks = append([]Task(nil), page.Tasks...)
	c.pages[key] = page
}

// Generation changes every time an operation settles. Capture it before
// fetching a page and pass it to PutIfCurrent.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// PutIfCurrent stores page only if no operation settled since gen was read,
// and reports whether it did. A page fetched across a settle may predate the
// settled write and must not be cached.
func (c *Cache) PutIfCurrent(key PageKey, page TaskPage, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	page.Tasks = append([]Task(nil), page.Tasks...)
	c.pages[key] = page
	return true
}

// Page returns the cached page for key with pending operations applied.
func (c *Cache) Page(key PageKey) (TaskPage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	base, ok := c.pages[key]
	if !ok {
		return TaskPage{}, false
	}
	return c.overlay(key, base), true
}

// Begin records op in the overlay and returns its id.
func (c *Cache) Begin(op Op) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.NewString()
	if op.Kind == OpCreate {
		now := c.now()
		if op.Task.ID == "" {
			op.Task.ID = "pending-" + id
		}
		if op.Task.Status == "" {
			op.Task.Status = "pending"
		}
		op.Task.CreatedAt, op.Task.UpdatedAt = now, now
	}
	c.ops[id] = op
	c.order = append(c.order, id)
	return id
}

// Settle removes the operation and invalidates all cached pages.
func (c *Cache) Settle(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.ops, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.gen++
	clear(c.pages)
}

// Pending reports how many operations are still unsettled.
func (c *Cache) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ops)
}

func (c *Cache) overlay(key PageKey, base TaskPage) TaskPage {
	out := TaskPage{Pagination: base.Pagination}
	tasks := append([]Task(nil), base.Tasks...)

	for _, id := range c.order {
		op := c.ops[id]
		switch op.Kind {
		case OpCreate:
			if key.Page <= 1 && matches(op.Task, key) {
				tasks = append([]Task{op.Task}, tasks...)
				out.Pagination.Total++
			}
		case OpUpdate:
			for i := range tasks {
				if tasks[i].ID == op.TaskID {
					tasks[i] = applyPatch(tasks[i], op.Patch, c.now())
				}
			}
		case OpDelete:
			for i := range tasks {
				if tasks[i].ID == op.TaskID {
					tasks = append(tasks[:i], tasks[i+1:]...)
					out.Pagination.Total--
					break
				}
			}
		}
	}

	if limit := out.Pagination.Limit; limit > 0 {
		if len(tasks) > limit {
			tasks = tasks[:limit]
		}
		out.Pagination.Pages = (out.Pagination.Total + limit - 1) / limit
	}
	out.Tasks = tasks
	return out
}

func applyPatch(t Task, p TaskPatch, now time.Time) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = now
	return t
}

// matches mirrors the server's list filter: status equality unless "all" or
// empty, and a case-insensitive substring search over title and description.
func matches(t Task, key PageKey) bool {
	if key.Status != "" && key.Status != "all" && t.Status != key.Status {
		return false
	}
	if key.Search == "" {
		return true
	}
	s := strings.ToLower(key.Search)
	return strings.Contains(strings.ToLower(t.Title), s) ||
		strings.Contains(strings.ToLower(t.Description), s)
}
