package assessment

import "context"

// Store is the persistence contract. The local and remote backends implement
// the same operation set and return the same shapes, so callers never need to
// know which one they hold. A backend is chosen once at startup.
//
// Lookups of unknown ids return an error wrapping ErrNotFound. Failures to
// reach the backend wrap ErrUnavailable.
type Store interface {
	ListTasks(ctx context.Context) ([]Task, error)
	ListTemplates(ctx context.Context) ([]Template, error)
	Stats(ctx context.Context) (Stats, error)

	// CreateTask persists a new task in draft status and generates its
	// checklist items from the referenced template.
	CreateTask(ctx context.Context, draft TaskDraft) (Task, error)
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (Task, error)
	// DeleteTask removes the task, its items, and any cached result.
	DeleteTask(ctx context.Context, id string) error

	ListItems(ctx context.Context, taskID string) ([]Item, error)
	// UpdateItem merges patch into the item and invalidates the task's
	// cached result.
	UpdateItem(ctx context.Context, taskID, itemID string, patch ItemPatch) (Item, error)

	// GetResult returns the cached result, computing and caching it first
	// when no cache entry exists.
	GetResult(ctx context.Context, taskID string) (Result, error)
}
