// Package local implements assessment.Store on top of a key-value store.
//
// Data is namespaced by collection: the template catalog lives under
// "templates:catalog", each task under "tasks:<id>", and the per-task
// sub-collections under "items:<id>" and "results:<id>".
package local

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/catalog"
	"github.com/colonyops/assess/internal/core/checklist"
	"github.com/colonyops/assess/internal/core/kv"
	"github.com/colonyops/assess/internal/core/logging"
	"github.com/colonyops/assess/internal/core/scoring"
	"github.com/colonyops/assess/internal/data/stores"
)

const catalogKey = "catalog"

// Store is the local persistence backend.
type Store struct {
	kv        kv.KV
	templates *kv.TypedKV[[]assessment.Template]
	tasks     *kv.TypedKV[assessment.Task]
	items     *kv.TypedKV[[]assessment.Item]
	results   *kv.TypedKV[assessment.Result]

	seed  []assessment.Template
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

var _ assessment.Store = (*Store)(nil)

// New creates a local store over db. seed is written as the template catalog
// the first time templates are read and none exist yet.
func New(db kv.KV, seed []assessment.Template) *Store {
	return &Store{
		kv:        db,
		templates: kv.Scoped[[]assessment.Template](db, "templates"),
		tasks:     kv.Scoped[assessment.Task](db, "tasks"),
		items:     kv.Scoped[[]assessment.Item](db, "items"),
		results:   kv.Scoped[assessment.Result](db, "results"),
		seed:      seed,
		log:       logging.Component("local-store"),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.NewString() },
	}
}

// ListTemplates returns the stored catalog, seeding it on first use.
func (s *Store) ListTemplates(ctx context.Context) ([]assessment.Template, error) {
	var out []assessment.Template
	err := s.kv.Update(ctx, func(tx kv.KV) error {
		templates := s.templates.In(tx)

		stored, err := templates.Get(ctx, catalogKey)
		switch {
		case err == nil && len(stored) > 0:
			out = stored
			return nil
		case err != nil && !stores.IsNotFoundError(err):
			return storageErr("read templates", err)
		}

		s.log.Info().Int("count", len(s.seed)).Msg("seeding template catalog")
		if err := templates.Set(ctx, catalogKey, s.seed); err != nil {
			return storageErr("seed templates", err)
		}
		out = slices.Clone(s.seed)
		return nil
	})
	return out, err
}

// ListTasks returns every task in creation order.
func (s *Store) ListTasks(ctx context.Context) ([]assessment.Task, error) {
	tasks, err := s.tasks.All(ctx)
	if err != nil {
		return nil, storageErr("list tasks", err)
	}

	slices.SortStableFunc(tasks, func(a, b assessment.Task) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return tasks, nil
}

// Stats counts tasks by status over the full task list.
func (s *Store) Stats(ctx context.Context) (assessment.Stats, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return assessment.Stats{}, err
	}
	return assessment.StatsOf(tasks), nil
}

// CreateTask stores a new draft task and its generated checklist in one write.
func (s *Store) CreateTask(ctx context.Context, draft assessment.TaskDraft) (assessment.Task, error) {
	templates, err := s.ListTemplates(ctx)
	if err != nil {
		return assessment.Task{}, err
	}

	tpl, ok := catalog.Find(templates, draft.TemplateID)
	if !ok {
		return assessment.Task{}, fmt.Errorf("template %q: %w", draft.TemplateID, assessment.ErrNotFound)
	}

	now := s.now()
	task := assessment.Task{
		ID:           s.newID(),
		Name:         draft.Name,
		Organization: draft.Organization,
		TemplateID:   tpl.ID,
		Status:       assessment.StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	items := checklist.Generate(tpl)

	err = s.kv.Update(ctx, func(tx kv.KV) error {
		if err := s.tasks.In(tx).Set(ctx, task.ID, task); err != nil {
			return err
		}
		return s.items.In(tx).Set(ctx, task.ID, items)
	})
	if err != nil {
		return assessment.Task{}, storageErr("create task", err)
	}

	s.log.Debug().Ctx(ctx).
		Str("task_id", task.ID).
		Str("template_id", tpl.ID).
		Int("items", len(items)).
		Msg("task created")

	return task, nil
}

// GetTask returns a single task.
func (s *Store) GetTask(ctx context.Context, id string) (assessment.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return assessment.Task{}, lookupErr("task", id, err)
	}
	return task, nil
}

// UpdateTask merges patch into the task and bumps its updated_at.
func (s *Store) UpdateTask(ctx context.Context, id string, patch assessment.TaskPatch) (assessment.Task, error) {
	var task assessment.Task
	err := s.kv.Update(ctx, func(tx kv.KV) error {
		tasks := s.tasks.In(tx)

		var err error
		task, err = tasks.Get(ctx, id)
		if err != nil {
			return lookupErr("task", id, err)
		}

		patch.Apply(&task)
		task.UpdatedAt = s.now()
		if err := tasks.Set(ctx, id, task); err != nil {
			return storageErr("update task", err)
		}
		return nil
	})
	return task, err
}

// DeleteTask removes the task, its items, and its cached result together.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	err := s.kv.Update(ctx, func(tx kv.KV) error {
		tasks := s.tasks.In(tx)

		ok, err := tasks.Has(ctx, id)
		if err != nil {
			return storageErr("delete task", err)
		}
		if !ok {
			return fmt.Errorf("task %q: %w", id, assessment.ErrNotFound)
		}

		if err := tasks.Delete(ctx, id); err != nil {
			return storageErr("delete task", err)
		}
		if err := s.items.In(tx).Delete(ctx, id); err != nil {
			return storageErr("delete items", err)
		}
		if err := s.results.In(tx).Delete(ctx, id); err != nil {
			return storageErr("delete result", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug().Ctx(ctx).Str("task_id", id).Msg("task deleted")
	return nil
}

// ListItems returns the checklist of a task in generation order.
func (s *Store) ListItems(ctx context.Context, taskID string) ([]assessment.Item, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.loadItems(ctx, s.items, taskID)
}

// UpdateItem merges patch into one item and drops the task's cached result.
func (s *Store) UpdateItem(ctx context.Context, taskID, itemID string, patch assessment.ItemPatch) (assessment.Item, error) {
	if err := patch.Validate(); err != nil {
		return assessment.Item{}, err
	}

	var updated assessment.Item
	err := s.kv.Update(ctx, func(tx kv.KV) error {
		tasks := s.tasks.In(tx)
		items := s.items.In(tx)

		task, err := tasks.Get(ctx, taskID)
		if err != nil {
			return lookupErr("task", taskID, err)
		}

		list, err := s.loadItems(ctx, items, taskID)
		if err != nil {
			return err
		}

		idx := slices.IndexFunc(list, func(it assessment.Item) bool { return it.ID == itemID })
		if idx < 0 {
			return fmt.Errorf("item %q of task %q: %w", itemID, taskID, assessment.ErrNotFound)
		}

		patch.Apply(&list[idx])
		updated = list[idx]

		if err := items.Set(ctx, taskID, list); err != nil {
			return storageErr("update item", err)
		}
		if err := s.results.In(tx).Delete(ctx, taskID); err != nil {
			return storageErr("invalidate result", err)
		}

		task.UpdatedAt = s.now()
		if err := tasks.Set(ctx, taskID, task); err != nil {
			return storageErr("touch task", err)
		}
		return nil
	})
	return updated, err
}

// GetResult serves the cached result or computes and caches a fresh one.
func (s *Store) GetResult(ctx context.Context, taskID string) (assessment.Result, error) {
	var result assessment.Result
	err := s.kv.Update(ctx, func(tx kv.KV) error {
		if _, err := s.tasks.In(tx).Get(ctx, taskID); err != nil {
			return lookupErr("task", taskID, err)
		}

		results := s.results.In(tx)
		cached, err := results.Get(ctx, taskID)
		if err == nil {
			result = cached
			return nil
		}
		if !stores.IsNotFoundError(err) {
			return storageErr("read result", err)
		}

		items, err := s.loadItems(ctx, s.items.In(tx), taskID)
		if err != nil {
			return err
		}

		result = scoring.Compute(items)
		if err := results.Set(ctx, taskID, result); err != nil {
			return storageErr("cache result", err)
		}

		s.log.Debug().Ctx(ctx).
			Str("task_id", taskID).
			Int("overall", result.OverallCompliance).
			Msg("result computed")
		return nil
	})
	return result, err
}

// loadItems reads a task's checklist. A task without a stored checklist has
// no items.
func (s *Store) loadItems(ctx context.Context, items *kv.TypedKV[[]assessment.Item], taskID string) ([]assessment.Item, error) {
	list, err := items.Get(ctx, taskID)
	if err != nil {
		if stores.IsNotFoundError(err) {
			return []assessment.Item{}, nil
		}
		return nil, storageErr("read items", err)
	}
	if list == nil {
		list = []assessment.Item{}
	}
	return list, nil
}

func lookupErr(kind, id string, err error) error {
	if stores.IsNotFoundError(err) {
		return fmt.Errorf("%s %q: %w", kind, id, assessment.ErrNotFound)
	}
	return storageErr("read "+kind, err)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, assessment.ErrUnavailable, err)
}
