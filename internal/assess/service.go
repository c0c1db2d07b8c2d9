package assess

import (
	"context"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/catalog"
	"github.com/colonyops/assess/internal/core/eventbus"
	"github.com/colonyops/assess/internal/core/logging"
	"github.com/colonyops/assess/internal/core/validate"
)

// TaskService orchestrates the task lifecycle on top of a Store. It holds no
// cached state; every read goes to the store.
type TaskService struct {
	store assessment.Store
	bus   *eventbus.EventBus
	log   zerolog.Logger
}

// NewTaskService creates a TaskService. bus may be nil.
func NewTaskService(store assessment.Store, bus *eventbus.EventBus) *TaskService {
	return &TaskService{
		store: store,
		bus:   bus,
		log:   logging.Component("tasks"),
	}
}

// Create validates the draft and persists a new draft task with its checklist.
func (s *TaskService) Create(ctx context.Context, draft assessment.TaskDraft) (assessment.Task, error) {
	err := criterio.ValidateStruct(
		validate.RequiredField("name", draft.Name),
		validate.RequiredField("template_id", draft.TemplateID),
	)
	if err != nil {
		return assessment.Task{}, fmt.Errorf("%w: %w", assessment.ErrValidation, err)
	}

	task, err := s.store.CreateTask(ctx, draft)
	if err != nil {
		return assessment.Task{}, fmt.Errorf("create task: %w", err)
	}

	ctx = logging.WithTaskID(ctx, task.ID)
	s.log.Info().Ctx(ctx).Str("template_id", task.TemplateID).Msg("task created")
	if s.bus != nil {
		s.bus.PublishTaskCreated(eventbus.TaskCreatedPayload{Task: task})
	}

	return task, nil
}

// RateItem merges patch into one checklist item. The task's cached result is
// dropped by the store and recomputed on the next Result call.
func (s *TaskService) RateItem(ctx context.Context, taskID, itemID string, patch assessment.ItemPatch) (assessment.Item, error) {
	if patch.Rating != nil {
		if err := criterio.Run("rating", *patch.Rating, validate.Rating); err != nil {
			return assessment.Item{}, fmt.Errorf("%w: %w", assessment.ErrValidation, err)
		}
	}

	item, err := s.store.UpdateItem(ctx, taskID, itemID, patch)
	if err != nil {
		return assessment.Item{}, fmt.Errorf("rate item %s: %w", itemID, err)
	}

	ctx = logging.WithTaskID(ctx, taskID)
	s.log.Debug().Ctx(ctx).Str("item_id", itemID).Str("rating", string(item.Rating)).Msg("item rated")
	if s.bus != nil {
		s.bus.PublishItemRated(eventbus.ItemRatedPayload{TaskID: taskID, Item: item})
	}

	return item, nil
}

// Update applies a partial update to a task's name, organization, or status.
func (s *TaskService) Update(ctx context.Context, taskID string, patch assessment.TaskPatch) (assessment.Task, error) {
	var errs criterio.FieldErrorsBuilder
	if patch.Name != nil {
		if err := validate.Required(*patch.Name); err != nil {
			errs = errs.Append("name", err)
		}
	}
	if patch.Status != nil {
		if err := validate.Status(*patch.Status); err != nil {
			errs = errs.Append("status", err)
		}
	}
	if err := errs.ToError(); err != nil {
		return assessment.Task{}, fmt.Errorf("%w: %w", assessment.ErrValidation, err)
	}

	task, err := s.store.UpdateTask(ctx, taskID, patch)
	if err != nil {
		return assessment.Task{}, fmt.Errorf("update task: %w", err)
	}

	ctx = logging.WithTaskID(ctx, taskID)
	s.log.Debug().Ctx(ctx).Str("status", string(task.Status)).Msg("task updated")
	if s.bus != nil {
		s.bus.PublishTaskUpdated(eventbus.TaskUpdatedPayload{Task: task})
	}

	return task, nil
}

// Transition moves a task to status. Status never changes implicitly.
func (s *TaskService) Transition(ctx context.Context, taskID string, status assessment.Status) (assessment.Task, error) {
	return s.Update(ctx, taskID, assessment.TaskPatch{Status: &status})
}

// Delete removes a task with its items and cached result.
func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	if err := s.store.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	ctx = logging.WithTaskID(ctx, taskID)
	s.log.Info().Ctx(ctx).Msg("task deleted")
	if s.bus != nil {
		s.bus.PublishTaskDeleted(eventbus.TaskDeletedPayload{TaskID: taskID})
	}
	return nil
}

// Templates lists the available templates. When the store cannot list them
// the built-in catalog is returned instead.
func (s *TaskService) Templates(ctx context.Context) []assessment.Template {
	templates, err := s.store.ListTemplates(ctx)
	if err != nil {
		s.log.Warn().Ctx(ctx).Err(err).Msg("listing templates failed, using built-in catalog")
		return catalog.Default()
	}
	return templates
}

// Template returns a single template by id.
func (s *TaskService) Template(ctx context.Context, id string) (assessment.Template, error) {
	tpl, ok := catalog.Find(s.Templates(ctx), id)
	if !ok {
		return assessment.Template{}, fmt.Errorf("template %q: %w", id, assessment.ErrNotFound)
	}
	return tpl, nil
}

func (s *TaskService) Tasks(ctx context.Context) ([]assessment.Task, error) {
	return s.store.ListTasks(ctx)
}

func (s *TaskService) Task(ctx context.Context, taskID string) (assessment.Task, error) {
	return s.store.GetTask(ctx, taskID)
}

func (s *TaskService) Items(ctx context.Context, taskID string) ([]assessment.Item, error) {
	return s.store.ListItems(ctx, taskID)
}

func (s *TaskService) Stats(ctx context.Context) (assessment.Stats, error) {
	return s.store.Stats(ctx)
}

// Result returns the task's compliance result, computing it when no cached
// copy exists.
func (s *TaskService) Result(ctx context.Context, taskID string) (assessment.Result, error) {
	return s.store.GetResult(ctx, taskID)
}
