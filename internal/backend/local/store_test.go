package local

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/catalog"
	"github.com/colonyops/assess/internal/core/kv"
	"github.com/colonyops/assess/internal/data/db"
	"github.com/colonyops/assess/internal/data/stores"
)

// newStores returns a Store over every KV implementation, with a fixed clock
// and sequential ids.
func newStores(t *testing.T) map[string]*Store {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	out := map[string]*Store{
		"sqlite": New(stores.NewKVStore(database), catalog.Default()),
		"memory": New(kv.NewMemory(), catalog.Default()),
	}
	for _, s := range out {
		clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		n := 0
		s.now = func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}
		s.newID = func() string {
			n++
			return fmt.Sprintf("task-%03d", n)
		}
	}
	return out
}

func ratingPtr(r assessment.Rating) *assessment.Rating { return &r }

func strPtr(s string) *string { return &s }

func TestStore_ListTemplatesSeedsOnce(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := s.ListTemplates(ctx)
			require.NoError(t, err)
			assert.Equal(t, catalog.Default(), first)

			// Later seeds are ignored once a catalog is stored.
			s.seed = nil
			second, err := s.ListTemplates(ctx)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestStore_CreateTask(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			task, err := s.CreateTask(ctx, assessment.TaskDraft{
				Name:         "Q1 review",
				Organization: "Acme",
				TemplateID:   catalog.DSMM,
			})
			require.NoError(t, err)

			assert.Equal(t, "task-001", task.ID)
			assert.Equal(t, "Q1 review", task.Name)
			assert.Equal(t, "Acme", task.Organization)
			assert.Equal(t, catalog.DSMM, task.TemplateID)
			assert.Equal(t, assessment.StatusDraft, task.Status)
			assert.Equal(t, task.CreatedAt, task.UpdatedAt)

			got, err := s.GetTask(ctx, task.ID)
			require.NoError(t, err)
			assert.Equal(t, task, got)

			items, err := s.ListItems(ctx, task.ID)
			require.NoError(t, err)
			require.Len(t, items, 21)
			assert.Equal(t, "item_1", items[0].ID)
			assert.Equal(t, "item_21", items[20].ID)
			for _, it := range items {
				assert.Equal(t, assessment.RatingUnset, it.Rating)
			}
		})
	}
}

func TestStore_CreateTaskUnknownTemplate(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.CreateTask(ctx, assessment.TaskDraft{Name: "x", TemplateID: "nope"})
			require.ErrorIs(t, err, assessment.ErrNotFound)

			tasks, err := s.ListTasks(ctx)
			require.NoError(t, err)
			assert.Empty(t, tasks)
		})
	}
}

func TestStore_ListTasksInCreationOrder(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			// Ids sort in the opposite order of creation.
			ids := []string{"zz", "mm", "aa"}
			s.newID = func() string {
				id := ids[0]
				ids = ids[1:]
				return id
			}

			for i := range 3 {
				_, err := s.CreateTask(ctx, assessment.TaskDraft{
					Name:       fmt.Sprintf("task %d", i),
					TemplateID: catalog.GRXXB,
				})
				require.NoError(t, err)
			}

			tasks, err := s.ListTasks(ctx)
			require.NoError(t, err)
			require.Len(t, tasks, 3)
			assert.Equal(t, "zz", tasks[0].ID)
			assert.Equal(t, "mm", tasks[1].ID)
			assert.Equal(t, "aa", tasks[2].ID)
		})
	}
}

func TestStore_GetTaskNotFound(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.GetTask(ctx, "missing")
			require.ErrorIs(t, err, assessment.ErrNotFound)

			_, err = s.ListItems(ctx, "missing")
			require.ErrorIs(t, err, assessment.ErrNotFound)

			_, err = s.GetResult(ctx, "missing")
			require.ErrorIs(t, err, assessment.ErrNotFound)
		})
	}
}

func TestStore_UpdateTask(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			task, err := s.CreateTask(ctx, assessment.TaskDraft{Name: "old", Organization: "Org", TemplateID: catalog.DJCP})
			require.NoError(t, err)

			status := assessment.StatusInProgress
			updated, err := s.UpdateTask(ctx, task.ID, assessment.TaskPatch{
				Name:   strPtr("new"),
				Status: &status,
			})
			require.NoError(t, err)

			assert.Equal(t, "new", updated.Name)
			assert.Equal(t, "Org", updated.Organization)
			assert.Equal(t, assessment.StatusInProgress, updated.Status)
			assert.Equal(t, task.CreatedAt, updated.CreatedAt)
			assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))

			_, err = s.UpdateTask(ctx, "missing", assessment.TaskPatch{Name: strPtr("x")})
			require.ErrorIs(t, err, assessment.ErrNotFound)
		})
	}
}

func TestStore_DeleteTask(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			keep, err := s.CreateTask(ctx, assessment.TaskDraft{Name: "keep", TemplateID: catalog.GRXXB})
			require.NoError(t, err)
			drop, err := s.CreateTask(ctx, assessment.TaskDraft{Name: "drop", TemplateID: catalog.GRXXB})
			require.NoError(t, err)

			_, err = s.GetResult(ctx, drop.ID)
			require.NoError(t, err)

			require.NoError(t, s.DeleteTask(ctx, drop.ID))

			_, err = s.GetTask(ctx, drop.ID)
			require.ErrorIs(t, err, assessment.ErrNotFound)

			for _, ns := range []string{"tasks", "items", "results"} {
				ok, err := s.kv.Has(ctx, ns+":"+drop.ID)
				require.NoError(t, err)
				assert.False(t, ok, "%s entry should be removed", ns)
			}

			tasks, err := s.ListTasks(ctx)
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			assert.Equal(t, keep.ID, tasks[0].ID)

			err = s.DeleteTask(ctx, drop.ID)
			require.ErrorIs(t, err, assessment.ErrNotFound)
		})
	}
}

func TestStore_UpdateItem(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			task, err := s.CreateTask(ctx, assessment.TaskDraft{Name: "t", TemplateID: catalog.GRXXB})
			require.NoError(t, err)

			item, err := s.UpdateItem(ctx, task.ID, "item_2", assessment.ItemPatch{
				Rating:   ratingPtr(assessment.RatingPartial),
				Evidence: strPtr("policy.pdf"),
			})
			require.NoError(t, err)
			assert.Equal(t, "item_2", item.ID)
			assert.Equal(t, assessment.RatingPartial, item.Rating)
			assert.Equal(t, "policy.pdf", item.Evidence)
			assert.Empty(t, item.Remarks)

			// A second patch leaves omitted fields alone.
			item, err = s.UpdateItem(ctx, task.ID, "item_2", assessment.ItemPatch{Remarks: strPtr("follow up")})
			require.NoError(t, err)
			assert.Equal(t, assessment.RatingPartial, item.Rating)
			assert.Equal(t, "policy.pdf", item.Evidence)
			assert.Equal(t, "follow up", item.Remarks)

			items, err := s.ListItems(ctx, task.ID)
			require.NoError(t, err)
			assert.Equal(t, item, items[1])
			assert.Equal(t, assessment.RatingUnset, items[0].Rating)

			got, err := s.GetTask(ctx, task.ID)
			require.NoError(t, err)
			assert.True(t, got.UpdatedAt.After(task.UpdatedAt))
		})
	}
}

func TestStore_UpdateItemErrors(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			task, err := s.CreateTask(ctx, assessment.TaskDraft{Name: "t", TemplateID: catalog.GRXXB})
			require.NoError(t, err)

			_, err = s.UpdateItem(ctx, task.ID, "item_99", assessment.ItemPatch{Remarks: strPtr("x")})
			require.ErrorIs(t, err, assessment.ErrNotFound)

			_, err = s.UpdateItem(ctx, "missing", "item_1", assessment.ItemPatch{Remarks: strPtr("x")})
			require.ErrorIs(t, err, assessment.ErrNotFound)

			_, err = s.UpdateItem(ctx, task.ID, "item_1", assessment.ItemPatch{Rating: ratingPtr("excellent")})
			require.ErrorIs(t, err, assessment.ErrValidation)

			items, err := s.ListItems(ctx, task.ID)
			require.NoError(t, err)
			assert.Equal(t, assessment.RatingUnset, items[0].Rating)
		})
	}
}

func TestStore_GetResultCachesAndInvalidates(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			task, err := s.CreateTask(ctx, assessment.TaskDraft{Name: "t", TemplateID: catalog.DJCPDataLevel1})
			require.NoError(t, err)

			result, err := s.GetResult(ctx, task.ID)
			require.NoError(t, err)
			assert.Equal(t, 10, result.TotalItems)
			assert.Equal(t, 0, result.CompletedItems)
			assert.Equal(t, 0, result.OverallCompliance)

			ok, err := s.kv.Has(ctx, "results:"+task.ID)
			require.NoError(t, err)
			assert.True(t, ok, "result should be cached")

			_, err = s.UpdateItem(ctx, task.ID, "item_1", assessment.ItemPatch{Rating: ratingPtr(assessment.RatingCompliant)})
			require.NoError(t, err)
			_, err = s.UpdateItem(ctx, task.ID, "item_2", assessment.ItemPatch{Rating: ratingPtr(assessment.RatingPartial)})
			require.NoError(t, err)

			ok, err = s.kv.Has(ctx, "results:"+task.ID)
			require.NoError(t, err)
			assert.False(t, ok, "rating an item should drop the cached result")

			result, err = s.GetResult(ctx, task.ID)
			require.NoError(t, err)
			assert.Equal(t, 2, result.CompletedItems)
			assert.Equal(t, 75, result.OverallCompliance)
			assert.Equal(t, 1, result.LevelDistribution.Compliant)
			assert.Equal(t, 1, result.LevelDistribution.Partial)

			score, ok := result.DimensionScores.Get("Data classification and grading")
			require.True(t, ok)
			assert.Equal(t, 75, score)
		})
	}
}

func TestStore_Stats(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			statuses := []assessment.Status{
				assessment.StatusDraft,
				assessment.StatusInProgress,
				assessment.StatusInProgress,
				assessment.StatusCompleted,
			}
			for _, st := range statuses {
				task, err := s.CreateTask(ctx, assessment.TaskDraft{Name: "t", TemplateID: catalog.DJCP})
				require.NoError(t, err)
				_, err = s.UpdateTask(ctx, task.ID, assessment.TaskPatch{Status: &st})
				require.NoError(t, err)
			}

			stats, err := s.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, assessment.Stats{TotalTasks: 4, CompletedTasks: 1, InProgressTasks: 2}, stats)
		})
	}
}
