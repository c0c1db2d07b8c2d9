package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/assess/internal/assess"
	"github.com/colonyops/assess/internal/backend/local"
	"github.com/colonyops/assess/internal/backend/remote"
	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/catalog"
	"github.com/colonyops/assess/internal/core/config"
	"github.com/colonyops/assess/internal/core/kv"
	"github.com/colonyops/assess/internal/core/logging"
	"github.com/colonyops/assess/internal/server"
)

func newClient(t *testing.T) (*remote.Client, *local.Store) {
	t.Helper()
	store := local.New(kv.NewMemory(), catalog.Default())
	srv := server.New(config.ServerConfig{Prefix: "/api"}, assess.NewTaskService(store, nil))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return remote.NewClient(ts.URL+"/api/", 5*time.Second), store
}

func ratingPtr(r assessment.Rating) *assessment.Rating { return &r }

func TestClient_RoundTrip(t *testing.T) {
	client, store := newClient(t)
	ctx := context.Background()

	templates, err := client.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Default(), templates)

	tasks, err := client.ListTasks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	task, err := client.CreateTask(ctx, assessment.TaskDraft{Name: "Q3", Organization: "Acme", TemplateID: catalog.DJCPDataLevel1})
	require.NoError(t, err)
	assert.Equal(t, assessment.StatusDraft, task.Status)

	// Both backends hand back the same task.
	direct, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	got, err := client.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, direct.ID, got.ID)
	assert.Equal(t, direct.Name, got.Name)
	assert.True(t, direct.CreatedAt.Equal(got.CreatedAt))

	items, err := client.ListItems(ctx, task.ID)
	require.NoError(t, err)
	directItems, err := store.ListItems(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, directItems, items)

	evidence := "DLP rollout plan"
	item, err := client.UpdateItem(ctx, task.ID, "item_1", assessment.ItemPatch{Rating: ratingPtr(assessment.RatingCompliant), Evidence: &evidence})
	require.NoError(t, err)
	assert.Equal(t, assessment.RatingCompliant, item.Rating)
	assert.Equal(t, evidence, item.Evidence)

	_, err = client.UpdateItem(ctx, task.ID, "item_2", assessment.ItemPatch{Rating: ratingPtr(assessment.RatingPartial)})
	require.NoError(t, err)

	result, err := client.GetResult(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, result.OverallCompliance)
	assert.Equal(t, 10, result.TotalItems)
	assert.Equal(t, 2, result.CompletedItems)
	assert.Equal(t, 1, result.LevelDistribution.Count(assessment.RatingCompliant))

	status := assessment.StatusInProgress
	updated, err := client.UpdateTask(ctx, task.ID, assessment.TaskPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, assessment.StatusInProgress, updated.Status)

	stats, err := client.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, assessment.Stats{TotalTasks: 1, InProgressTasks: 1}, stats)

	require.NoError(t, client.DeleteTask(ctx, task.ID))

	_, err = client.GetTask(ctx, task.ID)
	require.ErrorIs(t, err, assessment.ErrNotFound)
	_, err = client.ListItems(ctx, task.ID)
	require.ErrorIs(t, err, assessment.ErrNotFound)
	_, err = client.GetResult(ctx, task.ID)
	require.ErrorIs(t, err, assessment.ErrNotFound)
}

func TestClient_ErrorMapping(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	_, err := client.CreateTask(ctx, assessment.TaskDraft{TemplateID: catalog.DSMM})
	require.ErrorIs(t, err, assessment.ErrValidation)
	assert.True(t, remote.IsStatus(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "name")

	_, err = client.UpdateItem(ctx, "missing", "item_1", assessment.ItemPatch{Rating: ratingPtr(assessment.RatingCompliant)})
	require.ErrorIs(t, err, assessment.ErrNotFound)
	assert.True(t, remote.IsStatus(err, http.StatusNotFound))

	err = client.DeleteTask(ctx, "missing")
	require.ErrorIs(t, err, assessment.ErrNotFound)
}

func TestClient_ServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantIs  error
		wantMsg string
	}{
		{name: "internal error", status: http.StatusInternalServerError, body: `{"error":"internal server error"}`, wantIs: assessment.ErrUnavailable, wantMsg: "internal server error"},
		{name: "gateway", status: http.StatusBadGateway, body: "upstream down", wantIs: assessment.ErrUnavailable, wantMsg: "upstream down"},
		{name: "empty body", status: http.StatusServiceUnavailable, wantIs: assessment.ErrUnavailable, wantMsg: "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(ts.Close)

			_, err := remote.NewClient(ts.URL, 0).ListTasks(context.Background())
			require.ErrorIs(t, err, tt.wantIs)
			assert.True(t, remote.IsStatus(err, tt.status))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestClient_UnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	t.Cleanup(ts.Close)

	_, err := remote.NewClient(ts.URL, 0).Stats(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, assessment.ErrValidation)
	assert.NotErrorIs(t, err, assessment.ErrNotFound)
	assert.NotErrorIs(t, err, assessment.ErrUnavailable)
	assert.Contains(t, err.Error(), "unexpected status 409")
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := remote.NewClient(url, time.Second).ListTasks(context.Background())
	require.ErrorIs(t, err, assessment.ErrUnavailable)
}

func TestClient_ForwardsRequestID(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(remote.RequestIDHeader)
		_, _ = w.Write([]byte(`{"total_tasks":0,"completed_tasks":0,"in_progress_tasks":0}`))
	}))
	t.Cleanup(ts.Close)

	ctx := logging.WithRequestID(context.Background(), "req-42")
	_, err := remote.NewClient(ts.URL, 0).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "req-42", got)
}
