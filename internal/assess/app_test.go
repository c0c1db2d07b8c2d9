package assess

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/assess/internal/backend/local"
	"github.com/colonyops/assess/internal/backend/remote"
	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/catalog"
	"github.com/colonyops/assess/internal/core/config"
	"github.com/colonyops/assess/internal/data/db"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	return &cfg
}

func TestOpenStore_SelectsBackend(t *testing.T) {
	t.Run("remote", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Backend.RemoteURL = "http://127.0.0.1:1"

		store, closeFn, err := OpenStore(cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = closeFn() })

		assert.IsType(t, &remote.Client{}, store)
		_, err = os.Stat(cfg.DataDir)
		assert.True(t, os.IsNotExist(err), "remote backend must not touch the data dir")
	})

	t.Run("memory", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Backend.Kind = config.BackendMemory

		store, closeFn, err := OpenStore(cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = closeFn() })

		assert.IsType(t, &local.Store{}, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := testConfig(t)

		store, closeFn, err := OpenStore(cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = closeFn() })

		assert.IsType(t, &local.Store{}, store)
		assert.FileExists(t, filepath.Join(cfg.DataDir, db.FileName))
	})
}

func TestOpenStore_SeedsConfiguredTemplates(t *testing.T) {
	cfg := testConfig(t)
	cfg.Templates = []assessment.Template{
		{ID: catalog.DJCP, Name: "Overridden", Dimensions: 2, Items: 4},
		{ID: "custom", Name: "Custom", Dimensions: 1, Items: 2, DimensionNames: []string{"Scope"}},
	}

	store, closeFn, err := OpenStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	templates, err := store.ListTemplates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 6)

	djcp, ok := catalog.Find(templates, catalog.DJCP)
	require.True(t, ok)
	assert.Equal(t, "Overridden", djcp.Name)
	assert.Equal(t, "custom", templates[5].ID)
}

func TestOpenStore_PersistsAcrossReopen(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	store, closeFn, err := OpenStore(cfg)
	require.NoError(t, err)

	task, err := store.CreateTask(ctx, assessment.TaskDraft{Name: "persisted", TemplateID: catalog.DSMM})
	require.NoError(t, err)
	require.NoError(t, closeFn())

	store, closeFn, err = OpenStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	got, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Name)
}

func TestOpenStore_RecoversCorruptDatabase(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, db.FileName), bytes.Repeat([]byte("not a database "), 512), 0o644))

	store, closeFn, err := OpenStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	tasks, err := store.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)

	backups, err := filepath.Glob(filepath.Join(cfg.DataDir, db.FileName+".corrupt.*"))
	require.NoError(t, err)
	assert.NotEmpty(t, backups)
}

func TestOpen(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend.Kind = config.BackendMemory

	app, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	require.NotNil(t, app.Tasks)
	require.NotNil(t, app.Bus)
	assert.Same(t, cfg, app.Config)

	task, err := app.Tasks.Create(context.Background(), assessment.TaskDraft{Name: "t", TemplateID: catalog.DJCP})
	require.NoError(t, err)
	assert.Equal(t, assessment.StatusDraft, task.Status)
}
