// Package assess wires the persistence backend, task lifecycle, and event bus
// into the App consumed by commands and the HTTP server.
package assess

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/assess/internal/backend/local"
	"github.com/colonyops/assess/internal/backend/remote"
	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/catalog"
	"github.com/colonyops/assess/internal/core/config"
	"github.com/colonyops/assess/internal/core/eventbus"
	"github.com/colonyops/assess/internal/core/kv"
	"github.com/colonyops/assess/internal/core/logging"
	"github.com/colonyops/assess/internal/data/db"
	"github.com/colonyops/assess/internal/data/stores"
)

// App is the central entry point for all assess operations.
// Commands and the server consume App instead of cherry-picking raw dependencies.
type App struct {
	Tasks  *TaskService
	Store  assessment.Store
	Bus    *eventbus.EventBus
	Config *config.Config

	stopBus context.CancelFunc
	closeDB func() error
}

// Open selects the persistence backend from cfg and starts the event bus.
// Call Close when done.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	store, closeDB, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	bus := eventbus.New(64)
	eventbus.RegisterDebugLogger(bus, logging.Component("events"))

	busCtx, stop := context.WithCancel(ctx)
	go bus.Start(busCtx)

	return &App{
		Tasks:   NewTaskService(store, bus),
		Store:   store,
		Bus:     bus,
		Config:  cfg,
		stopBus: stop,
		closeDB: closeDB,
	}, nil
}

// Close stops the event bus and releases the backend.
func (a *App) Close() error {
	if a.stopBus != nil {
		a.stopBus()
	}
	if a.closeDB != nil {
		return a.closeDB()
	}
	return nil
}

// OpenStore returns the backend selected by cfg: the remote API when a remote
// URL is configured, otherwise a local store. The returned func releases it.
func OpenStore(cfg *config.Config) (assessment.Store, func() error, error) {
	log := logging.Component("backend")
	noop := func() error { return nil }

	if cfg.IsRemote() {
		log.Debug().Str("url", cfg.Backend.RemoteURL).Msg("using remote backend")
		return remote.NewClient(cfg.Backend.RemoteURL, cfg.Backend.Timeout), noop, nil
	}

	seed := catalog.Merge(catalog.Default(), cfg.Templates)

	if cfg.Backend.Kind == config.BackendMemory {
		log.Debug().Msg("using in-memory backend")
		return local.New(kv.NewMemory(), seed), noop, nil
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	log.Debug().Str("data_dir", cfg.DataDir).Msg("using sqlite backend")
	return local.New(stores.NewKVStore(database), seed), database.Close, nil
}

// openDatabase opens the SQLite file, moving a corrupt database aside and
// starting fresh when necessary.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, fmt.Errorf("open database: %w", err)
	}

	backup, rerr := stores.RecoverFromCorruption(cfg.DataDir)
	if rerr != nil {
		return nil, fmt.Errorf("recover database: %w", rerr)
	}

	log := logging.Component("backend")
	log.Warn().Err(err).Str("backup", backup).
		Msg("database corrupted, moved aside and starting fresh")

	database, err = db.Open(cfg.DataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("open database after recovery: %w", err)
	}
	return database, nil
}
