package db

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/colonyops/assess/internal/core/logging"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

// schemaFile matches "0001_kv_store.up.sql" and "0001_kv_store.down.sql".
var schemaFile = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)

// Step is one schema version: the SQL that applies it and the SQL that
// reverts it.
type Step struct {
	Version int
	Name    string
	Apply   string
	Revert  string
}

// Steps returns the embedded schema steps ordered by version.
func Steps() ([]Step, error) {
	return readSteps(schemaFS, "migrations")
}

func readSteps(fsys fs.FS, dir string) ([]Step, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read schema dir: %w", err)
	}

	byVersion := map[int]*Step{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		version, name, up, err := splitStepName(entry.Name())
		if err != nil {
			return nil, err
		}

		body, err := fs.ReadFile(fsys, dir+"/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		step, ok := byVersion[version]
		if !ok {
			step = &Step{Version: version, Name: name}
			byVersion[version] = step
		}
		if step.Name != name {
			return nil, fmt.Errorf("schema version %d has two names: %q and %q", version, step.Name, name)
		}

		target := &step.Revert
		if up {
			target = &step.Apply
		}
		if *target != "" {
			return nil, fmt.Errorf("schema version %d defined twice (%s)", version, entry.Name())
		}
		*target = string(body)
	}

	steps := make([]Step, 0, len(byVersion))
	for _, step := range byVersion {
		switch {
		case step.Apply == "":
			return nil, fmt.Errorf("schema version %d is missing its up file", step.Version)
		case step.Revert == "":
			return nil, fmt.Errorf("schema version %d is missing its down file", step.Version)
		}
		steps = append(steps, *step)
	}

	slices.SortFunc(steps, func(a, b Step) int { return cmp.Compare(a.Version, b.Version) })
	return steps, nil
}

// splitStepName parses a schema file name into its version, name and direction.
func splitStepName(file string) (version int, name string, up bool, err error) {
	m := schemaFile.FindStringSubmatch(file)
	if m == nil {
		return 0, "", false, fmt.Errorf("schema file %q: want NNNN_name.up.sql or NNNN_name.down.sql", file)
	}

	version, err = strconv.Atoi(m[1])
	if err != nil || version == 0 {
		return 0, "", false, fmt.Errorf("schema file %q: version must be a positive integer", file)
	}
	return version, m[2], m[3] == "up", nil
}

const versionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at INTEGER NOT NULL
)`

// Upgrade applies every step newer than the recorded schema state.
func Upgrade(ctx context.Context, conn *sql.DB) error {
	steps, err := Steps()
	if err != nil {
		return err
	}

	done, err := appliedSteps(ctx, conn)
	if err != nil {
		return err
	}

	log := logging.Component("schema")
	for _, step := range steps {
		if done[step.Version] {
			continue
		}
		log.Debug().Int("version", step.Version).Str("name", step.Name).Msg("applying schema step")

		err := inTx(ctx, conn, step.Apply,
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			step.Version, step.Name, time.Now().UnixNano())
		if err != nil {
			return fmt.Errorf("apply schema %04d_%s: %w", step.Version, step.Name, err)
		}
	}
	return nil
}

// Rollback reverts the n most recently applied steps.
func Rollback(ctx context.Context, conn *sql.DB, n int) error {
	if n < 1 {
		return errors.New("rollback count must be at least 1")
	}

	steps, err := Steps()
	if err != nil {
		return err
	}

	done, err := appliedSteps(ctx, conn)
	if err != nil {
		return err
	}

	var applied []Step
	for _, step := range slices.Backward(steps) {
		if done[step.Version] {
			applied = append(applied, step)
		}
	}
	if n > len(applied) {
		return fmt.Errorf("cannot roll back %d steps, %d applied", n, len(applied))
	}

	log := logging.Component("schema")
	for _, step := range applied[:n] {
		log.Info().Int("version", step.Version).Str("name", step.Name).Msg("reverting schema step")

		err := inTx(ctx, conn, step.Revert, "DELETE FROM schema_migrations WHERE version = ?", step.Version)
		if err != nil {
			return fmt.Errorf("revert schema %04d_%s: %w", step.Version, step.Name, err)
		}
	}
	return nil
}

// appliedSteps returns the recorded versions, creating the table on first use.
func appliedSteps(ctx context.Context, conn *sql.DB) (map[int]bool, error) {
	if _, err := conn.ExecContext(ctx, versionTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	rows, err := conn.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	done := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		done[v] = true
	}
	return done, rows.Err()
}

// inTx runs a schema statement and its bookkeeping statement atomically.
func inTx(ctx context.Context, conn *sql.DB, schemaSQL, record string, args ...any) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		return err
	}
	return tx.Commit()
}
