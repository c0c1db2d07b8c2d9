package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/colonyops/assess/internal/data/db"
)

// IsCorruptionError reports whether err means the database file cannot be
// used and should be moved aside.
func IsCorruptionError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
			return true
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "database disk image is malformed") ||
		strings.Contains(msg, "file is not a database")
}

// IsNotFoundError reports whether err wraps a missing-row error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// RecoverFromCorruption renames the database in dataDir, with its WAL and SHM
// sidecars, to <name>.corrupt.<timestamp> so a fresh database can be created.
// It returns the backup path, or "" when there was no database to move.
func RecoverFromCorruption(dataDir string) (string, error) {
	dbPath := filepath.Join(dataDir, db.FileName)
	backupPath := fmt.Sprintf("%s.corrupt.%s", dbPath, time.Now().Format("20060102-150405"))

	if err := os.Rename(dbPath, backupPath); err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("back up corrupted database: %w", err)
		}
		backupPath = ""
	}

	// Stale sidecars must not survive next to the new database.
	for _, suffix := range []string{"-wal", "-shm"} {
		sidecar := dbPath + suffix
		if _, err := os.Stat(sidecar); err != nil {
			continue
		}

		target := backupPath + suffix
		if backupPath == "" {
			target = sidecar + ".corrupt"
		}
		if err := os.Rename(sidecar, target); err != nil {
			if rmErr := os.Remove(sidecar); rmErr != nil {
				return "", fmt.Errorf("remove %s file: %w", strings.TrimPrefix(suffix, "-"), err)
			}
		}
	}

	return backupPath, nil
}
