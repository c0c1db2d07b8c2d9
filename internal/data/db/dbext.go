package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// FileName is the database file created inside the data directory.
const FileName = "assess.db"

// OpenOptions configures the connection pool.
type OpenOptions struct {
	MaxOpenConns int
	MaxIdleConns int
	BusyTimeout  int // milliseconds
}

// DefaultOpenOptions returns the pool settings used when none are configured.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{MaxOpenConns: 10, MaxIdleConns: 5, BusyTimeout: 5000}
}

// dsn enables WAL and immediate transactions so concurrent writers queue on
// the busy timeout instead of failing with SQLITE_BUSY.
func (o OpenOptions) dsn(path string) string {
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_txlock=immediate", path, o.BusyTimeout)
}

// DB is the assessment database: a pooled SQLite connection with the schema
// applied.
type DB struct {
	conn    *sql.DB
	queries *Queries
}

// Open opens (or creates) FileName in dataDir and upgrades its schema.
func Open(dataDir string, opts OpenOptions) (*DB, error) {
	conn, err := sql.Open("sqlite", opts.dsn(filepath.Join(dataDir, FileName)))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxIdleConns)

	ctx := context.Background()
	if err := waitReady(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := Upgrade(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("upgrade schema: %w", err)
	}

	return &DB{conn: conn, queries: New(conn)}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// Conn exposes the underlying pool.
func (db *DB) Conn() *sql.DB { return db.conn }

func (db *DB) Queries() *Queries { return db.queries }

// WithTx runs fn inside a transaction, committing only when fn succeeds.
func (db *DB) WithTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(db.queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// waitReady pings the database, backing off between five attempts.
func waitReady(ctx context.Context, conn *sql.DB) error {
	const attempts = 5
	backoff := 100 * time.Millisecond

	var err error
	for i := range attempts {
		if err = conn.PingContext(ctx); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return fmt.Errorf("database not reachable after %d attempts: %w", attempts, err)
}
