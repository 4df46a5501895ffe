// Package store persists allocation runs in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	pool *sql.DB
}

// Open opens (and migrates) the database at path.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// sqlite wants a single writer
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	db := &DB{pool: pool}
	if err := db.migrate(context.Background()); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	if d == nil || d.pool == nil {
		return nil
	}
	return d.pool.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	_, err := d.pool.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	employees INTEGER NOT NULL,
	jobs INTEGER NOT NULL,
	seats INTEGER NOT NULL,
	assigned INTEGER NOT NULL,
	unfilled INTEGER NOT NULL,
	benched INTEGER NOT NULL,
	total_score REAL NOT NULL,
	bench_days_before INTEGER NOT NULL,
	bench_days_after INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS assignments (
	run_id TEXT NOT NULL REFERENCES runs(id),
	employee_id TEXT NOT NULL,
	job_id TEXT NOT NULL,
	role TEXT NOT NULL,
	level TEXT NOT NULL,
	score REAL NOT NULL,
	cost REAL NOT NULL,
	PRIMARY KEY (run_id, employee_id, job_id, role, level)
);`)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}
