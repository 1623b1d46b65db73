// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

// Package database provides the persistent query result store on DuckDB.
//
// The store is a single insert-only table keyed by normalized query.
// Lookups are exact string matches; records never expire and are never
// updated in place. A repeated write-through for the same query inserts
// a new row, so duplicates may coexist; lookups take the newest row.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/askred/askred/internal/config"
	"github.com/askred/askred/internal/logging"
)

// DB wraps the DuckDB connection for the query result store.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the DuckDB database and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists for file-backed databases.
	// 0750 per gosec G301.
	if cfg.Path != "" && cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}
	if err := db.createSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Int("threads", numThreads).Msg("Query store initialized")
	return db, nil
}

// NewInMemory opens an in-memory store, used by tests.
func NewInMemory() (*DB, error) {
	return New(&config.DatabaseConfig{Path: "", MaxMemory: "256MB"})
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the connection is alive, used by readiness checks.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// createSchema creates the query store table and its lookup index.
// All columns live in the initial CREATE TABLE; there is no migration
// machinery for this single-table store.
func (db *DB) createSchema() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS search_queries (
			id UUID PRIMARY KEY,
			query TEXT NOT NULL,
			threads JSON NOT NULL,
			results JSON NOT NULL,
			last_updated TIMESTAMP NOT NULL
		)`,
		// Non-unique on purpose: write-through is insert-only and
		// duplicate rows per query are allowed.
		`CREATE INDEX IF NOT EXISTS idx_search_queries_query ON search_queries(query)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}
