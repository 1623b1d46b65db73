// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/askred/askred/internal/models"
)

// Lookup returns the newest stored record for an exact query match, or
// (nil, nil) when no record exists. The caller decides whether the
// record qualifies as a cache hit.
func (db *DB) Lookup(ctx context.Context, query string) (*models.CacheRecord, error) {
	// JSON columns come back from the driver as structured values;
	// casting to VARCHAR keeps the scan a plain string.
	row := db.conn.QueryRowContext(ctx,
		`SELECT query, CAST(threads AS VARCHAR), CAST(results AS VARCHAR), last_updated
		 FROM search_queries
		 WHERE query = ?
		 ORDER BY last_updated DESC
		 LIMIT 1`, query)

	var rec models.CacheRecord
	var threadsJSON, resultsJSON string
	err := row.Scan(&rec.Query, &threadsJSON, &resultsJSON, &rec.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up query %q: %w", query, err)
	}

	if err := json.Unmarshal([]byte(threadsJSON), &rec.Threads); err != nil {
		return nil, fmt.Errorf("failed to decode stored threads for %q: %w", query, err)
	}
	if err := json.Unmarshal([]byte(resultsJSON), &rec.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to decode stored results for %q: %w", query, err)
	}

	return &rec, nil
}

// Insert stores a new record. It never updates an existing row; repeated
// inserts for the same query coexist.
func (db *DB) Insert(ctx context.Context, rec *models.CacheRecord) error {
	threadsJSON, err := json.Marshal(rec.Threads)
	if err != nil {
		return fmt.Errorf("failed to encode threads: %w", err)
	}
	resultsJSON, err := json.Marshal(rec.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO search_queries (id, query, threads, results, last_updated)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), rec.Query, string(threadsJSON), string(resultsJSON), rec.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to insert record for %q: %w", rec.Query, err)
	}
	return nil
}

// Count returns the number of stored records.
func (db *DB) Count(ctx context.Context) (int64, error) {
	var count int64
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_queries`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}
