// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package database

import (
	"context"
	"testing"
	"time"

	"github.com/askred/askred/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewInMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return db
}

func score(v float64) *float64 { return &v }

func sampleRecord(query string) *models.CacheRecord {
	return &models.CacheRecord{
		Query: query,
		Threads: []models.Thread{
			{Title: "Best pond liner?", URL: "https://www.reddit.com/r/ponds/comments/abc123/best_pond_liner/", Subreddit: "ponds"},
		},
		Recommendations: []models.Recommendation{
			{
				Product:          "Firestone Pond Liner",
				Reason:           "Multiple users said it's durable and fish-safe.",
				EndorsementScore: score(0.94),
				RedditURL:        "https://www.reddit.com/r/ponds/comments/abc123/best_pond_liner/",
				AmazonURL:        "https://www.amazon.com/s?k=Firestone+Pond+Liner&tag=askred-20",
			},
		},
		LastUpdated: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestLookupMissReturnsNil(t *testing.T) {
	db := openTestDB(t)

	rec, err := db.Lookup(context.Background(), "no such query")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record on miss, got %+v", rec)
	}
}

func TestInsertAndLookupRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	want := sampleRecord("pond liner")
	if err := db.Insert(ctx, want); err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	got, err := db.Lookup(ctx, "pond liner")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.Query != want.Query {
		t.Errorf("query = %q, want %q", got.Query, want.Query)
	}
	if len(got.Threads) != 1 || got.Threads[0].Subreddit != "ponds" {
		t.Errorf("threads round trip failed: %+v", got.Threads)
	}
	if len(got.Recommendations) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(got.Recommendations))
	}
	r := got.Recommendations[0]
	if r.Product != "Firestone Pond Liner" || r.EndorsementScore == nil || *r.EndorsementScore != 0.94 {
		t.Errorf("recommendation round trip failed: %+v", r)
	}
}

func TestLookupIsExactMatch(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Insert(ctx, sampleRecord("pond liner")); err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	for _, q := range []string{"pond", "Pond Liner", "pond liner "} {
		rec, err := db.Lookup(ctx, q)
		if err != nil {
			t.Fatalf("Lookup(%q) error: %v", q, err)
		}
		if rec != nil {
			t.Errorf("Lookup(%q) should miss, got %+v", q, rec)
		}
	}
}

func TestInsertAllowsDuplicateQueries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	older := sampleRecord("pond liner")
	older.LastUpdated = time.Now().UTC().Add(-time.Hour)
	newer := sampleRecord("pond liner")
	newer.Recommendations[0].Product = "EPDM Liner"

	if err := db.Insert(ctx, older); err != nil {
		t.Fatalf("Insert older error: %v", err)
	}
	if err := db.Insert(ctx, newer); err != nil {
		t.Fatalf("Insert newer error: %v", err)
	}

	count, err := db.Count(ctx)
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 coexisting rows, got %d", count)
	}

	got, err := db.Lookup(ctx, "pond liner")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if got == nil || got.Recommendations[0].Product != "EPDM Liner" {
		t.Errorf("Lookup should return newest row, got %+v", got)
	}
}

func TestNilScoreRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	rec := sampleRecord("mystery gadget")
	rec.Query = "mystery gadget"
	rec.Recommendations[0].EndorsementScore = nil
	if err := db.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	got, err := db.Lookup(ctx, "mystery gadget")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if got.Recommendations[0].EndorsementScore != nil {
		t.Errorf("expected nil score after round trip, got %v", *got.Recommendations[0].EndorsementScore)
	}
}
