// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package cache

import (
	"testing"
	"time"

	"github.com/askred/askred/internal/models"
)

func testRecord(query string) *models.CacheRecord {
	return &models.CacheRecord{
		Query:           query,
		Recommendations: []models.Recommendation{{Product: "Firestone Pond Liner"}},
		LastUpdated:     time.Now(),
	}
}

func TestGetMiss(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}

	hits, misses := c.Stats()
	if hits != 0 || misses != 1 {
		t.Errorf("stats = (%d, %d), want (0, 1)", hits, misses)
	}
}

func TestSetAndGet(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	want := testRecord("pond liner")
	c.Set("pond liner", want)

	got, ok := c.Get("pond liner")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got != want {
		t.Error("hot cache must return the stored record unchanged")
	}

	hits, _ := c.Stats()
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	c := New(10 * time.Millisecond)
	defer c.Close()

	c.Set("pond liner", testRecord("pond liner"))
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("pond liner"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestSetReplaces(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	c.Set("q", testRecord("q"))
	newer := testRecord("q")
	newer.Recommendations[0].Product = "EPDM Liner"
	c.Set("q", newer)

	got, ok := c.Get("q")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Recommendations[0].Product != "EPDM Liner" {
		t.Errorf("expected replaced record, got %q", got.Recommendations[0].Product)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	c.Set("a", testRecord("a"))
	c.Set("b", testRecord("b"))
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", c.Len())
	}
}

func TestRemoveExpired(t *testing.T) {
	t.Parallel()

	c := New(5 * time.Millisecond)
	defer c.Close()

	c.Set("a", testRecord("a"))
	time.Sleep(15 * time.Millisecond)
	c.removeExpired()

	if c.Len() != 0 {
		t.Errorf("expected sweep to remove expired entry, Len = %d", c.Len())
	}
}
