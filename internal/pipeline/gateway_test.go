// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/askred/askred/internal/cache"
	"github.com/askred/askred/internal/models"
)

func newTestGateway(t *testing.T, store *fakeStore) (*CacheGateway, *cache.Cache) {
	t.Helper()

	hot := cache.New(time.Minute)
	t.Cleanup(hot.Close)
	return NewCacheGateway(hot, store), hot
}

func TestGatewayStoreHitPromotedToHotTier(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.records["pond"] = &models.CacheRecord{
		Query:           "pond",
		Recommendations: []models.Recommendation{rec("A", "r", scoreptr(0.9), "a")},
	}
	g, hot := newTestGateway(t, store)

	if got := g.Lookup(context.Background(), "pond"); got == nil {
		t.Fatal("expected store hit")
	}
	if _, ok := hot.Get("pond"); !ok {
		t.Error("store hit should be promoted to the hot tier")
	}

	// Second lookup is served from the hot tier even if the store
	// breaks.
	store.mu.Lock()
	store.lookupErr = context.DeadlineExceeded
	store.mu.Unlock()
	if got := g.Lookup(context.Background(), "pond"); got == nil {
		t.Error("expected hot-tier hit after promotion")
	}
}

func TestGatewayEmptyHotEntryFallsThrough(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	g, hot := newTestGateway(t, store)

	hot.Set("pond", &models.CacheRecord{Query: "pond"})

	if got := g.Lookup(context.Background(), "pond"); got != nil {
		t.Errorf("empty hot entry must not count as a hit: %+v", got)
	}
}

func TestGatewayWriteThroughPopulatesBothTiers(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	g, hot := newTestGateway(t, store)

	g.WriteThrough(context.Background(), "pond", threadsN(2), []models.Recommendation{rec("A", "r", scoreptr(0.5), "a")})

	if _, ok := hot.Get("pond"); !ok {
		t.Error("write-through should populate the hot tier")
	}
	if store.records["pond"] == nil {
		t.Error("write-through should populate the store")
	}
	if store.records["pond"].LastUpdated.IsZero() {
		t.Error("write-through should stamp last_updated")
	}
}
