// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package pipeline

import (
	"context"
	"time"

	"github.com/askred/askred/internal/cache"
	"github.com/askred/askred/internal/logging"
	"github.com/askred/askred/internal/metrics"
	"github.com/askred/askred/internal/models"
)

// Store is the durable result cache keyed by normalized query.
type Store interface {
	Lookup(ctx context.Context, query string) (*models.CacheRecord, error)
	Insert(ctx context.Context, rec *models.CacheRecord) error
}

// CacheGateway layers the in-process hot tier over the durable store.
// Reads fail open: a broken store degrades to recomputation, never to a
// request failure.
type CacheGateway struct {
	hot   *cache.Cache
	store Store
}

// NewCacheGateway wires the hot tier and the store together.
func NewCacheGateway(hot *cache.Cache, store Store) *CacheGateway {
	return &CacheGateway{hot: hot, store: store}
}

// Lookup returns the cached record for a query, or nil on a miss. Only
// records with at least one recommendation count as hits; an empty
// cached result is worth recomputing. Store hits are promoted to the
// hot tier.
func (g *CacheGateway) Lookup(ctx context.Context, query string) *models.CacheRecord {
	if rec, ok := g.hot.Get(query); ok && len(rec.Recommendations) > 0 {
		metrics.CacheHits.WithLabelValues("hot").Inc()
		return rec
	}
	metrics.CacheMisses.WithLabelValues("hot").Inc()

	rec, err := g.store.Lookup(ctx, query)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("query", query).Msg("Cache store lookup failed, recomputing")
		metrics.CacheMisses.WithLabelValues("store").Inc()
		return nil
	}
	if rec == nil || len(rec.Recommendations) == 0 {
		metrics.CacheMisses.WithLabelValues("store").Inc()
		return nil
	}

	metrics.CacheHits.WithLabelValues("store").Inc()
	g.hot.Set(query, rec)
	return rec
}

// WriteThrough records a freshly computed result in both tiers. Store
// failures are logged and dropped so the caller still gets its result.
func (g *CacheGateway) WriteThrough(ctx context.Context, query string, threads []models.Thread, recs []models.Recommendation) {
	rec := &models.CacheRecord{
		Query:           query,
		Threads:         threads,
		Recommendations: recs,
		LastUpdated:     time.Now().UTC(),
	}

	g.hot.Set(query, rec)

	if err := g.store.Insert(ctx, rec); err != nil {
		metrics.CacheWriteErrors.Inc()
		logging.Ctx(ctx).Error().Err(err).Str("query", query).Msg("Cache store insert failed")
	}
}
