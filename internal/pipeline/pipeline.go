// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/askred/askred/internal/config"
	"github.com/askred/askred/internal/extract"
	"github.com/askred/askred/internal/logging"
	"github.com/askred/askred/internal/metrics"
	"github.com/askred/askred/internal/models"
	"github.com/askred/askred/internal/reddit"
	"github.com/askred/askred/internal/search"
)

// Result is the outcome of one query: the final recommendation list and
// the discovered threads that produced it.
type Result struct {
	Recommendations []models.Recommendation
	Threads         []models.Thread
	CacheHit        bool
}

// Pipeline runs the full recommendation flow for a query.
type Pipeline struct {
	gateway    *CacheGateway
	discoverer search.Discoverer
	comments   reddit.CommentFetcher
	extractor  extract.Extractor
	maxThreads int
	maxResults int
}

// New assembles a pipeline from its collaborators.
func New(cfg *config.PipelineConfig, gateway *CacheGateway, discoverer search.Discoverer, comments reddit.CommentFetcher, ex extract.Extractor) *Pipeline {
	return &Pipeline{
		gateway:    gateway,
		discoverer: discoverer,
		comments:   comments,
		extractor:  ex,
		maxThreads: cfg.MaxThreads,
		maxResults: cfg.MaxResults,
	}
}

// Run answers a raw query. A cache hit short-circuits before any
// provider call. On a miss the pipeline discovers threads, fans out
// per-thread fetch+extract work, aggregates, and writes the result
// through to the cache. Per-thread failures degrade to empty
// contributions; only discovery failure is fatal.
func (p *Pipeline) Run(ctx context.Context, rawQuery string) (*Result, error) {
	query, err := NormalizeQuery(rawQuery)
	if err != nil {
		return nil, err
	}

	log := logging.Ctx(ctx)

	if cached := p.gateway.Lookup(ctx, query); cached != nil {
		log.Info().Str("query", query).Int("results", len(cached.Recommendations)).Msg("Cache hit")
		return &Result{
			Recommendations: cached.Recommendations,
			Threads:         cached.Threads,
			CacheHit:        true,
		}, nil
	}

	start := time.Now()

	threads, err := p.discoverer.Discover(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("thread discovery failed: %w", err)
	}

	selected := threads
	if len(selected) > p.maxThreads {
		selected = selected[:p.maxThreads]
	}

	log.Info().
		Str("query", query).
		Int("discovered", len(threads)).
		Int("processing", len(selected)).
		Msg("Processing discovered threads")

	perThread := make([][]models.Recommendation, len(selected))
	var wg sync.WaitGroup
	for i, thread := range selected {
		wg.Add(1)
		go func(i int, thread models.Thread) {
			defer wg.Done()
			perThread[i] = p.processThread(ctx, query, thread)
		}(i, thread)
	}
	wg.Wait()

	var flat []models.Recommendation
	for _, recs := range perThread {
		flat = append(flat, recs...)
	}

	final := Aggregate(flat, p.maxResults)

	p.gateway.WriteThrough(ctx, query, threads, final)

	metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	metrics.PipelineResults.Observe(float64(len(final)))
	metrics.PipelineThreadsProcessed.Observe(float64(len(selected)))

	log.Info().
		Str("query", query).
		Int("raw", len(flat)).
		Int("final", len(final)).
		Dur("elapsed", time.Since(start)).
		Msg("Pipeline complete")

	return &Result{Recommendations: final, Threads: threads}, nil
}

// processThread fetches one thread's comments and extracts
// recommendations. Failures are contained here: the thread contributes
// nothing and the rest of the fan-out proceeds.
func (p *Pipeline) processThread(ctx context.Context, query string, thread models.Thread) []models.Recommendation {
	log := logging.Ctx(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("thread_url", thread.URL).Msg("Panic while processing thread")
		}
	}()

	comments, err := p.comments.Comments(ctx, thread.URL)
	if err != nil {
		log.Warn().Err(err).Str("thread_url", thread.URL).Msg("Skipping thread, comment fetch failed")
		return nil
	}
	if len(comments) == 0 {
		log.Debug().Str("thread_url", thread.URL).Msg("Skipping thread, no usable comments")
		return nil
	}

	recs, err := p.extractor.Extract(ctx, query, thread, comments)
	if err != nil {
		log.Warn().Err(err).Str("thread_url", thread.URL).Msg("Skipping thread, extraction failed")
		return nil
	}
	return recs
}
