// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/askred/askred/internal/cache"
	"github.com/askred/askred/internal/config"
	"github.com/askred/askred/internal/models"
)

type fakeStore struct {
	mu        sync.Mutex
	records   map[string]*models.CacheRecord
	lookupErr error
	insertErr error
	inserts   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*models.CacheRecord)}
}

func (s *fakeStore) Lookup(ctx context.Context, query string) (*models.CacheRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.records[query], nil
}

func (s *fakeStore) Insert(ctx context.Context, rec *models.CacheRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.insertErr != nil {
		return s.insertErr
	}
	s.records[rec.Query] = rec
	return nil
}

type fakeDiscoverer struct {
	threads []models.Thread
	err     error
	calls   atomic.Int32
}

func (d *fakeDiscoverer) Discover(ctx context.Context, query string) ([]models.Thread, error) {
	d.calls.Add(1)
	return d.threads, d.err
}

type fakeComments struct {
	byURL map[string][]string
	errOn map[string]error
	calls atomic.Int32
}

func (f *fakeComments) Comments(ctx context.Context, threadURL string) ([]string, error) {
	f.calls.Add(1)
	if err := f.errOn[threadURL]; err != nil {
		return nil, err
	}
	return f.byURL[threadURL], nil
}

type fakeExtractor struct {
	byURL map[string][]models.Recommendation
	errOn map[string]error
	calls atomic.Int32
}

func (f *fakeExtractor) Extract(ctx context.Context, query string, thread models.Thread, comments []string) ([]models.Recommendation, error) {
	f.calls.Add(1)
	if err := f.errOn[thread.URL]; err != nil {
		return nil, err
	}
	return f.byURL[thread.URL], nil
}

func threadsN(n int) []models.Thread {
	var out []models.Thread
	for i := 0; i < n; i++ {
		out = append(out, models.Thread{
			Title:     fmt.Sprintf("Thread %d", i),
			URL:       fmt.Sprintf("https://reddit.com/r/x/comments/t%d/p/", i),
			Subreddit: "x",
		})
	}
	return out
}

func newTestPipeline(t *testing.T, store *fakeStore, d *fakeDiscoverer, c *fakeComments, e *fakeExtractor) *Pipeline {
	t.Helper()

	hot := cache.New(time.Minute)
	t.Cleanup(hot.Close)

	return New(
		&config.PipelineConfig{MaxThreads: 5, MaxResults: 12},
		NewCacheGateway(hot, store),
		d, c, e,
	)
}

func TestRunCacheHitShortCircuits(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.records["pond liner"] = &models.CacheRecord{
		Query:           "pond liner",
		Threads:         threadsN(2),
		Recommendations: []models.Recommendation{rec("A", "r", scoreptr(0.9), "a")},
	}
	d := &fakeDiscoverer{}
	c := &fakeComments{}
	e := &fakeExtractor{}

	p := newTestPipeline(t, store, d, c, e)

	res, err := p.Run(context.Background(), "  Pond Liner ")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !res.CacheHit {
		t.Error("expected cache hit")
	}
	if len(res.Recommendations) != 1 || len(res.Threads) != 2 {
		t.Errorf("cached payload not returned: %+v", res)
	}
	if d.calls.Load() != 0 || c.calls.Load() != 0 || e.calls.Load() != 0 {
		t.Error("cache hit must not reach any collaborator")
	}
}

func TestRunEmptyCachedResultRecomputes(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.records["pond"] = &models.CacheRecord{Query: "pond"} // no recommendations
	d := &fakeDiscoverer{threads: threadsN(1)}
	c := &fakeComments{byURL: map[string][]string{threadsN(1)[0].URL: {"a good comment body here"}}}
	e := &fakeExtractor{byURL: map[string][]models.Recommendation{
		threadsN(1)[0].URL: {rec("A", "r", scoreptr(0.7), "a")},
	}}

	p := newTestPipeline(t, store, d, c, e)

	res, err := p.Run(context.Background(), "pond")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.CacheHit {
		t.Error("empty cached result must not count as a hit")
	}
	if d.calls.Load() != 1 {
		t.Errorf("expected recomputation, discoverer calls = %d", d.calls.Load())
	}
}

func TestRunFanOutCapsThreads(t *testing.T) {
	t.Parallel()

	all := threadsN(7)
	byURL := make(map[string][]string)
	recsByURL := make(map[string][]models.Recommendation)
	for i, th := range all {
		byURL[th.URL] = []string{"a sufficiently long comment"}
		recsByURL[th.URL] = []models.Recommendation{
			rec(fmt.Sprintf("P%d", i), "r", scoreptr(float64(i)/10), fmt.Sprintf("u%d", i)),
		}
	}

	store := newFakeStore()
	d := &fakeDiscoverer{threads: all}
	c := &fakeComments{byURL: byURL}
	e := &fakeExtractor{byURL: recsByURL}

	p := newTestPipeline(t, store, d, c, e)

	res, err := p.Run(context.Background(), "pond")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Only the first 5 threads are processed, but the response and the
	// cache record carry the full discovered list.
	if c.calls.Load() != 5 {
		t.Errorf("expected 5 comment fetches, got %d", c.calls.Load())
	}
	if len(res.Threads) != 7 {
		t.Errorf("expected all 7 discovered threads in response, got %d", len(res.Threads))
	}
	if len(res.Recommendations) != 5 {
		t.Errorf("expected 5 recommendations, got %d", len(res.Recommendations))
	}

	// Sorted by score descending: thread 4 contributed the top score.
	if res.Recommendations[0].Product != "P4" {
		t.Errorf("expected P4 first, got %q", res.Recommendations[0].Product)
	}

	stored := store.records["pond"]
	if stored == nil {
		t.Fatal("expected write-through record")
	}
	if len(stored.Threads) != 7 || len(stored.Recommendations) != 5 {
		t.Errorf("write-through shape wrong: %d threads, %d recs", len(stored.Threads), len(stored.Recommendations))
	}
}

func TestRunPerThreadFailuresDegrade(t *testing.T) {
	t.Parallel()

	all := threadsN(3)
	store := newFakeStore()
	d := &fakeDiscoverer{threads: all}
	c := &fakeComments{
		byURL: map[string][]string{
			all[0].URL: {"a sufficiently long comment"},
			all[2].URL: {"another long enough comment"},
		},
		errOn: map[string]error{all[1].URL: errors.New("reddit 403")},
	}
	e := &fakeExtractor{
		byURL: map[string][]models.Recommendation{
			all[0].URL: {rec("A", "r", scoreptr(0.8), "a")},
		},
		errOn: map[string]error{all[2].URL: errors.New("model timeout")},
	}

	p := newTestPipeline(t, store, d, c, e)

	res, err := p.Run(context.Background(), "pond")
	if err != nil {
		t.Fatalf("per-thread failures must not fail the run: %v", err)
	}
	if len(res.Recommendations) != 1 || res.Recommendations[0].Product != "A" {
		t.Errorf("expected the one healthy thread's result, got %+v", res.Recommendations)
	}
}

func TestRunDiscoveryFailureIsFatal(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	d := &fakeDiscoverer{err: errors.New("provider down")}

	p := newTestPipeline(t, store, d, &fakeComments{}, &fakeExtractor{})

	if _, err := p.Run(context.Background(), "pond"); err == nil {
		t.Fatal("expected error when discovery fails")
	}
	if store.inserts != 0 {
		t.Error("failed run must not write through")
	}
}

func TestRunEmptyQueryRejected(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, newFakeStore(), &fakeDiscoverer{}, &fakeComments{}, &fakeExtractor{})

	if _, err := p.Run(context.Background(), "   "); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestRunStoreInsertFailureStillReturns(t *testing.T) {
	t.Parallel()

	all := threadsN(1)
	store := newFakeStore()
	store.insertErr = errors.New("disk full")
	d := &fakeDiscoverer{threads: all}
	c := &fakeComments{byURL: map[string][]string{all[0].URL: {"a sufficiently long comment"}}}
	e := &fakeExtractor{byURL: map[string][]models.Recommendation{
		all[0].URL: {rec("A", "r", scoreptr(0.8), "a")},
	}}

	p := newTestPipeline(t, store, d, c, e)

	res, err := p.Run(context.Background(), "pond")
	if err != nil {
		t.Fatalf("insert failure must not fail the run: %v", err)
	}
	if len(res.Recommendations) != 1 {
		t.Errorf("expected results despite insert failure, got %+v", res.Recommendations)
	}
	if store.inserts != 1 {
		t.Errorf("expected one insert attempt, got %d", store.inserts)
	}
}

func TestRunStoreLookupFailureRecomputes(t *testing.T) {
	t.Parallel()

	all := threadsN(1)
	store := newFakeStore()
	store.lookupErr = errors.New("connection refused")
	d := &fakeDiscoverer{threads: all}
	c := &fakeComments{byURL: map[string][]string{all[0].URL: {"a sufficiently long comment"}}}
	e := &fakeExtractor{byURL: map[string][]models.Recommendation{
		all[0].URL: {rec("A", "r", scoreptr(0.8), "a")},
	}}

	p := newTestPipeline(t, store, d, c, e)

	res, err := p.Run(context.Background(), "pond")
	if err != nil {
		t.Fatalf("lookup failure must fail open: %v", err)
	}
	if res.CacheHit || len(res.Recommendations) != 1 {
		t.Errorf("expected fresh computation, got %+v", res)
	}
}

func TestRunThreadWithoutCommentsSkipsExtraction(t *testing.T) {
	t.Parallel()

	all := threadsN(4)
	byURL := make(map[string][]string)
	recsByURL := make(map[string][]models.Recommendation)
	for i, th := range all {
		if i == 2 {
			continue // thread 2 has no qualifying comments
		}
		byURL[th.URL] = []string{"a sufficiently long comment"}
		recsByURL[th.URL] = []models.Recommendation{
			rec(fmt.Sprintf("P%d", i), "r", scoreptr(0.5), fmt.Sprintf("u%d", i)),
		}
	}

	store := newFakeStore()
	d := &fakeDiscoverer{threads: all}
	c := &fakeComments{byURL: byURL}
	e := &fakeExtractor{byURL: recsByURL}

	p := newTestPipeline(t, store, d, c, e)

	res, err := p.Run(context.Background(), "pond")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Recommendations) != 3 {
		t.Errorf("expected 3 recommendations, got %d", len(res.Recommendations))
	}
	if e.calls.Load() != 3 {
		t.Errorf("commentless thread must not reach the extractor, calls = %d", e.calls.Load())
	}
}

func TestRunDuplicatesAcrossThreadsMerged(t *testing.T) {
	t.Parallel()

	all := threadsN(2)
	store := newFakeStore()
	d := &fakeDiscoverer{threads: all}
	c := &fakeComments{byURL: map[string][]string{
		all[0].URL: {"a sufficiently long comment"},
		all[1].URL: {"another long enough comment"},
	}}
	e := &fakeExtractor{byURL: map[string][]models.Recommendation{
		all[0].URL: {rec("Pond Liner", "short", scoreptr(0.5), "u")},
		all[1].URL: {rec("pond-liner", "better and longer reason", scoreptr(0.9), "u")},
	}}

	p := newTestPipeline(t, store, d, c, e)

	res, err := p.Run(context.Background(), "pond")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Recommendations) != 1 {
		t.Fatalf("expected cross-thread dedup, got %d results", len(res.Recommendations))
	}
	if *res.Recommendations[0].EndorsementScore != 0.9 {
		t.Errorf("higher-scored duplicate should win: %+v", res.Recommendations[0])
	}
}
