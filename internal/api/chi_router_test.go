// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/askred/askred/internal/config"
	"github.com/askred/askred/internal/pipeline"
)

func newTestRouter(t *testing.T, runner *fakeRunner) http.Handler {
	t.Helper()

	handler := NewHandler(runner, fakeStore{}, "test")
	router := NewRouter(handler, &config.SecurityConfig{
		CORSOrigins:     []string{"*"},
		RateLimitReqs:   100,
		RateLimitWindow: time.Minute,
	})
	return router.Setup()
}

func TestRouterSearchRoute(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{result: &pipeline.Result{}}
	srv := newTestRouter(t, runner)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{"query":"pond"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers on API routes")
	}
}

func TestRouterPropagatesRequestID(t *testing.T) {
	t.Parallel()

	srv := newTestRouter(t, &fakeRunner{result: &pipeline.Result{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("X-Request-ID", "caller-supplied-id")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "caller-supplied-id" {
		t.Errorf("X-Request-ID = %q", got)
	}
}

func TestRouterHealthRoutes(t *testing.T) {
	t.Parallel()

	srv := newTestRouter(t, &fakeRunner{})

	for _, path := range []string{"/api/v1/health", "/api/v1/health/live", "/api/v1/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d", path, rec.Code)
		}
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestRouter(t, &fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "askred_") {
		t.Error("expected askred metrics in exposition")
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	t.Parallel()

	srv := newTestRouter(t, &fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}
