// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

// Package reddit fetches thread comments from the authenticated Reddit
// read API, managing OAuth password-grant tokens transparently.
package reddit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/askred/askred/internal/config"
	"github.com/askred/askred/internal/logging"
	"github.com/askred/askred/internal/metrics"
)

// cachedToken is an immutable token snapshot. Concurrent refreshes are
// tolerated: issuance is idempotent and the last writer wins.
type cachedToken struct {
	value     string
	expiresAt time.Time
}

// TokenSource issues and caches Reddit OAuth access tokens obtained via
// the password grant.
type TokenSource struct {
	client      *resty.Client
	cfg         *config.RedditConfig
	earlyMargin time.Duration
	current     atomic.Pointer[cachedToken]
	now         func() time.Time
}

// NewTokenSource creates a token source for the configured script app.
func NewTokenSource(cfg *config.RedditConfig) *TokenSource {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent)

	return &TokenSource{
		client:      client,
		cfg:         cfg,
		earlyMargin: cfg.TokenEarlyRefresh,
		now:         time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a valid access token, refreshing when the cached one is
// absent or within the early-refresh margin of expiry.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	if tok := ts.current.Load(); tok != nil && ts.now().Before(tok.expiresAt.Add(-ts.earlyMargin)) {
		return tok.value, nil
	}
	return ts.refresh(ctx)
}

// refresh performs the password grant and caches the result.
func (ts *TokenSource) refresh(ctx context.Context) (string, error) {
	resp, err := ts.client.R().
		SetContext(ctx).
		SetBasicAuth(ts.cfg.ClientID, ts.cfg.ClientSecret).
		SetFormData(map[string]string{
			"grant_type": "password",
			"username":   ts.cfg.Username,
			"password":   ts.cfg.Password,
		}).
		Post(ts.cfg.TokenURL)
	if err != nil {
		metrics.RedditTokenRefreshes.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("reddit token request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		metrics.RedditTokenRefreshes.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("reddit token endpoint returned status %d", resp.StatusCode())
	}

	var payload tokenResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		metrics.RedditTokenRefreshes.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("failed to decode reddit token response: %w", err)
	}
	if payload.AccessToken == "" {
		metrics.RedditTokenRefreshes.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("reddit token endpoint returned empty token")
	}

	tok := &cachedToken{
		value:     payload.AccessToken,
		expiresAt: ts.now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}
	ts.current.Store(tok)

	metrics.RedditTokenRefreshes.WithLabelValues("success").Inc()
	logging.Ctx(ctx).Debug().
		Time("expires_at", tok.expiresAt).
		Msg("Reddit access token refreshed")

	return tok.value, nil
}
