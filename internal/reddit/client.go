// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package reddit

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/askred/askred/internal/config"
	"github.com/askred/askred/internal/logging"
	"github.com/askred/askred/internal/metrics"
)

// threadIDPattern extracts the opaque thread ID from a thread URL.
var threadIDPattern = regexp.MustCompile(`comments/(\w+)`)

// ThreadID returns the thread identifier embedded in a Reddit thread
// URL, or empty when the URL carries none.
func ThreadID(url string) string {
	m := threadIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// tokenProvider supplies a bearer token for authenticated API calls.
type tokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// CommentFetcher retrieves discussion bodies for a thread URL.
type CommentFetcher interface {
	Comments(ctx context.Context, threadURL string) ([]string, error)
}

// Client reads comments from the authenticated Reddit API. Outbound
// calls share a rate limiter because Reddit enforces per-client QPS.
type Client struct {
	client      *resty.Client
	tokens      tokenProvider
	limiter     *rate.Limiter
	maxComments int
	minLength   int
}

// NewClient creates a Reddit comment client.
func NewClient(cfg *config.RedditConfig, pipeline *config.PipelineConfig, tokens tokenProvider) *Client {
	client := resty.New().
		SetBaseURL(cfg.APIBaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent)

	return &Client{
		client:      client,
		tokens:      tokens,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxComments: pipeline.MaxComments,
		minLength:   pipeline.MinCommentLength,
	}
}

// commentListing is the comment-tree payload subset we consume. The API
// returns a two-element array: listing 0 is the submission, listing 1
// the top-level comment tree.
type commentListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Body string `json:"body"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Comments fetches top-level comment bodies for the given thread URL,
// dropping short bodies and capping the count. A thread URL without a
// recognizable ID yields an empty slice, not an error.
func (c *Client) Comments(ctx context.Context, threadURL string) ([]string, error) {
	id := ThreadID(threadURL)
	if id == "" {
		logging.Ctx(ctx).Debug().Str("url", threadURL).Msg("Thread URL has no recognizable ID, skipping")
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		metrics.RedditFetches.WithLabelValues("failure").Inc()
		return nil, err
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get(fmt.Sprintf("/comments/%s.json", id))
	if err != nil {
		metrics.RedditFetches.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("reddit comment fetch failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		metrics.RedditFetches.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("reddit API returned status %d for thread %s", resp.StatusCode(), id)
	}

	var listings []commentListing
	if err := json.Unmarshal(resp.Body(), &listings); err != nil {
		metrics.RedditFetches.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("failed to decode reddit comment listing: %w", err)
	}
	if len(listings) < 2 {
		metrics.RedditFetches.WithLabelValues("success").Inc()
		return nil, nil
	}

	comments := make([]string, 0, c.maxComments)
	for _, child := range listings[1].Data.Children {
		body := child.Data.Body
		if len(body) <= c.minLength {
			continue
		}
		comments = append(comments, body)
		if len(comments) >= c.maxComments {
			break
		}
	}

	metrics.RedditFetches.WithLabelValues("success").Inc()
	logging.Ctx(ctx).Debug().
		Str("thread_id", id).
		Int("comments", len(comments)).
		Msg("Fetched thread comments")

	return comments, nil
}
