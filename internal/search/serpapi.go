// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

// Package search discovers candidate Reddit discussion threads for a
// query via an external search provider (SerpAPI).
package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/askred/askred/internal/config"
	"github.com/askred/askred/internal/logging"
	"github.com/askred/askred/internal/models"
)

// searchSuffix is the fixed intent phrase appended to every provider
// query: a recommendation-seeking phrase plus a site restriction to the
// discussion platform.
const searchSuffix = " product recommendations site:reddit.com"

// threadURLMarker identifies links that point at a subreddit thread.
const threadURLMarker = "reddit.com/r/"

// defaultSubreddit is used when a thread URL has no /r/ path segment.
const defaultSubreddit = "reddit"

// Discoverer finds candidate discussion threads for a normalized query.
// Implementations preserve provider ranking order and do not re-score.
type Discoverer interface {
	Discover(ctx context.Context, query string) ([]models.Thread, error)
}

// serpResponse is the provider payload subset we consume.
type serpResponse struct {
	OrganicResults []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"organic_results"`
}

// SerpClient queries SerpAPI for organic results.
type SerpClient struct {
	client  *resty.Client
	apiKey  string
	results int
}

// NewSerpClient creates a SerpAPI client from configuration.
func NewSerpClient(cfg *config.SerpConfig) *SerpClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &SerpClient{
		client:  client,
		apiKey:  cfg.APIKey,
		results: cfg.Results,
	}
}

// Discover searches the provider and returns the Reddit threads among
// the organic results, in provider order. Results that are not thread
// links are expected noise and dropped silently. Partial or empty
// provider results are valid.
func (c *SerpClient) Discover(ctx context.Context, query string) ([]models.Thread, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":       query + searchSuffix,
			"api_key": c.apiKey,
			"num":     strconv.Itoa(c.results),
		}).
		Get("/search.json")
	if err != nil {
		return nil, fmt.Errorf("search provider request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("search provider returned status %d", resp.StatusCode())
	}

	var payload serpResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode search provider response: %w", err)
	}

	logging.Ctx(ctx).Debug().
		Str("query", query).
		Int("organic_results", len(payload.OrganicResults)).
		Msg("Search provider responded")

	threads := make([]models.Thread, 0, len(payload.OrganicResults))
	for _, r := range payload.OrganicResults {
		if !strings.Contains(r.Link, threadURLMarker) {
			continue
		}
		threads = append(threads, models.Thread{
			Title:     r.Title,
			URL:       r.Link,
			Subreddit: parseSubreddit(r.Link),
			// Score and NumComments are reserved; the provider does
			// not supply them.
		})
	}

	return threads, nil
}

// parseSubreddit extracts the forum name from the path segment following
// /r/, defaulting when absent.
func parseSubreddit(link string) string {
	_, after, found := strings.Cut(link, "/r/")
	if !found {
		return defaultSubreddit
	}
	name, _, _ := strings.Cut(after, "/")
	if name == "" {
		return defaultSubreddit
	}
	return name
}
