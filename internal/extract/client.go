// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

// Package extract turns raw discussion comments into structured product
// recommendations using an OpenAI-compatible chat completion model.
package extract

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/askred/askred/internal/config"
	"github.com/askred/askred/internal/logging"
	"github.com/askred/askred/internal/metrics"
	"github.com/askred/askred/internal/models"
)

// Extractor produces recommendations from one thread's comments.
type Extractor interface {
	Extract(ctx context.Context, query string, thread models.Thread, comments []string) ([]models.Recommendation, error)
}

// ChatClient calls an OpenAI-compatible chat completion endpoint.
type ChatClient struct {
	client      *resty.Client
	model       string
	temperature float64
	broaden     bool
	tag         string
}

// NewChatClient creates an extraction client from configuration.
func NewChatClient(cfg *config.ExtractorConfig, pipeline *config.PipelineConfig) *ChatClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &ChatClient{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		broaden:     pipeline.BroadenVagueSearches,
		tag:         pipeline.AffiliateTag,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract sends the comment block to the model and returns enriched
// recommendations. A response that cannot be parsed as a JSON array
// yields an empty list, not an error; only transport and API failures
// are reported to the caller.
func (c *ChatClient) Extract(ctx context.Context, query string, thread models.Thread, comments []string) ([]models.Recommendation, error) {
	if len(comments) == 0 {
		return nil, nil
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       c.model,
			Temperature: c.temperature,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: buildPrompt(query, comments)},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		metrics.ExtractionRequests.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("extraction model request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		metrics.ExtractionRequests.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("extraction model returned status %d", resp.StatusCode())
	}

	var payload chatResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		metrics.ExtractionRequests.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("failed to decode extraction model response: %w", err)
	}

	raw := ""
	if len(payload.Choices) > 0 {
		raw = payload.Choices[0].Message.Content
	}

	parsed, err := parseRecommendations(raw)
	if err != nil {
		metrics.ExtractionRequests.WithLabelValues("parse_error").Inc()
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("thread_url", thread.URL).
			Msg("Discarding unparseable extraction output")
		return nil, nil
	}

	recs := make([]models.Recommendation, 0, len(parsed))
	for _, p := range parsed {
		recs = append(recs, models.Recommendation{
			Product:          p.Product,
			Reason:           p.Reason,
			EndorsementScore: p.EndorsementScore,
			RedditURL:        thread.URL,
			AmazonURL:        amazonSearchURL(searchTerm(p.Product, query, c.broaden), c.tag),
		})
	}

	metrics.ExtractionRequests.WithLabelValues("success").Inc()
	logging.Ctx(ctx).Debug().
		Str("thread_url", thread.URL).
		Int("recommendations", len(recs)).
		Msg("Extracted recommendations from thread")

	return recs, nil
}
