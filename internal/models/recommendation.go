// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

// Package models defines the domain types shared across the pipeline
// and the HTTP wire contract.
package models

import "time"

// Thread is a discovered Reddit discussion thread.
type Thread struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Subreddit string `json:"subreddit"`
	// Score and NumComments are reserved fields; thread discovery does
	// not populate them.
	Score       int `json:"score"`
	NumComments int `json:"num_comments"`
}

// Recommendation is one extracted product recommendation.
type Recommendation struct {
	Product string `json:"product"`
	Reason  string `json:"reason"`
	// EndorsementScore is nil when the extraction model omitted or
	// zeroed it; ranking treats nil as zero.
	EndorsementScore *float64 `json:"endorsement_score"`
	RedditURL        string   `json:"redditUrl"`
	AmazonURL        string   `json:"amazonUrl"`
}

// ScoreOrZero returns the endorsement score with nil mapped to zero.
func (r Recommendation) ScoreOrZero() float64 {
	if r.EndorsementScore == nil {
		return 0
	}
	return *r.EndorsementScore
}

// CacheRecord is one stored query result: the full discovered thread
// list and the final recommendation list.
type CacheRecord struct {
	Query           string           `json:"query"`
	Threads         []Thread         `json:"threads"`
	Recommendations []Recommendation `json:"recommendations"`
	LastUpdated     time.Time        `json:"last_updated"`
}

// SearchRequest is the POST /api/v1/search request body.
type SearchRequest struct {
	Query string `json:"query" validate:"required"`
}

// SearchResponse is the success wire shape.
type SearchResponse struct {
	Results []Recommendation `json:"results"`
	Posts   []Thread         `json:"posts"`
}

// ErrorResponse is the error wire shape.
type ErrorResponse struct {
	Error string `json:"error"`
}
