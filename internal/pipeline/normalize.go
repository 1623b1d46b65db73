// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

// Package pipeline orchestrates the recommendation flow: query
// normalization, cache lookup, thread discovery, concurrent per-thread
// extraction, aggregation, and write-through.
package pipeline

import (
	"errors"
	"net/url"
	"strings"
)

// ErrEmptyQuery reports a query that is empty after normalization.
var ErrEmptyQuery = errors.New("query is empty after normalization")

// NormalizeQuery canonicalizes a raw user query: trims and lowercases,
// and when the query is an Amazon product link, recovers a product
// phrase from the URL instead of searching for the link text itself.
func NormalizeQuery(raw string) (string, error) {
	query := strings.ToLower(strings.TrimSpace(raw))

	if extracted := productPhraseFromAmazonURL(query); extracted != "" {
		query = strings.ToLower(strings.TrimSpace(extracted))
	}

	if query == "" {
		return "", ErrEmptyQuery
	}
	return query, nil
}

// productPhraseFromAmazonURL recovers a human-readable product phrase
// from an Amazon URL. The path segment immediately before the "dp"
// marker is the slugged product title; when absent, the "keywords"
// search parameter is used. Returns empty for anything that is not an
// Amazon URL.
func productPhraseFromAmazonURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if !strings.Contains(u.Hostname(), "amazon.") {
		return ""
	}

	parts := strings.Split(u.Path, "/")
	for i, p := range parts {
		if p != "dp" {
			continue
		}
		if i > 0 && parts[i-1] != "" {
			return strings.NewReplacer("-", " ", "_", " ").Replace(parts[i-1])
		}
		break
	}

	if keywords := u.Query().Get("keywords"); keywords != "" {
		return strings.NewReplacer("%", " ", "+", " ").Replace(keywords)
	}
	return ""
}
