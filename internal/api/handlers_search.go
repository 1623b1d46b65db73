// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/askred/askred/internal/logging"
	"github.com/askred/askred/internal/models"
	"github.com/askred/askred/internal/pipeline"
	"github.com/askred/askred/internal/validation"
)

// Search handles POST /api/v1/search: it answers a product query with
// ranked recommendations and the discussion threads behind them.
//
// Responses:
//   - 200 {"results": [...], "posts": [...]}
//   - 400 {"error": "Invalid query format"} for malformed bodies
//   - 400 {"error": "Missing query"} for empty queries
//   - 500 {"error": "Search failed"} when discovery fails
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	log := logging.Ctx(r.Context())

	var req models.SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Rejecting malformed search request")
		respondError(w, http.StatusBadRequest, "Invalid query format")
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		log.Warn().Interface("errors", verr.Errors()).Msg("Rejecting search request without query")
		respondError(w, http.StatusBadRequest, "Missing query")
		return
	}

	result, err := h.pipeline.Run(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyQuery) {
			respondError(w, http.StatusBadRequest, "Missing query")
			return
		}
		log.Error().Err(err).Str("query", sanitizeLogValue(req.Query)).Msg("Search pipeline failed")
		respondError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	// Empty lists marshal as [], never null.
	results := result.Recommendations
	if results == nil {
		results = []models.Recommendation{}
	}
	posts := result.Threads
	if posts == nil {
		posts = []models.Thread{}
	}

	respondJSON(w, http.StatusOK, models.SearchResponse{
		Results: results,
		Posts:   posts,
	})
}
