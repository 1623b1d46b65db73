// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package api

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/askred/askred/internal/logging"
	"github.com/askred/askred/internal/models"
)

// maxRequestBody bounds request bodies; queries are short strings.
const maxRequestBody = 64 * 1024

// respondJSON writes a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError writes the error wire shape: {"error": "..."}.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{Error: message})
}

// sanitizeLogValue strips CR/LF so user input cannot forge log lines.
func sanitizeLogValue(v string) string {
	v = strings.ReplaceAll(v, "\n", " ")
	v = strings.ReplaceAll(v, "\r", " ")
	if len(v) > 200 {
		v = v[:200]
	}
	return v
}
