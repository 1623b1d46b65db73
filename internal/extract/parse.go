// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package extract

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// rawRecommendation is the shape the model is asked to emit.
type rawRecommendation struct {
	Product          string   `json:"product"`
	Reason           string   `json:"reason"`
	EndorsementScore *float64 `json:"endorsement_score"`
}

// parseRecommendations salvages the JSON array from model output that
// may be wrapped in prose or markdown fences, then decodes it. Models
// sometimes ignore output-format instructions, so the salvage keeps
// everything between the first '[' and the last ']'.
func parseRecommendations(raw string) ([]rawRecommendation, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in model output")
	}

	var recs []rawRecommendation
	if err := json.Unmarshal([]byte(raw[start:end+1]), &recs); err != nil {
		return nil, fmt.Errorf("failed to decode model output: %w", err)
	}
	return recs, nil
}
