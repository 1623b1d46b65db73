// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package pipeline

import (
	"sort"
	"strings"

	"github.com/askred/askred/internal/models"
)

// dedupKey canonicalizes a recommendation's identity: the product name
// lowercased with punctuation runs collapsed to single spaces, joined
// with the lowercased Amazon URL. "Firestone Pond Liner" and
// "firestone   pond-liner!!" collide.
func dedupKey(r models.Recommendation) string {
	var b strings.Builder
	for _, c := range strings.ToLower(r.Product) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		} else {
			b.WriteRune(' ')
		}
	}
	name := strings.Join(strings.Fields(b.String()), " ")

	if r.AmazonURL == "" {
		return name
	}
	return name + "::" + strings.ToLower(r.AmazonURL)
}

// Aggregate deduplicates, ranks, and caps the flattened per-thread
// results. On a key collision the entry with the strictly higher score
// wins; at equal scores the entry with the strictly longer reason wins.
// The winner replaces the incumbent wholesale, so its reddit URL keeps
// pointing at the thread that backs its reason. Survivors are sorted by
// score descending (missing scores rank as zero) with the pre-sort
// order preserved among ties.
func Aggregate(recs []models.Recommendation, maxResults int) []models.Recommendation {
	byKey := make(map[string]int, len(recs))
	deduped := make([]models.Recommendation, 0, len(recs))

	for _, rec := range recs {
		key := dedupKey(rec)
		idx, seen := byKey[key]
		if !seen {
			byKey[key] = len(deduped)
			deduped = append(deduped, rec)
			continue
		}

		existing := &deduped[idx]
		switch {
		case rec.ScoreOrZero() > existing.ScoreOrZero():
			*existing = rec
		case rec.ScoreOrZero() == existing.ScoreOrZero() && len(rec.Reason) > len(existing.Reason):
			*existing = rec
		}
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].ScoreOrZero() > deduped[j].ScoreOrZero()
	})

	if maxResults > 0 && len(deduped) > maxResults {
		deduped = deduped[:maxResults]
	}
	return deduped
}
