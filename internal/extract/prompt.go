// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package extract

import (
	"fmt"
	"strings"
)

// systemPrompt pins the model to bare JSON output. Any preamble the
// model adds anyway is handled by the salvage step in parse.go.
const systemPrompt = "You extract product recommendations from Reddit comments. Return ONLY valid JSON. No markdown, no explanation, no text before or after the array."

// buildPrompt renders the user message: extraction contract, scoring
// bands, and the numbered comment block.
func buildPrompt(query string, comments []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are an assistant extracting only **clearly endorsed product recommendations** from Reddit comments about %q.

Only include products that are explicitly recommended or praised as something the commenter has personally used or strongly supports.

Skip vague mentions, jokes, comparisons, speculation, or off-topic products. It is perfectly acceptable to return an empty list if no clear recommendations are found.

For each recommendation, return:
- "product": The name of the product being recommended.
- "reason": A brief explanation of why users recommended **that specific product**.
  - The reason MUST be tailored to that product, not a generic sentence reused for multiple items.
  - If a single comment mentions several products, create separate entries and make the reason specific to each item.
  - Include one or two direct quotes from Reddit users in the reason when possible. Wrap quotes in curly smart quotes (%s and %s).
- "endorsement_score": A number from 0 to 1 representing the strength of the endorsement:
  - 0.81-1.00 = Strong, repeated, enthusiastic endorsements by multiple users
  - 0.51-0.80 = Recommended clearly by at least one user
  - 0.21-0.50 = Mentioned with some endorsement but less certainty or consensus
  - 0.00-0.20 = Do not include these

Very important:
- Do NOT reuse the exact same "reason" text for different products.
- Each "reason" must mention at least one detail or benefit that applies uniquely or concretely to that specific product.

Output must be valid JSON. No markdown, no intro, no trailing comments. Return only the array.

Comments:
`, query, "“", "”")

	for i, c := range comments {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, c)
	}

	return b.String()
}
