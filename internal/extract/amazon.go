// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package extract

import (
	"fmt"
	"net/url"
	"strings"
)

// Vagueness thresholds for broadening a product name into a more
// specific Amazon search term.
const (
	vagueMaxWords = 2
	vagueMaxChars = 20
)

// searchTerm picks the Amazon search term for a product name. Short
// generic names ("liner", "oil") match too broadly on their own, so
// when broadening is enabled and the name does not already carry the
// query context, the query is appended.
func searchTerm(product, query string, broaden bool) string {
	if !broaden {
		return product
	}

	words := len(strings.Fields(product))
	if words <= vagueMaxWords && len(product) <= vagueMaxChars &&
		!strings.Contains(strings.ToLower(product), strings.ToLower(query)) {
		return product + " " + query
	}
	return product
}

// amazonSearchURL builds an Amazon search link for the term, carrying
// the affiliate tag.
func amazonSearchURL(term, tag string) string {
	return fmt.Sprintf("https://www.amazon.com/s?k=%s&tag=%s", url.QueryEscape(term), tag)
}
