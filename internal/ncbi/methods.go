// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ncbi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/scholar-profile/internal/jats"
)

// FetchMethodsBatch retrieves full text for the given PMCIDs and extracts
// each article's Methods section. The result slice is in input order, one
// entry per requested identifier: the flattened methods text, or nil when
// the article was absent from the response, had no body, or had no
// identifiable Methods section.
//
// Responses may carry articles in any order, so each returned article is
// matched by its own identifier from the article metadata rather than by
// position. A malformed article inside a batch produces a warning and is
// skipped; a non-success transport response fails the whole call. Empty
// input short-circuits with no network call.
func (c *Client) FetchMethodsBatch(ctx context.Context, pmcids []string) ([]*string, []string, error) {
	if len(pmcids) == 0 {
		return nil, nil, nil
	}

	results := make([]*string, len(pmcids))

	// Requested set keyed by normalized identifier.
	requested := make(map[string]int, len(pmcids))
	for i, id := range pmcids {
		requested[normalizePMCID(id)] = i
	}

	var warnings []string
	for _, batch := range chunk(pmcids, methodsBatchSize) {
		stripped := make([]string, len(batch))
		for i, id := range batch {
			stripped[i] = normalizePMCID(id)
		}

		params := url.Values{
			"db":      {"pmc"},
			"id":      {strings.Join(stripped, ",")},
			"retmode": {"xml"},
		}

		body, err := c.get(ctx, efetchBase, params)
		if err != nil {
			return nil, warnings, fmt.Errorf("fetching full text: %w", err)
		}

		for _, article := range jats.CarveArticles(string(body)) {
			id := jats.ArticleID(article, "pmcid")
			if id == "" {
				id = jats.ArticleID(article, "pmc")
			}
			if id == "" {
				warnings = append(warnings, "full-text batch: article without a repository identifier skipped")
				continue
			}

			idx, ok := requested[normalizePMCID(id)]
			if !ok {
				warnings = append(warnings, fmt.Sprintf("full-text batch: unrequested article %s skipped", id))
				continue
			}

			if text := jats.MethodsText(article); text != "" {
				results[idx] = &text
			}
		}
	}

	return results, warnings, nil
}

// normalizePMCID strips the repository prefix and lowercases for
// case-insensitive matching ("PMC1234567" and "1234567" are the same ID).
func normalizePMCID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(strings.ToUpper(id), "PMC")
	return strings.ToLower(id)
}
