// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/referee-engine/internal/httputil"
	"github.com/pdiddy/referee-engine/pkg/types"
)

// semanticSearchBase is the Semantic Scholar paper search endpoint.
// Declared as a var so tests can substitute an httptest server.
var semanticSearchBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const (
	semanticTitleLimit = 200
	semanticMaxResults = 10
	semanticFields     = "title,authors"
)

// SemanticScholarSource finds candidates among the co-authors of papers
// matching the manuscript title. The source exposes no institution or
// ORCID data, so its candidates carry names only.
type SemanticScholarSource struct {
	Client *httputil.Client
	APIKey string
}

// Name returns the adapter identifier.
func (s *SemanticScholarSource) Name() string { return "semantic_scholar" }

// Source returns the candidate source tag.
func (s *SemanticScholarSource) Source() types.Source { return types.SourceSemanticScholar }

// Fetch issues one paper search and emits one candidate per co-author.
// An empty query (no title and no keywords) returns no candidates
// without making a network call.
func (s *SemanticScholarSource) Fetch(ctx context.Context, sig Signals) ([]types.Candidate, error) {
	query := buildSemanticQuery(sig)
	if query == "" {
		return nil, nil
	}

	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprintf("%d", semanticMaxResults)},
		"fields": {semanticFields},
	}

	header := http.Header{}
	if s.APIKey != "" {
		header.Set("x-api-key", s.APIKey)
	}

	resp, err := s.Client.Get(ctx, semanticSearchBase+"?"+params.Encode(), header)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var candidates []types.Candidate
	for _, paper := range sr.Data {
		for _, author := range paper.Authors {
			if author.Name == "" || sig.IsAuthor(author.Name) {
				continue
			}
			candidates = append(candidates, types.Candidate{
				Name:   author.Name,
				Source: types.SourceSemanticScholar,
			})
		}
	}
	return candidates, nil
}

// buildSemanticQuery uses the first 200 characters of the title, falling
// back to the keyword list when the manuscript has no title.
func buildSemanticQuery(sig Signals) string {
	if strings.TrimSpace(sig.Title) != "" {
		return strings.TrimSpace(truncate(sig.Title, semanticTitleLimit))
	}
	return strings.TrimSpace(strings.Join(sig.Keywords, " "))
}

// Semantic Scholar API JSON structures.
type semanticSearchResponse struct {
	Total int                   `json:"total"`
	Data  []semanticSearchPaper `json:"data"`
}

type semanticSearchPaper struct {
	PaperID string                 `json:"paperId"`
	Title   string                 `json:"title"`
	Authors []semanticSearchAuthor `json:"authors"`
}

type semanticSearchAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}
