// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/referee-engine/internal/httputil"
	"github.com/pdiddy/referee-engine/internal/namenorm"
	"github.com/pdiddy/referee-engine/pkg/types"
)

// openAlexWorksBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexWorksBase = "https://api.openalex.org/works"

const (
	openAlexMaxKeywords = 5
	openAlexTitleLimit  = 100
	openAlexPerPage     = 25

	// openAlexFromDate restricts results to articles published after 2019.
	openAlexFromDate = "2020-01-01"
)

// OpenAlexSource finds candidates among the co-authors of recent journal
// articles matching the manuscript's keywords.
type OpenAlexSource struct {
	Client *httputil.Client
	// Mailto is sent for polite pool access.
	Mailto string
}

// Name returns the adapter identifier.
func (s *OpenAlexSource) Name() string { return "openalex" }

// Source returns the candidate source tag.
func (s *OpenAlexSource) Source() types.Source { return types.SourceOpenAlex }

// Fetch issues one Works search and emits one candidate per co-author on
// every returned work. An empty query (no keywords and no title) returns
// no candidates without making a network call.
func (s *OpenAlexSource) Fetch(ctx context.Context, sig Signals) ([]types.Candidate, error) {
	query := buildOpenAlexQuery(sig)
	if query == "" {
		return nil, nil
	}

	params := url.Values{
		"search":   {query},
		"per-page": {fmt.Sprintf("%d", openAlexPerPage)},
		"filter":   {"type:article,from_publication_date:" + openAlexFromDate},
		"sort":     {"relevance_score:desc"},
	}
	if s.Mailto != "" {
		params.Set("mailto", s.Mailto)
	}

	resp, err := s.Client.Get(ctx, openAlexWorksBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex works request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("OpenAlex works API returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexWorksResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	var candidates []types.Candidate
	for _, work := range oar.Results {
		for _, authorship := range work.Authorships {
			name := authorship.Author.DisplayName
			if name == "" || sig.IsAuthor(name) {
				continue
			}
			c := types.Candidate{
				Name:   name,
				ORCID:  namenorm.ORCID(authorship.Author.ORCID),
				Source: types.SourceOpenAlex,
			}
			if len(authorship.Institutions) > 0 {
				c.Institution = authorship.Institutions[0].DisplayName
				c.Country = authorship.Institutions[0].CountryCode
			}
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

// buildOpenAlexQuery joins up to 5 keywords, falling back to the first
// 100 characters of the title when the manuscript has no keywords.
func buildOpenAlexQuery(sig Signals) string {
	if len(sig.Keywords) > 0 {
		keywords := sig.Keywords
		if len(keywords) > openAlexMaxKeywords {
			keywords = keywords[:openAlexMaxKeywords]
		}
		return strings.TrimSpace(strings.Join(keywords, " "))
	}
	return strings.TrimSpace(truncate(sig.Title, openAlexTitleLimit))
}

// OpenAlex API JSON structures.
type openAlexWorksResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	PublicationYear int                  `json:"publication_year"`
	Authorships     []openAlexAuthorship `json:"authorships"`
}

type openAlexAuthorship struct {
	Author       openAlexAuthor        `json:"author"`
	Institutions []openAlexInstitution `json:"institutions"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ORCID       string `json:"orcid"`
}

type openAlexInstitution struct {
	DisplayName string `json:"display_name"`
	CountryCode string `json:"country_code"`
}
