// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich assembles scholarly profiles for referee candidates
// from the ORCID public API, the Semantic Scholar author API, and the
// OpenAlex authors API, with a SQLite cache in front.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/referee-engine/internal/httputil"
	"github.com/pdiddy/referee-engine/internal/namenorm"
	"github.com/pdiddy/referee-engine/pkg/types"
)

// API base URLs. Declared as vars so tests can substitute httptest servers.
var (
	orcidSearchBase     = "https://pub.orcid.org/v3.0/expanded-search/"
	semanticAuthorBase  = "https://api.semanticscholar.org/graph/v1/author/search"
	openAlexAuthorsBase = "https://api.openalex.org/authors"
)

const (
	semanticAuthorFields = "name,affiliations,hIndex,citationCount,papers.title,papers.year,papers.venue,papers.externalIds"
	maxTopPapers         = 5
)

// Client queries the three profile APIs sequentially per candidate.
// Each API gets its own rate-limited HTTP client.
type Client struct {
	cfg   types.EnrichConfig
	orcid *httputil.Client
	s2    *httputil.Client
	oa    *httputil.Client
	cache *Cache
}

// NewClient creates an enrichment client. cache may be nil to disable
// caching.
func NewClient(cfg types.EnrichConfig, cache *Cache) *Client {
	orcidInterval := cfg.ORCIDMinInterval
	if orcidInterval <= 0 {
		orcidInterval = time.Second
	}
	s2Interval := cfg.SemanticScholarMinInterval
	if s2Interval <= 0 {
		s2Interval = 600 * time.Millisecond
	}
	oaInterval := cfg.OpenAlexMinInterval
	if oaInterval <= 0 {
		oaInterval = 300 * time.Millisecond
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "referee-engine/0.1"
	}

	return &Client{
		cfg:   cfg,
		orcid: httputil.NewClient(orcidInterval, httputil.WithUserAgent(userAgent)),
		s2:    httputil.NewClient(s2Interval, httputil.WithUserAgent(userAgent)),
		oa:    httputil.NewClient(oaInterval, httputil.WithUserAgent(userAgent)),
		cache: cache,
	}
}

// cacheKey prefers the ORCID iD, which is stable across name spellings.
func cacheKey(name, orcid string) string {
	if orcid != "" {
		return "orcid:" + orcid
	}
	return "name:" + namenorm.Normalize(name)
}

// Enrich resolves a profile for one person. The cache is consulted
// first; on a miss each API is tried in turn and partial results are
// merged — a profile is returned as long as at least one API answered.
// Returns nil (no error) when nothing at all was found.
func (c *Client) Enrich(ctx context.Context, name, orcid, institution string) (*types.Profile, error) {
	if name == "" && orcid == "" {
		return nil, nil
	}

	key := cacheKey(name, orcid)
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	profile := &types.Profile{ORCID: orcid}
	found := false

	// ORCID resolves the iD and a canonical affiliation when we only
	// have a name.
	if profile.ORCID == "" && name != "" {
		if rec := c.lookupORCID(ctx, name, institution); rec != nil {
			profile.ORCID = rec.ORCID
			if profile.Affiliation == "" {
				profile.Affiliation = rec.Institution
			}
			found = true
		}
	}

	// Semantic Scholar carries the citation metrics and top papers.
	if name != "" {
		if author := c.lookupSemanticAuthor(ctx, name); author != nil {
			profile.HIndex = author.HIndex
			profile.CitationCount = author.CitationCount
			if profile.Affiliation == "" && len(author.Affiliations) > 0 {
				profile.Affiliation = author.Affiliations[0]
			}
			profile.TopPapers = topPapers(author.Papers)
			found = true
		}
	}

	// OpenAlex contributes research topics and a country.
	if ax := c.lookupOpenAlexAuthor(ctx, name, profile.ORCID); ax != nil {
		for _, concept := range ax.Concepts {
			if concept.DisplayName != "" {
				profile.ResearchTopics = append(profile.ResearchTopics, concept.DisplayName)
			}
		}
		if profile.Affiliation == "" && ax.LastKnownInstitution.DisplayName != "" {
			profile.Affiliation = ax.LastKnownInstitution.DisplayName
		}
		if ax.LastKnownInstitution.CountryCode != "" {
			profile.Country = ax.LastKnownInstitution.CountryCode
		}
		found = true
	}

	if !found {
		return nil, nil
	}

	profile.FetchedAt = time.Now().UTC()
	if c.cache != nil {
		// Cache write failures don't block enrichment.
		_ = c.cache.Put(ctx, key, profile)
	}
	return profile, nil
}

// orcidRecord is the subset of an expanded-search hit the enricher uses.
type orcidRecord struct {
	ORCID       string
	Institution string
}

// lookupORCID searches the ORCID registry by name and returns the first
// hit. Errors are swallowed: ORCID is an optional signal.
func (c *Client) lookupORCID(ctx context.Context, name, institution string) *orcidRecord {
	query := fmt.Sprintf("given-and-family-names:%q", name)
	if institution != "" {
		query += fmt.Sprintf(" AND affiliation-org-name:%q", institution)
	}
	params := url.Values{"q": {query}, "rows": {"1"}}

	header := http.Header{}
	header.Set("Accept", "application/vnd.orcid+json")

	resp, err := c.orcid.Get(ctx, orcidSearchBase+"?"+params.Encode(), header)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var or orcidExpandedSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil
	}
	if len(or.Results) == 0 {
		return nil
	}

	hit := or.Results[0]
	rec := &orcidRecord{ORCID: namenorm.ORCID(hit.ORCIDID)}
	if len(hit.InstitutionNames) > 0 {
		rec.Institution = hit.InstitutionNames[0]
	}
	return rec
}

// lookupSemanticAuthor returns the top author-search hit, or nil.
func (c *Client) lookupSemanticAuthor(ctx context.Context, name string) *semanticAuthorDetail {
	params := url.Values{
		"query":  {name},
		"limit":  {"1"},
		"fields": {semanticAuthorFields},
	}
	header := http.Header{}
	if c.cfg.SemanticScholarAPIKey != "" {
		header.Set("x-api-key", c.cfg.SemanticScholarAPIKey)
	}

	resp, err := c.s2.Get(ctx, semanticAuthorBase+"?"+params.Encode(), header)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var sr semanticAuthorResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil
	}
	if len(sr.Data) == 0 {
		return nil
	}
	return &sr.Data[0]
}

// lookupOpenAlexAuthor resolves an author by ORCID when available, else
// by name search.
func (c *Client) lookupOpenAlexAuthor(ctx context.Context, name, orcid string) *openAlexAuthorDetail {
	var reqURL string
	switch {
	case orcid != "":
		reqURL = openAlexAuthorsBase + "/orcid:" + orcid
	case name != "":
		params := url.Values{"search": {name}, "per-page": {"1"}}
		if c.cfg.OpenAlexMailto != "" {
			params.Set("mailto", c.cfg.OpenAlexMailto)
		}
		reqURL = openAlexAuthorsBase + "?" + params.Encode()
	default:
		return nil
	}

	resp, err := c.oa.Get(ctx, reqURL, nil)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	if orcid != "" {
		var author openAlexAuthorDetail
		if err := json.NewDecoder(resp.Body).Decode(&author); err != nil {
			return nil
		}
		return &author
	}

	var ar openAlexAuthorsResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil
	}
	if len(ar.Results) == 0 {
		return nil
	}
	return &ar.Results[0]
}

// topPapers converts Semantic Scholar papers into summaries, keeping at
// most maxTopPapers.
func topPapers(papers []semanticAuthorPaper) []types.PaperSummary {
	var out []types.PaperSummary
	for _, p := range papers {
		if p.Title == "" {
			continue
		}
		out = append(out, types.PaperSummary{
			Title: p.Title,
			Year:  p.Year,
			Venue: p.Venue,
			DOI:   p.ExternalIDs.DOI,
		})
		if len(out) == maxTopPapers {
			break
		}
	}
	return out
}

// ORCID expanded-search JSON structures.
type orcidExpandedSearchResponse struct {
	Results []orcidExpandedResult `json:"expanded-result"`
}

type orcidExpandedResult struct {
	ORCIDID          string   `json:"orcid-id"`
	GivenNames       string   `json:"given-names"`
	FamilyNames      string   `json:"family-names"`
	InstitutionNames []string `json:"institution-name"`
}

// Semantic Scholar author API JSON structures.
type semanticAuthorResponse struct {
	Total int                    `json:"total"`
	Data  []semanticAuthorDetail `json:"data"`
}

type semanticAuthorDetail struct {
	AuthorID      string                `json:"authorId"`
	Name          string                `json:"name"`
	Affiliations  []string              `json:"affiliations"`
	HIndex        int                   `json:"hIndex"`
	CitationCount int                   `json:"citationCount"`
	Papers        []semanticAuthorPaper `json:"papers"`
}

type semanticAuthorPaper struct {
	Title       string              `json:"title"`
	Year        int                 `json:"year"`
	Venue       string              `json:"venue"`
	ExternalIDs semanticExternalIDs `json:"externalIds"`
}

type semanticExternalIDs struct {
	DOI string `json:"DOI"`
}

// OpenAlex authors API JSON structures.
type openAlexAuthorsResponse struct {
	Results []openAlexAuthorDetail `json:"results"`
}

type openAlexAuthorDetail struct {
	ID                   string                       `json:"id"`
	DisplayName          string                       `json:"display_name"`
	Concepts             []openAlexConcept            `json:"x_concepts"`
	LastKnownInstitution openAlexAuthorInstitution    `json:"last_known_institution"`
}

type openAlexConcept struct {
	DisplayName string `json:"display_name"`
}

type openAlexAuthorInstitution struct {
	DisplayName string `json:"display_name"`
	CountryCode string `json:"country_code"`
}
