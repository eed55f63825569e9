// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "referee-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// DefaultJournalCodes lists the journals with historical extraction data.
var DefaultJournalCodes = []string{"mf", "mor", "fs", "jota", "mafe", "sicon", "sifin", "naco"}

// FinderConfig holds settings for referee discovery. It replaces the
// process-wide constants of earlier extraction tooling so tests can run
// against temporary directories and alternate journal sets.
type FinderConfig struct {
	HTTPConfig `yaml:",inline"`

	// JournalCodes lists the journals scanned for historical referees.
	// Empty means DefaultJournalCodes.
	JournalCodes []string `json:"journal_codes" yaml:"journal_codes"`

	// OutputsDir is the root of past extraction results
	// (outputs/<journal_code>/*.json).
	OutputsDir string `json:"outputs_dir" yaml:"outputs_dir"`

	// MaxCandidates is the nominal result cap (default 15).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// OverfetchFactor multiplies MaxCandidates in the returned list
	// (default 2) so a caller can apply its own conflict-of-interest
	// filtering before trimming to the true cap. Set to 1 to disable
	// the buffer.
	OverfetchFactor int `json:"overfetch_factor" yaml:"overfetch_factor"`

	// OpenAlexMailto is sent as the mailto parameter for polite pool access.
	OpenAlexMailto string `json:"openalex_mailto,omitempty" yaml:"openalex_mailto,omitempty"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// OpenAlexMinInterval is the minimum spacing between OpenAlex calls
	// (default 300ms).
	OpenAlexMinInterval time.Duration `json:"openalex_min_interval" yaml:"openalex_min_interval"`

	// SemanticScholarMinInterval is the minimum spacing between Semantic
	// Scholar calls (default 600ms; stricter public rate limit).
	SemanticScholarMinInterval time.Duration `json:"semantic_scholar_min_interval" yaml:"semantic_scholar_min_interval"`
}

// Journals returns the configured journal codes or the default set.
func (c FinderConfig) Journals() []string {
	if len(c.JournalCodes) > 0 {
		return c.JournalCodes
	}
	return DefaultJournalCodes
}

// ResultCap returns MaxCandidates × OverfetchFactor with defaults applied.
func (c FinderConfig) ResultCap() int {
	maxCandidates := c.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 15
	}
	factor := c.OverfetchFactor
	if factor <= 0 {
		factor = 2
	}
	return maxCandidates * factor
}

// EnrichConfig holds settings for the profile enrichment stage.
type EnrichConfig struct {
	HTTPConfig `yaml:",inline"`

	// CachePath is the SQLite profile cache location
	// (default cache/profiles.db). Empty string disables caching.
	CachePath string `json:"cache_path" yaml:"cache_path"`

	// CacheTTL is how long a cached profile stays fresh (default 30 days).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// ORCIDMinInterval is the minimum spacing between ORCID API calls
	// (default 1s).
	ORCIDMinInterval time.Duration `json:"orcid_min_interval" yaml:"orcid_min_interval"`

	// SemanticScholarMinInterval is the minimum spacing between Semantic
	// Scholar author calls (default 600ms).
	SemanticScholarMinInterval time.Duration `json:"semantic_scholar_min_interval" yaml:"semantic_scholar_min_interval"`

	// OpenAlexMinInterval is the minimum spacing between OpenAlex author
	// calls (default 300ms).
	OpenAlexMinInterval time.Duration `json:"openalex_min_interval" yaml:"openalex_min_interval"`

	// OpenAlexMailto is sent as the mailto parameter for polite pool access.
	OpenAlexMailto string `json:"openalex_mailto,omitempty" yaml:"openalex_mailto,omitempty"`
}
