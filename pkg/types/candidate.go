// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the referee-engine pipeline.
// See docs/ARCHITECTURE § Data Structures.
package types

import "time"

// Source identifies which adapter produced a candidate referee.
type Source string

const (
	SourceAuthorSuggested Source = "author_suggested"
	SourceOpenAlex        Source = "openalex_search"
	SourceSemanticScholar Source = "semantic_scholar_search"
	SourceHistorical      Source = "historical_referee"
)

// sourcePriority orders sources for the first-wins merge. A candidate
// discovered by a lower-numbered source keeps its fields when the same
// person is rediscovered by a later source.
var sourcePriority = map[Source]int{
	SourceAuthorSuggested: 0,
	SourceOpenAlex:        1,
	SourceSemanticScholar: 2,
	SourceHistorical:      3,
}

// Priority returns the merge rank of the source. Unknown sources sort last.
func (s Source) Priority() int {
	if p, ok := sourcePriority[s]; ok {
		return p
	}
	return len(sourcePriority)
}

// sourceWeight is the flat scoring addend per source.
var sourceWeight = map[Source]float64{
	SourceAuthorSuggested: 0.15,
	SourceHistorical:      0.12,
	SourceOpenAlex:        0.08,
	SourceSemanticScholar: 0.08,
}

// Weight returns the scoring addend for the source. Unknown sources get
// a small default so they are never scored at zero on source alone.
func (s Source) Weight() float64 {
	if w, ok := sourceWeight[s]; ok {
		return w
	}
	return 0.05
}

// PaperSummary is a compact record of one of a candidate's publications.
type PaperSummary struct {
	Title string `json:"title" yaml:"title"`
	Year  int    `json:"year,omitempty" yaml:"year,omitempty"`
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`
	DOI   string `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// Profile is a normalized scholarly profile assembled by the enrichment
// stage from the ORCID, Semantic Scholar, and OpenAlex author APIs.
type Profile struct {
	ORCID          string         `json:"orcid,omitempty" yaml:"orcid,omitempty"`
	Affiliation    string         `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
	Country        string         `json:"country,omitempty" yaml:"country,omitempty"`
	HIndex         int            `json:"h_index,omitempty" yaml:"h_index,omitempty"`
	CitationCount  int            `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`
	ResearchTopics []string       `json:"research_topics,omitempty" yaml:"research_topics,omitempty"`
	TopPapers      []PaperSummary `json:"top_papers,omitempty" yaml:"top_papers,omitempty"`

	// FetchedAt is when the profile was retrieved; used for cache expiry.
	FetchedAt time.Time `json:"fetched_at,omitempty" yaml:"fetched_at,omitempty"`
}

// Candidate is a prospective referee for one manuscript. Candidates are
// created fresh per discovery run, enriched and scored in place, and
// returned ranked; there is no persistent candidate store.
type Candidate struct {
	// Name is the dedup key when no email is present.
	Name string `json:"name" yaml:"name"`

	// Email, when present, is the primary dedup key (lower-cased).
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	Institution string `json:"institution,omitempty" yaml:"institution,omitempty"`
	Country     string `json:"country,omitempty" yaml:"country,omitempty"`

	// ORCID is the bare normalized identifier (e.g. "0000-0002-1825-0097").
	ORCID string `json:"orcid,omitempty" yaml:"orcid,omitempty"`

	// Source identifies the adapter that first produced this candidate.
	Source Source `json:"source" yaml:"source"`

	// RelevanceScore is in [0,1], rounded to 3 decimals. Computed, never
	// read back from disk.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// TopicOverlap lists manuscript keywords that match the candidate's
	// research topics. Display annotation only; scoring uses its own
	// word-set computation.
	TopicOverlap []string `json:"topic_overlap,omitempty" yaml:"topic_overlap,omitempty"`

	HIndex        int `json:"h_index,omitempty" yaml:"h_index,omitempty"`
	CitationCount int `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`

	// RelevantPapers holds up to 5 of the candidate's publications.
	RelevantPapers []PaperSummary `json:"relevant_papers,omitempty" yaml:"relevant_papers,omitempty"`

	ResearchTopics []string `json:"research_topics,omitempty" yaml:"research_topics,omitempty"`

	// Conflicts and IsConflicted are reserved for a downstream
	// conflict-of-interest filter. No current code path populates them.
	Conflicts    []string `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	IsConflicted bool     `json:"is_conflicted,omitempty" yaml:"is_conflicted,omitempty"`

	AuthorSuggested bool `json:"author_suggested,omitempty" yaml:"author_suggested,omitempty"`
	AuthorOpposed   bool `json:"author_opposed,omitempty" yaml:"author_opposed,omitempty"`

	// Profile is the enrichment payload, nil until enriched.
	Profile *Profile `json:"web_profile,omitempty" yaml:"web_profile,omitempty"`

	// Provenance for historical candidates: the journal and manuscript
	// the referee was seen on, and the keywords that overlapped.
	SourceJournal    string   `json:"source_journal,omitempty" yaml:"source_journal,omitempty"`
	SourceManuscript string   `json:"source_manuscript,omitempty" yaml:"source_manuscript,omitempty"`
	MatchedKeywords  []string `json:"matched_keywords,omitempty" yaml:"matched_keywords,omitempty"`
}
