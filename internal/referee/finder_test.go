// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package referee

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/pdiddy/referee-engine/internal/sources"
	"github.com/pdiddy/referee-engine/pkg/types"
)

// stubAdapter returns fixed candidates or a fixed error.
type stubAdapter struct {
	name       string
	source     types.Source
	candidates []types.Candidate
	err        error
}

func (a *stubAdapter) Name() string         { return a.name }
func (a *stubAdapter) Source() types.Source { return a.source }
func (a *stubAdapter) Fetch(context.Context, sources.Signals) ([]types.Candidate, error) {
	return a.candidates, a.err
}

// stubEnricher returns canned profiles by name.
type stubEnricher struct {
	profiles map[string]*types.Profile
	err      error
	calls    []string
}

func (e *stubEnricher) Enrich(_ context.Context, name, _, _ string) (*types.Profile, error) {
	e.calls = append(e.calls, name)
	if e.err != nil {
		return nil, e.err
	}
	return e.profiles[name], nil
}

func testManuscript() types.Manuscript {
	return types.Manuscript{
		Title:    "Optimal Stopping in Stochastic Control",
		Keywords: []string{"optimal stopping", "stochastic control"},
		Authors:  []types.Author{{Name: "Jane Doe"}},
		RefereeRecommendations: types.RefereeRecommendations{
			Recommended: []types.RefereeRef{{Name: "John Smith", Institution: "MIT"}},
		},
	}
}

func TestFindAuthorSuggestedOnly(t *testing.T) {
	// Author-suggested adapter live, all network-backed sources empty.
	adapters := []sources.Adapter{
		&sources.AuthorSuggestedSource{},
		&stubAdapter{name: "openalex", source: types.SourceOpenAlex},
		&stubAdapter{name: "semantic_scholar", source: types.SourceSemanticScholar},
		&stubAdapter{name: "historical", source: types.SourceHistorical},
	}

	f := NewFinder(types.FinderConfig{}, adapters, nil, io.Discard)
	result, err := f.Find(context.Background(), testManuscript())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	if len(result.Candidates) != 1 {
		t.Fatalf("candidates = %d, want exactly 1", len(result.Candidates))
	}
	c := result.Candidates[0]
	if c.Name != "John Smith" || c.Source != types.SourceAuthorSuggested || !c.AuthorSuggested {
		t.Errorf("candidate = %+v", c)
	}
	if c.RelevanceScore < 0.15 || c.RelevanceScore > 1.0 {
		t.Errorf("score = %v, want [0.15, 1.0]", c.RelevanceScore)
	}
}

func TestFindDedupAcrossSourcesMergeOrderWins(t *testing.T) {
	// Same email from openalex and historical: openalex merges earlier
	// (adapter order author_suggested, openalex, semantic_scholar,
	// historical), so it survives.
	adapters := []sources.Adapter{
		&sources.AuthorSuggestedSource{},
		&stubAdapter{name: "openalex", candidates: []types.Candidate{
			{Name: "G. Chen", Email: "a@b.edu", Source: types.SourceOpenAlex},
		}},
		&stubAdapter{name: "semantic_scholar"},
		&stubAdapter{name: "historical", candidates: []types.Candidate{
			{Name: "Grace Chen", Email: "A@B.edu", Source: types.SourceHistorical},
		}},
	}

	f := NewFinder(types.FinderConfig{}, adapters, nil, io.Discard)
	result, err := f.Find(context.Background(), types.Manuscript{Title: "T"})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	if len(result.Candidates) != 1 {
		t.Fatalf("candidates = %d, want 1", len(result.Candidates))
	}
	if result.Candidates[0].Source != types.SourceOpenAlex {
		t.Errorf("survivor source = %q, want openalex", result.Candidates[0].Source)
	}
	if result.DupsRemoved != 1 {
		t.Errorf("dups removed = %d, want 1", result.DupsRemoved)
	}
}

func TestFindNeverEmitsManuscriptAuthors(t *testing.T) {
	adapters := []sources.Adapter{
		&stubAdapter{name: "openalex", candidates: []types.Candidate{
			{Name: "JANE  DOE", Source: types.SourceOpenAlex},
			{Name: "José García", Source: types.SourceOpenAlex},
		}},
	}
	m := types.Manuscript{
		Title:   "T",
		Authors: []types.Author{{Name: "Jane Doe"}, {Name: "Jose Garcia"}},
	}

	f := NewFinder(types.FinderConfig{}, adapters, nil, io.Discard)
	result, err := f.Find(context.Background(), m)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(result.Candidates) != 0 {
		t.Errorf("candidates = %+v, want none (all are authors)", result.Candidates)
	}
}

func TestFindResultCapOverfetch(t *testing.T) {
	var many []types.Candidate
	for i := 0; i < 50; i++ {
		many = append(many, types.Candidate{
			Name:   string(rune('A'+i%26)) + string(rune('a'+i/26)),
			Email:  string(rune('a'+i%26)) + string(rune('0'+i/26)) + "@x.edu",
			Source: types.SourceOpenAlex,
		})
	}
	adapters := []sources.Adapter{&stubAdapter{name: "openalex", candidates: many}}

	cfg := types.FinderConfig{MaxCandidates: 5, OverfetchFactor: 2}
	f := NewFinder(cfg, adapters, nil, io.Discard)
	result, err := f.Find(context.Background(), types.Manuscript{Title: "T"})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(result.Candidates) != 10 {
		t.Errorf("candidates = %d, want MaxCandidates × OverfetchFactor = 10", len(result.Candidates))
	}
}

func TestFindSourceFailureDegrades(t *testing.T) {
	adapters := []sources.Adapter{
		&stubAdapter{name: "openalex", err: errors.New("boom")},
		&stubAdapter{name: "historical", candidates: []types.Candidate{
			{Name: "Grace Chen", Source: types.SourceHistorical},
		}},
	}

	f := NewFinder(types.FinderConfig{}, adapters, nil, io.Discard)
	result, err := f.Find(context.Background(), types.Manuscript{Title: "T"})
	if err != nil {
		t.Fatalf("Find must not fail on a single bad source: %v", err)
	}
	if len(result.Candidates) != 1 {
		t.Errorf("candidates = %d, want 1 from the healthy source", len(result.Candidates))
	}
	if len(result.SourceErrors) != 1 {
		t.Errorf("source errors = %v", result.SourceErrors)
	}
}

func TestFindEnrichmentAppliedAndSkipped(t *testing.T) {
	adapters := []sources.Adapter{
		&stubAdapter{name: "openalex", candidates: []types.Candidate{
			{Name: "Grace Chen", Source: types.SourceOpenAlex},
			{Name: "Failing Person", Source: types.SourceOpenAlex},
			// Already enriched: must not be re-enriched.
			{Name: "Cached Person", Source: types.SourceOpenAlex, Profile: &types.Profile{HIndex: 9}},
		}},
	}
	enricher := &stubEnricher{profiles: map[string]*types.Profile{
		"Grace Chen": {
			HIndex:         31,
			CitationCount:  4100,
			ResearchTopics: []string{"optimal stopping"},
			TopPapers: []types.PaperSummary{
				{Title: "P1", Year: 2024}, {Title: "P2"}, {Title: "P3"},
				{Title: "P4"}, {Title: "P5"}, {Title: "P6"},
			},
			Affiliation: "ETH Zurich",
		},
	}}

	f := NewFinder(types.FinderConfig{}, adapters, enricher, io.Discard)
	result, err := f.Find(context.Background(), testManuscript())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	byName := map[string]types.Candidate{}
	for _, c := range result.Candidates {
		byName[c.Name] = c
	}

	grace := byName["Grace Chen"]
	if grace.HIndex != 31 || grace.Institution != "ETH Zurich" {
		t.Errorf("enrichment not applied: %+v", grace)
	}
	if len(grace.RelevantPapers) != 5 {
		t.Errorf("relevant papers = %d, want capped at 5", len(grace.RelevantPapers))
	}
	if len(grace.TopicOverlap) == 0 {
		t.Error("topic overlap annotation missing")
	}

	// Enrichment returning nil is skipped silently, candidate kept.
	if _, ok := byName["Failing Person"]; !ok {
		t.Error("candidate with failed enrichment dropped")
	}

	// The pre-enriched candidate must not have been passed to the enricher.
	for _, name := range enricher.calls {
		if name == "Cached Person" {
			t.Error("already-enriched candidate re-enriched")
		}
	}
}

func TestFindIdempotent(t *testing.T) {
	adapters := []sources.Adapter{
		&sources.AuthorSuggestedSource{},
		&stubAdapter{name: "openalex", candidates: []types.Candidate{
			{Name: "Grace Chen", Source: types.SourceOpenAlex},
			{Name: "Omar Haddad", Source: types.SourceOpenAlex},
		}},
	}
	enricher := &stubEnricher{profiles: map[string]*types.Profile{
		"Grace Chen": {HIndex: 31, ResearchTopics: []string{"optimal stopping"}},
		"Omar Haddad": {HIndex: 12, ResearchTopics: []string{"queueing"}},
	}}

	f := NewFinder(types.FinderConfig{}, adapters, enricher, io.Discard)

	first, err := f.Find(context.Background(), testManuscript())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	second, err := f.Find(context.Background(), testManuscript())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	if !reflect.DeepEqual(first.Candidates, second.Candidates) {
		t.Error("identical inputs produced different ordering or scores")
	}
}

func TestFindMarksOpposed(t *testing.T) {
	adapters := []sources.Adapter{
		&stubAdapter{name: "openalex", candidates: []types.Candidate{
			{Name: "Grace Chen", Source: types.SourceOpenAlex},
		}},
	}
	m := types.Manuscript{
		Title: "T",
		RefereeRecommendations: types.RefereeRecommendations{
			Opposed: []types.RefereeRef{{Name: "grace chen"}},
		},
	}

	f := NewFinder(types.FinderConfig{}, adapters, nil, io.Discard)
	result, err := f.Find(context.Background(), m)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(result.Candidates) != 1 || !result.Candidates[0].AuthorOpposed {
		t.Errorf("candidates = %+v, want Grace Chen flagged opposed", result.Candidates)
	}
}
