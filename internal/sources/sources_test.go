// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

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
func (a *stubAdapter) Fetch(context.Context, Signals) ([]types.Candidate, error) {
	return a.candidates, a.err
}

func TestCollectPreservesAdapterOrder(t *testing.T) {
	adapters := []Adapter{
		&stubAdapter{name: "first", candidates: []types.Candidate{{Name: "A"}, {Name: "B"}}},
		&stubAdapter{name: "second", candidates: []types.Candidate{{Name: "C"}}},
	}

	all, errs := Collect(context.Background(), adapters, Signals{}, io.Discard)
	if len(errs) != 0 {
		t.Fatalf("errors = %v", errs)
	}
	got := []string{all[0].Name, all[1].Name, all[2].Name}
	want := []string{"A", "B", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order = %v, want %v", got, want)
			break
		}
	}
}

func TestCollectAbsorbsAdapterFailure(t *testing.T) {
	adapters := []Adapter{
		&stubAdapter{name: "flaky", err: errors.New("connection refused")},
		&stubAdapter{name: "healthy", candidates: []types.Candidate{{Name: "C"}}},
	}

	var log strings.Builder
	all, errs := Collect(context.Background(), adapters, Signals{}, &log)

	if len(all) != 1 || all[0].Name != "C" {
		t.Errorf("candidates = %+v, want only the healthy source's", all)
	}
	if len(errs) != 1 || !strings.Contains(errs[0], "flaky") {
		t.Errorf("errors = %v", errs)
	}
	if !strings.Contains(log.String(), "warning: source flaky failed") {
		t.Errorf("log = %q", log.String())
	}
}

func TestFromManuscriptMergesRecommendationLocations(t *testing.T) {
	m := types.Manuscript{
		Title:    "Optimal Stopping",
		Keywords: []string{"control"},
		Authors:  []types.Author{{Name: "Jane DOE"}, {Name: ""}},
		RefereeRecommendations: types.RefereeRecommendations{
			Recommended: []types.RefereeRef{{Name: "Nested Rec"}},
			Opposed:     []types.RefereeRef{{Name: "Nested Opp"}},
		},
		LegacyRecommended: []types.RefereeRef{{Name: "Legacy Rec"}},
		LegacyOpposed:     []types.RefereeRef{{Name: "Legacy Opp"}},
	}

	sig := FromManuscript(m)

	if len(sig.Recommended) != 2 || sig.Recommended[0].Name != "Nested Rec" || sig.Recommended[1].Name != "Legacy Rec" {
		t.Errorf("recommended = %+v", sig.Recommended)
	}
	if len(sig.Opposed) != 2 {
		t.Errorf("opposed = %+v", sig.Opposed)
	}
	if len(sig.AuthorNames) != 1 || sig.AuthorNames[0] != "jane doe" {
		t.Errorf("author names = %v, want normalized, empties dropped", sig.AuthorNames)
	}
	if !sig.IsAuthor("JANE  DOE") || sig.IsAuthor("John Smith") {
		t.Error("IsAuthor normalization mismatch")
	}
}

func TestAuthorSuggestedFetch(t *testing.T) {
	sig := Signals{
		AuthorNames: []string{"jane doe"},
		Recommended: []types.RefereeRef{
			{Name: "John Smith", Email: "js@mit.edu", Institution: "MIT", ORCID: "https://orcid.org/0000-0002-1825-0097"},
			{Name: "Jane Doe"}, // manuscript author, excluded
			{Name: ""},         // no name, excluded
		},
	}

	s := &AuthorSuggestedSource{}
	candidates, err := s.Fetch(context.Background(), sig)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("candidates = %d, want 1", len(candidates))
	}
	c := candidates[0]
	if c.Name != "John Smith" || !c.AuthorSuggested || c.Source != types.SourceAuthorSuggested {
		t.Errorf("candidate = %+v", c)
	}
	if c.ORCID != "0000-0002-1825-0097" {
		t.Errorf("orcid = %q, want normalized", c.ORCID)
	}
}
