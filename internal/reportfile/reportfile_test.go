// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reportfile

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/referee-engine/pkg/types"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	report := &Report{
		Manuscript: ManuscriptRef{
			ID:       "MF-2025-007",
			Title:    "Optimal Stopping in Stochastic Control",
			Keywords: []string{"optimal stopping"},
			Authors:  []string{"Jane Doe"},
			Journal:  "mf",
		},
		Config: ReportConfig{MaxCandidates: 15, OverfetchFactor: 2},
		Candidates: []types.Candidate{
			{
				Name:            "John Smith",
				Institution:     "MIT",
				Source:          types.SourceAuthorSuggested,
				RelevanceScore:  0.42,
				AuthorSuggested: true,
				TopicOverlap:    []string{"optimal stopping"},
			},
		},
		Summary: RunSummary{
			Total:             1,
			DuplicatesRemoved: 3,
			SourceErrors:      []string{"semantic_scholar: HTTP 429"},
			Timestamp:         time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	}

	if err := Save(path, report); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Manuscript.ID != "MF-2025-007" || got.Manuscript.Journal != "mf" {
		t.Errorf("manuscript = %+v", got.Manuscript)
	}
	if len(got.Candidates) != 1 {
		t.Fatalf("candidates = %d", len(got.Candidates))
	}
	c := got.Candidates[0]
	if c.Name != "John Smith" || c.Source != types.SourceAuthorSuggested || !c.AuthorSuggested {
		t.Errorf("candidate = %+v", c)
	}
	if c.RelevanceScore != 0.42 {
		t.Errorf("score = %v", c.RelevanceScore)
	}
	if got.Summary.DuplicatesRemoved != 3 || len(got.Summary.SourceErrors) != 1 {
		t.Errorf("summary = %+v", got.Summary)
	}
	if !got.Summary.Timestamp.Equal(report.Summary.Timestamp) {
		t.Errorf("timestamp = %v", got.Summary.Timestamp)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing report file")
	}
}
