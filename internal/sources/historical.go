// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/referee-engine/internal/history"
	"github.com/pdiddy/referee-engine/internal/namenorm"
	"github.com/pdiddy/referee-engine/pkg/types"
)

// HistoricalSource emits referees who reviewed keyword-overlapping
// manuscripts on earlier extraction runs. It reads the most recent
// qualifying extraction file per configured journal; a journal whose
// file is missing or malformed is skipped, not fatal.
type HistoricalSource struct {
	OutputsDir string
	Journals   []string

	// Warnings receives per-journal skip diagnostics. Nil discards them.
	Warnings io.Writer
}

// Name returns the adapter identifier.
func (s *HistoricalSource) Name() string { return "historical" }

// Source returns the candidate source tag.
func (s *HistoricalSource) Source() types.Source { return types.SourceHistorical }

// Fetch scans the configured journals and emits every referee of every
// past manuscript whose keyword set intersects the current manuscript's
// keywords, carrying over previously captured contact and enrichment
// fields and tagging the provenance.
func (s *HistoricalSource) Fetch(_ context.Context, sig Signals) ([]types.Candidate, error) {
	want := keywordSet(sig.Keywords)
	if len(want) == 0 {
		return nil, nil
	}

	warnings := s.Warnings
	if warnings == nil {
		warnings = io.Discard
	}

	var candidates []types.Candidate
	for _, journal := range s.Journals {
		path, err := history.LatestFile(s.OutputsDir, journal)
		if err != nil {
			fmt.Fprintf(warnings, "warning: historical scan skipping %s: %v\n", journal, err)
			continue
		}
		ex, err := history.Load(path)
		if err != nil {
			fmt.Fprintf(warnings, "warning: historical scan skipping %s: %v\n", journal, err)
			continue
		}

		for _, past := range ex.Manuscripts {
			matched := intersect(want, past.Keywords)
			if len(matched) == 0 {
				continue
			}
			for _, ref := range past.Referees {
				if ref.Name == "" || sig.IsAuthor(ref.Name) {
					continue
				}
				c := types.Candidate{
					Name:             ref.Name,
					Email:            ref.Email,
					Institution:      ref.Institution,
					ORCID:            namenorm.ORCID(ref.ORCID),
					Source:           types.SourceHistorical,
					Profile:          ref.Profile,
					SourceJournal:    journal,
					SourceManuscript: past.ID,
					MatchedKeywords:  matched,
				}
				if p := ref.Profile; p != nil {
					c.HIndex = p.HIndex
					c.CitationCount = p.CitationCount
					c.ResearchTopics = p.ResearchTopics
					c.RelevantPapers = p.TopPapers
				}
				candidates = append(candidates, c)
			}
		}
	}
	return candidates, nil
}

// keywordSet lower-cases and trims keywords into a lookup set.
func keywordSet(keywords []string) map[string]bool {
	set := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			set[kw] = true
		}
	}
	return set
}

// intersect returns the past manuscript's keywords present in want,
// in their original casing.
func intersect(want map[string]bool, keywords []string) []string {
	var matched []string
	seen := make(map[string]bool)
	for _, kw := range keywords {
		key := strings.ToLower(strings.TrimSpace(kw))
		if want[key] && !seen[key] {
			matched = append(matched, kw)
			seen[key] = true
		}
	}
	return matched
}
