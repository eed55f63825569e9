// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package referee aggregates, enriches, scores, and ranks candidate
// referees for one manuscript.
package referee

import (
	"github.com/pdiddy/referee-engine/internal/namenorm"
	"github.com/pdiddy/referee-engine/internal/sources"
	"github.com/pdiddy/referee-engine/pkg/types"
)

// Aggregate merges raw candidates into a deduplicated set. Input order
// is source-priority order (author-suggested, OpenAlex, Semantic
// Scholar, historical) and dedup is first-wins: the earliest occurrence
// of a dedup key keeps all its fields, later duplicates are dropped
// rather than merged. The dedup key is the lower-cased email when
// present, else the normalized name. Candidates matching a manuscript
// author are excluded here regardless of what the adapters did.
//
// Returns the merged set and the number of duplicates removed.
func Aggregate(raw []types.Candidate, sig sources.Signals) ([]types.Candidate, int) {
	seen := make(map[string]bool, len(raw))
	var merged []types.Candidate
	removed := 0

	for _, c := range raw {
		if c.Name == "" || sig.IsAuthor(c.Name) {
			continue
		}
		key := namenorm.Key(c.Email, c.Name)
		if key == "" {
			continue
		}
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		merged = append(merged, c)
	}
	return merged, removed
}

// MarkOpposed flags candidates whose dedup key matches one of the
// manuscript's opposed referees. Opposed candidates stay in the list so
// editors can see them; only the flag is set.
func MarkOpposed(candidates []types.Candidate, opposed []types.RefereeRef) {
	if len(opposed) == 0 {
		return
	}
	keys := make(map[string]bool, len(opposed))
	for _, ref := range opposed {
		if key := namenorm.Key(ref.Email, ref.Name); key != "" {
			keys[key] = true
		}
	}
	for i := range candidates {
		if keys[namenorm.Key(candidates[i].Email, candidates[i].Name)] {
			candidates[i].AuthorOpposed = true
		}
	}
}
