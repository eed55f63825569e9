// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources provides the candidate source adapters for referee
// discovery. Each adapter queries one origin (manuscript metadata, the
// OpenAlex Works API, the Semantic Scholar paper search, or past
// extraction files) and returns raw candidates; a failing adapter
// contributes nothing rather than aborting the run.
package sources

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/referee-engine/internal/namenorm"
	"github.com/pdiddy/referee-engine/pkg/types"
)

// Adapter fetches candidate referees from a single origin. Implementations
// follow the Strategy pattern: the orchestrator runs them in priority
// order and merges the results.
type Adapter interface {
	Name() string
	Source() types.Source
	Fetch(ctx context.Context, sig Signals) ([]types.Candidate, error)
}

// Signals holds the manuscript-derived inputs the adapters consume.
type Signals struct {
	Title    string
	Abstract string
	Keywords []string

	// AuthorNames are the manuscript authors' names, normalized.
	// No candidate matching one of these may be emitted.
	AuthorNames []string

	Recommended []types.RefereeRef
	Opposed     []types.RefereeRef
}

// IsAuthor reports whether name matches a manuscript author after
// normalization.
func (s Signals) IsAuthor(name string) bool {
	n := namenorm.Normalize(name)
	if n == "" {
		return false
	}
	for _, a := range s.AuthorNames {
		if a == n {
			return true
		}
	}
	return false
}

// FromManuscript extracts adapter signals from a manuscript, checking
// both recommendation metadata locations.
func FromManuscript(m types.Manuscript) Signals {
	sig := Signals{
		Title:       m.Title,
		Abstract:    m.Abstract,
		Keywords:    m.Keywords,
		Recommended: m.Recommended(),
		Opposed:     m.Opposed(),
	}
	for _, a := range m.Authors {
		if n := namenorm.Normalize(a.Name); n != "" {
			sig.AuthorNames = append(sig.AuthorNames, n)
		}
	}
	return sig
}

// Collect runs the adapters in order and concatenates their candidate
// lists. Adapter errors are the failure boundary: each is logged to w
// and accumulated, and that source contributes an empty list. The
// returned order preserves adapter order, which the aggregator's
// first-wins dedup depends on.
func Collect(ctx context.Context, adapters []Adapter, sig Signals, w io.Writer) ([]types.Candidate, []string) {
	var (
		all    []types.Candidate
		errors []string
	)
	for _, a := range adapters {
		candidates, err := a.Fetch(ctx, sig)
		if err != nil {
			msg := fmt.Sprintf("%s: %v", a.Name(), err)
			errors = append(errors, msg)
			fmt.Fprintf(w, "warning: source %s failed: %v\n", a.Name(), err)
			continue
		}
		all = append(all, candidates...)
	}
	return all, errors
}

// truncate shortens s to at most max bytes, used when deriving queries
// from long titles.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
