// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"

	"github.com/pdiddy/referee-engine/internal/namenorm"
	"github.com/pdiddy/referee-engine/pkg/types"
)

// AuthorSuggestedSource emits the referees the manuscript's authors
// recommended. Deterministic: it reads manuscript metadata only and
// makes no network calls.
type AuthorSuggestedSource struct{}

// Name returns the adapter identifier.
func (s *AuthorSuggestedSource) Name() string { return "author_suggested" }

// Source returns the candidate source tag.
func (s *AuthorSuggestedSource) Source() types.Source { return types.SourceAuthorSuggested }

// Fetch converts the recommended-referee list into candidates. Referees
// whose name matches a manuscript author are dropped here as well as in
// the aggregator.
func (s *AuthorSuggestedSource) Fetch(_ context.Context, sig Signals) ([]types.Candidate, error) {
	var candidates []types.Candidate
	for _, ref := range sig.Recommended {
		if ref.Name == "" || sig.IsAuthor(ref.Name) {
			continue
		}
		candidates = append(candidates, types.Candidate{
			Name:            ref.Name,
			Email:           ref.Email,
			Institution:     ref.Institution,
			ORCID:           namenorm.ORCID(ref.ORCID),
			Source:          types.SourceAuthorSuggested,
			AuthorSuggested: true,
		})
	}
	return candidates, nil
}
