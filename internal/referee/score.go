// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package referee

import (
	"math"
	"strings"
	"unicode"

	"github.com/pdiddy/referee-engine/internal/sources"
	"github.com/pdiddy/referee-engine/pkg/types"
)

// Scoring weights. Each signal is bounded to [0,1] before weighting;
// the source addend and recency bonus are flat.
const (
	topicWeight    = 0.30
	titleWeight    = 0.25
	citationWeight = 0.15
	recencyBonus   = 0.05

	// overlapBoost scales partial word overlap up before capping, so
	// even modest topical agreement registers.
	overlapBoost = 3.0

	// hIndexCeiling is the h-index at which the citation signal maxes out.
	hIndexCeiling = 25.0

	// recencyYear is the publication year from which the recency bonus applies.
	recencyYear = 2023
)

// Score computes the composite relevance of one candidate for the
// manuscript signals. Deterministic given its inputs; the result is
// clipped to [0,1] and rounded to 3 decimals.
func Score(c types.Candidate, sig sources.Signals) float64 {
	score := 0.0

	// Keyword/topic word overlap.
	kwWords := wordSet(sig.Keywords...)
	topicWords := wordSet(c.ResearchTopics...)
	score += topicWeight * boostedOverlap(kwWords, topicWords)

	// Best title similarity across the candidate's papers.
	titleWords := wordSet(sig.Title)
	best := 0.0
	for _, p := range c.RelevantPapers {
		if j := jaccard(titleWords, wordSet(p.Title)); j > best {
			best = j
		}
	}
	score += titleWeight * math.Min(best*overlapBoost, 1.0)

	// Citation strength.
	score += citationWeight * math.Min(float64(c.HIndex)/hIndexCeiling, 1.0)

	// Source priority addend.
	score += c.Source.Weight()

	// Recency bonus for any recent paper.
	for _, p := range c.RelevantPapers {
		if p.Year >= recencyYear {
			score += recencyBonus
			break
		}
	}

	score = math.Min(math.Max(score, 0), 1)
	return math.Round(score*1000) / 1000
}

// boostedOverlap returns the word-level overlap ratio of two sets,
// scaled by overlapBoost and capped at 1.
func boostedOverlap(a, b map[string]bool) float64 {
	return math.Min(jaccard(a, b)*overlapBoost, 1.0)
}

// jaccard is |a ∩ b| / |a ∪ b|, zero when either set is empty.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// TopicOverlap records which manuscript keywords touch the candidate's
// research topics: a keyword overlaps when any of its words appears in
// any topic's word set. Looser than the scoring computation; the result
// is for display and explainability only.
func TopicOverlap(keywords []string, topics []string) []string {
	if len(keywords) == 0 || len(topics) == 0 {
		return nil
	}
	topicWords := wordSet(topics...)

	var overlap []string
	for _, kw := range keywords {
		for w := range wordSet(kw) {
			if topicWords[w] {
				overlap = append(overlap, kw)
				break
			}
		}
	}
	return overlap
}

// wordSet tokenizes the inputs into a lower-cased word set, splitting
// on any non-letter, non-digit rune.
func wordSet(texts ...string) map[string]bool {
	set := make(map[string]bool)
	for _, text := range texts {
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			set[w] = true
		}
	}
	return set
}
