// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package referee

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/pdiddy/referee-engine/internal/httputil"
	"github.com/pdiddy/referee-engine/internal/sources"
	"github.com/pdiddy/referee-engine/pkg/types"
)

// Enricher resolves a scholarly profile for a candidate. The concrete
// implementation lives in internal/enrich; the interface is defined
// here so tests can substitute a stub.
type Enricher interface {
	Enrich(ctx context.Context, name, orcid, institution string) (*types.Profile, error)
}

// Finder runs referee discovery for one manuscript at a time. It holds
// no mutable state between runs; concurrent Find calls are safe as long
// as each Finder has its own HTTP clients (the per-API rate limiters
// are otherwise shared across runs).
type Finder struct {
	cfg      types.FinderConfig
	adapters []sources.Adapter
	enricher Enricher
	w        io.Writer
}

// NewFinder creates a Finder with explicit adapters, typically
// DefaultAdapters. enricher may be nil to skip enrichment. Warnings and
// progress go to w.
func NewFinder(cfg types.FinderConfig, adapters []sources.Adapter, enricher Enricher, w io.Writer) *Finder {
	if w == nil {
		w = io.Discard
	}
	return &Finder{cfg: cfg, adapters: adapters, enricher: enricher, w: w}
}

// DefaultAdapters builds the four production source adapters in merge
// priority order. The OpenAlex and Semantic Scholar clients enforce the
// configured minimum spacing between calls.
func DefaultAdapters(cfg types.FinderConfig, w io.Writer) []sources.Adapter {
	openAlexInterval := cfg.OpenAlexMinInterval
	if openAlexInterval <= 0 {
		openAlexInterval = 300 * time.Millisecond
	}
	semanticInterval := cfg.SemanticScholarMinInterval
	if semanticInterval <= 0 {
		semanticInterval = 600 * time.Millisecond
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "referee-engine/0.1"
	}

	return []sources.Adapter{
		&sources.AuthorSuggestedSource{},
		&sources.OpenAlexSource{
			Client: httputil.NewClient(openAlexInterval, httputil.WithUserAgent(userAgent)),
			Mailto: cfg.OpenAlexMailto,
		},
		&sources.SemanticScholarSource{
			Client: httputil.NewClient(semanticInterval, httputil.WithUserAgent(userAgent)),
			APIKey: cfg.SemanticScholarAPIKey,
		},
		&sources.HistoricalSource{
			OutputsDir: cfg.OutputsDir,
			Journals:   cfg.Journals(),
			Warnings:   w,
		},
	}
}

// Result holds the ranked candidates and run statistics.
type Result struct {
	Candidates  []types.Candidate
	DupsRemoved int

	// SourceErrors lists adapters that failed; their sources simply
	// contributed nothing.
	SourceErrors []string

	Signals sources.Signals
}

// Find runs the full discovery pipeline for one manuscript: collect
// from all sources in priority order, aggregate with first-wins dedup,
// enrich, score, and rank. It never fails because a single source or
// enrichment call failed; the worst case is a shorter list.
//
// The returned list is capped at MaxCandidates × OverfetchFactor so a
// caller can filter (e.g. for conflicts of interest) before trimming to
// the true cap.
func (f *Finder) Find(ctx context.Context, m types.Manuscript) (Result, error) {
	sig := sources.FromManuscript(m)

	raw, sourceErrors := sources.Collect(ctx, f.adapters, sig, f.w)

	candidates, removed := Aggregate(raw, sig)
	MarkOpposed(candidates, sig.Opposed)

	f.enrichAll(ctx, candidates)

	for i := range candidates {
		candidates[i].RelevanceScore = Score(candidates[i], sig)
		candidates[i].TopicOverlap = TopicOverlap(sig.Keywords, candidates[i].ResearchTopics)
	}

	// Stable sort keeps source-priority order among equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RelevanceScore > candidates[j].RelevanceScore
	})

	if limit := f.cfg.ResultCap(); len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return Result{
		Candidates:   candidates,
		DupsRemoved:  removed,
		SourceErrors: sourceErrors,
		Signals:      sig,
	}, nil
}

// enrichAll fetches a profile for every candidate that lacks one,
// sequentially. A candidate with neither name nor ORCID is skipped, and
// per-candidate enrichment failures are skipped silently.
func (f *Finder) enrichAll(ctx context.Context, candidates []types.Candidate) {
	if f.enricher == nil {
		return
	}
	for i := range candidates {
		c := &candidates[i]
		if c.Profile != nil {
			continue
		}
		if c.Name == "" && c.ORCID == "" {
			continue
		}
		profile, err := f.enricher.Enrich(ctx, c.Name, c.ORCID, c.Institution)
		if err != nil || profile == nil {
			continue
		}
		applyProfile(c, profile)
	}
}

// applyProfile copies enrichment fields onto the candidate. Fields the
// sources already filled (e.g. a historical institution) are kept.
func applyProfile(c *types.Candidate, p *types.Profile) {
	c.Profile = p
	c.HIndex = p.HIndex
	c.CitationCount = p.CitationCount
	c.ResearchTopics = p.ResearchTopics
	if len(p.TopPapers) > 5 {
		c.RelevantPapers = p.TopPapers[:5]
	} else {
		c.RelevantPapers = p.TopPapers
	}
	if c.ORCID == "" {
		c.ORCID = p.ORCID
	}
	if c.Institution == "" {
		c.Institution = p.Affiliation
	}
	if c.Country == "" {
		c.Country = p.Country
	}
}
