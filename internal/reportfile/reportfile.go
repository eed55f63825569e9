// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reportfile persists a referee-discovery run to YAML. An
// editor can archive a run and reload it later without re-querying the
// academic APIs.
package reportfile

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/referee-engine/pkg/types"
)

// Report is the on-disk representation of one discovery run.
type Report struct {
	Manuscript ManuscriptRef     `yaml:"manuscript"`
	Config     ReportConfig      `yaml:"config"`
	Candidates []types.Candidate `yaml:"candidates"`
	Summary    RunSummary        `yaml:"summary"`
}

// ManuscriptRef stores the manuscript signals that drove the run.
type ManuscriptRef struct {
	ID       string   `yaml:"id,omitempty"`
	Title    string   `yaml:"title,omitempty"`
	Keywords []string `yaml:"keywords,omitempty"`
	Authors  []string `yaml:"authors,omitempty"`
	Journal  string   `yaml:"journal,omitempty"`
}

// ReportConfig stores the discovery configuration that produced the list.
type ReportConfig struct {
	MaxCandidates   int `yaml:"max_candidates"`
	OverfetchFactor int `yaml:"overfetch_factor"`
}

// RunSummary stores run statistics and a timestamp.
type RunSummary struct {
	Total             int       `yaml:"total"`
	DuplicatesRemoved int       `yaml:"duplicates_removed"`
	SourceErrors      []string  `yaml:"source_errors,omitempty"`
	Timestamp         time.Time `yaml:"timestamp"`
}

// Save writes the report to path.
func Save(path string, report *Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// Load reads a report from path.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report %s: %w", path, err)
	}
	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &report, nil
}
