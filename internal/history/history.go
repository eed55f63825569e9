// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history reads past extraction result files. The outputs
// directory is a read-only knowledge base: one subdirectory per journal
// code, each holding dated JSON extraction files with the manuscripts
// and referees captured on earlier runs.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/referee-engine/pkg/types"
)

// Extraction is the top-level shape of one extraction result file.
type Extraction struct {
	Journal     string           `json:"journal,omitempty"`
	ExtractedAt time.Time        `json:"extracted_at,omitempty"`
	Manuscripts []PastManuscript `json:"manuscripts"`
}

// PastManuscript is one manuscript from a past extraction, with the
// referees that reviewed it.
type PastManuscript struct {
	ID       string        `json:"id"`
	Title    string        `json:"title,omitempty"`
	Keywords []string      `json:"keywords,omitempty"`
	Referees []PastReferee `json:"referees,omitempty"`
}

// PastReferee carries the fields captured for a referee on an earlier
// run, including any enrichment already done at the time.
type PastReferee struct {
	Name        string         `json:"name"`
	Email       string         `json:"email,omitempty"`
	Institution string         `json:"institution,omitempty"`
	ORCID       string         `json:"orcid,omitempty"`
	Profile     *types.Profile `json:"web_profile,omitempty"`
}

// skipMarkers excludes baseline snapshots, debug dumps, and generated
// recommendation files from the scan.
var skipMarkers = []string{"baseline", "debug", "recommendation"}

func skipFile(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range skipMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// LatestFile returns the most recently modified qualifying .json file
// under dir/journal. It returns os.ErrNotExist when the journal has no
// qualifying files.
func LatestFile(dir, journal string) (string, error) {
	journalDir := filepath.Join(dir, journal)
	entries, err := os.ReadDir(journalDir)
	if err != nil {
		return "", fmt.Errorf("reading journal directory %s: %w", journalDir, err)
	}

	var (
		latest    string
		latestMod time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") || skipFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = filepath.Join(journalDir, entry.Name())
			latestMod = info.ModTime()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("no extraction files for journal %s: %w", journal, os.ErrNotExist)
	}
	return latest, nil
}

// Load parses one extraction result file.
func Load(path string) (*Extraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading extraction file %s: %w", path, err)
	}
	var ex Extraction
	if err := json.Unmarshal(data, &ex); err != nil {
		return nil, fmt.Errorf("parsing extraction file %s: %w", path, err)
	}
	return &ex, nil
}

// JournalSummary describes the latest extraction state of one journal.
type JournalSummary struct {
	Journal     string `json:"journal" yaml:"journal"`
	LatestFile  string `json:"latest_file,omitempty" yaml:"latest_file,omitempty"`
	Manuscripts int    `json:"manuscripts" yaml:"manuscripts"`
	Referees    int    `json:"referees" yaml:"referees"`
	Err         string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summarize reports, for each journal code, which file would feed the
// historical source and how many manuscripts and referees it holds.
// Per-journal errors are recorded in the summary, not returned.
func Summarize(dir string, journals []string) []JournalSummary {
	summaries := make([]JournalSummary, 0, len(journals))
	for _, journal := range journals {
		s := JournalSummary{Journal: journal}
		path, err := LatestFile(dir, journal)
		if err != nil {
			s.Err = err.Error()
			summaries = append(summaries, s)
			continue
		}
		s.LatestFile = path

		ex, err := Load(path)
		if err != nil {
			s.Err = err.Error()
			summaries = append(summaries, s)
			continue
		}
		s.Manuscripts = len(ex.Manuscripts)
		for _, m := range ex.Manuscripts {
			s.Referees += len(m.Referees)
		}
		summaries = append(summaries, s)
	}
	return summaries
}
