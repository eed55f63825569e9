// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/referee-engine/internal/enrich"
	"github.com/pdiddy/referee-engine/internal/referee"
	"github.com/pdiddy/referee-engine/internal/reportfile"
	"github.com/pdiddy/referee-engine/pkg/types"
)

const defaultUserAgent = "referee-engine/0.1"

var findCmd = &cobra.Command{
	Use:   "find <manuscript-file>",
	Short: "Find and rank candidate referees for a manuscript",
	Long: `Find reads a manuscript metadata file (JSON or YAML), queries all candidate
sources, deduplicates, enriches each candidate with a scholarly profile, and
prints the ranked list. A failing source degrades the list instead of
aborting the run.

The list is capped at max-candidates times the overfetch factor so an editor
can strike conflicted names before trimming to the true cap.`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().String("outputs-dir", "outputs", "root of past extraction results (outputs/<journal>/*.json)")
	findCmd.Flags().StringSlice("journals", nil, "journal codes to scan for historical referees (default: all known journals)")
	findCmd.Flags().Int("max-candidates", 0, "nominal result cap (default 15)")
	findCmd.Flags().Int("overfetch", 0, "overfetch factor applied to max-candidates (default 2)")
	findCmd.Flags().String("mailto", "", "email for the OpenAlex polite pool")
	findCmd.Flags().String("s2-api-key", "", "Semantic Scholar API key")
	findCmd.Flags().Bool("no-enrich", false, "skip profile enrichment")
	findCmd.Flags().String("cache-path", "cache/profiles.db", "SQLite profile cache (empty disables caching)")
	findCmd.Flags().Duration("cache-ttl", 0, "profile cache freshness window (default 720h)")
	findCmd.Flags().String("report", "", "write the full run to a YAML report file")
	findCmd.Flags().Bool("json", false, "output candidates as JSON")

	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	manuscript, err := loadManuscript(args[0])
	if err != nil {
		return err
	}

	cfg := finderConfig(cmd)

	enricher, closeCache, err := buildEnricher(cmd)
	if err != nil {
		return err
	}
	defer closeCache()

	finder := referee.NewFinder(cfg, referee.DefaultAdapters(cfg, os.Stderr), enricher, os.Stderr)

	result, err := finder.Find(context.Background(), *manuscript)
	if err != nil {
		return err
	}

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		if err := saveReport(reportPath, manuscript, cfg, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", reportPath)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatFindOutput(result, jsonOutput)
}

// loadManuscript reads manuscript metadata from a JSON or YAML file,
// chosen by extension.
func loadManuscript(path string) (*types.Manuscript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manuscript %s: %w", path, err)
	}

	var m types.Manuscript
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing manuscript %s: %w", path, err)
	}

	if m.Title == "" && len(m.Keywords) == 0 {
		return nil, fmt.Errorf("manuscript %s has neither a title nor keywords; nothing to search with", path)
	}
	return &m, nil
}

func finderConfig(cmd *cobra.Command) types.FinderConfig {
	outputsDir, _ := cmd.Flags().GetString("outputs-dir")
	journals, _ := cmd.Flags().GetStringSlice("journals")
	maxCandidates, _ := cmd.Flags().GetInt("max-candidates")
	overfetch, _ := cmd.Flags().GetInt("overfetch")
	mailto, _ := cmd.Flags().GetString("mailto")
	apiKey, _ := cmd.Flags().GetString("s2-api-key")

	return types.FinderConfig{
		HTTPConfig: types.HTTPConfig{
			UserAgent: defaultUserAgent,
		},
		JournalCodes:          journals,
		OutputsDir:            outputsDir,
		MaxCandidates:         maxCandidates,
		OverfetchFactor:       overfetch,
		OpenAlexMailto:        secretDefault("openalex-email", mailto),
		SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", apiKey),
	}
}

// buildEnricher assembles the enrichment client and its profile cache.
// The returned close function is a no-op when caching is disabled.
func buildEnricher(cmd *cobra.Command) (referee.Enricher, func(), error) {
	if noEnrich, _ := cmd.Flags().GetBool("no-enrich"); noEnrich {
		return nil, func() {}, nil
	}

	mailto, _ := cmd.Flags().GetString("mailto")
	apiKey, _ := cmd.Flags().GetString("s2-api-key")

	cfg := types.EnrichConfig{
		HTTPConfig: types.HTTPConfig{
			UserAgent: defaultUserAgent,
		},
		OpenAlexMailto:        secretDefault("openalex-email", mailto),
		SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", apiKey),
	}

	cachePath, _ := cmd.Flags().GetString("cache-path")
	if cachePath == "" {
		return enrich.NewClient(cfg, nil), func() {}, nil
	}

	ttl, _ := cmd.Flags().GetDuration("cache-ttl")
	if ttl == 0 {
		ttl = 720 * time.Hour
	}
	cache, err := enrich.OpenCache(cachePath, ttl)
	if err != nil {
		return nil, nil, err
	}
	return enrich.NewClient(cfg, cache), func() { cache.Close() }, nil
}

func saveReport(path string, m *types.Manuscript, cfg types.FinderConfig, result referee.Result) error {
	authors := make([]string, 0, len(m.Authors))
	for _, a := range m.Authors {
		authors = append(authors, a.Name)
	}

	report := &reportfile.Report{
		Manuscript: reportfile.ManuscriptRef{
			ID:       m.ID,
			Title:    m.Title,
			Keywords: m.Keywords,
			Authors:  authors,
		},
		Config: reportfile.ReportConfig{
			MaxCandidates:   cfg.MaxCandidates,
			OverfetchFactor: cfg.OverfetchFactor,
		},
		Candidates: result.Candidates,
		Summary: reportfile.RunSummary{
			Total:             len(result.Candidates),
			DuplicatesRemoved: result.DupsRemoved,
			SourceErrors:      result.SourceErrors,
			Timestamp:         time.Now().UTC(),
		},
	}
	return reportfile.Save(path, report)
}

func formatFindOutput(result referee.Result, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Candidates)
	}

	if len(result.Candidates) == 0 {
		fmt.Println("No candidates found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-6s  %-30s  %-30s  %-16s  %-5s  %s\n",
		"Rank", "Score", "Name", "Institution", "Source", "H-idx", "Flags")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, c := range result.Candidates {
		name := c.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		institution := c.Institution
		if len(institution) > 30 {
			institution = institution[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %.3f  %-30s  %-30s  %-16s  %-5d  %s\n",
			i+1, c.RelevanceScore, name, institution, c.Source, c.HIndex, candidateFlags(c))
	}

	fmt.Fprintf(os.Stdout, "\n%d candidates (%d duplicates removed)\n",
		len(result.Candidates), result.DupsRemoved)
	return nil
}

func candidateFlags(c types.Candidate) string {
	var flags []string
	if c.AuthorSuggested {
		flags = append(flags, "suggested")
	}
	if c.AuthorOpposed {
		flags = append(flags, "opposed")
	}
	return strings.Join(flags, ",")
}
