// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/referee-engine/internal/enrich"
	"github.com/pdiddy/referee-engine/pkg/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Look up scholarly profiles and manage the profile cache",
	Long: `Enrich queries the ORCID, Semantic Scholar, and OpenAlex author APIs for
a single researcher, the same lookups a find run performs per candidate.
Use cache subcommands to inspect or clear the local profile cache.`,
}

// --- lookup subcommand ---

var enrichLookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Fetch the scholarly profile for one researcher",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnrichLookup,
}

func runEnrichLookup(cmd *cobra.Command, args []string) error {
	orcid, _ := cmd.Flags().GetString("orcid")
	institution, _ := cmd.Flags().GetString("institution")

	cfg := enrichConfigFromFlags(cmd)

	cache, err := openCacheFromFlags(cmd)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	client := enrich.NewClient(cfg, cache)
	profile, err := client.Enrich(context.Background(), args[0], orcid, institution)
	if err != nil {
		return err
	}
	if profile == nil {
		fmt.Println("No profile found.")
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(profile)
}

// --- cache subcommands ---

var enrichCacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the profile cache",
}

var enrichCacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the number of cached profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openCacheFromFlags(cmd)
		if err != nil {
			return err
		}
		if cache == nil {
			return fmt.Errorf("caching is disabled; set --cache-path")
		}
		defer cache.Close()

		n, err := cache.Count(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("%d cached profile(s)\n", n)
		return nil
	},
}

var enrichCachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all cached profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openCacheFromFlags(cmd)
		if err != nil {
			return err
		}
		if cache == nil {
			return fmt.Errorf("caching is disabled; set --cache-path")
		}
		defer cache.Close()

		n, err := cache.Purge(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d cached profile(s)\n", n)
		return nil
	},
}

// --- shared helpers ---

func enrichConfigFromFlags(cmd *cobra.Command) types.EnrichConfig {
	mailto, _ := cmd.Flags().GetString("mailto")
	apiKey, _ := cmd.Flags().GetString("s2-api-key")

	return types.EnrichConfig{
		HTTPConfig: types.HTTPConfig{
			UserAgent: defaultUserAgent,
		},
		OpenAlexMailto:        secretDefault("openalex-email", mailto),
		SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", apiKey),
	}
}

func openCacheFromFlags(cmd *cobra.Command) (*enrich.Cache, error) {
	cachePath, _ := cmd.Flags().GetString("cache-path")
	if cachePath == "" {
		return nil, nil
	}
	ttl, _ := cmd.Flags().GetDuration("cache-ttl")
	if ttl == 0 {
		ttl = 720 * time.Hour
	}
	return enrich.OpenCache(cachePath, ttl)
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	enrichCmd.PersistentFlags().String("cache-path", "cache/profiles.db", "SQLite profile cache (empty disables caching)")
	enrichCmd.PersistentFlags().Duration("cache-ttl", 0, "profile cache freshness window (default 720h)")

	// Lookup flags.
	enrichLookupCmd.Flags().String("orcid", "", "known ORCID iD (skips the ORCID name search)")
	enrichLookupCmd.Flags().String("institution", "", "affiliation hint for disambiguating the ORCID search")
	enrichLookupCmd.Flags().String("mailto", "", "email for the OpenAlex polite pool")
	enrichLookupCmd.Flags().String("s2-api-key", "", "Semantic Scholar API key")

	// Wire subcommands.
	enrichCacheCmd.AddCommand(enrichCacheStatusCmd)
	enrichCacheCmd.AddCommand(enrichCachePurgeCmd)
	enrichCmd.AddCommand(enrichLookupCmd)
	enrichCmd.AddCommand(enrichCacheCmd)

	rootCmd.AddCommand(enrichCmd)
}
