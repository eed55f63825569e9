// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the referee-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/referee-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if non-empty, then the viper setting
// for key, then the .secrets/ file named key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the referee-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "referee-engine",
	Short: "Referee discovery and ranking for journal manuscripts",
	Long: `referee-engine finds candidate peer reviewers for a manuscript. It merges
author-suggested referees, OpenAlex and Semantic Scholar search results, and
referees seen on past manuscripts of the same journal, then enriches each
candidate with a scholarly profile and ranks the list by relevance.

Each stage is a subcommand: find runs the full discovery pipeline, history
inspects past extraction files, and enrich manages the profile cache.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./referee-engine.yaml or ~/.config/referee-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("referee-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "referee-engine"))
		}
	}

	viper.SetEnvPrefix("REFEREE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
