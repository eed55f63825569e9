// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/referee-engine/internal/history"
	"github.com/pdiddy/referee-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past extraction files used by the historical source",
	Long: `History lists, per journal, the most recent extraction file under
outputs/<journal>/ and the manuscripts and referees it holds. This is
the exact file the historical source would scan during a find run, so
an empty or broken journal here explains missing historical candidates.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("outputs-dir", "outputs", "root of past extraction results (outputs/<journal>/*.json)")
	historyCmd.Flags().StringSlice("journals", nil, "journal codes to inspect (default: all known journals)")
	historyCmd.Flags().Bool("json", false, "output summaries as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	outputsDir, _ := cmd.Flags().GetString("outputs-dir")
	journals, _ := cmd.Flags().GetStringSlice("journals")
	if len(journals) == 0 {
		journals = types.DefaultJournalCodes
	}

	summaries := history.Summarize(outputsDir, journals)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-11s  %-8s  %s\n",
		"Journal", "Manuscripts", "Referees", "Latest file")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))

	for _, s := range summaries {
		if s.Err != "" {
			fmt.Fprintf(os.Stdout, "%-8s  %-11s  %-8s  %s\n", s.Journal, "-", "-", s.Err)
			continue
		}
		fmt.Fprintf(os.Stdout, "%-8s  %-11d  %-8d  %s\n",
			s.Journal, s.Manuscripts, s.Referees, s.LatestFile)
	}
	return nil
}
