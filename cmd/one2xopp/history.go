// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/one2xopp/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List conversions recorded in the ledger",
	Long: `History lists the sources recorded in the conversion ledger, most recent
first, with their fingerprint, page count, output mode and the run that
converted them.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of entries (0 for all)")
	historyCmd.Flags().Bool("json", false, "output entries as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	path := viper.GetString("ledger.path")
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("No ledger at %s.\n", path)
		return nil
	}

	store, err := ledger.Open(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer store.Close()

	records, err := store.History(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No conversions recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-19s  %-30s  %-5s  %-9s  %-12s  %-8s  %s\n",
		"Converted", "Source", "Pages", "Mode", "Fingerprint", "Run", "Outputs")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, r := range records {
		source := r.Source
		if len(source) > 30 {
			source = "..." + source[len(source)-27:]
		}
		fmt.Fprintf(os.Stdout, "%-19s  %-30s  %-5d  %-9s  %-12.12s  %-8.8s  %d\n",
			r.ConvertedAt.Local().Format(time.DateTime), source, r.Pages, r.Mode,
			r.Fingerprint, r.RunID, len(r.Outputs))
	}

	fmt.Fprintf(os.Stdout, "\n%d entries\n", len(records))
	return nil
}
