package cmd

import (
	"context"

	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/obelisk/budgetdb/table"
	"github.com/spf13/cobra"
)

// loadLines reads the CSV named by --csv, or the store when it is empty.
// Undecodable CSV rows are logged and skipped.
func loadLines(ctx context.Context, csvPath string) []common.BudgetLine {
	if csvPath != "" {
		lines, diagnostics, err := table.ReadFile(csvPath)
		if err != nil {
			log.Fatal().Err(err).Str("file", csvPath).Msg("failed to read csv")
		}
		for _, d := range diagnostics {
			log.Warn().Err(d).Str("file", csvPath).Msg("skipping row")
		}
		return lines
	}

	store := openStore(ctx)
	defer store.Close()

	lines, err := store.LoadAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load lines from store")
	}
	return lines
}

func addSourceFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "csv", "", "read lines from this CSV file instead of the store")
}
