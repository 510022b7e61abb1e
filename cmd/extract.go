package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/obelisk/budgetdb/extractor"
	"github.com/obelisk/budgetdb/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	extractOutput string
	extractJSON   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <budget.pdf>",
	Short: "Extracts budget lines from a PDF",
	Long: `Extracts the revenue and expenditure lines of a budget PDF and writes
them as CSV, by default to <output.dir>/<name>.csv. Use -o - for stdout.`,
	Args: cobra.ExactArgs(1),
	Run:  runExtract,
}

func runExtract(cmd *cobra.Command, args []string) {
	ctx := newContext()

	result, err := extractor.ProcessFile(ctx, args[0], extractionConfig())
	if err != nil {
		log.Fatal().Err(err).Str("file", args[0]).Msg("extraction failed")
	}

	if extractJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatal().Err(err).Msg("failed to write json")
		}
		return
	}

	output := extractOutput
	if output == "" {
		output = filepath.Join(viper.GetString("output.dir"), result.Source+".csv")
	}
	if output == "-" {
		if err := table.Encode(os.Stdout, result.Lines); err != nil {
			log.Fatal().Err(err).Msg("failed to write csv")
		}
		return
	}

	if err := table.WriteFile(output, result.Lines); err != nil {
		log.Fatal().Err(err).Str("output", output).Msg("failed to write csv")
	}
	fmt.Printf("%d lines (%d before filtering) written to %s\n",
		result.Stats.AfterFilter, result.Stats.BeforeFilter, output)
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "CSV output path, - for stdout")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print the full result as JSON instead of CSV")
}
