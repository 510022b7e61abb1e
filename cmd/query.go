package cmd

import (
	"errors"
	"io"
	"os"

	"github.com/obelisk/budgetdb/aggregate"
	"github.com/obelisk/budgetdb/prompt"
	"github.com/obelisk/budgetdb/render"
	"github.com/spf13/cobra"
)

var (
	queryCSV        string
	queryWithReport bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Browse the lines of one type or one ministry interactively",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := newContext()
		lines := loadLines(ctx, queryCSV)

		if queryWithReport {
			if err := render.Report(os.Stdout, aggregate.Summarize(lines)); err != nil {
				log.Fatal().Err(err).Msg("failed to print report")
			}
		}

		err := prompt.NewSession(os.Stdin, os.Stdout).Run(lines)
		if err != nil && !errors.Is(err, io.EOF) {
			log.Fatal().Err(err).Msg("query failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)

	addSourceFlag(queryCmd, &queryCSV)
	queryCmd.Flags().BoolVar(&queryWithReport, "report", false, "print the summary report before the menu")
}
