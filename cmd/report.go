package cmd

import (
	"fmt"
	"os"

	"github.com/obelisk/budgetdb/aggregate"
	"github.com/obelisk/budgetdb/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	reportCSV   string
	reportPDF   string
	reportTitle string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print revenue by category, expenditure by ministry and the balance",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := newContext()
		summary := aggregate.Summarize(loadLines(ctx, reportCSV))

		if err := render.Report(os.Stdout, summary); err != nil {
			log.Fatal().Err(err).Msg("failed to print report")
		}

		if reportPDF != "" {
			renderer := render.NewPDFRenderer(viper.GetString("report.font_path"))
			if err := renderer.WriteFile(reportPDF, reportTitle, summary); err != nil {
				log.Fatal().Err(err).Str("output", reportPDF).Msg("failed to write pdf report")
			}
			fmt.Printf("\nPDF report written to %s\n", reportPDF)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	addSourceFlag(reportCmd, &reportCSV)
	reportCmd.Flags().StringVar(&reportPDF, "pdf", "", "also write the report as a PDF to this path")
	reportCmd.Flags().StringVar(&reportTitle, "title", "", "title printed on the PDF report")
}
