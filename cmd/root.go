package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/obelisk/budgetdb/integrations"
	"github.com/obelisk/budgetdb/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Embedded default configuration (same as .budgetdb.yaml.example)
const defaultConfigYAML = `
extraction:
  excluded_pages: [1, 2, 3]
  noise_phrases:
    - Ονομασία
    - Σύνολο
    - Οικονομικό έτος
  keywords:
    revenue: ΕΣΟΔΑ
    expenditure: ΕΞΟΔΑ
  structural_markers:
    - Πιστώσεις κατά Φορέα
    - Οικονομικό Έτος
    - Τακτικός Προϋπολογισμός
    - Συγχρηματοδοτούμενο σκέλος
    - Εθνικό σκέλος
  headline_fonts: [Bold, Black, Heavy, Semibold, Demi]
store:
  driver: sqlite
  dsn: data/budget.db
output:
  dir: data
report:
  font_path: ""
server:
  port: "8080"`

var (
	cfgFile string
	verbose bool
	log     zerolog.Logger
	rootCmd = &cobra.Command{
		Use:   "budgetdb [budget.pdf]",
		Short: "Extract and analyse state budget PDFs",
		Long: `budgetdb extracts revenue and expenditure lines out of state budget PDFs,
stores them as CSV and in a database, and reports revenue by category,
expenditure by ministry and the resulting balance.`,
		Args: cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 1 {
				runExtract(extractCmd, args)
				return
			}
			cmd.Help()
		},
	}
)

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.budgetdb.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().String("driver", "", "store driver: sqlite, postgres or memory")
	rootCmd.PersistentFlags().String("dsn", "", "store location (sqlite file or PostgreSQL URL)")
	rootCmd.PersistentFlags().String("output-dir", "", "directory for the CSV files")

	viper.BindPFlag("store.driver", rootCmd.PersistentFlags().Lookup("driver"))
	viper.BindPFlag("store.dsn", rootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("output.dir", rootCmd.PersistentFlags().Lookup("output-dir"))
}

func initLogging() {
	logger.SetVerbose(verbose)
	log = logger.New()
}

func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
		fmt.Printf("Error loading embedded configuration: %v\n", err)
		os.Exit(1)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".budgetdb")
	}

	viper.SetEnvPrefix("BUDGETDB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}

// newContext carries the command logger into the pipeline.
func newContext() context.Context {
	return logger.WithContext(context.Background(), log)
}

func extractionConfig() common.Config {
	return common.LoadConfig()
}

func openStore(ctx context.Context) integrations.Store {
	driver := viper.GetString("store.driver")
	store, err := integrations.Open(ctx, driver, viper.GetString("store.dsn"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", driver).Msg("failed to open store")
	}
	return store
}
