package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/obelisk/budgetdb/api"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API server",
	Long:  `Starts the HTTP API server that extracts uploaded budget PDFs and serves reports over the stored lines.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(newContext(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := openStore(ctx)
		defer store.Close()

		cfg := api.DefaultConfig()
		cfg.Port = ":" + viper.GetString("server.port")
		cfg.Extraction = extractionConfig()
		cfg.FontPath = viper.GetString("report.font_path")

		// request logs are info level
		if !verbose {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
		server := api.New(cfg, store, log)
		if err := server.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "Port to run the API server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
