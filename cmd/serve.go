package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/conneroisu/weaver/internal/config"
	"github.com/conneroisu/weaver/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the composition server",
	Long: `Start the composition server. Components found on the configured scan
paths are registered and served; in development mode templates are
watched and connected browsers hot-reload on change.

Examples:
  weaver serve                             # Production mode on :8080
  weaver serve --environment development   # Dev mode with hot reload
  weaver serve --port 3000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().StringP("environment", "e", "production", "Runtime environment (production or development)")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.environment", serveCmd.Flags().Lookup("environment"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	srv, err := server.New(cfg, server.Options{})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}
