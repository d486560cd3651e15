package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/tahfidz-api/internal/bootstrap"
	"github.com/noah-isme/tahfidz-api/pkg/config"
	"github.com/noah-isme/tahfidz-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "tahfidzctl",
	Short:         "Maintenance commands for the tahfidz academy API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Log at debug level to stderr")

	rootCmd.AddCommand(mushafCmd)
	rootCmd.AddCommand(assignmentsCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadConfig reads the same environment as the API server.
func loadConfig(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Log.Format = "console"
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	} else {
		cfg.Log.Level = "warn"
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logr, nil
}

// withContainer runs fn against a fully wired container. Notifications are
// delivered inline so nothing is lost when the process exits.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.Container) error) error {
	cfg, logr, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logr.Sync() //nolint:errcheck
	cfg.Notifications.Workers = 0

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := bootstrap.New(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}
