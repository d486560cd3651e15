package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/noah-isme/tahfidz-api/migrations"
	"github.com/noah-isme/tahfidz-api/pkg/config"
	"github.com/noah-isme/tahfidz-api/pkg/database"
)

// mockable
var (
	gooseRun        = goose.RunContext
	openMigrationDB = func(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
		db, err := database.NewPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return db.DB, nil
	}
)

// migrateCommands maps each goose command to whether it takes a VERSION argument.
var migrateCommands = map[string]bool{
	"up":        false,
	"up-by-one": false,
	"up-to":     true,
	"down":      false,
	"down-to":   true,
	"redo":      false,
	"reset":     false,
	"status":    false,
	"version":   false,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate <up|up-by-one|up-to|down|down-to|redo|reset|status|version> [VERSION]",
	Short: "Apply or inspect the embedded database migrations",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		command, extra := args[0], args[1:]
		if err := validateMigrateArgs(command, extra); err != nil {
			return err
		}

		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		db, err := openMigrationDB(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		goose.SetBaseFS(migrations.FS)
		goose.SetLogger(log.New(cmd.OutOrStdout(), "", 0))
		if err := goose.SetDialect("postgres"); err != nil {
			return fmt.Errorf("set migration dialect: %w", err)
		}
		if err := gooseRun(ctx, command, db, ".", extra...); err != nil {
			return fmt.Errorf("migrate %s: %w", command, err)
		}
		return nil
	},
}

func validateMigrateArgs(command string, extra []string) error {
	needsVersion, ok := migrateCommands[command]
	if !ok {
		return fmt.Errorf("%q: no such migrate command", command)
	}
	if !needsVersion {
		if len(extra) > 0 {
			return fmt.Errorf("%s takes no arguments", command)
		}
		return nil
	}
	if len(extra) == 0 {
		return fmt.Errorf("%s must be of form: tahfidzctl migrate %s VERSION", command, command)
	}
	if _, err := strconv.ParseInt(extra[0], 10, 64); err != nil {
		return fmt.Errorf("version must be a number (got %q)", extra[0])
	}
	return nil
}
