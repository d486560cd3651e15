package main

import (
	"context"
	"database/sql"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tahfidz-api/migrations"
	"github.com/noah-isme/tahfidz-api/pkg/config"
)

type gooseCall struct {
	command string
	dir     string
	args    []string
}

func stubMigrations(t *testing.T) *[]gooseCall {
	t.Helper()
	origRun, origOpen := gooseRun, openMigrationDB
	t.Cleanup(func() {
		gooseRun, openMigrationDB = origRun, origOpen
	})

	calls := &[]gooseCall{}
	gooseRun = func(ctx context.Context, command string, db *sql.DB, dir string, args ...string) error {
		*calls = append(*calls, gooseCall{command: command, dir: dir, args: args})
		return nil
	}
	openMigrationDB = func(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		mock.ExpectClose()
		return db, nil
	}
	return calls
}

func TestMigrateCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantErrStr string
		wantArgs   []string
	}{
		{name: "no subcommand", args: []string{"migrate"}, wantErrStr: "accepts between 1 and 2 arg(s), received 0"},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: `"lol": no such migrate command`},
		{name: "up-to: no version", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: tahfidzctl migrate up-to VERSION"},
		{name: "down-to: non-int version", args: []string{"migrate", "down-to", "lol"}, wantErrStr: `version must be a number (got "lol")`},
		{name: "status: extra argument", args: []string{"migrate", "status", "1"}, wantErrStr: "status takes no arguments"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}, wantArgs: []string{"1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "0"}, wantArgs: []string{"0"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := stubMigrations(t)
			rootCmd.SetArgs(tt.args)
			err := rootCmd.Execute()

			if tt.wantErrStr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
				assert.Empty(t, *calls)
				return
			}
			require.NoError(t, err)
			require.Len(t, *calls, 1)
			call := (*calls)[0]
			assert.Equal(t, tt.args[1], call.command)
			assert.Equal(t, ".", call.dir)
			if tt.wantArgs == nil {
				assert.Empty(t, call.args)
			} else {
				assert.Equal(t, tt.wantArgs, call.args)
			}
		})
	}
}

func TestEmbeddedMigrationsAreAnnotated(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		raw, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "-- +goose Up", name)
		assert.Contains(t, string(raw), "-- +goose Down", name)
	}
}
