package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/tahfidz-api/internal/bootstrap"
)

var assignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "Assignment maintenance",
}

var assignmentsArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive assignments completed before the cutoff",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, app *bootstrap.Container) error {
			olderThan := app.Config.Assignments.ArchiveAfter
			if cmd.Flags().Changed("older-than") {
				olderThan, _ = cmd.Flags().GetDuration("older-than")
			}
			archived, err := app.Assignments.ArchiveCompleted(ctx, olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "archived %d assignments completed more than %s ago\n", archived, olderThan)
			return nil
		})
	},
}

func init() {
	assignmentsArchiveCmd.Flags().Duration("older-than", 0, "Completion age to archive (defaults to ASSIGNMENT_ARCHIVE_AFTER)")
	assignmentsCmd.AddCommand(assignmentsArchiveCmd)
}
