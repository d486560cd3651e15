package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/tahfidz-api/internal/bootstrap"
	"github.com/noah-isme/tahfidz-api/internal/models"
	"github.com/noah-isme/tahfidz-api/pkg/storage"
)

var mushafCmd = &cobra.Command{
	Use:   "mushaf",
	Short: "Inspect and export personal mushafs",
}

var mushafSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a student's personal mushaf statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, _ := cmd.Flags().GetString("student")
		withEntries, _ := cmd.Flags().GetBool("entries")
		return withContainer(cmd, func(ctx context.Context, app *bootstrap.Container) error {
			summary, err := app.Mushaf.GetPersonalMushaf(ctx, studentID, models.MushafFilter{}, bootstrap.SystemClaims)
			if err != nil {
				return err
			}
			if !withEntries {
				summary.Mistakes = nil
			}
			out, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		})
	},
}

var mushafExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a student's personal mushaf to a CSV or PDF file",
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, _ := cmd.Flags().GetString("student")
		format, _ := cmd.Flags().GetString("format")
		outDir, _ := cmd.Flags().GetString("out")
		pruneAfter, _ := cmd.Flags().GetDuration("prune-after")

		dir, err := storage.NewExportDir(outDir)
		if err != nil {
			return err
		}
		return withContainer(cmd, func(ctx context.Context, app *bootstrap.Container) error {
			file, err := app.Mushaf.Export(ctx, studentID, format, models.MushafFilter{}, bootstrap.SystemClaims)
			if err != nil {
				return err
			}
			path, err := dir.Write(file.FileName, file.Content)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)

			if pruneAfter > 0 {
				removed, err := dir.Prune(pruneAfter, time.Now())
				if err != nil {
					return err
				}
				for _, name := range removed {
					fmt.Fprintf(cmd.ErrOrStderr(), "pruned %s\n", name)
				}
			}
			return nil
		})
	},
}

func init() {
	mushafSummaryCmd.Flags().String("student", "", "Student ID")
	mushafSummaryCmd.Flags().Bool("entries", false, "Include ledger entries in the output")
	_ = mushafSummaryCmd.MarkFlagRequired("student")

	mushafExportCmd.Flags().String("student", "", "Student ID")
	mushafExportCmd.Flags().String("format", "csv", "csv or pdf")
	mushafExportCmd.Flags().String("out", "./exports", "Output directory")
	mushafExportCmd.Flags().Duration("prune-after", 0, "Remove exports in the output directory older than this")
	_ = mushafExportCmd.MarkFlagRequired("student")

	mushafCmd.AddCommand(mushafSummaryCmd)
	mushafCmd.AddCommand(mushafExportCmd)
}
