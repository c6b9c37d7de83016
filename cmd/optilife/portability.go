package optilife

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

var (
	exportOut    string
	importIn     string
	importMode   string
	importDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the active user's data as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			if err := requireUser(s); err != nil {
				return err
			}
			b, err := json.MarshalIndent(s.tracker.Export(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshal export json: %w", err)
			}
			if strings.TrimSpace(exportOut) == "" || exportOut == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			if err := os.WriteFile(exportOut, b, 0o644); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported data to %s\n", exportOut)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a JSON export into the active user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(importIn) == "" {
			return fmt.Errorf("--in is required")
		}
		mode, err := service.ParseImportMode(importMode)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(importIn)
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}
		var payload service.ExportData
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("parse import json: %w", err)
		}
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			report, err := t.Import(&payload, service.ImportOptions{Mode: mode, DryRun: importDryRun})
			if err != nil {
				return err
			}
			printImportReport(cmd.OutOrStdout(), report, importDryRun)
			return nil
		})
	},
}

func printImportReport(out io.Writer, report service.ImportReport, dryRun bool) {
	prefix := "Imported"
	if dryRun {
		prefix = "Dry run"
	}
	fmt.Fprintf(out, "%s: inserted=%d skipped=%d conflicts=%d\n", prefix, report.Inserted, report.Skipped, report.Conflicts)
	for _, w := range report.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", w)
	}
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)

	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default stdout)")
	importCmd.Flags().StringVar(&importIn, "in", "", "Input JSON file")
	importCmd.Flags().StringVar(&importMode, "mode", "merge", "fail, merge, or replace")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Report what would change without writing")
}
