package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mscrnt/vdash/pkg/db"
)

var (
	exportSessionID int64
	exportOutput    string
	exportAll       bool
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recorded telemetry",
		Long:  "Export recorded session samples in various formats",
	}

	cmd.AddCommand(exportCSVCmd())
	cmd.AddCommand(exportJSONCmd())

	return cmd
}

func exportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export samples to CSV format",
		Long: `Export session samples to CSV format.

Examples:
  # Export specific session to file
  vdash export csv --session 42 --out telemetry.csv

  # Export specific session to stdout
  vdash export csv --session 42

  # Export all sessions
  vdash export csv --all --out all-telemetry.csv`,
		RunE: runExportCSV,
	}

	cmd.Flags().Int64Var(&exportSessionID, "session", 0, "Session ID to export")
	cmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&exportAll, "all", false, "Export all sessions")

	return cmd
}

func exportJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json",
		Short: "Export samples to JSON format",
		Long: `Export session samples to JSON format.

Examples:
  # Export specific session to file
  vdash export json --session 42 --out telemetry.json

  # Export specific session to stdout
  vdash export json --session 42`,
		RunE: runExportJSON,
	}

	cmd.Flags().Int64Var(&exportSessionID, "session", 0, "Session ID to export")
	cmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExportCSV(_ *cobra.Command, _ []string) error {
	if !exportAll && exportSessionID == 0 {
		return fmt.Errorf("either --session or --all must be specified")
	}

	cfg, _ := loadConfig()
	database, err := db.Open(getDBPath(cfg))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	var out *os.File
	if exportOutput == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(exportOutput) // #nosec G304 -- exportOutput is a user-specified output file path from command line flag
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = out.Close() }()
	}

	if exportAll {
		if err := database.ExportAllCSV(out); err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}
		if exportOutput != "" {
			fmt.Printf("Exported all sessions to %s\n", exportOutput)
		}
	} else {
		if _, err := database.GetSession(exportSessionID); err != nil {
			return fmt.Errorf("session %d not found", exportSessionID)
		}

		if err := database.Export(out, exportSessionID, db.ExportFormatCSV); err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}
		if exportOutput != "" {
			fmt.Printf("Exported session %d to %s\n", exportSessionID, exportOutput)
		}
	}

	return nil
}

func runExportJSON(_ *cobra.Command, _ []string) error {
	if exportSessionID == 0 {
		return fmt.Errorf("--session must be specified")
	}

	cfg, _ := loadConfig()
	database, err := db.Open(getDBPath(cfg))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	if _, err := database.GetSession(exportSessionID); err != nil {
		return fmt.Errorf("session %d not found", exportSessionID)
	}

	var out *os.File
	if exportOutput == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(exportOutput) // #nosec G304 -- exportOutput is a user-specified output file path from command line flag
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = out.Close() }()
	}

	if err := database.Export(out, exportSessionID, db.ExportFormatJSON); err != nil {
		return fmt.Errorf("failed to export JSON: %w", err)
	}

	if exportOutput != "" {
		fmt.Printf("Exported session %d to %s\n", exportSessionID, exportOutput)
	}

	return nil
}
