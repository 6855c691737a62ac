// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Database opening, input reading, and output formatting helpers
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bioarchitect/biodb/internal/config"
	"github.com/bioarchitect/biodb/internal/storage/sqlite"
)

// openDB loads configuration and opens the health database.
func openDB() (*sqlite.DB, *config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return db, cfg, nil
}

// readInput reads JSON from the given file path, or from stdin when the path
// is empty or "-". The returned name is the dedup source_file value.
func readInput(cmd *cobra.Command, path string) ([]byte, string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return data, "stdin", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return data, path, nil
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
	return nil
}

// jsonOutput reports whether the global format flag asks for JSON.
func jsonOutput() bool {
	return outputFormat == "json"
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatDate formats a date-only value for display, "-" when unset
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// orDash returns s, or "-" when empty
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatRange renders a reference range like "70.0-99.0", with "-" for
// missing bounds
func formatRange(low, high *float64) string {
	lowStr, highStr := "-", "-"
	if low != nil {
		lowStr = fmt.Sprintf("%.1f", *low)
	}
	if high != nil {
		highStr = fmt.Sprintf("%.1f", *high)
	}
	return lowStr + "-" + highStr
}
