package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yatsu/mucli/internal/audit"
	"github.com/yatsu/mucli/internal/ui"
	"github.com/yatsu/mucli/internal/workflows"
)

var (
	logLimit     int
	logReverse   bool
	logOperation string
	logSince     string
	logUntil     string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logOperation, "op", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logOperation = ""
	logSince = ""
	logUntil = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log of encryption operations.

Examples:
  mucli log                          # View full log
  mucli log -n 10                    # Last 10 entries
  mucli log --reverse                # Most recent first
  mucli log --op encrypt,decrypt     # Filter by operation
  mucli log --since 2024-01-01       # Filter by date
  mucli log --json                   # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	spinner, cleanup := startSpinner("Loading audit log...")
	defer cleanup()

	result, err := workflows.Log(context.Background(), workflows.LogOptions{
		Limit:      logLimit,
		Reverse:    logReverse,
		Operations: logOperation,
		Since:      logSince,
		Until:      logUntil,
	})
	if err != nil {
		return finish(spinner, err)
	}

	Logger.Debugf("Parsed %d entries from audit log", result.TotalEntriesBeforeFilter)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			spinner.FinalMSG = "No audit log entries found."
		} else {
			spinner.FinalMSG = "No audit log entries found matching the filters."
		}
		return nil
	}

	if logJSON {
		data, err := json.MarshalIndent(result.Entries, "", "  ")
		if err != nil {
			return Logger.ErrorfAndReturn("failed to marshal entries to JSON: %v", err)
		}
		spinner.FinalMSG = string(data)
		return nil
	}

	var b strings.Builder
	for _, e := range result.Entries {
		fmt.Fprintf(&b, "%-19s  %-12s  %-8s  %s\n", formatDateTime(e.Timestamp), e.User, e.Operation, formatDetails(e))
	}
	spinner.FinalMSG = b.String()
	return nil
}

func formatDateTime(ts string) string {
	t, err := audit.ParseTimestamp(ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatDetails(e audit.Entry) string {
	var parts []string
	if len(e.Files) > 0 {
		parts = append(parts, strings.Join(e.Files, ", "))
	}
	if e.Layers > 0 {
		parts = append(parts, fmt.Sprintf("layers=%d", e.Layers))
	}
	if e.Version != nil {
		parts = append(parts, "key="+ui.FormatVersion(*e.Version))
	}
	if e.Operation == "purge" {
		parts = append(parts, fmt.Sprintf("removed=%d", e.RemovedCount))
	}
	return strings.Join(parts, " ")
}
