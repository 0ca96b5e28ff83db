package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/stowaway/internal/audit"
	kerrors "github.com/PolarWolf314/stowaway/internal/errors"
	"github.com/PolarWolf314/stowaway/internal/ui"
	"github.com/PolarWolf314/stowaway/internal/workflows"
)

var (
	logLimit     int
	logReverse   bool
	logOperation string
	logFailed    bool
	logSince     string
	logUntil     string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().BoolVar(&logFailed, "failed", false, "show only failed jobs")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logOperation = ""
	logFailed = false
	logSince = ""
	logUntil = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the job audit log",
	Long: `Displays the audit log of dispatched jobs and cleanups.

Each entry records the input, the result, its blake2b-256 digest, and for
failed jobs the state the job reached and the error.

Examples:
  stowaway log                          # View full log
  stowaway log -n 10                    # Last 10 entries
  stowaway log --reverse                # Most recent first
  stowaway log --operation clean        # Filter by operation
  stowaway log --failed                 # Only failed jobs
  stowaway log --since 2025-01-01       # Filter by date
  stowaway log --json                   # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	opts := workflows.LogOptions{
		Limit:      logLimit,
		Reverse:    logReverse,
		Operations: logOperation,
		Failed:     logFailed,
		Since:      logSince,
		Until:      logUntil,
	}

	result, err := workflows.Log(cmd.Context(), opts)
	if err != nil {
		if errors.Is(err, kerrors.ErrInvalidDateFormat) {
			fmt.Println(ui.Fail(err.Error()))
			return &reportedError{err: err}
		}
		return Logger.ErrorfAndReturn("Failed to read audit log: %v", err)
	}

	Logger.Debugf("Parsed %d entries from %s", result.TotalEntriesBeforeFilter, result.LogPath)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if logJSON {
		entries := result.Entries
		if entries == nil {
			entries = []audit.Entry{}
		}
		return outputLogJSON(entries)
	}

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Println("No audit log entries found.")
		} else {
			fmt.Println("No audit log entries found matching the filters.")
		}
		return nil
	}

	outputLogDefault(result.Entries)
	return nil
}

func outputLogJSON(entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputLogDefault(entries []audit.Entry) {
	for _, e := range entries {
		datetime := workflows.FormatDateTime(e.Timestamp)
		details := workflows.FormatDetails(e)
		jobID := e.JobID
		if len(jobID) > 8 {
			jobID = jobID[:8]
		}
		fmt.Printf("%-19s  %-8s  %-8s  %s\n", datetime, jobID, e.Operation, details)
	}
}
