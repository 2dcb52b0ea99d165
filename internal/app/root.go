package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dbPath string

	// RootCmd is the root command for procwatch
	RootCmd = &cobra.Command{
		Use:   "procwatch",
		Short: "Process and connection churn monitor with a persistent audit log",
		Long: `procwatch polls the host's process table and network connection table
at a fixed interval and records a "started"/"ended" lifecycle event for
every process or connection that appears or disappears between polls.

Events are appended to a plain-text log (mirrored to the console) and to
a local SQLite database for later querying. Processes and connections
already alive when the monitor starts are never reported — procwatch
logs changes, not the pre-existing world.

Quick Start:
  1. procwatch watch            # foreground, Ctrl+C to stop
  2. procwatch watch --daemon   # or run in the background
  3. procwatch history          # query recorded events
  4. procwatch stats            # churn summary

Limitations worth knowing:
  • Entities that start and end within one polling interval are invisible.
  • Connections have no stable OS handle; a status change (ESTABLISHED ->
    CLOSE_WAIT) is recorded as one connection ending and another starting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := getDBPath()
			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				fmt.Println("procwatch: process and connection churn monitor")
				fmt.Println()
				fmt.Println("Run 'procwatch watch' to start recording events.")
				fmt.Println("Run 'procwatch --help' for the full reference.")
			} else {
				fmt.Println("procwatch: process and connection churn monitor")
				fmt.Println()
				fmt.Println("Tip: Run 'procwatch status' to check the monitor.")
				fmt.Println("     Run 'procwatch history' to view recorded events.")
				fmt.Println("     Run 'procwatch --help' for all commands.")
			}
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.procwatch/procwatch.db)")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(watchCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// dataDir returns (creating if needed) the procwatch data directory.
func dataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	dir := filepath.Join(home, ".procwatch")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create procwatch directory: %w", err)
	}

	return dir, nil
}

// getDBPath returns the database path, using the flag value or default
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}

	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "procwatch.db"), nil
}

// getDefaultPIDFile returns the default PID file path
func getDefaultPIDFile() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.pid"), nil
}

// getDefaultEventLog returns the default event log path
func getDefaultEventLog() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "events.log"), nil
}

// getDefaultDaemonLog returns the file the daemon's own stdout/stderr
// are redirected to (diagnostics, not lifecycle events).
func getDefaultDaemonLog() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.log"), nil
}
