package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/blackwell-systems/procwatch/internal/monitor"
	"github.com/blackwell-systems/procwatch/internal/output"
	"github.com/blackwell-systems/procwatch/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check daemon status and recording statistics",
	Long: `Display the current status of the procwatch daemon and event recording
statistics.

Shows:
  • Daemon running status and PID
  • Database location and size
  • Total recorded events, split by class and action
  • Events recorded in the last 24 hours
  • Time since recording started

This command helps verify that churn monitoring is working correctly.`,
	Example: `  # Check status
  procwatch status`,
	RunE: runStatus,
}

func init() {
	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	pidFile, err := getDefaultPIDFile()
	if err != nil {
		return fmt.Errorf("failed to get PID file path: %w", err)
	}

	dbFile, err := getDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}

	daemonRunning, err := monitor.IsDaemonRunning(pidFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	var pid int
	if daemonRunning {
		if pidData, err := os.ReadFile(pidFile); err == nil {
			pid, _ = strconv.Atoi(strings.TrimSpace(string(pidData)))
		}
	}

	if daemonRunning {
		fmt.Printf("Daemon:    running (PID %d)\n", pid)
	} else {
		fmt.Println("Daemon:    not running")
	}

	fi, err := os.Stat(dbFile)
	if os.IsNotExist(err) {
		fmt.Println("Database:  not created yet — run 'procwatch watch' to start recording.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat database: %w", err)
	}

	fmt.Printf("Database:  %s (%s)\n", dbFile, output.FormatSize(fi.Size()))

	st, err := store.New(dbFile)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	stats, err := st.EventStats()
	if err != nil {
		return fmt.Errorf("failed to read event statistics: %w", err)
	}

	last24h, err := st.EventsSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		return fmt.Errorf("failed to count recent events: %w", err)
	}

	fmt.Println()
	fmt.Printf("Events recorded:     %d\n", stats.TotalEvents)
	fmt.Printf("  Process started:   %d\n", stats.ProcessStarted)
	fmt.Printf("  Process ended:     %d\n", stats.ProcessEnded)
	fmt.Printf("  Conn started:      %d\n", stats.ConnectionStarted)
	fmt.Printf("  Conn ended:        %d\n", stats.ConnectionEnded)
	fmt.Printf("Last 24 hours:       %d\n", last24h)

	if stats.First != nil {
		fmt.Printf("Recording since:     %s (%s)\n",
			stats.First.Format("2006-01-02 15:04:05"),
			output.FormatRelativeTime(*stats.First))
	}
	if stats.Last != nil {
		fmt.Printf("Most recent event:   %s\n", output.FormatRelativeTime(*stats.Last))
	}

	return nil
}
