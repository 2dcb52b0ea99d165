package app

import (
	"fmt"

	"github.com/blackwell-systems/procwatch/internal/output"
	"github.com/blackwell-systems/procwatch/internal/store"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyClass string

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show recorded lifecycle events",
		Long: `Display recently recorded lifecycle events from the database, newest
first.

Use --class to restrict output to process or connection events, and
--limit to control how many rows are shown.`,
		Example: `  # Show the 50 most recent events
  procwatch history

  # Only connection events
  procwatch history --class connection

  # The last 200 process events
  procwatch history --class process --limit 200`,
		RunE: runHistory,
	}
)

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum number of events to show")
	historyCmd.Flags().StringVar(&historyClass, "class", "", "filter by event class: process or connection")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyClass != "" && historyClass != "process" && historyClass != "connection" {
		return fmt.Errorf("invalid class %q (must be 'process' or 'connection')", historyClass)
	}
	if historyLimit <= 0 {
		return fmt.Errorf("invalid limit: %d (must be positive)", historyLimit)
	}

	dbFile, err := getDBPath()
	if err != nil {
		return err
	}

	st, err := store.New(dbFile)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	events, err := st.RecentEvents(historyClass, historyLimit)
	if err != nil {
		return err
	}

	fmt.Print(output.RenderEventTable(events))
	return nil
}
