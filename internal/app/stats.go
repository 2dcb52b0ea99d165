package app

import (
	"fmt"

	"github.com/blackwell-systems/procwatch/internal/output"
	"github.com/blackwell-systems/procwatch/internal/store"
	"github.com/spf13/cobra"
)

var (
	statsTop int

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show churn statistics",
		Long: `Display aggregate churn statistics from the recorded event history:
total started/ended counts per class, the process names that start most
often, and the remote addresses that are connected to most often.

High process churn usually points at short-lived helper processes
(compilers, cron jobs, shell pipelines); high connection churn at a busy
client or a polling health check.`,
		Example: `  # Churn summary with top-10 lists
  procwatch stats

  # Longer top lists
  procwatch stats --top 25`,
		RunE: runStatsCmd,
	}
)

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "number of entries in the top lists")

	RootCmd.AddCommand(statsCmd)
}

func runStatsCmd(cmd *cobra.Command, args []string) error {
	if statsTop <= 0 {
		return fmt.Errorf("invalid top: %d (must be positive)", statsTop)
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

	stats, err := st.EventStats()
	if err != nil {
		return err
	}

	if stats.TotalEvents == 0 {
		fmt.Println("No events recorded yet — run 'procwatch watch' first.")
		return nil
	}

	fmt.Printf("Recorded events: %d\n", stats.TotalEvents)
	fmt.Printf("  Processes:    %d started / %d ended\n", stats.ProcessStarted, stats.ProcessEnded)
	fmt.Printf("  Connections:  %d started / %d ended\n", stats.ConnectionStarted, stats.ConnectionEnded)
	if stats.First != nil && stats.Last != nil {
		fmt.Printf("  Window:       %s to %s\n",
			stats.First.Format("2006-01-02 15:04:05"),
			stats.Last.Format("2006-01-02 15:04:05"))
	}
	fmt.Println()

	names, err := st.TopProcessNames(statsTop)
	if err != nil {
		return err
	}
	fmt.Print(output.RenderTopTable("Most started processes:", names))
	fmt.Println()

	remotes, err := st.TopRemoteAddrs(statsTop)
	if err != nil {
		return err
	}
	fmt.Print(output.RenderTopTable("Most contacted remote addresses:", remotes))

	return nil
}
