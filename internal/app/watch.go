package app

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blackwell-systems/procwatch/internal/eventlog"
	"github.com/blackwell-systems/procwatch/internal/monitor"
	"github.com/blackwell-systems/procwatch/internal/output"
	"github.com/blackwell-systems/procwatch/internal/store"
	"github.com/spf13/cobra"
)

var (
	watchInterval    time.Duration
	watchLogFile     string
	watchPIDFile     string
	watchNoNetwork   bool
	watchDaemon      bool
	watchDaemonChild bool
	watchStop        bool

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Monitor process and connection churn",
		Long: `Start polling the process table and the network connection table,
recording a lifecycle event for every process or connection that appears
or disappears between polls.

Each event is appended to the event log (default ~/.procwatch/events.log)
with a timestamp, mirrored to the console in foreground mode, and stored
in the SQLite database for 'procwatch history' and 'procwatch stats'.

Watch modes:
  • Foreground (default): Run in current terminal with Ctrl+C to stop
  • Daemon: Run as a background process (--daemon)
  • Stop: Stop a running daemon (--stop)

Entities already alive at startup are seeded silently and never logged.
Anything that starts and ends within one polling interval (default 1s)
is not observable; shorten --interval to tighten the window at the cost
of more enumeration work per second.`,
		Example: `  # Run in foreground (Ctrl+C to stop)
  procwatch watch

  # Poll every 500ms, processes only
  procwatch watch --interval 500ms --no-network

  # Run as background daemon
  procwatch watch --daemon

  # Stop running daemon
  procwatch watch --stop`,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Second, "polling interval")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "event log path (default: ~/.procwatch/events.log)")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: ~/.procwatch/watch.pid)")
	watchCmd.Flags().BoolVar(&watchNoNetwork, "no-network", false, "disable connection monitoring")
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "run as background daemon")
	watchCmd.Flags().BoolVar(&watchDaemonChild, "daemon-child", false, "internal flag for daemon child process")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop running daemon")

	// Hide the internal daemon-child flag from help
	watchCmd.Flags().MarkHidden("daemon-child")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchDaemon && watchStop {
		return fmt.Errorf("--daemon and --stop are mutually exclusive")
	}

	if watchPIDFile == "" {
		defaultPID, err := getDefaultPIDFile()
		if err != nil {
			return fmt.Errorf("failed to get default PID file path: %w", err)
		}
		watchPIDFile = defaultPID
	}

	if watchLogFile == "" {
		defaultLog, err := getDefaultEventLog()
		if err != nil {
			return fmt.Errorf("failed to get default event log path: %w", err)
		}
		watchLogFile = defaultLog
	}

	if watchStop {
		return stopWatchDaemon()
	}

	// The daemon parent only forks the child and exits; the child does
	// the seeding and polling.
	if watchDaemon {
		return startWatchDaemon()
	}

	if watchDaemonChild {
		return runWatchDaemonChild()
	}

	return runWatchForeground()
}

func stopWatchDaemon() error {
	running, err := monitor.IsDaemonRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running {
		fmt.Println("Daemon is not running")
		return nil
	}

	spinner := output.NewSpinner("Stopping daemon...")
	if err := monitor.StopDaemon(watchPIDFile); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to stop daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Daemon stopped")

	return nil
}

func startWatchDaemon() error {
	running, err := monitor.IsDaemonRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running {
		fmt.Printf("Daemon already running (PID file: %s). Nothing to do.\n", watchPIDFile)
		return nil
	}

	daemonLog, err := getDefaultDaemonLog()
	if err != nil {
		return fmt.Errorf("failed to get daemon log path: %w", err)
	}

	// The child must see the same configuration the user gave us.
	childArgs := []string{
		"watch", "--daemon-child",
		"--pid-file", watchPIDFile,
		"--log-file", watchLogFile,
		"--interval", watchInterval.String(),
	}
	if dbPath != "" {
		childArgs = append(childArgs, "--db", dbPath)
	}
	if watchNoNetwork {
		childArgs = append(childArgs, "--no-network")
	}

	spinner := output.NewSpinner("Starting daemon...")
	if err := monitor.StartDaemon(watchPIDFile, daemonLog, childArgs); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Daemon started")

	fmt.Printf("\nChurn monitoring daemon started\n")
	fmt.Printf("  PID file:   %s\n", watchPIDFile)
	fmt.Printf("  Event log:  %s\n", watchLogFile)
	fmt.Printf("  Daemon log: %s\n", daemonLog)
	fmt.Printf("\nTo stop: procwatch watch --stop\n")

	return nil
}

// buildMonitor wires the store, the event log and the monitor together.
// console is the writer events are mirrored to; nil disables mirroring.
// The caller owns closing the returned store and log.
func buildMonitor(console io.Writer) (*monitor.Monitor, *eventlog.Log, *store.Store, error) {
	dbFile, err := getDBPath()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get database path: %w", err)
	}

	st, err := store.New(dbFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := st.CreateSchema(); err != nil {
		st.Close()
		return nil, nil, nil, fmt.Errorf("failed to create database schema: %w", err)
	}

	evlog, err := eventlog.Open(watchLogFile, console)
	if err != nil {
		st.Close()
		return nil, nil, nil, err
	}

	mon, err := monitor.New(monitor.Config{
		Interval: watchInterval,
		Network:  !watchNoNetwork,
		Diag:     os.Stderr,
	}, monitor.SystemEnumerator(), monitor.MultiSink(evlog, st))
	if err != nil {
		evlog.Close()
		st.Close()
		return nil, nil, nil, err
	}

	return mon, evlog, st, nil
}

func runWatchDaemonChild() error {
	// stdout/stderr are redirected to the daemon log; do not mirror
	// events there, they already go to the event log and the store.
	fmt.Fprintf(os.Stderr, "procwatch-watch: daemon started\n")

	mon, evlog, st, err := buildMonitor(nil)
	if err != nil {
		return err
	}
	defer st.Close()
	defer evlog.Close()

	evlog.Notice("procwatch monitor started")
	err = mon.RunDaemon(watchPIDFile)
	evlog.Notice("procwatch monitor stopped")
	return err
}

func runWatchForeground() error {
	mon, evlog, st, err := buildMonitor(os.Stdout)
	if err != nil {
		return err
	}
	defer st.Close()
	defer evlog.Close()

	evlog.Notice("procwatch monitor started")
	fmt.Println("Watching for process and connection churn. Press Ctrl+C to stop.")
	fmt.Println()

	if err := mon.Start(); err != nil {
		return fmt.Errorf("failed to start monitor: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigCh
	fmt.Printf("\nReceived signal %v, shutting down...\n", sig)

	if err := mon.Stop(); err != nil {
		return fmt.Errorf("failed to stop monitor: %w", err)
	}

	evlog.Notice("procwatch monitor stopped")

	return nil
}
