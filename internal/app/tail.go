package app

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var (
	tailLines   int
	tailFollow  bool
	tailLogFile string

	tailCmd = &cobra.Command{
		Use:   "tail",
		Short: "Print or follow the event log",
		Long: `Print the most recent lines of the plain-text event log.

With --follow, keep the log open and print new events as the watch
daemon appends them, using filesystem notifications rather than
polling. Press Ctrl+C to stop following.`,
		Example: `  # Last 20 event lines
  procwatch tail

  # Follow the log live
  procwatch tail --follow

  # A different log file
  procwatch tail --log-file /tmp/events.log --lines 100`,
		RunE: runTail,
	}
)

func init() {
	tailCmd.Flags().IntVar(&tailLines, "lines", 20, "number of trailing lines to print")
	tailCmd.Flags().BoolVar(&tailFollow, "follow", false, "keep printing as new events are appended")
	tailCmd.Flags().StringVar(&tailLogFile, "log-file", "", "event log path (default: ~/.procwatch/events.log)")

	RootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	if tailLines < 0 {
		return fmt.Errorf("invalid lines: %d (must not be negative)", tailLines)
	}

	if tailLogFile == "" {
		defaultLog, err := getDefaultEventLog()
		if err != nil {
			return fmt.Errorf("failed to get default event log path: %w", err)
		}
		tailLogFile = defaultLog
	}

	f, err := os.Open(tailLogFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("event log not found at %s — run 'procwatch watch' first", tailLogFile)
		}
		return fmt.Errorf("failed to open event log: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("failed to read event log: %w", err)
	}
	for _, line := range lastLines(string(data), tailLines) {
		fmt.Println(line)
	}

	if !tailFollow {
		return nil
	}

	return followLog(f)
}

// followLog blocks printing data appended to f until interrupted. The
// file is watched with fsnotify; a truncation (size below the current
// offset) rewinds to the start, which handles log rotation in place.
func followLog(f *os.File) error {
	offset, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("failed to seek event log: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(f.Name()); err != nil {
		return fmt.Errorf("failed to watch event log: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				fmt.Fprintln(os.Stderr, "tail: event log removed, stopping")
				return nil
			}
			if !ev.Has(fsnotify.Write) {
				continue
			}

			if fi, err := f.Stat(); err == nil && fi.Size() < offset {
				// Truncated underneath us; start over.
				if offset, err = f.Seek(0, io.SeekStart); err != nil {
					return fmt.Errorf("failed to rewind event log: %w", err)
				}
			}

			n, err := io.Copy(os.Stdout, f)
			if err != nil {
				return fmt.Errorf("failed to read appended events: %w", err)
			}
			offset += n

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "tail: watch error: %v\n", err)

		case <-sigCh:
			return nil
		}
	}
}

// lastLines returns up to n trailing non-empty-terminated lines of s.
func lastLines(s string, n int) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" || n == 0 {
		return nil
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
