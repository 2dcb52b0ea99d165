// Package output provides terminal output utilities for procwatch:
// table rendering for recorded events and churn aggregates, a spinner
// for indeterminate operations, and human-readable formatting helpers.
//
// Tables use ASCII characters and ANSI color codes; colors are emitted
// only when stdout is a TTY and NO_COLOR is unset.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/procwatch/internal/store"
)

// ANSI color codes for event action display
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorGray  = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

const eventTimeLayout = "2006-01-02 15:04:05"

// RenderEventTable renders recorded lifecycle events, newest first
// (the order the store returns them in).
func RenderEventTable(events []*store.Event) string {
	if len(events) == 0 {
		return "No events recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-19s  %-10s  %-7s  %-7s  %s\n",
		"Time", "Class", "Action", "PID", "Detail"))
	sb.WriteString(strings.Repeat("─", 78))
	sb.WriteString("\n")

	for _, ev := range events {
		action := ev.Action
		switch action {
		case "started":
			action = colorize(colorGreen, action)
		case "ended":
			action = colorize(colorRed, action)
		}

		pid := "-"
		if ev.PID != 0 {
			pid = fmt.Sprintf("%d", ev.PID)
		}

		sb.WriteString(fmt.Sprintf("%-19s  %-10s  %-7s  %-7s  %s\n",
			ev.Timestamp.Format(eventTimeLayout),
			ev.Class,
			action,
			pid,
			eventDetail(ev)))
	}

	return sb.String()
}

// eventDetail renders the class-specific column: the process name, or
// the local -> remote endpoints plus status for a connection.
func eventDetail(ev *store.Event) string {
	if ev.Class == "connection" {
		local := ev.LocalAddr
		if local == "" {
			local = "-"
		}
		remote := ev.RemoteAddr
		if remote == "" {
			remote = "-"
		}
		return fmt.Sprintf("%s -> %s (%s)", local, remote, ev.Status)
	}

	if ev.Name == "" {
		return "-"
	}
	return truncate(ev.Name, 32)
}

// RenderTopTable renders a "top N" churn list under a heading.
func RenderTopTable(heading string, counts []store.NameCount) string {
	var sb strings.Builder

	sb.WriteString(heading)
	sb.WriteString("\n")

	if len(counts) == 0 {
		sb.WriteString("  (none recorded)\n")
		return sb.String()
	}

	for _, nc := range counts {
		sb.WriteString(fmt.Sprintf("  %-40s %6d\n", truncate(nc.Name, 40), nc.Count))
	}

	return sb.String()
}

// FormatSize converts bytes to a human-readable size.
func FormatSize(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.0f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatRelativeTime renders a time as a coarse "Nm ago" style string.
func FormatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// truncate shortens s to max runes, ellipsizing when cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
