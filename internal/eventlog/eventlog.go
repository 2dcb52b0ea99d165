// Package eventlog writes lifecycle events to an append-only text log,
// one timestamped line per event, optionally mirroring each line to a
// console writer. The on-disk line format is
//
//	2006-01-02 15:04:05 - Process Started - PID: 123, Name: nginx, Created: 2006-01-02 15:04:01
//
// and the console mirror carries the message without the timestamp
// prefix.
package eventlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/blackwell-systems/procwatch/internal/monitor"
)

// TimeLayout is the timestamp format used both for line prefixes and
// for the Created field of process-start events.
const TimeLayout = "2006-01-02 15:04:05"

// Log is an append-only event log. It implements monitor.Sink. Writes
// are serialized with a mutex so the log stays safe if events ever
// arrive from more than one goroutine.
type Log struct {
	mu      sync.Mutex
	file    *os.File
	console io.Writer
}

// Open opens (creating if needed) the log file at path for appending.
// Each recorded line is mirrored to console when it is non-nil.
func Open(path string, console io.Writer) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	return &Log{file: f, console: console}, nil
}

// Record formats and appends one lifecycle event. It implements
// monitor.Sink.
func (l *Log) Record(ev monitor.Event) {
	t := ev.Time
	if t.IsZero() {
		t = time.Now()
	}
	l.write(t, FormatEvent(ev))
}

// Notice appends a free-form line, used for startup and shutdown
// notices.
func (l *Log) Notice(msg string) {
	l.write(time.Now(), msg)
}

func (l *Log) write(t time.Time, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.file, "%s - %s\n", t.Format(TimeLayout), msg)
	if l.console != nil {
		fmt.Fprintln(l.console, msg)
	}
}

// Close closes the underlying log file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// FormatEvent renders one event in the procwatch line format.
func FormatEvent(ev monitor.Event) string {
	switch ev.Class {
	case monitor.ClassProcess:
		if ev.Action == monitor.ActionStarted {
			if ev.Created.IsZero() {
				// Creation time could not be read for this process.
				return fmt.Sprintf("Process Started - PID: %d, Name: %s", ev.PID, ev.Name)
			}
			return fmt.Sprintf("Process Started - PID: %d, Name: %s, Created: %s",
				ev.PID, ev.Name, ev.Created.Format(TimeLayout))
		}
		if ev.Name == "" {
			// Name was never captured for this pid; report what we have.
			return fmt.Sprintf("Process Ended - PID: %d", ev.PID)
		}
		return fmt.Sprintf("Process Ended - PID: %d, Name: %s", ev.PID, ev.Name)

	case monitor.ClassConnection:
		verb := "Started"
		if ev.Action == monitor.ActionEnded {
			verb = "Ended"
		}
		return fmt.Sprintf("Connection %s - Local: %s, Remote: %s, Status: %s, PID: %s",
			verb, orNone(ev.LocalAddr), orNone(ev.RemoteAddr), ev.Status, pidOrNone(ev.PID))
	}

	return fmt.Sprintf("%s %s", ev.Class, ev.Action)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func pidOrNone(pid int32) string {
	if pid == 0 {
		return "None"
	}
	return fmt.Sprintf("%d", pid)
}
