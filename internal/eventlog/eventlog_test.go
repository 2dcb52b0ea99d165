package eventlog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/procwatch/internal/monitor"
)

var evTime = time.Date(2025, 6, 1, 12, 30, 45, 0, time.Local)

func TestFormatEvent_ProcessStarted(t *testing.T) {
	ev := monitor.Event{
		Class:   monitor.ClassProcess,
		Action:  monitor.ActionStarted,
		PID:     1234,
		Name:    "nginx",
		Created: time.Date(2025, 6, 1, 12, 30, 40, 0, time.Local),
	}

	got := FormatEvent(ev)
	want := "Process Started - PID: 1234, Name: nginx, Created: 2025-06-01 12:30:40"
	if got != want {
		t.Errorf("FormatEvent() = %q, want %q", got, want)
	}
}

func TestFormatEvent_ProcessStartedUnknownCreated(t *testing.T) {
	// CreateTime can fail during enumeration, leaving Created zero; the
	// clause is omitted rather than rendered as year one.
	ev := monitor.Event{
		Class:  monitor.ClassProcess,
		Action: monitor.ActionStarted,
		PID:    1234,
		Name:   "nginx",
	}

	got := FormatEvent(ev)
	want := "Process Started - PID: 1234, Name: nginx"
	if got != want {
		t.Errorf("FormatEvent() = %q, want %q", got, want)
	}
}

func TestFormatEvent_ProcessEnded(t *testing.T) {
	ev := monitor.Event{
		Class:  monitor.ClassProcess,
		Action: monitor.ActionEnded,
		PID:    1234,
		Name:   "nginx",
	}

	got := FormatEvent(ev)
	want := "Process Ended - PID: 1234, Name: nginx"
	if got != want {
		t.Errorf("FormatEvent() = %q, want %q", got, want)
	}
}

func TestFormatEvent_ProcessEndedUnknownName(t *testing.T) {
	ev := monitor.Event{
		Class:  monitor.ClassProcess,
		Action: monitor.ActionEnded,
		PID:    99,
	}

	got := FormatEvent(ev)
	want := "Process Ended - PID: 99"
	if got != want {
		t.Errorf("FormatEvent() = %q, want %q", got, want)
	}
}

func TestFormatEvent_ConnectionStarted(t *testing.T) {
	ev := monitor.Event{
		Class:      monitor.ClassConnection,
		Action:     monitor.ActionStarted,
		PID:        654,
		LocalAddr:  "10.0.0.5:43210",
		RemoteAddr: "93.184.216.34:443",
		Status:     "ESTABLISHED",
	}

	got := FormatEvent(ev)
	want := "Connection Started - Local: 10.0.0.5:43210, Remote: 93.184.216.34:443, Status: ESTABLISHED, PID: 654"
	if got != want {
		t.Errorf("FormatEvent() = %q, want %q", got, want)
	}
}

func TestFormatEvent_ConnectionEndedUnknownFields(t *testing.T) {
	// Unbound remote end and unknown owner render as None.
	ev := monitor.Event{
		Class:     monitor.ClassConnection,
		Action:    monitor.ActionEnded,
		LocalAddr: "0.0.0.0:68",
		Status:    "NONE",
	}

	got := FormatEvent(ev)
	want := "Connection Ended - Local: 0.0.0.0:68, Remote: None, Status: NONE, PID: None"
	if got != want {
		t.Errorf("FormatEvent() = %q, want %q", got, want)
	}
}

func TestLog_RecordWritesTimestampedLine(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "events.log")
	var console bytes.Buffer

	l, err := Open(logPath, &console)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer l.Close()

	l.Record(monitor.Event{
		Time:   evTime,
		Class:  monitor.ClassProcess,
		Action: monitor.ActionEnded,
		PID:    100,
		Name:   "alpha",
	})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	wantLine := "2025-06-01 12:30:45 - Process Ended - PID: 100, Name: alpha\n"
	if string(data) != wantLine {
		t.Errorf("log file = %q, want %q", string(data), wantLine)
	}

	// The console mirror carries the message without the timestamp.
	if console.String() != "Process Ended - PID: 100, Name: alpha\n" {
		t.Errorf("console mirror = %q", console.String())
	}
}

func TestLog_NilConsoleSkipsMirroring(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "events.log")

	l, err := Open(logPath, nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer l.Close()

	l.Record(monitor.Event{Time: evTime, Class: monitor.ClassProcess, Action: monitor.ActionEnded, PID: 1})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "Process Ended - PID: 1") {
		t.Errorf("log file missing event line: %q", string(data))
	}
}

func TestLog_AppendsAcrossOpens(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "events.log")

	for i := 0; i < 2; i++ {
		l, err := Open(logPath, nil)
		if err != nil {
			t.Fatalf("Open() #%d failed: %v", i, err)
		}
		l.Notice("procwatch monitor started")
		if err := l.Close(); err != nil {
			t.Fatalf("Close() #%d failed: %v", i, err)
		}
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	if got := strings.Count(string(data), "procwatch monitor started"); got != 2 {
		t.Errorf("log contains %d notice lines, want 2 (append-only)", got)
	}
}

func TestLog_RecordStampsZeroTime(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "events.log")

	l, err := Open(logPath, nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer l.Close()

	l.Record(monitor.Event{Class: monitor.ClassProcess, Action: monitor.ActionEnded, PID: 1})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	year := time.Now().Format("2006")
	if !strings.HasPrefix(string(data), year) {
		t.Errorf("zero-time event not stamped with current time: %q", string(data))
	}
}
