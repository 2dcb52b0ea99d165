package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestSpinner_NonTTYPrintsMessageOnce(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Stopping daemon")
	s.SetWriter(&buf)

	s.Start()
	s.Start() // second Start is a no-op
	s.Stop()

	if got := buf.String(); got != "Stopping daemon...\n" {
		t.Errorf("non-TTY output = %q, want %q", got, "Stopping daemon...\n")
	}
}

func TestSpinner_StopWithMessage(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Stopping daemon")
	s.SetWriter(&buf)

	s.Start()
	s.StopWithMessage("Daemon stopped")

	if !strings.HasSuffix(buf.String(), "Daemon stopped\n") {
		t.Errorf("output = %q, want it to end with the final message", buf.String())
	}
}

func TestSpinner_StopWithMessageWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Checking")
	s.SetWriter(&buf)

	s.StopWithMessage("Nothing to do")

	if got := buf.String(); got != "Nothing to do\n" {
		t.Errorf("output = %q, want %q", got, "Nothing to do\n")
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Idle")
	s.SetWriter(&buf)

	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("Stop() without Start() wrote %q", buf.String())
	}
}

func TestWriterIsTTY_Buffer(t *testing.T) {
	if writerIsTTY(&bytes.Buffer{}) {
		t.Error("writerIsTTY(*bytes.Buffer) = true, want false")
	}
}
