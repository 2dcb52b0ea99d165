package app

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestTailCmd_Flags(t *testing.T) {
	lines := tailCmd.Flags().Lookup("lines")
	if lines == nil {
		t.Fatal("--lines flag not registered")
	}
	if lines.DefValue != "20" {
		t.Errorf("--lines default = %q, want %q", lines.DefValue, "20")
	}

	if tailCmd.Flags().Lookup("follow") == nil {
		t.Error("--follow flag not registered")
	}
	if tailCmd.Flags().Lookup("log-file") == nil {
		t.Error("--log-file flag not registered")
	}
}

func TestRunTail_NegativeLines(t *testing.T) {
	origLines := tailLines
	defer func() { tailLines = origLines }()

	tailLines = -1

	err := runTail(tailCmd, nil)
	if err == nil {
		t.Fatal("runTail() with negative lines should return an error")
	}
	if !strings.Contains(err.Error(), "invalid lines") {
		t.Errorf("error = %q, want it to mention 'invalid lines'", err.Error())
	}
}

func TestRunTail_MissingLogFile(t *testing.T) {
	origLines, origLogFile := tailLines, tailLogFile
	defer func() { tailLines, tailLogFile = origLines, origLogFile }()

	tailLines = 20
	tailLogFile = filepath.Join(t.TempDir(), "missing.log")

	err := runTail(tailCmd, nil)
	if err == nil {
		t.Fatal("runTail() on a missing log file should return an error")
	}
	if !strings.Contains(err.Error(), "procwatch watch") {
		t.Errorf("error = %q, want it to point at 'procwatch watch'", err.Error())
	}
}

func TestLastLines(t *testing.T) {
	tests := []struct {
		name string
		s    string
		n    int
		want []string
	}{
		{"empty input", "", 5, nil},
		{"zero lines", "a\nb\n", 0, nil},
		{"fewer than n", "a\nb\n", 5, []string{"a", "b"}},
		{"exactly n", "a\nb\nc\n", 3, []string{"a", "b", "c"}},
		{"more than n", "a\nb\nc\nd\n", 2, []string{"c", "d"}},
		{"no trailing newline", "a\nb\nc", 2, []string{"b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lastLines(tt.s, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("lastLines(%q, %d) = %v, want %v", tt.s, tt.n, got, tt.want)
			}
		})
	}
}
