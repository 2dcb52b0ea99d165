package app

import (
	"strings"
	"testing"
)

func TestHistoryCmd_Flags(t *testing.T) {
	limit := historyCmd.Flags().Lookup("limit")
	if limit == nil {
		t.Fatal("--limit flag not registered")
	}
	if limit.DefValue != "50" {
		t.Errorf("--limit default = %q, want %q", limit.DefValue, "50")
	}

	class := historyCmd.Flags().Lookup("class")
	if class == nil {
		t.Fatal("--class flag not registered")
	}
	if class.DefValue != "" {
		t.Errorf("--class default = %q, want empty (no filter)", class.DefValue)
	}
}

func TestRunHistory_InvalidClass(t *testing.T) {
	origClass := historyClass
	defer func() { historyClass = origClass }()

	historyClass = "sockets"

	err := runHistory(historyCmd, nil)
	if err == nil {
		t.Fatal("runHistory() with an unknown class should return an error")
	}
	if !strings.Contains(err.Error(), "invalid class") {
		t.Errorf("error = %q, want it to mention 'invalid class'", err.Error())
	}
}

func TestRunHistory_InvalidLimit(t *testing.T) {
	origLimit := historyLimit
	defer func() { historyLimit = origLimit }()

	historyLimit = 0

	err := runHistory(historyCmd, nil)
	if err == nil {
		t.Fatal("runHistory() with a non-positive limit should return an error")
	}
	if !strings.Contains(err.Error(), "invalid limit") {
		t.Errorf("error = %q, want it to mention 'invalid limit'", err.Error())
	}
}
