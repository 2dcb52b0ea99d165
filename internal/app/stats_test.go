package app

import (
	"strings"
	"testing"
)

func TestStatsCmd_Flags(t *testing.T) {
	top := statsCmd.Flags().Lookup("top")
	if top == nil {
		t.Fatal("--top flag not registered")
	}
	if top.DefValue != "10" {
		t.Errorf("--top default = %q, want %q", top.DefValue, "10")
	}
}

func TestRunStats_InvalidTop(t *testing.T) {
	origTop := statsTop
	defer func() { statsTop = origTop }()

	statsTop = -1

	err := runStatsCmd(statsCmd, nil)
	if err == nil {
		t.Fatal("runStatsCmd() with a non-positive top should return an error")
	}
	if !strings.Contains(err.Error(), "invalid top") {
		t.Errorf("error = %q, want it to mention 'invalid top'", err.Error())
	}
}
