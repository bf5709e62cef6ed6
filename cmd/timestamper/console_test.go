package main

import (
	"context"
	"strings"
	"testing"

	"periph.io/x/conn/v3/gpio"

	"github.com/kso512/timestamper/internal/hardware"
)

func TestParseConsole(t *testing.T) {
	tests := []struct {
		line string
		want consoleCmd
	}{
		{"+", consoleCmd{turn: 1}},
		{"-", consoleCmd{turn: -1}},
		{"+5", consoleCmd{turn: 5}},
		{" -3 ", consoleCmd{turn: -3}},
		{"p", consoleCmd{press: true}},
		{"press", consoleCmd{press: true}},
	}
	for _, tt := range tests {
		got, err := parseConsole(tt.line)
		if err != nil {
			t.Fatalf("parseConsole(%q) error = %v", tt.line, err)
		}
		if got != tt.want {
			t.Errorf("parseConsole(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestParseConsole_Invalid(t *testing.T) {
	for _, line := range []string{"", "x", "+x", "--"} {
		if _, err := parseConsole(line); err == nil {
			t.Errorf("parseConsole(%q) expected error", line)
		}
	}
}

func TestRunConsole(t *testing.T) {
	enc := hardware.NewMockEncoder()
	btn := hardware.NewMockButton()

	runConsole(context.Background(), strings.NewReader("+4\n-1\nbogus\np\n"), enc, btn)

	if got := enc.Position(); got != 3 {
		t.Errorf("encoder position = %d, want 3", got)
	}
	if got := btn.Read(); got != gpio.High {
		t.Errorf("button level after press = %v, want High", got)
	}
}
