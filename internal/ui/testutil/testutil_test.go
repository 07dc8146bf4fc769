package testutil

import (
	"testing"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no ansi codes", "00:42 / 03:10", "00:42 / 03:10"},
		{"with color codes", "\x1b[31m▶\x1b[0m playing", "▶ playing"},
		{"with multiple codes", "\x1b[1;32m1.25×\x1b[0m", "1.25×"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripANSI(tt.input)
			if got != tt.want {
				t.Errorf("StripANSI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMeasureWidth(t *testing.T) {
	if got := MeasureWidth("\x1b[31mabc\x1b[0m"); got != 3 {
		t.Errorf("MeasureWidth = %d, want 3", got)
	}
}

func TestFindLine(t *testing.T) {
	output := "Help\nspace  Play/pause\ns      Stop"

	if got := FindLine(output, "Stop"); got != "s      Stop" {
		t.Errorf("FindLine = %q", got)
	}
	if got := FindLine(output, "Loop"); got != "" {
		t.Errorf("FindLine = %q, want empty", got)
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("a\nb\n\n  \n")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("SplitLines = %q", got)
	}
}

func TestAssertContains(t *testing.T) {
	if msg := AssertContains("\x1b[1mOpen\x1b[0m", "Open"); msg != "" {
		t.Errorf("unexpected failure: %s", msg)
	}
	if msg := AssertContains("Open", "Recent"); msg == "" {
		t.Error("expected failure message")
	}
}

func TestAssertNotContains(t *testing.T) {
	if msg := AssertNotContains("Open", "Recent"); msg != "" {
		t.Errorf("unexpected failure: %s", msg)
	}
	if msg := AssertNotContains("\x1b[1mOpen\x1b[0m", "Open"); msg == "" {
		t.Error("expected failure message")
	}
}
