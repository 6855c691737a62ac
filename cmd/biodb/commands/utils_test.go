// ABOUTME: Tests for shared CLI utility functions
// ABOUTME: Verifies formatting helpers used by table output

package commands

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"longer than max", "hello world", 8, "hello..."},
		{"tiny max", "hello", 3, "hel"},
		{"empty string", "", 5, ""},
		{"unicode", "ünïcödé tëxt hërë", 10, "ünïcödé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"zero time", time.Time{}, "-"},
		{"normal date", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), "2025-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDate(tt.input)
			if got != tt.want {
				t.Errorf("formatDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOrDash(t *testing.T) {
	if got := orDash(""); got != "-" {
		t.Errorf("orDash(\"\") = %q, want %q", got, "-")
	}
	if got := orDash("value"); got != "value" {
		t.Errorf("orDash(\"value\") = %q, want %q", got, "value")
	}
}

func TestFormatRange(t *testing.T) {
	low := 70.0
	high := 99.5

	tests := []struct {
		name string
		low  *float64
		high *float64
		want string
	}{
		{"both bounds", &low, &high, "70.0-99.5"},
		{"low only", &low, nil, "70.0--"},
		{"high only", nil, &high, "--99.5"},
		{"neither", nil, nil, "---"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatRange(tt.low, tt.high)
			if got != tt.want {
				t.Errorf("formatRange() = %q, want %q", got, tt.want)
			}
		})
	}
}
