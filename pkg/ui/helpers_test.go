package ui

import "testing"

func TestTruncateRunesHelper(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		max    int
		suffix string
		want   string
	}{
		{"fits", "Economy", 10, "…", "Economy"},
		{"exact", "Economy", 7, "…", "Economy"},
		{"truncated", "Environment", 6, "…", "Envir…"},
		{"wide runes", "日本語テキスト", 5, "…", "日本…"},
		{"zero width", "abc", 0, "…", ""},
		{"suffix wider than max", "abcdef", 2, "...", ".."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateRunesHelper(tt.in, tt.max, tt.suffix); got != tt.want {
				t.Errorf("truncateRunesHelper(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestPadding(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padLeft("ab", 4); got != "  ab" {
		t.Errorf("padLeft = %q", got)
	}
	if got := padRight("日本", 5); got != "日本 " {
		t.Errorf("padRight wide = %q", got)
	}
	if got := padLeft("toolong", 3); got != "toolong" {
		t.Errorf("padLeft overflow = %q", got)
	}
	if got := cell("Member 03 with a long name", 10); got != "Member 03…" {
		t.Errorf("cell = %q", got)
	}
}
