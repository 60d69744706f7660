package timeparsing

import (
	"testing"
	"time"
)

func TestParseSinceCompactDurations(t *testing.T) {
	// Wednesday, January 15, 2025, 10:00 local time.
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"6h", now.Add(-6 * time.Hour)},
		{"-6h", now.Add(-6 * time.Hour)},
		{"1d", time.Date(2025, 1, 14, 10, 0, 0, 0, time.Local)},
		{"2w", time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)},
		{"3m", time.Date(2024, 10, 15, 10, 0, 0, 0, time.Local)},
		{"1y", time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSince(tt.input, now)
			if err != nil {
				t.Fatalf("ParseSince(%q): %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseSince(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSinceAbsolute(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)

	got, err := ParseSince("2024-12-31T23:59:59Z", now)
	if err != nil {
		t.Fatalf("ParseSince RFC3339: %v", err)
	}
	want := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("RFC3339 = %v, want %v", got, want)
	}

	got, err = ParseSince("2024-11-05", now)
	if err != nil {
		t.Fatalf("ParseSince date-only: %v", err)
	}
	want = time.Date(2024, 11, 5, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("date-only = %v, want %v", got, want)
	}
}

func TestParseSinceNaturalLanguage(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)

	got, err := ParseSince("yesterday", now)
	if err != nil {
		t.Fatalf("ParseSince yesterday: %v", err)
	}
	if got.Day() != 14 || got.Month() != time.January || got.Year() != 2025 {
		t.Errorf("yesterday = %v, want Jan 14 2025", got)
	}
}

func TestParseSinceRejectsGarbage(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)

	for _, input := range []string{"", "sometime", "12x", "++3d"} {
		if _, err := ParseSince(input, now); err == nil {
			t.Errorf("ParseSince(%q) succeeded, want error", input)
		}
	}
}

func TestIsCompactDuration(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"6h", true},
		{"-2d", true},
		{"10w", true},
		{"3m", true},
		{"1y", true},
		{"h", false},
		{"6", false},
		{"6s", false},
		{"yesterday", false},
	}
	for _, tt := range tests {
		if got := IsCompactDuration(tt.input); got != tt.want {
			t.Errorf("IsCompactDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
