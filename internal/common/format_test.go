package common

import (
	"testing"
	"time"
)

func TestDateKey(t *testing.T) {
	ts := time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC)

	if got := DateKey(ts, time.UTC); got != "2026-10-14" {
		t.Errorf("DateKey(UTC) = %q, want 2026-10-14", got)
	}

	// 23:30 UTC is already the next day in Sydney
	sydney := time.FixedZone("AEDT", 11*60*60)
	if got := DateKey(ts, sydney); got != "2026-10-15" {
		t.Errorf("DateKey(+11) = %q, want 2026-10-15", got)
	}

	if got := DateKey(ts, nil); got != "2026-10-14" {
		t.Errorf("DateKey(nil) = %q, want 2026-10-14", got)
	}
}

func TestFormatReportDate(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"2026-10-04", "Oct 4, 2026"},
		{"2026-01-31", "Jan 31, 2026"},
		{"2024-02-29", "Feb 29, 2024"},
	}
	for _, tt := range tests {
		got, err := FormatReportDate(tt.key)
		if err != nil {
			t.Fatalf("FormatReportDate(%q): %v", tt.key, err)
		}
		if got != tt.want {
			t.Errorf("FormatReportDate(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestParseDateKey_Invalid(t *testing.T) {
	for _, key := range []string{"", "14-10-2026", "2026-13-01", "2026/10/14"} {
		if _, err := ParseDateKey(key); err == nil {
			t.Errorf("ParseDateKey(%q) should fail", key)
		}
	}
}
