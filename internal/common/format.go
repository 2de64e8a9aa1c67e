package common

import (
	"fmt"
	"time"
)

// DateKeyLayout is the layout of the per-day record key.
const DateKeyLayout = "2006-01-02"

// ReportDateLayout renders dates like "Oct 4, 2026".
const ReportDateLayout = "Jan 2, 2006"

// DateKey returns the calendar date of t in loc as YYYY-MM-DD.
func DateKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// FormatReportDate renders a date key for notification headers.
func FormatReportDate(key string) (string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	return t.Format(ReportDateLayout), nil
}
