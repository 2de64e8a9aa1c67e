package models

import (
	"errors"
	"fmt"
	"time"
)

// SchemaVersion is the DailyRecord layout written by this build.
// Records with a different version are rejected on read.
const SchemaVersion = 1

// ErrInvalidRecord is returned when a stored record fails validation.
var ErrInvalidRecord = errors.New("invalid daily record")

// RecordState is the lifecycle position of a record for one date.
type RecordState string

const (
	StateCaptured RecordState = "captured"
	StateReported RecordState = "reported"
)

// Snapshot maps a list ID to the cards it held at one instant.
type Snapshot map[string]CardSet

// DailyRecord is the persisted state for one calendar day.
// EndOfDay and Stats stay nil until the end-of-day report has run.
type DailyRecord struct {
	Date          string               `json:"date" badgerhold:"key"`
	SchemaVersion int                  `json:"schema_version"`
	StartOfDay    Snapshot             `json:"start_of_day"`
	EndOfDay      Snapshot             `json:"end_of_day,omitempty"`
	Stats         map[string]ListStats `json:"stats,omitempty"`
	CapturedAt    time.Time            `json:"captured_at"`
	ReportedAt    *time.Time           `json:"reported_at,omitempty"`
}

// NewCapturedRecord returns a record holding only the morning snapshot.
func NewCapturedRecord(date string, start Snapshot, at time.Time) *DailyRecord {
	return &DailyRecord{
		Date:          date,
		SchemaVersion: SchemaVersion,
		StartOfDay:    start,
		CapturedAt:    at,
	}
}

// WithReport returns a copy of r carrying the evening snapshot and stats.
// The start-of-day snapshot is carried over as is.
func (r *DailyRecord) WithReport(end Snapshot, stats map[string]ListStats, at time.Time) *DailyRecord {
	out := *r
	out.SchemaVersion = SchemaVersion
	out.EndOfDay = end
	out.Stats = stats
	out.ReportedAt = &at
	return &out
}

// State reports whether the evening phase has been recorded.
func (r *DailyRecord) State() RecordState {
	if r.EndOfDay != nil || r.Stats != nil {
		return StateReported
	}
	return StateCaptured
}

// HasStartOfDay reports whether the morning snapshot is present.
func (r *DailyRecord) HasStartOfDay() bool {
	return r != nil && r.StartOfDay != nil
}

// Validate checks the structural invariants of a stored record.
func (r *DailyRecord) Validate() error {
	if r.SchemaVersion != SchemaVersion {
		return fmt.Errorf("%w: schema version %d, expected %d", ErrInvalidRecord, r.SchemaVersion, SchemaVersion)
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("%w: bad date %q", ErrInvalidRecord, r.Date)
	}
	if r.StartOfDay == nil {
		if r.EndOfDay != nil || r.Stats != nil {
			return fmt.Errorf("%w: %s has end-of-day data without a start-of-day snapshot", ErrInvalidRecord, r.Date)
		}
		return nil
	}
	for listID := range r.EndOfDay {
		if _, ok := r.StartOfDay[listID]; !ok {
			return fmt.Errorf("%w: end-of-day list %s missing from start-of-day", ErrInvalidRecord, listID)
		}
	}
	for listID := range r.Stats {
		if _, ok := r.StartOfDay[listID]; !ok {
			return fmt.Errorf("%w: stats for list %s missing from start-of-day", ErrInvalidRecord, listID)
		}
	}
	return nil
}
