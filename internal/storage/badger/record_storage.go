package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobmcallan/board-race/internal/common"
	"github.com/bobmcallan/board-race/internal/interfaces"
	"github.com/bobmcallan/board-race/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// RecordStorage implements interfaces.RecordStorage using BadgerDB.
type RecordStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

// NewRecordStorage creates a DailyRecord store backed by BadgerDB.
func NewRecordStorage(db *BadgerDB, logger *common.Logger) *RecordStorage {
	return &RecordStorage{
		db:     db,
		logger: logger,
	}
}

// GetRecord loads and validates the record for date.
func (s *RecordStorage) GetRecord(_ context.Context, date string) (*models.DailyRecord, error) {
	var rec models.DailyRecord
	if err := s.db.Store().Get(date, &rec); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("record %s: %w", date, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get record %s: %w", date, err)
	}
	// The key tag is not always populated on decode.
	if rec.Date == "" {
		rec.Date = date
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("record %s: %w", date, err)
	}
	return &rec, nil
}

// PutRecord replaces the record stored under rec.Date.
func (s *RecordStorage) PutRecord(_ context.Context, rec *models.DailyRecord) error {
	if rec == nil {
		return errors.New("nil record")
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("refusing to store record %s: %w", rec.Date, err)
	}
	if err := s.db.Store().Upsert(rec.Date, rec); err != nil {
		return fmt.Errorf("failed to put record %s: %w", rec.Date, err)
	}
	s.logger.Debug().
		Str("date", rec.Date).
		Str("state", string(rec.State())).
		Int("lists", len(rec.StartOfDay)).
		Msg("daily record stored")
	return nil
}
