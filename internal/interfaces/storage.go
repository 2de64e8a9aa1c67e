package interfaces

import (
	"context"
	"errors"

	"github.com/bobmcallan/board-race/internal/models"
)

// ErrNotFound is returned by storage lookups for absent keys.
var ErrNotFound = errors.New("not found")

// StorageManager provides access to the storage backends.
type StorageManager interface {
	RecordStorage() RecordStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}

// RecordStorage persists one DailyRecord per date key.
type RecordStorage interface {
	// GetRecord returns ErrNotFound when no record exists for date.
	GetRecord(ctx context.Context, date string) (*models.DailyRecord, error)
	// PutRecord replaces any record stored under rec.Date.
	PutRecord(ctx context.Context, rec *models.DailyRecord) error
}

// KeyValueStorage provides basic key-value operations.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]string, error)
}
