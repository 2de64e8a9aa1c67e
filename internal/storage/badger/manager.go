package badger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bobmcallan/board-race/internal/common"
	"github.com/bobmcallan/board-race/internal/config"
	"github.com/bobmcallan/board-race/internal/interfaces"
	"github.com/bobmcallan/board-race/internal/models"
)

// schemaVersionKey holds the DailyRecord schema version the store was last opened with.
const schemaVersionKey = "meta:schema_version"

// Manager implements the StorageManager interface for Badger.
type Manager struct {
	db      *BadgerDB
	kv      *KVStorage
	records *RecordStorage
	logger  *common.Logger
}

// NewManager opens the database and stamps it with the current schema version.
func NewManager(logger *common.Logger, cfg *config.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, cfg)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		db:      db,
		kv:      NewKVStorage(db, logger),
		records: NewRecordStorage(db, logger),
		logger:  logger,
	}

	if err := m.checkSchemaVersion(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug().Str("path", cfg.Path).Msg("Badger storage manager initialized")

	return m, nil
}

// checkSchemaVersion records the schema version on first open and warns when
// the store was written by a different layout. Mismatched records are then
// rejected individually on read.
func (m *Manager) checkSchemaVersion(ctx context.Context) error {
	current := strconv.Itoa(models.SchemaVersion)

	stored, err := m.kv.Get(ctx, schemaVersionKey)
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		return m.kv.Set(ctx, schemaVersionKey, current)
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if stored != current {
		m.logger.Warn().
			Str("stored", stored).
			Str("current", current).
			Msg("store was written with a different record schema")
	}
	return nil
}

// RecordStorage returns the DailyRecord store.
func (m *Manager) RecordStorage() interfaces.RecordStorage {
	return m.records
}

// KeyValueStorage returns the KeyValue storage interface.
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Close closes the database connection.
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
