package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/climate"
)

// SQLiteStore persists readings in a single local SQLite file.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the database at path and makes sure
// the readings table exists. With verbose set, gorm logs every statement.
func OpenSQLite(path string, verbose bool) (*SQLiteStore, error) {
	level := logger.Silent
	if verbose {
		level = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&climate.Reading{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveReading inserts r and fills in its ID. Timestamps are stored in UTC.
func (s *SQLiteStore) SaveReading(ctx context.Context, r *climate.Reading) error {
	r.Timestamp = r.Timestamp.UTC()
	return s.db.WithContext(ctx).Create(r).Error
}

// ReadingsSince returns all readings at or after since, oldest first.
func (s *SQLiteStore) ReadingsSince(ctx context.Context, since time.Time) ([]climate.Reading, error) {
	var readings []climate.Reading
	err := s.db.WithContext(ctx).
		Where("timestamp >= ?", since.UTC()).
		Order("timestamp asc, id asc").
		Find(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}

// LatestReading returns the most recent reading of zone.
func (s *SQLiteStore) LatestReading(ctx context.Context, zone climate.Zone) (climate.Reading, error) {
	var r climate.Reading
	err := s.db.WithContext(ctx).
		Where("zone = ?", string(zone)).
		Order("timestamp desc, id desc").
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return climate.Reading{}, ErrNotFound
	}
	if err != nil {
		return climate.Reading{}, err
	}
	return r, nil
}

// Count returns the number of stored readings.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&climate.Reading{}).Count(&n).Error
	return n, err
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
