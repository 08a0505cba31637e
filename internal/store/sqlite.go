package store

import (
	"context"
	"errors"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	_ "modernc.org/sqlite"

	"vanish.share/internal/models"
)

var (
	_ RecordStore   = (*SQLiteStore)(nil)
	_ TimerRegistry = (*SQLiteStore)(nil)
)

// SQLiteStore is the single-file durable backend: records and timer entries
// as two tables. Uses the CGO-free modernc driver.
type SQLiteStore struct {
	db *gorm.DB
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.Record{}, &models.TimerEntry{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, rec *models.Record) error {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rec.Clone())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Record, error) {
	var rec models.Record
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *SQLiteStore) Update(ctx context.Context, rec *models.Record) error {
	// Select("*") forces zero values (nil payload, cleared hint) to be written.
	res := s.db.WithContext(ctx).
		Model(&models.Record{}).
		Where("id = ?", rec.ID).
		Select("*").
		Updates(rec.Clone())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Record{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Schedule(ctx context.Context, entry models.TimerEntry) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entry).Error
}

func (s *SQLiteStore) Next(ctx context.Context, id string) (models.TimerEntry, error) {
	var entry models.TimerEntry
	err := s.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TimerEntry{}, ErrNotFound
		}
		return models.TimerEntry{}, err
	}
	return entry, nil
}

func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.TimerEntry{}, "id = ?", id).Error
}

func (s *SQLiteStore) Due(ctx context.Context, now time.Time) ([]models.TimerEntry, error) {
	var due []models.TimerEntry
	err := s.db.WithContext(ctx).
		Where("due_at <= ?", now).
		Order("due_at").
		Find(&due).Error
	if err != nil {
		return nil, err
	}
	return due, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
