package store

import (
	"context"
	"errors"
	"time"

	"vanish.share/internal/models"
)

var (
	ErrConflict = errors.New("record already exists")
	ErrNotFound = errors.New("record not found")
)

// RecordStore is durable keyed storage, one record per identifier. The same
// identifier always addresses the same slot, which is what makes duplicate
// detection work across restarts.
type RecordStore interface {
	// Create persists a new record and fails with ErrConflict if the
	// identifier already holds one, whatever its status.
	Create(ctx context.Context, rec *models.Record) error
	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Record, error)
	// Update replaces the stored record. ErrNotFound if absent.
	Update(ctx context.Context, rec *models.Record) error
	// Delete removes the record. Deleting an absent record is ErrNotFound.
	Delete(ctx context.Context, id string) error
	Close() error
}

// TimerRegistry is the durable schedule: at most one pending wakeup per
// identifier. It doubles as the index of identifiers with outstanding
// lifecycle work, which is what the sweeper enumerates.
type TimerRegistry interface {
	// Schedule records the next wakeup for entry.ID, replacing any
	// previously scheduled phase and due time.
	Schedule(ctx context.Context, entry models.TimerEntry) error
	// Next returns the pending entry for id, or ErrNotFound.
	Next(ctx context.Context, id string) (models.TimerEntry, error)
	// Remove drops the pending entry for id, if any.
	Remove(ctx context.Context, id string) error
	// Due returns every entry whose due time is at or before now.
	Due(ctx context.Context, now time.Time) ([]models.TimerEntry, error)
	Close() error
}
