package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"vanish.share/internal/models"
)

var errClosed = errors.New("memory store is closed")

// Compile-time interface checks
var (
	_ RecordStore   = (*MemoryStore)(nil)
	_ TimerRegistry = (*MemoryStore)(nil)
)

// MemoryStore keeps records and the timer schedule in process memory. Records
// are deep-copied on the way in and out so callers never alias map-internal
// state.
type MemoryStore struct {
	mu      sync.RWMutex
	closed  bool
	records map[string]*models.Record
	timers  map[string]models.TimerEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*models.Record),
		timers:  make(map[string]models.TimerEntry),
	}
}

func (s *MemoryStore) Create(ctx context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed
	}
	if _, ok := s.records[rec.ID]; ok {
		return ErrConflict
	}
	s.records[rec.ID] = rec.Clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errClosed
	}
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed
	}
	if _, ok := s.records[rec.ID]; !ok {
		return ErrNotFound
	}
	s.records[rec.ID] = rec.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed
	}
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Schedule(ctx context.Context, entry models.TimerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed
	}
	s.timers[entry.ID] = entry
	return nil
}

func (s *MemoryStore) Next(ctx context.Context, id string) (models.TimerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return models.TimerEntry{}, errClosed
	}
	entry, ok := s.timers[id]
	if !ok {
		return models.TimerEntry{}, ErrNotFound
	}
	return entry, nil
}

func (s *MemoryStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed
	}
	delete(s.timers, id)
	return nil
}

func (s *MemoryStore) Due(ctx context.Context, now time.Time) ([]models.TimerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errClosed
	}
	var due []models.TimerEntry
	for _, entry := range s.timers {
		if !entry.DueAt.After(now) {
			due = append(due, entry)
		}
	}
	return due, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.records = nil
	s.timers = nil
	return nil
}
