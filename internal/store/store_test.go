package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vanish.share/internal/models"
)

// The two test entry points below run the port contract against a backend.
// Backend-specific tests live in their own files and call these.

func testRecord(id string) *models.Record {
	return &models.Record{
		ID:         id,
		Payload:    []byte("payload-" + id),
		Auxiliary:  []byte("aux-" + id),
		Protected:  true,
		CreatedAt:  time.Now().Truncate(time.Second).UTC(),
		ExpiresAt:  time.Now().Truncate(time.Second).UTC().Add(time.Hour),
		Status:     models.StatusPending,
		CreatorRef: "creator-1",
	}
}

func runRecordStoreContract(t *testing.T, s RecordStore) {
	t.Helper()
	ctx := context.Background()

	// Absent reads and writes
	_, err := s.Get(ctx, "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, testRecord("missing-id")), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "missing-id"), ErrNotFound)

	// Create then read back
	rec := testRecord("contract-1")
	require.NoError(t, s.Create(ctx, rec))

	got, err := s.Get(ctx, "contract-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Payload, got.Payload)
	assert.Equal(t, rec.Auxiliary, got.Auxiliary)
	assert.True(t, got.Protected)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, "creator-1", got.CreatorRef)

	// Create on an occupied slot is a conflict and changes nothing
	dup := testRecord("contract-1")
	dup.Payload = []byte("other")
	assert.ErrorIs(t, s.Create(ctx, dup), ErrConflict)
	got, err = s.Get(ctx, "contract-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Payload, got.Payload)

	// Update replaces the whole record, zero fields included
	viewedAt := time.Now().Truncate(time.Second).UTC()
	got.Payload = nil
	got.Auxiliary = nil
	got.Status = models.StatusViewed
	got.ViewedAt = &viewedAt
	got.ViewerHint = "somewhere"
	require.NoError(t, s.Update(ctx, got))

	got, err = s.Get(ctx, "contract-1")
	require.NoError(t, err)
	assert.Empty(t, got.Payload)
	assert.Empty(t, got.Auxiliary)
	assert.Equal(t, models.StatusViewed, got.Status)
	require.NotNil(t, got.ViewedAt)
	assert.Equal(t, viewedAt.Unix(), got.ViewedAt.Unix())
	assert.Equal(t, "somewhere", got.ViewerHint)

	// Delete frees the slot for reuse
	require.NoError(t, s.Delete(ctx, "contract-1"))
	_, err = s.Get(ctx, "contract-1")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Create(ctx, testRecord("contract-1")))
}

func runTimerRegistryContract(t *testing.T, reg TimerRegistry) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().Truncate(time.Second).UTC()

	_, err := reg.Next(ctx, "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, reg.Schedule(ctx, models.TimerEntry{
		ID: "timer-1", Phase: models.PhaseExpire, DueAt: now.Add(time.Hour),
	}))
	require.NoError(t, reg.Schedule(ctx, models.TimerEntry{
		ID: "timer-2", Phase: models.PhaseExpire, DueAt: now.Add(-time.Minute),
	}))

	entry, err := reg.Next(ctx, "timer-1")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseExpire, entry.Phase)
	assert.Equal(t, now.Add(time.Hour).Unix(), entry.DueAt.Unix())

	// Scheduling again replaces the slot, never adds a second entry
	require.NoError(t, reg.Schedule(ctx, models.TimerEntry{
		ID: "timer-1", Phase: models.PhasePurge, DueAt: now.Add(-time.Second),
	}))
	entry, err = reg.Next(ctx, "timer-1")
	require.NoError(t, err)
	assert.Equal(t, models.PhasePurge, entry.Phase)

	due, err := reg.Due(ctx, now)
	require.NoError(t, err)
	byID := map[string]models.TimerEntry{}
	for _, e := range due {
		byID[e.ID] = e
	}
	assert.Contains(t, byID, "timer-1")
	assert.Contains(t, byID, "timer-2")
	assert.Equal(t, models.PhasePurge, byID["timer-1"].Phase)

	// Future entries are not due
	require.NoError(t, reg.Schedule(ctx, models.TimerEntry{
		ID: "timer-3", Phase: models.PhaseExpire, DueAt: now.Add(time.Hour),
	}))
	due, err = reg.Due(ctx, now)
	require.NoError(t, err)
	for _, e := range due {
		assert.NotEqual(t, "timer-3", e.ID)
	}

	require.NoError(t, reg.Remove(ctx, "timer-1"))
	_, err = reg.Next(ctx, "timer-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Removing an absent entry is not an error
	assert.NoError(t, reg.Remove(ctx, "timer-1"))
}
