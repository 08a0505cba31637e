package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vanish.share/internal/models"
)

func TestMemoryStore_RecordContract(t *testing.T) {
	runRecordStoreContract(t, NewMemoryStore())
}

func TestMemoryStore_TimerContract(t *testing.T) {
	runTimerRegistryContract(t, NewMemoryStore())
}

func TestMemoryStore_OperationsAfterCloseError(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testRecord("closing-1")))
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Create(ctx, testRecord("closing-2")), errClosed)
	_, err := s.Get(ctx, "closing-1")
	assert.ErrorIs(t, err, errClosed)
	assert.ErrorIs(t, s.Update(ctx, testRecord("closing-1")), errClosed)
	assert.ErrorIs(t, s.Delete(ctx, "closing-1"), errClosed)

	assert.ErrorIs(t, s.Schedule(ctx, models.TimerEntry{ID: "closing-1"}), errClosed)
	_, err = s.Next(ctx, "closing-1")
	assert.ErrorIs(t, err, errClosed)
	assert.ErrorIs(t, s.Remove(ctx, "closing-1"), errClosed)
	_, err = s.Due(ctx, time.Now())
	assert.ErrorIs(t, err, errClosed)
}

func TestMemoryStore_NoAliasing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := testRecord("alias-1")
	require.NoError(t, s.Create(ctx, rec))

	// Mutating the caller's copy must not reach the stored record.
	rec.Payload[0] = 'X'
	rec.Status = models.StatusExpired

	got, err := s.Get(ctx, "alias-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload-alias-1"), got.Payload)
	assert.Equal(t, models.StatusPending, got.Status)

	// Same for the copy handed out by Get.
	got.Payload[0] = 'Y'
	again, err := s.Get(ctx, "alias-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload-alias-1"), again.Payload)
}
