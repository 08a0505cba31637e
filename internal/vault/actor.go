package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vanish.share/internal/models"
	"vanish.share/internal/store"
)

// actor is the single-writer execution unit for one identifier. All reads
// and writes of that identifier's record and timer go through its mutex, so
// operations are applied one at a time in arrival order. The actor itself
// holds no record state between operations; it reloads from the store each
// time, which lets the directory discard idle actors freely.
type actor struct {
	id    string
	vault *Vault
}

// applyDue delivers every overdue timer phase before the caller's operation
// runs. This is the pull half of the sweeper design: even if the background
// sweep is late, no operation observes state that is stale relative to
// elapsed time. The loop handles a long-missed phase 1 whose follow-up
// phase 2 is itself already due.
//
// Caller must hold the actor's claim.
func (a *actor) applyDue(ctx context.Context) error {
	for {
		entry, err := a.vault.timers.Next(ctx, a.id)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading timer for %s: %w", a.id, err)
		}
		if entry.DueAt.After(a.vault.now()) {
			return nil
		}
		if err := a.fire(ctx, entry); err != nil {
			return err
		}
	}
}

// fire applies one timer phase. Phase 1 burns a still-pending record to
// expired and is a no-op on anything already burned; it always leaves a
// phase-2 timer behind, anchored at the phase-1 due time so that a late
// delivery does not extend the retention window. Phase 2 deletes the record
// outright, from viewed or expired alike.
func (a *actor) fire(ctx context.Context, entry models.TimerEntry) error {
	switch entry.Phase {
	case models.PhaseExpire:
		rec, err := a.vault.records.Get(ctx, a.id)
		if errors.Is(err, store.ErrNotFound) {
			// Record gone but timer left behind; drop the timer.
			return a.vault.timers.Remove(ctx, a.id)
		}
		if err != nil {
			return fmt.Errorf("loading record %s: %w", a.id, err)
		}
		if rec.Status == models.StatusPending {
			rec.Payload = nil
			rec.Auxiliary = nil
			rec.Status = models.StatusExpired
			if err := a.vault.records.Update(ctx, rec); err != nil {
				return fmt.Errorf("expiring record %s: %w", a.id, err)
			}
		}
		return a.vault.timers.Schedule(ctx, models.TimerEntry{
			ID:    a.id,
			Phase: models.PhasePurge,
			DueAt: entry.DueAt.Add(a.vault.retention),
		})

	case models.PhasePurge:
		if err := a.vault.records.Delete(ctx, a.id); err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("purging record %s: %w", a.id, err)
		}
		return a.vault.timers.Remove(ctx, a.id)

	default:
		return fmt.Errorf("unknown timer phase %d for %s", entry.Phase, a.id)
	}
}

// store creates the record if the identifier is free. An existing record of
// any status means conflict and nothing is touched.
func (a *actor) store(ctx context.Context, rec *models.Record, ttl time.Duration) error {
	if _, err := a.vault.records.Get(ctx, a.id); err == nil {
		return store.ErrConflict
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("loading record %s: %w", a.id, err)
	}

	now := a.vault.now()
	rec.ID = a.id
	rec.Status = models.StatusPending
	rec.CreatedAt = now
	rec.ExpiresAt = now.Add(ttl)
	rec.ViewedAt = nil
	rec.ViewerHint = ""

	if err := a.vault.records.Create(ctx, rec); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return store.ErrConflict
		}
		return fmt.Errorf("creating record %s: %w", a.id, err)
	}
	if err := a.vault.timers.Schedule(ctx, models.TimerEntry{
		ID:    a.id,
		Phase: models.PhaseExpire,
		DueAt: rec.ExpiresAt,
	}); err != nil {
		// A failed Store must leave no partial state: without the timer the
		// record would never expire, and a retry would hit ErrConflict.
		_ = a.vault.records.Delete(ctx, a.id)
		return fmt.Errorf("scheduling expiry for %s: %w", a.id, err)
	}
	return nil
}

// retrieve burns the record and returns the pre-burn snapshot. Absent and
// already-burned records get the same ErrNotFound: responses never reveal
// which case applies. The burn commits before the snapshot is returned, so
// a caller that disconnects mid-response still consumed its one read.
func (a *actor) retrieve(ctx context.Context, viewerHint string) (*Snapshot, error) {
	rec, err := a.vault.records.Get(ctx, a.id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading record %s: %w", a.id, err)
	}
	// The deadline check backs up the timers: a pending record whose timer
	// entry was lost is still never served past its TTL.
	if rec.Status != models.StatusPending || !a.vault.now().Before(rec.ExpiresAt) {
		return nil, store.ErrNotFound
	}

	snap := &Snapshot{
		Payload:   rec.Payload,
		Auxiliary: rec.Auxiliary,
		Protected: rec.Protected,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}

	now := a.vault.now()
	rec.Payload = nil
	rec.Auxiliary = nil
	rec.Status = models.StatusViewed
	rec.ViewedAt = &now
	rec.ViewerHint = viewerHint

	if err := a.vault.records.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("burning record %s: %w", a.id, err)
	}
	// Replaces the phase-1 timer: one schedule slot per identifier.
	if err := a.vault.timers.Schedule(ctx, models.TimerEntry{
		ID:    a.id,
		Phase: models.PhasePurge,
		DueAt: now.Add(a.vault.retention),
	}); err != nil {
		return nil, fmt.Errorf("scheduling purge for %s: %w", a.id, err)
	}
	return snap, nil
}

// status reads current state without mutating anything.
func (a *actor) status(ctx context.Context) (StatusInfo, error) {
	rec, err := a.vault.records.Get(ctx, a.id)
	if errors.Is(err, store.ErrNotFound) {
		return StatusInfo{Status: models.StatusUnknown}, nil
	}
	if err != nil {
		return StatusInfo{}, fmt.Errorf("loading record %s: %w", a.id, err)
	}
	return StatusInfo{
		Status:     rec.Status,
		CreatedAt:  rec.CreatedAt,
		ExpiresAt:  rec.ExpiresAt,
		ViewedAt:   rec.ViewedAt,
		ViewerHint: rec.ViewerHint,
	}, nil
}
