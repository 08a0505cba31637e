// Package vault implements the one-time secret store: per-identifier
// single-writer actors over durable record and timer storage, with a
// two-phase timer lifecycle. A secret is readable at most once; the burn
// happens atomically with the successful read, and timers first expire an
// unread secret and later delete the record entirely.
package vault

import (
	"context"
	"errors"
	"time"

	"vanish.share/internal/models"
	"vanish.share/internal/store"
	"vanish.share/internal/token"
)

// ErrMalformedID is returned when an identifier fails the canonical-form
// re-check. Primary format validation belongs to the caller.
var ErrMalformedID = errors.New("malformed identifier")

// Snapshot is what the one successful Retrieve gets back: the payload and
// the metadata captured in the same step that burned the record.
type Snapshot struct {
	Payload   []byte
	Auxiliary []byte
	Protected bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// StatusInfo is the Status view of a record. For an identifier with no
// record (never created, or already purged) Status is StatusUnknown and
// every other field is zero; the two cases are indistinguishable.
type StatusInfo struct {
	Status     models.Status
	CreatedAt  time.Time
	ExpiresAt  time.Time
	ViewedAt   *time.Time
	ViewerHint string
}

// Vault is the storage core. All operations on one identifier are totally
// ordered by that identifier's actor; operations on different identifiers
// run in parallel.
type Vault struct {
	records   store.RecordStore
	timers    store.TimerRegistry
	dir       *directory
	retention time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

func New(records store.RecordStore, timers store.TimerRegistry, retention time.Duration) *Vault {
	return &Vault{
		records:   records,
		timers:    timers,
		dir:       newDirectory(),
		retention: retention,
		now:       time.Now,
	}
}

// Store creates the record for id with the given ttl. The candidate record's
// payload, auxiliary, protected flag and creator reference are taken as
// supplied; timestamps and status are set here. Returns store.ErrConflict if
// the identifier already holds a record of any status.
func (v *Vault) Store(ctx context.Context, id string, rec *models.Record, ttl time.Duration) error {
	if !token.Valid(id) {
		return ErrMalformedID
	}
	e := v.dir.acquire(id, v)
	defer v.dir.release(id)
	e.claim.Lock()
	defer e.claim.Unlock()

	if err := e.actor.applyDue(ctx); err != nil {
		return err
	}
	return e.actor.store(ctx, rec, ttl)
}

// Retrieve returns the payload for id exactly once. Of any number of
// concurrent calls, one observes the pending record and gets the snapshot;
// all others get store.ErrNotFound, the same error an absent identifier
// produces. The burn is committed before Retrieve returns, so caller-side
// cancellation never rolls it back.
func (v *Vault) Retrieve(ctx context.Context, id string, viewerHint string) (*Snapshot, error) {
	if !token.Valid(id) {
		return nil, store.ErrNotFound
	}
	e := v.dir.acquire(id, v)
	defer v.dir.release(id)
	e.claim.Lock()
	defer e.claim.Unlock()

	if err := e.actor.applyDue(ctx); err != nil {
		return nil, err
	}
	return e.actor.retrieve(ctx, viewerHint)
}

// Status reports the current state of id without mutating it. Unknown for
// anything without a record.
func (v *Vault) Status(ctx context.Context, id string) (StatusInfo, error) {
	if !token.Valid(id) {
		return StatusInfo{Status: models.StatusUnknown}, nil
	}
	e := v.dir.acquire(id, v)
	defer v.dir.release(id)
	e.claim.Lock()
	defer e.claim.Unlock()

	if err := e.actor.applyDue(ctx); err != nil {
		return StatusInfo{}, err
	}
	return e.actor.status(ctx)
}

// deliver runs any due timer work for id under its actor claim. Used by the
// sweeper; a timer replaced since the sweep query is simply no longer due.
func (v *Vault) deliver(ctx context.Context, id string) error {
	e := v.dir.acquire(id, v)
	defer v.dir.release(id)
	e.claim.Lock()
	defer e.claim.Unlock()

	return e.actor.applyDue(ctx)
}
