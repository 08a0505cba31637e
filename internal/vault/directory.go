package vault

import "sync"

// directory maps identifiers to live actors. An actor is created lazily on
// first reference and dropped from memory once the last in-flight operation
// releases it; the durable record is untouched by that. Refcounting is what
// guarantees at most one live actor, and therefore one claim mutex, per
// identifier at any instant.
type directory struct {
	mu      sync.Mutex
	entries map[string]*directoryEntry
}

type directoryEntry struct {
	claim sync.Mutex
	actor *actor
	refs  int
}

func newDirectory() *directory {
	return &directory{entries: make(map[string]*directoryEntry)}
}

// acquire resolves id to its entry, creating an idle actor on first
// reference. Every acquire must be paired with a release.
func (d *directory) acquire(id string, v *Vault) *directoryEntry {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.entries[id]
	if !ok {
		e = &directoryEntry{actor: &actor{id: id, vault: v}}
		d.entries[id] = e
	}
	e.refs++
	return e
}

func (d *directory) release(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.entries[id]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(d.entries, id)
	}
}

// live reports how many actors are currently resident.
func (d *directory) live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
