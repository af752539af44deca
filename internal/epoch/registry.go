// Package epoch implements the mutex-guarded registry of per-reader
// epoch counters (one registry per WriteHandle) that the left-right
// publish algorithm uses to detect when readers have quiesced against a
// stale copy.
//
// A reader's epoch counter has even parity while the reader holds no
// guard, and odd parity while a guard is live. The registry itself is
// only ever touched on reader-handle creation/destruction and by the
// writer during publish and teardown (Take/Close); it is never
// consulted on the reader read fast-path.
package epoch

import (
	"sync"
	"sync/atomic"
)

// Registry is a dense, stable-indexed, reusable-slot slab mapping slot
// indices to shared counters. It is safe for concurrent use; every
// method takes the registry's mutex except Iterate, which assumes the
// caller already holds it (see Lock/Unlock).
type Registry struct {
	mu    sync.Mutex
	slots []*atomic.Uint64
	free  []int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register allocates a fresh counter initialized to zero and returns
// its stable slot index. The slot remains valid until Deregister is
// called with it.
func (r *Registry) Register() (slot int, counter *atomic.Uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counter = &atomic.Uint64{}
	if n := len(r.free); n > 0 {
		slot = r.free[n-1]
		r.free = r.free[:n-1]
		r.slots[slot] = counter
		return slot, counter
	}
	slot = len(r.slots)
	r.slots = append(r.slots, counter)
	return slot, counter
}

// Deregister frees slot for reuse. It is idempotent: deregistering an
// already-free or out-of-range slot is a no-op.
func (r *Registry) Deregister(slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slot < 0 || slot >= len(r.slots) || r.slots[slot] == nil {
		return
	}
	r.slots[slot] = nil
	r.free = append(r.free, slot)
}

// Lock acquires the registry mutex. The writer holds it for the
// duration of a publish so that reader-handle lifecycle events cannot
// interleave with the quiescence wait in a way that invalidates slot
// indices mid-wait.
func (r *Registry) Lock() { r.mu.Lock() }

// Unlock releases the registry mutex.
func (r *Registry) Unlock() { r.mu.Unlock() }

// Iterate calls fn for every live (slot, counter) pair, in slot order.
// The caller must hold the registry mutex (via Lock) before calling
// Iterate; the writer is the only caller that does so.
func (r *Registry) Iterate(fn func(slot int, counter *atomic.Uint64)) {
	for slot, c := range r.slots {
		if c != nil {
			fn(slot, c)
		}
	}
}
