package leftright

import (
	"sync/atomic"

	"github.com/flowlabs-go/leftright/internal/epoch"
)

// core is the state shared between every ReadHandle clone and the
// WriteHandle: the published pointer readers consult, and the epoch
// registry that tracks which readers are currently in a guarded read.
type core[T any] struct {
	published atomic.Pointer[T]
	registry  *epoch.Registry
}

// ReadHandle grants wait-free access to the copy of T most recently
// exposed by a call to WriteHandle.Publish. A ReadHandle is cheap to
// Clone and may be handed to another goroutine, but it is not safe for
// concurrent use: it has a single epoch counter, so at most one Guard
// from it may be live at a time. Each Clone (not each goroutine) owns
// its own epoch slot - see Clone.
type ReadHandle[T any] struct {
	core   *core[T]
	slot   int
	epoch  *atomic.Uint64
	closed bool
}

// newReadHandle registers a fresh epoch slot against c and returns a
// handle for it.
func newReadHandle[T any](c *core[T]) *ReadHandle[T] {
	slot, counter := c.registry.Register()
	return &ReadHandle[T]{core: c, slot: slot, epoch: counter}
}

// Enter begins a guarded read. It returns false if the WriteHandle this
// reader belongs to has been taken or closed, in which case there is no
// published copy left to read.
//
// Enter is wait-free: a bounded, constant number of atomic operations,
// none of which involve the registry mutex. The returned Guard must be
// closed (by calling Guard.Close) before the next call to Enter on this
// same ReadHandle, and promptly, since a live Guard blocks the writer's
// next Publish.
func (r *ReadHandle[T]) Enter() (*Guard[T], bool) {
	if r.closed {
		return nil, false
	}
	// Odd parity says "inside a read". Go's atomic package gives
	// sequentially consistent ordering for both this increment and the
	// subsequent load, which is strictly stronger than the
	// release-then-acquire pairing the algorithm requires.
	r.epoch.Add(1)
	p := r.core.published.Load()
	if p == nil {
		// Roll back to even: we were never really "inside" a read
		// against live data.
		r.epoch.Add(1)
		return nil, false
	}
	return &Guard[T]{value: p, release: func() { r.epoch.Add(1) }}, true
}

// Clone returns an independent ReadHandle sharing the same published
// data, but with its own epoch slot: reader multiplicity in this
// implementation is per-handle, not per-goroutine, so every Clone
// should eventually have Close called on it.
func (r *ReadHandle[T]) Clone() *ReadHandle[T] {
	return newReadHandle(r.core)
}

// Factory returns a sendable snapshot of this ReadHandle's shared state,
// capable of minting fresh ReadHandles on other goroutines without
// routing through an existing handle.
func (r *ReadHandle[T]) Factory() ReadHandleFactory[T] {
	return ReadHandleFactory[T]{core: r.core}
}

// Close deregisters this handle's epoch slot. Go has no destructors, so
// Close is the explicit substitute for what the underlying algorithm
// calls "freeing the slot on reader drop" - call it once you are done
// with this ReadHandle. Using the handle afterwards is a programmer
// error.
func (r *ReadHandle[T]) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.core.registry.Deregister(r.slot)
}

// ReadHandleFactory is a sendable snapshot of a ReadHandle's shared
// state. Unlike ReadHandle itself, it holds no epoch slot, so it is
// free to copy and send across goroutines; call NewHandle on the
// goroutine that will actually perform reads.
type ReadHandleFactory[T any] struct {
	core *core[T]
}

// NewHandle registers a new epoch slot and returns a ReadHandle for it.
func (f ReadHandleFactory[T]) NewHandle() *ReadHandle[T] {
	return newReadHandle(f.core)
}

// Guard grants shared access to the copy of T observed by a successful
// Enter. It must be released exactly once via Close.
type Guard[T any] struct {
	value   *T
	release func()
	closed  bool
}

// Value returns the guarded value. The pointer is only valid until
// Close is called.
func (g *Guard[T]) Value() *T {
	return g.value
}

// Close releases the read epoch this guard was holding, allowing the
// writer's next Publish to make progress past it. Closing an
// already-closed Guard panics: there is no legitimate reason to do so,
// and silently ignoring it would mask a double-release bug in the
// caller.
func (g *Guard[T]) Close() {
	if g.closed {
		panic("leftright: guard closed twice")
	}
	g.closed = true
	g.release()
}

// MapGuard projects g into a sub-reference of U, without extending the
// read region: closing the returned Guard releases the same epoch as
// closing g would have. g must not be used (including via Close) after
// calling MapGuard; ownership of the release transfers to the result.
//
// Go methods cannot introduce new type parameters, so this is a
// package-level function rather than a Guard method.
func MapGuard[T, U any](g *Guard[T], fn func(*T) *U) *Guard[U] {
	mapped := &Guard[U]{value: fn(g.value), release: g.release}
	g.closed = true // ownership of release moved to mapped
	return mapped
}

// TryMapGuard is MapGuard for projections that may fail. If fn returns
// false, g is released immediately and TryMapGuard returns false; the
// caller must not use g afterwards either way.
func TryMapGuard[T, U any](g *Guard[T], fn func(*T) (*U, bool)) (*Guard[U], bool) {
	v, ok := fn(g.value)
	if !ok {
		g.Close()
		return nil, false
	}
	mapped := &Guard[U]{value: v, release: g.release}
	g.closed = true
	return mapped, true
}
