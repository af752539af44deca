package leftright

import (
	"runtime"
	"sync/atomic"

	"github.com/flowlabs-go/leftright/internal/epoch"
	"github.com/flowlabs-go/leftright/internal/oplog"
)

// WriteHandle is the sole writer of a left-right guarded value. It owns
// both copies of T, the operational log, the auxiliary side-data, and
// the publish algorithm. A WriteHandle is not safe for concurrent use
// by multiple goroutines; serialize writers yourself (e.g. with a
// sync.Mutex) if more than one goroutine needs to write.
//
// WriteHandle embeds *ReadHandle[T], so the writer can also read the
// published (pre-Publish) state through the same handle, subject to the
// same visibility rule as any other reader.
type WriteHandle[T any, A any, O Op[T, A]] struct {
	*ReadHandle[T]

	core       *core[T]
	write      *T
	oplog      *oplog.Log[T, A, O]
	swapIndex  int
	lastEpochs []uint64
	auxiliary  A
}

// New constructs a WriteHandle over an initial value and auxiliary
// side-data. T must be clone-capable (see Cloner) so the second copy
// can be produced.
func New[T Cloner[T], A any, O Op[T, A]](initial T, auxiliary A) *WriteHandle[T, A, O] {
	c := &core[T]{registry: epoch.NewRegistry()}

	readCopy := initial
	c.published.Store(&readCopy)

	writeCopy := initial.Clone()

	return &WriteHandle[T, A, O]{
		ReadHandle: newReadHandle(c),
		core:       c,
		write:      &writeCopy,
		oplog:      oplog.New[T, A, O](),
		auxiliary:  auxiliary,
	}
}

// Append enqueues a single operation. Its effects are not exposed to
// readers until the next call to Publish.
func (w *WriteHandle[T, A, O]) Append(op O) *WriteHandle[T, A, O] {
	w.oplog.Push(op)
	return w
}

// Extend enqueues every operation in ops, in order. Its effects are not
// exposed to readers until the next call to Publish.
func (w *WriteHandle[T, A, O]) Extend(ops []O) *WriteHandle[T, A, O] {
	w.oplog.Extend(ops)
	return w
}

// HasPendingOperations reports whether any appended operation has not
// yet been exposed to readers via Publish.
func (w *WriteHandle[T, A, O]) HasPendingOperations() bool {
	return w.swapIndex < w.oplog.Len()
}

// Auxiliary returns the auxiliary side-data.
func (w *WriteHandle[T, A, O]) Auxiliary() *A {
	return &w.auxiliary
}

// AuxiliaryMut returns the auxiliary side-data for mutation. Go does
// not distinguish mutable from immutable references, so this returns
// the same pointer as Auxiliary; it exists to mirror the primitive's
// documented API surface.
func (w *WriteHandle[T, A, O]) AuxiliaryMut() *A {
	return &w.auxiliary
}

// Publish exposes every appended operation to readers.
//
// It waits for every reader that was inside a guard when the previous
// publish took its epoch snapshot (on the first call there are none) to
// leave that guard or start a new read, applies the pending operations to
// the write copy, atomically swaps the published pointer, and snapshots
// the new baseline of reader epochs for the next publish. A live read
// guard delays this call but never Append/Extend.
func (w *WriteHandle[T, A, O]) Publish() *WriteHandle[T, A, O] {
	reg := w.core.registry
	reg.Lock()
	defer reg.Unlock()

	w.wait(reg)

	// The readers have all either left or arrived after the previous
	// swap: it is now safe to mutate w.write and to read the currently
	// published copy without racing a reader.
	read := w.core.published.Load()

	// Operations at [0, swapIndex) were first-applied on the previous
	// publish to the copy that is now published (read); they are now
	// second-applied to w.write, which is about to be published, and
	// drained since both copies will agree on them from here on.
	if w.swapIndex != 0 {
		toSecond := w.oplog.Drain(w.swapIndex)
		for i := range toSecond {
			toSecond[i].ApplySecond(read, w.write, &w.auxiliary)
		}
		w.swapIndex = 0
	}

	// Everything remaining in the log has never been applied to
	// anything: first-apply it to w.write, which is about to become
	// the published copy.
	for _, op := range w.oplog.Pending(0) {
		op.ApplyFirst(w.write, read, &w.auxiliary)
	}
	w.swapIndex = w.oplog.Len()

	// w.write is now fully up to date. Swap it in; the pointer swap
	// makes every pending operation visible to readers atomically.
	old := w.core.published.Swap(w.write)
	w.write = old

	// Go's atomic package already provides the ordering a separate
	// sequentially-consistent fence would buy here: the Load calls
	// below cannot be reordered before the Swap above.
	reg.Iterate(func(slot int, counter *atomic.Uint64) {
		for slot >= len(w.lastEpochs) {
			w.lastEpochs = append(w.lastEpochs, 0)
		}
		w.lastEpochs[slot] = counter.Load()
	})

	return w
}

// Flush calls Publish only if HasPendingOperations returns true.
func (w *WriteHandle[T, A, O]) Flush() {
	if w.HasPendingOperations() {
		w.Publish()
	}
}

// Take publishes any pending operations, detaches the published copy
// from all readers (every live Enter call returns false from this
// point on, though pre-existing Guards remain valid until closed), and
// returns the up-to-date value.
func (w *WriteHandle[T, A, O]) Take() T {
	if w.HasPendingOperations() {
		w.Publish()
	}

	old := w.core.published.Swap(nil)

	reg := w.core.registry
	reg.Lock()
	// Re-snapshot so the wait covers every reader that may still hold
	// the pre-null pointer, not only those mid-read at the last Publish.
	reg.Iterate(func(slot int, counter *atomic.Uint64) {
		for slot >= len(w.lastEpochs) {
			w.lastEpochs = append(w.lastEpochs, 0)
		}
		w.lastEpochs[slot] = counter.Load()
	})
	w.wait(reg)
	reg.Unlock()

	w.write = nil
	w.ReadHandle.Close()
	return *old
}

// Close tears down the WriteHandle the same way Take does, minus
// returning the value: any pending operations are published, the
// published pointer is nulled so all live and future Enter calls fail,
// and the writer waits for any reader still holding the pre-null
// pointer to depart. Using the WriteHandle after Close is a programmer
// error.
func (w *WriteHandle[T, A, O]) Close() {
	if w.write == nil {
		return
	}
	if w.HasPendingOperations() {
		w.Publish()
	}

	w.core.published.Swap(nil)

	reg := w.core.registry
	reg.Lock()
	// Re-snapshot so the wait covers every reader that may still hold
	// the pre-null pointer, not only those mid-read at the last Publish.
	reg.Iterate(func(slot int, counter *atomic.Uint64) {
		for slot >= len(w.lastEpochs) {
			w.lastEpochs = append(w.lastEpochs, 0)
		}
		w.lastEpochs[slot] = counter.Load()
	})
	w.wait(reg)
	reg.Unlock()

	w.write = nil
	w.ReadHandle.Close()
}

// wait is the quiescence wait: it blocks until every reader whose epoch
// was odd at the time of the last snapshot (w.lastEpochs) has either
// gone even or moved past that snapshot value, proving it is no longer
// holding the pre-swap pointer. Callers must hold reg's mutex.
//
// It restarts from the index of the reader that blocked it rather than
// from the start of the registry on every retry, spins for the first
// 20 iterations, then cooperatively yields. Wrap-around of an epoch
// counter is benign since the counter's maximum value is odd (true of
// any power-of-two unsigned width), so overflowing it preserves parity.
func (w *WriteHandle[T, A, O]) wait(reg *epoch.Registry) {
	type reader struct {
		slot    int
		counter *atomic.Uint64
	}
	var readers []reader
	reg.Iterate(func(slot int, counter *atomic.Uint64) {
		readers = append(readers, reader{slot, counter})
	})

	spins := 0
	start := 0
	for {
		blockedAt := -1
		for i := start; i < len(readers); i++ {
			slot := readers[i].slot
			if slot >= len(w.lastEpochs) || w.lastEpochs[slot]%2 == 0 {
				// Either never observed (freshly registered, hence
				// after our last swap) or was not mid-read at
				// snapshot time: no barrier needed.
				continue
			}
			now := readers[i].counter.Load()
			if now != w.lastEpochs[slot] {
				// Reader has made forward progress since the
				// snapshot: it either left its old guard or entered
				// a new one, which by the swap-then-fence ordering
				// must have observed the new pointer.
				continue
			}
			blockedAt = i
			break
		}
		if blockedAt < 0 {
			return
		}
		start = blockedAt
		if spins < 20 {
			spins++
		} else {
			runtime.Gosched()
		}
	}
}
