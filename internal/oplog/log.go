// Package oplog implements the ordered queue of not-yet-fully-applied
// operations that a left-right WriteHandle replays against its stale
// copy on each publish.
//
// Log is not thread-safe; the WriteHandle is responsible for
// serializing all access to it (writes are already single-writer by
// contract).
package oplog

import "github.com/flowlabs-go/leftright/internal/apply"

// Log holds operations in the order they were appended. swapIndex (the
// boundary between "already first-applied to the current write copy"
// and "not yet applied to either copy") lives on the WriteHandle, not
// here: Log only knows how to grow, drain a prefix, and expose the
// pending suffix.
type Log[T any, A any, O apply.Op[T, A]] struct {
	entries []O
}

// New returns an empty log.
func New[T any, A any, O apply.Op[T, A]]() *Log[T, A, O] {
	return &Log[T, A, O]{}
}

// Push appends a single operation.
func (l *Log[T, A, O]) Push(op O) {
	l.entries = append(l.entries, op)
}

// Extend appends every operation in ops, in order.
func (l *Log[T, A, O]) Extend(ops []O) {
	l.entries = append(l.entries, ops...)
}

// Len returns the number of entries currently queued.
func (l *Log[T, A, O]) Len() int {
	return len(l.entries)
}

// Pending returns the suffix of entries starting at swapIndex, i.e.
// the operations that have not yet been applied to either copy.
func (l *Log[T, A, O]) Pending(swapIndex int) []O {
	return l.entries[swapIndex:]
}

// Drain removes and returns the first n entries, preserving the order
// of the remaining entries. Drain does not apply anything: the caller
// is responsible for second-applying the returned entries.
func (l *Log[T, A, O]) Drain(n int) []O {
	if n == 0 {
		return nil
	}
	drained := append([]O(nil), l.entries[:n]...)
	remaining := len(l.entries) - n
	copy(l.entries, l.entries[n:])
	l.entries = l.entries[:remaining]
	return drained
}
