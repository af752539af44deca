// Package ops provides small, ready-made leftright.Op implementations
// for callers who don't want to hand-write a type per mutation.
package ops

// FuncOp adapts a plain mutator function into an Op. fn is invoked once
// per copy of T, exactly as any other Op's ApplyFirst/ApplySecond would
// be, so it must be deterministic: no hashing order, timestamps, or
// randomness.
type FuncOp[T any, A any] func(target *T, aux *A)

// ApplyFirst invokes the wrapped function against target.
func (f FuncOp[T, A]) ApplyFirst(target, other *T, aux *A) { f(target, aux) }

// ApplySecond invokes the wrapped function against target, identically
// to ApplyFirst.
func (f FuncOp[T, A]) ApplySecond(other, target *T, aux *A) { f(target, aux) }

// ReplaceOp replaces the entire guarded value with Value. Useful when T
// is small enough that logging a whole new copy is cheaper than a
// bespoke diff-shaped Op.
type ReplaceOp[T any, A any] struct {
	Value T
}

// ApplyFirst overwrites target with op.Value.
func (op ReplaceOp[T, A]) ApplyFirst(target, other *T, aux *A) { *target = op.Value }

// ApplySecond overwrites target with op.Value, identically to
// ApplyFirst.
func (op ReplaceOp[T, A]) ApplySecond(other, target *T, aux *A) { *target = op.Value }
