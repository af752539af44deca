// Package testutil provides the small cloneable counter type and
// addition Op used across this module's test suites, mirroring the
// CounterAddOp fixture the primitive this package implements uses in
// its own tests.
package testutil

// Counter is a trivially clone-capable int wrapper, satisfying
// leftright.Cloner.
type Counter struct {
	V int
}

// Clone returns an independent copy of c.
func (c Counter) Clone() Counter { return c }

// AddOp adds a fixed amount to a Counter. It applies identically to
// both copies, so ApplySecond just re-invokes ApplyFirst.
type AddOp int

// ApplyFirst adds op to target.
func (op AddOp) ApplyFirst(target, other *Counter, aux *struct{}) {
	target.V += int(op)
}

// ApplySecond adds op to target, identically to ApplyFirst.
func (op AddOp) ApplySecond(other, target *Counter, aux *struct{}) {
	target.V += int(op)
}
