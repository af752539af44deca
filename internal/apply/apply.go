// Package apply defines the contract a caller must implement to describe
// how a single logged operation mutates one copy of a left-right guarded
// value.
package apply

// Op is implemented by the caller to describe how one operation mutates
// one copy of T, with an auxiliary side-value A available to both
// applications.
//
// Implementations must be deterministic: applying the same Op to two
// initially-equal copies of T, once via ApplyFirst and once via
// ApplySecond, must leave the two copies equal. Non-deterministic
// behavior (hashing order, timestamps, randomness) causes the two
// copies to silently diverge.
type Op[T any, A any] interface {
	// ApplyFirst applies the operation to target by mutable reference.
	// other is the second copy, one publish cycle behind. The receiver
	// must remain valid for a later ApplySecond call against the other
	// copy.
	ApplyFirst(target, other *T, aux *A)

	// ApplySecond applies the operation to target, the copy that has
	// not received it yet. other is the copy that received ApplyFirst
	// on the previous publish.
	//
	// ApplySecond must mutate target in exactly the way ApplyFirst
	// mutated the copy it was originally applied to, or the two copies
	// will drift apart.
	ApplySecond(other, target *T, aux *A)
}

// IdempotentApply calls op.ApplyFirst(target, other, aux). It is a
// convenience for Op implementations whose ApplySecond behaves
// identically to ApplyFirst, standing in for the default trait method
// left-right primitives in other languages provide.
func IdempotentApply[T any, A any](op Op[T, A], other, target *T, aux *A) {
	op.ApplyFirst(target, other, aux)
}
