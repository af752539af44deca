package leftright

import "github.com/flowlabs-go/leftright/internal/apply"

// Op is implemented by the caller to describe how one operation mutates
// one copy of T. See internal/apply for the full contract; Op embeds
// it with the same method set, so callers only need to import the root
// package.
type Op[T any, A any] interface {
	apply.Op[T, A]
}

// IdempotentApply implements ApplySecond by calling ApplyFirst.
// Appropriate for Op implementations that apply identically to both
// copies of T.
func IdempotentApply[T any, A any](op Op[T, A], other, target *T, aux *A) {
	apply.IdempotentApply[T, A](op, other, target, aux)
}

// Cloner is the constraint New requires of its initial value: it must
// be able to produce an independent second copy of itself.
type Cloner[T any] interface {
	Clone() T
}
