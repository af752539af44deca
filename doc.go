/*
Package leftright implements a concurrency primitive for wait-free reads
over a single-writer, mutable data structure.

The primitive keeps two copies of a caller-supplied value, one accessed
by readers and one accessed by the (single) writer. Readers never block
and never take a lock on the read path; the writer pays the cost of
applying each operation twice and of waiting for in-flight readers to
quiesce before each publish.

# How it works

A WriteHandle owns both copies plus an operational log ("oplog") of
operations appended since the last Publish. Readers go through a
ReadHandle, which holds an atomic pointer to the currently-published
copy and a private epoch counter. Entering a read increments the
counter to odd, loads the published pointer, and hands back a Guard;
releasing the Guard increments the counter back to even. The writer
never touches the published copy directly - it mutates the other copy,
then atomically swaps the pointer on Publish, then waits until every
reader's epoch has either gone even or moved past the value it had at
swap time, which proves the reader is no longer holding the pre-swap
pointer. Only then does it replay the oplog onto what is now the stale
copy.

# Usage

Callers implement Op, describing how one operation mutates one copy of
T:

	type intBox struct{ v int }

	func (b intBox) Clone() intBox { return b }

	type addOp int

	func (op addOp) ApplyFirst(target, other *intBox, aux *struct{})  { target.v += int(op) }
	func (op addOp) ApplySecond(other, target *intBox, aux *struct{}) { target.v += int(op) }

and construct a WriteHandle over an initial, clone-capable value:

	w := leftright.New[intBox, struct{}, addOp](intBox{0}, struct{}{})
	w.Append(addOp(1))
	w.Publish()
	g, _ := w.Enter()
	defer g.Close()
	fmt.Println(g.Value().v) // 1

# Trade-offs

This is not free concurrency: the two copies double memory use, writes
are slower than writing directly to the backing structure (each
operation is logged and applied twice), only one writer is supported at
a time (serialize additional writers yourself, e.g. with a sync.Mutex),
and a reader that never releases its Guard stalls every future Publish
on that WriteHandle.
*/
package leftright
