package leftright

// This file documents, by convention, the concurrent-use contract Go
// cannot express at compile time (no Send/Sync bounds): which types may
// be shared across goroutines, and which operations on them still need
// external synchronization.
//
//   - ReadHandleFactory[T] is safe to copy and hand to any number of
//     goroutines; each should call NewHandle to mint its own handle.
//   - ReadHandle[T] (and each Clone of one) may be sent to another
//     goroutine, but is not safe for concurrent Enter/Close calls from
//     multiple goroutines: its single epoch counter admits only one
//     live Guard at a time. Give each goroutine its own Clone.
//   - Guard[T] must not be shared across goroutines: only the goroutine
//     that received it from Enter should read its Value or call Close.
//   - WriteHandle[T, A, O] is not safe for concurrent use by multiple
//     goroutines; only one goroutine may call Append/Extend/Publish/
//     Flush/Take/Close at a time. Serialize additional writers yourself
//     (e.g. with a sync.Mutex) if more than one goroutine needs to
//     write.
//
// TestReadHandleFactory_MintsHandlesOffGoroutine (read_test.go) and
// TestConcurrentReadersObserveMonotonicProgress (write_test.go) exercise
// the multi-goroutine read paths above under the race detector; there
// is nothing further to assert here beyond the contract itself.
