// Package reactor provides a single-threaded, completion-driven event loop:
// the engine beneath higher-level asynchronous I/O primitives (sockets,
// files, timers, process handles), without implementing any of them.
//
// # Architecture
//
// Each [Loop] owns a completion port, a pending-request queue, an endgame
// (deferred teardown) queue, a timer store, and three callback phase sets
// (idle, prepare, check). One tick of the loop is a fixed phase sequence:
//
//  1. Refresh the monotonic clock snapshot.
//  2. Expire timers due at or before the snapshot.
//  3. Run idle callbacks, but only when there are no pending requests and
//     no endgame handles (idle work never delays real work).
//  4. Drain and dispatch the pending-request queue.
//  5. Drain and dispatch the endgame queue.
//  6. Stop if the reference count has reached zero.
//  7. Run prepare callbacks (immediately before the poll).
//  8. Poll the completion port, blocking only when the loop is otherwise
//     completely idle.
//  9. Run check callbacks (immediately after the poll).
//
// [Loop.RunOnce] executes the sequence once; [Loop.Run] repeats it until
// the reference count reaches zero.
//
// # Keep-alive references
//
// A loop keeps running while its reference count is positive. [Loop.Ref]
// and [Loop.Unref] are the only termination mechanism; callers are
// responsible for balancing them. A loop with no references returns from
// [Loop.Run] immediately, without touching the completion port.
//
// # Completion polling
//
// Completions are retrieved either one at a time or in batches of up to
// 128, depending on whether the platform's batch-dequeue primitive is
// available. The strategy is chosen once, at loop construction. On Windows
// the port is a real I/O completion port; elsewhere it is an in-process
// port with identical semantics.
//
// # Thread Safety
//
// A Loop is single-threaded: all phase processing and every
// registered callback run on the goroutine driving the loop, and there is
// no intra-loop locking. The completion port is the one cross-goroutine
// edge: [Loop.Post] may be called from any goroutine. Independent loops
// may be driven concurrently by different goroutines. The process-wide
// default loop ([Default]) is created exactly once behind a race-safe
// guard.
//
// # Failure model
//
// A completion wait that merely times out is not an error. Everything else
// that goes wrong with the completion substrate (port creation failure,
// any other dequeue failure) is unrecoverable: the configured fatal
// reporter runs and, by default, terminates the process with the failing
// operation's name and OS error code. There is no retry and no partial
// degradation.
package reactor
