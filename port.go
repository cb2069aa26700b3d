// Completion port: the substrate this reactor multiplexes. Collaborators
// submit finished asynchronous operations into the port from any
// goroutine; the loop's poll phase retrieves them, singly or in batches,
// and queues them for dispatch.
//
// The concrete port differs by platform:
//   - Windows: a real I/O completion port (port_windows.go)
//   - everywhere else: an in-process port with identical semantics
//     (port_default.go)
//
// Both expose the same surface: post, dequeue with a millisecond timeout
// (0 = never block, -1 = block indefinitely), batch dequeue, and close. A
// dequeue that runs out of time reports errPollTimeout; every other
// failure is escalated by the caller as unrecoverable.

package reactor

// pollBatchSize is the fixed capacity of one batch retrieval. Batching
// amortizes the substrate call under high completion volume; it is an
// optimization only, with no ordering guarantee across batches.
const pollBatchSize = 128
