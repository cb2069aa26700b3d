package reactor

import (
	"errors"
	"time"
)

// The two completion-retrieval strategies. A loop picks one at
// construction, batch when the platform's batch-dequeue primitive
// resolved during bootstrap (and batching wasn't disabled via
// WithBatchPolling), and never reselects. Both share a contract: append
// whatever was dequeued to the pending-request queue, absorb a plain wait
// timeout, and escalate any other substrate failure as fatal.

// pollSingle blocks for at most the computed timeout waiting for one
// completion.
func (l *Loop) pollSingle(block bool) {
	req, err := l.port.dequeue(l.pollTimeout(block))
	if err != nil {
		if errors.Is(err, errPollTimeout) {
			return
		}
		l.fatal(opDequeue, err)
		return
	}
	l.pending.Add(req)
}

// pollBatch retrieves up to pollBatchSize completions per substrate call,
// appending each in the order returned.
func (l *Loop) pollBatch(block bool) {
	n, err := l.port.dequeueBatch(l.batch[:], l.pollTimeout(block))
	if err != nil {
		if errors.Is(err, errPollTimeout) {
			return
		}
		l.fatal(opDequeueBatch, err)
		return
	}
	for i := 0; i < n; i++ {
		l.pending.Add(l.batch[i])
		l.batch[i] = nil
	}
}

// pollTimeout computes how long the poll may suspend, in milliseconds:
// zero in must-not-block mode regardless of timers; otherwise the time
// until the nearest timer deadline: zero when one is already due, -1
// (infinite) when no timers are registered. Deadlines are measured against
// the tick's clock snapshot, never re-sampled.
func (l *Loop) pollTimeout(block bool) int {
	if !block {
		return 0
	}
	when, ok := l.timers.Earliest()
	if !ok {
		return -1
	}
	d := when.Sub(l.now)
	if d <= 0 {
		return 0
	}
	// Ceiling rounding: a sub-millisecond wait must not truncate to a
	// non-blocking poll.
	if d < time.Millisecond {
		return 1
	}
	return int(d / time.Millisecond)
}
