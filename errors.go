package reactor

import (
	"errors"
)

// Standard errors.
var (
	// ErrReentrantRun is returned when Run or RunOnce is called from a
	// callback executing on the same loop. Driving a loop reentrantly is a
	// precondition violation; the call is rejected without running a tick.
	ErrReentrantRun = errors.New("reactor: cannot drive a loop from one of its own callbacks")

	// ErrLoopAlreadyRunning is returned when Run or RunOnce is called while
	// another goroutine is already driving the loop.
	ErrLoopAlreadyRunning = errors.New("reactor: loop is already running")

	// ErrLoopDestroyed is returned when operations are attempted on a loop
	// whose resources have been released via Destroy.
	ErrLoopDestroyed = errors.New("reactor: loop has been destroyed")

	// ErrPortClosed is returned by Post when the loop's completion port has
	// been closed.
	ErrPortClosed = errors.New("reactor: completion port closed")

	// ErrTimerStoreUnsupported is returned by ScheduleTimer when the loop
	// was configured with a timer store that does not implement
	// TimerScheduler.
	ErrTimerStoreUnsupported = errors.New("reactor: timer store does not support scheduling")
)

// errPollTimeout is the absorbed tier: a completion wait that ran out of
// time with nothing ready. It is the expected shape of a poll with no work
// and never escalates.
var errPollTimeout = errors.New("reactor: completion wait timed out")
