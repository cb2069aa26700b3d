package reactor

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
)

// Loop is a single-threaded, completion-driven event loop. It owns a
// completion port, a pending-request queue, an endgame queue, a timer
// store, and the idle/prepare/check phase sets, and it keeps running while
// its reference count is positive.
//
// Except where noted ([Loop.Post], and construction/Default), every method
// must be called on the goroutine driving the loop. Independent Loop
// instances share no state and may be driven concurrently by different
// goroutines.
type Loop struct {
	// Prevent copying
	_ [0]func()

	id uint64

	// Completion substrate; exclusive to this loop, created at
	// construction, closed by Destroy.
	port *completionPort

	// poll is the retrieval strategy, selected once at construction.
	poll func(block bool)

	// batch is the batch strategy's reuse buffer.
	batch [pollBatchSize]*Request

	// refs is the keep-alive count. Signed: callers own the balance, and
	// the continuous run entry point terminates only at exactly zero.
	refs int

	pending  *queue.Queue // FIFO of *Request, dequeued but not dispatched
	endgames *queue.Queue // FIFO of *Handle scheduled for teardown

	timers TimerStore
	clock  func() time.Time
	now    time.Time // snapshot, refreshed exactly once per tick

	idle    phaseSet
	prepare phaseSet
	check   phaseSet

	lastErr error

	logger        *Logger
	fatalReporter FatalReporter

	tickCount uint64

	// driver is the id of the goroutine currently driving the loop, zero
	// when idle. Used to reject reentrant and concurrent Run calls.
	driver atomic.Uint64

	destroyed bool
}

var loopIDCounter atomic.Uint64

// New creates an independent loop, running the process-wide bootstrap
// first if needed. Construction failure (the completion port cannot be
// created) is fatal through the fatal reporter, not a recoverable error:
// the reactor cannot exist without its substrate.
func New(opts ...LoopOption) *Loop {
	initLibrary()
	cfg, err := resolveLoopOptions(opts)
	if err != nil {
		reportFatal(getPackageLogger(), `options`, err)
		return nil
	}
	return newLoop(cfg)
}

func newLoop(cfg *loopOptions) *Loop {
	l := &Loop{
		id:            loopIDCounter.Add(1),
		pending:       queue.New(),
		endgames:      queue.New(),
		timers:        cfg.timers,
		clock:         cfg.clock,
		logger:        cfg.logger,
		fatalReporter: cfg.fatalReporter,
	}
	l.idle = phaseSet{loop: l, name: `idle`}
	l.prepare = phaseSet{loop: l, name: `prepare`}
	l.check = phaseSet{loop: l, name: `check`}

	port, err := newCompletionPort()
	if err != nil {
		l.fatal(opCreatePort, err)
		return nil
	}
	l.port = port

	useBatch := port.batchCapable()
	if cfg.batchPolling != nil && !*cfg.batchPolling {
		useBatch = false
	}
	if useBatch {
		l.poll = l.pollBatch
	} else {
		l.poll = l.pollSingle
	}

	l.now = l.clock()

	l.logger.Debug().
		Uint64(`loop`, l.id).
		Bool(`batch`, useBatch).
		Log(`reactor: loop created`)

	return l
}

// Destroy releases the loop's resources. Destroying the default loop is a
// deliberate no-op; process-wide code may hold that handle indefinitely.
// Destroy must not be called while the loop is running.
func (l *Loop) Destroy() {
	if l == defaultLoop.Load() {
		return
	}
	if l.destroyed {
		return
	}
	l.destroyed = true
	_ = l.port.close()
}

// Ref adds a keep-alive reference. References are the only mechanism for
// requesting loop termination; no bounds are enforced and callers are
// responsible for balancing Ref with Unref.
func (l *Loop) Ref() { l.refs++ }

// Unref removes a keep-alive reference. See Ref.
func (l *Loop) Unref() { l.refs-- }

// RefCount returns the current reference count, for diagnostics and
// tests.
func (l *Loop) RefCount() int { return l.refs }

// Now returns the loop's cached monotonic clock snapshot. It is refreshed
// exactly once at the start of each tick; all deadline comparisons within
// a tick use this single value.
func (l *Loop) Now() time.Time { return l.now }

// LastError returns the most recent loop-scoped error, for diagnostics.
// It is not a recoverable control-flow channel: by the time a substrate
// error lands here the fatal reporter has already run.
func (l *Loop) LastError() error { return l.lastErr }

func (l *Loop) setLastError(err error) { l.lastErr = err }

// enter claims the loop for the calling goroutine. Driving a loop from
// one of its own callbacks is a precondition violation and is rejected
// rather than given meaning.
func (l *Loop) enter() error {
	if l.destroyed {
		return ErrLoopDestroyed
	}
	gid := getGoroutineID()
	if !l.driver.CompareAndSwap(0, gid) {
		if l.driver.Load() == gid {
			return ErrReentrantRun
		}
		return ErrLoopAlreadyRunning
	}
	return nil
}

// RunOnce executes a single tick: one pass through the fixed phase
// sequence, including at most one poll of the completion port.
func (l *Loop) RunOnce() error {
	if err := l.enter(); err != nil {
		return err
	}
	defer l.driver.Store(0)
	l.tick()
	return nil
}

// Run drives the loop until the reference count reaches zero. A loop with
// no references returns immediately, without touching the completion
// port. On return the reference count is exactly zero; a negative count
// means ref/unref misuse and panics.
func (l *Loop) Run() error {
	if err := l.enter(); err != nil {
		return err
	}
	defer l.driver.Store(0)

	for l.refs > 0 {
		if !l.tick() {
			break
		}
	}

	if l.refs != 0 {
		panic(`reactor: negative reference count after run`)
	}
	return nil
}

// tick is one pass through the fixed phase sequence. It reports false
// when the reference-count check terminated the sequence early.
func (l *Loop) tick() bool {
	l.tickCount++
	l.now = l.clock()

	l.timers.Expire(l.now)

	// Idle work only when there is nothing real to do.
	if l.pending.Length() == 0 && l.endgames.Length() == 0 {
		l.idle.invoke()
	}

	l.processRequests()

	// Endgames run after request dispatch so a close scheduled by a
	// request handler is reaped within the same tick.
	l.processEndgames()

	if l.refs <= 0 {
		return false
	}

	l.prepare.invoke()

	// Block only when the loop is otherwise completely idle.
	l.poll(l.idle.empty() &&
		l.pending.Length() == 0 &&
		l.endgames.Length() == 0 &&
		l.refs > 0)

	l.check.invoke()
	return true
}

// safeInvoke executes a callback with panic recovery.
func (l *Loop) safeInvoke(scope string, fn func()) {
	if fn == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			l.logger.Err().
				Uint64(`loop`, l.id).
				Str(`scope`, scope).
				Any(`recovered`, r).
				Log(`reactor: callback panicked`)
		}
	}()

	fn()
}

// getGoroutineID returns the current goroutine's ID.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
