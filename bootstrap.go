package reactor

import (
	"sync"
	"sync/atomic"
)

// Two independent one-time guards, in dependency order: process-wide
// library bootstrap first, then the default loop, which requires the
// bootstrap to have completed.
var (
	initGuard        sync.Once
	defaultLoopGuard sync.Once
	defaultLoop      atomic.Pointer[Loop]

	// bootstrapCount counts completed process-wide bootstraps. It exists so
	// tests can observe the exactly-once contract.
	bootstrapCount atomic.Uint32
)

// initLibrary performs process-wide bootstrap exactly once per process,
// no matter how many goroutines race to trigger it: platform subsystem
// initialization and resolution of optional platform capabilities (the
// batch-dequeue primitive). All callers observe the fully-initialized
// state on return. Bootstrap failure is fatal; there is no
// partial-bootstrap recovery path.
func initLibrary() {
	initGuard.Do(func() {
		initPlatform()
		bootstrapCount.Add(1)
	})
}

// Default returns the process-wide default loop, creating it on first
// access. Every call returns the same instance, including concurrent
// first-time calls from multiple goroutines. The default loop is never
// released: [Loop.Destroy] on it is a deliberate no-op, protecting
// process-wide code that may hold the handle indefinitely.
func Default() *Loop {
	defaultLoopGuard.Do(func() {
		initLibrary()
		cfg, _ := resolveLoopOptions(nil)
		defaultLoop.Store(newLoop(cfg))
	})
	return defaultLoop.Load()
}
