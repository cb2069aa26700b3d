//go:build !windows

package reactor

// batchDequeueAvailable is resolved once during bootstrap. The in-process
// completion port supports batch dequeue on every platform.
var batchDequeueAvailable bool

func initPlatform() {
	batchDequeueAvailable = true
}
