//go:build windows

package reactor

import (
	"golang.org/x/sys/windows"
)

// SetErrorMode flags: handle critical errors ourselves instead of letting
// the system raise dialog boxes.
const (
	semFailCriticalErrors = 0x0001
	semNoGPFaultErrorBox  = 0x0002
	semNoOpenFileErrorBox = 0x8000
)

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSetErrorMode = kernel32.NewProc("SetErrorMode")

	// GetQueuedCompletionStatusEx is the optional batch-dequeue primitive;
	// resolved dynamically, its absence selects the single-retrieval poll
	// strategy.
	procGetQueuedCompletionStatusEx = kernel32.NewProc("GetQueuedCompletionStatusEx")
)

// batchDequeueAvailable is resolved once during bootstrap.
var batchDequeueAvailable bool

func initPlatform() {
	_, _, _ = procSetErrorMode.Call(semFailCriticalErrors | semNoGPFaultErrorBox | semNoOpenFileErrorBox)

	var wsaData windows.WSAData
	if err := windows.WSAStartup(uint32(0x0202), &wsaData); err != nil {
		reportFatal(getPackageLogger(), `WSAStartup`, err)
	}

	batchDequeueAvailable = procGetQueuedCompletionStatusEx.Find() == nil
}
