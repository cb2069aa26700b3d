//go:build windows

package reactor

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Dequeue operation names, reported on fatal escalation.
const (
	opCreatePort   = `CreateIoCompletionPort`
	opDequeue      = `GetQueuedCompletionStatus`
	opDequeueBatch = `GetQueuedCompletionStatusEx`
)

// overlapped heads every Request so a dequeued completion maps back to its
// originating request by pointer conversion.
type overlapped = windows.Overlapped

// completionPort wraps a real I/O completion port. One concurrent dequeue
// thread; the port itself is the cross-thread synchronization primitive.
type completionPort struct {
	iocp windows.Handle
}

func newCompletionPort() (*completionPort, error) {
	h, err := windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, 1)
	if err != nil {
		return nil, err
	}
	return &completionPort{iocp: h}, nil
}

func (p *completionPort) batchCapable() bool { return batchDequeueAvailable }

// post submits a completion packet for req. Safe to call from any thread.
func (p *completionPort) post(req *Request) error {
	if err := windows.PostQueuedCompletionStatus(p.iocp, 0, 0, &req.ov); err != nil {
		return err
	}
	return nil
}

// requestFromOverlapped recovers the Request whose ov field backs the
// dequeued OVERLAPPED. Relies on ov being the first field of Request.
func requestFromOverlapped(ov *windows.Overlapped) *Request {
	return (*Request)(unsafe.Pointer(ov))
}

// waitMillis converts the poll timeout convention (-1 = infinite) to the
// wait API's convention.
func waitMillis(timeoutMs int) uint32 {
	if timeoutMs < 0 {
		return windows.INFINITE
	}
	return uint32(timeoutMs)
}

// dequeue retrieves one completion. A packet dequeued for a failed I/O
// operation still dispatches; the per-request handler owns that error.
// Only a packetless failure other than WAIT_TIMEOUT escalates.
func (p *completionPort) dequeue(timeoutMs int) (*Request, error) {
	var (
		bytes uint32
		key   uintptr
		ov    *windows.Overlapped
	)
	err := windows.GetQueuedCompletionStatus(p.iocp, &bytes, &key, &ov, waitMillis(timeoutMs))
	if ov != nil {
		return requestFromOverlapped(ov), nil
	}
	if err != nil {
		if errno, ok := err.(syscall.Errno); ok && errno == windows.WAIT_TIMEOUT {
			return nil, errPollTimeout
		}
		return nil, err
	}
	// Packetless success: a bare wake-up post. Nothing dequeued.
	return nil, errPollTimeout
}

// overlappedEntry mirrors OVERLAPPED_ENTRY.
type overlappedEntry struct {
	key      uintptr
	ov       *windows.Overlapped
	internal uintptr
	bytes    uint32
}

// dequeueBatch retrieves up to len(buf) completions in one substrate call
// via GetQueuedCompletionStatusEx. Callers must have confirmed the
// primitive resolved during bootstrap.
func (p *completionPort) dequeueBatch(buf []*Request, timeoutMs int) (int, error) {
	var entries [pollBatchSize]overlappedEntry
	limit := len(buf)
	if limit > pollBatchSize {
		limit = pollBatchSize
	}

	var count uint32
	r1, _, callErr := procGetQueuedCompletionStatusEx.Call(
		uintptr(p.iocp),
		uintptr(unsafe.Pointer(&entries[0])),
		uintptr(limit),
		uintptr(unsafe.Pointer(&count)),
		uintptr(waitMillis(timeoutMs)),
		0, // fAlertable
	)
	if r1 == 0 {
		if errno, ok := callErr.(syscall.Errno); ok && errno == windows.WAIT_TIMEOUT {
			return 0, errPollTimeout
		}
		return 0, callErr
	}

	n := int(count)
	for i := 0; i < n; i++ {
		buf[i] = requestFromOverlapped(entries[i].ov)
	}
	return n, nil
}

func (p *completionPort) close() error {
	if p.iocp == windows.InvalidHandle {
		return nil
	}
	h := p.iocp
	p.iocp = windows.InvalidHandle
	return windows.CloseHandle(h)
}
