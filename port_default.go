//go:build !windows

package reactor

import (
	"sync"
	"time"

	"github.com/eapache/queue"
)

// Dequeue operation names, reported on fatal escalation.
const (
	opCreatePort   = `newCompletionPort`
	opDequeue      = `dequeue`
	opDequeueBatch = `dequeueBatch`
)

// overlapped is vestigial off Windows; the in-process port carries
// *Request values directly.
type overlapped struct{}

// completionPort is the in-process completion substrate: a FIFO of
// completed requests supporting single and batch dequeue with zero,
// finite, and infinite waits. It is the only cross-goroutine structure in
// the package; everything else belongs to the loop goroutine.
type completionPort struct {
	mu     sync.Mutex
	reqs   *queue.Queue  // of *Request
	wake   chan struct{} // cap 1, coalesced post signal
	done   chan struct{} // closed by close
	closed bool
}

func newCompletionPort() (*completionPort, error) {
	return &completionPort{
		reqs: queue.New(),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}, nil
}

func (p *completionPort) batchCapable() bool { return batchDequeueAvailable }

// post enqueues a completed request. Safe to call from any goroutine.
func (p *completionPort) post(req *Request) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPortClosed
	}
	p.reqs.Add(req)
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
	return nil
}

// dequeue retrieves one completion, waiting up to timeoutMs milliseconds
// (-1 blocks indefinitely, 0 never blocks). Returns errPollTimeout when
// nothing arrived in time.
func (p *completionPort) dequeue(timeoutMs int) (*Request, error) {
	var deadline time.Time
	if timeoutMs > 0 {
		deadline = time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)
	}

	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, ErrPortClosed
		}
		if p.reqs.Length() > 0 {
			req := p.reqs.Remove().(*Request)
			p.mu.Unlock()
			return req, nil
		}
		p.mu.Unlock()

		// Coalesced wake signals can be stale; loop back to re-check the
		// queue after every wait.
		switch {
		case timeoutMs == 0:
			return nil, errPollTimeout

		case timeoutMs < 0:
			select {
			case <-p.wake:
			case <-p.done:
			}

		default:
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return nil, errPollTimeout
			}
			timer := time.NewTimer(remaining)
			select {
			case <-p.wake:
				timer.Stop()
			case <-p.done:
				timer.Stop()
			case <-timer.C:
				return nil, errPollTimeout
			}
		}
	}
}

// dequeueBatch retrieves up to len(buf) completions, in post order. The
// wait contract matches dequeue; once one completion is available the rest
// of the buffer fills without further waiting.
func (p *completionPort) dequeueBatch(buf []*Request, timeoutMs int) (int, error) {
	req, err := p.dequeue(timeoutMs)
	if err != nil {
		return 0, err
	}
	buf[0] = req
	n := 1

	p.mu.Lock()
	for n < len(buf) && p.reqs.Length() > 0 {
		buf[n] = p.reqs.Remove().(*Request)
		n++
	}
	p.mu.Unlock()
	return n, nil
}

func (p *completionPort) close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()
	close(p.done)
	return nil
}
