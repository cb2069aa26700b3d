package reactor

// Request is a completion packet: an asynchronous operation whose
// completion has been retrieved from the port but whose type-specific
// handling has not yet run. Collaborators allocate a Request per in-flight
// operation, submit its completion through [Loop.Post] (or the platform
// substrate), and receive it back via Done on the loop goroutine.
type Request struct {
	// ov must remain the first field of Request: the completion port maps
	// dequeued completions back to their originating Request through it.
	ov overlapped

	// Op labels the request kind for diagnostics and logging.
	Op string

	// Done performs the request's kind-specific handling. It runs on the
	// loop goroutine while the pending-request queue drains, in the order
	// completions were dequeued.
	Done func(*Request)
}

// Post submits a completed request to the loop's completion port. It is
// safe to call from any goroutine; this is the substrate's producer side.
// The request surfaces on the loop goroutine via Done, after the poll
// phase dequeues it.
func (l *Loop) Post(req *Request) error {
	return l.port.post(req)
}

// processRequests drains the pending-request queue, dispatching each
// dequeued completion to its kind-specific handler.
func (l *Loop) processRequests() {
	for l.pending.Length() > 0 {
		req := l.pending.Remove().(*Request)
		if req.Done == nil {
			continue
		}
		l.safeInvoke(req.Op, func() { req.Done(req) })
	}
}
