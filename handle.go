package reactor

// Handle is anything owned by a loop that needs deferred teardown. Closing
// a handle does not tear it down immediately: the handle joins the endgame
// queue and its teardown runs during the endgame step of the current or
// next tick. Because endgames drain after request dispatch, a request
// handler that closes a handle sees the teardown reaped within the same
// tick.
type Handle struct {
	loop     *Loop
	teardown func(*Handle)
	closing  bool
}

// NewHandle creates a handle whose teardown runs once the handle is closed
// and its endgame is processed.
func (l *Loop) NewHandle(teardown func(*Handle)) *Handle {
	return &Handle{loop: l, teardown: teardown}
}

// Close schedules the handle for deferred teardown. Closing an
// already-closing handle is a no-op. May be called from any phase
// callback; must be called on the loop goroutine.
func (h *Handle) Close() {
	if h.closing {
		return
	}
	h.closing = true
	h.loop.endgames.Add(h)
}

// Closing reports whether Close has been called.
func (h *Handle) Closing() bool { return h.closing }

// processEndgames drains the endgame queue, running each scheduled
// handle's teardown.
func (l *Loop) processEndgames() {
	for l.endgames.Length() > 0 {
		h := l.endgames.Remove().(*Handle)
		if h.teardown == nil {
			continue
		}
		l.safeInvoke(`endgame`, func() { h.teardown(h) })
	}
}
