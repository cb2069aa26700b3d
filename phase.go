package reactor

// Phase sets are the idle/prepare/check registration groups, each invoked
// at a fixed point in the tick. Members live in a singly-linked,
// insertion-ordered list; an in-pass cursor makes it safe for a callback
// to stop any member mid-pass, including the one due next. Members
// started during a pass are linked ahead of the already-visited portion
// and so first run on the following tick: a pass invokes exactly the
// members active when it began, each exactly once.

// phaseSet is one of the loop's three callback phases.
type phaseSet struct {
	loop   *Loop
	name   string
	head   *phaseHandle
	cursor *phaseHandle // next member of the in-progress pass
	count  int
}

// phaseHandle is the linkage shared by Idle, Prepare, and Check.
type phaseHandle struct {
	set    *phaseSet
	cb     func()
	next   *phaseHandle
	active bool
}

func (s *phaseSet) start(h *phaseHandle) {
	if h.active {
		return
	}
	h.active = true
	h.next = s.head
	s.head = h
	s.count++
}

func (s *phaseSet) stop(h *phaseHandle) {
	if !h.active {
		return
	}
	h.active = false
	s.count--
	if s.cursor == h {
		s.cursor = h.next
	}
	if s.head == h {
		s.head = h.next
	} else {
		for p := s.head; p != nil; p = p.next {
			if p.next == h {
				p.next = h.next
				break
			}
		}
	}
	h.next = nil
}

func (s *phaseSet) empty() bool { return s.head == nil }

// invoke runs one pass over the members active at the start of the pass.
func (s *phaseSet) invoke() {
	for h := s.head; h != nil; h = s.cursor {
		s.cursor = h.next
		s.loop.safeInvoke(s.name, h.cb)
	}
	s.cursor = nil
}

// Idle is a callback invoked once per tick, but only on ticks where both
// the pending-request queue and the endgame queue were empty; idle work
// is deliberately starved whenever there is real work. While any idle
// handle is started, the loop polls non-blocking.
type Idle struct{ phaseHandle }

// NewIdle creates an idle-phase handle. It is inactive until Start.
func (l *Loop) NewIdle(cb func()) *Idle {
	h := &Idle{}
	h.set = &l.idle
	h.cb = cb
	return h
}

// Start activates the handle. Starting an active handle is a no-op.
func (h *Idle) Start() { h.set.start(&h.phaseHandle) }

// Stop deactivates the handle. Stopping an inactive handle is a no-op.
func (h *Idle) Stop() { h.set.stop(&h.phaseHandle) }

// Prepare is a callback invoked once per tick, immediately before the
// potentially blocking poll: the last chance to act before the loop may
// suspend.
type Prepare struct{ phaseHandle }

// NewPrepare creates a prepare-phase handle. It is inactive until Start.
func (l *Loop) NewPrepare(cb func()) *Prepare {
	h := &Prepare{}
	h.set = &l.prepare
	h.cb = cb
	return h
}

// Start activates the handle. Starting an active handle is a no-op.
func (h *Prepare) Start() { h.set.start(&h.phaseHandle) }

// Stop deactivates the handle. Stopping an inactive handle is a no-op.
func (h *Prepare) Stop() { h.set.stop(&h.phaseHandle) }

// Check is a callback invoked once per tick, immediately after the loop
// wakes from the poll.
type Check struct{ phaseHandle }

// NewCheck creates a check-phase handle. It is inactive until Start.
func (l *Loop) NewCheck(cb func()) *Check {
	h := &Check{}
	h.set = &l.check
	h.cb = cb
	return h
}

// Start activates the handle. Starting an active handle is a no-op.
func (h *Check) Start() { h.set.start(&h.phaseHandle) }

// Stop deactivates the handle. Stopping an inactive handle is a no-op.
func (h *Check) Stop() { h.set.stop(&h.phaseHandle) }
