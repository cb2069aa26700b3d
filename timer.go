package reactor

import (
	"container/heap"
	"time"
)

// TimerStore is the deadline-ordered structure consumed by the loop. The
// loop asks it exactly two things per tick: expire everything due at or
// before the current clock snapshot, and report the earliest outstanding
// deadline (for the poll timeout). Ordering between entries sharing a
// deadline is the store's own policy.
type TimerStore interface {
	// Expire invokes, in store order, every entry whose deadline is at or
	// before now, removing each as it runs.
	Expire(now time.Time)

	// Earliest reports the soonest outstanding deadline. ok is false when
	// the store is empty.
	Earliest() (when time.Time, ok bool)
}

// TimerScheduler is the registration side of a timer store. The default
// store implements it; replacement stores may choose not to, in which case
// [Loop.ScheduleTimer] is unavailable.
type TimerScheduler interface {
	Schedule(when time.Time, cb func()) *Timer
}

// Timer is a single scheduled callback within a [TimerHeap].
type Timer struct {
	when  time.Time
	cb    func()
	owner *TimerHeap
	index int // heap index, -1 once fired or stopped
}

// Stop cancels the timer. Stopping an already-fired or already-stopped
// timer is a no-op.
func (t *Timer) Stop() {
	if t.index < 0 || t.owner == nil {
		return
	}
	heap.Remove(&t.owner.entries, t.index)
}

// TimerHeap is the default TimerStore: a binary min-heap keyed by
// deadline. Entries at equal deadlines expire in unspecified relative
// order.
type TimerHeap struct {
	entries timerEntries
}

// NewTimerHeap creates an empty timer store.
func NewTimerHeap() *TimerHeap {
	return &TimerHeap{}
}

// Schedule registers cb to run once the store is expired with a time at or
// after when.
func (h *TimerHeap) Schedule(when time.Time, cb func()) *Timer {
	t := &Timer{when: when, cb: cb, owner: h}
	heap.Push(&h.entries, t)
	return t
}

// Expire implements TimerStore.
func (h *TimerHeap) Expire(now time.Time) {
	for len(h.entries) > 0 {
		next := h.entries[0]
		if next.when.After(now) {
			break
		}
		heap.Pop(&h.entries)
		if next.cb != nil {
			next.cb()
		}
	}
}

// Earliest implements TimerStore.
func (h *TimerHeap) Earliest() (time.Time, bool) {
	if len(h.entries) == 0 {
		return time.Time{}, false
	}
	return h.entries[0].when, true
}

// Len reports the number of outstanding timers.
func (h *TimerHeap) Len() int { return len(h.entries) }

// timerEntries implements heap.Interface, maintaining per-entry indices so
// Stop can remove from the middle.
type timerEntries []*Timer

func (h timerEntries) Len() int           { return len(h) }
func (h timerEntries) Less(i, j int) bool { return h[i].when.Before(h[j].when) }

func (h timerEntries) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerEntries) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerEntries) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// ScheduleTimer registers cb to fire delay after the current tick's clock
// snapshot (or after the current time, if the loop has not ticked yet).
// It requires the loop's timer store to implement [TimerScheduler];
// otherwise ErrTimerStoreUnsupported is returned.
func (l *Loop) ScheduleTimer(delay time.Duration, cb func()) (*Timer, error) {
	s, ok := l.timers.(TimerScheduler)
	if !ok {
		return nil, ErrTimerStoreUnsupported
	}
	now := l.now
	if now.IsZero() {
		now = l.clock()
	}
	return s.Schedule(now.Add(delay), cb), nil
}
