package scheduler

import (
	"container/heap"
	"fmt"
	"sync"
	"time"
)

// Epoch is the virtual start time of every [Manual] scheduler.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Manual is a virtual-time [Scheduler] for deterministic tests and offline
// simulations. Time only moves when [Manual.Advance] or [Manual.Settle] is
// called, and due callbacks run on the calling goroutine.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers timerQueue
}

// NewManual returns a Manual scheduler positioned at [Epoch].
func NewManual() *Manual {
	return &Manual{now: Epoch}
}

// Now returns the current virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Elapsed returns the virtual time passed since [Epoch].
func (m *Manual) Elapsed() time.Duration {
	return m.Now().Sub(Epoch)
}

// AfterFunc schedules fn at now+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, due: m.now.Add(d), seq: m.seq, fn: fn, index: -1}
	heap.Push(&m.timers, t)
	return t
}

// Post schedules fn for the current instant.
func (m *Manual) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	m.AfterFunc(0, fn)
	return true
}

// Pending returns the number of scheduled callbacks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timers.Len()
}

// Advance moves virtual time forward by d, running every callback that
// becomes due in (due time, scheduling order). Callbacks scheduled while
// advancing also run if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()
	m.runUntil(target)
}

// Flush runs callbacks due at the current instant.
func (m *Manual) Flush() {
	m.Advance(0)
}

// AdvanceTo moves virtual time to elapsed since [Epoch]. Moving backwards is
// a no-op.
func (m *Manual) AdvanceTo(elapsed time.Duration) {
	target := Epoch.Add(elapsed)
	m.mu.Lock()
	if target.Before(m.now) {
		target = m.now
	}
	m.mu.Unlock()
	m.runUntil(target)
}

// Settle advances time until no callbacks remain. It returns an error if
// callbacks are still pending once max virtual time has passed.
func (m *Manual) Settle(max time.Duration) error {
	deadline := m.Now().Add(max)
	for {
		m.mu.Lock()
		if m.timers.Len() == 0 {
			m.mu.Unlock()
			return nil
		}
		next := m.timers[0].due
		m.mu.Unlock()
		if next.After(deadline) {
			m.runUntil(deadline)
			return fmt.Errorf("scheduler: %d callbacks still pending after %v", m.Pending(), max)
		}
		m.runUntil(next)
	}
}

func (m *Manual) runUntil(target time.Time) {
	for {
		m.mu.Lock()
		if m.timers.Len() == 0 || m.timers[0].due.After(target) {
			m.now = target
			m.mu.Unlock()
			return
		}
		t := heap.Pop(&m.timers).(*manualTimer)
		if t.due.After(m.now) {
			m.now = t.due
		}
		t.fired = true
		m.mu.Unlock()
		t.fn()
	}
}

type manualTimer struct {
	m     *Manual
	due   time.Time
	seq   uint64
	fn    func()
	index int
	fired bool
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.fired || t.index < 0 {
		return false
	}
	heap.Remove(&t.m.timers, t.index)
	t.fired = true
	return true
}

type timerQueue []*manualTimer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*manualTimer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
