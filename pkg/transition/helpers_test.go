package transition

import (
	"time"

	"github.com/nextcore/choreo/pkg/scheduler"
)

// recordingHandle completes after a fixed delay and records when it was
// asked to enter and exit. A negative delay means it never completes.
type recordingHandle struct {
	sched    *scheduler.Manual
	delay    time.Duration
	enters   []time.Duration
	exits    []time.Duration
	entered  int
	exited   int
	hangExit bool
}

func newRecordingHandle(sched *scheduler.Manual, delay time.Duration) *recordingHandle {
	return &recordingHandle{sched: sched, delay: delay}
}

func (h *recordingHandle) Enter(done func()) {
	h.enters = append(h.enters, h.sched.Elapsed())
	h.sched.AfterFunc(h.delay, func() {
		h.entered++
		call(done)
	})
}

func (h *recordingHandle) Exit(done func()) {
	h.exits = append(h.exits, h.sched.Elapsed())
	if h.hangExit {
		return
	}
	h.sched.AfterFunc(h.delay, func() {
		h.exited++
		call(done)
	})
}

type statusLog struct {
	changes []string
}

func (l *statusLog) record(from, to Status) {
	l.changes = append(l.changes, from.String()+">"+to.String())
}
