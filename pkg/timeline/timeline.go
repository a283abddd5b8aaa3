// Package timeline records what a choreography did and when: scope status
// changes, leaf completions, sound cues and navigation signals, stamped with
// scheduler time. Recordings render as a table or a PNG chart.
package timeline

import (
	"fmt"
	"time"

	"github.com/nextcore/choreo/pkg/navigation"
	"github.com/nextcore/choreo/pkg/scheduler"
	"github.com/nextcore/choreo/pkg/sound"
	"github.com/nextcore/choreo/pkg/transition"
)

// Kind classifies an entry.
type Kind int

const (
	// KindStatus is a scope or coordinator status change.
	KindStatus Kind = iota
	// KindSettle is a leaf reporting completion to its bridge.
	KindSettle
	// KindCue is a sound cue being played.
	KindCue
	// KindNavigation is a navigation signal on the bus.
	KindNavigation
	// KindNote is free-form.
	KindNote
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindSettle:
		return "settle"
	case KindCue:
		return "cue"
	case KindNavigation:
		return "navigation"
	case KindNote:
		return "note"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entry is one recorded event.
type Entry struct {
	At     time.Duration
	Kind   Kind
	Source string
	Detail string
	// Status is set for KindStatus and KindSettle entries.
	Status transition.Status
}

// Recorder collects entries. Like everything it watches, it must only be
// used from the scheduler goroutine.
type Recorder struct {
	sched   scheduler.Scheduler
	start   time.Time
	entries []Entry
}

// New starts a recording at the scheduler's current time.
func New(sched scheduler.Scheduler) *Recorder {
	return &Recorder{sched: sched, start: sched.Now()}
}

// Entries returns the recording in order.
func (r *Recorder) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Len returns the number of entries.
func (r *Recorder) Len() int { return len(r.entries) }

// Elapsed is the time since the recording started.
func (r *Recorder) Elapsed() time.Duration {
	return scheduler.Since(r.sched, r.start)
}

func (r *Recorder) add(e Entry) {
	e.At = r.Elapsed()
	r.entries = append(r.entries, e)
}

// Note records a free-form entry.
func (r *Recorder) Note(source, format string, args ...any) {
	r.add(Entry{Kind: KindNote, Source: source, Detail: fmt.Sprintf(format, args...)})
}

// WatchScope records every status change of scope.
func (r *Recorder) WatchScope(scope *transition.Scope) func() {
	name := scope.Name()
	return scope.AddStatusListener(func(from, to transition.Status) {
		r.add(Entry{Kind: KindStatus, Source: name, Status: to, Detail: from.String() + " -> " + to.String()})
	})
}

// WatchCoordinator records every aggregate status change of c under name.
func (r *Recorder) WatchCoordinator(name string, c *transition.Coordinator) func() {
	return c.AddStatusListener(func(from, to transition.Status) {
		r.add(Entry{Kind: KindStatus, Source: name, Status: to, Detail: from.String() + " -> " + to.String()})
	})
}

// Settled returns a bridge OnSettle callback recording the leaf's completions.
func (r *Recorder) Settled(leaf string) func(transition.Status) {
	return func(s transition.Status) {
		r.add(Entry{Kind: KindSettle, Source: leaf, Status: s, Detail: s.String()})
	}
}

// Cue wraps next so every play is recorded under name.
func (r *Recorder) Cue(name string, next sound.Cue) sound.Cue {
	return sound.CueFunc(func() {
		r.add(Entry{Kind: KindCue, Source: name, Detail: "play"})
		if next != nil {
			next.Play()
		}
	})
}

// WatchBus records both navigation signals.
func (r *Recorder) WatchBus(bus *navigation.Bus) func() {
	offStarting := bus.OnStarting(func(ev navigation.StartingEvent) {
		kind := "external"
		if ev.IsInternal {
			kind = "internal"
		}
		r.add(Entry{Kind: KindNavigation, Source: "starting", Detail: fmt.Sprintf("%s %s", kind, ev.Href)})
	})
	offCommitted := bus.OnCommitted(func(ev navigation.CommittedEvent) {
		r.add(Entry{Kind: KindNavigation, Source: "committed", Detail: ev.Href})
	})
	return func() {
		offStarting()
		offCommitted()
	}
}

// Span is a stretch of time a source spent in one status.
type Span struct {
	Source   string
	Status   transition.Status
	From, To time.Duration
}

// Spans converts status entries into contiguous spans per source. The last
// span of each source runs to end. Sources keep the order they first
// appeared in.
func (r *Recorder) Spans(end time.Duration) []Span {
	var (
		order []string
		open  = map[string]*Span{}
		spans []Span
	)
	for _, e := range r.entries {
		if e.Kind != KindStatus {
			continue
		}
		if prev, ok := open[e.Source]; ok {
			prev.To = e.At
			spans = append(spans, *prev)
		} else {
			order = append(order, e.Source)
		}
		open[e.Source] = &Span{Source: e.Source, Status: e.Status, From: e.At}
	}
	for _, src := range order {
		s := open[src]
		s.To = max(end, s.From)
		spans = append(spans, *s)
	}
	return spans
}

// Sources lists the status sources in first-seen order.
func (r *Recorder) Sources() []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range r.entries {
		if e.Kind == KindStatus && !seen[e.Source] {
			seen[e.Source] = true
			out = append(out, e.Source)
		}
	}
	return out
}
