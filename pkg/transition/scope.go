package transition

// Scope is the status and timing record shared by one animated subtree.
//
// A Scope is created by [NewProvider] and handed to descendants explicitly.
// Consumers read it, subscribe to it and may merge duration overrides;
// status and generation are changed only by the owning Provider.
type Scope struct {
	name       string
	parent     *Scope
	status     Status
	durations  Durations
	generation uint64
	destroyed  bool

	changes  notifier
	destroys []listener[func()]
	nextID   int
}

func newScope(name string, parent *Scope, durations Durations, status Status) *Scope {
	return &Scope{
		name:      name,
		parent:    parent,
		status:    status,
		durations: durations,
	}
}

// Name returns the scope's diagnostic name.
func (s *Scope) Name() string { return s.name }

// Parent returns the ancestor scope, or nil for a root.
func (s *Scope) Parent() *Scope { return s.parent }

// Status returns the current status.
func (s *Scope) Status() Status { return s.status }

// Durations returns the current timing configuration.
func (s *Scope) Durations() Durations { return s.durations }

// Generation returns the number of status-initiating requests so far.
func (s *Scope) Generation() uint64 { return s.generation }

// Destroyed reports whether the owning provider was destroyed.
func (s *Scope) Destroyed() bool { return s.destroyed }

// UpdateDuration merges p into the scope's durations. The change applies to
// transitions started afterwards.
func (s *Scope) UpdateDuration(p DurationPatch) {
	s.durations = s.durations.Merge(p)
}

// AddStatusListener registers fn to run after every status change, in
// registration order. Returns an unsubscribe function.
func (s *Scope) AddStatusListener(fn func(from, to Status)) func() {
	return s.changes.add(fn)
}

// AddDestroyListener registers fn to run once when the scope is destroyed.
// Returns an unsubscribe function.
func (s *Scope) AddDestroyListener(fn func()) func() {
	s.nextID++
	id := s.nextID
	s.destroys = append(s.destroys, listener[func()]{id: id, fn: fn})
	return func() {
		s.destroys = removeListener(s.destroys, id)
	}
}

func (s *Scope) setStatus(to Status) {
	from := s.status
	if from == to {
		return
	}
	s.status = to
	s.changes.notify(from, to)
}

func (s *Scope) destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	fns := s.destroys
	s.destroys = nil
	for _, l := range fns {
		l.fn()
	}
	s.changes.clear()
}

type listener[F any] struct {
	id int
	fn F
}

func removeListener[F any](ls []listener[F], id int) []listener[F] {
	out := ls[:0:0]
	for _, l := range ls {
		if l.id != id {
			out = append(out, l)
		}
	}
	return out
}

type statusChange struct {
	from, to Status
}

// notifier delivers status changes in order. A change raised by a listener
// is queued until every listener has seen the current one, so no listener
// ever observes edges out of order.
type notifier struct {
	listeners []listener[func(from, to Status)]
	queue     []statusChange
	busy      bool
	nextID    int
}

func (n *notifier) add(fn func(from, to Status)) func() {
	n.nextID++
	id := n.nextID
	n.listeners = append(n.listeners, listener[func(from, to Status)]{id: id, fn: fn})
	return func() {
		n.listeners = removeListener(n.listeners, id)
	}
}

func (n *notifier) notify(from, to Status) {
	n.queue = append(n.queue, statusChange{from: from, to: to})
	if n.busy {
		return
	}
	n.busy = true
	defer func() { n.busy = false }()
	for len(n.queue) > 0 {
		change := n.queue[0]
		n.queue = n.queue[1:]
		for _, l := range n.listeners {
			l.fn(change.from, change.to)
		}
	}
}

func (n *notifier) clear() {
	n.listeners = nil
	n.queue = nil
}
