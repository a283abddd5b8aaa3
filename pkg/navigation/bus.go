// Package navigation sequences page transitions around route changes.
//
// A [Bus] carries the two navigation signals. A [Navigator] drives them: for
// an internal link it publishes starting, exits the active page and waits for
// it (bounded by an exit timeout), commits the route, resets scroll, publishes
// committed and finally enters the new page.
package navigation

import (
	"github.com/google/uuid"
)

// StartingEvent is published before a navigation does anything else.
type StartingEvent struct {
	ID         uuid.UUID
	IsInternal bool
	Href       string
}

// CommittedEvent is published once the router has switched pages.
type CommittedEvent struct {
	ID   uuid.UUID
	Href string
}

type subscriber[E any] struct {
	id int
	fn func(E)
}

// Bus is a publish/subscribe channel for navigation signals. It is not safe
// for concurrent use; publish and subscribe from the scheduler goroutine.
type Bus struct {
	starting  []subscriber[StartingEvent]
	committed []subscriber[CommittedEvent]
	nextID    int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// OnStarting registers fn for navigation-starting. Returns an unsubscribe
// function.
func (b *Bus) OnStarting(fn func(StartingEvent)) func() {
	id := b.id()
	b.starting = append(b.starting, subscriber[StartingEvent]{id: id, fn: fn})
	return func() { b.starting = unsubscribe(b.starting, id) }
}

// OnCommitted registers fn for navigation-committed. Returns an unsubscribe
// function.
func (b *Bus) OnCommitted(fn func(CommittedEvent)) func() {
	id := b.id()
	b.committed = append(b.committed, subscriber[CommittedEvent]{id: id, fn: fn})
	return func() { b.committed = unsubscribe(b.committed, id) }
}

// PublishStarting delivers ev to every starting subscriber in registration
// order.
func (b *Bus) PublishStarting(ev StartingEvent) {
	publish(b.starting, ev)
}

// PublishCommitted delivers ev to every committed subscriber in registration
// order.
func (b *Bus) PublishCommitted(ev CommittedEvent) {
	publish(b.committed, ev)
}

func (b *Bus) id() int {
	b.nextID++
	return b.nextID
}

// publish iterates a snapshot so handlers may subscribe or unsubscribe.
func publish[E any](subs []subscriber[E], ev E) {
	for _, s := range append([]subscriber[E](nil), subs...) {
		s.fn(ev)
	}
}

func unsubscribe[E any](subs []subscriber[E], id int) []subscriber[E] {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}
