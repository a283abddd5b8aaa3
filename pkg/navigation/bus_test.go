package navigation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversInOrderAndUnsubscribes(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.OnStarting(func(ev StartingEvent) { got = append(got, "a:"+ev.Href) })
	removeB := bus.OnStarting(func(ev StartingEvent) { got = append(got, "b:"+ev.Href) })

	bus.PublishStarting(StartingEvent{ID: uuid.New(), IsInternal: true, Href: "/events"})
	removeB()
	removeB()
	bus.PublishStarting(StartingEvent{Href: "/register"})

	assert.Equal(t, []string{"a:/events", "b:/events", "a:/register"}, got)
}

func TestBus_HandlersMayUnsubscribeWhilePublishing(t *testing.T) {
	bus := NewBus()
	var calls int
	var remove func()
	remove = bus.OnCommitted(func(CommittedEvent) {
		calls++
		remove()
	})
	bus.OnCommitted(func(CommittedEvent) { calls++ })

	bus.PublishCommitted(CommittedEvent{Href: "/"})
	bus.PublishCommitted(CommittedEvent{Href: "/"})
	assert.Equal(t, 3, calls)
}
