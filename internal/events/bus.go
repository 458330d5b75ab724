package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers of its concrete type.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case LiveLogEvent:
		event.Publish(b.dispatcher, e)
	case NotificationEvent:
		event.Publish(b.dispatcher, e)
	case ServiceStatusEvent:
		event.Publish(b.dispatcher, e)
	case GeoDataUpdatedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers a typed handler and returns its unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e LiveLogEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(LiveLogEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(NotificationEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ServiceStatusEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(GeoDataUpdatedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
