package worker

// Event represents a worker lifecycle event.
// Minimal and stable: name + kind and optional fields via key/values.
type Event struct {
	Name   string
	Kind   string
	Fields map[string]any
}

// EventPublisher receives events from workers. Implementations must be
// lightweight, non-blocking and safe for concurrent use; Publish is called
// from worker threads and must not panic.
type EventPublisher interface {
	Publish(Event)
}

// PublisherFunc adapts a function to EventPublisher.
type PublisherFunc func(Event)

func (f PublisherFunc) Publish(e Event) { f(e) }

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
