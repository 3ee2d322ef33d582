package ecs

// Event is a message one system leaves for later systems in the same frame.
type Event struct {
	Type   string
	Entity Entity
	Data   any
}

// Event types pushed by the built-in systems.
const (
	EventEntityExpired = "entity_expired"
	EventScriptError   = "script_error"
	EventSpawned       = "spawned"
)

// EventQueue is a simple FIFO queue. The scheduler empties it once every
// system has run, so events never outlive the frame they were pushed in.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Peek returns the queued events without removing them. The slice is owned by
// the queue.
func (q *EventQueue) Peek() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
