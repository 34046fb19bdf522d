// Package event carries messages from input producers (terminal, recorder
// script, loader) to the scene host's frame loop.
//
// Producers Push from any goroutine; the host is the single consumer and
// Drains once at the start of every tick, handling events in push order.
package event

import (
	"sync"
	"time"
)

// Type identifies what an event asks the host to do.
type Type int

const (
	// Load carries an asset load outcome. Payload: LoadPayload.
	Load Type = iota
	// Resize reports a new viewport size. Payload: ResizePayload.
	Resize
	// Toggle flips the pose between Front and Profile. Payload: nil.
	Toggle
	// Light edits one light panel parameter. Payload: LightPayload.
	Light
	// Quit stops the frame loop. Payload: nil.
	Quit
)

func (t Type) String() string {
	switch t {
	case Load:
		return "Load"
	case Resize:
		return "Resize"
	case Toggle:
		return "Toggle"
	case Light:
		return "Light"
	case Quit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Event is one queued message.
type Event struct {
	Type      Type
	Payload   any
	Frame     int64 // host frame when pushed, if known
	Timestamp time.Time
}

// ResizePayload is the new viewport size in pixels.
type ResizePayload struct {
	Width, Height int
}

// LightPayload edits a panel parameter. Exactly one of Value, Delta or
// Color applies: Color when non-empty, else Delta steps when non-zero,
// else Value.
type LightPayload struct {
	Name  string
	Value float64
	Delta int
	Color string
}

// LoadPayload is the outcome of an asset load. Model is opaque to this
// package; the host asserts its concrete type.
type LoadPayload struct {
	Path  string
	Model any
	Err   error
}

// Capacity bounds the queue. When full, the oldest Light event is
// discarded to make room; Load, Resize, Toggle and Quit are never dropped
// and may push the queue past Capacity.
const Capacity = 256

// Queue is a bounded FIFO safe for many producers and one consumer.
type Queue struct {
	mu      sync.Mutex
	events  []Event
	dropped int64
	now     func() time.Time
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{events: make([]Event, 0, Capacity), now: time.Now}
}

// Push appends ev, stamping Timestamp when unset.
func (q *Queue) Push(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = q.now()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) >= Capacity && !q.evictLight() {
		if ev.Type == Light {
			q.dropped++
			return
		}
	}
	q.events = append(q.events, ev)
}

// evictLight removes the oldest queued Light event. Caller holds mu.
func (q *Queue) evictLight() bool {
	for i, ev := range q.events {
		if ev.Type != Light {
			continue
		}
		copy(q.events[i:], q.events[i+1:])
		q.events[len(q.events)-1] = Event{}
		q.events = q.events[:len(q.events)-1]
		q.dropped++
		return true
	}
	return false
}

// Send is shorthand for Push with only a type and payload.
func (q *Queue) Send(t Type, payload any) {
	q.Push(Event{Type: t, Payload: payload})
}

// Drain removes and returns every queued event in push order.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = make([]Event, 0, Capacity)
	return out
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Dropped returns how many events were discarded on overflow.
func (q *Queue) Dropped() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
