// Package events fans deployment progress messages out to sinks.
package events

import (
	"sync"
	"time"
)

// Event is one progress message
type Event struct {
	Time       time.Time
	Deployment string
	Project    string
	Message    string
}

// Sink receives events. Send must not block for long since it is called
// while the bus holds its lock.
type Sink interface {
	Send(e Event)
}

// SinkFunc adapts a function to a Sink
type SinkFunc func(e Event)

// Send implements Sink
func (f SinkFunc) Send(e Event) { f(e) }

// Bus delivers every event to every subscribed sink, in emission order
type Bus struct {
	mu    sync.Mutex
	sinks []Sink
}

// NewBus returns a Bus with no sinks
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe adds s to the sinks of b
func (b *Bus) Subscribe(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

// Publish delivers e to all sinks. Concurrent publishers are serialized so
// that all sinks observe the same order.
func (b *Bus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.sinks {
		s.Send(e)
	}
}

// Emit publishes msg with no deployment attached
func (b *Bus) Emit(msg string) {
	b.Publish(Event{Message: msg})
}

// For returns a Logger tagging every message with deployment and project
func (b *Bus) For(deployment, project string) *Logger {
	return &Logger{bus: b, deployment: deployment, project: project}
}

// Logger emits the messages of one deployment
type Logger struct {
	bus        *Bus
	deployment string
	project    string
}

// Emit publishes msg on the bus
func (l *Logger) Emit(msg string) {
	l.bus.Publish(Event{Deployment: l.deployment, Project: l.project, Message: msg})
}
