package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Event is a domain event delivered to observers.
type Event struct {
	// Type is the event type, e.g. "catalog:reloaded".
	Type string

	// Payload carries the typed message for Type.
	Payload any

	Context context.Context
}

// Observer is notified of dispatched events.
type Observer interface {
	// OnEvent handles an event. A returned error is logged and does not
	// stop delivery to the other observers.
	OnEvent(event Event) error

	// Name identifies the observer in logs.
	Name() string

	// ShouldHandle reports whether the observer wants events of this type.
	ShouldHandle(eventType string) bool
}

// Dispatcher fans events out to registered observers. Safe for concurrent use.
type Dispatcher struct {
	mu        sync.RWMutex
	observers []Observer
	logger    *zap.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{logger: logger}
}

// Register adds an observer.
func (d *Dispatcher) Register(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
	d.logger.Debug("registered observer", zap.String("observer", o.Name()))
}

// Unregister removes an observer if present.
func (d *Dispatcher) Unregister(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, obs := range d.observers {
		if obs == o {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// Dispatch delivers event to every interested observer in registration order.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, o := range observers {
		if !o.ShouldHandle(event.Type) {
			continue
		}
		if err := o.OnEvent(event); err != nil {
			d.logger.Warn("observer failed to handle event",
				zap.String("observer", o.Name()),
				zap.String("event", event.Type),
				zap.Error(err))
		}
	}
}

// ObserverCount returns the number of registered observers.
func (d *Dispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// Payload extracts a typed payload from an event.
func Payload[T any](event Event) (T, bool) {
	p, ok := event.Payload.(T)
	return p, ok
}
