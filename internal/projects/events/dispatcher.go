// Package events delivers project notifications to interested subsystems.
package events

import (
	"context"
	"sync"

	"github.com/orbis-25/orbis-projects-backend/internal/logging"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
)

// Observer receives project events. Returned errors are logged and never
// reach the emitter.
type Observer interface {
	Notify(ctx context.Context, e domain.Event) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, e domain.Event) error

func (f ObserverFunc) Notify(ctx context.Context, e domain.Event) error { return f(ctx, e) }

// Dispatcher fans events out to its observers in subscription order.
// Each Emit delivers the event at most once to each observer.
type Dispatcher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewDispatcher creates a dispatcher with the given observers.
func NewDispatcher(observers ...Observer) *Dispatcher {
	return &Dispatcher{observers: observers}
}

// Subscribe appends an observer.
func (d *Dispatcher) Subscribe(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
}

// Emit notifies every observer of e. It does not wait for acknowledgement
// beyond the observer call returning, and it does not retry.
func (d *Dispatcher) Emit(ctx context.Context, e domain.Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	log := logging.NewLogger(ctx).With("event", e.Name()).With("post_id", e.ProjectPostID())
	for _, o := range observers {
		if err := o.Notify(ctx, e); err != nil {
			log.LogError("emit", err)
		}
	}
}
