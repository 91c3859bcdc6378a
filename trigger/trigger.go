// Package trigger binds an Event[T] to a specific payload as an
// immutable work item, and exposes the single type-erased capability
// the scheduler needs to hold triggers of heterogeneous payload types
// in one queue.
package trigger

import "github.com/lixenwraith/chronoforge/event"

// Notifier is the type-erased capability a Scheduler stores: "notify the
// bound event with the bound payload". It is the only polymorphism the
// scheduler requires and never exposes the concrete Event[T]/payload pair
// behind it.
type Notifier interface {
	Notify()
}

// Trigger is an immutable (Event[T], payload) pair. A given Trigger may
// be handed to a Scheduler and executed at most once per schedule entry;
// scheduling the same Trigger again produces an independent node.
type Trigger[T any] struct {
	ev      *event.Event[T]
	payload T
}

// New binds ev to payload, returning a Trigger ready to schedule.
func New[T any](ev *event.Event[T], payload T) *Trigger[T] {
	return &Trigger[T]{ev: ev, payload: payload}
}

// Notify stores the bound payload into the bound event and fires it.
// Satisfies Notifier so a *Trigger[T] can sit in a scheduler's
// heterogeneous queue untyped.
func (t *Trigger[T]) Notify() {
	t.ev.NotifyWithPayload(t.payload)
}

// Payload returns the value this trigger will deliver on Notify.
func (t *Trigger[T]) Payload() T { return t.payload }

// Event returns the bound event.
func (t *Trigger[T]) Event() *event.Event[T] { return t.ev }
