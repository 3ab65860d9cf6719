package timing

import (
	"strconv"
	"sync/atomic"

	"github.com/sarchlab/dramsweep/hooking"
)

// An Event is something going to happen in the future.
type Event interface {
	// Return the time that the event should happen
	Time() Tick

	// Returns the handler that can should handle the event
	Handler() Handler

	// IsSecondary tells if the event is a secondary event. Secondary event are
	// handled after all same-time primary events are handled.
	IsSecondary() bool
}

// HookPosBeforeEvent is a hook position that triggers before handling an event.
var HookPosBeforeEvent = &hooking.HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is a hook position that triggers after handling an event.
var HookPosAfterEvent = &hooking.HookPos{Name: "AfterEvent"}

var nextEventID uint64

func generateEventID() string {
	return strconv.FormatUint(atomic.AddUint64(&nextEventID, 1), 10)
}

// EventBase provides the basic fields and getters for other events
type EventBase struct {
	ID        string
	time      Tick
	handler   Handler
	secondary bool
}

// NewEventBase creates a new EventBase
func NewEventBase(t Tick, handler Handler) *EventBase {
	return &EventBase{
		ID:      generateEventID(),
		time:    t,
		handler: handler,
	}
}

// NewSecondaryEventBase creates an EventBase that is handled after all the
// primary events of the same time.
func NewSecondaryEventBase(t Tick, handler Handler) *EventBase {
	e := NewEventBase(t, handler)
	e.secondary = true

	return e
}

// Time return the time that the event is going to happen
func (e EventBase) Time() Tick {
	return e.time
}

// Handler returns the handler to handle the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary returns true if the event is a secondary event.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}

// A Handler defines a domain for the events.
//
// One event is always constraint to one Handler, which means the event can
// only be scheduled by one handler and can only directly modify that handler.
type Handler interface {
	Handle(e Event) error
}
