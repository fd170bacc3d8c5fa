package trigger

import (
	"github.com/nomyx/engine/engine"
	"github.com/nomyx/engine/event"
)

// TraceEvent is one diagnostic record of a candidate event considered
// for an incoming signal occurrence, handed to an optional Trace hook
// so a host can see exactly which events were considered and why each
// was matched or dropped — including the "bad input data" silent-drop
// edge case, which otherwise leaves no visible trail. Modeled on the
// teacher's Traces/Stride.Events recording in core/step.go.
type TraceEvent struct {
	Event   engine.EventNumber
	Signal  event.Signal
	Matched bool
	Done    bool
	Reason  string
}
