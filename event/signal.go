package event

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/nomyx/engine/ids"
)

// SignalKind enumerates the primitive signal families a leaf of an
// Event tree can wait on.
type SignalKind int

const (
	InputRadio SignalKind = iota
	InputText
	InputTextarea
	InputButton
	InputCheckbox
	Timer
	Message
	RuleLifecycle
	PlayerLifecycle
	Victory
)

func (k SignalKind) String() string {
	switch k {
	case InputRadio:
		return "input-radio"
	case InputText:
		return "input-text"
	case InputTextarea:
		return "input-textarea"
	case InputButton:
		return "input-button"
	case InputCheckbox:
		return "input-checkbox"
	case Timer:
		return "timer"
	case Message:
		return "message"
	case RuleLifecycle:
		return "rule-lifecycle"
	case PlayerLifecycle:
		return "player-lifecycle"
	case Victory:
		return "victory"
	default:
		return fmt.Sprintf("signal-kind-%d", int(k))
	}
}

func (k SignalKind) isInput() bool {
	switch k {
	case InputRadio, InputText, InputTextarea, InputButton, InputCheckbox:
		return true
	}
	return false
}

// Choice is one selectable option of a radio or checkbox input signal.
// Value is the Go value bound into the resolved Event when this choice
// is selected; Label is what a host renders to the player.
type Choice struct {
	Label string
	Value interface{}
}

// Signal is a primitive occurrence a leaf of the Event language can be
// waiting on. Two Signals are equal, per Key, when their kind and
// carrier payload match; structural address equality is checked
// separately by the resolver, never folded into Signal identity.
type Signal struct {
	Kind SignalKind

	// Player is the addressed player for input-* signals, or the
	// subject player for PlayerLifecycle.
	Player ids.PlayerNumber

	// Prompt and Choices describe an input-* signal's form field.
	Prompt  string
	Choices []Choice

	// At is the deadline for a Timer signal.
	At time.Time

	// Name carries a message's name, or the lifecycle sub-kind
	// ("proposed", "activated", "rejected", "added", "modified",
	// "arrive", "leave").
	Name string

	// Rule is the subject rule for RuleLifecycle.
	Rule ids.RuleNumber
}

type signalWire struct {
	Kind    SignalKind
	Player  ids.PlayerNumber `json:",omitempty"`
	Prompt  string           `json:",omitempty"`
	Choices []string         `json:",omitempty"`
	AtUnix  int64            `json:",omitempty"`
	Name    string           `json:",omitempty"`
	Rule    ids.RuleNumber   `json:",omitempty"`
}

// Key canonicalizes the Signal's content-identity into a comparable
// string, the same round-trip-through-JSON trick the teacher's
// Canonicalize helper uses to normalize values before comparing them.
// Choices are reduced to their labels: two signals with equal labels
// but differently-typed bound Values are still the same signal, since
// the bound value is a presentation detail chosen by whoever built the
// Event tree, not part of the occurrence's identity.
func (s Signal) Key() string {
	labels := make([]string, len(s.Choices))
	for i, c := range s.Choices {
		labels[i] = c.Label
	}
	w := signalWire{
		Kind:    s.Kind,
		Player:  s.Player,
		Prompt:  s.Prompt,
		Choices: labels,
		Name:    s.Name,
		Rule:    s.Rule,
	}
	if s.Kind == Timer {
		w.AtUnix = s.At.UnixNano()
	}
	b, err := json.Marshal(w)
	if err != nil {
		// Signal only ever holds JSON-marshalable fields; a failure
		// here means a caller put something pathological (a channel,
		// a func) into a Choice.Label, which can't happen through this
		// package's constructors.
		panic(fmt.Sprintf("event: signal not marshalable: %v", err))
	}
	return string(b)
}

// Equal reports whether two signals share the same content identity.
func (s Signal) Equal(other Signal) bool {
	return s.Key() == other.Key()
}

// matches reports whether an incoming real-world occurrence satisfies
// a pending leaf's signal. For every kind but Timer this is exact
// content equality. Timer is threshold matching: a pending deadline is
// satisfied by any incoming Timer signal whose At has reached or
// passed it, since the host calls InjectTime with "now", not with the
// exact deadline each pending timer leaf is holding.
func matches(pending, incoming Signal) bool {
	if pending.Kind != incoming.Kind {
		return false
	}
	if pending.Kind == Timer {
		return !incoming.At.Before(pending.At)
	}
	return pending.Equal(incoming)
}

// InputData is what a host supplies back for an input-* signal: the
// raw answer to a rendered form field, prior to being resolved into
// the bound Go value carried by the matching Choice.
type InputData struct {
	Kind            SignalKind
	Text            string
	RadioIndex      int
	CheckboxIndices []int
}

// ErrBadInput is returned by Signal.Payload when the supplied
// InputData doesn't fit the signal's shape (wrong kind, out-of-range
// index). Per the "bad input data" edge case, a trigger pipeline
// treats this the same as no match: drop silently, trace if a Trace
// hook is attached.
type ErrBadInput struct {
	Reason string
}

func (e *ErrBadInput) Error() string { return "event: bad input: " + e.Reason }

// Payload resolves InputData collected from a host-rendered form field
// into the Go value the matching leaf's Event should complete with.
func (s Signal) Payload(data InputData) (interface{}, error) {
	if !s.Kind.isInput() {
		return nil, &ErrBadInput{Reason: fmt.Sprintf("signal kind %s is not an input signal", s.Kind)}
	}
	if data.Kind != s.Kind {
		return nil, &ErrBadInput{Reason: fmt.Sprintf("form kind %s does not match signal kind %s", data.Kind, s.Kind)}
	}
	switch s.Kind {
	case InputText, InputTextarea:
		return data.Text, nil
	case InputButton:
		return nil, nil
	case InputRadio:
		if data.RadioIndex < 0 || data.RadioIndex >= len(s.Choices) {
			return nil, &ErrBadInput{Reason: "radio index out of range"}
		}
		return s.Choices[data.RadioIndex].Value, nil
	case InputCheckbox:
		vals := make([]interface{}, 0, len(data.CheckboxIndices))
		seen := map[int]bool{}
		idxs := append([]int(nil), data.CheckboxIndices...)
		sort.Ints(idxs)
		for _, i := range idxs {
			if i < 0 || i >= len(s.Choices) {
				return nil, &ErrBadInput{Reason: "checkbox index out of range"}
			}
			if seen[i] {
				continue
			}
			seen[i] = true
			vals = append(vals, s.Choices[i].Value)
		}
		return vals, nil
	default:
		return nil, &ErrBadInput{Reason: "unreachable input kind"}
	}
}

// Descriptor is the form-field rendering of an input-* Signal, handed
// to a host UI so it knows what to draw for a pending leaf.
type Descriptor struct {
	Player  ids.PlayerNumber
	Kind    SignalKind
	Prompt  string
	Choices []string
}

// Descriptor builds the wire-facing form field for an input-* signal.
// It is the caller's responsibility to only call this on signals for
// which Kind.isInput() holds; non-input signals have no form to render.
func (s Signal) Descriptor() Descriptor {
	labels := make([]string, len(s.Choices))
	for i, c := range s.Choices {
		labels[i] = c.Label
	}
	return Descriptor{Player: s.Player, Kind: s.Kind, Prompt: s.Prompt, Choices: labels}
}
