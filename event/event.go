package event

import "strconv"

// Event is the algebraic event-combinator language: Pure, Empty,
// Signal, Sum, App, Bind, LiftPure and Shortcut. Each case is its own
// struct, matching the one-struct-per-node discipline the teacher's
// core.Node/core.Branch types use instead of a single tagged union
// field.
type Event interface {
	eventTag()
}

// PureV is Pure(a): an event that is Done(a) immediately, consuming no
// signals.
type PureV struct {
	Value interface{}
}

func (PureV) eventTag() {}

// Empty is an event that never completes.
type Empty struct{}

func (Empty) eventTag() {}

// SignalLeaf is Signal(s): Done(payload) once a matching occurrence is
// bound at this leaf's address, Pending([{address, s}]) until then.
type SignalLeaf struct {
	Signal Signal
}

func (SignalLeaf) eventTag() {}

// Sum is Left + Right, left-biased: Done as soon as either side is
// Done (Left takes priority if both are), Pending on the union of both
// sides' pending signals otherwise.
type Sum struct {
	Left, Right Event
}

func (Sum) eventTag() {}

// App is F applied to X once both resolve: F must resolve to a
// func(interface{}) interface{}; a different resolved type for F is
// an engine invariant violation, not a recoverable error.
type App struct {
	F, X Event
}

func (App) eventTag() {}

// Bind is Left >>= Cont: resolves Left, and once Done, builds and
// resolves Cont(value) as a fresh sub-expression under this Bind's own
// address branch, so no stale occurrence bound to a prior Bind call
// can leak into it.
type Bind struct {
	Left Event
	Cont func(interface{}) Event
}

func (Bind) eventTag() {}

// PureEvaluator is the hook LiftPure uses to evaluate a pure
// expression without this package importing package engine (which
// imports this package for Game's event trees). Package engine's
// PureExpr values are adapted to this interface via a small bound
// wrapper; see engine.BoundPure.
type PureEvaluator interface {
	EvalPure() (interface{}, error)
}

// LiftPure is LiftPure(p): always Done(eval_pure(p)), never Pending.
// eval_pure is total over this language's primitives, so a non-nil
// error from EvalPure here reflects an engine invariant violation.
type LiftPure struct {
	Pure PureEvaluator
}

func (LiftPure) eventTag() {}

// Maybe is the resolved-or-not state of one Shortcut child: Ok is
// false while that child is still Pending.
type Maybe struct {
	Ok    bool
	Value interface{}
}

// Shortcut is an n-ary combinator: Done(results) as soon as Done
// reports true over the children's current Maybe results (some
// children may still be Ok==false at that point — that's what makes it
// a shortcut), Pending on the union of all children's pending signals
// otherwise.
type Shortcut struct {
	Children []Event
	Done     func([]Maybe) bool
}

func (Shortcut) eventTag() {}

// AddrKind is one tag of a structural SignalAddress path.
type AddrKind int

const (
	SumL AddrKind = iota
	SumR
	AppL
	AppR
	BindL
	BindR
	ShortcutChild
)

func (k AddrKind) String() string {
	switch k {
	case SumL:
		return "SumL"
	case SumR:
		return "SumR"
	case AppL:
		return "AppL"
	case AppR:
		return "AppR"
	case BindL:
		return "BindL"
	case BindR:
		return "BindR"
	case ShortcutChild:
		return "Shortcut"
	default:
		return "?"
	}
}

// AddrStep is one step of a SignalAddress. Index is only meaningful
// when Kind == ShortcutChild, since Shortcut is n-ary rather than
// binary and a bare "Shortcut" tag cannot disambiguate which of its
// children a step descends into; String renders such a step with a
// numeric suffix ("Shortcut:2") so n-ary addressing is not ambiguous.
type AddrStep struct {
	Kind  AddrKind
	Index int
}

func (s AddrStep) String() string {
	if s.Kind == ShortcutChild {
		return "Shortcut:" + strconv.Itoa(s.Index)
	}
	return s.Kind.String()
}

// SignalAddress is a path from an Event tree's root to one of its
// leaves, the structural half of a signal occurrence's identity.
type SignalAddress []AddrStep

func (a SignalAddress) String() string {
	out := ""
	for i, s := range a {
		if i > 0 {
			out += "."
		}
		out += s.String()
	}
	return out
}

// Equal reports whether two addresses name the same path.
func (a SignalAddress) Equal(b SignalAddress) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func appended(path SignalAddress, step AddrStep) SignalAddress {
	out := make(SignalAddress, len(path)+1)
	copy(out, path)
	out[len(path)] = step
	return out
}

// SignalOccurrence is a real-world signal bound into an Event's
// environment: the signal it satisfies, the payload it resolved to,
// and the address of the leaf it's bound to.
type SignalOccurrence struct {
	Signal  Signal
	Payload interface{}
	Address SignalAddress
}

// PendingSignal names one leaf an Event is still waiting on: where in
// the tree it sits, and what signal would satisfy it.
type PendingSignal struct {
	Address SignalAddress
	Signal  Signal
}
