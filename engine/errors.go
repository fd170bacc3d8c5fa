package engine

import "fmt"

// The Unknown* and DuplicateRuleNumber types describe operations on
// missing or already-used identifiers. EvalEffect does not return
// them: those operations evaluate to false with a nil error instead.

// UnknownRule describes an operation naming a RuleNumber that no rule
// in the Game has ever held.
type UnknownRule struct {
	Number RuleNumber
}

func (e *UnknownRule) Error() string {
	return fmt.Sprintf("engine: unknown rule %d", e.Number)
}

// UnknownPlayer describes an operation naming a PlayerNumber that
// isn't in the Game's player list.
type UnknownPlayer struct {
	Number PlayerNumber
}

func (e *UnknownPlayer) Error() string {
	return fmt.Sprintf("engine: unknown player %d", e.Number)
}

// UnknownEvent describes an operation naming an EventNumber that
// isn't a live EventInfo in the Game.
type UnknownEvent struct {
	Number EventNumber
}

func (e *UnknownEvent) Error() string {
	return fmt.Sprintf("engine: unknown event %d", e.Number)
}

// UnknownOutput describes an operation naming an OutputNumber that
// isn't a live Output in the Game.
type UnknownOutput struct {
	Number OutputNumber
}

func (e *UnknownOutput) Error() string {
	return fmt.Sprintf("engine: unknown output %d", e.Number)
}

// DuplicateRuleNumber describes a ProposeRule/AddRule whose RuleNumber
// has already been used in this Game.
type DuplicateRuleNumber struct {
	Number RuleNumber
}

func (e *DuplicateRuleNumber) Error() string {
	return fmt.Sprintf("engine: rule number %d already used", e.Number)
}

// ThrownError is a rule-raised error propagated through Expr
// evaluation via an ordinary Go error return, caught by the nearest
// enclosing CatchError. It is the one recoverable error class; every
// other failure inside eval_effect or eval_pure is an engine invariant
// violation and panics instead of returning an error, following the
// teacher's core/errors.go split between typed, expected errors and
// the things that can only mean the walker itself is broken.
type ThrownError struct {
	Message string
}

func (e *ThrownError) Error() string {
	return "engine: " + e.Message
}

// WrappedError pairs a higher-level description with the lower-level
// cause, mirroring cmd/mservice/werror.go's Outer/Inner pattern.
type WrappedError struct {
	Outer string
	Inner error
}

func (e *WrappedError) Error() string {
	if e.Inner == nil {
		return e.Outer
	}
	return fmt.Sprintf("%s: %s", e.Outer, e.Inner)
}

func (e *WrappedError) Unwrap() error {
	return e.Inner
}
