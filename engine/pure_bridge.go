package engine

import "github.com/nomyx/engine/event"

// BoundPure adapts a PureExpr, bound to a fixed PureCtx, to the
// event.PureEvaluator interface event.LiftPure needs — the glue that
// lets a rule embed a pure read (e.g. "the current value of this
// variable") as a leaf of an Event tree without package event
// importing package engine.
type BoundPure struct {
	Ctx  PureCtx
	Expr PureExpr
}

// EvalPure implements event.PureEvaluator.
func (b BoundPure) EvalPure() (interface{}, error) {
	return EvalPure(b.Ctx, b.Expr)
}

var _ event.PureEvaluator = BoundPure{}
