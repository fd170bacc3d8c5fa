package engine

import "fmt"

// PureCtx is the context a PureExpr evaluates under: the game it
// reads from and the rule number SelfRuleNumber/Simu report as
// "self". Evaluating a PureExpr never mutates Game.
type PureCtx struct {
	Game        *Game
	ActingRule  RuleNumber
}

// EvalPure evaluates a PureExpr, dispatching on its concrete type the
// same way the teacher's Spec.Step dispatches on Node/Branch. Every
// primitive here is total: a missing variable or output reads as a
// zero value rather than failing, per the "bad reference reads as
// absent, never panics" edge case. The (interface{}, error) result
// shape is kept for forward compatibility with primitives that might
// one day need to fail; none of the ones below ever populate the
// error.
func EvalPure(ctx PureCtx, e PureExpr) (interface{}, error) {
	switch n := e.(type) {
	case ReadVar:
		if v := ctx.Game.variable(n.Name); v != nil {
			return v.Value, nil
		}
		return nil, nil

	case ReadOutput:
		o := ctx.Game.output(n.Number)
		if o == nil || o.Status != OutputActive {
			return nil, nil
		}
		return EvalPure(PureCtx{Game: ctx.Game, ActingRule: o.Owner}, o.Producer)

	case ListRules:
		out := make([]Rule, len(ctx.Game.Rules))
		for i, r := range ctx.Game.Rules {
			out[i] = *r
		}
		return out, nil

	case ListPlayers:
		out := make([]Player, len(ctx.Game.Players))
		for i, p := range ctx.Game.Players {
			out[i] = *p
		}
		return out, nil

	case ListEvents:
		out := make([]EventInfo, len(ctx.Game.Events))
		for i, e := range ctx.Game.Events {
			out[i] = *e.copy()
		}
		return out, nil

	case SelfRuleNumber:
		return ctx.ActingRule, nil

	case CurrentTime:
		return ctx.Game.Clock, nil

	case PureReturn:
		return n.Value, nil

	case PureBind:
		v, err := EvalPure(ctx, n.Expr)
		if err != nil {
			return nil, err
		}
		return EvalPure(ctx, n.Cont(v))

	case Simu:
		clone := ctx.Game.Copy()
		effCtx := &EffectCtx{Game: clone, ActingRule: ctx.ActingRule}
		// A ThrownError inside a simulated effect halts only the
		// remaining steps of that effect; whatever state it already
		// mutated on the clone stands, and the predicate is evaluated
		// against it regardless. Any other error is an engine
		// invariant violation, which EvalEffect panics on directly
		// rather than returning, so reaching here with a non-nil,
		// non-ThrownError err cannot happen.
		_, _ = EvalEffect(effCtx, n.Effect)
		result, err := EvalPure(PureCtx{Game: clone, ActingRule: ctx.ActingRule}, n.Predicate)
		if err != nil {
			return nil, err
		}
		b, ok := result.(bool)
		if !ok {
			panic(fmt.Sprintf("engine: Simu predicate resolved to %T, not bool", result))
		}
		return b, nil

	default:
		panic(fmt.Sprintf("engine: unknown PureExpr case %T", e))
	}
}
