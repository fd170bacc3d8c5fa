package engine

import "fmt"

// LifecycleKind enumerates the state-mutating operations that emit a
// lifecycle signal after they apply, so events waiting on
// RuleLifecycle/PlayerLifecycle/Victory signals see a consistent
// post-mutation state.
type LifecycleKind int

const (
	RuleProposed LifecycleKind = iota
	RuleActivated
	RuleRejected
	RuleAdded
	RuleModified
	PlayerArrived
	PlayerLeft
	VictoryDeclared
)

// LifecycleOccurrence is what EvalEffect reports through Hooks.Lifecycle
// after a lifecycle-emitting mutation commits.
type LifecycleOccurrence struct {
	Kind   LifecycleKind
	Rule   RuleNumber
	Player PlayerNumber
}

// Hooks let an EffectCtx reach back out to whatever is feeding
// occurrences to live events (package trigger's Pipeline) without
// package engine importing package trigger — package trigger already
// imports package engine for Game/Expr/EventInfo, so the dependency
// can only run this direction. A Pipeline builds an EffectCtx with
// Hooks wired back to its own InjectLifecycle/InjectMessage methods,
// making a rule's ActivateRuleOp, SendMessage, and so on recursively
// re-entrant into the same depth-first trigger walk, matching the
// teacher's Spec.Walk re-entrancy.
type Hooks struct {
	Lifecycle func(LifecycleOccurrence)
	Message   func(name string, payload interface{})
}

// EffectCtx is the context an Expr evaluates under: the game it
// mutates, the rule currently "in scope" (whose writes the rule-gate
// check authorizes), and the hooks used to report lifecycle/message
// emissions back up to a trigger pipeline.
type EffectCtx struct {
	Game       *Game
	ActingRule RuleNumber
	Hooks      Hooks
}

func (ctx *EffectCtx) emitLifecycle(occ LifecycleOccurrence) {
	if ctx.Hooks.Lifecycle != nil {
		ctx.Hooks.Lifecycle(occ)
	}
}

// withRule runs f with the acting rule temporarily switched to rn,
// restoring the previous value before returning — the "push/pop"
// scoping a rule's own body runs under when ActivateRuleOp or AddRule
// runs it.
func withRule(ctx *EffectCtx, rn RuleNumber, f func() (interface{}, error)) (interface{}, error) {
	prev := ctx.ActingRule
	ctx.ActingRule = rn
	defer func() { ctx.ActingRule = prev }()
	return f()
}

// EvalEffect evaluates an Expr, dispatching on its concrete type the
// way the teacher's Spec.Step dispatches on a compiled Node/Branch. A
// non-nil error returned here is always a *ThrownError; every other
// failure (a bad type assertion on a boxed value, an unreachable
// switch case) is an engine invariant violation and panics immediately
// rather than being handed back as an error, since the one
// recoverable error class this language has is the one a rule raises
// itself with ThrowError.
func EvalEffect(ctx *EffectCtx, e Expr) (interface{}, error) {
	switch n := e.(type) {
	case CreateVar:
		if !ctx.Game.CanMutate(ctx.ActingRule) {
			return false, nil
		}
		if ctx.Game.variable(n.Name) != nil {
			return false, nil
		}
		ctx.Game.Variables = append(ctx.Game.Variables, &Variable{
			Owner: ctx.ActingRule,
			Name:  n.Name,
			Value: n.Value,
			Type:  fmt.Sprintf("%T", n.Value),
		})
		return true, nil

	case WriteVar:
		if !ctx.Game.CanMutate(ctx.ActingRule) {
			return false, nil
		}
		v := ctx.Game.variable(n.Name)
		if v == nil {
			return false, nil
		}
		if fmt.Sprintf("%T", n.Value) != v.Type {
			return false, nil
		}
		v.Value = n.Value
		return true, nil

	case DeleteVar:
		if !ctx.Game.CanMutate(ctx.ActingRule) {
			return false, nil
		}
		for i, v := range ctx.Game.Variables {
			if v.Name == n.Name {
				ctx.Game.Variables = append(ctx.Game.Variables[:i], ctx.Game.Variables[i+1:]...)
				return true, nil
			}
		}
		return false, nil

	case OnEvent:
		if !ctx.Game.CanMutate(ctx.ActingRule) {
			return EventNumber(0), nil
		}
		num := nextEventNumber(ctx.Game)
		ctx.Game.Events = append(ctx.Game.Events, &EventInfo{
			Number:  num,
			Owner:   ctx.ActingRule,
			Expr:    n.Expr,
			Handler: n.Handler,
			Status:  EventActive,
		})
		return num, nil

	case DeleteEvent:
		if !ctx.Game.CanMutate(ctx.ActingRule) {
			return false, nil
		}
		ei := ctx.Game.event(n.Number)
		if ei == nil {
			return false, nil
		}
		ei.Status = EventDeleted
		return true, nil

	case CreateOutput:
		if !ctx.Game.CanMutate(ctx.ActingRule) {
			return OutputNumber(0), nil
		}
		num := nextOutputNumber(ctx.Game)
		ctx.Game.Outputs = append(ctx.Game.Outputs, &Output{
			Number:   num,
			Owner:    ctx.ActingRule,
			Target:   n.Target,
			Producer: n.Producer,
			Status:   OutputActive,
		})
		return num, nil

	case UpdateOutput:
		if !ctx.Game.CanMutate(ctx.ActingRule) {
			return false, nil
		}
		o := ctx.Game.output(n.Number)
		if o == nil {
			return false, nil
		}
		o.Producer = n.Producer
		return true, nil

	case DeleteOutput:
		if !ctx.Game.CanMutate(ctx.ActingRule) {
			return false, nil
		}
		o := ctx.Game.output(n.Number)
		if o == nil {
			return false, nil
		}
		o.Status = OutputDeleted
		return true, nil

	case ProposeRule:
		return proposeRule(ctx, n)

	case AddRule:
		return addRule(ctx, n)

	case ActivateRuleOp:
		return activateRule(ctx, n.Number)

	case RejectRuleOp:
		return rejectRule(ctx, n.Number)

	case ModifyRule:
		return modifyRule(ctx, n)

	case RenamePlayer:
		if !ctx.Game.CanMutate(ctx.ActingRule) {
			return false, nil
		}
		p := ctx.Game.player(n.Number)
		if p == nil {
			return false, nil
		}
		p.Name = n.Name
		return true, nil

	case RemovePlayer:
		if !ctx.Game.CanMutate(ctx.ActingRule) {
			return false, nil
		}
		for i, p := range ctx.Game.Players {
			if p.Number == n.Number {
				ctx.Game.Players = append(ctx.Game.Players[:i], ctx.Game.Players[i+1:]...)
				ctx.Game.Logf(ctx.ActingRule, "player %d left", n.Number)
				ctx.emitLifecycle(LifecycleOccurrence{Kind: PlayerLeft, Player: n.Number})
				return true, nil
			}
		}
		return false, nil

	case DeclareVictory:
		if !ctx.Game.CanMutate(ctx.ActingRule) {
			return false, nil
		}
		ctx.Game.Victory = &Victory{DeclaringRule: ctx.ActingRule, PlayerList: n.PlayerList}
		ctx.Game.Logf(ctx.ActingRule, "victory declared")
		ctx.emitLifecycle(LifecycleOccurrence{Kind: VictoryDeclared, Rule: ctx.ActingRule})
		return true, nil

	case SendMessage:
		if ctx.Hooks.Message != nil {
			ctx.Hooks.Message(n.Name, n.Payload)
		}
		return nil, nil

	case RandomInt:
		if !ctx.Game.CanMutate(ctx.ActingRule) {
			return 0, nil
		}
		if n.Max < n.Min {
			panic(fmt.Sprintf("engine: RandomInt Max %d < Min %d", n.Max, n.Min))
		}
		return n.Min + ctx.Game.RNG.Intn(n.Max-n.Min+1), nil

	case ThrowError:
		return nil, &ThrownError{Message: n.Message}

	case CatchError:
		v, err := EvalEffect(ctx, n.Body)
		if te, ok := err.(*ThrownError); ok {
			return EvalEffect(ctx, n.Handler(te.Message))
		}
		return v, err

	case LiftPureEffect:
		v, err := EvalPure(PureCtx{Game: ctx.Game, ActingRule: ctx.ActingRule}, n.Expr)
		if err != nil {
			panic(fmt.Sprintf("engine: LiftPureEffect evaluation failed (engine invariant violation): %v", err))
		}
		return v, nil

	case ExprReturn:
		return n.Value, nil

	case ExprBind:
		v, err := EvalEffect(ctx, n.Expr)
		if err != nil {
			return nil, err
		}
		return EvalEffect(ctx, n.Cont(v))

	default:
		panic(fmt.Sprintf("engine: unknown Expr case %T", e))
	}
}

func proposeRule(ctx *EffectCtx, n ProposeRule) (interface{}, error) {
	if !ctx.Game.CanMutate(ctx.ActingRule) {
		return false, nil
	}
	if ctx.Game.rule(n.Number) != nil {
		return false, nil
	}
	ctx.Game.Rules = append(ctx.Game.Rules, &Rule{
		Number:      n.Number,
		Name:        n.Name,
		Description: n.Description,
		Source:      n.Source,
		Body:        n.Body,
		Proposer:    n.Proposer,
		Status:      Proposed,
	})
	ctx.Game.Logf(ctx.ActingRule, "rule %d proposed", n.Number)
	ctx.emitLifecycle(LifecycleOccurrence{Kind: RuleProposed, Rule: n.Number})
	return true, nil
}

func addRule(ctx *EffectCtx, n AddRule) (interface{}, error) {
	if !ctx.Game.CanMutate(ctx.ActingRule) {
		return false, nil
	}
	if ctx.Game.rule(n.Number) != nil {
		return false, nil
	}
	r := &Rule{
		Number:        n.Number,
		Name:          n.Name,
		Description:   n.Description,
		Source:        n.Source,
		Body:          n.Body,
		Proposer:      n.Proposer,
		Status:        Active,
		AssessingRule: ctx.ActingRule,
	}
	ctx.Game.Rules = append(ctx.Game.Rules, r)
	ctx.Game.Logf(ctx.ActingRule, "rule %d added", n.Number)
	ctx.emitLifecycle(LifecycleOccurrence{Kind: RuleAdded, Rule: n.Number})
	if r.Body != nil {
		_, err := withRule(ctx, r.Number, func() (interface{}, error) { return EvalEffect(ctx, r.Body) })
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

func activateRule(ctx *EffectCtx, number RuleNumber) (interface{}, error) {
	if !ctx.Game.CanMutate(ctx.ActingRule) {
		return false, nil
	}
	r := ctx.Game.rule(number)
	if r == nil || r.Status != Proposed {
		return false, nil
	}
	r.Status = Active
	r.AssessingRule = ctx.ActingRule
	ctx.Game.Logf(ctx.ActingRule, "rule %d activated", number)
	ctx.emitLifecycle(LifecycleOccurrence{Kind: RuleActivated, Rule: number})
	if r.Body != nil {
		_, err := withRule(ctx, r.Number, func() (interface{}, error) { return EvalEffect(ctx, r.Body) })
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

func rejectRule(ctx *EffectCtx, number RuleNumber) (interface{}, error) {
	if !ctx.Game.CanMutate(ctx.ActingRule) {
		return false, nil
	}
	r := ctx.Game.rule(number)
	if r == nil {
		return false, nil
	}
	rejectOne(ctx, r)
	return true, nil
}

// rejectOne rejects r, purges everything it owns, and cascades to every
// rule this one is assessing, the O(n) walk the teacher's Crew uses for
// bulk machine operations.
func rejectOne(ctx *EffectCtx, r *Rule) {
	if r.Status == Rejected {
		return
	}
	r.Status = Rejected
	ctx.Game.Logf(ctx.ActingRule, "rule %d rejected", r.Number)
	purgeOwnedBy(ctx.Game, r.Number)
	ctx.emitLifecycle(LifecycleOccurrence{Kind: RuleRejected, Rule: r.Number})
	for _, other := range ctx.Game.Rules {
		if other.AssessingRule == r.Number && other.Number != r.Number {
			rejectOne(ctx, other)
		}
	}
}

// purgeOwnedBy removes everything a rejected rule owns: variables and
// outputs are dropped outright, events are tombstoned (Status set to
// EventDeleted, not removed, to preserve numbering history), and a
// victory record is cleared if that rule declared it.
func purgeOwnedBy(g *Game, r RuleNumber) {
	keptVars := g.Variables[:0]
	for _, v := range g.Variables {
		if v.Owner != r {
			keptVars = append(keptVars, v)
		}
	}
	g.Variables = keptVars

	keptOutputs := g.Outputs[:0]
	for _, o := range g.Outputs {
		if o.Owner != r {
			keptOutputs = append(keptOutputs, o)
		}
	}
	g.Outputs = keptOutputs

	for _, ei := range g.Events {
		if ei.Owner == r {
			ei.Status = EventDeleted
		}
	}

	if g.Victory != nil && g.Victory.DeclaringRule == r {
		g.Victory = nil
	}
}

func modifyRule(ctx *EffectCtx, n ModifyRule) (interface{}, error) {
	if !ctx.Game.CanMutate(ctx.ActingRule) {
		return false, nil
	}
	r := ctx.Game.rule(n.Number)
	if r == nil {
		return false, nil
	}
	if n.Name != nil {
		r.Name = *n.Name
	}
	if n.Description != nil {
		r.Description = *n.Description
	}
	if n.Source != nil {
		r.Source = *n.Source
	}
	if n.Body != nil {
		r.Body = n.Body
	}
	ctx.Game.Logf(ctx.ActingRule, "rule %d modified", n.Number)
	ctx.emitLifecycle(LifecycleOccurrence{Kind: RuleModified, Rule: n.Number})
	return true, nil
}
