// Package trigger feeds real-world signal occurrences — player input,
// clock ticks, named messages, rule/player/victory lifecycle events —
// to a Game's live events, and fires the handler of whichever events
// those occurrences complete. It plays the role the teacher's
// Spec.Walk loop plays for a crew of machines: a single-threaded,
// depth-first, re-entrant dispatch loop with no internal queue.
package trigger

import (
	"sort"
	"time"

	"github.com/nomyx/engine/engine"
	"github.com/nomyx/engine/event"
)

// Pipeline is the trigger entry point bound to one Game. Trace, if
// set, is called for every candidate event considered on every
// injection, matched or not.
type Pipeline struct {
	Game  *engine.Game
	Trace func(TraceEvent)
}

// NewPipeline binds a Pipeline to g.
func NewPipeline(g *engine.Game) *Pipeline {
	return &Pipeline{Game: g}
}

func (p *Pipeline) trace(number engine.EventNumber, sig event.Signal, matched, done bool, reason string) {
	if p.Trace == nil {
		return
	}
	p.Trace(TraceEvent{Event: number, Signal: sig, Matched: matched, Done: done, Reason: reason})
}

// hooksFor wires an EffectCtx's Hooks back into this same Pipeline, so
// a rule body's ActivateRuleOp/RejectRuleOp/SendMessage/DeclareVictory
// recursively feed the lifecycle/message signals they emit straight
// back into the trigger walk, depth-first, before the outer injection
// call returns.
func (p *Pipeline) hooksFor(owner engine.RuleNumber) engine.Hooks {
	return engine.Hooks{
		Lifecycle: func(occ engine.LifecycleOccurrence) { p.injectLifecycle(occ) },
		Message:   func(name string, payload interface{}) { p.InjectMessage(name, payload) },
	}
}

func (p *Pipeline) effectCtx(owner engine.RuleNumber) *engine.EffectCtx {
	return &engine.EffectCtx{Game: p.Game, ActingRule: owner, Hooks: p.hooksFor(owner)}
}

// candidates returns every Active EventInfo, ascending by owning rule
// number, the fixed dispatch order §5 of the specification this
// package implements requires.
func (p *Pipeline) candidates() []*engine.EventInfo {
	out := make([]*engine.EventInfo, 0, len(p.Game.Events))
	for _, ei := range p.Game.Events {
		if ei.Status == engine.EventActive {
			out = append(out, ei)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Owner < out[j].Owner })
	return out
}

// commit tries to bind occ against ei's current environment, updating
// ei.Env and returning the resolved value if doing so completes ei.
// addr is nil for broadcast-style signals (timer/message/lifecycle/
// victory), where the address is discovered by matching rather than
// supplied by the caller.
func (p *Pipeline) commit(ei *engine.EventInfo, sig event.Signal, payload interface{}, addr *event.SignalAddress) (fired bool, value interface{}) {
	cur := event.Resolve(ei.Expr, ei.Env)
	if cur.Done {
		// Idempotence of completion: re-injecting into an event that's
		// already resolved (handler dispatch pending or just fired) is
		// a no-op.
		p.trace(ei.Number, sig, false, true, "already done")
		return false, nil
	}

	var targets []event.PendingSignal
	if addr != nil {
		for _, pend := range cur.Pending {
			if pend.Address.Equal(*addr) && pend.Signal.Equal(sig) {
				targets = append(targets, pend)
				break
			}
		}
	} else {
		targets = event.MatchingAddresses(cur.Pending, sig)
	}
	if len(targets) == 0 {
		p.trace(ei.Number, sig, false, false, "no matching pending leaf")
		return false, nil
	}

	newEnv := append([]event.SignalOccurrence(nil), ei.Env...)
	for _, t := range targets {
		newEnv = append(newEnv, event.SignalOccurrence{Signal: t.Signal, Payload: payload, Address: t.Address})
	}
	ei.Env = newEnv

	next := event.Resolve(ei.Expr, ei.Env)
	if next.Done {
		ei.Env = nil
		p.trace(ei.Number, sig, true, true, "")
		return true, next.Value
	}
	p.trace(ei.Number, sig, true, false, "")
	return false, nil
}

// fire runs ei's handler over value under ei's owning rule's scope. A
// *ThrownError the handler doesn't catch itself is logged and
// otherwise swallowed — per the "uncaught throw inside a handler"
// edge case, the handler dispatch that raised it simply does not
// complete any further mutation, but the pipeline keeps running.
func (p *Pipeline) fire(ei *engine.EventInfo, value interface{}) {
	ctx := p.effectCtx(ei.Owner)
	_, err := engine.EvalEffect(ctx, ei.Handler(value))
	if te, ok := err.(*engine.ThrownError); ok {
		p.Game.Logf(ei.Owner, "Error in rule %d (triggered by event %d): %s", ei.Owner, ei.Number, te.Message)
	}
}

// InjectInput delivers player-supplied form data to the leaf of
// eventNumber's tree named by address. Unlike the broadcast injectors,
// the address is supplied by the caller (echoed back from whatever
// Descriptor the host rendered), since two structurally distinct
// leaves can carry an identical signal and only the address tells them
// apart. Reports whether the input was bound into the event's
// environment, whether or not that completed the event.
func (p *Pipeline) InjectInput(eventNumber engine.EventNumber, address event.SignalAddress, data event.InputData) bool {
	ei := p.findEvent(eventNumber)
	if ei == nil {
		return false
	}
	cur := event.Resolve(ei.Expr, ei.Env)
	if cur.Done {
		return false
	}
	var target *event.PendingSignal
	for i := range cur.Pending {
		if cur.Pending[i].Address.Equal(address) {
			target = &cur.Pending[i]
			break
		}
	}
	if target == nil {
		p.trace(eventNumber, event.Signal{Kind: data.Kind}, false, false, "no pending leaf at address")
		return false
	}
	payload, err := target.Signal.Payload(data)
	if err != nil {
		p.trace(eventNumber, target.Signal, false, false, err.Error())
		return false
	}
	fired, value := p.commit(ei, target.Signal, payload, &address)
	if fired {
		p.fire(ei, value)
	}
	return true
}

// PendingInputs returns the leaves eventNumber is currently waiting on
// that a host should render as form fields.
func (p *Pipeline) PendingInputs(eventNumber engine.EventNumber) []event.PendingSignal {
	ei := p.findEvent(eventNumber)
	if ei == nil {
		return nil
	}
	return event.Resolve(ei.Expr, ei.Env).Pending
}

func (p *Pipeline) findEvent(number engine.EventNumber) *engine.EventInfo {
	for _, ei := range p.Game.Events {
		if ei.Number == number && ei.Status == engine.EventActive {
			return ei
		}
	}
	return nil
}

// InjectTime broadcasts the current wall-clock time to every live
// event, advancing the game clock first. A pending Timer leaf is
// satisfied once now has reached or passed its deadline.
func (p *Pipeline) InjectTime(now time.Time) {
	p.Game.Clock = now
	sig := event.Signal{Kind: event.Timer, At: now}
	p.broadcast(sig, now)
}

// InjectMessage broadcasts a named message to every live event.
func (p *Pipeline) InjectMessage(name string, payload interface{}) {
	sig := event.Signal{Kind: event.Message, Name: name}
	p.broadcast(sig, payload)
}

func (p *Pipeline) injectLifecycle(occ engine.LifecycleOccurrence) {
	var sig event.Signal
	switch occ.Kind {
	case engine.RuleProposed:
		sig = event.Signal{Kind: event.RuleLifecycle, Name: "proposed", Rule: occ.Rule}
	case engine.RuleActivated:
		sig = event.Signal{Kind: event.RuleLifecycle, Name: "activated", Rule: occ.Rule}
	case engine.RuleRejected:
		sig = event.Signal{Kind: event.RuleLifecycle, Name: "rejected", Rule: occ.Rule}
	case engine.RuleAdded:
		sig = event.Signal{Kind: event.RuleLifecycle, Name: "added", Rule: occ.Rule}
	case engine.RuleModified:
		sig = event.Signal{Kind: event.RuleLifecycle, Name: "modified", Rule: occ.Rule}
	case engine.PlayerArrived:
		sig = event.Signal{Kind: event.PlayerLifecycle, Name: "arrive", Player: occ.Player}
	case engine.PlayerLeft:
		sig = event.Signal{Kind: event.PlayerLifecycle, Name: "leave", Player: occ.Player}
	case engine.VictoryDeclared:
		sig = event.Signal{Kind: event.Victory}
	default:
		return
	}
	p.broadcast(sig, occ)
}

// InjectLifecycle is the public entry point for a host-originated
// lifecycle event (for example after the host evaluates an Expr through
// an EffectCtx that has no Hooks). Rule-body-originated lifecycle
// occurrences reach the pipeline through Hooks instead; see
// injectLifecycle.
func (p *Pipeline) InjectLifecycle(occ engine.LifecycleOccurrence) {
	p.injectLifecycle(occ)
}

// broadcast fans sig out to every candidate event it currently
// matches, firing handlers depth-first as each candidate completes —
// a handler firing may itself call back into this same Pipeline via
// Hooks before broadcast moves on to the next candidate.
func (p *Pipeline) broadcast(sig event.Signal, payload interface{}) {
	for _, ei := range p.candidates() {
		fired, value := p.commit(ei, sig, payload, nil)
		if fired {
			p.fire(ei, value)
		}
	}
}

// ActivateRule transitions a Proposed rule to Active under assessingRule's
// authority and broadcasts the resulting lifecycle signal — the
// engine-facing entry point a host driver calls directly, as opposed
// to a rule calling ActivateRuleOp from inside its own body.
func (p *Pipeline) ActivateRule(assessingRule, number engine.RuleNumber) bool {
	ctx := p.effectCtx(assessingRule)
	ok, _ := engine.EvalEffect(ctx, engine.ActivateRuleOp{Number: number})
	b, _ := ok.(bool)
	return b
}

// RejectRule transitions a rule to Rejected (cascading to every rule
// it assesses) and broadcasts the resulting lifecycle signal(s).
func (p *Pipeline) RejectRule(assessingRule, number engine.RuleNumber) bool {
	ctx := p.effectCtx(assessingRule)
	ok, _ := engine.EvalEffect(ctx, engine.RejectRuleOp{Number: number})
	b, _ := ok.(bool)
	return b
}
