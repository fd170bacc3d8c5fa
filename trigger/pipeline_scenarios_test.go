package trigger

import (
	"testing"
	"time"

	"github.com/nomyx/engine/engine"
	"github.com/nomyx/engine/event"
)

func newActiveGame(t *testing.T) (*engine.Game, *Pipeline) {
	t.Helper()
	g := engine.New("test", 1)
	g.Rules = append(g.Rules, &engine.Rule{Number: 1, Status: engine.Active})
	return g, NewPipeline(g)
}

// Scenario: a single-signal event installed by an active rule fires
// its handler exactly once when the matching input arrives.
func TestScenarioInputCompletesEvent(t *testing.T) {
	g, p := newActiveGame(t)
	ctx := &engine.EffectCtx{Game: g, ActingRule: 1}

	tree := event.SignalLeaf{Signal: event.Signal{
		Kind:    event.InputRadio,
		Player:  1,
		Prompt:  "proceed?",
		Choices: []event.Choice{{Label: "Yes", Value: true}, {Label: "No", Value: false}},
	}}
	fired := false
	handler := func(v interface{}) engine.Expr {
		fired = v.(bool)
		return engine.ExprReturn{Value: nil}
	}
	num, err := engine.EvalEffect(ctx, engine.OnEvent{Expr: tree, Handler: handler})
	if err != nil {
		t.Fatal(err)
	}
	eventNumber := num.(engine.EventNumber)

	pending := p.PendingInputs(eventNumber)
	if len(pending) != 1 {
		t.Fatalf("expected one pending leaf, got %d", len(pending))
	}

	ok := p.InjectInput(eventNumber, pending[0].Address, event.InputData{Kind: event.InputRadio, RadioIndex: 0})
	if !ok {
		t.Fatalf("expected input to complete the event")
	}
	if !fired {
		t.Fatalf("expected handler to run with the Yes choice's bound value")
	}
}

// Scenario: an event installed by a rule that is not (yet) Active
// never gets installed at all, so no signal can ever reach it.
func TestScenarioProposedRuleCannotInstallEvents(t *testing.T) {
	g := engine.New("test", 1)
	g.Rules = append(g.Rules, &engine.Rule{Number: 1, Status: engine.Proposed})
	ctx := &engine.EffectCtx{Game: g, ActingRule: 1}

	tree := event.SignalLeaf{Signal: event.Signal{Kind: event.Message, Name: "go"}}
	num, err := engine.EvalEffect(ctx, engine.OnEvent{Expr: tree, Handler: func(interface{}) engine.Expr { return engine.ExprReturn{} }})
	if err != nil {
		t.Fatal(err)
	}
	if num.(engine.EventNumber) != 0 {
		t.Fatalf("expected no event installed, got number %v", num)
	}
	if len(g.Events) != 0 {
		t.Fatalf("expected zero events in the game")
	}
}

// Scenario: rejecting a rule tombstones its still-pending events, so a
// signal arriving afterwards never runs their handlers. The variable is
// owned by System so that it survives the rejected rule's purge.
func TestScenarioRejectedRuleEventStopsMutatingOnFire(t *testing.T) {
	g, p := newActiveGame(t)
	ctx := &engine.EffectCtx{Game: g, ActingRule: 1}
	if _, err := engine.EvalEffect(&engine.EffectCtx{Game: g, ActingRule: engine.System}, engine.CreateVar{Name: "seen", Value: false}); err != nil {
		t.Fatal(err)
	}

	tree := event.SignalLeaf{Signal: event.Signal{Kind: event.Message, Name: "go"}}
	handler := func(interface{}) engine.Expr {
		return engine.WriteVar{Name: "seen", Value: true}
	}
	if _, err := engine.EvalEffect(ctx, engine.OnEvent{Expr: tree, Handler: handler}); err != nil {
		t.Fatal(err)
	}

	// Reject rule 1 before the message ever arrives.
	if _, err := engine.EvalEffect(&engine.EffectCtx{Game: g, ActingRule: engine.System}, engine.RejectRuleOp{Number: 1}); err != nil {
		t.Fatal(err)
	}

	p.InjectMessage("go", nil)
	if g.Rules[0].Status != engine.Rejected {
		t.Fatalf("rule should be rejected")
	}
	if g.Variables[0].Value != false {
		t.Fatalf("a rejected rule's event handler should not be able to mutate state, but seen=%v", g.Variables[0].Value)
	}
}

// Scenario: activating a rule broadcasts a RuleLifecycle signal that
// another rule's already-installed event can observe.
func TestScenarioRuleActivationBroadcastsLifecycle(t *testing.T) {
	g := engine.New("test", 1)
	g.Rules = append(g.Rules, &engine.Rule{Number: 1, Status: engine.Active})
	g.Rules = append(g.Rules, &engine.Rule{Number: 2, Status: engine.Proposed})
	p := NewPipeline(g)

	observerCtx := &engine.EffectCtx{Game: g, ActingRule: 1}
	if _, err := engine.EvalEffect(observerCtx, engine.CreateVar{Name: "saw-activation", Value: false}); err != nil {
		t.Fatal(err)
	}
	tree := event.SignalLeaf{Signal: event.Signal{Kind: event.RuleLifecycle, Name: "activated", Rule: 2}}
	handler := func(interface{}) engine.Expr { return engine.WriteVar{Name: "saw-activation", Value: true} }
	if _, err := engine.EvalEffect(observerCtx, engine.OnEvent{Expr: tree, Handler: handler}); err != nil {
		t.Fatal(err)
	}

	if !p.ActivateRule(engine.System, 2) {
		t.Fatalf("expected rule 2 to activate")
	}
	if g.Variables[0].Value != true {
		t.Fatalf("expected the observing event to have fired on rule 2's activation")
	}
}

// Scenario: a timer signal only satisfies a pending deadline once the
// injected time has reached or passed it, not before.
func TestScenarioTimerThresholdMatching(t *testing.T) {
	g, p := newActiveGame(t)
	ctx := &engine.EffectCtx{Game: g, ActingRule: 1}

	deadline := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	fired := false
	tree := event.SignalLeaf{Signal: event.Signal{Kind: event.Timer, At: deadline}}
	handler := func(interface{}) engine.Expr {
		fired = true
		return engine.ExprReturn{}
	}
	if _, err := engine.EvalEffect(ctx, engine.OnEvent{Expr: tree, Handler: handler}); err != nil {
		t.Fatal(err)
	}

	p.InjectTime(deadline.Add(-time.Minute))
	if fired {
		t.Fatalf("timer fired before its deadline")
	}
	p.InjectTime(deadline.Add(time.Minute))
	if !fired {
		t.Fatalf("timer did not fire after its deadline passed")
	}
}

// Scenario: bad input data (wrong form kind, out-of-range choice) is
// dropped silently and leaves the event's environment untouched.
func TestScenarioBadInputDroppedSilently(t *testing.T) {
	g, p := newActiveGame(t)
	ctx := &engine.EffectCtx{Game: g, ActingRule: 1}
	tree := event.SignalLeaf{Signal: event.Signal{
		Kind:    event.InputRadio,
		Choices: []event.Choice{{Label: "Yes", Value: true}},
	}}
	called := false
	num, err := engine.EvalEffect(ctx, engine.OnEvent{Expr: tree, Handler: func(interface{}) engine.Expr {
		called = true
		return engine.ExprReturn{}
	}})
	if err != nil {
		t.Fatal(err)
	}
	eventNumber := num.(engine.EventNumber)
	pending := p.PendingInputs(eventNumber)

	ok := p.InjectInput(eventNumber, pending[0].Address, event.InputData{Kind: event.InputRadio, RadioIndex: 7})
	if ok || called {
		t.Fatalf("expected out-of-range input to be dropped")
	}
	if len(p.PendingInputs(eventNumber)) != 1 {
		t.Fatalf("event's environment should be unaffected by dropped bad input")
	}
}
