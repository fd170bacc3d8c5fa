package engine

import (
	"testing"

	"github.com/nomyx/engine/event"
)

func newTestGame() *Game {
	return New("test", 1)
}

func TestRuleGatedWritesDroppedWhenNotActive(t *testing.T) {
	g := newTestGame()
	g.Rules = append(g.Rules, &Rule{Number: 1, Status: Proposed})

	ctx := &EffectCtx{Game: g, ActingRule: 1}
	v, err := EvalEffect(ctx, CreateVar{Name: "x", Value: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != false {
		t.Fatalf("expected write from a Proposed rule to be dropped, got %v", v)
	}
	if g.variable("x") != nil {
		t.Fatalf("variable should not have been created")
	}
}

func TestRuleGatedWritesAllowedWhenActive(t *testing.T) {
	g := newTestGame()
	g.Rules = append(g.Rules, &Rule{Number: 1, Status: Active})

	ctx := &EffectCtx{Game: g, ActingRule: 1}
	v, err := EvalEffect(ctx, CreateVar{Name: "x", Value: 1})
	if err != nil || v != true {
		t.Fatalf("expected write to succeed, got %v, %v", v, err)
	}
	if g.variable("x") == nil {
		t.Fatalf("variable should have been created")
	}
}

func TestSystemWritesAlwaysAllowed(t *testing.T) {
	g := newTestGame()
	ctx := &EffectCtx{Game: g, ActingRule: System}
	v, err := EvalEffect(ctx, CreateVar{Name: "x", Value: 1})
	if err != nil || v != true {
		t.Fatalf("expected system write to succeed, got %v, %v", v, err)
	}
}

func TestWriteVarTypeMismatchRejected(t *testing.T) {
	g := newTestGame()
	ctx := &EffectCtx{Game: g, ActingRule: System}
	if _, err := EvalEffect(ctx, CreateVar{Name: "x", Value: 1}); err != nil {
		t.Fatal(err)
	}
	v, err := EvalEffect(ctx, WriteVar{Name: "x", Value: "not an int"})
	if err != nil {
		t.Fatal(err)
	}
	if v != false {
		t.Fatalf("expected type-mismatched write to be rejected, got %v", v)
	}
	if g.variable("x").Value != 1 {
		t.Fatalf("variable value should not have changed")
	}
}

func TestActivateRuleRunsBodyUnderItsOwnScope(t *testing.T) {
	g := newTestGame()
	ctx := &EffectCtx{Game: g, ActingRule: System}

	body := CreateVar{Name: "ran-as-rule-1", Value: true}
	if _, err := EvalEffect(ctx, ProposeRule{Number: 1, Body: body}); err != nil {
		t.Fatal(err)
	}
	v, err := EvalEffect(ctx, ActivateRuleOp{Number: 1})
	if err != nil || v != true {
		t.Fatalf("activate failed: %v, %v", v, err)
	}
	if g.variable("ran-as-rule-1") == nil {
		t.Fatalf("rule body should have run on activation")
	}
	if g.rule(1).Status != Active {
		t.Fatalf("rule should now be Active")
	}
}

func TestRejectionCascadesToAssessedRules(t *testing.T) {
	g := newTestGame()
	ctx := &EffectCtx{Game: g, ActingRule: System}

	// Rule 1 is active and activated rule 2, which in turn activated
	// rule 3; rule 4 was activated by an unrelated rule.
	g.Rules = append(g.Rules, &Rule{Number: 1, Status: Active})
	g.Rules = append(g.Rules, &Rule{Number: 2, Status: Active, AssessingRule: 1})
	g.Rules = append(g.Rules, &Rule{Number: 3, Status: Active, AssessingRule: 2})
	g.Rules = append(g.Rules, &Rule{Number: 4, Status: Active, AssessingRule: 99})

	v, err := EvalEffect(ctx, RejectRuleOp{Number: 1})
	if err != nil || v != true {
		t.Fatalf("reject failed: %v, %v", v, err)
	}
	if g.rule(1).Status != Rejected || g.rule(2).Status != Rejected || g.rule(3).Status != Rejected {
		t.Fatalf("expected 1, 2, and 3 all rejected by cascade: %v %v %v",
			g.rule(1).Status, g.rule(2).Status, g.rule(3).Status)
	}
	if g.rule(4).Status != Active {
		t.Fatalf("rule 4 was assessed by an unrelated rule and should be unaffected")
	}
}

// TestRejectionPurgesOwnedState: rejecting a rule cascade-deletes every
// variable, event, and output it owns, and clears the victory record if
// it was the one that declared it (spec.md §3 Rule invariant, §8 "Rule
// rejection cascade").
func TestRejectionPurgesOwnedState(t *testing.T) {
	g := newTestGame()
	ctx := &EffectCtx{Game: g, ActingRule: System}

	g.Rules = append(g.Rules, &Rule{Number: 1, Status: Active})
	ruleCtx := &EffectCtx{Game: g, ActingRule: 1}

	if _, err := EvalEffect(ruleCtx, CreateVar{Name: "Y", Value: 1}); err != nil {
		t.Fatal(err)
	}
	tree := event.SignalLeaf{Signal: event.Signal{Kind: event.Message, Name: "never-arrives"}}
	num, err := EvalEffect(ruleCtx, OnEvent{Expr: tree, Handler: func(interface{}) Expr { return ExprReturn{} }})
	if err != nil {
		t.Fatal(err)
	}
	eventNumber := num.(EventNumber)
	outNum, err := EvalEffect(ruleCtx, CreateOutput{Producer: PureReturn{Value: "hi"}})
	if err != nil {
		t.Fatal(err)
	}
	outputNumber := outNum.(OutputNumber)
	if _, err := EvalEffect(ruleCtx, DeclareVictory{PlayerList: PureReturn{Value: nil}}); err != nil {
		t.Fatal(err)
	}
	if g.Victory == nil || g.Victory.DeclaringRule != 1 {
		t.Fatalf("expected rule 1 to have declared victory")
	}

	v, err := EvalEffect(ctx, RejectRuleOp{Number: 1})
	if err != nil || v != true {
		t.Fatalf("reject failed: %v, %v", v, err)
	}

	if g.variable("Y") != nil {
		t.Fatalf("expected variable Y to be removed, still present")
	}
	if g.output(outputNumber) != nil {
		t.Fatalf("expected output %d to be removed, still present", outputNumber)
	}
	ei := g.event(eventNumber)
	if ei == nil || ei.Status != EventDeleted {
		t.Fatalf("expected event %d tombstoned as Deleted, got %v", eventNumber, ei)
	}
	if g.Victory != nil {
		t.Fatalf("expected victory record cleared, still %v", g.Victory)
	}
}

func TestDuplicateRuleNumberRejected(t *testing.T) {
	g := newTestGame()
	ctx := &EffectCtx{Game: g, ActingRule: System}
	if _, err := EvalEffect(ctx, ProposeRule{Number: 1}); err != nil {
		t.Fatal(err)
	}
	v, err := EvalEffect(ctx, ProposeRule{Number: 1})
	if err != nil {
		t.Fatal(err)
	}
	if v != false {
		t.Fatalf("expected duplicate rule number to be rejected, got %v", v)
	}
}

func TestCatchErrorInterceptsThrow(t *testing.T) {
	g := newTestGame()
	ctx := &EffectCtx{Game: g, ActingRule: System}

	e := CatchError{
		Body: ExprBind{
			Expr: CreateVar{Name: "before-throw", Value: 1},
			Cont: func(interface{}) Expr { return ThrowError{Message: "boom"} },
		},
		Handler: func(msg string) Expr { return ExprReturn{Value: "caught: " + msg} },
	}
	v, err := EvalEffect(ctx, e)
	if err != nil {
		t.Fatalf("unexpected error escaped CatchError: %v", err)
	}
	if v != "caught: boom" {
		t.Fatalf("expected handler result, got %v", v)
	}
	if g.variable("before-throw") == nil {
		t.Fatalf("mutation before the throw should not be rolled back")
	}
}

func TestUncaughtThrowPropagates(t *testing.T) {
	g := newTestGame()
	ctx := &EffectCtx{Game: g, ActingRule: System}
	_, err := EvalEffect(ctx, ThrowError{Message: "boom"})
	te, ok := err.(*ThrownError)
	if !ok || te.Message != "boom" {
		t.Fatalf("expected *ThrownError(boom), got %v", err)
	}
}
