package engine

import "github.com/nomyx/engine/event"

// Expr is the state-mutating rule-body language: variable
// create/write/delete, installing and deleting events, output
// create/update/delete, the rule lifecycle (propose/activate/reject/
// add/modify), player rename/remove, declaring victory, sending a
// message, drawing a random int, raising and catching errors, and the
// effect monad's LiftPure/Return/Bind.
type Expr interface {
	exprTag()
}

// CreateVar creates a new variable, fixing its type to Value's dynamic
// type for the lifetime of the variable.
type CreateVar struct {
	Name  string
	Value interface{}
}

func (CreateVar) exprTag() {}

// WriteVar overwrites an existing variable's value, so long as the new
// value's dynamic type matches the variable's fixed type.
type WriteVar struct {
	Name  string
	Value interface{}
}

func (WriteVar) exprTag() {}

// DeleteVar removes a variable.
type DeleteVar struct {
	Name string
}

func (DeleteVar) exprTag() {}

// OnEvent installs a live event: resolving Expr drives Handler, which
// builds the effectful continuation to run once it completes.
// Evaluates to the newly-allocated EventNumber.
type OnEvent struct {
	Expr    event.Event
	Handler Handler
}

func (OnEvent) exprTag() {}

// DeleteEvent marks an EventInfo deleted; it stops being offered
// occurrences by the trigger pipeline.
type DeleteEvent struct {
	Number EventNumber
}

func (DeleteEvent) exprTag() {}

// CreateOutput creates a new Output. Target nil broadcasts to every
// player; non-nil addresses a single player. Evaluates to the
// newly-allocated OutputNumber.
type CreateOutput struct {
	Target   *PlayerNumber
	Producer PureExpr
}

func (CreateOutput) exprTag() {}

// UpdateOutput replaces an existing Output's producer expression.
type UpdateOutput struct {
	Number   OutputNumber
	Producer PureExpr
}

func (UpdateOutput) exprTag() {}

// DeleteOutput marks an Output deleted.
type DeleteOutput struct {
	Number OutputNumber
}

func (DeleteOutput) exprTag() {}

// ProposeRule creates a new Rule in the Proposed status under the
// given, caller-supplied Number. Evaluates to false if Number has
// already been used by a rule in this game.
type ProposeRule struct {
	Number      RuleNumber
	Name        string
	Description string
	Source      string
	Body        Expr
	Proposer    PlayerNumber
}

func (ProposeRule) exprTag() {}

// ActivateRuleOp transitions a Proposed rule to Active under the
// acting rule's authority, running the rule's Body once. Evaluates to
// false if Number doesn't name a Proposed rule.
type ActivateRuleOp struct {
	Number RuleNumber
}

func (ActivateRuleOp) exprTag() {}

// RejectRuleOp transitions a rule to Rejected, cascading the rejection
// to every rule whose AssessingRule is this one. Evaluates to false if
// Number is unknown.
type RejectRuleOp struct {
	Number RuleNumber
}

func (RejectRuleOp) exprTag() {}

// AddRule bypasses the Proposed stage entirely, creating a rule that
// is Active from the moment it's added and running its Body
// immediately. Used by bootstrap/system rule installation.
type AddRule struct {
	Number      RuleNumber
	Name        string
	Description string
	Source      string
	Body        Expr
	Proposer    PlayerNumber
}

func (AddRule) exprTag() {}

// ModifyRule updates the named fields of an existing rule in place. A
// nil pointer/Expr field leaves that field unchanged.
type ModifyRule struct {
	Number      RuleNumber
	Name        *string
	Description *string
	Source      *string
	Body        Expr
}

func (ModifyRule) exprTag() {}

// RenamePlayer changes a player's display name.
type RenamePlayer struct {
	Number PlayerNumber
	Name   string
}

func (RenamePlayer) exprTag() {}

// RemovePlayer removes a player from the game.
type RemovePlayer struct {
	Number PlayerNumber
}

func (RemovePlayer) exprTag() {}

// DeclareVictory sets the game's Victory, recording the acting rule as
// the one that declared it.
type DeclareVictory struct {
	PlayerList PureExpr
}

func (DeclareVictory) exprTag() {}

// SendMessage hands a named, arbitrary-payload message off to whatever
// is listening for Message signals — a no-op if nothing is.
type SendMessage struct {
	Name    string
	Payload interface{}
}

func (SendMessage) exprTag() {}

// RandomInt draws a uniform random integer in [Min, Max] from the
// game's RNG.
type RandomInt struct {
	Min, Max int
}

func (RandomInt) exprTag() {}

// ThrowError raises a recoverable, rule-level error. Propagates up the
// Expr evaluation as a *ThrownError until a CatchError intercepts it.
type ThrowError struct {
	Message string
}

func (ThrowError) exprTag() {}

// ErrorHandler builds the effectful expression to run when a
// CatchError intercepts a *ThrownError raised inside its Body.
type ErrorHandler func(message string) Expr

// CatchError runs Body; if it raises a *ThrownError, runs
// Handler(message) instead and adopts its result. Any mutation Body
// performed before throwing is not rolled back.
type CatchError struct {
	Body    Expr
	Handler ErrorHandler
}

func (CatchError) exprTag() {}

// LiftPureEffect lifts a PureExpr into the effect language, evaluating
// it read-only under the current acting rule.
type LiftPureEffect struct {
	Expr PureExpr
}

func (LiftPureEffect) exprTag() {}

// ExprReturn lifts a plain value into Expr.
type ExprReturn struct {
	Value interface{}
}

func (ExprReturn) exprTag() {}

// ExprBind sequences an effectful expression into a Go continuation
// that builds the next effectful expression to run.
type ExprBind struct {
	Expr Expr
	Cont func(interface{}) Expr
}

func (ExprBind) exprTag() {}
