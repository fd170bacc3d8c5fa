package engine

// PureExpr is the read-only query language: variable and output
// reads, listing rules/players/events, self rule number, current
// time, the pure monad's Return/Bind, and Simu. One struct per case,
// the same discipline the teacher's core.Node/core.Branch AST uses
// instead of a single tagged union.
type PureExpr interface {
	pureTag()
}

// ReadVar reads a variable's current value. Evaluates to nil (with a
// nil error) if no variable with that name exists.
type ReadVar struct {
	Name string
}

func (ReadVar) pureTag() {}

// ReadOutput re-evaluates an Output's producer expression on demand.
type ReadOutput struct {
	Number OutputNumber
}

func (ReadOutput) pureTag() {}

// ListRules evaluates to a read-only snapshot of every rule the game
// has ever held.
type ListRules struct{}

func (ListRules) pureTag() {}

// ListPlayers evaluates to a read-only snapshot of every player.
type ListPlayers struct{}

func (ListPlayers) pureTag() {}

// ListEvents evaluates to a read-only snapshot of every EventInfo,
// deleted (tombstoned) ones included, with each one's current
// environment — this is how
// pure code (an Output's producer, say) can render an event's
// in-progress state without a dedicated "read event env" primitive.
type ListEvents struct{}

func (ListEvents) pureTag() {}

// SelfRuleNumber evaluates to the RuleNumber of the rule whose context
// this expression is being evaluated under.
type SelfRuleNumber struct{}

func (SelfRuleNumber) pureTag() {}

// CurrentTime evaluates to the game clock's current value.
type CurrentTime struct{}

func (CurrentTime) pureTag() {}

// PureReturn lifts a plain value into PureExpr.
type PureReturn struct {
	Value interface{}
}

func (PureReturn) pureTag() {}

// PureBind sequences a pure expression into a Go continuation that
// builds the next pure expression to evaluate — the language's one
// point of embedding arbitrary host-language logic, the same way the
// teacher's FuncAction embeds a Go closure behind the Action interface.
type PureBind struct {
	Expr PureExpr
	Cont func(interface{}) PureExpr
}

func (PureBind) pureTag() {}

// Simu runs an effectful expression against a private copy of the
// game, then evaluates a pure predicate against the resulting
// hypothetical state. The real Game is never touched: Simu is how
// rule code asks "what would happen if" without committing to it.
type Simu struct {
	Effect    Expr
	Predicate PureExpr
}

func (Simu) pureTag() {}
