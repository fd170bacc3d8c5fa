package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nomyx/engine/event"
	"github.com/nomyx/engine/ids"
)

// These are aliased into package engine so callers never need to
// import package ids directly for ordinary use.
type (
	RuleNumber   = ids.RuleNumber
	PlayerNumber = ids.PlayerNumber
	EventNumber  = ids.EventNumber
	OutputNumber = ids.OutputNumber
)

// System is the reserved acting-rule number for host-originated
// mutations attributed to no rule; see ids.System.
const System = ids.System

// RuleStatus is a Rule's position in its Proposed/Active/Rejected
// lifecycle.
type RuleStatus int

const (
	Proposed RuleStatus = iota
	Active
	Rejected
)

func (s RuleStatus) String() string {
	switch s {
	case Proposed:
		return "proposed"
	case Active:
		return "active"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Rule is one governance rule: its opaque source text, its compiled
// effectful body, and its place in the Proposed/Active/Rejected
// lifecycle.
type Rule struct {
	Number        RuleNumber
	Name          string
	Description   string
	Source        string
	Body          Expr
	Proposer      PlayerNumber
	Status        RuleStatus
	AssessingRule RuleNumber
}

func (r *Rule) copy() *Rule {
	cp := *r
	return &cp
}

// Variable is a rule-gated, typed slot of game state. Type is fixed at
// creation (the Go type of Value when CreateVar ran); a write whose
// value has a different dynamic type is rejected rather than applied.
type Variable struct {
	Owner RuleNumber
	Name  string
	Value interface{}
	Type  string
}

func (v *Variable) copy() *Variable {
	cp := *v
	return &cp
}

// EventStatus is whether an EventInfo is still being offered
// occurrences by the trigger pipeline.
type EventStatus int

const (
	EventActive EventStatus = iota
	EventDeleted
)

// Handler builds the effectful expression to run once an EventInfo's
// Expr resolves to Done(value).
type Handler func(value interface{}) Expr

// EventInfo is one live event installed by a rule: the Event tree it
// resolves, the handler to run on completion, and the environment of
// occurrences bound against it so far.
type EventInfo struct {
	Number  EventNumber
	Owner   RuleNumber
	Expr    event.Event
	Handler Handler
	Status  EventStatus
	Env     []event.SignalOccurrence
}

func (e *EventInfo) copy() *EventInfo {
	cp := *e
	cp.Env = append([]event.SignalOccurrence(nil), e.Env...)
	return &cp
}

// OutputStatus is whether an Output is still being displayed.
type OutputStatus int

const (
	OutputActive OutputStatus = iota
	OutputDeleted
)

// Output is one piece of rendered game state: a pure producer
// expression, re-evaluated on demand, shown either to a single player
// or broadcast to all (Target == nil).
type Output struct {
	Number   OutputNumber
	Owner    RuleNumber
	Target   *PlayerNumber
	Producer PureExpr
	Status   OutputStatus
}

func (o *Output) copy() *Output {
	cp := *o
	if o.Target != nil {
		t := *o.Target
		cp.Target = &t
	}
	return &cp
}

// Player is one participant in the game.
type Player struct {
	Number PlayerNumber
	Name   string
}

func (p *Player) copy() *Player {
	cp := *p
	return &cp
}

// Victory records the game's declared winners, if any.
type Victory struct {
	DeclaringRule RuleNumber
	PlayerList    PureExpr
}

// LogEntry is one line of the game's append-only activity log. Player
// is nil for system-originated entries.
type LogEntry struct {
	Player    *PlayerNumber
	Timestamp time.Time
	Message   string
}

// Game is the root aggregate: every rule, player, variable, event,
// output, the victory condition once declared, the activity log, the
// game clock, and the RNG every random draw comes from. It plays the
// role the teacher's crew.Crew plays for a collection of machines:
// Game is the single mutable value every Expr evaluation runs against.
type Game struct {
	mu sync.Mutex

	ID          string
	Name        string
	Description string

	Rules     []*Rule
	Players   []*Player
	Variables []*Variable
	Events    []*EventInfo
	Outputs   []*Output
	Victory   *Victory
	Log       []*LogEntry

	Clock time.Time
	RNG   *rand.Rand
}

// New creates an empty Game seeded from seed (use a fixed seed for
// reproducible tests, a time-derived seed otherwise).
func New(name string, seed int64) *Game {
	return &Game{
		ID:     uuid.NewString(),
		Name:   name,
		Clock:  time.Now().UTC(),
		RNG:    rand.New(rand.NewSource(seed)),
	}
}

func (g *Game) rule(n RuleNumber) *Rule {
	for _, r := range g.Rules {
		if r.Number == n {
			return r
		}
	}
	return nil
}

func (g *Game) ruleActive(n RuleNumber) bool {
	r := g.rule(n)
	return r != nil && r.Status == Active
}

// CanMutate reports whether actingRule is allowed to apply a write:
// System always may; any other rule must currently be Active. This is
// the one rule-gating check every state-mutating Expr op runs before
// touching Game state.
func (g *Game) CanMutate(actingRule RuleNumber) bool {
	return actingRule == System || g.ruleActive(actingRule)
}

func (g *Game) variable(name string) *Variable {
	for _, v := range g.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func (g *Game) player(n PlayerNumber) *Player {
	for _, p := range g.Players {
		if p.Number == n {
			return p
		}
	}
	return nil
}

func (g *Game) event(n EventNumber) *EventInfo {
	for _, e := range g.Events {
		if e.Number == n {
			return e
		}
	}
	return nil
}

func (g *Game) output(n OutputNumber) *Output {
	for _, o := range g.Outputs {
		if o.Number == n {
			return o
		}
	}
	return nil
}

func nextEventNumber(g *Game) EventNumber {
	var max EventNumber
	for _, e := range g.Events {
		if e.Number > max {
			max = e.Number
		}
	}
	return max + 1
}

func nextOutputNumber(g *Game) OutputNumber {
	var max OutputNumber
	for _, o := range g.Outputs {
		if o.Number > max {
			max = o.Number
		}
	}
	return max + 1
}

// Logf appends one entry to the game's activity log, attributing it to
// actingRule's proposer (or to no player, for System).
func (g *Game) Logf(actingRule RuleNumber, format string, args ...interface{}) {
	var pn *PlayerNumber
	if r := g.rule(actingRule); r != nil && actingRule != System {
		p := r.Proposer
		pn = &p
	}
	g.Log = append(g.Log, &LogEntry{
		Player:    pn,
		Timestamp: g.Clock,
		Message:   fmt.Sprintf(format, args...),
	})
}

// Copy returns a deep clone of the Game suitable for Simu's
// hypothetical execution: mutating the clone never touches g.
//
// math/rand.Rand's internal generator state isn't exported, so a
// byte-for-byte RNG clone isn't possible through the public API; the
// clone's *rand.Rand is reseeded by drawing one int64 from the live
// generator. Simulation purity (the real Game is unchanged after
// Simu returns) holds regardless, since that only requires g itself
// to be untouched — it does not require the clone's future draws to
// replay the real stream.
func (g *Game) Copy() *Game {
	g.mu.Lock()
	defer g.mu.Unlock()

	cp := &Game{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Clock:       g.Clock,
		RNG:         rand.New(rand.NewSource(g.RNG.Int63())),
	}
	for _, r := range g.Rules {
		cp.Rules = append(cp.Rules, r.copy())
	}
	for _, p := range g.Players {
		cp.Players = append(cp.Players, p.copy())
	}
	for _, v := range g.Variables {
		cp.Variables = append(cp.Variables, v.copy())
	}
	for _, e := range g.Events {
		cp.Events = append(cp.Events, e.copy())
	}
	for _, o := range g.Outputs {
		cp.Outputs = append(cp.Outputs, o.copy())
	}
	if g.Victory != nil {
		v := *g.Victory
		cp.Victory = &v
	}
	cp.Log = append(cp.Log, g.Log...)
	return cp
}
