// Package snapshot persists and restores Game state, grounded on the
// teacher's cmd/mservice/storage package (Storage interface, bolt and
// no-op implementations) and adopting mxkacsa-statesync's
// Snapshot{Version} envelope idea (reimplemented without generics, to
// match this module's plain tagged-struct style) for forward
// compatibility as the Game shape evolves.
//
// A Game's Rule bodies, Output producers, and event trees are built
// out of Go closures (PureBind.Cont, ExprBind.Cont, Shortcut.Done,
// Handler) wherever a rule embeds host-language logic — the same
// embedding that makes the expression language extensible at all.
// Closures aren't JSON-marshalable, so this package persists a
// GameState summary of everything that is: rule metadata and opaque
// source text, players, variables, the log, the clock, and the
// victory declaration. Live EventInfo environments and compiled rule
// bodies are not round-tripped; a restored Game has its rules and
// variables back but no in-flight events, the same way restarting a
// process drops its goroutines.
package snapshot

import (
	"time"

	"github.com/nomyx/engine/engine"
)

// RuleState is the persisted half of a Rule: everything but its
// compiled Body.
type RuleState struct {
	Number        engine.RuleNumber
	Name          string
	Description   string
	Source        string
	Proposer      engine.PlayerNumber
	Status        engine.RuleStatus
	AssessingRule engine.RuleNumber
}

// VariableState is a persisted Variable.
type VariableState struct {
	Owner engine.RuleNumber
	Name  string
	Value interface{}
	Type  string
}

// VictoryState is the persisted half of a Victory: everything but its
// pure player-list producer.
type VictoryState struct {
	DeclaringRule engine.RuleNumber
}

// GameState is everything about a Game that survives a save/restore
// round trip.
type GameState struct {
	ID          string
	Name        string
	Description string
	Rules       []RuleState
	Players     []engine.Player
	Variables   []VariableState
	Log         []engine.LogEntry
	Clock       time.Time
	Victory     *VictoryState
}

// Summarize extracts g's persisted state.
func Summarize(g *engine.Game) GameState {
	s := GameState{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Clock:       g.Clock,
	}
	for _, r := range g.Rules {
		s.Rules = append(s.Rules, RuleState{
			Number:        r.Number,
			Name:          r.Name,
			Description:   r.Description,
			Source:        r.Source,
			Proposer:      r.Proposer,
			Status:        r.Status,
			AssessingRule: r.AssessingRule,
		})
	}
	for _, p := range g.Players {
		s.Players = append(s.Players, *p)
	}
	for _, v := range g.Variables {
		s.Variables = append(s.Variables, VariableState{Owner: v.Owner, Name: v.Name, Value: v.Value, Type: v.Type})
	}
	for _, l := range g.Log {
		s.Log = append(s.Log, *l)
	}
	if g.Victory != nil {
		s.Victory = &VictoryState{DeclaringRule: g.Victory.DeclaringRule}
	}
	return s
}

// Restore rebuilds a Game from a GameState. Rule bodies are left nil
// (a rule whose Body is nil simply runs no code on activation — see
// engine.activateRule) and no events are restored. A restored rule's
// number is already taken, so AddRule refuses it; ModifyRule can set
// its Body again, but does not run it.
func Restore(s GameState, rng int64) *engine.Game {
	g := engine.New(s.Name, rng)
	g.ID = s.ID
	g.Description = s.Description
	g.Clock = s.Clock
	for _, rs := range s.Rules {
		r := rs
		g.Rules = append(g.Rules, &engine.Rule{
			Number:        r.Number,
			Name:          r.Name,
			Description:   r.Description,
			Source:        r.Source,
			Proposer:      r.Proposer,
			Status:        r.Status,
			AssessingRule: r.AssessingRule,
		})
	}
	for _, p := range s.Players {
		p := p
		g.Players = append(g.Players, &p)
	}
	for _, vs := range s.Variables {
		vs := vs
		g.Variables = append(g.Variables, &engine.Variable{Owner: vs.Owner, Name: vs.Name, Value: vs.Value, Type: vs.Type})
	}
	for _, l := range s.Log {
		l := l
		g.Log = append(g.Log, &l)
	}
	if s.Victory != nil {
		g.Victory = &engine.Victory{DeclaringRule: s.Victory.DeclaringRule}
	}
	return g
}

// CurrentVersion is the Snapshot envelope format this package writes.
// Store implementations should reject or migrate a Snapshot whose
// Version is higher than they understand.
const CurrentVersion = 1

// Snapshot envelopes a persisted GameState with the metadata needed to
// evolve the format later without breaking old saves.
type Snapshot struct {
	Version int
	State   GameState
	SavedAt time.Time
}

// Store persists and restores Snapshots by an opaque string id (a
// Game.ID, typically).
type Store interface {
	Save(id string, snap Snapshot) error
	Load(id string) (Snapshot, bool, error)
	Delete(id string) error
}

// Save summarizes g and hands it to store at CurrentVersion.
func Save(store Store, id string, g *engine.Game, now time.Time) error {
	return store.Save(id, Snapshot{Version: CurrentVersion, State: Summarize(g), SavedAt: now})
}
