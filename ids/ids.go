// Package ids holds the small numeric identifier types shared between
// package event and package engine. It exists only to break the import
// cycle those two packages would otherwise form (engine holds event
// trees, event's LiftPure hook is implemented by engine) — see
// DESIGN.md.
package ids

// RuleNumber identifies a Rule within a Game. Numbers are assigned by
// the proposer (propose/add) and must be unique among rules that have
// ever existed in the game.
type RuleNumber int

// PlayerNumber identifies a Player within a Game.
type PlayerNumber int

// EventNumber identifies a live EventInfo within a Game. Numbers are
// allocated by the engine, one greater than the highest number ever
// issued.
type EventNumber int

// OutputNumber identifies an Output within a Game, allocated as one
// greater than the highest number held by an Output still in the
// Game. Outputs purged on rule rejection are removed, so their numbers
// can be issued again.
type OutputNumber int

// System is the reserved acting-rule number for engine- or
// host-originated mutations that are not attributed to any rule.
// Writes made under System always pass the rule-gate check.
const System RuleNumber = 0
