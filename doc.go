// Package engine is the root of a module providing the effect
// interpreter, event-combinator language, signal trigger pipeline, and
// voting machinery for a programmable governance game. This root
// package holds only this documentation; the code lives in the
// subpackages named below.
//
// The two-tier expression language lives in package 'engine'
// (github.com/nomyx/engine/engine): PureExpr for read-only queries
// (including hypothetical Simu execution) and Expr for state-mutating
// rule bodies. The algebraic event language and its
// structural resolver are in package 'event'; the pipeline that feeds
// signal occurrences to live events is in package 'trigger'; the vote
// module is in package 'vote'.
//
// See SPEC_FULL.md for the full component map.
package engine
