// Package vote layers the voting module on top of package event and
// package engine, the way the teacher's crew package layers
// Crew/Machine lifecycle operations on top of core's Spec/Step
// machinery.
package vote

import (
	"time"

	"github.com/nomyx/engine/engine"
	"github.com/nomyx/engine/event"
)

// VoteStats summarizes a vote's current tally: how many voters said
// yes, how many said no, how many have been asked, and whether the
// vote is over (its timer fired, or everyone who was asked has
// answered).
type VoteStats struct {
	Yes, No      int
	Participants int
	Finished     bool
}

// Voters returns the vote's electorate size for quota purposes: while
// the vote is still open that's everyone who was asked, voted or not,
// since a non-voter still counts against a majority. Once the vote has
// Finished (its timer fired, or the last participant answered), the
// electorate collapses to Voted(s) — stragglers who never answered no
// longer count against the tally.
func Voters(s VoteStats) int {
	if s.Finished {
		return Voted(s)
	}
	return s.Participants
}

// Voted returns how many participants have cast a vote so far.
func Voted(s VoteStats) int {
	return s.Yes + s.No
}

// Assess looks at the current tally and decides: nil means "keep
// waiting", a non-nil *bool is the vote's final outcome.
type Assess func(VoteStats) *bool

func ptr(b bool) *bool { return &b }

// Quota is the shared law behind every assess function below: a vote
// succeeds the moment q voters have said yes, and fails the moment
// more than Voters(s)-q voters have said no (the remaining yes votes,
// even if everyone left voted yes, could not reach q). Voters(s)
// already collapses to Voted(s) once the vote has Finished, so a
// finished vote with abstainers is judged against who actually voted,
// not the original electorate size.
func Quota(q int, s VoteStats) *bool {
	if s.Yes >= q {
		return ptr(true)
	}
	if s.No > Voters(s)-q {
		return ptr(false)
	}
	return nil
}

// Unanimity requires every voter to say yes.
func Unanimity() Assess {
	return func(s VoteStats) *bool { return Quota(Voters(s), s) }
}

// Majority requires strictly more than half the electorate to say yes.
func Majority() Assess {
	return func(s VoteStats) *bool { return Quota(Voters(s)/2+1, s) }
}

// MajorityWith requires strictly more than pct percent of the
// electorate to say yes.
func MajorityWith(pct int) Assess {
	return func(s VoteStats) *bool { return Quota(Voters(s)*pct/100+1, s) }
}

// NumberVotes requires at least k yes votes, regardless of electorate
// size.
func NumberVotes(k int) Assess {
	return func(s VoteStats) *bool { return Quota(k, s) }
}

// WithQuorum wraps inner so it can't report a result until at least
// min participants have voted; a vote that times out before reaching
// quorum fails outright.
func WithQuorum(inner Assess, min int) Assess {
	return func(s VoteStats) *bool {
		if Voted(s) < min {
			if s.Finished {
				return ptr(false)
			}
			return nil
		}
		return inner(s)
	}
}

func statsFromResults(results []event.Maybe) VoteStats {
	timerFired := results[0].Ok
	yes, no := 0, 0
	allVoted := true
	for _, r := range results[1:] {
		if !r.Ok {
			allVoted = false
			continue
		}
		if b, _ := r.Value.(bool); b {
			yes++
		} else {
			no++
		}
	}
	return VoteStats{
		Yes:          yes,
		No:           no,
		Participants: len(results) - 1,
		Finished:     timerFired || allVoted,
	}
}

func timerLeaf(deadline time.Time) event.Event {
	return event.SignalLeaf{Signal: event.Signal{Kind: event.Timer, At: deadline}}
}

func singleVoteLeaf(voter engine.PlayerNumber, title string) event.Event {
	return event.SignalLeaf{Signal: event.Signal{
		Kind:   event.InputRadio,
		Player: voter,
		Prompt: title,
		Choices: []event.Choice{
			{Label: "For", Value: true},
			{Label: "Against", Value: false},
		},
	}}
}

// VoteExpr builds the installable engine.OnEvent expression for one
// vote: a timer leaf plus one input-radio leaf per voter,
// shortcut-completing the moment assess stops returning nil.
// onResult is the effectful continuation to run with the final
// outcome once the vote resolves. Exposed as a plain Expr builder (as
// opposed to an eagerly-installing call) so vote/recurring.go can
// re-arm the next round's vote from inside a handler closure, where
// only an Expr to return is wanted, not an immediate installation.
func VoteExpr(
	deadline time.Time,
	title string,
	voters []engine.PlayerNumber,
	assess Assess,
	onResult func(result bool) engine.Expr,
) engine.Expr {
	children := make([]event.Event, 0, len(voters)+1)
	children = append(children, timerLeaf(deadline))
	for _, v := range voters {
		children = append(children, singleVoteLeaf(v, title))
	}

	done := func(results []event.Maybe) bool {
		return assess(statsFromResults(results)) != nil
	}

	tree := event.Shortcut{Children: children, Done: done}

	handler := func(value interface{}) engine.Expr {
		results := value.([]event.Maybe)
		b := assess(statsFromResults(results))
		result := b != nil && *b
		return onResult(result)
	}

	return engine.OnEvent{Expr: tree, Handler: handler}
}

// CallVote installs the vote built by VoteExpr and returns the
// allocated EventNumber and whether the install was authorized
// (CanMutate(ctx.ActingRule)).
func CallVote(
	ctx *engine.EffectCtx,
	deadline time.Time,
	title string,
	voters []engine.PlayerNumber,
	assess Assess,
	onResult func(result bool) engine.Expr,
) (engine.EventNumber, bool) {
	v, err := engine.EvalEffect(ctx, VoteExpr(deadline, title, voters, assess, onResult))
	if err != nil {
		return 0, false
	}
	num, ok := v.(engine.EventNumber)
	return num, ok && num != 0
}
