package vote

import (
	"time"

	"github.com/nomyx/engine/engine"
	"github.com/nomyx/engine/schedule"
)

// RecurringVote describes a vote that re-arms itself on a crontab
// schedule after each round resolves — an enrichment beyond a single
// call_vote, useful for standing policy (e.g. "re-approve the
// treasurer every first of the month").
type RecurringVote struct {
	Schedule *schedule.Recurring
	Title    string
	Voters   []engine.PlayerNumber
	Assess   Assess

	// OnRound runs after each round resolves, before the next round is
	// armed; round is 1-based.
	OnRound func(result bool, round int) engine.Expr
}

// CallRecurringVote installs the first round of rv, scheduled at
// rv.Schedule.Next(after). Each round's handler runs OnRound and then
// installs the next round's vote itself, so the whole recurrence lives
// entirely inside ordinary Expr evaluation — no extra machinery in the
// trigger pipeline is needed to keep it going.
func CallRecurringVote(ctx *engine.EffectCtx, rv RecurringVote, after time.Time) (engine.EventNumber, bool) {
	v, err := engine.EvalEffect(ctx, recurringRoundExpr(rv, rv.Schedule.Next(after), 1))
	if err != nil {
		return 0, false
	}
	num, ok := v.(engine.EventNumber)
	return num, ok && num != 0
}

func recurringRoundExpr(rv RecurringVote, deadline time.Time, round int) engine.Expr {
	onResult := func(result bool) engine.Expr {
		next := rv.Schedule.Next(deadline)
		return engine.ExprBind{
			Expr: rv.OnRound(result, round),
			Cont: func(interface{}) engine.Expr {
				return recurringRoundExpr(rv, next, round+1)
			},
		}
	}
	return VoteExpr(deadline, rv.Title, rv.Voters, rv.Assess, onResult)
}
