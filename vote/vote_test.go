package vote

import (
	"testing"

	"github.com/nomyx/engine/event"
)

func TestQuotaSucceedsAtThreshold(t *testing.T) {
	s := VoteStats{Yes: 3, No: 0, Participants: 5}
	got := Quota(3, s)
	if got == nil || !*got {
		t.Fatalf("expected quota met at Yes==q, got %v", got)
	}
}

// TestQuotaEarlyFailureTermination: a vote whose remaining possible yes votes
// could not reach quota fails before every voter has answered.
func TestQuotaEarlyFailureTermination(t *testing.T) {
	// 5 voters, quota 4. Two have already voted No: even if the other
	// three all vote Yes, only 3 < 4 is reachable, so it fails now.
	s := VoteStats{Yes: 0, No: 2, Participants: 5}
	got := Quota(4, s)
	if got == nil || *got {
		t.Fatalf("expected early failure once quota is unreachable, got %v", got)
	}
}

func TestQuotaStillPending(t *testing.T) {
	s := VoteStats{Yes: 1, No: 1, Participants: 5}
	if got := Quota(4, s); got != nil {
		t.Fatalf("expected still-pending, got %v", *got)
	}
}

func TestUnanimityRequiresEveryVoter(t *testing.T) {
	assess := Unanimity()
	pending := VoteStats{Yes: 2, No: 0, Participants: 3}
	if got := assess(pending); got != nil {
		t.Fatalf("expected pending with one voter left, got %v", *got)
	}
	done := VoteStats{Yes: 3, No: 0, Participants: 3}
	if got := assess(done); got == nil || !*got {
		t.Fatalf("expected unanimous yes to pass, got %v", got)
	}
	oneNo := VoteStats{Yes: 2, No: 1, Participants: 3}
	if got := assess(oneNo); got == nil || *got {
		t.Fatalf("expected a single No to fail unanimity immediately, got %v", got)
	}
}

func TestMajority(t *testing.T) {
	assess := Majority()
	// 5 voters, majority quota is 3.
	if got := assess(VoteStats{Yes: 3, Participants: 5}); got == nil || !*got {
		t.Fatalf("expected 3/5 to pass majority, got %v", got)
	}
	if got := assess(VoteStats{Yes: 2, No: 3, Participants: 5}); got == nil || *got {
		t.Fatalf("expected 2 yes / 3 no of 5 to fail majority, got %v", got)
	}
}

func TestNumberVotes(t *testing.T) {
	assess := NumberVotes(2)
	if got := assess(VoteStats{Yes: 1, Participants: 100}); got != nil {
		t.Fatalf("expected pending below the fixed threshold, got %v", *got)
	}
	if got := assess(VoteStats{Yes: 2, Participants: 100}); got == nil || !*got {
		t.Fatalf("expected pass once the fixed threshold is met, got %v", got)
	}
}

func TestWithQuorumBlocksResultUntilMinVotes(t *testing.T) {
	assess := WithQuorum(Unanimity(), 3)
	// Unanimous so far, but only 2 of the 10 participants have voted —
	// quorum of 3 hasn't been reached, so no result yet even though no
	// one has voted against.
	got := assess(VoteStats{Yes: 2, No: 0, Participants: 10})
	if got != nil {
		t.Fatalf("expected quorum to withhold a result, got %v", *got)
	}
}

func TestWithQuorumFailsOnTimeoutBelowQuorum(t *testing.T) {
	assess := WithQuorum(Majority(), 5)
	got := assess(VoteStats{Yes: 2, No: 0, Participants: 10, Finished: true})
	if got == nil || *got {
		t.Fatalf("expected a timed-out below-quorum vote to fail, got %v", got)
	}
}

// TestFinishedVoteCollapsesElectorateToVoted: once a vote is Finished,
// abstainers drop out of the electorate entirely rather than counting
// as implicit No votes — three For, two never answered, timer expired,
// still passes unanimity (spec.md §4.6: voters(s) = voted(s) once
// finished).
func TestFinishedVoteCollapsesElectorateToVoted(t *testing.T) {
	s := VoteStats{Yes: 3, No: 0, Participants: 5, Finished: true}
	if got := Unanimity()(s); got == nil || !*got {
		t.Fatalf("expected a finished unanimous 3-of-3-answered vote to pass despite 2 abstainers, got %v", got)
	}
	if got := Majority()(s); got == nil || !*got {
		t.Fatalf("expected 3 For with 0 Against among those who answered to pass majority, got %v", got)
	}
}

func TestStatsFromResultsTimerFinishesVoteRegardlessOfStragglers(t *testing.T) {
	results := []event.Maybe{
		{Ok: true},                    // timer fired
		{Ok: true, Value: true},       // voted yes
		{Ok: false},                   // never answered
	}
	s := statsFromResults(results)
	if !s.Finished {
		t.Fatalf("expected Finished once the timer child is Ok")
	}
	if s.Yes != 1 || s.No != 0 || s.Participants != 2 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}
