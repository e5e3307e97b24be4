package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/coder/quartz"

	"holdem-rooms/internal/player"
)

func newTestController(t *testing.T, numSeats int, chips int64) (*Controller, []*player.Player, *quartz.Mock) {
	t.Helper()
	seats := make([]*player.Player, numSeats)
	for i := 0; i < numSeats; i++ {
		p := player.New(seatID(i), seatID(i))
		p.SitDown(i)
		p.Chips = chips
		p.Status = player.Active
		seats[i] = p
	}
	mock := quartz.NewMock(t)
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(42))
	c := NewController(cfg, seats, rng, mock)
	return c, seats, mock
}

func seatID(i int) string {
	return string(rune('A' + i))
}

func TestStartHand_HeadsUpAssignsDealerAsSmallBlind(t *testing.T) {
	c, seats, _ := newTestController(t, 2, 1000)
	outcome, err := c.StartHand()
	if err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	if outcome.SmallBlindSeat != outcome.DealerSeat {
		t.Fatalf("heads-up dealer should post small blind, got dealer=%d sb=%d", outcome.DealerSeat, outcome.SmallBlindSeat)
	}
	if outcome.FirstActorSeat != outcome.DealerSeat {
		t.Fatalf("heads-up dealer should act first preflop, got %d want %d", outcome.FirstActorSeat, outcome.DealerSeat)
	}
	for _, p := range seats {
		if len(p.HoleCards) != 2 {
			t.Fatalf("expected 2 hole cards for %s, got %d", p.ID, len(p.HoleCards))
		}
	}
	if c.State.CurrentBet != c.Config.BigBlind {
		t.Fatalf("expected current bet = big blind, got %d", c.State.CurrentBet)
	}
}

func TestStartHand_TooFewEligiblePlayers(t *testing.T) {
	c, seats, _ := newTestController(t, 2, 1000)
	seats[1].Chips = 0
	seats[1].Status = player.Eliminated
	if _, err := c.StartHand(); err != ErrNotEnoughPlayers {
		t.Fatalf("expected ErrNotEnoughPlayers, got %v", err)
	}
}

func TestAct_FoldChainEndsHandWithoutShowdown(t *testing.T) {
	c, seats, _ := newTestController(t, 3, 1000)
	if _, err := c.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	round := c.State.RoundIndex
	for i := 0; i < 2; i++ {
		actor := seats[c.State.CurrentPlayerSeat]
		outcome, err := c.Act(Action{PlayerID: actor.ID, Type: Fold, RoundIndex: round})
		if err != nil {
			t.Fatalf("Act fold %d: %v", i, err)
		}
		if i == 1 {
			if !outcome.HandEnded {
				t.Fatalf("expected hand to end after second fold")
			}
			if outcome.HandResult == nil || len(outcome.HandResult.Winnings) != 1 {
				t.Fatalf("expected single winner, got %+v", outcome.HandResult)
			}
		} else if outcome.HandEnded {
			t.Fatalf("hand ended too early after fold %d", i)
		}
	}
}

func TestAct_CheckThroughToShowdownAwardsPot(t *testing.T) {
	c, seats, _ := newTestController(t, 2, 1000)
	if _, err := c.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	call := func() *ActionOutcome {
		actor := seats[c.State.CurrentPlayerSeat]
		owe := c.State.CurrentBet - actor.CurrentBet
		actionType := Check
		if owe > 0 {
			actionType = Call
		}
		out, err := c.Act(Action{PlayerID: actor.ID, Type: actionType, RoundIndex: c.State.RoundIndex})
		if err != nil {
			t.Fatalf("Act: %v", err)
		}
		return out
	}

	var last *ActionOutcome
	for i := 0; i < 20 && (last == nil || !last.HandEnded); i++ {
		last = call()
	}
	if last == nil || !last.HandEnded {
		t.Fatalf("expected hand to reach showdown within bound, got %+v", last)
	}
	total := int64(0)
	for _, amt := range last.HandResult.Winnings {
		total += amt
	}
	if total != 2*c.Config.BigBlind {
		t.Fatalf("expected pot of %d awarded, got %d", 2*c.Config.BigBlind, total)
	}
}

func TestAct_RejectsActionFromWrongSeat(t *testing.T) {
	c, seats, _ := newTestController(t, 3, 1000)
	if _, err := c.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	var wrongActor *player.Player
	for _, p := range seats {
		if p.SeatIndex != c.State.CurrentPlayerSeat {
			wrongActor = p
			break
		}
	}
	if _, err := c.Act(Action{PlayerID: wrongActor.ID, Type: Fold, RoundIndex: c.State.RoundIndex}); err != ErrNotYourTurn {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
}

func TestAct_RejectsStaleRoundIndex(t *testing.T) {
	c, seats, _ := newTestController(t, 2, 1000)
	if _, err := c.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	actor := seats[c.State.CurrentPlayerSeat]
	if _, err := c.Act(Action{PlayerID: actor.ID, Type: Fold, RoundIndex: c.State.RoundIndex + 1}); err != ErrStaleRequest {
		t.Fatalf("expected ErrStaleRequest, got %v", err)
	}
}

func TestTimeout_AutoFoldsWhenFacingABet(t *testing.T) {
	c, seats, mock := newTestController(t, 3, 1000)
	if _, err := c.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	mock.Advance(time.Duration(c.Config.TurnTimeoutSeconds+1) * time.Second)
	actor := seats[c.State.CurrentPlayerSeat]
	out, err := c.Timeout()
	if err != nil {
		t.Fatalf("Timeout: %v", err)
	}
	if out.Record.Type != Fold || out.Record.PlayerID != actor.ID {
		t.Fatalf("expected synthetic fold for %s, got %+v", actor.ID, out.Record)
	}
}

func TestApplyRaise_RejectsUndersizedRaise(t *testing.T) {
	c, seats, _ := newTestController(t, 3, 1000)
	if _, err := c.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	actor := seats[c.State.CurrentPlayerSeat]
	tooSmall := c.State.CurrentBet + c.State.MinRaise - 1
	if _, err := c.Act(Action{PlayerID: actor.ID, Type: Raise, Amount: tooSmall, RoundIndex: c.State.RoundIndex}); err != ErrRaiseTooSmall {
		t.Fatalf("expected ErrRaiseTooSmall, got %v", err)
	}
}

func TestApplyRaise_ReopensActionForEarlierCallers(t *testing.T) {
	c, seats, _ := newTestController(t, 3, 1000)
	if _, err := c.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	firstActor := seats[c.State.CurrentPlayerSeat]
	if _, err := c.Act(Action{PlayerID: firstActor.ID, Type: Call, RoundIndex: c.State.RoundIndex}); err != nil {
		t.Fatalf("Act call: %v", err)
	}
	raiser := seats[c.State.CurrentPlayerSeat]
	raiseTo := c.State.CurrentBet + c.State.MinRaise*2
	if _, err := c.Act(Action{PlayerID: raiser.ID, Type: Raise, Amount: raiseTo, RoundIndex: c.State.RoundIndex}); err != nil {
		t.Fatalf("Act raise: %v", err)
	}
	if firstActor.HasActed {
		t.Fatalf("expected raise to clear hasActed for earlier caller")
	}
}

func TestBuildContributions_SkipsEmptySeats(t *testing.T) {
	c, _, _ := newTestController(t, 4, 1000)
	c.Seats[2] = nil
	if _, err := c.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	contributions := c.buildContributions()
	if len(contributions) != 3 {
		t.Fatalf("expected 3 contributions, got %d", len(contributions))
	}
}
