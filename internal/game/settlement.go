package game

import (
	"time"

	"github.com/google/uuid"

	"holdem-rooms/card"
	"holdem-rooms/internal/player"
	"holdem-rooms/internal/poker"
)

// HandOutcome is everything the room needs to build HAND_RESULT / GAME_ENDED
// events and to decide on host transfer and the next hand.
type HandOutcome struct {
	HandID              string
	Winnings            map[string]int64
	NetResult           map[string]int64
	ShowdownCards       map[string][2]card.Card
	PotResults          []poker.PotAward
	EliminatedPlayerIDs []string
	GameEnded           bool
}

func (c *Controller) buildContributions() []poker.Contribution {
	out := make([]poker.Contribution, 0, len(c.State.participants))
	for _, seatIdx := range c.State.participants {
		p := c.Seats[seatIdx]
		if p == nil {
			continue
		}
		out = append(out, poker.Contribution{
			PlayerID:  p.ID,
			SeatIndex: seatIdx,
			Total:     p.TotalBetThisHand,
			Folded:    p.IsFolded,
		})
	}
	return out
}

// advancePhase implements spec 4.4.4: recompute pots, reset round-scoped
// player state, move to the next phase (skipping straight to showdown when
// at most one non-folded participant can still act), and either arm the
// next actor or, if nobody can act yet, loop again.
func (c *Controller) advancePhase() (*HandOutcome, bool, error) {
	for {
		c.State.Pots = toPotView(poker.BuildSidePots(c.buildContributions()))
		for _, seatIdx := range c.State.participants {
			p := c.Seats[seatIdx]
			if p != nil && !p.IsFolded {
				p.ResetForNewRound()
			}
		}

		nonFolded := c.nonFoldedSeats()
		if len(nonFolded) <= 1 {
			if len(nonFolded) == 1 {
				result, err := c.endHandSingleSurvivor(nonFolded[0])
				return result, result.GameEnded, err
			}
			return nil, false, ErrNoHandInProgress
		}

		activeNonAllIn := 0
		for _, seatIdx := range nonFolded {
			if !c.Seats[seatIdx].IsAllIn {
				activeNonAllIn++
			}
		}

		var nextPhase Phase
		if activeNonAllIn <= 1 || c.State.Phase == River {
			nextPhase = Showdown
		} else {
			nextPhase = c.State.Phase + 1
		}

		if err := c.dealCommunityUpTo(nextPhase); err != nil {
			return nil, false, err
		}
		c.State.Phase = nextPhase
		c.State.StateVersion++

		if nextPhase == Showdown {
			result, err := c.settle()
			if err != nil {
				return nil, false, err
			}
			return result, result.GameEnded, nil
		}

		c.State.RoundID = uuid.NewString()
		c.State.CurrentBet = 0
		c.State.MinRaise = c.Config.BigBlind
		c.State.RoundIndex++

		candidates := make([]int, 0, len(nonFolded))
		for _, seatIdx := range nonFolded {
			if !c.Seats[seatIdx].IsAllIn && c.Seats[seatIdx].Status == player.Active {
				candidates = append(candidates, seatIdx)
			}
		}
		if len(candidates) > 0 {
			first, ok := poker.NextActingSeat(candidates, c.State.DealerSeat)
			if ok {
				c.armTurn(first)
				return nil, false, nil
			}
		}
		// Nobody can act at this phase (everyone remaining is all-in); loop
		// to advance again immediately, per spec 4.4.4 step 6.
	}
}

func cardsForPhase(p Phase) int {
	switch p {
	case Flop:
		return 3
	case Turn, River:
		return 1
	default:
		return 0
	}
}

// dealCommunityUpTo burns and deals whatever community cards are missing
// to reach `target` (inclusive), inferring where dealing left off from how
// many community cards already exist. Going straight from PreFlop to
// Showdown deals the flop, turn, and river in one pass, per spec 4.4.4.4.
func (c *Controller) dealCommunityUpTo(target Phase) error {
	reached := PreFlop
	switch len(c.State.CommunityCards) {
	case 3:
		reached = Flop
	case 4:
		reached = Turn
	case 5:
		reached = River
	}
	for p := reached + 1; p <= target && p <= River; p++ {
		n := cardsForPhase(p)
		if n == 0 {
			continue
		}
		dealt, _, err := poker.BurnAndDeal(&c.State.Deck, n)
		if err != nil {
			return err
		}
		c.State.CommunityCards = append(c.State.CommunityCards, dealt...)
	}
	return nil
}

// endHandSingleSurvivor implements the no-showdown path of spec 4.4.5: the
// one remaining player collects every pot without a reveal.
func (c *Controller) endHandSingleSurvivor(seat int) (*HandOutcome, error) {
	contributions := c.buildContributions()
	pots := poker.BuildSidePots(contributions)
	total := int64(0)
	for _, p := range pots {
		total += p.Amount
	}
	survivor := c.Seats[seat]
	survivor.AddChips(total)
	for _, seatIdx := range c.State.participants {
		if p := c.Seats[seatIdx]; p != nil {
			p.CurrentBet = 0
		}
	}
	c.State.Pots = nil

	result := &HandOutcome{
		HandID:   c.State.HandID,
		Winnings: map[string]int64{survivor.ID: total},
	}
	c.finishHand(result)
	return result, nil
}

// settle implements the showdown path of spec 4.4.5: evaluate every
// non-folded participant's best 5-of-7 and award each pot in turn.
func (c *Controller) settle() (*HandOutcome, error) {
	scores := make(map[string]poker.Result)
	seatOf := make(map[string]int)
	showdownCards := make(map[string][2]card.Card)

	for _, seatIdx := range c.State.participants {
		p := c.Seats[seatIdx]
		if p == nil || p.IsFolded || len(p.HoleCards) != 2 {
			continue
		}
		var seven [7]card.Card
		copy(seven[:2], p.HoleCards)
		copy(seven[2:], c.State.CommunityCards)
		res := poker.EvalBestOf7(seven)
		scores[p.ID] = res
		seatOf[p.ID] = seatIdx
		showdownCards[p.ID] = [2]card.Card{p.HoleCards[0], p.HoleCards[1]}
	}

	pots := poker.BuildSidePots(c.buildContributions())
	awards := poker.AwardPots(pots, scores, seatOf)

	winnings := make(map[string]int64)
	for _, award := range awards {
		for id, amt := range award.WinAmounts {
			winnings[id] += amt
			if seat, ok := seatOf[id]; ok {
				c.Seats[seat].AddChips(amt)
			} else if seat := c.findSeat(id); seat != NoSeat {
				c.Seats[seat].AddChips(amt)
			}
		}
	}
	c.State.Pots = nil

	result := &HandOutcome{
		HandID:        c.State.HandID,
		Winnings:      winnings,
		ShowdownCards: showdownCards,
		PotResults:    awards,
	}
	c.finishHand(result)
	return result, nil
}

// finishHand applies post-settlement bookkeeping common to both endings:
// mark busted players eliminated and detect a one-player game end.
func (c *Controller) finishHand(result *HandOutcome) {
	result.NetResult = make(map[string]int64, len(c.State.participants))
	for _, seatIdx := range c.State.participants {
		p := c.Seats[seatIdx]
		if p == nil {
			continue
		}
		result.NetResult[p.ID] = result.Winnings[p.ID] - p.TotalBetThisHand
	}

	survivorsWithChips := 0
	for _, p := range c.Seats {
		if p == nil || p.SeatIndex < 0 {
			continue
		}
		if p.Chips <= 0 {
			if p.Status != player.Eliminated {
				p.Status = player.Eliminated
				result.EliminatedPlayerIDs = append(result.EliminatedPlayerIDs, p.ID)
			}
		} else {
			survivorsWithChips++
		}
	}
	result.GameEnded = survivorsWithChips <= 1

	c.State.Phase = Idle
	c.State.CurrentPlayerSeat = NoSeat
	c.State.TurnDeadline = time.Time{}
	c.State.StateVersion++
}

func toPotView(pots []poker.Pot) []PotView {
	out := make([]PotView, 0, len(pots))
	for _, p := range pots {
		out = append(out, PotView{Amount: p.Amount, EligiblePlayerIDs: p.EligiblePlayerIDs})
	}
	return out
}
