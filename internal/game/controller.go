package game

import (
	"math/rand"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"holdem-rooms/card"
	"holdem-rooms/internal/player"
	"holdem-rooms/internal/poker"
)

// Controller drives one room's hand state machine. It holds no lock of its
// own: the room's serial executor (internal/room) guarantees only one
// goroutine ever calls into a Controller at a time.
type Controller struct {
	Config Config
	Seats  []*player.Player // index = seat index, nil = empty seat
	State  *State

	rng   *rand.Rand
	clock quartz.Clock
}

func NewController(cfg Config, seats []*player.Player, rng *rand.Rand, clock quartz.Clock) *Controller {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Controller{
		Config: cfg,
		Seats:  seats,
		State:  &State{Phase: Idle, DealerSeat: NoSeat, CurrentPlayerSeat: NoSeat},
		rng:    rng,
		clock:  clock,
	}
}

// StartHandOutcome summarizes what a newly started hand looks like, for the
// room to turn into GAME_STARTED / DEAL_CARDS / PLAYER_TURN events.
type StartHandOutcome struct {
	HandID         string
	DealerSeat     int
	SmallBlindSeat int
	BigBlindSeat   int
	FirstActorSeat int
}

// StartHand implements spec 4.4.1.
func (c *Controller) StartHand() (*StartHandOutcome, error) {
	participants := c.eligibleSeats()
	if len(participants) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	deck := poker.NewShuffledDeck(c.rng)
	dealer, _ := poker.NextDealerSeat(participants, c.State.DealerSeat)
	dealerIdx := indexOf(participants, dealer)
	n := len(participants)

	var sb, bb, firstActor int
	if n == 2 {
		sb = dealer
		bb = participants[(dealerIdx+1)%n]
		firstActor = dealer
	} else {
		sb = participants[(dealerIdx+1)%n]
		bb = participants[(dealerIdx+2)%n]
		firstActor = participants[(dealerIdx+3)%n]
	}

	for _, seatIdx := range participants {
		p := c.Seats[seatIdx]
		p.ResetForNewHand()
		p.Status = player.Active
	}
	for i, p := range c.Seats {
		if p == nil {
			continue
		}
		if p.Chips <= 0 && !contains(participants, i) {
			p.Status = player.Eliminated
		}
	}

	c.Seats[sb].DeductChips(c.Config.SmallBlind)
	c.Seats[bb].DeductChips(c.Config.BigBlind)
	c.Seats[bb].HasActed = true
	c.Seats[dealer].IsDealer = true

	startIdx := (dealerIdx + 1) % n
	dealOrder := append(append([]int{}, participants[startIdx:]...), participants[:startIdx]...)
	hole, err := poker.DealHole(&deck, dealOrder)
	if err != nil {
		return nil, err
	}
	for seatIdx, cards := range hole {
		c.Seats[seatIdx].HoleCards = []card.Card{cards[0], cards[1]}
	}

	c.State = &State{
		Phase:             PreFlop,
		CommunityCards:    nil,
		CurrentPlayerSeat: firstActor,
		DealerSeat:        dealer,
		SmallBlindSeat:    sb,
		BigBlindSeat:      bb,
		CurrentBet:        c.Config.BigBlind,
		MinRaise:          c.Config.BigBlind,
		RoundIndex:        0,
		TurnDeadline:      c.clock.Now().Add(time.Duration(c.Config.TurnTimeoutSeconds) * time.Second),
		StateVersion:      c.State.StateVersion + 1,
		HandID:            uuid.NewString(),
		RoundID:           uuid.NewString(),
		Deck:              deck,
		HandNumber:        c.State.HandNumber + 1,
		participants:      participants,
	}
	c.Seats[firstActor].IsCurrentTurn = true

	return &StartHandOutcome{
		HandID:         c.State.HandID,
		DealerSeat:     dealer,
		SmallBlindSeat: sb,
		BigBlindSeat:   bb,
		FirstActorSeat: firstActor,
	}, nil
}

// ActionOutcome is the result of a successfully applied action.
type ActionOutcome struct {
	Record        ActionRecord
	NextActorSeat int // NoSeat if the hand ended
	HandEnded     bool
	HandResult    *HandOutcome
}

// Act validates and applies one player action per spec 4.4.2's pipeline
// (minus the requestId/duplicate check, which the room's idempotency LRU
// performs before calling in).
func (c *Controller) Act(a Action) (*ActionOutcome, error) {
	if c.State == nil || c.State.Phase == Idle {
		return nil, ErrNoHandInProgress
	}
	if a.RoundIndex != c.State.RoundIndex {
		return nil, ErrStaleRequest
	}
	seat := c.findSeat(a.PlayerID)
	if seat == NoSeat || seat != c.State.CurrentPlayerSeat {
		return nil, ErrNotYourTurn
	}
	p := c.Seats[seat]
	if !p.CanAct() || !p.IsCurrentTurn {
		return nil, ErrCannotAct
	}

	switch a.Type {
	case Fold:
		p.Fold()
	case Check:
		if p.CurrentBet != c.State.CurrentBet {
			return nil, ErrCannotCheckMustCall
		}
		p.HasActed = true
	case Call:
		owe := c.State.CurrentBet - p.CurrentBet
		if owe <= 0 {
			return nil, ErrNothingToCall
		}
		p.DeductChips(owe)
		p.HasActed = true
	case Raise:
		if err := c.applyRaise(p, a.Amount); err != nil {
			return nil, err
		}
	case AllIn:
		c.applyAllIn(p, seat)
	}

	record := ActionRecord{PlayerID: a.PlayerID, Type: a.Type, Amount: a.Amount, Phase: c.State.Phase, RoundIndex: c.State.RoundIndex}
	c.State.ActionHistory = append(c.State.ActionHistory, record)
	c.State.StateVersion++
	p.IsCurrentTurn = false
	c.State.TurnDeadline = time.Time{}

	outcome := &ActionOutcome{Record: record, NextActorSeat: NoSeat}
	return c.afterAction(seat, outcome)
}

func (c *Controller) applyRaise(p *player.Player, target int64) error {
	increment := target - p.CurrentBet
	if increment <= 0 || increment > p.Chips {
		return ErrNotEnoughChips
	}
	isWholeStack := increment == p.Chips
	if target < c.State.CurrentBet+c.State.MinRaise && !isWholeStack {
		return ErrRaiseTooSmall
	}
	previousCurrentBet := c.State.CurrentBet
	p.DeductChips(increment)
	c.State.CurrentBet = target
	if delta := target - previousCurrentBet; delta > c.State.MinRaise {
		c.State.MinRaise = delta
	}
	p.HasActed = true
	c.clearHasActedExcept(p.SeatIndex)
	return nil
}

func (c *Controller) applyAllIn(p *player.Player, seat int) {
	p.AllInAction()
	if p.CurrentBet > c.State.CurrentBet {
		previousCurrentBet := c.State.CurrentBet
		delta := p.CurrentBet - previousCurrentBet
		c.State.CurrentBet = p.CurrentBet
		if delta > c.State.MinRaise {
			c.State.MinRaise = delta
		}
		c.clearHasActedExcept(seat)
	}
	p.HasActed = true
}

func (c *Controller) clearHasActedExcept(raiserSeat int) {
	for _, seatIdx := range c.State.participants {
		if seatIdx == raiserSeat {
			continue
		}
		p := c.Seats[seatIdx]
		if p != nil && !p.IsFolded && !p.IsAllIn {
			p.HasActed = false
		}
	}
}

// Timeout fires a synthetic CHECK-or-FOLD for the current actor, per spec
// 4.4.6.
func (c *Controller) Timeout() (*ActionOutcome, error) {
	if c.State == nil || c.State.Phase == Idle || c.State.CurrentPlayerSeat == NoSeat {
		return nil, ErrNoHandInProgress
	}
	p := c.Seats[c.State.CurrentPlayerSeat]
	actionType := Check
	if p.CurrentBet != c.State.CurrentBet {
		actionType = Fold
	}
	return c.Act(Action{PlayerID: p.ID, Type: actionType, RoundIndex: c.State.RoundIndex})
}

func (c *Controller) afterAction(actingSeat int, outcome *ActionOutcome) (*ActionOutcome, error) {
	nonFolded := c.nonFoldedSeats()
	if len(nonFolded) == 1 {
		result, err := c.endHandSingleSurvivor(nonFolded[0])
		if err != nil {
			return nil, err
		}
		outcome.HandEnded = true
		outcome.HandResult = result
		return outcome, nil
	}

	complete := c.bettingRoundComplete(nonFolded)
	if !complete {
		next, ok := c.nextActor(actingSeat, nonFolded)
		if ok {
			c.armTurn(next)
			outcome.NextActorSeat = next
			return outcome, nil
		}
		complete = true // nobody left who can act; fall through to phase advance
	}

	result, gameEnded, err := c.advancePhase()
	if err != nil {
		return nil, err
	}
	if result != nil {
		outcome.HandEnded = true
		outcome.HandResult = result
		_ = gameEnded
	}
	return outcome, nil
}

func (c *Controller) bettingRoundComplete(nonFolded []int) bool {
	allActed := true
	anyNonAllIn := false
	for _, seatIdx := range nonFolded {
		p := c.Seats[seatIdx]
		if p.IsAllIn {
			continue
		}
		anyNonAllIn = true
		if !p.HasActed || p.CurrentBet != c.State.CurrentBet {
			allActed = false
		}
	}
	if !anyNonAllIn {
		return true
	}
	return allActed
}

func (c *Controller) nextActor(after int, nonFolded []int) (int, bool) {
	candidates := make([]int, 0, len(nonFolded))
	for _, seatIdx := range nonFolded {
		p := c.Seats[seatIdx]
		if !p.IsAllIn && p.Status == player.Active {
			candidates = append(candidates, seatIdx)
		}
	}
	if len(candidates) == 0 {
		return NoSeat, false
	}
	return poker.NextActingSeat(candidates, after)
}

func (c *Controller) armTurn(seat int) {
	c.State.CurrentPlayerSeat = seat
	c.Seats[seat].IsCurrentTurn = true
	c.State.TurnDeadline = c.clock.Now().Add(time.Duration(c.Config.TurnTimeoutSeconds) * time.Second)
}

func (c *Controller) eligibleSeats() []int {
	seats := make([]int, 0, len(c.Seats))
	for i, p := range c.Seats {
		if p != nil && p.SeatIndex == i && p.Chips > 0 && p.Status != player.Eliminated {
			seats = append(seats, i)
		}
	}
	return seats
}

func (c *Controller) nonFoldedSeats() []int {
	out := make([]int, 0, len(c.State.participants))
	for _, seatIdx := range c.State.participants {
		p := c.Seats[seatIdx]
		if p != nil && !p.IsFolded {
			out = append(out, seatIdx)
		}
	}
	return out
}

func (c *Controller) findSeat(playerID string) int {
	for i, p := range c.Seats {
		if p != nil && p.ID == playerID {
			return i
		}
	}
	return NoSeat
}

func indexOf(seats []int, v int) int {
	for i, s := range seats {
		if s == v {
			return i
		}
	}
	return 0
}

func contains(seats []int, v int) bool {
	for _, s := range seats {
		if s == v {
			return true
		}
	}
	return false
}
