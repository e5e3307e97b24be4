package poker

import (
	"errors"
	"math/rand"

	"holdem-rooms/card"
)

var ErrDeckExhausted = errors.New("poker: deck exhausted")

// NewShuffledDeck returns a full 52-card deck permuted with the supplied
// source. Tests inject a seeded *rand.Rand; production wiring seeds from a
// CSPRNG (see card.CardList.Shuffle).
func NewShuffledDeck(rng *rand.Rand) card.CardList {
	deck := card.NewDeck()
	deck.ShuffleWith(rng)
	return deck
}

// DealHole deals two hole cards to each seat in seatsInOrder, one card per
// pass over all seats (spec 4.1: "one card per pass twice"). seatsInOrder
// must already start at the seat clockwise after the dealer.
func DealHole(deck *card.CardList, seatsInOrder []int) (map[int][2]card.Card, error) {
	hole := make(map[int][2]card.Card, len(seatsInOrder))
	for pass := 0; pass < 2; pass++ {
		for _, seat := range seatsInOrder {
			if deck.Count() == 0 {
				return nil, ErrDeckExhausted
			}
			entry := hole[seat]
			entry[pass] = deck.PopCard()
			hole[seat] = entry
		}
	}
	return hole, nil
}

// BurnAndDeal burns one card then deals n community cards, as required
// before the flop, turn, and river.
func BurnAndDeal(deck *card.CardList, n int) ([]card.Card, card.Card, error) {
	if deck.Count() < n+1 {
		return nil, card.CardInvalid, ErrDeckExhausted
	}
	burned := deck.PopCard()
	dealt := make([]card.Card, 0, n)
	for i := 0; i < n; i++ {
		dealt = append(dealt, deck.PopCard())
	}
	return dealt, burned, nil
}
