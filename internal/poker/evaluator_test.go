package poker

import (
	"testing"

	"holdem-rooms/card"
)

func TestEval5_RoyalFlushBeatsLowerStraightFlush(t *testing.T) {
	royal := Eval5([5]card.Card{card.CardSpadeA, card.CardSpadeK, card.CardSpadeQ, card.CardSpadeJ, card.CardSpadeT})
	if royal.Category != RoyalFlush {
		t.Fatalf("expected royal flush, got %s", royal.Category)
	}

	sf := Eval5([5]card.Card{card.CardHeartK, card.CardHeartQ, card.CardHeartJ, card.CardHeartT, card.CardHeart9})
	if sf.Category != StraightFlush {
		t.Fatalf("expected straight flush, got %s", sf.Category)
	}
	if royal.Score <= sf.Score {
		t.Fatalf("expected royal flush to beat lower straight flush: %d <= %d", royal.Score, sf.Score)
	}
}

func TestEval5_WheelStraightIsLowestStraight(t *testing.T) {
	wheel := Eval5([5]card.Card{card.CardSpadeA, card.CardHeart2, card.CardClub3, card.CardDiamond4, card.CardSpade5})
	if wheel.Category != Straight {
		t.Fatalf("expected straight for wheel, got %s", wheel.Category)
	}

	sixHigh := Eval5([5]card.Card{card.CardSpade2, card.CardHeart3, card.CardClub4, card.CardDiamond5, card.CardSpade6})
	if sixHigh.Category != Straight {
		t.Fatalf("expected straight for 6-high, got %s", sixHigh.Category)
	}
	if sixHigh.Score <= wheel.Score {
		t.Fatalf("expected 6-high straight to beat wheel: %d <= %d", sixHigh.Score, wheel.Score)
	}
}

func TestEvalBestOf7_PicksBestFive(t *testing.T) {
	res := EvalBestOf7([7]card.Card{
		card.CardSpadeA, card.CardHeartA,
		card.CardClubK, card.CardDiamondK,
		card.CardSpade2, card.CardHeart3, card.CardClub4,
	})
	if res.Category != TwoPair {
		t.Fatalf("expected two pair, got %s", res.Category)
	}
}

func TestEvalBestOf7_MatchesReEvaluatedBestFive(t *testing.T) {
	seven := [7]card.Card{
		card.CardSpadeA, card.CardSpadeK, card.CardSpadeQ, card.CardSpadeJ, card.CardSpadeT,
		card.CardHeart2, card.CardClub3,
	}
	best := EvalBestOf7(seven)
	reEval := Eval5(best.BestFive)
	if reEval.Score != best.Score {
		t.Fatalf("re-evaluating the chosen best five changed the score: %d != %d", reEval.Score, best.Score)
	}
}

func TestEval5_TableCoverage_NoMissingCategory(t *testing.T) {
	if testing.Short() {
		t.Skip("skip exhaustive 5-card coverage in short mode")
	}
	cards := card.FullDeck
	for a := 0; a < len(cards)-4; a++ {
		for b := a + 1; b < len(cards)-3; b++ {
			for c := b + 1; c < len(cards)-2; c++ {
				for d := c + 1; d < len(cards)-1; d++ {
					for e := d + 1; e < len(cards); e++ {
						res := Eval5([5]card.Card{cards[a], cards[b], cards[c], cards[d], cards[e]})
						if res.Score == 0 || res.Category == 0 {
							t.Fatalf("missing category for combo: %v %v %v %v %v", cards[a], cards[b], cards[c], cards[d], cards[e])
						}
					}
				}
			}
		}
	}
}
