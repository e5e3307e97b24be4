package poker

import (
	"sort"

	"holdem-rooms/card"
)

// Score totally orders hands: category*1e10 + five kicker slots of two
// decimal digits each (category * 10^10 + k0*10^8 + k1*10^6 + k2*10^4 +
// k3*10^2 + k4). Bigger is stronger.
type Score uint64

// Result is the outcome of evaluating the best 5-of-7 hand.
type Result struct {
	Score    Score
	Category Category
	BestFive [5]card.Card
	BestIdx  [5]int
}

// EvalBestOf7 enumerates all C(7,5)=21 five-card subsets of the given seven
// cards and returns the strongest.
func EvalBestOf7(cards [7]card.Card) Result {
	var best Result
	idx := [5]int{}

	for a := 0; a < 3; a++ {
		for b := a + 1; b < 4; b++ {
			for c := b + 1; c < 5; c++ {
				for d := c + 1; d < 6; d++ {
					for e := d + 1; e < 7; e++ {
						idx = [5]int{a, b, c, d, e}
						five := [5]card.Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						score, category := eval5(five)
						if score > best.Score {
							best = Result{
								Score:    score,
								Category: category,
								BestFive: five,
								BestIdx:  idx,
							}
						}
					}
				}
			}
		}
	}
	return best
}

// BestFiveOfSeven is a convenience wrapper returning just the five winning
// cards, used to check the bestFive/evaluate round-trip (spec testable
// property 6).
func BestFiveOfSeven(cards [7]card.Card) [5]card.Card {
	return EvalBestOf7(cards).BestFive
}

// Eval5 scores a single 5-card hand. Exported for tests and for re-scoring
// an already-chosen best-five (property 6: evaluating the chosen five must
// match the score the 21-subset search assigned it).
func Eval5(cards [5]card.Card) Result {
	score, category := eval5(cards)
	return Result{Score: score, Category: category, BestFive: cards, BestIdx: [5]int{0, 1, 2, 3, 4}}
}

func eval5(cards [5]card.Card) (Score, Category) {
	ranks := make([]int, 5)
	suits := make([]card.Suit, 5)
	for i, c := range cards {
		ranks[i] = c.HandRealVal()
		suits[i] = c.Suit()
	}

	flush := true
	for _, s := range suits[1:] {
		if s != suits[0] {
			flush = false
			break
		}
	}

	straightHigh, isStraight := straightHighCard(ranks)

	type group struct{ rank, count int }
	counts := map[int]int{}
	for _, r := range ranks {
		counts[r]++
	}
	groups := make([]group, 0, len(counts))
	for r, c := range counts {
		groups = append(groups, group{r, c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	sortedRanks := append([]int{}, ranks...)
	sort.Sort(sort.Reverse(sort.IntSlice(sortedRanks)))

	var category Category
	var kickers [5]int

	switch {
	case flush && isStraight:
		if straightHigh == 14 {
			category = RoyalFlush
		} else {
			category = StraightFlush
		}
		kickers = [5]int{straightHigh, 0, 0, 0, 0}
	case groups[0].count == 4:
		category = FourOfAKind
		kickers = [5]int{groups[0].rank, groups[1].rank, 0, 0, 0}
	case groups[0].count == 3 && len(groups) > 1 && groups[1].count == 2:
		category = FullHouse
		kickers = [5]int{groups[0].rank, groups[1].rank, 0, 0, 0}
	case flush:
		category = Flush
		kickers = [5]int{sortedRanks[0], sortedRanks[1], sortedRanks[2], sortedRanks[3], sortedRanks[4]}
	case isStraight:
		category = Straight
		kickers = [5]int{straightHigh, 0, 0, 0, 0}
	case groups[0].count == 3:
		category = ThreeOfAKind
		kickers = [5]int{groups[0].rank, groups[1].rank, groups[2].rank, 0, 0}
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		category = TwoPair
		hi, lo := groups[0].rank, groups[1].rank
		if lo > hi {
			hi, lo = lo, hi
		}
		kickers = [5]int{hi, lo, groups[2].rank, 0, 0}
	case groups[0].count == 2:
		category = OnePair
		kickers = [5]int{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank, 0}
	default:
		category = HighCard
		kickers = [5]int{sortedRanks[0], sortedRanks[1], sortedRanks[2], sortedRanks[3], sortedRanks[4]}
	}

	score := Score(uint64(category)*1e10 +
		uint64(kickers[0])*1e8 +
		uint64(kickers[1])*1e6 +
		uint64(kickers[2])*1e4 +
		uint64(kickers[3])*1e2 +
		uint64(kickers[4]))
	return score, category
}

// straightHighCard reports the high card of a straight among five ranks
// (A=14), treating A-2-3-4-5 as the lowest straight with 5 high.
func straightHighCard(ranks []int) (int, bool) {
	uniq := map[int]bool{}
	for _, r := range ranks {
		uniq[r] = true
	}
	if len(uniq) != 5 {
		return 0, false
	}
	sorted := make([]int, 0, 5)
	for r := range uniq {
		sorted = append(sorted, r)
	}
	sort.Ints(sorted)

	if sorted[0] == 2 && sorted[1] == 3 && sorted[2] == 4 && sorted[3] == 5 && sorted[4] == 14 {
		return 5, true
	}
	for i := 1; i < 5; i++ {
		if sorted[i] != sorted[i-1]+1 {
			return 0, false
		}
	}
	return sorted[4], true
}
