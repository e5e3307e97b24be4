package poker

import "sort"

// PotAward is the distribution of one pot among its winners.
type PotAward struct {
	Amount     int64
	WinnerIDs  []string
	WinAmounts map[string]int64
}

// AwardPots implements spec 4.1's pot-awarding rule: within each pot,
// restrict to its eligible players, pick those tied at the maximum score,
// split the pot evenly, and give the remainder one chip at a time to the
// winners with the smallest seat indices. A pot with a single eligible
// player (no contest, e.g. everyone else folded) is awarded to them
// without consulting scores.
func AwardPots(pots []Pot, scores map[string]Result, seatOf map[string]int) []PotAward {
	awards := make([]PotAward, 0, len(pots))
	for _, pot := range pots {
		award := PotAward{Amount: pot.Amount, WinAmounts: map[string]int64{}}
		if len(pot.EligiblePlayerIDs) == 0 || pot.Amount <= 0 {
			awards = append(awards, award)
			continue
		}
		if len(pot.EligiblePlayerIDs) == 1 {
			winner := pot.EligiblePlayerIDs[0]
			award.WinnerIDs = []string{winner}
			award.WinAmounts[winner] = pot.Amount
			awards = append(awards, award)
			continue
		}

		var best Score
		first := true
		for _, id := range pot.EligiblePlayerIDs {
			s, ok := scores[id]
			if !ok {
				continue
			}
			if first || s.Score > best {
				best = s.Score
				first = false
			}
		}

		winners := make([]string, 0, len(pot.EligiblePlayerIDs))
		for _, id := range pot.EligiblePlayerIDs {
			if s, ok := scores[id]; ok && s.Score == best {
				winners = append(winners, id)
			}
		}
		sort.Slice(winners, func(i, j int) bool { return seatOf[winners[i]] < seatOf[winners[j]] })

		share := pot.Amount / int64(len(winners))
		remainder := pot.Amount % int64(len(winners))
		award.WinnerIDs = winners
		for i, id := range winners {
			amt := share
			if int64(i) < remainder {
				amt++
			}
			award.WinAmounts[id] = amt
		}
		awards = append(awards, award)
	}
	return awards
}
