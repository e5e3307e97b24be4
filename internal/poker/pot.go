package poker

import "sort"

// Contribution is one player's total stake in the hand so far, the only
// shape BuildSidePots needs from the caller's richer Player entity.
type Contribution struct {
	PlayerID  string
	SeatIndex int
	Total     int64 // totalBetThisHand
	Folded    bool
}

// Pot is a subdivision of contributions eligible to a subset of players.
// EligiblePlayerIDs is kept sorted by seat index for deterministic output.
type Pot struct {
	Amount            int64
	EligiblePlayerIDs []string
}

// BuildSidePots implements spec 4.1's side-pot construction: discard
// zero-contribution players, sort ascending by total bet, and walk
// contribution tiers. A tier whose eligible (not-folded, at-or-above)
// set is empty is uncontested and is awarded to the remaining not-folded
// contributor with the smallest seat index in the whole hand, rather than
// being dropped.
func BuildSidePots(contributions []Contribution) []Pot {
	players := make([]Contribution, 0, len(contributions))
	for _, c := range contributions {
		if c.Total > 0 {
			players = append(players, c)
		}
	}
	if len(players) == 0 {
		return nil
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Total < players[j].Total })

	fallbackID, hasFallback := smallestSeatNotFolded(players)

	var pots []Pot
	totalContributed := int64(0)
	for i, p := range players {
		contribution := p.Total - totalContributed
		if contribution <= 0 {
			continue
		}

		amount := int64(0)
		eligible := make([]string, 0, len(players)-i)
		for j := i; j < len(players); j++ {
			pj := players[j]
			layer := contribution
			if remaining := pj.Total - totalContributed; remaining < layer {
				layer = remaining
			}
			amount += layer
			if !pj.Folded {
				eligible = append(eligible, pj.PlayerID)
			}
		}

		if len(eligible) == 0 && hasFallback {
			eligible = []string{fallbackID}
		}
		sortBySeat(eligible, players)

		if len(pots) > 0 && sameEligibleSet(pots[len(pots)-1].EligiblePlayerIDs, eligible) {
			pots[len(pots)-1].Amount += amount
		} else {
			pots = append(pots, Pot{Amount: amount, EligiblePlayerIDs: eligible})
		}

		totalContributed = p.Total
	}
	return pots
}

func smallestSeatNotFolded(players []Contribution) (string, bool) {
	best := -1
	bestID := ""
	for _, p := range players {
		if p.Folded {
			continue
		}
		if best == -1 || p.SeatIndex < best {
			best = p.SeatIndex
			bestID = p.PlayerID
		}
	}
	return bestID, best != -1
}

func sortBySeat(ids []string, players []Contribution) {
	seatOf := make(map[string]int, len(players))
	for _, p := range players {
		seatOf[p.PlayerID] = p.SeatIndex
	}
	sort.Slice(ids, func(i, j int) bool { return seatOf[ids[i]] < seatOf[ids[j]] })
}

func sameEligibleSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}
