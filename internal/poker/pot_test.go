package poker

import "testing"

func TestBuildSidePots_SimpleAllInLayers(t *testing.T) {
	contributions := []Contribution{
		{PlayerID: "p0", SeatIndex: 0, Total: 100},
		{PlayerID: "p1", SeatIndex: 1, Total: 200},
		{PlayerID: "p2", SeatIndex: 2, Total: 200},
	}
	pots := BuildSidePots(contributions)
	if len(pots) != 2 {
		t.Fatalf("expected 2 pots, got %d: %+v", len(pots), pots)
	}
	if pots[0].Amount != 300 || len(pots[0].EligiblePlayerIDs) != 3 {
		t.Fatalf("main pot wrong: %+v", pots[0])
	}
	if pots[1].Amount != 200 || len(pots[1].EligiblePlayerIDs) != 2 {
		t.Fatalf("side pot wrong: %+v", pots[1])
	}
}

func TestBuildSidePots_UncontestedTierAwardedToRemainingContributor(t *testing.T) {
	// p0 folds after committing 50, p1 commits 50 then folds too, p2 commits 200 alone.
	contributions := []Contribution{
		{PlayerID: "p0", SeatIndex: 0, Total: 50, Folded: true},
		{PlayerID: "p1", SeatIndex: 1, Total: 50, Folded: true},
		{PlayerID: "p2", SeatIndex: 2, Total: 200, Folded: false},
	}
	pots := BuildSidePots(contributions)
	total := int64(0)
	for _, p := range pots {
		total += p.Amount
		if len(p.EligiblePlayerIDs) == 0 {
			t.Fatalf("pot has no eligible players: %+v", p)
		}
	}
	if total != 300 {
		t.Fatalf("expected total pot amount 300, got %d", total)
	}
}

func TestBuildSidePots_SumEqualsTotalContributions(t *testing.T) {
	contributions := []Contribution{
		{PlayerID: "a", SeatIndex: 0, Total: 10},
		{PlayerID: "b", SeatIndex: 1, Total: 30},
		{PlayerID: "c", SeatIndex: 2, Total: 30},
		{PlayerID: "d", SeatIndex: 3, Total: 75},
	}
	pots := BuildSidePots(contributions)
	var sum int64
	for _, p := range pots {
		sum += p.Amount
	}
	if sum != 145 {
		t.Fatalf("expected sum 145, got %d", sum)
	}
}

func TestAwardPots_RemainderGoesToSmallestSeatsFirst(t *testing.T) {
	pots := []Pot{{Amount: 100, EligiblePlayerIDs: []string{"a", "b", "c"}}}
	scores := map[string]Result{
		"a": {Score: 50},
		"b": {Score: 50},
		"c": {Score: 50},
	}
	seatOf := map[string]int{"a": 0, "b": 1, "c": 2}
	awards := AwardPots(pots, scores, seatOf)
	if len(awards) != 1 {
		t.Fatalf("expected 1 award, got %d", len(awards))
	}
	a := awards[0]
	if a.WinAmounts["a"] != 34 || a.WinAmounts["b"] != 33 || a.WinAmounts["c"] != 33 {
		t.Fatalf("unexpected split: %+v", a.WinAmounts)
	}
}

func TestAwardPots_SingleEligiblePlayerTakesAllWithoutScore(t *testing.T) {
	pots := []Pot{{Amount: 30, EligiblePlayerIDs: []string{"only"}}}
	awards := AwardPots(pots, map[string]Result{}, map[string]int{"only": 2})
	if awards[0].WinAmounts["only"] != 30 {
		t.Fatalf("expected sole eligible player to take the whole pot, got %+v", awards[0])
	}
}
