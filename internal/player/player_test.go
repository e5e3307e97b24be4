package player

import "testing"

func TestDeductChips_ClampsAndMarksAllIn(t *testing.T) {
	p := New("p1", "Alice")
	p.Chips = 100
	p.Status = Active

	actual := p.DeductChips(150)
	if actual != 100 {
		t.Fatalf("expected clamp to 100, got %d", actual)
	}
	if p.Chips != 0 {
		t.Fatalf("expected 0 chips left, got %d", p.Chips)
	}
	if !p.IsAllIn || p.Status != AllIn {
		t.Fatalf("expected player marked all-in, got IsAllIn=%v Status=%v", p.IsAllIn, p.Status)
	}
	if p.CurrentBet != 100 || p.TotalBetThisHand != 100 {
		t.Fatalf("expected bet tracking of 100, got currentBet=%d total=%d", p.CurrentBet, p.TotalBetThisHand)
	}
}

func TestFold_SetsFoldedStatusAndHasActed(t *testing.T) {
	p := New("p1", "Alice")
	p.Status = Active
	p.Fold()
	if !p.IsFolded || p.Status != Folded || !p.HasActed {
		t.Fatalf("fold did not set expected fields: %+v", p)
	}
}

func TestStandUp_ClearsSeatAndPerHandState(t *testing.T) {
	p := New("p1", "Alice")
	p.SitDown(3)
	p.CurrentBet = 50
	p.IsFolded = true
	p.StandUp()
	if p.SeatIndex != UnseatedSeat || p.Status != Spectating || p.CurrentBet != 0 || p.IsFolded {
		t.Fatalf("stand up did not clear state: %+v", p)
	}
}

func TestResetForNewRound_PreservesTotalBetThisHand(t *testing.T) {
	p := New("p1", "Alice")
	p.TotalBetThisHand = 80
	p.CurrentBet = 30
	p.HasActed = true
	p.ResetForNewRound()
	if p.CurrentBet != 0 || p.HasActed {
		t.Fatalf("expected round-scoped fields cleared: %+v", p)
	}
	if p.TotalBetThisHand != 80 {
		t.Fatalf("expected hand-scoped total preserved, got %d", p.TotalBetThisHand)
	}
}
