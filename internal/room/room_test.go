package room

import (
	"testing"
	"time"

	"github.com/coder/quartz"

	"holdem-rooms/internal/game"
)

func newTestRoom(t *testing.T, maxPlayers int) (*Room, string, *quartz.Mock, chan Notification) {
	t.Helper()
	mock := quartz.NewMock(t)
	notifications := make(chan Notification, 256)
	cfg := DefaultConfig()
	cfg.MaxPlayers = maxPlayers
	r, hostID := New("123456", cfg, "Host", "conn-host", mock, func(n Notification) {
		select {
		case notifications <- n:
		default:
		}
	})
	t.Cleanup(r.Stop)
	return r, hostID, mock, notifications
}

func joinRoom(t *testing.T, r *Room, nickname, connID string) string {
	t.Helper()
	var playerID string
	err := r.SubmitEvent(Event{Type: EventJoin, Nickname: nickname, ConnectionID: connID, ResultPlayerID: &playerID})
	if err != nil {
		t.Fatalf("join %s: %v", nickname, err)
	}
	return playerID
}

func sitDown(t *testing.T, r *Room, playerID string, seat int) {
	t.Helper()
	if err := r.SubmitEvent(Event{Type: EventSitDown, PlayerID: playerID, Seat: seat}); err != nil {
		t.Fatalf("sit down %s at %d: %v", playerID, seat, err)
	}
}

func TestNew_MintsHostPlayer(t *testing.T) {
	r, hostID, _, _ := newTestRoom(t, 6)
	snap := r.Snapshot()
	if snap.HostID != hostID {
		t.Fatalf("expected host id %s, got %s", hostID, snap.HostID)
	}
	if len(snap.Players) != 1 || !snap.Players[0].IsHost {
		t.Fatalf("expected one host player, got %+v", snap.Players)
	}
}

func TestHandleJoin_NewSpectatorGetsFreshID(t *testing.T) {
	r, hostID, _, _ := newTestRoom(t, 6)
	id := joinRoom(t, r, "Alice", "conn-a")
	if id == "" || id == hostID {
		t.Fatalf("expected a distinct freshly minted id, got %q", id)
	}
	snap := r.Snapshot()
	if len(snap.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(snap.Players))
	}
}

func TestHandleJoin_ExistingIDReconnectsInstead(t *testing.T) {
	r, _, _, notifications := newTestRoom(t, 6)
	alice := joinRoom(t, r, "Alice", "conn-a")
	if err := r.SubmitEvent(Event{Type: EventJoin, Nickname: "Alice", ConnectionID: "conn-a2", ExistingID: alice}); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	snap := r.Snapshot()
	if len(snap.Players) != 2 {
		t.Fatalf("rejoin with existingId should not mint a second player, got %d", len(snap.Players))
	}
	drainUntil(t, notifications, EvtReconnected)
}

func TestSitDown_RejectsOccupiedAndOutOfRangeSeats(t *testing.T) {
	r, hostID, _, _ := newTestRoom(t, 3)
	sitDown(t, r, hostID, 0)
	alice := joinRoom(t, r, "Alice", "conn-a")

	if err := r.SubmitEvent(Event{Type: EventSitDown, PlayerID: alice, Seat: 0}); err != ErrSeatOccupied {
		t.Fatalf("expected ErrSeatOccupied, got %v", err)
	}
	if err := r.SubmitEvent(Event{Type: EventSitDown, PlayerID: alice, Seat: 5}); err != ErrSeatOutOfRange {
		t.Fatalf("expected ErrSeatOutOfRange, got %v", err)
	}
	sitDown(t, r, alice, 1)
	if err := r.SubmitEvent(Event{Type: EventSitDown, PlayerID: alice, Seat: 2}); err != ErrAlreadySeated {
		t.Fatalf("expected ErrAlreadySeated, got %v", err)
	}
}

func TestHandleKick_OnlyHostAndNeverSelf(t *testing.T) {
	r, hostID, _, _ := newTestRoom(t, 6)
	alice := joinRoom(t, r, "Alice", "conn-a")

	if err := r.SubmitEvent(Event{Type: EventKick, PlayerID: alice, TargetID: hostID}); err != ErrNotHost {
		t.Fatalf("expected ErrNotHost, got %v", err)
	}
	if err := r.SubmitEvent(Event{Type: EventKick, PlayerID: hostID, TargetID: hostID}); err != ErrCannotKickSelf {
		t.Fatalf("expected ErrCannotKickSelf, got %v", err)
	}
	if err := r.SubmitEvent(Event{Type: EventKick, PlayerID: hostID, TargetID: alice}); err != nil {
		t.Fatalf("kick: %v", err)
	}
	snap := r.Snapshot()
	if len(snap.Players) != 1 {
		t.Fatalf("expected kicked player removed, got %d players", len(snap.Players))
	}
}

func TestLeaveRoom_TransfersHostByInsertionOrder(t *testing.T) {
	r, hostID, _, notifications := newTestRoom(t, 6)
	alice := joinRoom(t, r, "Alice", "conn-a")
	_ = joinRoom(t, r, "Bob", "conn-b")

	if err := r.SubmitEvent(Event{Type: EventLeave, PlayerID: hostID}); err != nil {
		t.Fatalf("leave: %v", err)
	}
	snap := r.Snapshot()
	if snap.HostID != alice {
		t.Fatalf("expected host transferred to first remaining player %s, got %s", alice, snap.HostID)
	}
	drainUntil(t, notifications, EvtHostTransferred)
}

func TestStartGame_RequiresAllSeatedNonHostPlayersReady(t *testing.T) {
	r, hostID, _, _ := newTestRoom(t, 6)
	sitDown(t, r, hostID, 0)
	alice := joinRoom(t, r, "Alice", "conn-a")
	sitDown(t, r, alice, 1)

	if err := r.SubmitEvent(Event{Type: EventStartGame, PlayerID: hostID}); err != ErrNotReady {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if err := r.SubmitEvent(Event{Type: EventSetReady, PlayerID: alice, Ready: true}); err != nil {
		t.Fatalf("set ready: %v", err)
	}
	if err := r.SubmitEvent(Event{Type: EventStartGame, PlayerID: hostID}); err != nil {
		t.Fatalf("start game: %v", err)
	}
	if !r.Snapshot().IsPlaying {
		t.Fatalf("expected room to be playing after start")
	}
}

func TestStartGame_RejectsNonHostAndMidGame(t *testing.T) {
	r, hostID, _, _ := newTestRoom(t, 6)
	sitDown(t, r, hostID, 0)
	alice := joinRoom(t, r, "Alice", "conn-a")
	sitDown(t, r, alice, 1)
	if err := r.SubmitEvent(Event{Type: EventSetReady, PlayerID: alice, Ready: true}); err != nil {
		t.Fatalf("set ready: %v", err)
	}

	if err := r.SubmitEvent(Event{Type: EventStartGame, PlayerID: alice}); err != ErrNotHost {
		t.Fatalf("expected ErrNotHost, got %v", err)
	}
	if err := r.SubmitEvent(Event{Type: EventStartGame, PlayerID: hostID}); err != nil {
		t.Fatalf("start game: %v", err)
	}
	if err := r.SubmitEvent(Event{Type: EventStartGame, PlayerID: hostID}); err != ErrGameAlreadyStarted {
		t.Fatalf("expected ErrGameAlreadyStarted, got %v", err)
	}
}

func TestHandleAction_DuplicateRequestIDRejected(t *testing.T) {
	r, hostID, _, _ := newTestRoom(t, 6)
	sitDown(t, r, hostID, 0)
	alice := joinRoom(t, r, "Alice", "conn-a")
	sitDown(t, r, alice, 1)
	if err := r.SubmitEvent(Event{Type: EventSetReady, PlayerID: alice, Ready: true}); err != nil {
		t.Fatalf("set ready: %v", err)
	}
	if err := r.SubmitEvent(Event{Type: EventStartGame, PlayerID: hostID}); err != nil {
		t.Fatalf("start game: %v", err)
	}

	snap := r.Snapshot()
	var actorID string
	for _, p := range snap.Players {
		if p.SeatIndex == snap.CurrentPlayerSeat {
			actorID = p.ID
		}
	}

	if err := r.SubmitEvent(Event{Type: EventAction, PlayerID: actorID, Action: game.Fold, RoundIndex: snap.RoundIndex, RequestID: "req-1"}); err != nil {
		t.Fatalf("first action: %v", err)
	}
	if err := r.SubmitEvent(Event{Type: EventAction, PlayerID: actorID, Action: game.Fold, RoundIndex: snap.RoundIndex, RequestID: "req-1"}); err != ErrDuplicateRequest {
		t.Fatalf("expected ErrDuplicateRequest on replay, got %v", err)
	}
}

func TestReleaseOfflineSeats_StandsUpAfterTTLWhenNotPlaying(t *testing.T) {
	r, hostID, mock, notifications := newTestRoom(t, 6)
	alice := joinRoom(t, r, "Alice", "conn-a")
	sitDown(t, r, alice, 1)
	_ = hostID

	p := r.players[alice]
	p.Disconnect(mock.Now())

	mock.Advance(offlineSeatTTL + time.Second)
	mock.Advance(600 * time.Millisecond) // the actor's 500ms ticker runs on real time; this only moves the mock clock further past the TTL

	deadline := time.After(2 * time.Second)
	for {
		select {
		case n := <-notifications:
			if n.Type == EvtPlayerStood && n.PlayerID == alice {
				return
			}
		case <-deadline:
			t.Fatalf("expected offline seat reclamation for %s", alice)
		}
	}
}

func TestIsEmpty_TrueAfterEveryoneLeaves(t *testing.T) {
	r, hostID, _, _ := newTestRoom(t, 6)
	if r.IsEmpty() {
		t.Fatalf("room with host should not be empty")
	}
	if err := r.SubmitEvent(Event{Type: EventLeave, PlayerID: hostID}); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if !r.IsEmpty() {
		t.Fatalf("expected room to be empty once host leaves alone")
	}
}

func drainUntil(t *testing.T, ch chan Notification, want NotificationType) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case n := <-ch:
			if n.Type == want {
				return
			}
		case <-deadline:
			t.Fatalf("expected a %s notification", want)
		}
	}
}
