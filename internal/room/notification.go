package room

import (
	"holdem-rooms/card"
	"holdem-rooms/internal/game"
)

// NotificationType is the outbound event name, matching spec 4.5's wire
// vocabulary. internal/gateway turns a Notification into a wire envelope;
// this package has no notion of JSON or websockets.
type NotificationType string

const (
	EvtRoomUpdated       NotificationType = "ROOM_UPDATED"
	EvtPlayerJoined      NotificationType = "PLAYER_JOINED"
	EvtPlayerLeft        NotificationType = "PLAYER_LEFT"
	EvtPlayerSat         NotificationType = "PLAYER_SAT"
	EvtPlayerStood       NotificationType = "PLAYER_STOOD"
	EvtPlayerKicked      NotificationType = "PLAYER_KICKED"
	EvtHostTransferred   NotificationType = "HOST_TRANSFERRED"
	EvtReadyStateChanged NotificationType = "READY_STATE_CHANGED"
	EvtGameStarted       NotificationType = "GAME_STARTED"
	EvtDealCards         NotificationType = "DEAL_CARDS"
	EvtPlayerTurn        NotificationType = "PLAYER_TURN"
	EvtPlayerActed       NotificationType = "PLAYER_ACTED"
	EvtHandResult        NotificationType = "HAND_RESULT"
	EvtGameEnded         NotificationType = "GAME_ENDED"
	EvtSyncState         NotificationType = "SYNC_STATE"
	EvtReconnected       NotificationType = "RECONNECTED"
)

// Notification is one outbound event. TargetPlayerID is empty for a
// room-wide broadcast, or set for a message meant for exactly one
// connection (DEAL_CARDS, RECONNECTED's private hole cards, errors).
type Notification struct {
	Type           NotificationType
	RoomID         string
	StateVersion   uint64
	TargetPlayerID string

	Room *RoomSnapshot

	HandID        string
	RoundID       string
	Seat          int
	PlayerID      string
	PlayerIDs     []string
	HoleCards     []card.Card
	Action        *ActionView
	ActionHistory []ActionView
	Result        *HandResultView
	HostID        string
	ReadyState    bool
}

// ActionView mirrors a single applied action for PLAYER_ACTED.
type ActionView struct {
	PlayerID string
	Type     game.ActionType
	Amount   int64
	Phase    game.Phase
}

// HandResultView mirrors game.HandOutcome for the HAND_RESULT event,
// expressed in wire-friendly terms (card strings instead of card.Card).
type HandResultView struct {
	HandID              string
	Winnings            map[string]int64
	NetResult           map[string]int64
	ShowdownCards       map[string][2]string
	EliminatedPlayerIDs []string
	GameEnded           bool
}

func newHandResultView(o *game.HandOutcome) *HandResultView {
	v := &HandResultView{
		HandID:              o.HandID,
		Winnings:            o.Winnings,
		NetResult:           o.NetResult,
		EliminatedPlayerIDs: o.EliminatedPlayerIDs,
		GameEnded:           o.GameEnded,
	}
	if len(o.ShowdownCards) > 0 {
		v.ShowdownCards = make(map[string][2]string, len(o.ShowdownCards))
		for id, cards := range o.ShowdownCards {
			v.ShowdownCards[id] = [2]string{cards[0].String(), cards[1].String()}
		}
	}
	return v
}

func communityStrings(cards []card.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
