package wire

import (
	"time"

	"holdem-rooms/internal/room"
)

// PlayerPayload is the public projection of a player sent to every client.
type PlayerPayload struct {
	ID               string `json:"id"`
	Nickname         string `json:"nickname"`
	Chips            int64  `json:"chips"`
	CurrentBet       int64  `json:"currentBet"`
	TotalBetThisHand int64  `json:"totalBetThisHand"`
	Status           string `json:"status"`
	SeatIndex        int    `json:"seatIndex"`
	IsFolded         bool   `json:"isFolded"`
	IsAllIn          bool   `json:"isAllIn"`
	IsCurrentTurn    bool   `json:"isCurrentTurn"`
	IsDealer         bool   `json:"isDealer"`
	IsHost           bool   `json:"isHost"`
	IsReady          bool   `json:"isReady"`
	Connected        bool   `json:"connected"`
}

func playerPayload(v room.PlayerView) PlayerPayload {
	return PlayerPayload{
		ID:               v.ID,
		Nickname:         v.Nickname,
		Chips:            v.Chips,
		CurrentBet:       v.CurrentBet,
		TotalBetThisHand: v.TotalBetThisHand,
		Status:           v.Status.String(),
		SeatIndex:        v.SeatIndex,
		IsFolded:         v.IsFolded,
		IsAllIn:          v.IsAllIn,
		IsCurrentTurn:    v.IsCurrentTurn,
		IsDealer:         v.IsDealer,
		IsHost:           v.IsHost,
		IsReady:          v.IsReady,
		Connected:        v.Connected,
	}
}

// RoomSnapshotPayload is the public room view for ROOM_CREATED/ROOM_JOINED/
// ROOM_UPDATED/SYNC_STATE. Only public fields: no hole cards, no deck.
type RoomSnapshotPayload struct {
	RoomID            string          `json:"roomId"`
	HostID            string          `json:"hostId"`
	Players           []PlayerPayload `json:"players"`
	IsPlaying         bool            `json:"isPlaying"`
	Phase             string          `json:"phase"`
	CommunityCards    []string        `json:"communityCards"`
	Pots              []PotPayload    `json:"pots"`
	CurrentPlayerSeat int             `json:"currentPlayerSeat"`
	DealerSeat        int             `json:"dealerSeat"`
	HandID            string          `json:"handId,omitempty"`
	RoundID           string          `json:"roundId,omitempty"`
	RoundIndex        int             `json:"roundIndex"`
	TurnDeadline      *time.Time      `json:"turnDeadline,omitempty"`
	StateVersion      uint64          `json:"stateVersion"`
}

type PotPayload struct {
	Amount            int64    `json:"amount"`
	EligiblePlayerIDs []string `json:"eligiblePlayerIds"`
}

func RoomSnapshotFrom(s room.RoomSnapshot) RoomSnapshotPayload {
	players := make([]PlayerPayload, len(s.Players))
	for i, p := range s.Players {
		players[i] = playerPayload(p)
	}
	pots := make([]PotPayload, len(s.Pots))
	for i, p := range s.Pots {
		pots[i] = PotPayload{Amount: p.Amount, EligiblePlayerIDs: p.EligiblePlayerIDs}
	}
	out := RoomSnapshotPayload{
		RoomID:            s.ID,
		HostID:            s.HostID,
		Players:           players,
		IsPlaying:         s.IsPlaying,
		Phase:             s.Phase.String(),
		CommunityCards:    s.CommunityCards,
		Pots:              pots,
		CurrentPlayerSeat: s.CurrentPlayerSeat,
		DealerSeat:        s.DealerSeat,
		HandID:            s.HandID,
		RoundID:           s.RoundID,
		RoundIndex:        s.RoundIndex,
		StateVersion:      s.StateVersion,
	}
	if !s.TurnDeadline.IsZero() {
		t := s.TurnDeadline
		out.TurnDeadline = &t
	}
	return out
}

// DealCardsPayload is the private DEAL_CARDS body; it is only ever placed
// in an envelope addressed to the owning player's connection.
type DealCardsPayload struct {
	HandID string   `json:"handId"`
	Cards  []string `json:"cards"`
}

type PlayerTurnPayload struct {
	Seat int `json:"seat"`
}

type PlayerActedPayload struct {
	PlayerID string `json:"playerId"`
	Type     string `json:"type"`
	Amount   int64  `json:"amount,omitempty"`
	Phase    string `json:"phase"`
}

type HandResultPayload struct {
	HandID              string               `json:"handId"`
	Winnings            map[string]int64     `json:"winnings"`
	NetResult           map[string]int64     `json:"netResult,omitempty"`
	ShowdownCards       map[string][2]string `json:"showdownCards,omitempty"`
	EliminatedPlayerIDs []string             `json:"eliminatedPlayerIds,omitempty"`
	GameEnded           bool                 `json:"gameEnded"`
}

type GameEndedPayload struct {
	WinnerIDs []string `json:"winnerIds"`
}

type ReconnectedPayload struct {
	Room          RoomSnapshotPayload  `json:"room"`
	MyCards       []string             `json:"myCards,omitempty"`
	HandID        string               `json:"handId,omitempty"`
	RoundID       string               `json:"roundId,omitempty"`
	ActionHistory []PlayerActedPayload `json:"actionHistory,omitempty"`
}

type HostTransferredPayload struct {
	NewHostID string `json:"newHostId"`
}

type PlayerRefPayload struct {
	PlayerID string `json:"playerId"`
	Seat     int    `json:"seat,omitempty"`
}

type ReadyStatePayload struct {
	PlayerID string `json:"playerId"`
	Ready    bool   `json:"ready"`
}

// FromNotification translates a room.Notification into the wire envelope
// that should be sent on its TargetPlayerID (or broadcast, if empty).
func FromNotification(n room.Notification, snapshot func() room.RoomSnapshot) ServerEnvelope {
	env := ServerEnvelope{Type: string(n.Type), StateVersion: n.StateVersion, HandID: n.HandID, RoundID: n.RoundID}

	switch n.Type {
	case room.EvtRoomUpdated, room.EvtSyncState:
		env.Payload = RoomSnapshotFrom(snapshot())
	case room.EvtPlayerJoined, room.EvtPlayerLeft, room.EvtPlayerStood, room.EvtPlayerKicked:
		env.Payload = PlayerRefPayload{PlayerID: n.PlayerID}
	case room.EvtPlayerSat:
		env.Payload = PlayerRefPayload{PlayerID: n.PlayerID, Seat: n.Seat}
	case room.EvtHostTransferred:
		env.Payload = HostTransferredPayload{NewHostID: n.HostID}
	case room.EvtReadyStateChanged:
		env.Payload = ReadyStatePayload{PlayerID: n.PlayerID, Ready: n.ReadyState}
	case room.EvtGameStarted:
		env.Payload = PlayerTurnPayload{Seat: n.Seat}
	case room.EvtDealCards:
		cards := make([]string, len(n.HoleCards))
		for i, c := range n.HoleCards {
			cards[i] = c.String()
		}
		env.Payload = DealCardsPayload{HandID: n.HandID, Cards: cards}
	case room.EvtPlayerTurn:
		env.Payload = PlayerTurnPayload{Seat: n.Seat}
	case room.EvtPlayerActed:
		env.Payload = PlayerActedPayload{
			PlayerID: n.Action.PlayerID,
			Type:     n.Action.Type.String(),
			Amount:   n.Action.Amount,
			Phase:    n.Action.Phase.String(),
		}
	case room.EvtHandResult:
		env.Payload = HandResultPayload{
			HandID:              n.Result.HandID,
			Winnings:            n.Result.Winnings,
			NetResult:           n.Result.NetResult,
			ShowdownCards:       n.Result.ShowdownCards,
			EliminatedPlayerIDs: n.Result.EliminatedPlayerIDs,
			GameEnded:           n.Result.GameEnded,
		}
	case room.EvtGameEnded:
		env.Payload = GameEndedPayload{WinnerIDs: n.PlayerIDs}
	case room.EvtReconnected:
		cards := make([]string, len(n.HoleCards))
		for i, c := range n.HoleCards {
			cards[i] = c.String()
		}
		snap := RoomSnapshotFrom(snapshot())
		history := make([]PlayerActedPayload, len(n.ActionHistory))
		for i, a := range n.ActionHistory {
			history[i] = PlayerActedPayload{PlayerID: a.PlayerID, Type: a.Type.String(), Amount: a.Amount, Phase: a.Phase.String()}
		}
		env.Payload = ReconnectedPayload{Room: snap, MyCards: cards, HandID: snap.HandID, RoundID: snap.RoundID, ActionHistory: history}
	}
	return env
}
