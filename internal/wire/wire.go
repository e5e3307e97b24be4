// Package wire defines the JSON envelope shapes exchanged over the
// websocket gateway. The source protocol is protocol-buffer generated
// messages; no .proto/generated package shipped with this codebase, so
// envelopes here use encoding/json instead, carrying the same type tag
// plus stateVersion/handId/roundId guarantees spec 6 requires of any wire
// format.
package wire

import "encoding/json"

// ClientEnvelope is one inbound message. Payload is left raw so dispatch
// can pick the concrete type by Type before decoding.
type ClientEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	MsgCreateRoom    = "CREATE_ROOM"
	MsgJoinRoom      = "JOIN_ROOM"
	MsgSitDown       = "SIT_DOWN"
	MsgStandUp       = "STAND_UP"
	MsgStartGame     = "START_GAME"
	MsgPlayerAction  = "PLAYER_ACTION"
	MsgPlayerReady   = "PLAYER_READY"
	MsgKickPlayer    = "KICK_PLAYER"
	MsgLeaveRoom     = "LEAVE_ROOM"
	MsgReconnect     = "RECONNECT"
)

// CreateRoomPayload is CREATE_ROOM's body.
type CreateRoomPayload struct {
	HostNickname string        `json:"hostNickname"`
	Config       *ConfigPayload `json:"config,omitempty"`
}

// ConfigPayload mirrors spec 6's recognized create-room options. Zero
// fields fall back to defaults (see internal/room.Config.clamp).
type ConfigPayload struct {
	InitialChips       int64 `json:"initialChips,omitempty"`
	SmallBlind         int64 `json:"smallBlind,omitempty"`
	BigBlind           int64 `json:"bigBlind,omitempty"`
	MaxPlayers         int   `json:"maxPlayers,omitempty"`
	TurnTimeoutSeconds int   `json:"turnTimeoutSeconds,omitempty"`
}

type JoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	Nickname string `json:"nickname"`
	PlayerID string `json:"playerId,omitempty"`
}

type SitDownPayload struct {
	SeatIndex int `json:"seatIndex"`
}

type PlayerActionPayload struct {
	Type       string `json:"type"`
	Amount     int64  `json:"amount,omitempty"`
	RoundIndex int    `json:"roundIndex"`
	RequestID  string `json:"requestId"`
}

type PlayerReadyPayload struct {
	Ready bool `json:"ready"`
}

type KickPlayerPayload struct {
	TargetPlayerID string `json:"targetPlayerId"`
}

type ReconnectPayload struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

// ServerEnvelope is one outbound event. Every event carries type and
// stateVersion per spec 6; handId is populated for hand-scoped events
// (GAME_STARTED, DEAL_CARDS, PLAYER_TURN, PLAYER_ACTED, HAND_RESULT) and
// roundId for PLAYER_TURN.
type ServerEnvelope struct {
	Type         string      `json:"type"`
	StateVersion uint64      `json:"stateVersion"`
	HandID       string      `json:"handId,omitempty"`
	RoundID      string      `json:"roundId,omitempty"`
	Payload      interface{} `json:"payload,omitempty"`
}

// ErrorPayload is ERROR's body.
type ErrorPayload struct {
	Code               string `json:"code"`
	Message            string `json:"message"`
	ShouldClearSession bool   `json:"shouldClearSession,omitempty"`
}
