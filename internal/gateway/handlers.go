package gateway

import (
	"encoding/json"
	"log"

	"holdem-rooms/internal/game"
	"holdem-rooms/internal/room"
	"holdem-rooms/internal/wire"
)

func (c *Connection) handleMessage(data []byte) {
	var env wire.ClientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("[Gateway] Failed to unmarshal envelope: %v", err)
		c.sendError("INVALID_MESSAGE", "malformed envelope", false)
		return
	}

	switch env.Type {
	case wire.MsgCreateRoom:
		c.handleCreateRoom(env.Payload)
	case wire.MsgJoinRoom:
		c.handleJoinRoom(env.Payload)
	case wire.MsgReconnect:
		c.handleReconnect(env.Payload)
	case wire.MsgSitDown:
		c.handleSitDown(env.Payload)
	case wire.MsgStandUp:
		c.submit(room.Event{Type: room.EventStandUp})
	case wire.MsgStartGame:
		c.submit(room.Event{Type: room.EventStartGame})
	case wire.MsgPlayerAction:
		c.handlePlayerAction(env.Payload)
	case wire.MsgPlayerReady:
		c.handlePlayerReady(env.Payload)
	case wire.MsgKickPlayer:
		c.handleKickPlayer(env.Payload)
	case wire.MsgLeaveRoom:
		c.submit(room.Event{Type: room.EventLeave})
	default:
		log.Printf("[Gateway] Unknown message type: %s", env.Type)
		c.sendError("UNKNOWN_MESSAGE_TYPE", "unrecognized message type: "+env.Type, false)
	}
}

// submit fills in the connection's bound room/player identity and dispatches
// through the room's serial executor, reporting the resulting error (if any)
// back to this connection as an ERROR envelope.
func (c *Connection) submit(e room.Event) {
	roomID, playerID := c.identity()
	if roomID == "" || playerID == "" {
		c.sendError("NOT_IN_ROOM", "not joined to a room", false)
		return
	}
	e.PlayerID = playerID
	r := c.Gateway.manager.GetRoom(roomID)
	if r == nil {
		c.sendError("ROOM_NOT_FOUND", "room no longer exists", true)
		return
	}
	if err := r.SubmitEvent(e); err != nil {
		c.sendError(err.Error(), err.Error(), false)
	}
}

func (c *Connection) handleCreateRoom(raw json.RawMessage) {
	var req wire.CreateRoomPayload
	if err := json.Unmarshal(raw, &req); err != nil {
		c.sendError("INVALID_MESSAGE", "malformed CREATE_ROOM payload", false)
		return
	}
	cfg := room.DefaultConfig()
	if req.Config != nil {
		if req.Config.InitialChips > 0 {
			cfg.InitialChips = req.Config.InitialChips
		}
		if req.Config.SmallBlind > 0 {
			cfg.SmallBlind = req.Config.SmallBlind
		}
		if req.Config.BigBlind > 0 {
			cfg.BigBlind = req.Config.BigBlind
		}
		if req.Config.MaxPlayers > 0 {
			cfg.MaxPlayers = req.Config.MaxPlayers
		}
		if req.Config.TurnTimeoutSeconds > 0 {
			cfg.TurnTimeoutSeconds = req.Config.TurnTimeoutSeconds
		}
	}

	r, hostID, err := c.Gateway.manager.CreateRoom(req.HostNickname, cfg, c.ID)
	if err != nil {
		c.sendError("ROOM_CREATE_FAILED", err.Error(), false)
		return
	}
	c.bind(r.ID, hostID)
	c.Gateway.registerMember(r.ID, hostID, c)
	c.sendEnvelope(wire.ServerEnvelope{
		Type:    "ROOM_CREATED",
		Payload: wire.RoomSnapshotFrom(r.Snapshot()),
	})
}

func (c *Connection) handleJoinRoom(raw json.RawMessage) {
	var req wire.JoinRoomPayload
	if err := json.Unmarshal(raw, &req); err != nil {
		c.sendError("INVALID_MESSAGE", "malformed JOIN_ROOM payload", false)
		return
	}
	r, playerID, err := c.Gateway.manager.JoinRoom(req.RoomID, req.Nickname, c.ID, req.PlayerID)
	if err != nil {
		c.sendError(err.Error(), err.Error(), false)
		return
	}
	c.bind(r.ID, playerID)
	c.Gateway.registerMember(r.ID, playerID, c)
	c.sendEnvelope(wire.ServerEnvelope{
		Type:    "ROOM_JOINED",
		Payload: wire.RoomSnapshotFrom(r.Snapshot()),
	})
}

func (c *Connection) handleReconnect(raw json.RawMessage) {
	var req wire.ReconnectPayload
	if err := json.Unmarshal(raw, &req); err != nil {
		c.sendError("INVALID_MESSAGE", "malformed RECONNECT payload", false)
		return
	}
	r, err := c.Gateway.manager.Reconnect(req.RoomID, req.PlayerID, c.ID)
	if err != nil {
		c.sendError(err.Error(), err.Error(), true)
		return
	}
	c.bind(r.ID, req.PlayerID)
	c.Gateway.registerMember(r.ID, req.PlayerID, c)
}

func (c *Connection) handleSitDown(raw json.RawMessage) {
	var req wire.SitDownPayload
	if err := json.Unmarshal(raw, &req); err != nil {
		c.sendError("INVALID_MESSAGE", "malformed SIT_DOWN payload", false)
		return
	}
	c.submit(room.Event{Type: room.EventSitDown, Seat: req.SeatIndex})
}

func (c *Connection) handlePlayerReady(raw json.RawMessage) {
	var req wire.PlayerReadyPayload
	if err := json.Unmarshal(raw, &req); err != nil {
		c.sendError("INVALID_MESSAGE", "malformed PLAYER_READY payload", false)
		return
	}
	c.submit(room.Event{Type: room.EventSetReady, Ready: req.Ready})
}

func (c *Connection) handleKickPlayer(raw json.RawMessage) {
	var req wire.KickPlayerPayload
	if err := json.Unmarshal(raw, &req); err != nil {
		c.sendError("INVALID_MESSAGE", "malformed KICK_PLAYER payload", false)
		return
	}
	c.submit(room.Event{Type: room.EventKick, TargetID: req.TargetPlayerID})
}

func (c *Connection) handlePlayerAction(raw json.RawMessage) {
	var req wire.PlayerActionPayload
	if err := json.Unmarshal(raw, &req); err != nil {
		c.sendError("INVALID_MESSAGE", "malformed PLAYER_ACTION payload", false)
		return
	}
	actionType, ok := actionTypeFromWire(req.Type)
	if !ok {
		c.sendError("INVALID_ACTION_TYPE", "unrecognized action type: "+req.Type, false)
		return
	}
	c.submit(room.Event{
		Type:       room.EventAction,
		Action:     actionType,
		Amount:     req.Amount,
		RoundIndex: req.RoundIndex,
		RequestID:  req.RequestID,
	})
}

func actionTypeFromWire(s string) (game.ActionType, bool) {
	switch s {
	case "FOLD":
		return game.Fold, true
	case "CHECK":
		return game.Check, true
	case "CALL":
		return game.Call, true
	case "RAISE":
		return game.Raise, true
	case "ALL_IN":
		return game.AllIn, true
	default:
		return 0, false
	}
}
