package room

import "errors"

// Sentinel errors mirror spec 7's wire error codes that originate at the
// room level (as opposed to inside the hand state machine, see
// internal/game.Err*).
var (
	ErrRoomNotFound     = errors.New("ROOM_NOT_FOUND")
	ErrNotInRoom        = errors.New("NOT_IN_ROOM")
	ErrTargetNotFound   = errors.New("TARGET_NOT_FOUND")
	ErrGameAlreadyStarted = errors.New("GAME_ALREADY_STARTED")
	ErrSeatOutOfRange   = errors.New("INVALID_SEAT_INDEX")
	ErrSeatOccupied     = errors.New("SEAT_OCCUPIED")
	ErrAlreadySeated    = errors.New("ALREADY_SEATED")
	ErrNotSeated        = errors.New("NOT_SEATED")
	ErrRoomPlaying      = errors.New("GAME_IN_PROGRESS")
	ErrNotHost          = errors.New("NOT_HOST")
	ErrCannotKickSelf   = errors.New("CANNOT_KICK_SELF")
	ErrDuplicateRequest = errors.New("DUPLICATE_REQUEST")
	ErrNotReady         = errors.New("NOT_READY")
	ErrHandPauseActive  = errors.New("HAND_PAUSE_ACTIVE")
	ErrRoomClosed       = errors.New("room: closed")
)
