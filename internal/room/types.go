// Package room implements the process-wide room registry and the per-room
// serial executor: seating, host transfer, membership, reconnection
// binding, and idempotent dispatch into the hand state machine in
// internal/game. Every state change runs on a Room's own actor loop —
// callers submit changes through SubmitEvent and read through the
// read-locked accessors (Snapshot, IsEmpty, IsIdleFor).
package room

import (
	"time"

	"holdem-rooms/internal/game"
	"holdem-rooms/internal/player"
)

// Config mirrors the options a client may set on room creation.
type Config struct {
	InitialChips       int64
	SmallBlind         int64
	BigBlind           int64
	MaxPlayers         int
	TurnTimeoutSeconds int
	FoldHandDelay      time.Duration
	ShowdownHandDelay  time.Duration
}

// DefaultConfig copies game.DefaultConfig field for field; clamp is what
// bounds maxPlayers to [2,9].
func DefaultConfig() Config {
	gc := game.DefaultConfig()
	return Config{
		InitialChips:       gc.InitialChips,
		SmallBlind:         gc.SmallBlind,
		BigBlind:           gc.BigBlind,
		MaxPlayers:         gc.MaxPlayers,
		TurnTimeoutSeconds: gc.TurnTimeoutSeconds,
		FoldHandDelay:      gc.FoldHandDelay,
		ShowdownHandDelay:  gc.ShowdownHandDelay,
	}
}

func (c Config) toGameConfig() game.Config {
	return game.Config{
		InitialChips:       c.InitialChips,
		SmallBlind:         c.SmallBlind,
		BigBlind:           c.BigBlind,
		MaxPlayers:         c.MaxPlayers,
		TurnTimeoutSeconds: c.TurnTimeoutSeconds,
		FoldHandDelay:      c.FoldHandDelay,
		ShowdownHandDelay:  c.ShowdownHandDelay,
	}
}

func (c Config) clamp() Config {
	if c.MaxPlayers < 2 {
		c.MaxPlayers = 2
	}
	if c.MaxPlayers > 9 {
		c.MaxPlayers = 9
	}
	if c.InitialChips <= 0 {
		c.InitialChips = DefaultConfig().InitialChips
	}
	if c.SmallBlind <= 0 {
		c.SmallBlind = DefaultConfig().SmallBlind
	}
	if c.BigBlind <= 0 {
		c.BigBlind = DefaultConfig().BigBlind
	}
	if c.TurnTimeoutSeconds <= 0 {
		c.TurnTimeoutSeconds = DefaultConfig().TurnTimeoutSeconds
	}
	if c.FoldHandDelay <= 0 {
		c.FoldHandDelay = DefaultConfig().FoldHandDelay
	}
	if c.ShowdownHandDelay <= 0 {
		c.ShowdownHandDelay = DefaultConfig().ShowdownHandDelay
	}
	return c
}

// PlayerView is the externally-safe projection of a player: it never holds
// hole cards, which travel only on the private notification kinds.
type PlayerView struct {
	ID               string
	Nickname         string
	Chips            int64
	CurrentBet       int64
	TotalBetThisHand int64
	Status           player.Status
	SeatIndex        int
	IsFolded         bool
	IsAllIn          bool
	IsCurrentTurn    bool
	IsDealer         bool
	IsHost           bool
	IsReady          bool
	Connected        bool
}

func viewOf(p *player.Player) PlayerView {
	return PlayerView{
		ID:               p.ID,
		Nickname:         p.Nickname,
		Chips:            p.Chips,
		CurrentBet:       p.CurrentBet,
		TotalBetThisHand: p.TotalBetThisHand,
		Status:           p.Status,
		SeatIndex:        p.SeatIndex,
		IsFolded:         p.IsFolded,
		IsAllIn:          p.IsAllIn,
		IsCurrentTurn:    p.IsCurrentTurn,
		IsDealer:         p.IsDealer,
		IsHost:           p.IsHost,
		IsReady:          p.IsReady,
		Connected:        p.Connected(),
	}
}

// RoomSnapshot is the public room-wide view sent on SYNC_STATE/ROOM_UPDATED.
type RoomSnapshot struct {
	ID                string
	HostID            string
	Config            Config
	Players           []PlayerView
	IsPlaying         bool
	Phase             game.Phase
	CommunityCards    []string
	Pots              []game.PotView
	CurrentPlayerSeat int
	DealerSeat        int
	HandID            string
	RoundID           string
	RoundIndex        int
	TurnDeadline      time.Time
	StateVersion      uint64
	CreatedAt         time.Time
}
