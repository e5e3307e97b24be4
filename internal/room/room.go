package room

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"log"
	"math/rand"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"holdem-rooms/internal/game"
	"holdem-rooms/internal/player"
)

const (
	processedRequestCapacity = 500
	offlineSeatTTL           = 30 * time.Second
)

// EventType enumerates the messages a Room's actor loop understands.
type EventType int

const (
	EventJoin EventType = iota
	EventReconnect
	EventSitDown
	EventStandUp
	EventSetReady
	EventStartGame
	EventAction
	EventKick
	EventLeave
	EventDisconnect
	EventTick
	EventClose
)

// Event is one message submitted to a room's serial executor.
type Event struct {
	Type         EventType
	PlayerID     string
	Nickname     string
	ConnectionID string
	ExistingID   string
	Seat         int
	Ready        bool
	Action       game.ActionType
	Amount       int64
	RoundIndex   int
	RequestID    string
	TargetID     string
	DisconnectedAt time.Time

	// ResultPlayerID, if non-nil, is filled in with the affected player's
	// id before Response fires (used by EventJoin so the gateway learns a
	// freshly-minted spectator's id without a second round trip).
	ResultPlayerID *string

	Response chan error
}

// Room is a single table's membership, seating, and hand orchestration,
// run from one actor goroutine so game.Controller's no-locking assumption
// holds. External callers change state only through SubmitEvent; the
// read-only accessors (Snapshot, IsEmpty, IsIdleFor) take the read lock.
type Room struct {
	ID     string
	Config Config

	mu         sync.RWMutex
	hostID     string
	players    map[string]*player.Player
	order      []string // insertion order, for host-transfer-by-seniority
	controller *game.Controller
	isPlaying    bool
	createdAt    time.Time
	lastActivity time.Time
	nextHandAt   time.Time
	stateVersion uint64

	processed *lru.Cache[string, struct{}]
	clock     quartz.Clock
	notify    func(Notification)

	events chan Event
	done   chan struct{}
	closed bool
	stopOnce sync.Once
}

// New creates a room, mints its host player, and starts its actor loop.
func New(id string, cfg Config, hostNickname, hostConnectionID string, clock quartz.Clock, notify func(Notification)) (*Room, string) {
	cfg = cfg.clamp()
	if clock == nil {
		clock = quartz.NewReal()
	}
	cache, _ := lru.New[string, struct{}](processedRequestCapacity)

	seats := make([]*player.Player, cfg.MaxPlayers)
	host := player.New(uuid.NewString(), hostNickname)
	host.IsHost = true
	host.ConnectionID = hostConnectionID

	r := &Room{
		ID:        id,
		Config:    cfg,
		hostID:    host.ID,
		players:   map[string]*player.Player{host.ID: host},
		order:        []string{host.ID},
		createdAt:    clock.Now(),
		lastActivity: clock.Now(),
		processed: cache,
		clock:     clock,
		notify:    notify,
		events:    make(chan Event, 256),
		done:      make(chan struct{}),
	}
	var seed [8]byte
	_, _ = cryptorand.Read(seed[:])
	rng := rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(seed[:]))))
	r.controller = game.NewController(cfg.toGameConfig(), seats, rng, clock)

	go r.run()
	log.Printf("[Room %s] Created (host=%s, max=%d, blinds=%d/%d)", id, host.Nickname, cfg.MaxPlayers, cfg.SmallBlind, cfg.BigBlind)
	return r, host.ID
}

// SubmitEvent enqueues an event and blocks for its outcome, mirroring the
// teacher's per-table actor pattern so callers never touch room state
// except through this single serialized entry point.
func (r *Room) SubmitEvent(e Event) error {
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}
	select {
	case r.events <- e:
	case <-r.done:
		return ErrRoomClosed
	}
	select {
	case err := <-e.Response:
		return err
	case <-r.done:
		return ErrRoomClosed
	}
}

func (r *Room) run() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case e := <-r.events:
			err := r.handleEvent(e)
			if e.Response != nil {
				e.Response <- err
			}
		case <-ticker.C:
			r.handleEvent(Event{Type: EventTick})
		case <-r.done:
			log.Printf("[Room %s] Actor stopped", r.ID)
			return
		}
	}
}

func (r *Room) handleEvent(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed && e.Type != EventClose {
		return ErrRoomClosed
	}

	switch e.Type {
	case EventJoin:
		p, err := r.handleJoin(e.PlayerID, e.Nickname, e.ConnectionID, e.ExistingID)
		if err == nil && e.ResultPlayerID != nil {
			*e.ResultPlayerID = p.ID
		}
		return err
	case EventReconnect:
		return r.handleReconnect(e.PlayerID, e.ConnectionID)
	case EventSitDown:
		return r.handleSitDown(e.PlayerID, e.Seat)
	case EventStandUp:
		return r.handleStandUp(e.PlayerID)
	case EventSetReady:
		return r.handleSetReady(e.PlayerID, e.Ready)
	case EventStartGame:
		return r.handleStartGame(e.PlayerID)
	case EventAction:
		return r.handleAction(e.PlayerID, e.Action, e.Amount, e.RoundIndex, e.RequestID)
	case EventKick:
		return r.handleKick(e.PlayerID, e.TargetID)
	case EventLeave:
		return r.handleLeave(e.PlayerID)
	case EventDisconnect:
		return r.handleDisconnect(e.PlayerID, e.DisconnectedAt)
	case EventTick:
		r.tick()
		return nil
	case EventClose:
		r.stopLocked()
		return nil
	default:
		return nil
	}
}

// --- membership -----------------------------------------------------------

func (r *Room) handleJoin(playerID, nickname, connectionID, existingID string) (*player.Player, error) {
	if existingID != "" {
		if p, ok := r.players[existingID]; ok {
			p.Reconnect(connectionID)
			r.emit(Notification{Type: EvtReconnected, PlayerID: p.ID, TargetPlayerID: p.ID, HoleCards: p.HoleCards, ActionHistory: r.currentHandTape()})
			return p, nil
		}
	}
	id := playerID
	if id == "" {
		id = uuid.NewString()
	}
	p := player.New(id, nickname)
	p.ConnectionID = connectionID
	r.players[id] = p
	r.order = append(r.order, id)
	r.bumpVersion()
	r.emit(Notification{Type: EvtPlayerJoined, PlayerID: id, PlayerIDs: []string{id}})
	return p, nil
}

func (r *Room) handleReconnect(playerID, connectionID string) error {
	p, ok := r.players[playerID]
	if !ok {
		return ErrNotInRoom
	}
	p.Reconnect(connectionID)
	r.emit(Notification{Type: EvtReconnected, PlayerID: p.ID, TargetPlayerID: p.ID, HoleCards: p.HoleCards, ActionHistory: r.currentHandTape()})
	return nil
}

// currentHandTape returns the in-progress hand's action history, letting a
// reconnecting player catch up without the room persisting anything.
func (r *Room) currentHandTape() []ActionView {
	if r.controller.State == nil || len(r.controller.State.ActionHistory) == 0 {
		return nil
	}
	tape := make([]ActionView, len(r.controller.State.ActionHistory))
	for i, rec := range r.controller.State.ActionHistory {
		tape[i] = ActionView{PlayerID: rec.PlayerID, Type: rec.Type, Amount: rec.Amount, Phase: rec.Phase}
	}
	return tape
}

func (r *Room) handleSitDown(playerID string, seat int) error {
	p, ok := r.players[playerID]
	if !ok {
		return ErrNotInRoom
	}
	if p.SeatIndex != player.UnseatedSeat {
		return ErrAlreadySeated
	}
	if seat < 0 || seat >= r.Config.MaxPlayers {
		return ErrSeatOutOfRange
	}
	if r.controller.Seats[seat] != nil {
		return ErrSeatOccupied
	}
	p.SitDown(seat)
	p.Chips = r.Config.InitialChips
	r.controller.Seats[seat] = p
	r.bumpVersion()
	r.emit(Notification{Type: EvtPlayerSat, PlayerID: playerID, Seat: seat})
	return nil
}

func (r *Room) handleStandUp(playerID string) error {
	p, ok := r.players[playerID]
	if !ok {
		return ErrNotInRoom
	}
	if p.SeatIndex == player.UnseatedSeat {
		return nil
	}
	if r.isPlaying {
		return ErrRoomPlaying
	}
	r.controller.Seats[p.SeatIndex] = nil
	p.StandUp()
	r.bumpVersion()
	r.emit(Notification{Type: EvtPlayerStood, PlayerID: playerID})
	return nil
}

func (r *Room) handleSetReady(playerID string, ready bool) error {
	p, ok := r.players[playerID]
	if !ok {
		return ErrNotInRoom
	}
	if p.SeatIndex == player.UnseatedSeat {
		return ErrNotSeated
	}
	p.IsReady = ready
	r.bumpVersion()
	r.emit(Notification{Type: EvtReadyStateChanged, PlayerID: playerID, ReadyState: ready})
	return nil
}

func (r *Room) handleKick(hostID, targetID string) error {
	if hostID != r.hostID {
		return ErrNotHost
	}
	if hostID == targetID {
		return ErrCannotKickSelf
	}
	if r.isPlaying {
		return ErrRoomPlaying
	}
	target, ok := r.players[targetID]
	if !ok {
		return ErrTargetNotFound
	}
	r.removePlayerLocked(target)
	r.bumpVersion()
	r.emit(Notification{Type: EvtPlayerKicked, PlayerID: targetID, TargetPlayerID: targetID})
	r.emit(Notification{Type: EvtPlayerKicked, PlayerID: targetID, PlayerIDs: []string{targetID}})
	return nil
}

func (r *Room) handleLeave(playerID string) error {
	p, ok := r.players[playerID]
	if !ok {
		return ErrNotInRoom
	}
	if p.SeatIndex != player.UnseatedSeat && r.isPlaying {
		return ErrRoomPlaying
	}
	r.removePlayerLocked(p)
	r.bumpVersion()
	r.emit(Notification{Type: EvtPlayerLeft, PlayerID: playerID})
	return nil
}

// handleDisconnect marks a seated player offline so releaseOfflineSeatsLocked
// can reclaim their seat after offlineSeatTTL; an unseated player (a
// spectator who never sat down) is just dropped, same as leaving.
func (r *Room) handleDisconnect(playerID string, at time.Time) error {
	p, ok := r.players[playerID]
	if !ok {
		return nil
	}
	if p.SeatIndex == player.UnseatedSeat {
		r.removePlayerLocked(p)
		r.bumpVersion()
		return nil
	}
	p.Disconnect(at)
	return nil
}

// removePlayerLocked deletes a player and, if they were host, transfers the
// role to the next remaining player by insertion order (spec 4.3 leaveRoom).
func (r *Room) removePlayerLocked(p *player.Player) {
	if p.SeatIndex != player.UnseatedSeat {
		r.controller.Seats[p.SeatIndex] = nil
	}
	delete(r.players, p.ID)
	for i, id := range r.order {
		if id == p.ID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if p.IsHost && len(r.order) > 0 {
		newHostID := r.order[0]
		r.hostID = newHostID
		r.players[newHostID].IsHost = true
		r.emit(Notification{Type: EvtHostTransferred, HostID: newHostID})
	}
}

// --- gameplay ---------------------------------------------------------

func (r *Room) handleStartGame(playerID string) error {
	if playerID != r.hostID {
		return ErrNotHost
	}
	if r.isPlaying {
		return ErrGameAlreadyStarted
	}
	if !r.nextHandAt.IsZero() && r.clock.Now().Before(r.nextHandAt) {
		return ErrHandPauseActive
	}
	for _, id := range r.order {
		p := r.players[id]
		if p.SeatIndex != player.UnseatedSeat && !p.IsHost && !p.IsReady {
			return ErrNotReady
		}
	}
	outcome, err := r.controller.StartHand()
	if err != nil {
		return err
	}
	r.isPlaying = true
	r.bumpVersion()
	r.emit(Notification{Type: EvtGameStarted, HandID: outcome.HandID, Seat: outcome.DealerSeat})
	for _, id := range r.order {
		p := r.players[id]
		if p.SeatIndex != player.UnseatedSeat && len(p.HoleCards) == 2 {
			r.emit(Notification{Type: EvtDealCards, PlayerID: p.ID, TargetPlayerID: p.ID, HoleCards: p.HoleCards})
		}
	}
	r.emit(Notification{Type: EvtPlayerTurn, Seat: outcome.FirstActorSeat})
	return nil
}

func (r *Room) handleAction(playerID string, actionType game.ActionType, amount int64, roundIndex int, requestID string) error {
	if requestID != "" {
		if _, ok := r.processed.Get(requestID); ok {
			return ErrDuplicateRequest
		}
	}
	outcome, err := r.controller.Act(game.Action{PlayerID: playerID, Type: actionType, Amount: amount, RoundIndex: roundIndex})
	if err != nil {
		return err
	}
	if requestID != "" {
		r.processed.Add(requestID, struct{}{})
	}
	r.bumpVersion()
	r.applyActionOutcome(outcome)
	return nil
}

func (r *Room) applyActionOutcome(outcome *game.ActionOutcome) {
	r.emit(Notification{
		Type: EvtPlayerActed,
		Action: &ActionView{
			PlayerID: outcome.Record.PlayerID,
			Type:     outcome.Record.Type,
			Amount:   outcome.Record.Amount,
			Phase:    outcome.Record.Phase,
		},
	})
	if outcome.HandEnded {
		r.finishHandLocked(outcome.HandResult)
		return
	}
	r.emit(Notification{Type: EvtPlayerTurn, Seat: outcome.NextActorSeat})
}

func (r *Room) finishHandLocked(result *game.HandOutcome) {
	r.isPlaying = false
	r.transferHostIfEliminatedLocked(result.EliminatedPlayerIDs)
	r.emit(Notification{Type: EvtHandResult, HandID: result.HandID, Result: newHandResultView(result)})
	r.emit(Notification{Type: EvtSyncState})
	if result.GameEnded {
		r.emit(Notification{Type: EvtGameEnded, PlayerIDs: winnersOf(result.Winnings)})
		return
	}
	delay := r.Config.ShowdownHandDelay
	if len(result.ShowdownCards) == 0 {
		delay = r.Config.FoldHandDelay
	}
	r.nextHandAt = r.clock.Now().Add(delay)
	for _, id := range r.order {
		r.players[id].IsReady = false
	}
}

// transferHostIfEliminatedLocked implements spec 4.3's end-of-hand host
// transfer: if the host busted out this hand, hostship passes to the next
// remaining not-eliminated seated player by insertion order, same as
// removePlayerLocked's transfer-on-departure rule.
func (r *Room) transferHostIfEliminatedLocked(eliminatedIDs []string) {
	eliminated := false
	for _, id := range eliminatedIDs {
		if id == r.hostID {
			eliminated = true
			break
		}
	}
	if !eliminated {
		return
	}
	for _, id := range r.order {
		if id == r.hostID {
			continue
		}
		p := r.players[id]
		if p.SeatIndex == player.UnseatedSeat || p.Status == player.Eliminated {
			continue
		}
		r.players[r.hostID].IsHost = false
		r.hostID = id
		p.IsHost = true
		r.emit(Notification{Type: EvtHostTransferred, HostID: id})
		return
	}
}

func winnersOf(winnings map[string]int64) []string {
	ids := make([]string, 0, len(winnings))
	for id := range winnings {
		ids = append(ids, id)
	}
	return ids
}

// --- timers -------------------------------------------------------------

func (r *Room) tick() {
	now := r.clock.Now()
	if r.isPlaying && r.controller.State != nil && r.controller.State.Phase != game.Idle {
		deadline := r.controller.State.TurnDeadline
		if !deadline.IsZero() && !now.Before(deadline) {
			outcome, err := r.controller.Timeout()
			if err == nil {
				r.bumpVersion()
				r.applyActionOutcome(outcome)
			}
		}
	}
	r.releaseOfflineSeatsLocked(now)
}

// releaseOfflineSeatsLocked stands up seated players who have been
// disconnected past offlineSeatTTL, but only outside an active hand (spec
// 3's invariant: only disconnection, not membership change, is allowed
// while isPlaying).
func (r *Room) releaseOfflineSeatsLocked(now time.Time) {
	if r.isPlaying {
		return
	}
	for _, id := range r.order {
		p := r.players[id]
		if p.SeatIndex == player.UnseatedSeat || p.Connected() || p.DisconnectedAt.IsZero() {
			continue
		}
		if now.Sub(p.DisconnectedAt) < offlineSeatTTL {
			continue
		}
		r.controller.Seats[p.SeatIndex] = nil
		p.StandUp()
		r.bumpVersion()
		r.emit(Notification{Type: EvtPlayerStood, PlayerID: id})
	}
}

// --- helpers --------------------------------------------------------------

func (r *Room) bumpVersion() {
	r.stateVersion++
	r.lastActivity = r.clock.Now()
}

func (r *Room) emit(n Notification) {
	if r.notify == nil {
		return
	}
	n.RoomID = r.ID
	n.StateVersion = r.stateVersion
	if s := r.controller.State; s != nil {
		switch n.Type {
		case EvtPlayerTurn:
			n.RoundID = s.RoundID
			fallthrough
		case EvtDealCards, EvtPlayerActed:
			if n.HandID == "" {
				n.HandID = s.HandID
			}
		}
	}
	r.notify(n)
}

// Snapshot returns the room's public state for SYNC_STATE/ROOM_UPDATED.
func (r *Room) Snapshot() RoomSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() RoomSnapshot {
	players := make([]PlayerView, 0, len(r.order))
	for _, id := range r.order {
		players = append(players, viewOf(r.players[id]))
	}
	s := RoomSnapshot{
		ID:        r.ID,
		HostID:    r.hostID,
		Config:    r.Config,
		Players:   players,
		IsPlaying: r.isPlaying,
		CreatedAt: r.createdAt,
	}
	if r.controller.State != nil {
		s.Phase = r.controller.State.Phase
		s.CommunityCards = communityStrings(r.controller.State.CommunityCards)
		s.Pots = r.controller.State.Pots
		s.CurrentPlayerSeat = r.controller.State.CurrentPlayerSeat
		s.DealerSeat = r.controller.State.DealerSeat
		s.HandID = r.controller.State.HandID
		s.RoundID = r.controller.State.RoundID
		s.RoundIndex = r.controller.State.RoundIndex
		s.TurnDeadline = r.controller.State.TurnDeadline
	}
	s.StateVersion = r.stateVersion
	return s
}

// IsEmpty reports whether the room has no members left (destroy candidate).
func (r *Room) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players) == 0
}

// IsIdleFor reports whether the room has seen no state-changing event for
// at least ttl, e.g. a room somebody created and then abandoned.
func (r *Room) IsIdleFor(ttl time.Duration) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.isPlaying && r.clock.Now().Sub(r.lastActivity) >= ttl
}

func (r *Room) stopLocked() {
	r.stopOnce.Do(func() {
		r.closed = true
		close(r.done)
	})
}

// Stop shuts the room's actor loop down.
func (r *Room) Stop() {
	_ = r.SubmitEvent(Event{Type: EventClose})
}
