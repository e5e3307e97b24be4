package room

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/quartz"
)

const (
	idleRoomTTL        = 10 * time.Minute
	cleanupInterval    = 30 * time.Second
	roomIDDigits       = 6
)

// Manager is the process-wide room registry (spec 4.3's RoomManager). It
// mutates its own map only on create/destroy; everything inside a room is
// reached only through that room's serial executor.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	clock    quartz.Clock
	notifier func(Notification)
	rng      *rand.Rand

	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a registry. notify is invoked (from room actor
// goroutines) for every outbound event; callers typically hand this to
// internal/gateway for fan-out.
func NewManager(clock quartz.Clock, notify func(Notification)) *Manager {
	if clock == nil {
		clock = quartz.NewReal()
	}
	m := &Manager{
		rooms:    make(map[string]*Room),
		clock:    clock,
		notifier: notify,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		done:     make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// CreateRoom implements spec 4.3's createRoom: mints a unique 6-digit id
// and a host player, and registers the new room.
func (m *Manager) CreateRoom(hostNickname string, cfg Config, hostConnectionID string) (*Room, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.allocateIDLocked()
	if err != nil {
		return nil, "", err
	}
	r, hostID := New(id, cfg, hostNickname, hostConnectionID, m.clock, m.notifier)
	m.rooms[id] = r
	log.Printf("[RoomManager] Created room %s (host=%s)", id, hostNickname)
	return r, hostID, nil
}

func (m *Manager) allocateIDLocked() (string, error) {
	for attempt := 0; attempt < 1000; attempt++ {
		id := fmt.Sprintf("%0*d", roomIDDigits, m.rng.Intn(1_000_000))
		if _, exists := m.rooms[id]; !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("room: could not allocate a unique id")
}

// GetRoom returns a room by id, or nil if it doesn't exist.
func (m *Manager) GetRoom(roomID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[roomID]
}

// JoinRoom implements spec 4.3's joinRoom, dispatched through the room's
// own serial executor. Returns the joining player's id (freshly minted for
// a new spectator, or the rebound existingPlayerID on reconnect-by-join).
func (m *Manager) JoinRoom(roomID, nickname, connectionID, existingPlayerID string) (*Room, string, error) {
	r := m.GetRoom(roomID)
	if r == nil {
		return nil, "", ErrRoomNotFound
	}
	var playerID string
	err := r.SubmitEvent(Event{
		Type:           EventJoin,
		Nickname:       nickname,
		ConnectionID:   connectionID,
		ExistingID:     existingPlayerID,
		ResultPlayerID: &playerID,
	})
	if err != nil {
		return nil, "", err
	}
	return r, playerID, nil
}

// Reconnect implements the RECONNECT wire message: rebind a known player's
// connection without any join-time side effects.
func (m *Manager) Reconnect(roomID, playerID, connectionID string) (*Room, error) {
	r := m.GetRoom(roomID)
	if r == nil {
		return nil, ErrRoomNotFound
	}
	if err := r.SubmitEvent(Event{Type: EventReconnect, PlayerID: playerID, ConnectionID: connectionID}); err != nil {
		return nil, err
	}
	return r, nil
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.reapEmptyRooms()
		case <-m.done:
			return
		}
	}
}

// reapEmptyRooms destroys rooms with no remaining members (spec 4.3
// leaveRoom: "Destroys the room when empty") and rooms that are not
// playing and have been idle for idleRoomTTL.
func (m *Manager) reapEmptyRooms() int {
	m.mu.Lock()
	var toStop []*Room
	for id, r := range m.rooms {
		if r.IsEmpty() || r.IsIdleFor(idleRoomTTL) {
			delete(m.rooms, id)
			toStop = append(toStop, r)
		}
	}
	m.mu.Unlock()

	for _, r := range toStop {
		r.Stop()
		log.Printf("[RoomManager] Removed empty or idle room %s", r.ID)
	}
	return len(toStop)
}

// Stop shuts down registry housekeeping and every room it owns.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
		m.mu.Lock()
		rooms := make([]*Room, 0, len(m.rooms))
		for _, r := range m.rooms {
			rooms = append(rooms, r)
		}
		m.rooms = make(map[string]*Room)
		m.mu.Unlock()
		for _, r := range rooms {
			r.Stop()
		}
	})
}
