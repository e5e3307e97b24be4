// Package gateway is the websocket front door: it upgrades incoming HTTP
// connections, decodes/encodes the JSON envelopes in internal/wire, and
// turns them into internal/room.Manager calls and back. It never touches
// game state directly.
package gateway

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"holdem-rooms/internal/room"
	"holdem-rooms/internal/wire"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to configured origins before any real deployment
	},
}

// Connection is one websocket client. A connection starts out bound to no
// room; CREATE_ROOM/JOIN_ROOM/RECONNECT bind it to exactly one.
type Connection struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway
	LastPing time.Time

	mu       sync.RWMutex
	roomID   string
	playerID string
}

func (c *Connection) bind(roomID, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
	c.playerID = playerID
}

func (c *Connection) identity() (roomID, playerID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID, c.playerID
}

// Gateway owns the connection registry and the single room.Manager backing
// every room on the process.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	roomMembers map[string]map[string]*Connection // roomID -> playerID -> conn
	nextConnID  uint64

	manager *room.Manager
}

// New creates a Gateway and the Manager it dispatches notifications for.
func New() *Gateway {
	g := &Gateway{
		connections: make(map[string]*Connection),
		roomMembers: make(map[string]map[string]*Connection),
	}
	g.manager = room.NewManager(nil, g.dispatch)
	return g
}

// HandleWebSocket upgrades the request and spawns the connection's pumps.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	connID := fmt.Sprintf("conn_%d", g.nextConnID)
	c := &Connection{
		ID:       connID,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		LastPing: time.Now(),
	}
	g.connections[connID] = c
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s, total: %d", connID, len(g.connections))

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}
		if messageType == websocket.TextMessage {
			c.handleMessage(message)
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Connection) sendEnvelope(env wire.ServerEnvelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("[Gateway] Failed to marshal %s: %v", env.Type, err)
		return
	}
	select {
	case c.Send <- data:
	default:
		log.Printf("[Gateway] Dropping %s for %s: send buffer full", env.Type, c.ID)
	}
}

func (c *Connection) sendError(code, message string, clearSession bool) {
	c.sendEnvelope(wire.ServerEnvelope{
		Type: "ERROR",
		Payload: wire.ErrorPayload{
			Code:               code,
			Message:            message,
			ShouldClearSession: clearSession,
		},
	})
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	delete(g.connections, c.ID)
	g.mu.Unlock()

	roomID, playerID := c.identity()
	if roomID == "" {
		return
	}
	g.mu.Lock()
	if members, ok := g.roomMembers[roomID]; ok {
		delete(members, playerID)
		if len(members) == 0 {
			delete(g.roomMembers, roomID)
		}
	}
	g.mu.Unlock()

	if r := g.manager.GetRoom(roomID); r != nil {
		now := time.Now()
		_ = r.SubmitEvent(room.Event{Type: room.EventDisconnect, PlayerID: playerID, DisconnectedAt: now})
	}
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, len(g.connections))
}

func (g *Gateway) registerMember(roomID, playerID string, c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	members, ok := g.roomMembers[roomID]
	if !ok {
		members = make(map[string]*Connection)
		g.roomMembers[roomID] = members
	}
	members[playerID] = c
}

func (g *Gateway) connectionFor(roomID, playerID string) *Connection {
	g.mu.RLock()
	defer g.mu.RUnlock()
	members, ok := g.roomMembers[roomID]
	if !ok {
		return nil
	}
	return members[playerID]
}

func (g *Gateway) broadcastRoom(roomID string, env wire.ServerEnvelope) {
	g.mu.RLock()
	members := make([]*Connection, 0, len(g.roomMembers[roomID]))
	for _, c := range g.roomMembers[roomID] {
		members = append(members, c)
	}
	g.mu.RUnlock()
	for _, c := range members {
		c.sendEnvelope(env)
	}
}

// dispatch is the room.Manager notify callback: it translates one
// room.Notification into a wire envelope and routes it to the right
// connection(s).
func (g *Gateway) dispatch(n room.Notification) {
	snapshot := func() room.RoomSnapshot {
		r := g.manager.GetRoom(n.RoomID)
		if r == nil {
			return room.RoomSnapshot{}
		}
		return r.Snapshot()
	}
	env := wire.FromNotification(n, snapshot)

	if n.TargetPlayerID != "" {
		if c := g.connectionFor(n.RoomID, n.TargetPlayerID); c != nil {
			c.sendEnvelope(env)
		}
		return
	}
	g.broadcastRoom(n.RoomID, env)
}
