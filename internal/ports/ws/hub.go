package ws

import (
	"sync"

	"tienlen/internal/app"

	"github.com/charmbracelet/log"
)

// Hub tracks one connection per seat and fans room events out to them.
// It implements app.Publisher; Publish never blocks, so it is safe to call
// under a room lock. A client whose buffer is full misses the batch and
// can resync.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]*Client // room id -> player id -> client
	logger *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{rooms: make(map[string]map[string]*Client), logger: logger}
}

// register replaces any earlier connection for the same seat.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	seats, ok := h.rooms[c.session.RoomID]
	if !ok {
		seats = make(map[string]*Client)
		h.rooms[c.session.RoomID] = seats
	}
	if old, ok := seats[c.session.PlayerID]; ok {
		close(old.send)
	}
	seats[c.session.PlayerID] = c
	h.logger.Debug("client registered", "room", c.session.RoomID, "player", c.session.PlayerID)
}

// unregister is a no-op for clients that were already replaced.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	seats := h.rooms[c.session.RoomID]
	if seats[c.session.PlayerID] != c {
		return
	}
	delete(seats, c.session.PlayerID)
	if len(seats) == 0 {
		delete(h.rooms, c.session.RoomID)
	}
	close(c.send)
	h.logger.Debug("client unregistered", "room", c.session.RoomID, "player", c.session.PlayerID)
}

// Publish sends each seat the events it may see.
func (h *Hub) Publish(roomID string, events []app.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for playerID, c := range h.rooms[roomID] {
		visible := make([]app.Event, 0, len(events))
		for _, ev := range events {
			if ev.VisibleTo(playerID) {
				visible = append(visible, ev)
			}
		}
		if len(visible) == 0 {
			continue
		}
		h.trySend(c, OutgoingMessage{Event: EventEvents, Data: visible})
	}
}

// send delivers a message to one registered client.
func (h *Hub) send(c *Client, msg OutgoingMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.rooms[c.session.RoomID][c.session.PlayerID] != c {
		return
	}
	h.trySend(c, msg)
}

// trySend requires h.mu held.
func (h *Hub) trySend(c *Client, msg OutgoingMessage) {
	select {
	case c.send <- msg:
	default:
		h.logger.Warn("client buffer full, dropping message", "room", c.session.RoomID, "player", c.session.PlayerID, "event", msg.Event)
	}
}

// Connections returns the number of connected seats.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, seats := range h.rooms {
		n += len(seats)
	}
	return n
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, seats := range h.rooms {
		for _, c := range seats {
			close(c.send)
		}
		delete(h.rooms, id)
	}
}
