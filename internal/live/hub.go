package live

import (
	"context"
	"sync"

	"cricket-score/internal/constants"

	"github.com/rs/zerolog"
)

// Hub routes messages to the viewers of each match room. All room mutations
// and deliveries happen on the Run goroutine, so a room sees messages in the
// order they were published.
type Hub struct {
	rooms   map[string]map[*Client]bool
	roomsMu sync.RWMutex

	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	logger zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan Message, constants.HubBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "hub").Logger(),
	}
}

func (h *Hub) Run(ctx context.Context) {
	h.logger.Info().Msg("hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.Send)
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues msg for its match room, waiting for buffer space until ctx
// is done. It reports false when the hub is stopped or ctx ran out first.
func (h *Hub) Publish(ctx context.Context, msg Message) bool {
	select {
	case h.broadcast <- msg:
		return true
	case <-h.done:
		return false
	case <-ctx.Done():
		h.logger.Warn().
			Err(ctx.Err()).
			Str("match_id", msg.MatchID).
			Str("type", string(msg.Type)).
			Msg("broadcast buffer full, message not queued")
		return false
	}
}

func (h *Hub) RoomSize(matchID string) int {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	return len(h.rooms[Room(matchID)])
}

func (h *Hub) registerClient(c *Client) {
	room := Room(c.MatchID)

	h.roomsMu.Lock()
	clients, ok := h.rooms[room]
	if !ok {
		clients = make(map[*Client]bool)
		h.rooms[room] = clients
	}
	clients[c] = true
	count := len(clients)
	h.roomsMu.Unlock()

	h.logger.Debug().Str("client_id", c.ID).Str("room", room).Int("count", count).Msg("client joined")
	h.deliver(NewMessage(TypePresence, c.MatchID, PresencePayload{Count: count}))
}

func (h *Hub) unregisterClient(c *Client) {
	h.evict(c.MatchID, []*Client{c})
}

// evict removes clients from the match room, closes their send channels and
// tells the remaining viewers the new count. Clients already gone are skipped.
func (h *Hub) evict(matchID string, clients []*Client) {
	room := Room(matchID)

	h.roomsMu.Lock()
	members, ok := h.rooms[room]
	if !ok {
		h.roomsMu.Unlock()
		return
	}
	removed := 0
	for _, c := range clients {
		if !members[c] {
			continue
		}
		delete(members, c)
		close(c.Send)
		removed++
		h.logger.Debug().Str("client_id", c.ID).Str("room", room).Msg("client left")
	}
	count := len(members)
	if count == 0 {
		delete(h.rooms, room)
	}
	h.roomsMu.Unlock()

	if removed > 0 && count > 0 {
		h.deliver(NewMessage(TypePresence, matchID, PresencePayload{Count: count}))
	}
}

// deliver fans msg out to a snapshot of the room. Clients that cannot keep up
// are evicted after the whole snapshot has been served, never mid-loop.
func (h *Hub) deliver(msg Message) {
	h.roomsMu.RLock()
	clients := make([]*Client, 0, len(h.rooms[Room(msg.MatchID)]))
	for c := range h.rooms[Room(msg.MatchID)] {
		clients = append(clients, c)
	}
	h.roomsMu.RUnlock()

	var slow []*Client
	for _, c := range clients {
		if !c.TrySend(msg) {
			h.logger.Warn().Str("client_id", c.ID).Msg("client buffer full, disconnecting")
			slow = append(slow, c)
		}
	}
	if len(slow) > 0 {
		h.evict(msg.MatchID, slow)
	}
}

func (h *Hub) shutdown() {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()

	n := 0
	for room, clients := range h.rooms {
		for c := range clients {
			close(c.Send)
			n++
		}
		delete(h.rooms, room)
	}
	h.logger.Info().Int("clients", n).Msg("hub stopped")
}
