package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cricket-score/internal/domain"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := NewHub(zerolog.Nop())
	go h.Run(ctx)
	return h, ctx
}

func recv(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestHubRoomsAndPresence(t *testing.T) {
	h, ctx := startHub(t)

	a := NewClient("a", "m1", nil, h, zerolog.Nop())
	b := NewClient("b", "m1", nil, h, zerolog.Nop())
	other := NewClient("c", "m2", nil, h, zerolog.Nop())

	h.Register(a)
	msg := recv(t, a)
	assert.Equal(t, TypePresence, msg.Type)
	assert.Equal(t, PresencePayload{Count: 1}, msg.Payload)

	h.Register(b)
	assert.Equal(t, PresencePayload{Count: 2}, recv(t, a).Payload)
	assert.Equal(t, PresencePayload{Count: 2}, recv(t, b).Payload)

	h.Register(other)
	recv(t, other)

	require.True(t, h.Publish(ctx, NewMessage(TypeStateUpdate, "m1", "first")))
	require.True(t, h.Publish(ctx, NewMessage(TypeOverComplete, "m1", "second")))

	for _, c := range []*Client{a, b} {
		assert.Equal(t, "first", recv(t, c).Payload)
		assert.Equal(t, "second", recv(t, c).Payload)
	}
	assert.Empty(t, other.Send)
	assert.Equal(t, 2, h.RoomSize("m1"))

	h.Unregister(b)
	assert.Equal(t, PresencePayload{Count: 1}, recv(t, a).Payload)
	_, ok := <-b.Send
	assert.False(t, ok)
	assert.Equal(t, 1, h.RoomSize("m1"))
}

func TestHubStopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(zerolog.Nop())
	go h.Run(ctx)

	c := NewClient("a", "m1", nil, h, zerolog.Nop())
	h.Register(c)
	recv(t, c)

	cancel()
	require.Eventually(t, func() bool {
		return !h.Publish(context.Background(), NewMessage(TypeStateUpdate, "m1", nil))
	}, time.Second, 10*time.Millisecond)

	for range c.Send {
	}
	assert.Equal(t, 0, h.RoomSize("m1"))
}

func TestHubEvictsSlowClientsAfterDelivery(t *testing.T) {
	h := NewHub(zerolog.Nop())

	// unbuffered sends with nobody reading: both viewers are stuck
	stuck1 := &Client{ID: "s1", MatchID: "m1", Send: make(chan Message)}
	stuck2 := &Client{ID: "s2", MatchID: "m1", Send: make(chan Message)}
	fast := NewClient("f", "m1", nil, h, zerolog.Nop())
	h.rooms[Room("m1")] = map[*Client]bool{stuck1: true, stuck2: true, fast: true}

	require.NotPanics(t, func() {
		h.deliver(NewMessage(TypeStateUpdate, "m1", "ball"))
	})

	assert.Equal(t, 1, h.RoomSize("m1"))
	for _, c := range []*Client{stuck1, stuck2} {
		_, ok := <-c.Send
		assert.False(t, ok, "client %s should be closed", c.ID)
	}

	assert.Equal(t, "ball", recv(t, fast).Payload)
	assert.Equal(t, PresencePayload{Count: 1}, recv(t, fast).Payload)
	assert.Empty(t, fast.Send, "one presence update for the whole eviction")
}

func TestHubEvictLastClientsEmptiesRoom(t *testing.T) {
	h := NewHub(zerolog.Nop())
	stuck1 := &Client{ID: "s1", MatchID: "m1", Send: make(chan Message)}
	stuck2 := &Client{ID: "s2", MatchID: "m1", Send: make(chan Message)}
	h.rooms[Room("m1")] = map[*Client]bool{stuck1: true, stuck2: true}

	require.NotPanics(t, func() {
		h.deliver(NewMessage(TypeStateUpdate, "m1", nil))
		h.unregisterClient(stuck1)
	})
	assert.Equal(t, 0, h.RoomSize("m1"))
}

func TestHubPublishWaitsForBufferSpace(t *testing.T) {
	h := NewHub(zerolog.Nop())
	h.broadcast = make(chan Message)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.False(t, h.Publish(ctx, NewMessage(TypeMatchFinished, "m1", nil)), "nobody draining")

	got := make(chan Message, 1)
	go func() { got <- <-h.broadcast }()

	require.True(t, h.Publish(context.Background(), NewMessage(TypeMatchFinished, "m1", "final")))
	assert.Equal(t, "final", (<-got).Payload)
}

func TestHandlerStreamsRoomMessages(t *testing.T) {
	h, ctx := startHub(t)
	lookup := func(ctx context.Context, id string) error {
		if id != "m1" {
			return domain.ErrNotFound
		}
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("GET /ws/matches/{id}", NewHandler(ctx, h, lookup, "*", zerolog.Nop()))
	server := httptest.NewServer(mux)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	t.Run("unknown match", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL+"/ws/matches/nope", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/matches/m1", nil)
	require.NoError(t, err)
	defer conn.Close()

	type wire struct {
		Type    MessageType     `json:"type"`
		MatchID string          `json:"matchId"`
		Payload json.RawMessage `json:"payload"`
	}
	read := func() wire {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var w wire
		require.NoError(t, conn.ReadJSON(&w))
		return w
	}

	presence := read()
	assert.Equal(t, TypePresence, presence.Type)
	assert.JSONEq(t, `{"count":1}`, string(presence.Payload))

	h.Publish(ctx, NewMessage(TypeStateUpdate, "m1", map[string]int{"runs": 4}))
	update := read()
	assert.Equal(t, TypeStateUpdate, update.Type)
	assert.Equal(t, "m1", update.MatchID)
	assert.JSONEq(t, `{"runs":4}`, string(update.Payload))

	conn.Close()
	require.Eventually(t, func() bool { return h.RoomSize("m1") == 0 }, 2*time.Second, 20*time.Millisecond)
}
