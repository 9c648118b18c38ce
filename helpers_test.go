package main

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		restartDelay: 20 * time.Millisecond,
	}
}

func newTestClient() *Client {
	return &Client{
		id:   uuid.NewString(),
		send: make(chan any, 64),
	}
}

func nextEnvelope(t *testing.T, c *Client) Envelope {
	t.Helper()

	select {
	case msg := <-c.send:
		env, ok := msg.(Envelope)
		require.True(t, ok, "unexpected message %T", msg)
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}

	return Envelope{}
}

func nextError(t *testing.T, c *Client) ErrorMessage {
	t.Helper()

	select {
	case msg := <-c.send:
		errMsg, ok := msg.(ErrorMessage)
		require.True(t, ok, "unexpected message %T", msg)
		return errMsg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}

	return ErrorMessage{}
}

func requireNoMessage(t *testing.T, c *Client, wait time.Duration) {
	t.Helper()

	select {
	case msg := <-c.send:
		t.Fatalf("unexpected message: %#v", msg)
	case <-time.After(wait):
	}
}

func drain(c *Client) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}

// setupRoom creates a room through the manager with one client per name,
// host first, and drains the signup chatter from every client.
func setupRoom(t *testing.T, m *Manager, names ...string) (*Room, []*Client) {
	t.Helper()

	clients := make([]*Client, len(names))
	clients[0] = newTestClient()
	m.handleMessage(clients[0], ClientMessage{Type: "create_room", Data: ClientPayload{PlayerName: names[0]}})

	created := nextEnvelope(t, clients[0])
	require.Equal(t, "room_created", created.Type)
	code := created.Data.(RoomCreatedData).RoomCode

	for i, name := range names[1:] {
		c := newTestClient()
		clients[i+1] = c
		m.handleMessage(c, ClientMessage{Type: "join_room", Data: ClientPayload{PlayerName: name, RoomCode: code}})
	}

	m.mu.RLock()
	room := m.rooms[code]
	m.mu.RUnlock()
	require.NotNil(t, room)

	for _, c := range clients {
		drain(c)
	}

	return room, clients
}

func setHands(r *Room, hands ...[]int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, h := range hands {
		r.players[i].Hand = append([]int(nil), h...)
	}
	if r.game != nil {
		r.game.played = nil
	}
}
