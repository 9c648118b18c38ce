package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateRoomAssignsCodeAndHost(t *testing.T) {
	m := newManager(testConfig())
	c := newTestClient()

	m.handleMessage(c, ClientMessage{Type: "create_room", Data: ClientPayload{PlayerName: "Alice"}})

	env := nextEnvelope(t, c)
	require.Equal(t, "room_created", env.Type)
	data := env.Data.(RoomCreatedData)

	require.Len(t, data.RoomCode, roomCodeLength)
	for _, r := range data.RoomCode {
		require.Contains(t, roomCodeAlphabet, string(r))
	}
	require.NotEmpty(t, data.PlayerID)
	require.Len(t, data.Players, 1)
	require.True(t, data.Players[0].IsHost)
	require.Equal(t, "Alice", data.Players[0].Name)

	rooms, players := m.counts()
	require.Equal(t, 1, rooms)
	require.Equal(t, 1, players)
}

func TestJoinRoomNotFound(t *testing.T) {
	m := newManager(testConfig())
	c := newTestClient()

	m.handleMessage(c, ClientMessage{Type: "join_room", Data: ClientPayload{PlayerName: "Bob", RoomCode: "NOPE00"}})

	errMsg := nextError(t, c)
	require.Equal(t, ErrRoomNotFound.Error(), errMsg.Message)
}

func TestJoinRoomFull(t *testing.T) {
	m := newManager(testConfig())
	room, _ := setupRoom(t, m, "Alice", "Bob", "Carol", "Dave")

	extra := newTestClient()
	m.handleMessage(extra, ClientMessage{Type: "join_room", Data: ClientPayload{PlayerName: "Eve", RoomCode: room.code}})

	errMsg := nextError(t, extra)
	require.Equal(t, ErrRoomFull.Error(), errMsg.Message)
}

func TestJoinRoomNotJoinableWhilePlaying(t *testing.T) {
	m := newManager(testConfig())
	room, clients := setupRoom(t, m, "Alice", "Bob")

	m.handleMessage(clients[0], ClientMessage{Type: "start_game"})
	for _, c := range clients {
		drain(c)
	}

	late := newTestClient()
	m.handleMessage(late, ClientMessage{Type: "join_room", Data: ClientPayload{PlayerName: "Carol", RoomCode: room.code}})

	errMsg := nextError(t, late)
	require.Equal(t, ErrNotJoinable.Error(), errMsg.Message)
}

func TestJoinBroadcastsToEveryone(t *testing.T) {
	m := newManager(testConfig())
	room, clients := setupRoom(t, m, "Alice")
	created := clients[0]

	joiner := newTestClient()
	m.handleMessage(joiner, ClientMessage{Type: "join_room", Data: ClientPayload{PlayerName: "Bob", RoomCode: room.code}})

	env := nextEnvelope(t, created)
	require.Equal(t, "player_joined", env.Type)
	hostView := env.Data.(PlayerJoinedData)
	require.Empty(t, hostView.PlayerID)
	require.Len(t, hostView.AllPlayers, 2)

	env = nextEnvelope(t, joiner)
	require.Equal(t, "player_joined", env.Type)
	joinerView := env.Data.(PlayerJoinedData)
	require.NotEmpty(t, joinerView.PlayerID)
	require.Equal(t, "Bob", joinerView.Player.Name)
	require.False(t, joinerView.Player.IsHost)
}

func TestLeaveReassignsHostToEarliestJoiner(t *testing.T) {
	m := newManager(testConfig())
	room, clients := setupRoom(t, m, "Alice", "Bob", "Carol")

	m.handleMessage(clients[0], ClientMessage{Type: "leave_room"})

	for _, c := range clients[1:] {
		env := nextEnvelope(t, c)
		require.Equal(t, "player_left", env.Type)
		data := env.Data.(PlayerLeftData)
		require.Equal(t, "Alice", data.PlayerName)
		require.Equal(t, "left", data.Reason)
		require.Equal(t, 2, data.RemainingPlayers)
		require.Equal(t, "Bob", data.NewHostName)
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	require.Len(t, room.players, 2)
	require.True(t, room.players[0].Host)
	require.Equal(t, "Bob", room.players[0].Name)
}

func TestLeaveDuringGameRevertsToLobby(t *testing.T) {
	m := newManager(testConfig())
	room, clients := setupRoom(t, m, "Alice", "Bob", "Carol")

	m.handleMessage(clients[0], ClientMessage{Type: "start_game"})
	for _, c := range clients {
		drain(c)
	}

	m.handleMessage(clients[2], ClientMessage{Type: "leave_room"})

	room.mu.Lock()
	defer room.mu.Unlock()
	require.Equal(t, statusLobby, room.status)
	require.Nil(t, room.game)
	require.Len(t, room.players, 2)
}

func TestRoomDeletedWhenEmpty(t *testing.T) {
	m := newManager(testConfig())
	_, clients := setupRoom(t, m, "Alice", "Bob")

	m.handleMessage(clients[1], ClientMessage{Type: "leave_room"})
	m.handleMessage(clients[0], ClientMessage{Type: "leave_room"})

	rooms, players := m.counts()
	require.Equal(t, 0, rooms)
	require.Equal(t, 0, players)
}

func TestDisconnectTaggedAsDisconnected(t *testing.T) {
	m := newManager(testConfig())
	_, clients := setupRoom(t, m, "Alice", "Bob")

	m.disconnect(clients[1])

	env := nextEnvelope(t, clients[0])
	require.Equal(t, "player_left", env.Type)
	data := env.Data.(PlayerLeftData)
	require.Equal(t, "Bob", data.PlayerName)
	require.Equal(t, "disconnected", data.Reason)
}

func TestDisconnectWithoutRoomIsHarmless(t *testing.T) {
	m := newManager(testConfig())
	c := newTestClient()

	m.disconnect(c)

	rooms, players := m.counts()
	require.Equal(t, 0, rooms)
	require.Equal(t, 0, players)
}

func TestEmotionIsPureRelay(t *testing.T) {
	m := newManager(testConfig())
	room, clients := setupRoom(t, m, "Alice", "Bob")

	m.handleMessage(clients[1], ClientMessage{Type: "emotion", Data: ClientPayload{Emotion: "party"}})

	for _, c := range clients {
		env := nextEnvelope(t, c)
		require.Equal(t, "emotion", env.Type)
		data := env.Data.(EmotionData)
		require.Equal(t, "Bob", data.PlayerName)
		require.Equal(t, "party", data.Emotion)
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	require.Equal(t, statusLobby, room.status)
}

func TestUnknownMessageTypesAreIgnored(t *testing.T) {
	m := newManager(testConfig())
	_, clients := setupRoom(t, m, "Alice")

	m.handleMessage(clients[0], ClientMessage{Type: "dance"})
	m.handleMessage(newTestClient(), ClientMessage{Type: "play_card", Data: ClientPayload{Card: 4}})

	requireNoMessage(t, clients[0], 50*time.Millisecond)
}

func TestRestartFromFinishedGame(t *testing.T) {
	m := newManager(testConfig())
	room, clients := setupRoom(t, m, "Alice", "Bob")

	m.handleMessage(clients[0], ClientMessage{Type: "start_game"})
	for _, c := range clients {
		drain(c)
	}

	room.mu.Lock()
	room.game.round = room.game.totalRounds
	room.players[0].Hand = []int{1}
	room.players[1].Hand = []int{2}
	room.game.played = nil
	room.mu.Unlock()

	m.handleMessage(clients[0], ClientMessage{Type: "play_card", Data: ClientPayload{Card: 1}})
	m.handleMessage(clients[1], ClientMessage{Type: "play_card", Data: ClientPayload{Card: 2}})
	for _, c := range clients {
		drain(c)
	}

	room.mu.Lock()
	require.Equal(t, statusFinished, room.status)
	room.mu.Unlock()

	m.handleMessage(clients[0], ClientMessage{Type: "restart_game"})

	for _, c := range clients {
		env := nextEnvelope(t, c)
		require.Equal(t, "game_started", env.Type)
		data := env.Data.(GameStartedData)
		require.Equal(t, 1, data.Round)
		require.Equal(t, 3, data.Lives)
		require.Len(t, data.Hand, 1)
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	require.Equal(t, statusPlaying, room.status)
}
