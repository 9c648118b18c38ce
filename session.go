package main

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomCodeLength   = 6
)

// seat is where a session currently sits: which room, which player.
type seat struct {
	roomCode string
	playerID string
}

// Manager owns the room registry and the session-id side table, and
// dispatches decoded client messages to room operations. The side table
// is the only place connection identity is resolved to game state.
type Manager struct {
	cfg *Config

	mu       sync.RWMutex
	rooms    map[string]*Room
	sessions map[string]seat
}

func newManager(cfg *Config) *Manager {
	m := &Manager{
		cfg:      cfg,
		rooms:    make(map[string]*Room),
		sessions: make(map[string]seat),
	}
	if cfg.sessionTimeout > 0 {
		go m.reaperLoop()
	}
	return m
}

func (m *Manager) handleMessage(c *Client, msg ClientMessage) {
	switch msg.Type {
	case "create_room":
		m.createRoom(c, msg.Data)
	case "join_room":
		m.joinRoom(c, msg.Data)
	case "start_game":
		m.startGame(c, false)
	case "restart_game":
		m.startGame(c, true)
	case "play_card":
		m.playCard(c, msg.Data.Card)
	case "use_hint":
		m.useHint(c)
	case "emotion":
		m.emotion(c, msg.Data.Emotion)
	case "leave_room":
		m.removeFromRoom(c, "left")
	default:
		logrus.WithFields(logrus.Fields{"session": c.id, "type": msg.Type}).
			Debug("ignoring unknown message type")
	}
}

// newRoomCodeLocked generates a random room code and ensures it doesn't
// collide with a live room.
func (m *Manager) newRoomCodeLocked() string {
	for {
		buf := make([]byte, roomCodeLength)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, roomCodeLength)
		for i := range out {
			out[i] = roomCodeAlphabet[int(buf[i])%len(roomCodeAlphabet)]
		}
		code := string(out)

		if _, exists := m.rooms[code]; !exists {
			return code
		}
	}
}

func (m *Manager) createRoom(c *Client, data ClientPayload) {
	player := &Player{
		ID:     uuid.NewString(),
		Name:   data.PlayerName,
		Host:   true,
		client: c,
	}

	m.mu.Lock()
	code := m.newRoomCodeLocked()
	room := newRoom(code, player)
	m.rooms[code] = room
	m.sessions[c.id] = seat{roomCode: code, playerID: player.ID}
	m.mu.Unlock()

	room.mu.Lock()
	snapshot := room.playersSnapshotLocked()
	room.mu.Unlock()

	c.trySend(Envelope{Type: "room_created", Data: RoomCreatedData{
		RoomCode: code,
		PlayerID: player.ID,
		Players:  snapshot,
	}})

	logrus.WithFields(logrus.Fields{"room": code, "player": player.Name}).Info("room created")
}

func (m *Manager) joinRoom(c *Client, data ClientPayload) {
	m.mu.RLock()
	room := m.rooms[data.RoomCode]
	m.mu.RUnlock()

	if room == nil {
		c.trySend(ErrorMessage{Type: "error", Message: ErrRoomNotFound.Error()})
		return
	}

	player := &Player{
		ID:     uuid.NewString(),
		Name:   data.PlayerName,
		client: c,
	}

	room.mu.Lock()
	if err := room.addPlayerLocked(player); err != nil {
		room.mu.Unlock()
		c.trySend(ErrorMessage{Type: "error", Message: err.Error()})
		return
	}
	room.touchLocked()

	info := PlayerInfo{ID: player.ID, Name: player.Name, Hand: []int{}}
	snapshot := room.playersSnapshotLocked()

	// Everyone learns about the newcomer; the joiner additionally
	// receives their own player id.
	for _, p := range room.players {
		d := PlayerJoinedData{Player: info, AllPlayers: snapshot}
		if p.ID == player.ID {
			d.PlayerID = player.ID
		}
		p.client.trySend(Envelope{Type: "player_joined", Data: d})
	}
	room.mu.Unlock()

	m.mu.Lock()
	m.sessions[c.id] = seat{roomCode: data.RoomCode, playerID: player.ID}
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{"room": room.code, "player": player.Name}).Info("player joined")
}

// resolve maps a connection's session id back to its room and player.
func (m *Manager) resolve(c *Client) (*Room, string, bool) {
	m.mu.RLock()
	st, ok := m.sessions[c.id]
	var room *Room
	if ok {
		room = m.rooms[st.roomCode]
	}
	m.mu.RUnlock()

	if !ok || room == nil {
		logrus.WithField("session", c.id).Debug("dropping message from a session with no room")
		return nil, "", false
	}

	return room, st.playerID, true
}

func (m *Manager) startGame(c *Client, restart bool) {
	room, playerID, ok := m.resolve(c)
	if !ok {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	p := room.findPlayerLocked(playerID)
	if p == nil {
		return
	}
	if !p.Host {
		c.trySend(ErrorMessage{Type: "error", Message: ErrNotHost.Error()})
		return
	}
	if !restart && room.status != statusLobby {
		logrus.WithField("room", room.code).Debug("ignoring start_game outside the lobby")
		return
	}

	room.touchLocked()
	room.startGameLocked(m.cfg)
}

func (m *Manager) playCard(c *Client, card int) {
	room, playerID, ok := m.resolve(c)
	if !ok {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.status != statusPlaying {
		return
	}
	p := room.findPlayerLocked(playerID)
	if p == nil {
		return
	}

	room.touchLocked()
	room.playCardLocked(m.cfg, p, card)
}

func (m *Manager) useHint(c *Client) {
	room, playerID, ok := m.resolve(c)
	if !ok {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.status != statusPlaying {
		return
	}
	p := room.findPlayerLocked(playerID)
	if p == nil {
		return
	}

	room.touchLocked()
	room.broadcastLocked(Envelope{Type: "hint_used", Data: HintUsedData{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		HintCards:  room.computeHintsLocked(),
	}})

	logrus.WithFields(logrus.Fields{"room": room.code, "player": p.Name}).Debug("hint used")
}

// emotion is a pure relay: sender identity is attached, nothing mutates.
func (m *Manager) emotion(c *Client, emotion string) {
	if emotion == "" {
		return
	}

	room, playerID, ok := m.resolve(c)
	if !ok {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	p := room.findPlayerLocked(playerID)
	if p == nil {
		return
	}

	room.touchLocked()
	room.broadcastLocked(Envelope{Type: "emotion", Data: EmotionData{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Emotion:    emotion,
	}})
}

// removeFromRoom handles both leave_room and connection loss; only the
// reason in the player_left notification differs.
func (m *Manager) removeFromRoom(c *Client, reason string) {
	m.mu.Lock()
	st, ok := m.sessions[c.id]
	delete(m.sessions, c.id)
	var room *Room
	if ok {
		room = m.rooms[st.roomCode]
	}
	m.mu.Unlock()

	if room == nil {
		return
	}

	room.mu.Lock()
	removed := room.removePlayerLocked(st.playerID)
	if removed == nil {
		room.mu.Unlock()
		return
	}
	room.touchLocked()

	empty := len(room.players) == 0
	if empty {
		room.closed = true
	} else {
		if room.status == statusPlaying {
			// A mid-game departure abandons the round; back to the lobby.
			room.status = statusLobby
			room.game = nil
			room.restartGen++
		}

		newHost := room.players[0]
		room.broadcastLocked(Envelope{Type: "player_left", Data: PlayerLeftData{
			PlayerID:         removed.ID,
			PlayerName:       removed.Name,
			Reason:           reason,
			RemainingPlayers: len(room.players),
			NewHost:          newHost.ID,
			NewHostName:      newHost.Name,
		}})
	}
	room.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"room":   room.code,
		"player": removed.Name,
		"reason": reason,
	}).Info("player removed")

	if empty {
		m.mu.Lock()
		delete(m.rooms, room.code)
		m.mu.Unlock()

		logrus.WithField("room", room.code).Info("room deleted")
	}
}

// disconnect runs exactly once per connection, from the read pump.
func (m *Manager) disconnect(c *Client) {
	m.removeFromRoom(c, "disconnected")
	close(c.send)
}

func (m *Manager) roomExists(code string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.rooms[code]
	return ok
}

func (m *Manager) counts() (rooms, players int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.rooms), len(m.sessions)
}

// reaperLoop periodically closes rooms that have been idle longer than
// the configured session timeout.
func (m *Manager) reaperLoop() {
	ticker := time.NewTicker(m.cfg.sessionTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-m.cfg.sessionTimeout)

		m.mu.Lock()
		for code, room := range m.rooms {
			room.mu.Lock()
			idle := room.lastActive.Before(cutoff)
			if idle {
				room.closed = true
			}
			room.mu.Unlock()

			if idle {
				delete(m.rooms, code)
				go room.closeConnections()

				logrus.WithField("room", code).Info("reaped idle room")
			}
		}
		m.mu.Unlock()
	}
}
