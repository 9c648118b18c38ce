package main

import (
	"sync"
	"time"
)

const maxPlayers = 4

type roomStatus string

const (
	statusLobby    roomStatus = "lobby"
	statusPlaying  roomStatus = "playing"
	statusFinished roomStatus = "finished"
)

// Player holds the data we store server-side for one participant.
type Player struct {
	ID   string
	Name string
	Host bool
	Hand []int

	client *Client
}

// Room is one isolated game session. Every field below mu is guarded by
// it; each room carries its own lock so unrelated rooms never serialize
// on each other.
type Room struct {
	code string

	mu         sync.Mutex
	status     roomStatus
	players    []*Player // join order; players[0] inherits host on departure
	game       *gameState
	lastActive time.Time
	closed     bool

	// restartGen invalidates pending round-restart timers; bumped on every
	// transition that would make a scheduled restart stale.
	restartGen int
}

func newRoom(code string, host *Player) *Room {
	return &Room{
		code:       code,
		status:     statusLobby,
		players:    []*Player{host},
		lastActive: time.Now(),
	}
}

func (r *Room) touchLocked() {
	r.lastActive = time.Now()
}

func (r *Room) addPlayerLocked(p *Player) error {
	if r.closed {
		return ErrRoomNotFound
	}
	if len(r.players) >= maxPlayers {
		return ErrRoomFull
	}
	if r.status != statusLobby {
		return ErrNotJoinable
	}

	r.players = append(r.players, p)

	return nil
}

func (r *Room) findPlayerLocked(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// removePlayerLocked drops the player, promoting the earliest remaining
// joiner to host if the departing player held it.
func (r *Room) removePlayerLocked(id string) *Player {
	idx := -1
	for i, p := range r.players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	removed := r.players[idx]
	r.players = append(r.players[:idx], r.players[idx+1:]...)

	if removed.Host && len(r.players) > 0 {
		r.players[0].Host = true
	}

	return removed
}

func (r *Room) playersSnapshotLocked() []PlayerInfo {
	players := make([]PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		hand := p.Hand
		if hand == nil {
			hand = []int{}
		}
		players = append(players, PlayerInfo{
			ID:     p.ID,
			Name:   p.Name,
			IsHost: p.Host,
			Hand:   hand,
		})
	}
	return players
}

func (r *Room) allCardsSnapshotLocked() []PlayerCards {
	players := make([]PlayerCards, 0, len(r.players))
	for _, p := range r.players {
		hand := p.Hand
		if hand == nil {
			hand = []int{}
		}
		players = append(players, PlayerCards{
			ID:   p.ID,
			Name: p.Name,
			Hand: hand,
		})
	}
	return players
}

func (r *Room) allHandsEmptyLocked() bool {
	for _, p := range r.players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// broadcastLocked fans a message out to every participant's connection.
func (r *Room) broadcastLocked(msg any) {
	for _, p := range r.players {
		p.client.trySend(msg)
	}
}

// closeConnections tears down every participant's websocket; used when a
// room is reaped for being idle.
func (r *Room) closeConnections() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.players {
		if p.client != nil && p.client.conn != nil {
			_ = p.client.conn.Close()
		}
	}
}
