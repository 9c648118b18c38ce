package main

// Messages coming from clients
type ClientMessage struct {
	Type string        `json:"type"` // "create_room", "join_room", "start_game", "play_card", "use_hint", "emotion", "leave_room", "restart_game"
	Data ClientPayload `json:"data"`
}

type ClientPayload struct {
	PlayerName string `json:"playerName,omitempty"` // create_room / join_room
	RoomCode   string `json:"roomCode,omitempty"`   // join_room
	Card       int    `json:"card,omitempty"`       // play_card
	Emotion    string `json:"emotion,omitempty"`    // emotion
}

// Envelope wraps every message sent to clients.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// ErrorMessage is sent only to the client whose request was rejected.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

// PlayerInfo is the public snapshot of one participant.
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
	Hand   []int  `json:"hand"`
}

// PlayedCard is one entry in the revealed sequence for the active round.
type PlayedCard struct {
	Card       int    `json:"card"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// HintCard reveals a participant's lowest held card.
type HintCard struct {
	Card       int    `json:"card"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// PlayerCards pairs a participant with their full hand, for the
// everything-revealed payload after a misplay.
type PlayerCards struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Hand []int  `json:"hand"`
}

type RoomCreatedData struct {
	RoomCode string       `json:"roomCode"`
	PlayerID string       `json:"playerId"`
	Players  []PlayerInfo `json:"players"`
}

type PlayerJoinedData struct {
	Player     PlayerInfo   `json:"player"`
	AllPlayers []PlayerInfo `json:"allPlayers"`
	PlayerID   string       `json:"playerId,omitempty"` // set only for the joining player
}

type GameStartedData struct {
	Round       int          `json:"round"`
	TotalRounds int          `json:"totalRounds"`
	Lives       int          `json:"lives"`
	Hand        []int        `json:"hand"`
	Players     []PlayerInfo `json:"players"`
}

type CardPlayedData struct {
	Card       int    `json:"card"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	IsCorrect  bool   `json:"isCorrect"`
}

type RoundCompletedData struct {
	Round     int          `json:"round"`
	Hand      []int        `json:"hand"`
	HintCards []HintCard   `json:"hintCards"`
	Lives     int          `json:"lives"`
	Players   []PlayerInfo `json:"players"`
}

type RoundOverData struct {
	IncorrectCard   int           `json:"incorrectCard"`
	PlayerName      string        `json:"playerName"`
	Round           int           `json:"round"`
	Lives           int           `json:"lives"`
	PlayedCards     []PlayedCard  `json:"playedCards"`
	AllPlayersCards []PlayerCards `json:"allPlayersCards"`
}

type RoundRestartedData struct {
	Round   int          `json:"round"`
	Hand    []int        `json:"hand"`
	Lives   int          `json:"lives"`
	Players []PlayerInfo `json:"players"`
}

type HintUsedData struct {
	PlayerID   string     `json:"playerId"`
	PlayerName string     `json:"playerName"`
	HintCards  []HintCard `json:"hintCards"`
}

type EmotionData struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Emotion    string `json:"emotion"`
}

type PlayerLeftData struct {
	PlayerID         string `json:"playerId"`
	PlayerName       string `json:"playerName"`
	Reason           string `json:"reason"` // "left" or "disconnected"
	RemainingPlayers int    `json:"remainingPlayers"`
	NewHost          string `json:"newHost"`
	NewHostName      string `json:"newHostName"`
}

type FinalScore struct {
	Round int `json:"round"`
	Lives int `json:"lives"`
}

type GameOverData struct {
	Success    bool       `json:"success"`
	FinalScore FinalScore `json:"finalScore"`
}
