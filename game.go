package main

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

const maxLives = 3

// gameState holds one room's active rounds, from start_game until the
// game ends or the room empties. Only touched under the room lock. The
// deck is owned here so concurrent rooms never share a card pool.
type gameState struct {
	round       int
	totalRounds int
	lives       int
	played      []PlayedCard
	hints       []HintCard
	deck        *deck
}

func totalRoundsFor(playerCount int) int {
	if playerCount == 2 {
		return 12
	}
	return 10
}

func isHintRound(round int) bool {
	return round == 3 || round == 6 || round == 9
}

// startGameLocked begins a fresh game at round 1 with full lives. Also
// the restart_game path: the previous game state, if any, is discarded.
func (r *Room) startGameLocked(cfg *Config) {
	r.status = statusPlaying
	r.restartGen++
	r.game = &gameState{
		round:       1,
		totalRounds: totalRoundsFor(len(r.players)),
		lives:       maxLives,
		deck:        newDeck(),
	}

	if !r.dealHandsLocked(1) {
		return
	}

	for _, p := range r.players {
		p.client.trySend(Envelope{Type: "game_started", Data: GameStartedData{
			Round:       1,
			TotalRounds: r.game.totalRounds,
			Lives:       r.game.lives,
			Hand:        p.Hand,
			Players:     r.playersSnapshotLocked(),
		}})
	}

	logrus.WithFields(logrus.Fields{
		"room":        r.code,
		"players":     len(r.players),
		"totalRounds": r.game.totalRounds,
	}).Info("game started")
}

// dealHandsLocked resets nothing itself: callers reset the deck epoch
// when a round begins, then every player draws from the same epoch.
func (r *Room) dealHandsLocked(size int) bool {
	for _, p := range r.players {
		hand, err := r.game.deck.deal(size)
		if err != nil {
			logrus.WithFields(logrus.Fields{"room": r.code, "size": size}).
				WithError(err).Error("deal failed, abandoning game")
			r.status = statusLobby
			r.game = nil
			r.restartGen++
			return false
		}
		p.Hand = hand
	}
	return true
}

// playCardLocked applies one card play. A card the player does not hold
// is ignored without touching any state.
func (r *Room) playCardLocked(cfg *Config, p *Player, card int) {
	g := r.game
	if g == nil {
		return
	}

	idx := -1
	for i, held := range p.Hand {
		if held == card {
			idx = i
			break
		}
	}
	if idx == -1 {
		logrus.WithFields(logrus.Fields{"room": r.code, "player": p.Name, "card": card}).
			Debug("ignoring play of a card not in hand")
		return
	}

	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)

	valid := r.isOrderValidLocked(card)

	// Misplayed cards land in the sequence too, so the reveal shows them.
	g.played = append(g.played, PlayedCard{Card: card, PlayerID: p.ID, PlayerName: p.Name})

	if !valid {
		r.roundOverLocked(cfg, card, p)
		return
	}

	if r.allHandsEmptyLocked() {
		r.completeRoundLocked(cfg)
		return
	}

	r.broadcastLocked(Envelope{Type: "card_played", Data: CardPlayedData{
		Card:       card,
		PlayerID:   p.ID,
		PlayerName: p.Name,
		IsCorrect:  true,
	}})
}

// isOrderValidLocked reports whether card may legally extend the played
// sequence: no smaller card may remain in any hand, and no larger card
// may already have been played.
func (r *Room) isOrderValidLocked(card int) bool {
	for _, p := range r.players {
		for _, held := range p.Hand {
			if held < card {
				return false
			}
		}
	}

	for _, pc := range r.game.played {
		if pc.Card > card {
			return false
		}
	}

	return true
}

func (r *Room) roundOverLocked(cfg *Config, card int, p *Player) {
	g := r.game
	g.lives--

	logrus.WithFields(logrus.Fields{
		"room":   r.code,
		"player": p.Name,
		"card":   card,
		"lives":  g.lives,
	}).Info("round over")

	r.broadcastLocked(Envelope{Type: "round_over", Data: RoundOverData{
		IncorrectCard:   card,
		PlayerName:      p.Name,
		Round:           g.round,
		Lives:           g.lives,
		PlayedCards:     append([]PlayedCard(nil), g.played...),
		AllPlayersCards: r.allCardsSnapshotLocked(),
	}})

	if g.lives <= 0 {
		r.gameOverLocked(false)
		return
	}

	r.scheduleRestartLocked(cfg)
}

// scheduleRestartLocked arms the deferred restart of the current round.
// The generation snapshot makes the timer a no-op if anything resets or
// advances the game before it fires.
func (r *Room) scheduleRestartLocked(cfg *Config) {
	gen := r.restartGen

	time.AfterFunc(cfg.restartDelay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.restartGen != gen || r.status != statusPlaying || r.game == nil {
			return
		}
		r.restartRoundLocked(cfg)
	})
}

func (r *Room) restartRoundLocked(cfg *Config) {
	g := r.game
	g.played = nil
	g.deck.reset()

	if !r.dealHandsLocked(g.round) {
		return
	}

	for _, p := range r.players {
		p.client.trySend(Envelope{Type: "round_restarted", Data: RoundRestartedData{
			Round:   g.round,
			Hand:    p.Hand,
			Lives:   g.lives,
			Players: r.playersSnapshotLocked(),
		}})
	}

	logrus.WithFields(logrus.Fields{"room": r.code, "round": g.round}).Info("round restarted")
}

// completeRoundLocked runs when every hand emptied on a valid play:
// either the game is won, or the next round is dealt.
func (r *Room) completeRoundLocked(cfg *Config) {
	g := r.game
	next := g.round + 1

	if next > g.totalRounds {
		r.gameOverLocked(true)
		return
	}

	g.round = next
	g.played = nil
	g.deck.reset()
	r.restartGen++

	if !r.dealHandsLocked(next) {
		return
	}

	g.hints = []HintCard{}
	if isHintRound(next) {
		g.hints = r.computeHintsLocked()
	}

	for _, p := range r.players {
		p.client.trySend(Envelope{Type: "round_completed", Data: RoundCompletedData{
			Round:     next,
			Hand:      p.Hand,
			HintCards: g.hints,
			Lives:     g.lives,
			Players:   r.playersSnapshotLocked(),
		}})
	}

	logrus.WithFields(logrus.Fields{"room": r.code, "round": next}).Info("round completed")
}

func (r *Room) gameOverLocked(success bool) {
	g := r.game
	r.status = statusFinished
	r.restartGen++

	r.broadcastLocked(Envelope{Type: "game_over", Data: GameOverData{
		Success:    success,
		FinalScore: FinalScore{Round: g.round, Lives: g.lives},
	}})

	logrus.WithFields(logrus.Fields{
		"room":    r.code,
		"round":   g.round,
		"lives":   g.lives,
		"success": success,
	}).Info("game over")
}

// computeHintsLocked returns each non-empty hand's lowest card, sorted
// ascending by card value. Players who already emptied their hand are
// skipped, as are ones who left mid-computation.
func (r *Room) computeHintsLocked() []HintCard {
	hints := make([]HintCard, 0, len(r.players))
	for _, p := range r.players {
		if len(p.Hand) == 0 {
			continue
		}
		lowest := p.Hand[0]
		for _, held := range p.Hand[1:] {
			if held < lowest {
				lowest = held
			}
		}
		hints = append(hints, HintCard{Card: lowest, PlayerID: p.ID, PlayerName: p.Name})
	}

	sort.Slice(hints, func(i, j int) bool { return hints[i].Card < hints[j].Card })

	return hints
}
