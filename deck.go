package main

import (
	"crypto/rand"
	"sort"
)

const deckSize = 100

// deck is a room's pool of card values in [1,100]. Dealing consumes from
// the shuffled tail, so a single epoch can never hand out duplicates,
// within one hand or across hands.
type deck struct {
	cards []int
}

func newDeck() *deck {
	d := &deck{}
	d.reset()
	return d
}

// reset starts a fresh epoch with all values available again.
func (d *deck) reset() {
	cards := make([]int, deckSize)
	for i := range cards {
		cards[i] = i + 1
	}

	// Fisher-Yates shuffle using crypto/rand
	for i := len(cards) - 1; i > 0; i-- {
		var b [1]byte
		if _, err := rand.Read(b[:]); err != nil {
			continue
		}
		j := int(b[0]) % (i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	d.cards = cards
}

// deal removes n cards from the pool and returns them sorted ascending.
func (d *deck) deal(n int) ([]int, error) {
	if n > len(d.cards) {
		return nil, ErrDeckExhausted
	}

	hand := append([]int(nil), d.cards[len(d.cards)-n:]...)
	d.cards = d.cards[:len(d.cards)-n]
	sort.Ints(hand)

	return hand, nil
}

func (d *deck) remaining() int {
	return len(d.cards)
}
