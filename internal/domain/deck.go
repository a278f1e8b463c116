package domain

import "math/rand"

// DeckSize is the full two-deck pool: 2x52 plus 4 printed jokers.
const (
	DeckSize   = 108
	JokerCount = 4
)

// Deck holds the draw pile (pop from top) and the discard pile (push/peek
// top). It is built once per game and mutated only through Draw and Discard.
// There is no auto-reshuffle of the discard pile into the draw pile.
type Deck struct {
	DrawPile    []Card
	DiscardPile []Card
}

// NewDeck returns an unshuffled 108-card deck: two copies of each of the 52
// rank-suit combinations plus four jokers, all in the draw pile.
func NewDeck() *Deck {
	draw := make([]Card, 0, DeckSize)
	for copies := 0; copies < 2; copies++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				draw = append(draw, Card{Suit: suit, Rank: rank})
			}
		}
	}
	for i := 0; i < JokerCount; i++ {
		draw = append(draw, Joker())
	}
	return &Deck{DrawPile: draw}
}

// Shuffle randomizes the draw pile only. The injected rng is the engine's
// single source of randomness; the discard pile is never shuffled.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.DrawPile), func(i, j int) {
		d.DrawPile[i], d.DrawPile[j] = d.DrawPile[j], d.DrawPile[i]
	})
}

// Draw pops the top card of the draw pile. An empty pile is an expected
// outcome reported as ok=false, not an error.
func (d *Deck) Draw() (Card, bool) {
	if len(d.DrawPile) == 0 {
		return Card{}, false
	}
	top := d.DrawPile[len(d.DrawPile)-1]
	d.DrawPile = d.DrawPile[:len(d.DrawPile)-1]
	return top, true
}

// Discard pushes a card onto the discard pile.
func (d *Deck) Discard(card Card) {
	d.DiscardPile = append(d.DiscardPile, card)
}

// PeekTopDiscard returns the top of the discard pile without removing it.
func (d *Deck) PeekTopDiscard() (Card, bool) {
	if len(d.DiscardPile) == 0 {
		return Card{}, false
	}
	return d.DiscardPile[len(d.DiscardPile)-1], true
}

// TakeTopDiscard removes and returns the top of the discard pile.
func (d *Deck) TakeTopDiscard() (Card, bool) {
	if len(d.DiscardPile) == 0 {
		return Card{}, false
	}
	top := d.DiscardPile[len(d.DiscardPile)-1]
	d.DiscardPile = d.DiscardPile[:len(d.DiscardPile)-1]
	return top, true
}

// CardsRemaining returns the draw pile size.
func (d *Deck) CardsRemaining() int {
	return len(d.DrawPile)
}

// DiscardPileSize returns the discard pile size.
func (d *Deck) DiscardPileSize() int {
	return len(d.DiscardPile)
}
