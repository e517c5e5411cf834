package deck

import (
	"errors"
	rand "math/rand/v2"
)

// Size is the number of cards in a fresh deck: four copies of each rank.
const Size = 52

// ErrEmpty is returned when drawing from an exhausted deck.
var ErrEmpty = errors.New("deck is empty")

// Deck is an ordered pile of cards. Cards are drawn from the front.
type Deck struct {
	cards []Card
}

// New returns an unshuffled 52-card deck (ranks 2..14, four copies each).
func New() *Deck {
	cards := make([]Card, 0, Size)
	for copies := 0; copies < 4; copies++ {
		for c := Two; c <= Ace; c++ {
			cards = append(cards, c)
		}
	}
	return &Deck{cards: cards}
}

// NewShuffled returns a fresh deck shuffled with the provided rng.
func NewShuffled(rng *rand.Rand) *Deck {
	d := New()
	d.Shuffle(rng)
	return d
}

// Stacked returns a deck that deals the given cards in order. Used to pin
// exact deals in tests and replays.
func Stacked(cards ...Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Shuffle randomizes the order of the remaining cards.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return 0, ErrEmpty
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Peek returns the top card without removing it.
func (d *Deck) Peek() (Card, bool) {
	if len(d.cards) == 0 {
		return 0, false
	}
	return d.cards[0], true
}
