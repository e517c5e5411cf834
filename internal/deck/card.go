package deck

import (
	"fmt"
	"strings"
)

// Card is a blackjack card identified by rank alone. Suits never affect
// scoring, so the deck carries four copies of each rank instead.
type Card int

const (
	Two Card = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the single-character rank symbol (e.g. "T", "K", "A").
func (c Card) String() string {
	switch {
	case c >= Two && c <= Nine:
		return string(rune('0' + int(c)))
	case c == Ten:
		return "T"
	case c == Jack:
		return "J"
	case c == Queen:
		return "Q"
	case c == King:
		return "K"
	case c == Ace:
		return "A"
	default:
		return "?"
	}
}

// Valid reports whether the card is within the 2..14 rank range.
func (c Card) Valid() bool {
	return c >= Two && c <= Ace
}

// IsAce returns true if the card is an Ace.
func (c Card) IsAce() bool {
	return c == Ace
}

// IsFaceCard returns true for Jack, Queen and King.
func (c Card) IsFaceCard() bool {
	return c >= Jack && c <= King
}

// ParseCard parses a single rank symbol. "10" is accepted as an alias for "T".
func ParseCard(s string) (Card, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "2":
		return Two, nil
	case "3":
		return Three, nil
	case "4":
		return Four, nil
	case "5":
		return Five, nil
	case "6":
		return Six, nil
	case "7":
		return Seven, nil
	case "8":
		return Eight, nil
	case "9":
		return Nine, nil
	case "T", "10":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	default:
		return 0, fmt.Errorf("invalid card %q", s)
	}
}

// ParseCards parses a whitespace separated list of rank symbols, e.g. "K 2 3 9".
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests
// and fixtures.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
