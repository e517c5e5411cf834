package blackjack

import (
	"slices"
	"strings"

	"github.com/lox/qjack/internal/deck"
)

// BlackjackTotal is the highest non-bust hand value.
const BlackjackTotal = 21

// Hand is an ordered sequence of cards. It only grows by appending.
type Hand []deck.Card

// Totals returns the sorted set of distinct attainable sums for the hand.
// Face cards add 10, numeric cards add their rank and every Ace branches each
// running total into +1 and +11. An empty hand yields {0}.
func (h Hand) Totals() []int {
	totals := []int{0}
	for _, c := range h {
		switch {
		case c.IsFaceCard():
			for i := range totals {
				totals[i] += 10
			}
		case c.IsAce():
			next := make([]int, 0, len(totals)*2)
			for _, t := range totals {
				next = append(next, t+1, t+11)
			}
			slices.Sort(next)
			totals = slices.Compact(next)
		default:
			for i := range totals {
				totals[i] += int(c)
			}
		}
	}
	return totals
}

// Best returns the maximum total that does not exceed 21. If every total
// busts it returns the minimum total instead, which is then always above 21.
func (h Hand) Best() int {
	return bestOf(h.Totals())
}

// Busted reports whether every attainable total exceeds 21.
func (h Hand) Busted() bool {
	return h.Best() > BlackjackTotal
}

func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func bestOf(totals []int) int {
	best := -1
	for _, t := range totals {
		if t <= BlackjackTotal && t > best {
			best = t
		}
	}
	if best >= 0 {
		return best
	}
	return slices.Min(totals)
}
