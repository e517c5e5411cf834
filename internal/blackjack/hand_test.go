package blackjack

import (
	"testing"

	"github.com/lox/qjack/internal/deck"
	"github.com/lox/qjack/internal/randutil"
	"github.com/stretchr/testify/assert"
)

func hand(s string) Hand {
	return Hand(deck.MustParseCards(s))
}

func TestHandTotals(t *testing.T) {
	tests := []struct {
		name   string
		hand   string
		totals []int
		best   int
	}{
		{name: "empty", hand: "", totals: []int{0}, best: 0},
		{name: "numeric only", hand: "2 3 9", totals: []int{14}, best: 14},
		{name: "single ace", hand: "A", totals: []int{1, 11}, best: 11},
		{name: "ace king", hand: "A K", totals: []int{11, 21}, best: 21},
		{name: "face cards count ten", hand: "J Q", totals: []int{20}, best: 20},
		{name: "pair of aces", hand: "A A", totals: []int{2, 12, 22}, best: 12},
		{name: "ace forced low", hand: "A K Q", totals: []int{21, 31}, best: 21},
		{name: "busted without ace", hand: "K Q 5", totals: []int{25}, best: 25},
		{name: "busted with ace", hand: "K Q 5 A", totals: []int{26, 36}, best: 26},
		{name: "three aces", hand: "A A A", totals: []int{3, 13, 23, 33}, best: 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := hand(tt.hand)
			assert.Equal(t, tt.totals, h.Totals())
			assert.Equal(t, tt.best, h.Best())
		})
	}
}

func TestTotalsWithoutAceOrFaceIsSingletonSum(t *testing.T) {
	rng := randutil.New(11)
	for i := 0; i < 500; i++ {
		n := 1 + rng.IntN(5)
		h := make(Hand, n)
		sum := 0
		for j := range h {
			h[j] = deck.Card(2 + rng.IntN(9)) // 2..10
			sum += int(h[j])
		}
		assert.Equal(t, []int{sum}, h.Totals(), "hand %v", h)
	}
}

func TestBestPrefersNonBustTotal(t *testing.T) {
	rng := randutil.New(12)
	for i := 0; i < 2000; i++ {
		n := 1 + rng.IntN(6)
		h := make(Hand, n)
		for j := range h {
			h[j] = deck.Card(2 + rng.IntN(13))
		}
		totals := h.Totals()
		best := h.Best()

		hasValid := false
		for _, tot := range totals {
			if tot <= BlackjackTotal {
				hasValid = true
				assert.LessOrEqual(t, tot, best, "hand %v", h)
			}
		}
		if hasValid {
			assert.LessOrEqual(t, best, BlackjackTotal, "hand %v", h)
		} else {
			assert.Equal(t, totals[0], best, "busted hand %v should use minimum", h)
			assert.Greater(t, best, BlackjackTotal)
			assert.True(t, h.Busted())
		}
	}
}

func TestTotalsSortedAndUnique(t *testing.T) {
	h := hand("A A A A 5")
	totals := h.Totals()
	for i := 1; i < len(totals); i++ {
		assert.Less(t, totals[i-1], totals[i])
	}
	assert.Equal(t, []int{9, 19, 29, 39, 49}, totals)
}

func TestHandString(t *testing.T) {
	assert.Equal(t, "[A K 5]", hand("A K 5").String())
}
