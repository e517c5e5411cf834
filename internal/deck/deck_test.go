package deck

import (
	"errors"
	"testing"

	"github.com/lox/qjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckComposition(t *testing.T) {
	d := New()
	require.Equal(t, Size, d.Remaining())

	counts := make(map[Card]int)
	for d.Remaining() > 0 {
		c, err := d.Draw()
		require.NoError(t, err)
		counts[c]++
	}
	assert.Len(t, counts, 13)
	for c := Two; c <= Ace; c++ {
		assert.Equal(t, 4, counts[c], "rank %v", c)
	}
}

func TestDrawFromEmptyDeck(t *testing.T) {
	d := Stacked(Ace)
	_, err := d.Draw()
	require.NoError(t, err)

	_, err = d.Draw()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestStackedDeckDealsInOrder(t *testing.T) {
	d := Stacked(MustParseCards("K 2 3 9")...)
	var got []Card
	for d.Remaining() > 0 {
		c, err := d.Draw()
		require.NoError(t, err)
		got = append(got, c)
	}
	assert.Equal(t, []Card{King, Two, Three, Nine}, got)
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	a := NewShuffled(randutil.New(42))
	b := NewShuffled(randutil.New(42))
	c := NewShuffled(randutil.New(43))

	var seqA, seqB, seqC []Card
	for a.Remaining() > 0 {
		ca, _ := a.Draw()
		cb, _ := b.Draw()
		cc, _ := c.Draw()
		seqA = append(seqA, ca)
		seqB = append(seqB, cb)
		seqC = append(seqC, cc)
	}
	assert.Equal(t, seqA, seqB, "same seed must produce the same order")
	assert.NotEqual(t, seqA, seqC, "different seeds should produce different orders")
}

func TestPeekDoesNotConsume(t *testing.T) {
	d := Stacked(Seven, Eight)
	c, ok := d.Peek()
	require.True(t, ok)
	assert.Equal(t, Seven, c)
	assert.Equal(t, 2, d.Remaining())

	_, ok = Stacked().Peek()
	assert.False(t, ok)
}
