package blackjack

import (
	"testing"

	"github.com/lox/qjack/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeInitialState(t *testing.T) {
	table := stackedTable(t, "K 2 3 9")
	assert.Equal(t, State{
		DealerUp:    deck.King,
		PlayerTotal: 5,
		SoftAces:    0,
		HandSize:    2,
		Bet:         false,
	}, Encode(table))
}

func TestEncodeTracksMutations(t *testing.T) {
	table := stackedTable(t, "9 A 5 A")
	s := Encode(table)
	assert.Equal(t, 16, s.PlayerTotal)
	assert.Equal(t, 1, s.SoftAces)

	table.PlaceBet()
	require.NoError(t, table.HitPlayer())
	s = Encode(table)
	assert.Equal(t, State{DealerUp: deck.Nine, PlayerTotal: 17, SoftAces: 2, HandSize: 3, Bet: true}, s)
}

func TestEncodeSoftAcesNotClamped(t *testing.T) {
	table := stackedTable(t, "5 A A A")
	require.NoError(t, table.HitPlayer())
	s := Encode(table)
	assert.Equal(t, 3, s.SoftAces)
	assert.Equal(t, 13, s.PlayerTotal)
}

func TestEncodeBustedUsesMinimumTotal(t *testing.T) {
	table := stackedTable(t, "5 K Q 5")
	require.NoError(t, table.HitPlayer())
	s := Encode(table)
	assert.Equal(t, 25, s.PlayerTotal)
	assert.Equal(t, 0, s.SoftAces)
}

func TestEncodeIsPure(t *testing.T) {
	table := stackedTable(t, "K A 7 3")
	a := Encode(table)
	b := Encode(table)
	assert.Equal(t, a, b)
	assert.Len(t, table.Player(), 2)
	assert.Equal(t, "K/18/1/2/false", a.String())
}
