package blackjack

import (
	"fmt"

	"github.com/lox/qjack/internal/deck"
)

// State is the observation the learning agent acts on.
type State struct {
	DealerUp    deck.Card
	PlayerTotal int
	// SoftAces is len(player totals) - 1. With several Aces it can exceed 1;
	// stored tables depend on this exact derivation.
	SoftAces int
	HandSize int
	Bet      bool
}

// Encode derives the current observation from the table. It has no side
// effects and must be called again after every mutating action.
func Encode(t *Table) State {
	s := State{
		PlayerTotal: t.player.Best(),
		SoftAces:    len(t.player.Totals()) - 1,
		HandSize:    len(t.player),
		Bet:         t.bet,
	}
	if len(t.dealer) > 0 {
		s.DealerUp = t.dealer[0]
	}
	return s
}

func (s State) String() string {
	return fmt.Sprintf("%s/%d/%d/%d/%t", s.DealerUp, s.PlayerTotal, s.SoftAces, s.HandSize, s.Bet)
}
