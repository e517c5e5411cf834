// Package blackjack implements the single-player blackjack round used as the
// learning environment.
//
// A round is dealt from a fresh 52-card deck: the dealer receives one up card
// and the player two cards. The player may hit, place a bet and finally stand,
// at which point the dealer draws to 17 and the round resolves to a reward in
// {-2,-1,0,1,2}. Bets double the magnitude of a win or loss.
//
// # Deterministic Testing
//
// Table.Reset shuffles with the table's injected *rand.Rand. For exact deals
// use Table.Deal with a stacked deck; cards are consumed in order dealer up
// card, player first card, player second card, then any hits:
//
//	t := blackjack.NewTable(randutil.New(1))
//	_ = t.Deal(deck.Stacked(deck.MustParseCards("K 2 3 9 5 T")...))
//
// # Hand Values
//
// Hand.Totals returns every distinct sum reachable by counting each Ace as 1
// or 11. Hand.Best picks the highest total not above 21, or the lowest total
// when every option busts, so a busted hand still maps to a single number.
package blackjack
