package blackjack

import (
	rand "math/rand/v2"

	"github.com/lox/qjack/internal/deck"
)

// DealerStandsOn is the total at which the dealer stops drawing. Soft 17 is
// treated like any other 17.
const DealerStandsOn = 17

// Phase tracks where a round is in its lifecycle.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseFresh
	PhaseInPlay
	PhaseResolved
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFresh:
		return "fresh"
	case PhaseInPlay:
		return "in-play"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Table simulates one blackjack round at a time. It owns the deck and both
// hands; nothing outside the table mutates them.
type Table struct {
	rng    *rand.Rand
	deck   *deck.Deck
	player Hand
	dealer Hand
	bet    bool
	phase  Phase
	reward Reward
}

// NewTable creates a table that shuffles with rng on every Reset.
func NewTable(rng *rand.Rand) *Table {
	return &Table{rng: rng}
}

// Reset builds and shuffles a fresh deck, then deals a new round.
func (t *Table) Reset() error {
	return t.Deal(deck.NewShuffled(t.rng))
}

// Deal starts a new round from the provided deck: one card to the dealer,
// two to the player. The bet flag is cleared.
func (t *Table) Deal(d *deck.Deck) error {
	t.deck = d
	t.player = make(Hand, 0, 6)
	t.dealer = make(Hand, 0, 6)
	t.bet = false
	t.reward = 0
	t.phase = PhaseFresh

	if err := t.draw(&t.dealer, "deal dealer"); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		if err := t.draw(&t.player, "deal player"); err != nil {
			return err
		}
	}
	return nil
}

// HitPlayer moves the next card into the player's hand.
func (t *Table) HitPlayer() error {
	if err := t.checkOpen("hit player"); err != nil {
		return err
	}
	t.phase = PhaseInPlay
	return t.draw(&t.player, "hit player")
}

// HitDealer moves the next card into the dealer's hand.
func (t *Table) HitDealer() error {
	if err := t.checkOpen("hit dealer"); err != nil {
		return err
	}
	return t.draw(&t.dealer, "hit dealer")
}

// PlaceBet marks the round as bet. It is idempotent and cannot be undone
// within a round.
func (t *Table) PlaceBet() {
	if t.phase == PhaseFresh {
		t.phase = PhaseInPlay
	}
	t.bet = true
}

// Resolve finishes the round and returns the player's reward. A busted player
// loses immediately without the dealer drawing; otherwise the dealer draws
// until reaching 17 and the best totals are compared. Calling Resolve on a
// resolved round returns the same reward.
func (t *Table) Resolve() (Reward, error) {
	if t.phase == PhaseResolved {
		return t.reward, nil
	}
	if t.phase == PhaseIdle {
		return 0, &InvariantError{Op: "resolve", Err: ErrNotDealt}
	}

	if len(t.dealer) < 2 {
		if err := t.draw(&t.dealer, "resolve"); err != nil {
			return 0, err
		}
	}

	playerTotal := t.player.Best()
	if playerTotal > BlackjackTotal {
		return t.finish(OutcomeLoss), nil
	}

	for t.dealer.Best() < DealerStandsOn {
		if err := t.draw(&t.dealer, "dealer draw"); err != nil {
			return 0, err
		}
	}
	dealerTotal := t.dealer.Best()

	switch {
	case dealerTotal > BlackjackTotal:
		return t.finish(OutcomeWin), nil
	case playerTotal > dealerTotal:
		return t.finish(OutcomeWin), nil
	case playerTotal < dealerTotal:
		return t.finish(OutcomeLoss), nil
	default:
		return t.finish(OutcomePush), nil
	}
}

// Player returns a copy of the player's hand.
func (t *Table) Player() Hand {
	return append(Hand(nil), t.player...)
}

// Dealer returns a copy of the dealer's hand.
func (t *Table) Dealer() Hand {
	return append(Hand(nil), t.dealer...)
}

// HasBet reports whether a bet has been placed this round.
func (t *Table) HasBet() bool {
	return t.bet
}

// Phase returns the current round phase.
func (t *Table) Phase() Phase {
	return t.phase
}

// PlayerBusted reports whether the player's best total exceeds 21.
func (t *Table) PlayerBusted() bool {
	return t.player.Busted()
}

func (t *Table) finish(o Outcome) Reward {
	t.phase = PhaseResolved
	t.reward = Payout(o, t.bet)
	return t.reward
}

func (t *Table) checkOpen(op string) error {
	switch t.phase {
	case PhaseIdle:
		return &InvariantError{Op: op, Err: ErrNotDealt}
	case PhaseResolved:
		return &InvariantError{Op: op, Err: ErrRoundResolved}
	}
	return nil
}

func (t *Table) draw(h *Hand, op string) error {
	if t.deck == nil {
		return &InvariantError{Op: op, Err: ErrNotDealt}
	}
	c, err := t.deck.Draw()
	if err != nil {
		return &InvariantError{Op: op, Err: err}
	}
	*h = append(*h, c)
	return nil
}
