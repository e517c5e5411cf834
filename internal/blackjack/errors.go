package blackjack

import (
	"errors"
	"fmt"
)

// ErrRoundResolved is returned when a card is requested after the round has
// been resolved.
var ErrRoundResolved = errors.New("round already resolved")

// ErrNotDealt is returned when the table is used before a deal.
var ErrNotDealt = errors.New("round has not been dealt")

// InvariantError signals a logic bug such as drawing from an exhausted deck.
// It is never a recoverable game outcome.
type InvariantError struct {
	Op  string
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("blackjack invariant violated during %s: %v", e.Op, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}
