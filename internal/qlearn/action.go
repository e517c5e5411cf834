package qlearn

import "fmt"

// Action is a player decision. Values outside the enumerated set are treated
// as illegal by the episode stepper.
type Action uint8

const (
	ActionHit Action = iota
	ActionStand
	ActionBet
)

// AllActions is the candidate set offered to the agent on every decision.
// Bet stays in the set even once placed so the agent learns the penalty.
var AllActions = []Action{ActionHit, ActionStand, ActionBet}

func (a Action) String() string {
	switch a {
	case ActionHit:
		return "hit"
	case ActionStand:
		return "stand"
	case ActionBet:
		return "bet"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// Valid reports whether the action is one of Hit, Stand or Bet.
func (a Action) Valid() bool {
	return a <= ActionBet
}
