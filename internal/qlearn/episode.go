package qlearn

import (
	"errors"

	"github.com/lox/qjack/internal/blackjack"
)

// ErrEpisodeDone is returned when an action is applied to a finished episode.
var ErrEpisodeDone = errors.New("episode already finished")

// Rules adjusts which actions are legal within an episode.
type Rules struct {
	// BetOpeningOnly restricts Bet to the first action of an episode. When
	// false a bet is legal at any point until one has been placed.
	BetOpeningOnly bool
}

// Step is one transition produced by applying an action.
type Step struct {
	State   blackjack.State
	Action  Action
	Reward  blackjack.Reward
	Next    blackjack.State
	Done    bool
	Illegal bool
}

// Episode drives a single round on a dealt table. Training and evaluation
// share it so both follow identical termination rules.
type Episode struct {
	table  *blackjack.Table
	rules  Rules
	state  blackjack.State
	acted  bool
	done   bool
	reward blackjack.Reward
	steps  int
}

// NewEpisode wraps an already dealt table.
func NewEpisode(table *blackjack.Table, rules Rules) *Episode {
	return &Episode{
		table: table,
		rules: rules,
		state: blackjack.Encode(table),
	}
}

// StartEpisode resets the table and wraps it.
func StartEpisode(table *blackjack.Table, rules Rules) (*Episode, error) {
	if err := table.Reset(); err != nil {
		return nil, err
	}
	return NewEpisode(table, rules), nil
}

// State returns the observation the next action will be chosen from.
func (e *Episode) State() blackjack.State { return e.state }

// Done reports whether the episode has terminated.
func (e *Episode) Done() bool { return e.done }

// Reward returns the reward of the terminating step.
func (e *Episode) Reward() blackjack.Reward { return e.reward }

// Steps returns the number of actions applied.
func (e *Episode) Steps() int { return e.steps }

// Apply performs an action and reports the transition.
//
// Hit draws a card; a bust ends the episode at -1. Stand resolves the round
// and ends the episode with its payout. Bet is free when legal. A repeated
// bet, a bet ruled out by BetOpeningOnly, or an unknown action ends the
// episode at -2.
func (e *Episode) Apply(a Action) (Step, error) {
	if e.done {
		return Step{}, ErrEpisodeDone
	}
	step := Step{State: e.state, Action: a}

	switch {
	case a == ActionHit:
		if err := e.table.HitPlayer(); err != nil {
			return Step{}, err
		}
		if e.table.PlayerBusted() {
			step.Reward = blackjack.RewardBustOnHit
			step.Done = true
		}
	case a == ActionStand:
		reward, err := e.table.Resolve()
		if err != nil {
			return Step{}, err
		}
		step.Reward = reward
		step.Done = true
	case a == ActionBet && e.betAllowed():
		e.table.PlaceBet()
	default:
		step.Reward = blackjack.RewardIllegalAction
		step.Done = true
		step.Illegal = true
	}

	step.Next = blackjack.Encode(e.table)
	e.state = step.Next
	e.acted = true
	e.steps++
	if step.Done {
		e.done = true
		e.reward = step.Reward
	}
	return step, nil
}

func (e *Episode) betAllowed() bool {
	if e.table.HasBet() {
		return false
	}
	return !e.rules.BetOpeningOnly || !e.acted
}

// Play runs a full episode on table with policy and returns its terminal
// reward. The table is reset first.
func Play(table *blackjack.Table, rules Rules, policy Policy, actions []Action) (blackjack.Reward, error) {
	ep, err := StartEpisode(table, rules)
	if err != nil {
		return 0, err
	}
	for !ep.Done() {
		if _, err := ep.Apply(policy.Choose(ep.State(), actions)); err != nil {
			return 0, err
		}
	}
	return ep.Reward(), nil
}
