package qlearn

import (
	"errors"
	"testing"

	"github.com/lox/qjack/internal/blackjack"
	"github.com/lox/qjack/internal/deck"
	"github.com/lox/qjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureEpisode(t *testing.T, cards string, rules Rules) *Episode {
	t.Helper()
	table := blackjack.NewTable(randutil.New(1))
	require.NoError(t, table.Deal(deck.Stacked(deck.MustParseCards(cards)...)))
	return NewEpisode(table, rules)
}

func applyAll(t *testing.T, ep *Episode, actions ...Action) []Step {
	t.Helper()
	steps := make([]Step, 0, len(actions))
	for _, a := range actions {
		step, err := ep.Apply(a)
		require.NoError(t, err)
		steps = append(steps, step)
	}
	return steps
}

func TestEpisodeHitThenStandDealerBusts(t *testing.T) {
	ep := fixtureEpisode(t, "K 2 3 9 6 T", Rules{})
	assert.Equal(t, 5, ep.State().PlayerTotal)
	assert.Equal(t, deck.King, ep.State().DealerUp)

	steps := applyAll(t, ep, ActionHit, ActionStand)
	assert.Equal(t, blackjack.Reward(0), steps[0].Reward)
	assert.False(t, steps[0].Done)
	assert.Equal(t, 14, steps[0].Next.PlayerTotal)
	assert.Equal(t, steps[0].Next, steps[1].State)

	assert.True(t, steps[1].Done)
	assert.Equal(t, blackjack.RewardWin, steps[1].Reward)
	assert.Equal(t, blackjack.RewardWin, ep.Reward())
	assert.Equal(t, 2, ep.Steps())
}

func TestEpisodeBetDoublesPayout(t *testing.T) {
	ep := fixtureEpisode(t, "K 2 3 9 6 T", Rules{})
	steps := applyAll(t, ep, ActionBet, ActionHit, ActionStand)
	assert.Equal(t, blackjack.Reward(0), steps[0].Reward)
	assert.True(t, steps[0].Next.Bet)
	assert.Equal(t, blackjack.RewardWinBet, steps[2].Reward)
}

func TestEpisodeRepeatedBetIsIllegal(t *testing.T) {
	ep := fixtureEpisode(t, "K 2 3", Rules{})
	steps := applyAll(t, ep, ActionBet, ActionBet)
	assert.True(t, steps[1].Done)
	assert.True(t, steps[1].Illegal)
	assert.Equal(t, blackjack.RewardIllegalAction, steps[1].Reward)
}

func TestEpisodeBetAfterHit(t *testing.T) {
	ep := fixtureEpisode(t, "K 2 3 4", Rules{})
	steps := applyAll(t, ep, ActionHit, ActionBet)
	assert.False(t, steps[1].Done, "bet after hit is legal by default")
	assert.True(t, steps[1].Next.Bet)

	ep = fixtureEpisode(t, "K 2 3 4", Rules{BetOpeningOnly: true})
	steps = applyAll(t, ep, ActionHit, ActionBet)
	assert.True(t, steps[1].Illegal, "bet after hit is illegal when bets must open")
	assert.Equal(t, blackjack.RewardIllegalAction, steps[1].Reward)
}

func TestEpisodeUnknownActionIsIllegal(t *testing.T) {
	ep := fixtureEpisode(t, "K 2 3", Rules{})
	steps := applyAll(t, ep, Action(7))
	assert.True(t, steps[0].Done)
	assert.True(t, steps[0].Illegal)
	assert.Equal(t, blackjack.RewardIllegalAction, steps[0].Reward)
	assert.False(t, steps[0].Next.Bet, "illegal penalty does not depend on bet state")
}

func TestEpisodeBustOnHitIsFixedPenalty(t *testing.T) {
	for _, bet := range []bool{false, true} {
		ep := fixtureEpisode(t, "5 K Q 5", Rules{})
		var actions []Action
		if bet {
			actions = append(actions, ActionBet)
		}
		actions = append(actions, ActionHit)
		steps := applyAll(t, ep, actions...)
		last := steps[len(steps)-1]
		assert.True(t, last.Done)
		assert.Equal(t, blackjack.RewardBustOnHit, last.Reward, "bet=%v", bet)
		assert.Equal(t, 25, last.Next.PlayerTotal)
	}
}

func TestEpisodeApplyAfterDone(t *testing.T) {
	ep := fixtureEpisode(t, "K K Q 7", Rules{})
	applyAll(t, ep, ActionStand)
	_, err := ep.Apply(ActionHit)
	assert.True(t, errors.Is(err, ErrEpisodeDone))
}

func TestEpisodeDeckUnderflowSurfaces(t *testing.T) {
	ep := fixtureEpisode(t, "K 2 3", Rules{})
	_, err := ep.Apply(ActionHit)
	var invErr *blackjack.InvariantError
	assert.True(t, errors.As(err, &invErr))
}

func TestPlayRandomPolicyTerminates(t *testing.T) {
	rng := randutil.New(8)
	table := blackjack.NewTable(rng)
	policy := NewRandom(randutil.New(9))
	for i := 0; i < 2000; i++ {
		r, err := Play(table, Rules{}, policy, AllActions)
		require.NoError(t, err)
		assert.Contains(t, []blackjack.Reward{-2, -1, 0, 1, 2}, r)
	}
}
