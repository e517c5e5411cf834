package qlearn

import (
	rand "math/rand/v2"

	"github.com/lox/qjack/internal/blackjack"
)

// Policy picks an action for a state from a candidate set.
type Policy interface {
	Name() string
	Choose(s blackjack.State, actions []Action) Action
}

// ChooseAction is epsilon-greedy selection. With probability epsilon it
// returns a uniformly random candidate; otherwise it returns a candidate with
// the highest estimate, breaking ties uniformly at random.
//
// Epsilon is passed by value; the caller owns any decay schedule.
func ChooseAction(rng *rand.Rand, table *QTable, s blackjack.State, actions []Action, epsilon float64) Action {
	if rng.Float64() < epsilon {
		return actions[rng.IntN(len(actions))]
	}

	best := make([]Action, 0, len(actions))
	bestValue := 0.0
	for i, a := range actions {
		v := table.Lookup(s, a)
		switch {
		case i == 0 || v > bestValue:
			bestValue = v
			best = append(best[:0], a)
		case v == bestValue:
			best = append(best, a)
		}
	}
	if len(best) == 1 {
		return best[0]
	}
	return best[rng.IntN(len(best))]
}

// Greedy plays a trained table with a fixed exploration rate.
type Greedy struct {
	Table   *QTable
	Epsilon float64
	Rng     *rand.Rand
}

// NewGreedy returns a policy reading from table. The table is only read.
func NewGreedy(table *QTable, epsilon float64, rng *rand.Rand) *Greedy {
	return &Greedy{Table: table, Epsilon: epsilon, Rng: rng}
}

func (g *Greedy) Name() string { return "trained" }

func (g *Greedy) Choose(s blackjack.State, actions []Action) Action {
	return ChooseAction(g.Rng, g.Table, s, actions, g.Epsilon)
}

// Random picks uniformly among candidates. It is the evaluation baseline.
type Random struct {
	Rng *rand.Rand
}

// NewRandom returns a uniform random policy.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{Rng: rng}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Choose(_ blackjack.State, actions []Action) Action {
	return actions[r.Rng.IntN(len(actions))]
}
