package qlearn

import (
	"cmp"
	"slices"

	"github.com/lox/qjack/internal/blackjack"
)

// Key identifies a state-action pair.
type Key struct {
	State  blackjack.State
	Action Action
}

// Compare orders keys field by field so serialised tables are stable.
func (k Key) Compare(o Key) int {
	a, b := k.State, o.State
	if c := cmp.Compare(a.DealerUp, b.DealerUp); c != 0 {
		return c
	}
	if c := cmp.Compare(a.PlayerTotal, b.PlayerTotal); c != 0 {
		return c
	}
	if c := cmp.Compare(a.SoftAces, b.SoftAces); c != 0 {
		return c
	}
	if c := cmp.Compare(a.HandSize, b.HandSize); c != 0 {
		return c
	}
	if a.Bet != b.Bet {
		if !a.Bet {
			return -1
		}
		return 1
	}
	return cmp.Compare(k.Action, o.Action)
}

// QTable maps state-action pairs to value estimates. Unseen pairs read as 0
// and entries are never evicted.
//
// QTable is not safe for concurrent use: at most one goroutine may update it,
// and readers must not run while an update is possible.
type QTable struct {
	values map[Key]float64
}

// NewQTable returns an empty table.
func NewQTable() *QTable {
	return &QTable{values: make(map[Key]float64)}
}

// Lookup returns the stored estimate or 0 for an unseen pair.
func (t *QTable) Lookup(s blackjack.State, a Action) float64 {
	return t.values[Key{State: s, Action: a}]
}

// Set stores an estimate directly.
func (t *QTable) Set(s blackjack.State, a Action, v float64) {
	t.values[Key{State: s, Action: a}] = v
}

// MaxValue returns the highest estimate for s across actions. An empty
// action set yields 0.
func (t *QTable) MaxValue(s blackjack.State, actions []Action) float64 {
	if len(actions) == 0 {
		return 0
	}
	best := t.Lookup(s, actions[0])
	for _, a := range actions[1:] {
		if v := t.Lookup(s, a); v > best {
			best = v
		}
	}
	return best
}

// Update applies one Bellman step and returns the new estimate:
//
//	Q(s,a) += alpha * (reward + gamma*max_a' Q(next,a') - Q(s,a))
func (t *QTable) Update(s blackjack.State, a Action, reward float64, next blackjack.State, actions []Action, alpha, gamma float64) float64 {
	target := reward + gamma*t.MaxValue(next, actions)
	old := t.Lookup(s, a)
	v := old + alpha*(target-old)
	t.values[Key{State: s, Action: a}] = v
	return v
}

// Size returns the number of stored state-action pairs.
func (t *QTable) Size() int {
	return len(t.values)
}

// States returns the number of distinct states with at least one entry.
func (t *QTable) States() int {
	seen := make(map[blackjack.State]struct{}, len(t.values))
	for k := range t.values {
		seen[k.State] = struct{}{}
	}
	return len(seen)
}

// Keys returns every stored key in a stable order.
func (t *QTable) Keys() []Key {
	keys := make([]Key, 0, len(t.values))
	for k := range t.values {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, Key.Compare)
	return keys
}

// Entries exposes a copy of the underlying mapping.
func (t *QTable) Entries() map[Key]float64 {
	out := make(map[Key]float64, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

// Equal reports whether both tables hold the same keys with identical values.
func (t *QTable) Equal(o *QTable) bool {
	if len(t.values) != len(o.values) {
		return false
	}
	for k, v := range t.values {
		ov, ok := o.values[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}
