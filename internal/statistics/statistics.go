// Package statistics accumulates per-episode rewards for evaluation.
package statistics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Rewards tracks one terminal reward per episode along with an outcome
// histogram.
type Rewards struct {
	Episodes int
	Sum      float64
	Values   []float64

	Wins   int // Episodes with positive reward
	Losses int // Episodes with negative reward
	Pushes int // Episodes with zero reward

	// Histogram counts rewards by value, e.g. Histogram[-2] is the number of
	// episodes that ended at -2.
	Histogram map[int]int
}

// Summary is the reduced view consumed by hypothesis tests and reports.
type Summary struct {
	Episodes int     `toml:"episodes"`
	Mean     float64 `toml:"mean"`
	Variance float64 `toml:"variance"`
	StdDev   float64 `toml:"std_dev"`
	WinRate  float64 `toml:"win_rate"`
	LossRate float64 `toml:"loss_rate"`
	PushRate float64 `toml:"push_rate"`
}

// NewRewards returns an accumulator with capacity for n episodes.
func NewRewards(n int) *Rewards {
	if n < 0 {
		n = 0
	}
	return &Rewards{
		Values:    make([]float64, 0, n),
		Histogram: make(map[int]int),
	}
}

// Add records a single terminal reward.
func (r *Rewards) Add(reward int) {
	if r.Histogram == nil {
		r.Histogram = make(map[int]int)
	}
	v := float64(reward)
	r.Episodes++
	r.Sum += v
	r.Values = append(r.Values, v)
	r.Histogram[reward]++

	switch {
	case reward > 0:
		r.Wins++
	case reward < 0:
		r.Losses++
	default:
		r.Pushes++
	}
}

// Mean returns the arithmetic mean reward per episode.
func (r *Rewards) Mean() float64 {
	if r.Episodes == 0 {
		return 0
	}
	return stat.Mean(r.Values, nil)
}

// Variance returns the population variance of the rewards (divides by n).
func (r *Rewards) Variance() float64 {
	if r.Episodes < 2 {
		return 0
	}
	return stat.MomentAbout(2, r.Values, r.Mean(), nil)
}

// StdDev returns the population standard deviation.
func (r *Rewards) StdDev() float64 {
	return math.Sqrt(r.Variance())
}

// Summary reduces the sample to the values reported and tested.
func (r *Rewards) Summary() Summary {
	s := Summary{
		Episodes: r.Episodes,
		Mean:     r.Mean(),
		Variance: r.Variance(),
		StdDev:   r.StdDev(),
	}
	if r.Episodes > 0 {
		n := float64(r.Episodes)
		s.WinRate = float64(r.Wins) / n
		s.LossRate = float64(r.Losses) / n
		s.PushRate = float64(r.Pushes) / n
	}
	return s
}

// Validate checks the accumulator for internal consistency.
func (r *Rewards) Validate() error {
	if r.Episodes <= 0 {
		return fmt.Errorf("invalid episode count: %d", r.Episodes)
	}
	if len(r.Values) != r.Episodes {
		return fmt.Errorf("values array length (%d) does not match episode count (%d)",
			len(r.Values), r.Episodes)
	}
	if r.Wins+r.Losses+r.Pushes != r.Episodes {
		return fmt.Errorf("outcome counts (%d) do not match episode count (%d)",
			r.Wins+r.Losses+r.Pushes, r.Episodes)
	}
	total := 0
	for _, n := range r.Histogram {
		total += n
	}
	if total != r.Episodes {
		return fmt.Errorf("histogram total (%d) does not match episode count (%d)", total, r.Episodes)
	}
	if math.IsNaN(r.Sum) || math.IsInf(r.Sum, 0) {
		return fmt.Errorf("reward sum is not finite: %v", r.Sum)
	}
	return nil
}
