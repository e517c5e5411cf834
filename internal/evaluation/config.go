// Package evaluation compares a trained Q-table against a uniform random
// baseline with a one-sided two-sample Z-test.
package evaluation

import (
	"errors"
	"fmt"
	"math"

	"github.com/lox/qjack/internal/qlearn"
)

// ErrInvalidConfig is returned before any simulation runs when the
// evaluation parameters are unusable.
var ErrInvalidConfig = errors.New("invalid evaluation config")

// Config controls an evaluation run.
type Config struct {
	// Episodes is the sample size M of each population.
	Episodes int
	// Significance is the level the upper-tail p-value is compared against.
	Significance float64
	// Delta is the absolute effect size the trained mean must exceed the
	// baseline mean by.
	Delta float64
	// DeltaFactor adds DeltaFactor * baseline mean to Delta.
	DeltaFactor float64
	// Epsilon is the exploration rate of the trained policy.
	Epsilon float64

	Seed  int64
	Rules qlearn.Rules
}

// DefaultConfig returns the standard evaluation parameters.
func DefaultConfig() Config {
	return Config{
		Episodes:     100000,
		Significance: 0.05,
	}
}

// Validate reports configuration errors wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Episodes < 1 {
		return fmt.Errorf("%w: episodes must be >= 1, got %d", ErrInvalidConfig, c.Episodes)
	}
	if !(c.Significance > 0 && c.Significance < 1) {
		return fmt.Errorf("%w: significance must be in (0, 1), got %v", ErrInvalidConfig, c.Significance)
	}
	if math.IsNaN(c.Delta) || math.IsInf(c.Delta, 0) {
		return fmt.Errorf("%w: delta must be finite, got %v", ErrInvalidConfig, c.Delta)
	}
	if math.IsNaN(c.DeltaFactor) || math.IsInf(c.DeltaFactor, 0) {
		return fmt.Errorf("%w: delta factor must be finite, got %v", ErrInvalidConfig, c.DeltaFactor)
	}
	if !(c.Epsilon >= 0 && c.Epsilon <= 1) {
		return fmt.Errorf("%w: epsilon must be in [0, 1], got %v", ErrInvalidConfig, c.Epsilon)
	}
	return nil
}
