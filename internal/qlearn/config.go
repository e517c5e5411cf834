package qlearn

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// TrainingConfig aggregates parameters that control Q-learning runs.
type TrainingConfig struct {
	// Alpha is the learning rate of the Bellman update.
	Alpha float64
	// Gamma discounts the best next-state value.
	Gamma float64

	// EpsilonStart is the exploration rate of a fresh run. Each episode
	// lowers it by EpsilonDecay until it reaches EpsilonMin.
	EpsilonStart float64
	EpsilonDecay float64
	EpsilonMin   float64

	// BatchSize is the number of episodes between interruption checks.
	BatchSize int
	// MaxBatches bounds a run; 0 runs until the context is cancelled.
	MaxBatches int
	// CheckpointEvery writes the table after every N batches.
	CheckpointEvery int
	// CheckpointInterval additionally skips batch checkpoints until this
	// much time has passed since the last one. Zero disables the throttle.
	CheckpointInterval time.Duration

	Seed  int64
	Rules Rules
}

// Validate ensures the training parameters are safe to use.
func (c TrainingConfig) Validate() error {
	if !(c.Alpha > 0 && c.Alpha <= 1) {
		return fmt.Errorf("alpha must be in (0, 1], got %v", c.Alpha)
	}
	if !(c.Gamma >= 0 && c.Gamma <= 1) {
		return fmt.Errorf("gamma must be in [0, 1], got %v", c.Gamma)
	}
	if !inUnit(c.EpsilonStart) {
		return fmt.Errorf("epsilon start must be in [0, 1], got %v", c.EpsilonStart)
	}
	if !inUnit(c.EpsilonMin) {
		return fmt.Errorf("epsilon min must be in [0, 1], got %v", c.EpsilonMin)
	}
	if c.EpsilonMin > c.EpsilonStart {
		return errors.New("epsilon min cannot exceed epsilon start")
	}
	if c.EpsilonDecay < 0 || math.IsNaN(c.EpsilonDecay) {
		return errors.New("epsilon decay cannot be negative")
	}
	if c.BatchSize <= 0 {
		return errors.New("batch size must be > 0")
	}
	if c.MaxBatches < 0 {
		return errors.New("max batches cannot be negative")
	}
	if c.CheckpointEvery <= 0 {
		return errors.New("checkpoint every must be > 0")
	}
	if c.CheckpointInterval < 0 {
		return errors.New("checkpoint interval cannot be negative")
	}
	return nil
}

// DecayEpsilon applies one episode of decay, floored at EpsilonMin.
func (c TrainingConfig) DecayEpsilon(epsilon float64) float64 {
	return math.Max(c.EpsilonMin, epsilon-c.EpsilonDecay)
}

// DefaultTrainingConfig returns the tuned defaults.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Alpha:           0.05,
		Gamma:           0.9,
		EpsilonStart:    0.7,
		EpsilonDecay:    0.0001,
		EpsilonMin:      0.05,
		BatchSize:       1000,
		MaxBatches:      0,
		CheckpointEvery: 1,
		Seed:            0,
	}
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
