package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/qjack/cmd/qjack/shared"
	"github.com/lox/qjack/internal/config"
	"github.com/lox/qjack/internal/qlearn"
)

// TrainCmd runs the training loop. Flags override the config file when set.
type TrainCmd struct {
	Table              string        `help:"Q-table path (overrides table_path)"`
	BatchSize          int           `help:"Episodes between interrupt checks"`
	MaxBatches         int           `help:"Stop after this many batches; 0 runs until interrupted"`
	Seed               int64         `help:"Random seed; 0 uses the config seed or time"`
	Alpha              float64       `help:"Learning rate"`
	Gamma              *float64      `help:"Discount factor"`
	Epsilon            *float64      `help:"Starting exploration rate"`
	EpsilonDecay       *float64      `help:"Exploration decay per episode"`
	EpsilonMin         *float64      `help:"Exploration floor"`
	CheckpointEvery    int           `help:"Save the table every N batches"`
	CheckpointInterval time.Duration `help:"Minimum time between batch checkpoints"`
	BetOpeningOnly     bool          `help:"Only allow Bet as the first action of an episode"`
	ResetEpsilon       bool          `help:"Start from the configured epsilon instead of the saved one"`
}

func (c *TrainCmd) Run(g *Globals) error {
	logger := g.logger()
	cfg, err := g.loadConfig(logger)
	if err != nil {
		return err
	}
	ctx, cancel := shared.SignalContext(context.Background(), logger)
	defer cancel()
	return c.run(ctx, cfg, logger)
}

func (c *TrainCmd) run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	tc, err := c.trainingConfig(cfg)
	if err != nil {
		return err
	}
	if err := tc.Validate(); err != nil {
		return fmt.Errorf("invalid training config: %w", err)
	}

	path := c.tablePath(cfg)
	table, meta, err := qlearn.LoadTable(path)
	if err != nil {
		return err
	}

	opts := []qlearn.Option{
		qlearn.WithLogger(logger),
		qlearn.WithCheckpoint(path),
	}
	if meta.Episodes > 0 {
		if c.ResetEpsilon {
			meta.Epsilon = tc.EpsilonStart
		}
		opts = append(opts, qlearn.WithResume(meta))
		logger.Info().
			Str("path", path).
			Str("previous_session", meta.Session).
			Int64("episodes", meta.Episodes).
			Float64("epsilon", meta.Epsilon).
			Int("table_size", table.Size()).
			Msg("resuming from saved q-table")
	}

	trainer, err := qlearn.NewTrainer(tc, table, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	err = trainer.Run(ctx, func(p qlearn.Progress) {
		logger.Info().
			Int64("batch", p.Batch).
			Int64("episodes", p.Episodes).
			Float64("epsilon", p.Epsilon).
			Int("table_size", p.TableSize).
			Float64("mean_reward", p.MeanReward).
			Dur("batch_time", p.BatchTime).
			Bool("saved", p.Checkpointed).
			Msg("progress")
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("training: %w", err)
	}

	logger.Info().
		Str("session", trainer.Session()).
		Int64("episodes", trainer.Episodes()).
		Int("table_size", trainer.Table().Size()).
		Dur("duration", time.Since(start)).
		Str("path", path).
		Msg("training stopped")
	return nil
}

func (c *TrainCmd) tablePath(cfg *config.Config) string {
	if c.Table != "" {
		return c.Table
	}
	return cfg.TablePath
}

func (c *TrainCmd) trainingConfig(cfg *config.Config) (qlearn.TrainingConfig, error) {
	tc, err := cfg.TrainingConfig()
	if err != nil {
		return tc, err
	}
	if c.BatchSize != 0 {
		tc.BatchSize = c.BatchSize
	}
	if c.MaxBatches != 0 {
		tc.MaxBatches = c.MaxBatches
	}
	if c.Seed != 0 {
		tc.Seed = c.Seed
	}
	if c.Alpha != 0 {
		tc.Alpha = c.Alpha
	}
	if c.Gamma != nil {
		tc.Gamma = *c.Gamma
	}
	if c.Epsilon != nil {
		tc.EpsilonStart = *c.Epsilon
	}
	if c.EpsilonDecay != nil {
		tc.EpsilonDecay = *c.EpsilonDecay
	}
	if c.EpsilonMin != nil {
		tc.EpsilonMin = *c.EpsilonMin
	}
	if c.CheckpointEvery != 0 {
		tc.CheckpointEvery = c.CheckpointEvery
	}
	if c.CheckpointInterval != 0 {
		tc.CheckpointInterval = c.CheckpointInterval
	}
	if c.BetOpeningOnly {
		tc.Rules.BetOpeningOnly = true
	}
	return tc, nil
}
