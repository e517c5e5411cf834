package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/lox/qjack/cmd/qjack/shared"
	"github.com/lox/qjack/internal/config"
	"github.com/lox/qjack/internal/evaluation"
	"github.com/lox/qjack/internal/qlearn"
)

// EvalCmd runs the evaluation harness against a saved table.
type EvalCmd struct {
	Table          string   `help:"Q-table path (overrides table_path)"`
	Episodes       *int     `short:"m" help:"Episodes per population"`
	Significance   float64  `help:"Significance level of the one-sided test"`
	Delta          *float64 `help:"Effect size the trained mean must exceed the baseline by"`
	DeltaFactor    *float64 `help:"Adds factor * baseline mean to delta"`
	Epsilon        *float64 `help:"Exploration rate of the trained policy"`
	Seed           int64    `help:"Random seed; 0 uses the config seed or time"`
	BetOpeningOnly bool     `help:"Only allow Bet as the first action of an episode"`
	Report         string   `help:"Write the report as TOML to this path" type:"path"`
}

func (c *EvalCmd) Run(g *Globals) error {
	logger := g.logger()
	cfg, err := g.loadConfig(logger)
	if err != nil {
		return err
	}
	ctx, cancel := shared.SignalContext(context.Background(), logger)
	defer cancel()
	return c.run(ctx, cfg, logger, os.Stdout)
}

func (c *EvalCmd) run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, out io.Writer) error {
	ec := c.evaluationConfig(cfg)
	if err := ec.Validate(); err != nil {
		return err
	}

	path := cfg.TablePath
	if c.Table != "" {
		path = c.Table
	}
	table, meta, err := qlearn.LoadTable(path)
	if err != nil {
		return err
	}
	if table.Size() == 0 {
		logger.Warn().Str("path", path).Msg("q-table is empty; trained policy will act randomly on ties")
	} else {
		logger.Info().
			Str("path", path).
			Str("session", meta.Session).
			Int64("episodes", meta.Episodes).
			Int("table_size", table.Size()).
			Msg("q-table loaded")
	}

	report, err := evaluation.Run(ctx, table, ec, logger)
	if err != nil {
		return fmt.Errorf("evaluation: %w", err)
	}

	if c.Report != "" {
		if err := evaluation.SaveReport(c.Report, report); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		logger.Info().Str("path", c.Report).Msg("report saved")
	}

	_, err = fmt.Fprintf(out, "significant=%t z=%.4f p=%.6g trained_mean=%.4f baseline_mean=%.4f delta=%.4f\n",
		report.Significant(), report.Test.Z, report.Test.PValue,
		report.Trained.Mean, report.Baseline.Mean, report.Test.Delta)
	return err
}

func (c *EvalCmd) evaluationConfig(cfg *config.Config) evaluation.Config {
	ec := cfg.EvaluationConfig()
	if c.Episodes != nil {
		ec.Episodes = *c.Episodes
	}
	if c.Significance != 0 {
		ec.Significance = c.Significance
	}
	if c.Delta != nil {
		ec.Delta = *c.Delta
	}
	if c.DeltaFactor != nil {
		ec.DeltaFactor = *c.DeltaFactor
	}
	if c.Epsilon != nil {
		ec.Epsilon = *c.Epsilon
	}
	if c.Seed != 0 {
		ec.Seed = c.Seed
	}
	if c.BetOpeningOnly {
		ec.Rules.BetOpeningOnly = true
	}
	return ec
}
