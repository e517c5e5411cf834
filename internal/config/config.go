// Package config loads the qjack HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/qjack/internal/evaluation"
	"github.com/lox/qjack/internal/qlearn"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "qjack.hcl"

// DefaultTablePath is where the Q-table is persisted unless configured.
const DefaultTablePath = "q_table.msgp"

// Config represents the complete configuration file.
type Config struct {
	TablePath      string `hcl:"table_path,optional"`
	Seed           int64  `hcl:"seed,optional"`
	BetOpeningOnly bool   `hcl:"bet_opening_only,optional"`

	Training   *TrainingSettings   `hcl:"training,block"`
	Evaluation *EvaluationSettings `hcl:"evaluation,block"`
}

// TrainingSettings configures the training loop. Pointer fields
// distinguish an explicit zero from an omitted value.
type TrainingSettings struct {
	Alpha              float64  `hcl:"alpha,optional"`
	Gamma              *float64 `hcl:"gamma,optional"`
	Epsilon            *float64 `hcl:"epsilon,optional"`
	EpsilonDecay       *float64 `hcl:"epsilon_decay,optional"`
	EpsilonMin         *float64 `hcl:"epsilon_min,optional"`
	BatchSize          int      `hcl:"batch_size,optional"`
	MaxBatches         int      `hcl:"max_batches,optional"`
	CheckpointEvery    int      `hcl:"checkpoint_every,optional"`
	CheckpointInterval string   `hcl:"checkpoint_interval,optional"`
}

// EvaluationSettings configures the evaluation harness.
type EvaluationSettings struct {
	Episodes     *int     `hcl:"episodes,optional"`
	Significance float64  `hcl:"significance,optional"`
	Delta        *float64 `hcl:"delta,optional"`
	DeltaFactor  *float64 `hcl:"delta_factor,optional"`
	Epsilon      *float64 `hcl:"epsilon,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		TablePath:  DefaultTablePath,
		Training:   &TrainingSettings{},
		Evaluation: &EvaluationSettings{},
	}
}

// Load reads filename. A missing file yields Default().
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file.Body)
}

// Parse decodes configuration source held in memory. filename is only used
// in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var cfg Config
	if diags := gohcl.DecodeBody(body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if cfg.TablePath == "" {
		cfg.TablePath = DefaultTablePath
	}
	if cfg.Training == nil {
		cfg.Training = &TrainingSettings{}
	}
	if cfg.Evaluation == nil {
		cfg.Evaluation = &EvaluationSettings{}
	}
	return &cfg, nil
}

// TrainingConfig merges the training block over qlearn defaults.
func (c *Config) TrainingConfig() (qlearn.TrainingConfig, error) {
	tc := qlearn.DefaultTrainingConfig()
	tc.Seed = c.Seed
	tc.Rules = c.Rules()

	t := c.Training
	if t == nil {
		return tc, nil
	}
	if t.Alpha != 0 {
		tc.Alpha = t.Alpha
	}
	setFloat(&tc.Gamma, t.Gamma)
	setFloat(&tc.EpsilonStart, t.Epsilon)
	setFloat(&tc.EpsilonDecay, t.EpsilonDecay)
	setFloat(&tc.EpsilonMin, t.EpsilonMin)
	if t.BatchSize != 0 {
		tc.BatchSize = t.BatchSize
	}
	if t.MaxBatches != 0 {
		tc.MaxBatches = t.MaxBatches
	}
	if t.CheckpointEvery != 0 {
		tc.CheckpointEvery = t.CheckpointEvery
	}
	if t.CheckpointInterval != "" {
		d, err := time.ParseDuration(t.CheckpointInterval)
		if err != nil {
			return tc, fmt.Errorf("training.checkpoint_interval: %w", err)
		}
		tc.CheckpointInterval = d
	}
	return tc, nil
}

// EvaluationConfig merges the evaluation block over evaluation defaults.
func (c *Config) EvaluationConfig() evaluation.Config {
	ec := evaluation.DefaultConfig()
	ec.Seed = c.Seed
	ec.Rules = c.Rules()

	e := c.Evaluation
	if e == nil {
		return ec
	}
	if e.Episodes != nil {
		ec.Episodes = *e.Episodes
	}
	if e.Significance != 0 {
		ec.Significance = e.Significance
	}
	setFloat(&ec.Delta, e.Delta)
	setFloat(&ec.DeltaFactor, e.DeltaFactor)
	setFloat(&ec.Epsilon, e.Epsilon)
	return ec
}

// Rules returns the episode rules shared by training and evaluation.
func (c *Config) Rules() qlearn.Rules {
	return qlearn.Rules{BetOpeningOnly: c.BetOpeningOnly}
}

// Validate checks both blocks.
func (c *Config) Validate() error {
	if c.TablePath == "" {
		return errors.New("table_path cannot be empty")
	}
	tc, err := c.TrainingConfig()
	if err != nil {
		return err
	}
	if err := tc.Validate(); err != nil {
		return fmt.Errorf("training: %w", err)
	}
	if err := c.EvaluationConfig().Validate(); err != nil {
		return fmt.Errorf("evaluation: %w", err)
	}
	return nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
