package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/qjack/internal/config"
	"github.com/lox/qjack/internal/evaluation"
	"github.com/lox/qjack/internal/qlearn"
)

func ptr[T any](v T) *T { return &v }

func TestTrainFlagsOverrideConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(`
training {
  alpha      = 0.2
  batch_size = 50
}
`), "qjack.hcl")
	require.NoError(t, err)

	cmd := TrainCmd{BatchSize: 10, Gamma: ptr(0.0), EpsilonMin: ptr(0.0), BetOpeningOnly: true}
	tc, err := cmd.trainingConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, 0.2, tc.Alpha, "unset flag keeps config value")
	assert.Equal(t, 10, tc.BatchSize)
	assert.Equal(t, 0.0, tc.Gamma, "explicit zero flag applies")
	assert.Equal(t, 0.0, tc.EpsilonMin)
	assert.True(t, tc.Rules.BetOpeningOnly)
}

func TestEvalRejectsZeroEpisodesBeforeLoading(t *testing.T) {
	dir := t.TempDir()
	// A corrupt table would fail the load if it were attempted.
	path := filepath.Join(dir, "q_table.msgp")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

	cmd := EvalCmd{Table: path, Episodes: ptr(0)}
	err := cmd.run(context.Background(), config.Default(), zerolog.Nop(), &bytes.Buffer{})
	assert.True(t, errors.Is(err, evaluation.ErrInvalidConfig), "got %v", err)
}

func TestEvalFailsOnCorruptTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q_table.msgp")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

	cmd := EvalCmd{Table: path, Episodes: ptr(10)}
	err := cmd.run(context.Background(), config.Default(), zerolog.Nop(), &bytes.Buffer{})
	assert.True(t, errors.Is(err, qlearn.ErrCorruptTable), "got %v", err)
}

func TestTrainThenEvaluate(t *testing.T) {
	dir := t.TempDir()
	tablePath := filepath.Join(dir, "tables", "q_table.msgp")
	reportPath := filepath.Join(dir, "report.toml")

	train := TrainCmd{Table: tablePath, BatchSize: 200, MaxBatches: 2, Seed: 11}
	require.NoError(t, train.run(context.Background(), config.Default(), zerolog.Nop()))

	table, meta, err := qlearn.LoadTable(tablePath)
	require.NoError(t, err)
	assert.Equal(t, int64(400), meta.Episodes)
	assert.Positive(t, table.Size())

	// A second run resumes the episode counter.
	require.NoError(t, train.run(context.Background(), config.Default(), zerolog.Nop()))
	_, meta, err = qlearn.LoadTable(tablePath)
	require.NoError(t, err)
	assert.Equal(t, int64(800), meta.Episodes)

	var out bytes.Buffer
	eval := EvalCmd{Table: tablePath, Episodes: ptr(300), Seed: 5, Report: reportPath}
	require.NoError(t, eval.run(context.Background(), config.Default(), zerolog.Nop(), &out))
	assert.True(t, strings.HasPrefix(out.String(), "significant="), out.String())

	f, err := os.Open(reportPath)
	require.NoError(t, err)
	defer f.Close()
	report, err := evaluation.ReadReport(f)
	require.NoError(t, err)
	assert.Equal(t, 300, report.Trained.Episodes)
	assert.Equal(t, 300, report.Baseline.Episodes)
}

func TestTrainInterruptedStillSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q_table.msgp")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	train := TrainCmd{Table: path, Seed: 3}
	require.NoError(t, train.run(ctx, config.Default(), zerolog.Nop()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
