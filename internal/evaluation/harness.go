package evaluation

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/qjack/internal/blackjack"
	"github.com/lox/qjack/internal/qlearn"
	"github.com/lox/qjack/internal/randutil"
	"github.com/lox/qjack/internal/statistics"
)

// cancelCheckEvery is how many episodes run between context checks.
const cancelCheckEvery = 1024

// Report is the result of an evaluation run.
type Report struct {
	GeneratedAt time.Time `toml:"generated_at"`
	Seed        int64     `toml:"seed"`
	Episodes    int       `toml:"episodes"`
	Epsilon     float64   `toml:"epsilon"`
	TableSize   int       `toml:"table_size"`

	Test     ZTestResult        `toml:"test"`
	Trained  statistics.Summary `toml:"trained"`
	Baseline statistics.Summary `toml:"baseline"`
}

// Significant reports the verdict: the trained policy beats the baseline by
// more than the effect threshold at the configured level.
func (r *Report) Significant() bool { return r.Test.Significant }

// Harness plays the trained and baseline populations. It only reads its
// table and must not share it with an active trainer.
type Harness struct {
	cfg    Config
	table  *qlearn.QTable
	logger zerolog.Logger
	now    func() time.Time
}

// NewHarness validates cfg and prepares a harness for table. A nil table
// evaluates as empty.
func NewHarness(table *qlearn.QTable, cfg Config, logger zerolog.Logger) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		table = qlearn.NewQTable()
	}
	return &Harness{cfg: cfg, table: table, logger: logger, now: time.Now}, nil
}

// Run plays Episodes with the trained policy, then Episodes with the uniform
// random baseline, and tests the difference in mean reward. Episodes run
// sequentially; ctx is checked periodically between episodes.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	seed := randutil.ResolveSeed(h.cfg.Seed)
	h.logger.Info().
		Int64("seed", seed).
		Int("episodes", h.cfg.Episodes).
		Float64("epsilon", h.cfg.Epsilon).
		Int("table_size", h.table.Size()).
		Msg("starting evaluation")

	trained, err := h.population(ctx, seed, 0, func(rng *rand.Rand) qlearn.Policy {
		return qlearn.NewGreedy(h.table, h.cfg.Epsilon, rng)
	})
	if err != nil {
		return nil, err
	}
	baseline, err := h.population(ctx, seed, 2, func(rng *rand.Rand) qlearn.Policy {
		return qlearn.NewRandom(rng)
	})
	if err != nil {
		return nil, err
	}

	a, b := trained.Summary(), baseline.Summary()
	delta := h.cfg.Delta + h.cfg.DeltaFactor*b.Mean
	report := &Report{
		GeneratedAt: h.now().UTC(),
		Seed:        seed,
		Episodes:    h.cfg.Episodes,
		Epsilon:     h.cfg.Epsilon,
		TableSize:   h.table.Size(),
		Test:        ZTest(a, b, delta, h.cfg.Significance),
		Trained:     a,
		Baseline:    b,
	}

	h.logger.Info().
		Float64("trained_mean", a.Mean).
		Float64("baseline_mean", b.Mean).
		Float64("z", report.Test.Z).
		Float64("p_value", report.Test.PValue).
		Bool("significant", report.Test.Significant).
		Msg("evaluation complete")
	return report, nil
}

func (h *Harness) population(ctx context.Context, seed int64, stream uint64, newPolicy func(*rand.Rand) qlearn.Policy) (*statistics.Rewards, error) {
	sim := blackjack.NewTable(randutil.New(randutil.Derive(seed, stream)))
	policy := newPolicy(randutil.New(randutil.Derive(seed, stream+1)))
	rewards := statistics.NewRewards(h.cfg.Episodes)

	for i := 0; i < h.cfg.Episodes; i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		r, err := qlearn.Play(sim, h.cfg.Rules, policy, qlearn.AllActions)
		if err != nil {
			return nil, fmt.Errorf("%s episode %d: %w", policy.Name(), i+1, err)
		}
		rewards.Add(int(r))
	}
	if err := rewards.Validate(); err != nil {
		return nil, fmt.Errorf("%s rewards: %w", policy.Name(), err)
	}

	h.logger.Debug().
		Str("policy", policy.Name()).
		Float64("mean", rewards.Mean()).
		Float64("variance", rewards.Variance()).
		Interface("histogram", rewards.Histogram).
		Msg("population complete")
	return rewards, nil
}

// Run is a convenience wrapper around NewHarness and Harness.Run.
func Run(ctx context.Context, table *qlearn.QTable, cfg Config, logger zerolog.Logger) (*Report, error) {
	h, err := NewHarness(table, cfg, logger)
	if err != nil {
		return nil, err
	}
	return h.Run(ctx)
}
