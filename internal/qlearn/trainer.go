package qlearn

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lox/qjack/internal/blackjack"
	"github.com/lox/qjack/internal/randutil"
)

// Progress is emitted after every batch.
type Progress struct {
	Batch        int64
	Episodes     int64
	Epsilon      float64
	TableSize    int
	MeanReward   float64
	BatchTime    time.Duration
	Checkpointed bool
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithClock overrides the wall clock, mainly for tests.
func WithClock(clock quartz.Clock) Option {
	return func(t *Trainer) { t.clock = clock }
}

// WithLogger attaches a logger. The default discards output.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Trainer) { t.logger = logger }
}

// WithCheckpoint makes the trainer persist its table to path.
func WithCheckpoint(path string) Option {
	return func(t *Trainer) { t.checkpointPath = path }
}

// WithResume continues from previously saved metadata: the episode counter
// and exploration rate carry over.
func WithResume(meta Metadata) Option {
	return func(t *Trainer) {
		t.episodes = meta.Episodes
		if meta.Episodes > 0 {
			t.epsilon = meta.Epsilon
		}
	}
}

// Trainer runs tabular Q-learning episodes against the blackjack table.
// It is the single writer of its QTable.
type Trainer struct {
	cfg     TrainingConfig
	table   *QTable
	sim     *blackjack.Table
	rng     *rand.Rand
	seed    int64
	session string

	epsilon  float64
	episodes int64
	batches  int64

	clock          quartz.Clock
	logger         zerolog.Logger
	checkpointPath string
	lastCheckpoint time.Time
}

// NewTrainer constructs a trainer that updates table in place.
func NewTrainer(cfg TrainingConfig, table *QTable, opts ...Option) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		table = NewQTable()
	}

	seed := randutil.ResolveSeed(cfg.Seed)
	t := &Trainer{
		cfg:     cfg,
		table:   table,
		sim:     blackjack.NewTable(randutil.New(seed)),
		rng:     randutil.New(randutil.Derive(seed, 1)),
		seed:    seed,
		session: uuid.NewString(),
		epsilon: cfg.EpsilonStart,
		clock:   quartz.NewReal(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.epsilon = min(max(t.epsilon, cfg.EpsilonMin), 1)
	t.lastCheckpoint = t.clock.Now()
	return t, nil
}

// RunEpisode decays epsilon, plays one episode and applies a Bellman update
// after every action. It returns the terminal reward.
func (t *Trainer) RunEpisode() (blackjack.Reward, error) {
	t.epsilon = t.cfg.DecayEpsilon(t.epsilon)

	ep, err := StartEpisode(t.sim, t.cfg.Rules)
	if err != nil {
		return 0, err
	}
	for !ep.Done() {
		a := ChooseAction(t.rng, t.table, ep.State(), AllActions, t.epsilon)
		step, err := ep.Apply(a)
		if err != nil {
			return 0, err
		}
		t.table.Update(step.State, step.Action, float64(step.Reward), step.Next, AllActions, t.cfg.Alpha, t.cfg.Gamma)
	}
	t.episodes++
	return ep.Reward(), nil
}

// RunBatch plays BatchSize episodes.
func (t *Trainer) RunBatch() (Progress, error) {
	start := t.clock.Now()
	total := 0
	for i := 0; i < t.cfg.BatchSize; i++ {
		r, err := t.RunEpisode()
		if err != nil {
			return Progress{}, fmt.Errorf("episode %d: %w", t.episodes+1, err)
		}
		total += int(r)
	}
	t.batches++
	return Progress{
		Batch:      t.batches,
		Episodes:   t.episodes,
		Epsilon:    t.epsilon,
		TableSize:  t.table.Size(),
		MeanReward: float64(total) / float64(t.cfg.BatchSize),
		BatchTime:  t.clock.Since(start),
	}, nil
}

// Run trains batch after batch until MaxBatches is reached or ctx is
// cancelled. Cancellation is only observed between batches, so no episode is
// cut short. The table is flushed before Run returns in either case; on
// cancellation the context error is returned after the flush.
func (t *Trainer) Run(ctx context.Context, progress func(Progress)) error {
	t.logger.Info().
		Str("session", t.session).
		Int64("seed", t.seed).
		Int64("episodes", t.episodes).
		Float64("epsilon", t.epsilon).
		Int("batch_size", t.cfg.BatchSize).
		Int("max_batches", t.cfg.MaxBatches).
		Msg("starting training run")

	var ran int
	for t.cfg.MaxBatches == 0 || ran < t.cfg.MaxBatches {
		select {
		case <-ctx.Done():
			t.logger.Info().Int64("episodes", t.episodes).Msg("training interrupted")
			if err := t.flush(); err != nil {
				return err
			}
			return ctx.Err()
		default:
		}

		p, err := t.RunBatch()
		if err != nil {
			return err
		}
		ran++

		if t.shouldCheckpoint() {
			if err := t.flush(); err != nil {
				return err
			}
			p.Checkpointed = t.checkpointPath != ""
		}

		t.logger.Debug().
			Int64("batch", p.Batch).
			Int64("episodes", p.Episodes).
			Float64("epsilon", p.Epsilon).
			Int("table_size", p.TableSize).
			Float64("mean_reward", p.MeanReward).
			Dur("batch_time", p.BatchTime).
			Msg("batch complete")
		if progress != nil {
			progress(p)
		}
	}
	return t.flush()
}

func (t *Trainer) shouldCheckpoint() bool {
	if t.batches%int64(t.cfg.CheckpointEvery) != 0 {
		return false
	}
	if t.cfg.CheckpointInterval > 0 && t.clock.Since(t.lastCheckpoint) < t.cfg.CheckpointInterval {
		return false
	}
	return true
}

func (t *Trainer) flush() error {
	if t.checkpointPath == "" {
		return nil
	}
	if err := t.SaveCheckpoint(t.checkpointPath); err != nil {
		return err
	}
	t.lastCheckpoint = t.clock.Now()
	t.logger.Info().
		Str("path", t.checkpointPath).
		Int64("episodes", t.episodes).
		Int("table_size", t.table.Size()).
		Msg("q-table saved")
	return nil
}

// SaveCheckpoint writes the table and resume metadata to path.
func (t *Trainer) SaveCheckpoint(path string) error {
	return SaveTable(path, t.table, t.Metadata())
}

// Metadata describes the trainer's progress for persistence.
func (t *Trainer) Metadata() Metadata {
	return Metadata{
		Session:  t.session,
		Episodes: t.episodes,
		Epsilon:  t.epsilon,
		SavedAt:  t.clock.Now().UTC(),
	}
}

// Table returns the table being trained.
func (t *Trainer) Table() *QTable { return t.table }

// Epsilon returns the current exploration rate.
func (t *Trainer) Epsilon() float64 { return t.epsilon }

// Episodes returns the cumulative number of completed episodes.
func (t *Trainer) Episodes() int64 { return t.episodes }

// Session returns the identifier stamped into checkpoints by this trainer.
func (t *Trainer) Session() string { return t.session }

// Seed returns the resolved random seed.
func (t *Trainer) Seed() int64 { return t.seed }

// TrainingConfig returns the configuration the trainer was built with.
func (t *Trainer) TrainingConfig() TrainingConfig { return t.cfg }
