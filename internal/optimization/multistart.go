package optimization

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/copyleftdev/QPREP/internal/errors"
	"github.com/copyleftdev/QPREP/internal/metrics"
	"github.com/copyleftdev/QPREP/internal/quantum"
)

// Sampling strategies for initial parameter vectors.
const (
	// SamplingUniform draws every angle independently, uniform over the
	// angle range.
	SamplingUniform = "uniform"
	// SamplingLatin stratifies each dimension across the K starts so the
	// starts cover the range more evenly.
	SamplingLatin = "latin"
)

// RunConfig configures one multi-start run.
type RunConfig struct {
	// Qubits is the qubit count n; the state dimension is 2^n.
	Qubits int
	// Layers is the number of even/odd blocks L.
	Layers int
	// Starts is the number of independent trials K.
	Starts int
	// Target is the state to prepare, length 2^Qubits.
	Target []complex128
	// PhaseInvariant switches the objective to the global-phase-insensitive
	// metric.
	PhaseInvariant bool
	// AngleMax is the upper bound of the angle sampling range [0, AngleMax).
	// Defaults to 2*pi.
	AngleMax float64
	// Sampling selects the starting-point distribution.
	Sampling string
	// Workers bounds trial concurrency; 0 means NumCPU.
	Workers int
	// Seed makes the run reproducible. Trial i derives its generator from
	// (Seed, i), so results do not depend on worker scheduling. 0 seeds from
	// the clock.
	Seed int64
}

// MultiStart explores the parameter space with K independent local searches
// and keeps the best result. Trials share nothing but the final result
// handoff, so they run concurrently on a bounded worker pool.
type MultiStart struct {
	cfg       RunConfig
	minimizer Minimizer
	objective ObjectiveFunction
	dims      int
}

// NewMultiStart validates the configuration and builds the run. Shape and
// dimension errors are configuration bugs and surface here, before any trial
// starts.
func NewMultiStart(cfg RunConfig, minimizer Minimizer, sim *quantum.Simulator) (*MultiStart, error) {
	if cfg.Qubits < 1 {
		return nil, errors.Newf(errors.KindShapeMismatch,
			"qubit count must be positive, got %d", cfg.Qubits).
			WithComponent("optimization").WithOperation("multistart")
	}
	if cfg.Layers < 0 {
		return nil, errors.Newf(errors.KindShapeMismatch,
			"layer count must be non-negative, got %d", cfg.Layers).
			WithComponent("optimization").WithOperation("multistart")
	}
	if cfg.Starts < 1 {
		cfg.Starts = 10
	}
	if cfg.AngleMax <= 0 {
		cfg.AngleMax = 2 * math.Pi
	}
	if cfg.Sampling == "" {
		cfg.Sampling = SamplingUniform
	}
	if cfg.Sampling != SamplingUniform && cfg.Sampling != SamplingLatin {
		return nil, errors.Newf(errors.KindShapeMismatch,
			"unknown sampling strategy %q", cfg.Sampling).
			WithComponent("optimization").WithOperation("multistart")
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	eval := NewEvaluator(cfg.Qubits, cfg.Layers, sim)
	objective, err := NewDistanceObjective(eval, cfg.Target, cfg.PhaseInvariant)
	if err != nil {
		return nil, err
	}

	return &MultiStart{
		cfg:       cfg,
		minimizer: minimizer,
		objective: objective,
		dims:      eval.ParamCount(),
	}, nil
}

// Run executes the K trials and returns every TrialResult plus the best
// successful one. Per-trial failures become failed records; only a cancelled
// context or a run in which every trial failed is an error. Cancellation is
// honored between trial dispatches; a started trial runs to completion.
func (m *MultiStart) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now()
	defer func() {
		metrics.RunDuration.Observe(time.Since(started).Seconds())
	}()

	initials := m.initialPoints()

	workers := m.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > m.cfg.Starts {
		workers = m.cfg.Starts
	}

	jobs := make(chan int)
	results := make(chan TrialResult, m.cfg.Starts)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- m.runTrial(ctx, i, initials[i])
			}
		}()
	}

dispatch:
	for i := 0; i < m.cfg.Starts; i++ {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trials := make([]TrialResult, 0, m.cfg.Starts)
	for trial := range results {
		trials = append(trials, trial)
	}
	sort.Slice(trials, func(i, j int) bool { return trials[i].Start < trials[j].Start })

	var best *TrialResult
	for i := range trials {
		if trials[i].Failed() {
			continue
		}
		if best == nil || trials[i].Distance < best.Distance {
			best = &trials[i]
		}
	}
	if best == nil {
		return nil, errors.Newf(errors.KindNoViableResult,
			"all %d trials failed", len(trials)).
			WithComponent("optimization").WithOperation("multistart")
	}

	return &RunResult{Best: best, Trials: trials}, nil
}

// runTrial runs one local search and records its outcome.
func (m *MultiStart) runTrial(ctx context.Context, i int, initial []float64) TrialResult {
	result, err := m.minimizer.Minimize(ctx, m.objective, initial)
	if err != nil {
		metrics.TrialsTotal.WithLabelValues(metrics.StatusFailed).Inc()
		return TrialResult{Start: i, Err: err}
	}

	metrics.TrialsTotal.WithLabelValues(metrics.StatusOK).Inc()
	metrics.TrialDistance.Observe(result.Value)
	return TrialResult{
		Start:     i,
		Params:    result.Point,
		Distance:  result.Value,
		Converged: result.Converged,
	}
}

// initialPoints draws the K starting vectors up front so results are a pure
// function of the seed, independent of worker scheduling.
func (m *MultiStart) initialPoints() [][]float64 {
	points := make([][]float64, m.cfg.Starts)

	switch m.cfg.Sampling {
	case SamplingLatin:
		rng := rand.New(rand.NewSource(m.cfg.Seed))
		for i := range points {
			points[i] = make([]float64, m.dims)
		}
		// One stratum per start and dimension, shuffled independently per
		// dimension.
		for d := 0; d < m.dims; d++ {
			strata := make([]float64, m.cfg.Starts)
			for i := range strata {
				strata[i] = (float64(i) + rng.Float64()) / float64(m.cfg.Starts)
			}
			rng.Shuffle(len(strata), func(a, b int) {
				strata[a], strata[b] = strata[b], strata[a]
			})
			for i := range points {
				points[i][d] = strata[i] * m.cfg.AngleMax
			}
		}
	default:
		for i := range points {
			rng := rand.New(rand.NewSource(trialSeed(m.cfg.Seed, i)))
			points[i] = make([]float64, m.dims)
			for d := range points[i] {
				points[i][d] = rng.Float64() * m.cfg.AngleMax
			}
		}
	}

	return points
}

// trialSeed derives a per-trial seed; the multiplier is the 64-bit golden
// ratio used by splitmix-style generators.
func trialSeed(seed int64, trial int) int64 {
	return seed + int64(trial+1)*-0x61c8864680b583eb
}
