// Command qprep runs the batch layer sweep: for each layer count up to the
// configured maximum it searches for angles preparing a fixed random target
// state, and reports the best achieved distance per depth as JSON on stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/copyleftdev/QPREP/internal/config"
	"github.com/copyleftdev/QPREP/internal/logging"
	"github.com/copyleftdev/QPREP/internal/optimization"
	"github.com/copyleftdev/QPREP/internal/optimization/local"
	"github.com/copyleftdev/QPREP/internal/quantum"
)

// sweepPoint is one row of the sweep report.
type sweepPoint struct {
	Layers       int     `json:"layers"`
	Parameters   int     `json:"parameters"`
	BestDistance float64 `json:"best_distance"`
	MeanDistance float64 `json:"mean_distance"`
	Median       float64 `json:"median_distance"`
	StdDev       float64 `json:"stddev_distance"`
	FailedTrials int     `json:"failed_trials"`
	Elapsed      string  `json:"elapsed"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(&logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.WithFields(map[string]interface{}{
		"service": "qprep",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Sweep failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	opt := cfg.Optimization

	seed := opt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// One fixed target across the whole sweep, so depths are comparable.
	dim := 1 << opt.Qubits
	target := quantum.RandomSuperposition(rand.New(rand.NewSource(seed)), dim)

	sim := quantum.NewSimulator(quantum.Limits{
		MaxQubits: cfg.Simulation.MaxQubits,
		MaxGates:  cfg.Simulation.MaxGates,
	})
	minimizer := local.New(local.Config{
		Algorithm:     opt.Algorithm,
		Tolerance:     opt.Tolerance,
		MaxIterations: opt.MaxIterations,
		Bounds:        [2]float64{0, opt.AngleMax},
	})

	logger.Info("Starting layer sweep", map[string]interface{}{
		"qubits":     opt.Qubits,
		"max_layers": opt.SweepMaxLayers,
		"starts":     opt.Starts,
		"seed":       seed,
	})

	enc := json.NewEncoder(os.Stdout)

	for layers := 1; layers <= opt.SweepMaxLayers; layers++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		run, err := optimization.NewMultiStart(optimization.RunConfig{
			Qubits:         opt.Qubits,
			Layers:         layers,
			Starts:         opt.Starts,
			Target:         target,
			PhaseInvariant: opt.PhaseInvariant,
			AngleMax:       opt.AngleMax,
			Sampling:       opt.Sampling,
			Workers:        opt.Workers,
			Seed:           seed + int64(layers),
		}, minimizer, sim)
		if err != nil {
			return err
		}

		started := time.Now()
		result, err := run.Run(ctx)
		if err != nil {
			return err
		}
		summary := optimization.Summarize(result.Trials)

		logger.Info("Sweep point finished", map[string]interface{}{
			"layers":        layers,
			"best_distance": summary.Best,
			"failed_trials": summary.Failed,
		})

		if err := enc.Encode(sweepPoint{
			Layers:       layers,
			Parameters:   len(result.Best.Params),
			BestDistance: summary.Best,
			MeanDistance: summary.Mean,
			Median:       summary.Median,
			StdDev:       summary.StdDev,
			FailedTrials: summary.Failed,
			Elapsed:      time.Since(started).Round(time.Millisecond).String(),
		}); err != nil {
			return err
		}
	}

	return nil
}
