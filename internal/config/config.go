// Package config loads service configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is the full configuration surface of the QPREP service and batch
// runner.
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Optimization struct {
		// Qubits is the circuit width n; the state dimension is 2^n.
		Qubits int `env:"OPT_QUBITS" envDefault:"4"`
		// Layers is the even/odd block count L.
		Layers int `env:"OPT_LAYERS" envDefault:"2"`
		// SweepMaxLayers is the upper layer count of the batch sweep.
		SweepMaxLayers int `env:"OPT_SWEEP_MAX_LAYERS" envDefault:"5"`
		// Starts is the number of independent trials per run.
		Starts int `env:"OPT_STARTS" envDefault:"10"`
		// Algorithm selects the local minimizer (neldermead, lbfgs).
		Algorithm string `env:"OPT_ALGORITHM" envDefault:"neldermead"`
		// Tolerance is the minimizer's function-convergence threshold.
		Tolerance float64 `env:"OPT_TOLERANCE" envDefault:"1e-9"`
		// MaxIterations caps each local search.
		MaxIterations int `env:"OPT_MAX_ITERATIONS" envDefault:"500"`
		// Sampling selects the starting-point distribution (uniform, latin).
		Sampling string `env:"OPT_SAMPLING" envDefault:"uniform"`
		// AngleMax bounds sampled angles to [0, AngleMax); default 2*pi.
		AngleMax float64 `env:"OPT_ANGLE_MAX" envDefault:"6.283185307179586"`
		// PhaseInvariant switches the objective to the global-phase-
		// insensitive metric.
		PhaseInvariant bool `env:"OPT_PHASE_INVARIANT" envDefault:"false"`
		// Seed fixes the run's randomness; 0 seeds from the clock.
		Seed int64 `env:"OPT_SEED" envDefault:"0"`
		// Workers bounds trial concurrency; 0 means NumCPU.
		Workers int `env:"OPT_WORKERS" envDefault:"0"`
	}
	Simulation struct {
		// MaxQubits and MaxGates cap what the simulator will evaluate.
		MaxQubits int `env:"SIM_MAX_QUBITS" envDefault:"24"`
		MaxGates  int `env:"SIM_MAX_GATES" envDefault:"1048576"`
	}
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
