package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/integrators"
)

// Solver is the single entry point for integration runs. It validates the
// configuration, dispatches to the fixed-step or adaptive integrator and
// resamples the result onto the requested evaluation times.
//
// A Solver holds no per-run state and may be shared between goroutines as
// long as its observers are safe for concurrent use.
type Solver struct {
	logger    *slog.Logger
	observers []dynamo.Observer
}

type Option func(*Solver)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers an observer called for every run.
func WithObserver(o dynamo.Observer) Option {
	return func(s *Solver) { s.observers = append(s.observers, o) }
}

func New(opts ...Option) *Solver {
	s := &Solver{
		logger:    slog.New(slog.DiscardHandler),
		observers: make([]dynamo.Observer, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Integrate runs one integration with a default Solver.
func Integrate(f dynamo.Field, cfg dynamo.Config) (*dynamo.Trajectory, error) {
	return New().Integrate(f, cfg)
}

// Integrate runs f under cfg and returns its trajectory.
//
// Configuration problems fail with dynamo.ErrInvalidConfig before any
// evaluation. A failed run returns a nil trajectory; the samples accepted
// before the failure are available from the *dynamo.IntegrationError.
func (s *Solver) Integrate(f dynamo.Field, cfg dynamo.Config) (*dynamo.Trajectory, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil vector field", dynamo.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	mode := cfg.Method
	if cfg.Adaptive {
		mode = dynamo.MethodRK45 + "/adaptive"
	}
	s.logger.Debug("integration started",
		"mode", mode, "t0", cfg.T0, "tf", cfg.TF, "dim", len(cfg.X0))

	observers := s.runObservers()

	var (
		tr  *dynamo.Trajectory
		err error
	)
	if cfg.Adaptive {
		tr, err = integrators.NewRK45().Run(f, cfg, observers...)
	} else {
		var stepper integrators.Stepper
		stepper, err = integrators.New(cfg.Method)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
		}
		tr, err = integrators.RunFixed(stepper, f, cfg, observers...)
	}
	if err != nil {
		s.logger.Warn("integration failed", "mode", mode, "error", err)
		return nil, err
	}

	stats := tr.Stats()
	s.logger.Info("integration finished",
		"mode", mode,
		"samples", tr.Len(),
		"steps", stats.Steps,
		"rejected", stats.Rejected,
		"evaluations", stats.Evaluations,
		"elapsed", time.Since(start))

	if len(cfg.EvalTimes) > 0 {
		return tr.Resample(cfg.EvalTimes)
	}
	return tr, nil
}

func (s *Solver) runObservers() []dynamo.Observer {
	observers := make([]dynamo.Observer, 0, len(s.observers)+1)
	if s.logger.Enabled(context.Background(), slog.LevelDebug) {
		observers = append(observers, logObserver{logger: s.logger})
	}
	return append(observers, s.observers...)
}

type logObserver struct {
	logger *slog.Logger
}

func (l logObserver) OnAccept(step int, t float64, x dynamo.State, dt float64) {
	l.logger.Debug("step accepted", "step", step, "t", t, "dt", dt)
}

func (l logObserver) OnReject(step int, t float64, dt, errNorm float64) {
	l.logger.Debug("step rejected", "step", step, "t", t, "dt", dt, "err_norm", errNorm)
}
