package sim_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/sim"
)

func decay(t float64, x dynamo.State) dynamo.State {
	return dynamo.State{-x[0] / 2}
}

func oscillator(t float64, x dynamo.State) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func fixedConfig(tf, dt float64, x0 ...float64) dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.TF, cfg.Dt = tf, dt
	cfg.X0 = dynamo.State(x0)
	return cfg
}

func adaptiveConfig(tf, tol float64, x0 ...float64) dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.TF = tf
	cfg.X0 = dynamo.State(x0)
	cfg.Adaptive = true
	cfg.Dt = 0
	cfg.AbsTol, cfg.RelTol = tol, tol
	cfg.MinDt = 1e-12
	return cfg
}

type countingObserver struct {
	accepted, rejected int
}

func (c *countingObserver) OnAccept(step int, t float64, x dynamo.State, dt float64) {
	c.accepted++
}

func (c *countingObserver) OnReject(step int, t float64, dt, errNorm float64) {
	c.rejected++
}

var _ = Describe("Solver", func() {
	var solver *sim.Solver

	BeforeEach(func() {
		solver = sim.New()
	})

	Context("fixed-step runs", func() {
		It("should reproduce the Euler decay scenario", func() {
			tr, err := solver.Integrate(decay, fixedConfig(10, 0.4, 10))

			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Len()).To(Equal(26))
			Expect(tr.At(1).T).To(BeNumerically("~", 0.4, 1e-12))
			Expect(tr.At(1).X[0]).To(BeNumerically("~", 8.0, 1e-12))
			Expect(tr.Last().T).To(Equal(10.0))
		})

		It("should dispatch on the method name", func() {
			exact := 10 * math.Exp(-5)
			errs := map[string]float64{}
			for _, m := range []string{dynamo.MethodEuler, dynamo.MethodHeun, dynamo.MethodRK4} {
				cfg := fixedConfig(10, 0.1, 10)
				cfg.Method = m
				tr, err := solver.Integrate(decay, cfg)
				Expect(err).NotTo(HaveOccurred())
				errs[m] = math.Abs(tr.Last().X[0] - exact)
			}

			Expect(errs[dynamo.MethodHeun]).To(BeNumerically("<", errs[dynamo.MethodEuler]))
			Expect(errs[dynamo.MethodRK4]).To(BeNumerically("<", errs[dynamo.MethodHeun]))
		})

		It("should return a single sample for a degenerate span", func() {
			tr, err := solver.Integrate(decay, fixedConfig(0, 0.1, 3))

			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Degenerate()).To(BeTrue())
			Expect(tr.First().X).To(Equal(dynamo.State{3}))
		})
	})

	Context("adaptive runs", func() {
		DescribeTable("should track the harmonic oscillator within tol times the span",
			func(tol float64) {
				tf := 10 * math.Pi
				tr, err := solver.Integrate(oscillator, adaptiveConfig(tf, tol, 0, 1))

				Expect(err).NotTo(HaveOccurred())
				Expect(tr.Last().T).To(Equal(tf))
				for i := 0; i < tr.Len(); i++ {
					s := tr.At(i)
					Expect(s.X[0]).To(BeNumerically("~", math.Sin(s.T), tol*tf))
				}
			},
			Entry("at 1e-6", 1e-6),
			Entry("at 1e-8", 1e-8),
		)

		It("should return a single sample for a degenerate span", func() {
			tr, err := solver.Integrate(oscillator, adaptiveConfig(0, 1e-6, 0, 1))

			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Len()).To(Equal(1))
		})

		It("should report non-convergence with the partial trajectory", func() {
			stiff := func(t float64, x dynamo.State) dynamo.State {
				return dynamo.State{-1e6 * x[0]}
			}
			cfg := adaptiveConfig(1, 1e-8, 1)
			cfg.Dt, cfg.MinDt, cfg.MaxDt = 0.1, 0.1, 0.1

			tr, err := solver.Integrate(stiff, cfg)

			Expect(tr).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrNonConvergence)).To(BeTrue())
			var ie *dynamo.IntegrationError
			Expect(errors.As(err, &ie)).To(BeTrue())
			Expect(ie.Partial.Len()).To(Equal(1))
		})
	})

	Context("invalid input", func() {
		It("should reject a nil field", func() {
			_, err := solver.Integrate(nil, fixedConfig(1, 0.1, 1))
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("should reject configurations before evaluating the field", func() {
			calls := 0
			f := func(t float64, x dynamo.State) dynamo.State {
				calls++
				return x
			}
			cases := []dynamo.Config{
				fixedConfig(1, 0, 1),
				fixedConfig(1, -0.1, 1),
				fixedConfig(-1, 0.1, 1),
				fixedConfig(1, 0.1),
				adaptiveConfig(1, 0, 1),
			}
			for _, cfg := range cases {
				_, err := solver.Integrate(f, cfg)
				Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
			}
			Expect(calls).To(BeZero())
		})

		It("should reject an unknown method", func() {
			cfg := fixedConfig(1, 0.1, 1)
			cfg.Method = "leapfrog"
			_, err := solver.Integrate(decay, cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("should report a derivative of the wrong dimension", func() {
			bad := func(t float64, x dynamo.State) dynamo.State {
				return dynamo.State{1, 2}
			}
			_, err := solver.Integrate(bad, fixedConfig(1, 0.1, 1))
			Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		})
	})

	Context("evaluation times", func() {
		It("should resample onto the requested times", func() {
			cfg := fixedConfig(10, 0.4, 10)
			cfg.EvalTimes = []float64{0, 0.2, 5, 10}

			tr, err := solver.Integrate(decay, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Times()).To(Equal(cfg.EvalTimes))
			Expect(tr.At(1).X[0]).To(BeNumerically("~", 9.0, 1e-12))
			Expect(tr.Last().X).To(HaveLen(1))
		})

		It("should reject evaluation times outside the span", func() {
			cfg := fixedConfig(1, 0.1, 1)
			cfg.EvalTimes = []float64{0.5, 2}
			_, err := solver.Integrate(decay, cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})
	})

	Context("observers and logging", func() {
		It("should notify registered observers", func() {
			obs := &countingObserver{}
			solver = sim.New(sim.WithObserver(obs))

			tr, err := solver.Integrate(decay, fixedConfig(1, 0.25, 1))

			Expect(err).NotTo(HaveOccurred())
			Expect(obs.accepted).To(Equal(tr.Len() - 1))
		})

		It("should log rejected steps at debug level", func() {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			solver = sim.New(sim.WithLogger(logger))
			cfg := adaptiveConfig(10, 1e-8, 0, 1)
			cfg.Dt = 3

			tr, err := solver.Integrate(oscillator, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Stats().Rejected).To(BeNumerically(">", 0))
			Expect(buf.String()).To(ContainSubstring("step rejected"))
			Expect(buf.String()).To(ContainSubstring("integration finished"))
		})

		It("should log accepted steps at debug level", func() {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			solver = sim.New(sim.WithLogger(logger))

			tr, err := solver.Integrate(decay, fixedConfig(1, 0.25, 1))

			Expect(err).NotTo(HaveOccurred())
			Expect(strings.Count(buf.String(), `msg="step accepted"`)).To(Equal(tr.Len() - 1))
		})

		It("should stay quiet by default", func() {
			tr, err := sim.Integrate(decay, fixedConfig(1, 0.5, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Len()).To(Equal(3))
		})
	})
})

var _ = Describe("Sweep", func() {
	It("should return results in job order", func() {
		jobs := make([]sim.Job, 0, 8)
		for i := 1; i <= 8; i++ {
			jobs = append(jobs, sim.Job{
				Name:   "decay",
				Field:  decay,
				Config: fixedConfig(1, 0.1, float64(i)),
			})
		}

		results, err := sim.New().Sweep(context.Background(), jobs, 3)

		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(8))
		for i, tr := range results {
			Expect(tr.First().X[0]).To(Equal(float64(i + 1)))
		}
	})

	It("should fail with the name of the failing job", func() {
		jobs := []sim.Job{
			{Name: "good", Field: decay, Config: fixedConfig(1, 0.1, 1)},
			{Name: "broken", Field: decay, Config: fixedConfig(1, 0, 1)},
		}

		results, err := sim.Sweep(context.Background(), jobs, 0)

		Expect(results).To(BeNil())
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		Expect(err.Error()).To(ContainSubstring("broken"))
	})

	It("should not start jobs after the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := sim.New().Sweep(ctx, []sim.Job{{Name: "a", Field: decay, Config: fixedConfig(1, 0.1, 1)}}, 1)

		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})
})
