// Package analysis measures the numerical quality of trajectories.
//
// The package includes:
//
//   - [ErrorSeries] and [MaxError]: deviation from a known exact solution
//   - [Convergence]: empirical order of a fixed-step method by step halving
//   - [EnergyDrift]: drift of a conserved or dissipated energy
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//
// # Convergence Order
//
// Halving the step of an order-p method divides the global error by about
// 2^p, so the slope of log(error) against log(dt) estimates p:
//
//	study, err := analysis.Convergence(integrators.NewHeun(), f, exact, cfg, 5)
//	fmt.Printf("order %.2f\n", study.Order)
package analysis
