// Package analysis measures integrator accuracy and trajectory sensitivity.
//
//   - [OrbitError]: distance from the exact unit circle after integrating
//     the circular reference problem
//   - [Convergence]: empirical order of accuracy from a log-log fit of
//     error against step size
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory
//     separation
//
// Estimating the order of the three integrators:
//
//	for _, kind := range integrators.Kinds() {
//	    res, _ := analysis.Convergence(kind, []float64{0.1, 0.05, 0.025}, 2*math.Pi)
//	    fmt.Printf("%s: order %.2f\n", kind, res.Order)
//	}
package analysis
