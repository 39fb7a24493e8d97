// Package rarch estimates Rotated ARCH (RARCH) multivariate volatility
// models by Gaussian quasi-maximum likelihood.
//
// 🚀 What is RARCH?
//
//	RARCH forecasts a sequence of conditional covariance matrices H_t for
//	K assets. The data are first rotated by the inverse symmetric square
//	root of the unconditional covariance C, so that the dynamics are
//	estimated in a space whose long-run covariance is the identity
//	(covariance targeting by construction). Three parameterizations of
//	the dynamics are supported:
//	  • Scalar   — one coefficient per lag, shared across assets
//	  • CP       — per-asset innovation loadings, one common persistence
//	  • Diagonal — per-asset loadings for both innovation and persistence
//
// ✨ Key features:
//   - vector input (T×K residuals) or pre-formed realized covariances
//   - two estimation strategies: two-stage (C fixed at its sample mean)
//     and joint (C re-estimated through its Cholesky factor)
//   - robust sandwich (Huber–White) parameter covariance with a
//     Newey–West long-run score covariance (see subpackage hac)
//   - path simulation for model checking and Monte Carlo work
//
// ⚙️ Usage:
//
//	import "github.com/katalvlaran/rarch"
//
//	opts := rarch.DefaultOptions()     // Scalar variant, two-stage method
//	res, err := rarch.Estimate(returns, 1, 1, opts)
//	if err != nil { ... }
//	_ = res.H      // T conditional covariance matrices
//	_ = res.VCV    // robust parameter covariance
//
// The optimize and infer phases are independently callable: Optimize
// returns a *Fit, and Fit.Infer computes scores and the sandwich VCV.
//
// Numerical backends: gonum/mat (linear algebra), gonum/optimize
// (Nelder–Mead maximum likelihood), gonum/diff/fd (two-sided numerical
// derivatives, evaluated concurrently).
//
// See example_test.go for runnable examples.
package rarch
