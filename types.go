// SPDX-License-Identifier: MIT
// Package rarch: model variant and estimation method enumerations plus the
// estimation result types.

package rarch

import "gonum.org/v1/gonum/mat"

// Variant selects the parameterization of the covariance dynamics.
//
//   - Scalar   — A_i = a_i·I, B_j = b_j·I: one free coefficient per lag,
//     P+Q parameters in total.
//   - CP       — per-asset diagonal innovation loadings with one common
//     persistence level λ shared by all assets, K·P+1 parameters. The
//     persistence matrix is derived as B = (λ·I − Σ A_i²)^(1/2), so Q is
//     structurally 1.
//   - Diagonal — per-asset diagonal loadings for both terms,
//     K·(P+Q) parameters.
//
// Parameters enter the recursion squared, so every free coefficient lives
// in (−1, 1).
type Variant int

const (
	// Scalar uses a single coefficient per lag shared across assets.
	Scalar Variant = iota

	// CP uses per-asset innovation loadings and one common persistence.
	CP

	// Diagonal uses per-asset loadings for innovation and persistence terms.
	Diagonal
)

// String implements fmt.Stringer for diagnostics.
func (v Variant) String() string {
	switch v {
	case Scalar:
		return "Scalar"
	case CP:
		return "CP"
	case Diagonal:
		return "Diagonal"
	default:
		return "Variant(?)"
	}
}

// Method selects the estimation strategy.
//
//   - TwoStage — the unconditional covariance C is fixed at its sample mean
//     and only the dynamics are estimated by ML; inference stacks the
//     moment conditions of both stages.
//   - Joint — the Cholesky factor of C is concatenated in front of the
//     dynamics and everything is estimated in one optimization.
type Method int

const (
	// TwoStage holds C at the sample average (default).
	TwoStage Method = iota

	// Joint re-estimates C through its Cholesky factor.
	Joint
)

// String implements fmt.Stringer for diagnostics.
func (m Method) String() string {
	switch m {
	case TwoStage:
		return "TwoStage"
	case Joint:
		return "Joint"
	default:
		return "Method(?)"
	}
}

// Result is the full output of Estimate/EstimateCov: the optimization
// outputs of Fit plus the robust inference outputs.
//
// Params holds the dynamics coefficients; in Joint mode the chol-vec of C
// (K(K+1)/2 entries, lower triangle by columns) is concatenated in front.
// LogLik is the maximized Gaussian log-likelihood on the original data
// scale, so two-stage and joint values are directly comparable.
// H has T entries, each a K×K symmetric positive-definite one-step-ahead
// forecast on the original scale.
// VCV and Scores cover the stacked parameter vector, side
// K(K+1)/2 + len(dynamics): [vech(C); dynamics] in TwoStage mode and
// [chol-vec(C); dynamics] in Joint mode, matching how each method
// parameterizes C.
type Result struct {
	Params    []float64
	LogLik    float64
	H         []*mat.SymDense
	VCV       *mat.SymDense
	Scores    *mat.Dense
	C         *mat.SymDense
	Converged bool
}
