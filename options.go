// SPDX-License-Identifier: MIT

package rarch

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Options configures one estimation run.
//
// Fields:
//   - Variant     — dynamics parameterization (default Scalar).
//   - Method      — estimation strategy (default TwoStage).
//   - StartParams — optional starting values for the dynamics block. Joint
//     mode accepts either the dynamics block alone (the Cholesky block is
//     seeded from the sample covariance) or the full stacked vector.
//   - OptSettings — optional gonum optimize.Settings, forwarded opaquely to
//     the minimizer (iteration caps, convergence thresholds, recorders).
//   - Backcast    — optional override of the exponentially weighted
//     back-cast seed, in standardized space. When set it is used verbatim
//     and not recomputed during joint estimation or inference.
//
// The zero value is usable; DefaultOptions spells the defaults out.
type Options struct {
	Variant     Variant
	Method      Method
	StartParams []float64
	OptSettings *optimize.Settings
	Backcast    *mat.SymDense
}

// DefaultOptions returns the documented defaults: Scalar variant, two-stage
// estimation, generated starting values and back-cast.
func DefaultOptions() Options {
	return Options{
		Variant: Scalar,
		Method:  TwoStage,
	}
}
