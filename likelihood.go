// SPDX-License-Identifier: MIT
// Package rarch: the likelihood engine. One call maps a dynamics vector to
// the conditional-covariance path in standardized space and the per-slice
// Gaussian quasi-log-likelihood contributions. The recursion is inherently
// sequential over time (H_t depends on H_{t-1}); parallelism happens only
// in the finite-difference layers built on top.

package rarch

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const ln2pi = 1.8378770664093454

// penaltyBase is the objective value returned for infeasible trial steps,
// scaled up with the size of the violation so the simplex has a direction
// to retreat along. Infeasibility is absorbed here, never raised, so the
// optimizer keeps exploring.
const penaltyBase = 1e8

// stepH computes one recursion step in standardized space:
//
//	H_t = Intercept + Σ_i A_i·G_{t-i}·A_i + Σ_j B_j·H_{t-j}·B_j,
//
// with the back-cast seed standing in for indices before the sample. For
// diagonal A_i the congruence reduces to the elementwise rule
// (A·S·A)[r,c] = a[r]·a[c]·S[r,c], which is how all three variants are
// evaluated after unpack.
func stepH(cc []float64, c coeffs, g, h []*mat.SymDense, seed *mat.SymDense, t, k int) *mat.SymDense {
	ht := mat.NewSymDense(k, nil)
	for r := 0; r < k; r++ {
		for cl := r; cl < k; cl++ {
			var v float64
			if r == cl {
				v = cc[r]
			}
			for i := range c.a {
				lag := seed
				if t-1-i >= 0 {
					lag = g[t-1-i]
				}
				v += c.a[i][r] * c.a[i][cl] * lag.At(r, cl)
			}
			for j := range c.b {
				prev := seed
				if t-1-j >= 0 {
					prev = h[t-1-j]
				}
				v += c.b[j][r] * c.b[j][cl] * prev.At(r, cl)
			}
			ht.SetSym(r, cl, v)
		}
	}

	return ht
}

// filter runs the full recursion over a standardized sequence and returns
// the per-slice log-likelihood contributions
//
//	ll_t = −0.5·(K·log 2π + log det H_t + tr(H_t⁻¹·G_t))
//
// together with the H path. ok is false when the intercept is not positive
// or some H_t loses positive definiteness; callers decide whether that is a
// penalty (objective) or an error (LikelihoodPath).
func filter(c coeffs, g []*mat.SymDense, seed *mat.SymDense) (lls []float64, h []*mat.SymDense, ok bool) {
	tn := len(g)
	k := g[0].SymmetricDim()

	cc, ok := intercept(c, k)
	if !ok {
		return nil, nil, false
	}

	lls = make([]float64, tn)
	h = make([]*mat.SymDense, tn)
	var ch mat.Cholesky
	var x mat.Dense
	for t := 0; t < tn; t++ {
		h[t] = stepH(cc, c, g, h, seed, t, k)
		if !ch.Factorize(h[t]) {
			return nil, nil, false
		}
		if err := ch.SolveTo(&x, g[t]); err != nil {
			return nil, nil, false
		}
		var tr float64
		for r := 0; r < k; r++ {
			tr += x.At(r, r)
		}
		lls[t] = -0.5 * (float64(k)*ln2pi + ch.LogDet() + tr)
	}

	return lls, h, true
}

// LikelihoodPath evaluates the likelihood engine at a dynamics vector over
// an already standardized sequence. It returns the summed log-likelihood
// (standardized scale), the per-slice contributions and the standardized H
// path. seed defaults to std.Backcast() when nil.
//
// Errors:
//   - ErrUnknownVariant / ErrInvalidOrder / ErrBadStart on malformed inputs.
//   - ErrNotPositiveDefinite when the parameters produce a non-PD forecast.
func LikelihoodPath(params []float64, std *Standardized, v Variant, p, q int, seed *mat.SymDense) (ll float64, lls []float64, h []*mat.SymDense, err error) {
	if err = checkSpec(v, TwoStage, p, q); err != nil {
		return 0, nil, nil, err
	}
	if len(params) != DynamicsCount(v, p, q, std.K) {
		return 0, nil, nil, ErrBadStart
	}
	if seed == nil {
		seed = std.Backcast()
	}

	c, ok := unpack(v, p, q, std.K, params)
	if !ok {
		return 0, nil, nil, ErrNotPositiveDefinite
	}
	lls, h, ok = filter(c, std.Slices, seed)
	if !ok {
		return 0, nil, nil, ErrNotPositiveDefinite
	}

	return floats.Sum(lls), lls, h, nil
}

// negLogLik is the two-stage minimization objective: the negated summed
// log-likelihood in standardized space, with box bounds and the
// stationarity constraint enforced through penalties.
func negLogLik(theta []float64, v Variant, p, q, k int, g []*mat.SymDense, seed *mat.SymDense, lo, hi []float64) float64 {
	if excess := boundsExcess(theta, lo, hi); excess > 0 {
		return penaltyBase * (1 + excess)
	}
	if con := StationarityConstraint(v, p, q, k, theta); con >= 0 {
		return penaltyBase * (1 + con)
	}
	c, ok := unpack(v, p, q, k, theta)
	if !ok {
		return penaltyBase
	}
	lls, _, ok := filter(c, g, seed)
	if !ok {
		return penaltyBase
	}

	return -floats.Sum(lls)
}

// boundsExcess measures how far x strays outside [lo, hi]; 0 inside.
func boundsExcess(x, lo, hi []float64) float64 {
	var excess float64
	for i, v := range x {
		if v < lo[i] {
			excess += lo[i] - v
		} else if v > hi[i] {
			excess += v - hi[i]
		}
		if math.IsNaN(v) {
			return math.Inf(1)
		}
	}

	return excess
}
