// SPDX-License-Identifier: MIT

package rarch

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// simBurn is the number of pre-sample draws discarded so the path forgets
// the unconditional starting state.
const simBurn = 500

// Simulate draws a RARCH path of length t with unconditional covariance c:
// the returned rows are the simulated residual vectors and h holds the
// conditional covariances on the original scale. params is a dynamics
// vector (see StartingParams for the layout); src may be nil for the global
// generator.
//
// Errors:
//   - ErrInvalidOrder / ErrUnknownVariant / ErrBadStart on a malformed spec.
//   - ErrInvalidShape for t < 1 or nil c.
//   - ErrNotPositiveDefinite for a non-PD c or infeasible params.
func Simulate(t int, params []float64, v Variant, p, q int, c *mat.SymDense, src rand.Source) (*mat.Dense, []*mat.SymDense, error) {
	if err := checkSpec(v, TwoStage, p, q); err != nil {
		return nil, nil, err
	}
	if t < 1 || c == nil {
		return nil, nil, ErrInvalidShape
	}
	k := c.SymmetricDim()
	if len(params) != DynamicsCount(v, p, q, k) {
		return nil, nil, ErrBadStart
	}
	if StationarityConstraint(v, p, q, k, params) >= 0 {
		return nil, nil, ErrNotPositiveDefinite
	}
	co, ok := unpack(v, p, q, k, params)
	if !ok {
		return nil, nil, ErrNotPositiveDefinite
	}
	cc, ok := intercept(co, k)
	if !ok {
		return nil, nil, ErrNotPositiveDefinite
	}
	half, _, err := symPow(c)
	if err != nil {
		return nil, nil, err
	}

	// Recursion in standardized space, seeded at the unconditional identity.
	seed := identity(k)
	total := t + simBurn
	g := make([]*mat.SymDense, total)
	h := make([]*mat.SymDense, total)
	zero := make([]float64, k)
	out := mat.NewDense(t, k, nil)
	hOut := make([]*mat.SymDense, t)
	for step := 0; step < total; step++ {
		ht := stepH(cc, co, g, h, seed, step, k)
		h[step] = ht

		norm, ok := distmv.NewNormal(zero, ht, src)
		if !ok {
			return nil, nil, ErrNotPositiveDefinite
		}
		draw := norm.Rand(nil)
		gt := mat.NewSymDense(k, nil)
		gt.SymOuterK(1, mat.NewVecDense(k, draw))
		g[step] = gt

		if step >= simBurn {
			// Rotate back to the original scale: r = C^(1/2)·e.
			for r := 0; r < k; r++ {
				var val float64
				for m := 0; m < k; m++ {
					val += half.At(r, m) * draw[m]
				}
				out.Set(step-simBurn, r, val)
			}
			hOut[step-simBurn] = congruence(half, ht)
		}
	}

	return out, hOut, nil
}

// identity returns the K×K identity as a SymDense.
func identity(k int) *mat.SymDense {
	s := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		s.SetSym(i, i, 1)
	}

	return s
}
