// SPDX-License-Identifier: MIT
// Package rarch: input normalizer and standardizer. Turns raw residual rows
// or pre-formed covariance slices into the rotated ("standardized") sequence
// whose time-average is the identity, and builds the exponentially weighted
// back-cast seed for the recursion.

package rarch

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Back-cast weighting: w_i ∝ backcastBase·backcastDecay^i over the first
// ⌈√T⌉+1 standardized slices, normalized to sum to one.
const (
	backcastDecay = 0.94
	backcastBase  = 0.06
)

// Standardized is the output of Standardize: the unconditional covariance C
// of the input sequence, its symmetric square roots, and the rotated slices
// G_t = C^(-1/2)·Σ_t·C^(-1/2). All fields are read-only after construction.
type Standardized struct {
	T, K     int
	C        *mat.SymDense
	CHalf    *mat.SymDense
	CInvHalf *mat.SymDense
	Slices   []*mat.SymDense
}

// CovarianceSequence converts T×K residual rows into T outer-product
// covariance slices Σ_t = x_t·x_tᵀ.
//
// Errors:
//   - ErrInvalidShape for nil data or zero columns.
//   - ErrInsufficientData for T ≤ K.
func CovarianceSequence(data *mat.Dense) ([]*mat.SymDense, error) {
	if data == nil {
		return nil, ErrInvalidShape
	}
	t, k := data.Dims()
	if k < 1 {
		return nil, ErrInvalidShape
	}
	if t <= k {
		return nil, ErrInsufficientData
	}

	sigma := make([]*mat.SymDense, t)
	for i := 0; i < t; i++ {
		s := mat.NewSymDense(k, nil)
		s.SymOuterK(1, data.RowView(i))
		sigma[i] = s
	}

	return sigma, nil
}

// Standardize computes the sample-average covariance C of the sequence, its
// inverse symmetric square root, and the rotated sequence with unit
// unconditional covariance.
//
// Errors:
//   - ErrInvalidShape for an empty sequence, nil slices or mixed dimensions.
//   - ErrInsufficientData for T ≤ K.
//   - ErrNotPositiveDefinite / ErrEigenFailed when C cannot be inverted.
func Standardize(sigma []*mat.SymDense) (*Standardized, error) {
	t := len(sigma)
	if t == 0 || sigma[0] == nil {
		return nil, ErrInvalidShape
	}
	k := sigma[0].SymmetricDim()
	for _, s := range sigma {
		if s == nil || s.SymmetricDim() != k {
			return nil, ErrInvalidShape
		}
	}
	if t <= k {
		return nil, ErrInsufficientData
	}

	// C = (1/T)·Σ_t Σ_t.
	c := mat.NewSymDense(k, nil)
	for _, s := range sigma {
		c.AddSym(c, s)
	}
	c.ScaleSym(1/float64(t), c)

	half, invHalf, err := symPow(c)
	if err != nil {
		return nil, err
	}

	return &Standardized{
		T:        t,
		K:        k,
		C:        c,
		CHalf:    half,
		CInvHalf: invHalf,
		Slices:   rotateAll(sigma, invHalf),
	}, nil
}

// Backcast returns the exponentially weighted average of the first ⌈√T⌉+1
// standardized slices, the seed used for recursion indices before the
// sample starts.
func (s *Standardized) Backcast() *mat.SymDense {
	return backcastOf(s.Slices)
}

// backcastOf builds the EWMA seed from an already standardized sequence.
func backcastOf(g []*mat.SymDense) *mat.SymDense {
	t := len(g)
	k := g[0].SymmetricDim()
	m := int(math.Ceil(math.Sqrt(float64(t)))) + 1
	if m > t {
		m = t
	}

	w := make([]float64, m)
	var sum float64
	for i := range w {
		w[i] = backcastBase * math.Pow(backcastDecay, float64(i))
		sum += w[i]
	}

	seed := mat.NewSymDense(k, nil)
	var tmp mat.SymDense
	for i := 0; i < m; i++ {
		tmp.ScaleSym(w[i]/sum, g[i])
		seed.AddSym(seed, &tmp)
	}

	return seed
}
