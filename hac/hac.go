// SPDX-License-Identifier: MIT

package hac

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNoData indicates an empty or nil score matrix.
	ErrNoData = errors.New("hac: score matrix is empty")

	// ErrBadLags indicates a negative lag truncation or one that is not
	// smaller than the number of observations.
	ErrBadLags = errors.New("hac: lag truncation out of range")
)

// Bandwidth returns the Newey–West lag truncation ⌊1.2·⌈T^(1/4)⌉⌋, capped
// at T−1 so the estimator stays well defined for short samples.
func Bandwidth(t int) int {
	if t < 1 {
		return 0
	}
	l := int(1.2 * math.Ceil(math.Pow(float64(t), 0.25)))
	if l > t-1 {
		l = t - 1
	}

	return l
}

// NeweyWest computes the Bartlett-kernel long-run covariance of the rows of
// scores with lag truncation lags. The result carries the estimator's usual
// 1/T scaling: Γ_l = (1/T)·Σ_t s_t·s_{t−l}ᵀ.
//
// Errors:
//   - ErrNoData for a nil/empty score matrix.
//   - ErrBadLags for lags < 0 or lags ≥ T.
func NeweyWest(scores mat.Matrix, lags int) (*mat.SymDense, error) {
	if scores == nil {
		return nil, ErrNoData
	}
	t, n := scores.Dims()
	if t == 0 || n == 0 {
		return nil, ErrNoData
	}
	if lags < 0 || lags >= t {
		return nil, ErrBadLags
	}

	omega := mat.NewSymDense(n, nil)
	gamma := mat.NewDense(n, n, nil)

	// Γ₀ is symmetric; higher-order autocovariances enter as Γ_l + Γ_lᵀ
	// with Bartlett weight 1 − l/(L+1).
	for l := 0; l <= lags; l++ {
		gamma.Zero()
		for i := l; i < t; i++ {
			for r := 0; r < n; r++ {
				sr := scores.At(i, r)
				for c := 0; c < n; c++ {
					gamma.Set(r, c, gamma.At(r, c)+sr*scores.At(i-l, c))
				}
			}
		}
		w := (1 - float64(l)/float64(lags+1)) / float64(t)
		if l == 0 {
			for r := 0; r < n; r++ {
				for c := r; c < n; c++ {
					omega.SetSym(r, c, w*0.5*(gamma.At(r, c)+gamma.At(c, r)))
				}
			}

			continue
		}
		for r := 0; r < n; r++ {
			for c := r; c < n; c++ {
				omega.SetSym(r, c, omega.At(r, c)+w*(gamma.At(r, c)+gamma.At(c, r)))
			}
		}
	}

	return omega, nil
}
