// SPDX-License-Identifier: MIT
// Package rarch: parameter-vector layout per variant, starting values, box
// bounds, and the stationarity constraint.

package rarch

import "math"

// Starting masses: the innovation coefficients split startInnovation across
// the P lags and the persistence coefficients split startPersistence across
// the Q lags (CP: startPersistence is the single shared persistence level).
// Free parameters are the square roots, so everything starts inside (−1, 1).
const (
	startInnovation  = 0.05
	startPersistence = 0.93
)

// DynamicsCount returns the number of free dynamics parameters for a variant
// at order (P,Q) with K assets: Scalar P+Q, CP K·P+1, Diagonal K·(P+Q).
func DynamicsCount(v Variant, p, q, k int) int {
	switch v {
	case Scalar:
		return p + q
	case CP:
		return k*p + 1
	case Diagonal:
		return k * (p + q)
	default:
		return 0
	}
}

// ParamCount returns the total parameter-vector length; joint mode prepends
// the K(K+1)/2 Cholesky entries of the unconditional covariance.
func ParamCount(v Variant, p, q, k int, joint bool) int {
	n := DynamicsCount(v, p, q, k)
	if joint {
		n += k * (k + 1) / 2
	}

	return n
}

// StartingParams produces conservative GARCH-like starting values for the
// dynamics block: innovation mass ≈0.05 spread over the P lags, persistence
// mass ≈0.93 spread over the Q lags (CP: a single persistence level 0.93).
func StartingParams(v Variant, p, q, k int) []float64 {
	a := math.Sqrt(startInnovation / float64(p))
	var b float64
	if q > 0 {
		b = math.Sqrt(startPersistence / float64(q))
	}

	switch v {
	case Scalar:
		out := make([]float64, p+q)
		for i := 0; i < p; i++ {
			out[i] = a
		}
		for j := 0; j < q; j++ {
			out[p+j] = b
		}

		return out
	case CP:
		out := make([]float64, k*p+1)
		for i := 0; i < k*p; i++ {
			out[i] = a
		}
		out[k*p] = math.Sqrt(startPersistence)

		return out
	case Diagonal:
		out := make([]float64, k*(p+q))
		for i := 0; i < k*p; i++ {
			out[i] = a
		}
		for j := 0; j < k*q; j++ {
			out[k*p+j] = b
		}

		return out
	default:
		return nil
	}
}

// Bounds returns the box constraints for the parameter vector: every
// dynamics coefficient in [−1, 1]; in joint mode the Cholesky block is
// unconstrained (±Inf).
func Bounds(v Variant, p, q, k int, joint bool) (lo, hi []float64) {
	nDyn := DynamicsCount(v, p, q, k)
	n := ParamCount(v, p, q, k, joint)
	lo = make([]float64, n)
	hi = make([]float64, n)
	off := n - nDyn
	for i := 0; i < off; i++ {
		lo[i] = math.Inf(-1)
		hi[i] = math.Inf(1)
	}
	for i := off; i < n; i++ {
		lo[i] = -1
		hi[i] = 1
	}

	return lo, hi
}

// StationarityConstraint returns the stationarity constraint value for a
// dynamics vector; ≤ 0 means feasible (strict inequality is required at an
// interior optimum).
//
// Scalar/Diagonal: max over assets of Σ_i a_i² + Σ_j b_j² − 1.
// CP: max(λ−1, max over assets of Σ_i a_i² − λ), so that the derived
// persistence matrix (λ·I − Σ A_i²)^(1/2) exists and persistence stays
// below one.
//
// params must hold exactly DynamicsCount(v, p, q, k) entries.
func StationarityConstraint(v Variant, p, q, k int, params []float64) float64 {
	if len(params) != DynamicsCount(v, p, q, k) {
		panic("rarch: StationarityConstraint: wrong parameter count")
	}

	switch v {
	case Scalar:
		var s float64
		for _, x := range params {
			s += x * x
		}

		return s - 1
	case CP:
		lam := params[k*p] * params[k*p]
		worst := lam - 1
		for r := 0; r < k; r++ {
			var s float64
			for i := 0; i < p; i++ {
				x := params[i*k+r]
				s += x * x
			}
			if s-lam > worst {
				worst = s - lam
			}
		}

		return worst
	case Diagonal:
		worst := math.Inf(-1)
		for r := 0; r < k; r++ {
			var s float64
			for i := 0; i < p; i++ {
				x := params[i*k+r]
				s += x * x
			}
			for j := 0; j < q; j++ {
				x := params[k*p+j*k+r]
				s += x * x
			}
			if s-1 > worst {
				worst = s - 1
			}
		}

		return worst
	default:
		return math.NaN()
	}
}

// coeffs holds the per-lag loadings expanded to per-asset vectors, the
// uniform representation consumed by the recursion: H entries combine as
// a_i[r]·a_i[c]·G[r,c] regardless of variant.
type coeffs struct {
	a [][]float64 // P × K innovation loadings
	b [][]float64 // Q × K persistence loadings (CP: the derived B diagonal)
}

// unpack expands a dynamics vector into coeffs. ok is false when the CP
// persistence matrix does not exist (λ < Σ a_i² for some asset), which the
// objective treats as an infeasible trial step.
func unpack(v Variant, p, q, k int, params []float64) (coeffs, bool) {
	var c coeffs
	switch v {
	case Scalar:
		c.a = make([][]float64, p)
		for i := 0; i < p; i++ {
			c.a[i] = repeat(params[i], k)
		}
		c.b = make([][]float64, q)
		for j := 0; j < q; j++ {
			c.b[j] = repeat(params[p+j], k)
		}
	case CP:
		c.a = make([][]float64, p)
		for i := 0; i < p; i++ {
			c.a[i] = append([]float64(nil), params[i*k:(i+1)*k]...)
		}
		lam := params[k*p] * params[k*p]
		bv := make([]float64, k)
		for r := 0; r < k; r++ {
			var s float64
			for i := 0; i < p; i++ {
				s += c.a[i][r] * c.a[i][r]
			}
			d := lam - s
			if d < 0 {
				return coeffs{}, false
			}
			bv[r] = math.Sqrt(d)
		}
		c.b = [][]float64{bv}
	case Diagonal:
		c.a = make([][]float64, p)
		for i := 0; i < p; i++ {
			c.a[i] = append([]float64(nil), params[i*k:(i+1)*k]...)
		}
		c.b = make([][]float64, q)
		for j := 0; j < q; j++ {
			c.b[j] = append([]float64(nil), params[k*p+j*k:k*p+(j+1)*k]...)
		}
	default:
		return coeffs{}, false
	}

	return c, true
}

// repeat fills a length-k vector with x (scalar coefficient broadcast).
func repeat(x float64, k int) []float64 {
	v := make([]float64, k)
	for i := range v {
		v[i] = x
	}

	return v
}

// intercept returns the diagonal of the covariance-targeting intercept
// I − Σ A_i² − Σ B_j² in standardized space; ok is false when any entry is
// non-positive (the forecast could not stay positive definite).
func intercept(c coeffs, k int) ([]float64, bool) {
	cc := make([]float64, k)
	for r := 0; r < k; r++ {
		s := 1.0
		for i := range c.a {
			s -= c.a[i][r] * c.a[i][r]
		}
		for j := range c.b {
			s -= c.b[j][r] * c.b[j][r]
		}
		if s <= 0 {
			return nil, false
		}
		cc[r] = s
	}

	return cc, true
}
