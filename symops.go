// SPDX-License-Identifier: MIT
// Package rarch: small symmetric-matrix helpers shared by the standardizer,
// the likelihood engine and the inference engine: half-vectorization,
// Cholesky vectorization and symmetric matrix powers.

package rarch

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// symPowTol is the smallest eigenvalue accepted when inverting a symmetric
// square root; anything below it means the matrix is numerically singular.
const symPowTol = 1e-12

// vech returns the half-vectorization of s: the lower triangle stacked by
// columns, K(K+1)/2 entries.
func vech(s mat.Symmetric) []float64 {
	k := s.SymmetricDim()
	v := make([]float64, 0, k*(k+1)/2)
	for j := 0; j < k; j++ {
		for i := j; i < k; i++ {
			v = append(v, s.At(i, j))
		}
	}

	return v
}

// symFromVech rebuilds a symmetric matrix from its half-vectorization.
// The inverse of vech; v must have length k(k+1)/2.
func symFromVech(v []float64, k int) *mat.SymDense {
	s := mat.NewSymDense(k, nil)
	idx := 0
	for j := 0; j < k; j++ {
		for i := j; i < k; i++ {
			s.SetSym(i, j, v[idx])
			idx++
		}
	}

	return s
}

// cholVec returns the lower Cholesky factor of c stacked by columns.
// This is the unconstrained parameterization of a positive-definite matrix
// used by joint estimation.
func cholVec(c *mat.SymDense) ([]float64, error) {
	var ch mat.Cholesky
	if !ch.Factorize(c) {
		return nil, ErrNotPositiveDefinite
	}
	k := c.SymmetricDim()
	var l mat.TriDense
	ch.LTo(&l)

	v := make([]float64, 0, k*(k+1)/2)
	for j := 0; j < k; j++ {
		for i := j; i < k; i++ {
			v = append(v, l.At(i, j))
		}
	}

	return v, nil
}

// symFromCholVec rebuilds C = L·Lᵀ from a column-stacked lower factor.
func symFromCholVec(v []float64, k int) *mat.SymDense {
	l := mat.NewTriDense(k, mat.Lower, nil)
	idx := 0
	for j := 0; j < k; j++ {
		for i := j; i < k; i++ {
			l.SetTri(i, j, v[idx])
			idx++
		}
	}

	var prod mat.Dense
	prod.Mul(l, l.T())

	return symmetrize(&prod)
}

// symmetrize copies a numerically symmetric Dense into a SymDense, averaging
// the off-diagonal pairs to wash out round-off asymmetry.
func symmetrize(d *mat.Dense) *mat.SymDense {
	r, _ := d.Dims()
	s := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		s.SetSym(i, i, d.At(i, i))
		for j := i + 1; j < r; j++ {
			s.SetSym(i, j, 0.5*(d.At(i, j)+d.At(j, i)))
		}
	}

	return s
}

// symPow computes the symmetric square root and inverse square root of a
// positive-definite matrix via eigendecomposition:
//
//	C^(+1/2) = V·diag(λ^(+1/2))·Vᵀ,  C^(-1/2) = V·diag(λ^(-1/2))·Vᵀ.
//
// Errors:
//   - ErrEigenFailed if the factorization does not converge.
//   - ErrNotPositiveDefinite if any eigenvalue is ≤ symPowTol.
func symPow(c *mat.SymDense) (half, invHalf *mat.SymDense, err error) {
	k := c.SymmetricDim()
	var es mat.EigenSym
	if !es.Factorize(c, true) {
		return nil, nil, ErrEigenFailed
	}
	vals := es.Values(nil)
	for _, l := range vals {
		if l <= symPowTol {
			return nil, nil, ErrNotPositiveDefinite
		}
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	half = mat.NewSymDense(k, nil)
	invHalf = mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			var hij, iij float64
			for m := 0; m < k; m++ {
				w := vecs.At(i, m) * vecs.At(j, m)
				root := math.Sqrt(vals[m])
				hij += w * root
				iij += w / root
			}
			half.SetSym(i, j, hij)
			invHalf.SetSym(i, j, iij)
		}
	}

	return half, invHalf, nil
}

// congruence returns m·s·m for symmetric m and s (the similarity rotation
// used to move between the original and standardized spaces).
func congruence(m, s *mat.SymDense) *mat.SymDense {
	var tmp, out mat.Dense
	tmp.Mul(m, s)
	out.Mul(&tmp, m)

	return symmetrize(&out)
}

// rotateAll applies congruence(m, ·) to every slice.
func rotateAll(sigma []*mat.SymDense, m *mat.SymDense) []*mat.SymDense {
	out := make([]*mat.SymDense, len(sigma))
	for t, s := range sigma {
		out[t] = congruence(m, s)
	}

	return out
}

// logDetSym returns log det of a positive-definite symmetric matrix.
func logDetSym(c *mat.SymDense) (float64, error) {
	var ch mat.Cholesky
	if !ch.Factorize(c) {
		return 0, ErrNotPositiveDefinite
	}

	return ch.LogDet(), nil
}
