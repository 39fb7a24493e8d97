// SPDX-License-Identifier: MIT
// Package rarch: the inference engine. Builds robust sandwich (Huber–White)
// covariance matrices for the estimates from numerical score and Hessian
// blocks and a Newey–West long-run score covariance. All derivatives are
// two-sided finite differences, evaluated concurrently — the only safe
// parallelism in the pipeline, since the recursion itself is sequential.

package rarch

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rarch/hac"
)

// Infer computes the robust parameter covariance and the score matrix at
// the optimum held by the Fit.
//
// Two-stage mode stacks two moment conditions: the stage-1 sample-mean
// condition vech(Σ_t − C) (whose Jacobian is −I by construction) and the
// stage-2 likelihood scores; the Jacobian-of-moments matrix is block lower
// triangular because stage 1 does not depend on the dynamics. Joint mode
// applies the plain sandwich in the Fit's own parameterization.
//
// Errors: ErrSingular when a Jacobian/Hessian block cannot be inverted;
// hac errors propagate unchanged.
func (f *Fit) Infer() (vcv *mat.SymDense, scores *mat.Dense, err error) {
	if f.Method == Joint {
		return f.inferJoint()
	}

	return f.inferTwoStage()
}

func (f *Fit) inferTwoStage() (*mat.SymDense, *mat.Dense, error) {
	k, t := f.K, f.T
	n1 := k * (k + 1) / 2
	n2 := len(f.theta)
	n := n1 + n2

	x0 := append(vech(f.C), f.theta...)

	// Numerical per-observation scores of the joint likelihood in
	// (vech C, dynamics); only the dynamics columns are used, the stage-1
	// scores being available analytically.
	jac := mat.NewDense(t, n, nil)
	fd.Jacobian(jac, func(y, x []float64) {
		f.pathLL(symFromVech(x[:n1], k), x[n1:], y)
	}, x0, &fd.JacobianSettings{Formula: fd.Central, Concurrent: true})

	scores := mat.NewDense(t, n, nil)
	for i := 0; i < t; i++ {
		dev := vech(deviation(f.sigma[i], f.C))
		for j := 0; j < n1; j++ {
			scores.Set(i, j, dev[j])
		}
		for j := n1; j < n; j++ {
			scores.Set(i, j, jac.At(i, j))
		}
	}

	b, err := hac.NeweyWest(scores, hac.Bandwidth(t))
	if err != nil {
		return nil, nil, err
	}

	// Jacobian of the stacked moment conditions: −I on the stage-1 block,
	// the dynamics rows of the joint Hessian below.
	hess := mat.NewSymDense(n, nil)
	fd.Hessian(hess, f.meanLLVech(n1), x0, &fd.Settings{Formula: fd.Central, Concurrent: true})

	a := mat.NewDense(n, n, nil)
	for i := 0; i < n1; i++ {
		a.Set(i, i, -1)
	}
	for i := n1; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, hess.At(i, j))
		}
	}

	vcv, err := sandwich(a, b, t)
	if err != nil {
		return nil, nil, err
	}

	return vcv, scores, nil
}

func (f *Fit) inferJoint() (*mat.SymDense, *mat.Dense, error) {
	k, t := f.K, f.T
	n1 := k * (k + 1) / 2
	n := len(f.Params)

	x0 := append([]float64(nil), f.Params...)

	scores := mat.NewDense(t, n, nil)
	fd.Jacobian(scores, func(y, x []float64) {
		f.pathLL(symFromCholVec(x[:n1], k), x[n1:], y)
	}, x0, &fd.JacobianSettings{Formula: fd.Central, Concurrent: true})

	b, err := hac.NeweyWest(scores, hac.Bandwidth(t))
	if err != nil {
		return nil, nil, err
	}

	hess := mat.NewSymDense(n, nil)
	fd.Hessian(hess, f.meanLLChol(n1), x0, &fd.Settings{Formula: fd.Central, Concurrent: true})

	a := mat.NewDense(n, n, nil)
	a.Copy(hess)

	vcv, err := sandwich(a, b, t)
	if err != nil {
		return nil, nil, err
	}

	return vcv, scores, nil
}

// pathLL fills y with per-observation log-likelihood contributions on the
// original data scale, for an explicit unconditional covariance cSym and
// dynamics theta. On numerical failure y is filled with NaN; perturbations
// around a feasible interior optimum never hit that branch.
func (f *Fit) pathLL(cSym *mat.SymDense, theta []float64, y []float64) {
	ok := func() bool {
		_, invHalf, err := symPow(cSym)
		if err != nil {
			return false
		}
		g := rotateAll(f.sigma, invHalf)
		seed := f.seed
		if !f.seedFixed {
			seed = backcastOf(g)
		}
		c, okc := unpack(f.Variant, f.P, f.Q, f.K, theta)
		if !okc {
			return false
		}
		lls, _, okf := filter(c, g, seed)
		if !okf {
			return false
		}
		logDetC, err := logDetSym(cSym)
		if err != nil {
			return false
		}
		for i := range lls {
			y[i] = lls[i] - 0.5*logDetC
		}

		return true
	}()
	if !ok {
		for i := range y {
			y[i] = math.NaN()
		}
	}
}

// meanLLVech is the mean joint log-likelihood as a function of
// (vech C, dynamics), used for the two-stage Hessian block.
func (f *Fit) meanLLVech(n1 int) func(x []float64) float64 {
	return func(x []float64) float64 {
		y := make([]float64, f.T)
		f.pathLL(symFromVech(x[:n1], f.K), x[n1:], y)

		return floats.Sum(y) / float64(f.T)
	}
}

// meanLLChol is the mean joint log-likelihood in the joint estimation
// parameterization (chol-vec C, dynamics).
func (f *Fit) meanLLChol(n1 int) func(x []float64) float64 {
	return func(x []float64) float64 {
		y := make([]float64, f.T)
		f.pathLL(symFromCholVec(x[:n1], f.K), x[n1:], y)

		return floats.Sum(y) / float64(f.T)
	}
}

// sandwich computes A⁻¹·B·A⁻ᵀ / T.
func sandwich(a *mat.Dense, b *mat.SymDense, t int) (*mat.SymDense, error) {
	var ainv mat.Dense
	if err := ainv.Inverse(a); err != nil {
		return nil, ErrSingular
	}
	var tmp, vc mat.Dense
	tmp.Mul(&ainv, b)
	vc.Mul(&tmp, ainv.T())
	vc.Scale(1/float64(t), &vc)

	return symmetrize(&vc), nil
}

// deviation returns s − c as a symmetric matrix (the stage-1 moment).
func deviation(s, c *mat.SymDense) *mat.SymDense {
	k := s.SymmetricDim()
	d := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			d.SetSym(i, j, s.At(i, j)-c.At(i, j))
		}
	}

	return d
}
