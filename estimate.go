// SPDX-License-Identifier: MIT
// Package rarch: the optimizer driver. Validates arguments (fail fast),
// standardizes the data, and feeds the negated likelihood into a
// Nelder–Mead search — once for two-stage estimation, twice for joint
// estimation (the second pass adds the Cholesky block of C).

package rarch

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Fit is the output of the optimization phase. Inference is a separate,
// independently callable step: Fit.Infer.
//
// Params and LogLik follow the Result conventions: joint mode prepends the
// chol-vec of C, and LogLik is always on the original data scale.
type Fit struct {
	Variant   Variant
	Method    Method
	P, Q      int
	K, T      int
	Params    []float64
	LogLik    float64
	H         []*mat.SymDense
	C         *mat.SymDense
	Converged bool

	sigma     []*mat.SymDense // raw covariance sequence, kept for inference
	theta     []float64       // dynamics block of Params
	seed      *mat.SymDense   // back-cast seed in standardized space
	seedFixed bool            // user-supplied seed: never recomputed
}

// Estimate runs the full pipeline on T×K residual rows: normalize,
// standardize, optimize, infer. See EstimateCov for pre-formed covariances.
func Estimate(data *mat.Dense, p, q int, opts Options) (*Result, error) {
	sigma, err := CovarianceSequence(data)
	if err != nil {
		return nil, err
	}

	return EstimateCov(sigma, p, q, opts)
}

// EstimateCov runs the full pipeline on a sequence of K×K covariance
// slices (e.g. realized covariance matrices).
func EstimateCov(sigma []*mat.SymDense, p, q int, opts Options) (*Result, error) {
	fit, err := Optimize(sigma, p, q, opts)
	if err != nil {
		return nil, err
	}
	vcv, scores, err := fit.Infer()
	if err != nil {
		return nil, err
	}

	return &Result{
		Params:    fit.Params,
		LogLik:    fit.LogLik,
		H:         fit.H,
		VCV:       vcv,
		Scores:    scores,
		C:         fit.C,
		Converged: fit.Converged,
	}, nil
}

// Optimize performs the estimation phase only and returns a Fit holding the
// maximum-likelihood parameters, the conditional-covariance path on the
// original scale, and the convergence flag. Optimizer non-convergence is
// reported through Fit.Converged, not as an error.
func Optimize(sigma []*mat.SymDense, p, q int, opts Options) (*Fit, error) {
	if err := checkSpec(opts.Variant, opts.Method, p, q); err != nil {
		return nil, err
	}
	std, err := Standardize(sigma)
	if err != nil {
		return nil, err
	}
	v := opts.Variant
	k, t := std.K, std.T
	nDyn := DynamicsCount(v, p, q, k)
	nChol := k * (k + 1) / 2

	seed := opts.Backcast
	seedFixed := seed != nil
	if seed == nil {
		seed = std.Backcast()
	}

	// Starting values: generated, or user-supplied for the dynamics block
	// (joint mode also accepts the full stacked vector).
	theta0 := StartingParams(v, p, q, k)
	var joint0 []float64
	if opts.StartParams != nil {
		switch {
		case len(opts.StartParams) == nDyn:
			theta0 = append([]float64(nil), opts.StartParams...)
		case opts.Method == Joint && len(opts.StartParams) == nChol+nDyn:
			joint0 = append([]float64(nil), opts.StartParams...)
			theta0 = append([]float64(nil), opts.StartParams[nChol:]...)
		default:
			return nil, ErrBadStart
		}
	}

	// Stage one (and the whole estimation in two-stage mode): dynamics only,
	// C held at the sample average.
	lo, hi := Bounds(v, p, q, k, false)
	obj := func(x []float64) float64 {
		return negLogLik(x, v, p, q, k, std.Slices, seed, lo, hi)
	}
	res, optErr := optimize.Minimize(optimize.Problem{Func: obj}, theta0, opts.OptSettings, &optimize.NelderMead{})
	if res == nil || res.X == nil {
		return nil, ErrOptimizerFailed
	}
	theta := append([]float64(nil), res.X...)
	conv := optErr == nil && goodStatus(res.Status)

	fit := &Fit{
		Variant:   v,
		Method:    opts.Method,
		P:         p,
		Q:         q,
		K:         k,
		T:         t,
		Converged: conv,
		sigma:     sigma,
		seed:      seed,
		seedFixed: seedFixed,
	}

	if opts.Method == TwoStage {
		ll, _, hstd, err := LikelihoodPath(theta, std, v, p, q, seed)
		if err != nil {
			return nil, err
		}
		logDetC, err := logDetSym(std.C)
		if err != nil {
			return nil, err
		}
		fit.Params = theta
		fit.theta = theta
		fit.LogLik = ll - 0.5*float64(t)*logDetC
		fit.H = rotateAll(hstd, std.CHalf)
		fit.C = std.C

		return fit, nil
	}

	// Joint mode: concatenate chol-vec(C) in front of the two-stage optimum
	// and re-run over both blocks.
	if joint0 == nil {
		cv, err := cholVec(std.C)
		if err != nil {
			return nil, err
		}
		joint0 = append(cv, theta...)
	}
	loJ, hiJ := Bounds(v, p, q, k, true)
	jobj := func(x []float64) float64 {
		return jointNegLogLik(x, v, p, q, k, nChol, sigma, seed, seedFixed, loJ, hiJ)
	}
	resJ, optErrJ := optimize.Minimize(optimize.Problem{Func: jobj}, joint0, opts.OptSettings, &optimize.NelderMead{})
	if resJ == nil || resJ.X == nil {
		return nil, ErrOptimizerFailed
	}
	vhat := append([]float64(nil), resJ.X...)
	fit.Converged = conv && optErrJ == nil && goodStatus(resJ.Status)

	cHat := symFromCholVec(vhat[:nChol], k)
	half, invHalf, err := symPow(cHat)
	if err != nil {
		return nil, err
	}
	g := rotateAll(sigma, invHalf)
	seedJ := seed
	if !seedFixed {
		seedJ = backcastOf(g)
	}
	thetaJ := vhat[nChol:]
	c, ok := unpack(v, p, q, k, thetaJ)
	if !ok {
		return nil, ErrNotPositiveDefinite
	}
	lls, hstd, ok := filter(c, g, seedJ)
	if !ok {
		return nil, ErrNotPositiveDefinite
	}
	logDetC, err := logDetSym(cHat)
	if err != nil {
		return nil, err
	}

	fit.Params = vhat
	fit.theta = append([]float64(nil), thetaJ...)
	fit.LogLik = floats.Sum(lls) - 0.5*float64(t)*logDetC
	fit.H = rotateAll(hstd, half)
	fit.C = cHat
	fit.seed = seedJ

	return fit, nil
}

// jointNegLogLik is the joint-mode objective in (chol-vec C, dynamics): the
// data are re-standardized by each candidate C and the log-determinant of C
// restores the likelihood to the original scale.
func jointNegLogLik(x []float64, v Variant, p, q, k, nChol int, sigma []*mat.SymDense, seed *mat.SymDense, seedFixed bool, lo, hi []float64) float64 {
	if excess := boundsExcess(x, lo, hi); excess > 0 {
		return penaltyBase * (1 + excess)
	}
	theta := x[nChol:]
	if con := StationarityConstraint(v, p, q, k, theta); con >= 0 {
		return penaltyBase * (1 + con)
	}
	cSym := symFromCholVec(x[:nChol], k)
	_, invHalf, err := symPow(cSym)
	if err != nil {
		return penaltyBase
	}
	g := rotateAll(sigma, invHalf)
	if !seedFixed {
		seed = backcastOf(g)
	}
	c, ok := unpack(v, p, q, k, theta)
	if !ok {
		return penaltyBase
	}
	lls, _, ok := filter(c, g, seed)
	if !ok {
		return penaltyBase
	}
	logDetC, err := logDetSym(cSym)
	if err != nil {
		return penaltyBase
	}

	return -floats.Sum(lls) + 0.5*float64(len(sigma))*logDetC
}

// checkSpec validates the model specification before any computation.
func checkSpec(v Variant, m Method, p, q int) error {
	switch v {
	case Scalar, CP, Diagonal:
	default:
		return ErrUnknownVariant
	}
	switch m {
	case TwoStage, Joint:
	default:
		return ErrUnknownMethod
	}
	if p < 1 || q < 0 {
		return ErrInvalidOrder
	}
	if v == CP && q != 1 {
		return ErrInvalidOrder
	}

	return nil
}

// goodStatus reports whether the optimizer terminated on a convergence
// criterion rather than an iteration/evaluation limit.
func goodStatus(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.FunctionThreshold, optimize.FunctionConvergence,
		optimize.GradientThreshold, optimize.StepConvergence, optimize.MethodConverge:
		return true
	default:
		return false
	}
}
