package rarch_test

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rarch"
)

// simulated builds a deterministic scalar-RARCH sample used by the
// estimation tests: K=2, a²=0.10, b²=0.85, mildly correlated long-run
// covariance.
func simulated(t *testing.T, tn int) *mat.Dense {
	t.Helper()
	c := mat.NewSymDense(2, []float64{1, 0.3, 0.3, 1})
	params := []float64{math.Sqrt(0.10), math.Sqrt(0.85)}
	data, _, err := rarch.Simulate(tn, params, rarch.Scalar, 1, 1, c, rand.NewSource(42))
	require.NoError(t, err)

	return data
}

// TestEstimate_TwoStageScalar runs the default pipeline end to end on
// simulated data and checks the invariants that must hold at any usable
// optimum.
func TestEstimate_TwoStageScalar(t *testing.T) {
	const tn = 1000
	data := simulated(t, tn)

	res, err := rarch.Estimate(data, 1, 1, rarch.DefaultOptions())
	require.NoError(t, err)

	require.Len(t, res.Params, 2)
	require.Len(t, res.H, tn)
	requirePDPath(t, res.H, 2)
	require.NotNil(t, res.C)

	assert.False(t, math.IsNaN(res.LogLik))
	assert.False(t, math.IsInf(res.LogLik, 0))

	// Stationarity must hold strictly at the optimum.
	con := rarch.StationarityConstraint(rarch.Scalar, 1, 1, 2, res.Params)
	assert.Negative(t, con, "optimum must be strictly stationary")

	// The data carry strong persistence; the fit should find a
	// non-degenerate amount of it.
	persistence := res.Params[0]*res.Params[0] + res.Params[1]*res.Params[1]
	assert.Greater(t, persistence, 0.3)
	assert.Less(t, persistence, 1.0)
}

// TestEstimate_JointNotWorse: joint estimation starts from the two-stage
// optimum with C reconstructed exactly, so its maximized log-likelihood can
// only improve.
func TestEstimate_JointNotWorse(t *testing.T) {
	data := simulated(t, 400)
	sigma, err := rarch.CovarianceSequence(data)
	require.NoError(t, err)

	two, err := rarch.Optimize(sigma, 1, 1, rarch.DefaultOptions())
	require.NoError(t, err)

	optsJ := rarch.DefaultOptions()
	optsJ.Method = rarch.Joint
	joint, err := rarch.Optimize(sigma, 1, 1, optsJ)
	require.NoError(t, err)

	require.Len(t, joint.Params, 3+2, "chol-vec block + dynamics")
	assert.GreaterOrEqual(t, joint.LogLik, two.LogLik-1e-6,
		"joint optimum cannot be worse than its two-stage start")

	// The re-estimate of C stays near the sample mean on well-specified
	// data, so the two optima agree up to a small likelihood gain.
	assert.InDelta(t, two.LogLik, joint.LogLik, 2.5,
		"two-stage and joint optima must nearly coincide")

	requirePDPath(t, joint.H, 2)
}

// TestEstimate_Variants exercises CP and Diagonal end to end (optimization
// phase only, to keep runtime modest).
func TestEstimate_Variants(t *testing.T) {
	data := simulated(t, 500)
	sigma, err := rarch.CovarianceSequence(data)
	require.NoError(t, err)

	for _, v := range []rarch.Variant{rarch.CP, rarch.Diagonal} {
		opts := rarch.DefaultOptions()
		opts.Variant = v
		fit, err := rarch.Optimize(sigma, 1, 1, opts)
		require.NoError(t, err, "%v", v)
		require.Len(t, fit.Params, rarch.DynamicsCount(v, 1, 1, 2), "%v", v)
		requirePDPath(t, fit.H, 2)
		assert.Negative(t, rarch.StationarityConstraint(v, 1, 1, 2, fit.Params), "%v", v)
	}
}

// TestEstimate_Validation covers the fail-fast argument taxonomy.
func TestEstimate_Validation(t *testing.T) {
	data := simulated(t, 100)
	sigma, err := rarch.CovarianceSequence(data)
	require.NoError(t, err)

	opts := rarch.DefaultOptions()

	badOrder := opts
	_, err = rarch.EstimateCov(sigma, 0, 1, badOrder)
	assert.ErrorIs(t, err, rarch.ErrInvalidOrder, "P=0")

	_, err = rarch.EstimateCov(sigma, 1, -1, opts)
	assert.ErrorIs(t, err, rarch.ErrInvalidOrder, "Q=-1")

	cpOpts := opts
	cpOpts.Variant = rarch.CP
	_, err = rarch.EstimateCov(sigma, 1, 2, cpOpts)
	assert.ErrorIs(t, err, rarch.ErrInvalidOrder, "CP requires Q=1")

	vOpts := opts
	vOpts.Variant = rarch.Variant(9)
	_, err = rarch.EstimateCov(sigma, 1, 1, vOpts)
	assert.ErrorIs(t, err, rarch.ErrUnknownVariant)

	mOpts := opts
	mOpts.Method = rarch.Method(9)
	_, err = rarch.EstimateCov(sigma, 1, 1, mOpts)
	assert.ErrorIs(t, err, rarch.ErrUnknownMethod)

	short := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	_, err = rarch.Estimate(short, 1, 1, opts)
	assert.ErrorIs(t, err, rarch.ErrInsufficientData, "T=K")

	badStart := opts
	badStart.StartParams = []float64{0.1}
	_, err = rarch.EstimateCov(sigma, 1, 1, badStart)
	assert.ErrorIs(t, err, rarch.ErrBadStart)
}

// TestEstimate_RotationEquivariance: rotating the data by an orthogonal Q
// and rotating the fitted path back must reproduce the original path. The
// check runs the likelihood engine at fixed parameters so it isolates the
// standardizer, not the optimizer.
func TestEstimate_RotationEquivariance(t *testing.T) {
	const tn, k = 120, 2
	data := randomReturns(tn, k, 9, 10)

	theta := math.Pi / 7
	rot := mat.NewDense(2, 2, []float64{
		math.Cos(theta), -math.Sin(theta),
		math.Sin(theta), math.Cos(theta),
	})
	var rotated mat.Dense
	rotated.Mul(data, rot.T())

	params := rarch.StartingParams(rarch.Scalar, 1, 1, k)
	orig := pathOnOriginalScale(t, data, params)
	rotd := pathOnOriginalScale(t, &rotated, params)

	// Qᵀ·H'_t·Q must equal H_t.
	var tmp, back mat.Dense
	for i := range orig {
		tmp.Mul(rot.T(), rotd[i])
		back.Mul(&tmp, rot)
		for r := 0; r < k; r++ {
			for c := 0; c < k; c++ {
				assert.InDelta(t, orig[i].At(r, c), back.At(r, c), 1e-8,
					"H[%d][%d,%d]", i, r, c)
			}
		}
	}
}

// pathOnOriginalScale evaluates the likelihood engine at fixed parameters
// and rotates the standardized path back by C^(1/2).
func pathOnOriginalScale(t *testing.T, data *mat.Dense, params []float64) []*mat.SymDense {
	t.Helper()
	sigma, err := rarch.CovarianceSequence(data)
	require.NoError(t, err)
	std, err := rarch.Standardize(sigma)
	require.NoError(t, err)
	_, _, h, err := rarch.LikelihoodPath(params, std, rarch.Scalar, 1, 1, nil)
	require.NoError(t, err)

	out := make([]*mat.SymDense, len(h))
	var tmp, full mat.Dense
	for i, ht := range h {
		tmp.Mul(std.CHalf, ht)
		full.Mul(&tmp, std.CHalf)
		s := mat.NewSymDense(std.K, nil)
		for r := 0; r < std.K; r++ {
			for c := r; c < std.K; c++ {
				s.SetSym(r, c, 0.5*(full.At(r, c)+full.At(c, r)))
			}
		}
		out[i] = s
	}

	return out
}

// TestOptimize_UserStart verifies that a caller-supplied feasible start is
// accepted and produces a usable fit.
func TestOptimize_UserStart(t *testing.T) {
	data := simulated(t, 300)
	sigma, err := rarch.CovarianceSequence(data)
	require.NoError(t, err)

	opts := rarch.DefaultOptions()
	opts.StartParams = []float64{0.25, 0.9}
	fit, err := rarch.Optimize(sigma, 1, 1, opts)
	require.NoError(t, err)
	require.Len(t, fit.Params, 2)
	assert.Negative(t, rarch.StationarityConstraint(rarch.Scalar, 1, 1, 2, fit.Params))
}
