package hac_test

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rarch/hac"
)

// TestBandwidth checks the ⌊1.2·⌈T^(1/4)⌉⌋ rule on hand-computed values.
func TestBandwidth(t *testing.T) {
	cases := []struct {
		t, want int
	}{
		{0, 0},
		{1, 0},  // capped at T-1
		{16, 2}, // 1.2·2 = 2.4
		{100, 4}, // 1.2·⌈3.16⌉ = 4.8
		{1000, 7}, // 1.2·⌈5.62⌉ = 7.2
	}
	for _, c := range cases {
		assert.Equal(t, c.want, hac.Bandwidth(c.t), "Bandwidth(%d)", c.t)
	}
}

// TestNeweyWest_Errors verifies the sentinel errors for malformed input.
func TestNeweyWest_Errors(t *testing.T) {
	_, err := hac.NeweyWest(nil, 0)
	assert.ErrorIs(t, err, hac.ErrNoData, "nil scores")

	s := mat.NewDense(4, 1, []float64{1, -1, 1, -1})
	_, err = hac.NeweyWest(s, -1)
	assert.ErrorIs(t, err, hac.ErrBadLags, "negative lags")

	_, err = hac.NeweyWest(s, 4)
	assert.ErrorIs(t, err, hac.ErrBadLags, "lags >= T")
}

// TestNeweyWest_ZeroLags checks that L=0 reduces to the plain outer-product
// average (1/T)·Σ s_t·s_tᵀ.
func TestNeweyWest_ZeroLags(t *testing.T) {
	s := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 2,
		1, 1,
	})
	omega, err := hac.NeweyWest(s, 0)
	require.NoError(t, err)

	// (1/3)·ΣssT = (1/3)·[[2,1],[1,5]]
	assert.InDelta(t, 2.0/3, omega.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0/3, omega.At(0, 1), 1e-12)
	assert.InDelta(t, 5.0/3, omega.At(1, 1), 1e-12)
}

// TestNeweyWest_Alternating checks a hand-computed one-lag case: a strictly
// alternating score has Γ₀=1, Γ₁=−3/4, Bartlett weight 1/2, so Ω=1/4.
func TestNeweyWest_Alternating(t *testing.T) {
	s := mat.NewDense(4, 1, []float64{1, -1, 1, -1})
	omega, err := hac.NeweyWest(s, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, omega.At(0, 0), 1e-12)
}

// TestNeweyWest_PSD verifies positive semi-definiteness of the Bartlett
// estimate on random scores for several lag choices.
func TestNeweyWest_PSD(t *testing.T) {
	rng := rand.New(rand.NewSource(7<<32 ^ 11))
	tn, n := 200, 3
	s := mat.NewDense(tn, n, nil)
	for i := 0; i < tn; i++ {
		for j := 0; j < n; j++ {
			s.Set(i, j, rng.NormFloat64())
		}
	}

	for _, lags := range []int{0, 1, hac.Bandwidth(tn), 20} {
		omega, err := hac.NeweyWest(s, lags)
		require.NoError(t, err, "lags=%d", lags)

		var es mat.EigenSym
		require.True(t, es.Factorize(omega, false), "eigen lags=%d", lags)
		for _, l := range es.Values(nil) {
			assert.GreaterOrEqual(t, l, -1e-10, "eigenvalue at lags=%d", lags)
		}
	}
}
