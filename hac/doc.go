// Package hac estimates heteroskedasticity-and-autocorrelation-consistent
// (HAC) long-run covariance matrices of score or moment sequences, using
// the Newey–West (Bartlett kernel) weighting.
//
// Given a T×N matrix of per-observation scores s_t, NeweyWest returns
//
//	Ω = Γ₀ + Σ_{l=1..L} w_l·(Γ_l + Γ_lᵀ),   w_l = 1 − l/(L+1),
//
// where Γ_l = (1/T)·Σ_{t>l} s_t·s_{t−l}ᵀ. The Bartlett weights make Ω
// positive semi-definite for any lag truncation L.
//
// Bandwidth implements the rule used for quasi-maximum-likelihood
// inference on covariance dynamics: L = ⌊1.2·⌈T^(1/4)⌉⌋.
//
// ⚙️ Usage:
//
//	lags := hac.Bandwidth(T)
//	omega, err := hac.NeweyWest(scores, lags)
package hac
