// SPDX-License-Identifier: MIT
// Package rarch: sentinel error set.
// All exported entry points return these sentinels and tests check them via
// errors.Is. Argument-validation errors are fatal and raised before any
// computation begins; numerical trouble inside the optimizer loop is absorbed
// as penalty values and never surfaces through these sentinels.

package rarch

import "errors"

var (
	// ErrInvalidShape indicates malformed input data: a nil matrix, a nil
	// covariance slice, zero columns, or covariance slices of mixed dimension.
	ErrInvalidShape = errors.New("rarch: invalid data shape")

	// ErrInsufficientData indicates T ≤ K, for which the sample covariance
	// cannot be positive definite.
	ErrInsufficientData = errors.New("rarch: need more observations than assets")

	// ErrInvalidOrder indicates P < 1, Q < 0, or Q ≠ 1 for the CP variant
	// (CP has a single shared persistence parameter by construction).
	ErrInvalidOrder = errors.New("rarch: invalid model order")

	// ErrUnknownVariant indicates a Variant value outside Scalar/CP/Diagonal.
	ErrUnknownVariant = errors.New("rarch: unknown model variant")

	// ErrUnknownMethod indicates a Method value outside TwoStage/Joint.
	ErrUnknownMethod = errors.New("rarch: unknown estimation method")

	// ErrBadStart indicates a user-supplied starting vector whose length does
	// not match the parameter count of the chosen variant and order.
	ErrBadStart = errors.New("rarch: starting vector has wrong length")

	// ErrNotPositiveDefinite indicates a covariance matrix that is not
	// positive definite where positive definiteness is required (the sample
	// covariance, a user-supplied C, or a forecast requested at infeasible
	// parameters).
	ErrNotPositiveDefinite = errors.New("rarch: matrix is not positive definite")

	// ErrEigenFailed indicates the symmetric eigendecomposition used for the
	// matrix square root did not converge.
	ErrEigenFailed = errors.New("rarch: eigendecomposition failed")

	// ErrSingular indicates a singular Jacobian/Hessian block in the sandwich
	// covariance computation.
	ErrSingular = errors.New("rarch: singular matrix in inference")

	// ErrOptimizerFailed indicates the optimizer returned no usable iterate
	// at all. Mere non-convergence is NOT an error: it is reported through
	// the Converged flag alongside the best parameters found.
	ErrOptimizerFailed = errors.New("rarch: optimizer produced no result")
)
