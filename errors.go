package kzggrid

import (
	"errors"

	"github.com/crate-crypto/go-kzg-grid/internal/erasure_code"
	"github.com/crate-crypto/go-kzg-grid/internal/kzg"
	"github.com/crate-crypto/go-kzg-grid/internal/multiproof"
)

// Errors from the internal packages that callers may want to match with
// errors.Is.
var (
	// ErrConfig is returned for invalid setup, strategy, scheme or codec
	// parameters.
	ErrConfig = kzg.ErrConfig
	// ErrDegreeExceeded is returned when a polynomial or point set does not
	// fit in the SRS.
	ErrDegreeExceeded = kzg.ErrDegreeExceeded
	// ErrInternalInvariantViolation is returned when an exact division
	// leaves a remainder or a transcript diverges. Seeing it from a prover
	// means the inputs were inconsistent.
	ErrInternalInvariantViolation = kzg.ErrInternalInvariantViolation
	// ErrChallengeMismatch wraps ErrInternalInvariantViolation.
	ErrChallengeMismatch = multiproof.ErrChallengeMismatch

	ErrInsufficientSamples = erasure_code.ErrInsufficientSamples
	ErrDuplicateSample     = erasure_code.ErrDuplicateSample
	ErrOutOfRange          = erasure_code.ErrOutOfRange
)

var (
	ErrEmptyGrid       = errors.New("grid has no rows")
	ErrRaggedGrid      = errors.New("rows of the grid do not have the same length")
	ErrRaggedColumns   = errors.New("columns do not have the same number of cells")
	ErrColumnMismatch  = errors.New("proof was not created for the column being verified")
	ErrInvalidGridSize = errors.New("byte length is not a multiple of the row size")
)
