package kzg

import (
	"errors"
	"fmt"
)

var (
	ErrConfig                     = errors.New("invalid setup parameters")
	ErrDegreeExceeded             = errors.New("polynomial degree exceeds the srs")
	ErrInternalInvariantViolation = errors.New("internal invariant violation")

	ErrNonZeroRemainder   = fmt.Errorf("%w: quotient division left a non-zero remainder", ErrInternalInvariantViolation)
	ErrUnknownStrategy    = fmt.Errorf("%w: unknown commitment strategy", ErrConfig)
	ErrInvalidNumDigests  = errors.New("number of commitments is not the same as the number of proofs")
	ErrPointNotInSubgroup = errors.New("point is not in the prime order subgroup")
)
