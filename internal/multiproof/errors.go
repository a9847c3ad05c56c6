package multiproof

import (
	"errors"
	"fmt"

	"github.com/crate-crypto/go-kzg-grid/internal/kzg"
)

var (
	ErrEmptyBatch        = errors.New("no polynomials to open")
	ErrEmptyPointSet     = errors.New("polynomial has no opening points")
	ErrDuplicatePoint    = errors.New("opening point appears twice in the same set")
	ErrMismatchedLengths = errors.New("number of commitments, openings and values do not match")
	ErrPointSetMismatch  = errors.New("shared set proofs open every polynomial at the same points")
	ErrWrongScheme       = errors.New("proof was created with a different multi-proof scheme")

	ErrChallengeMismatch = fmt.Errorf("%w: fiat-shamir challenges of the proof do not match the transcript", kzg.ErrInternalInvariantViolation)
	ErrUnknownScheme     = fmt.Errorf("%w: unknown multi-proof scheme", kzg.ErrConfig)
	ErrTooManyPoints     = fmt.Errorf("%w: point set is larger than the opening key supports", kzg.ErrDegreeExceeded)
)
