package erasure_code

import (
	"errors"
	"fmt"

	"github.com/crate-crypto/go-kzg-grid/internal/kzg"
)

var (
	ErrInsufficientSamples = errors.New("not enough samples to reconstruct the row")
	ErrDuplicateSample     = errors.New("sample index appears more than once")
	ErrOutOfRange          = errors.New("sample index is outside of the extended row")

	ErrInvalidNumCols    = fmt.Errorf("%w: number of columns must be a power of two", kzg.ErrConfig)
	ErrInvalidFactor     = fmt.Errorf("%w: extension factor does not fit in the evaluation domain", kzg.ErrConfig)
	ErrUnknownDecode     = fmt.Errorf("%w: unknown decode method", kzg.ErrConfig)
	ErrMismatchedLength  = errors.New("row length does not match the number of columns")
	ErrMismatchedSamples = errors.New("number of sample indices and values differ")
	errInvalidDataLength = errors.New("length of data and domain should be equal")
)
