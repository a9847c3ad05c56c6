package multiexp

import "errors"

var (
	ErrTooManyGoRoutines = errors.New("number of go routines must be less than 1024")
	ErrMismatchedLengths = errors.New("number of scalars does not match the number of points")
	ErrTooManyScalars    = errors.New("more scalars than precomputed points")
	ErrInvalidWindowSize = errors.New("precomputation window size must be between 2 and 16 bits")
)
