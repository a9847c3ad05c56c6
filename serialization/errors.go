package serialization

import "errors"

var (
	ErrNonCanonicalScalar = errors.New("scalar is not canonical when interpreted as a big integer in little-endian")
	ErrInvalidLength      = errors.New("byte length is not a multiple of the serialized size")
	ErrInvalidSRS         = errors.New("srs file is not a valid structured reference string")
)
