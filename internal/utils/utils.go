package utils

import (
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// ComputePowers computes x^0 to x^{n-1}.
// If n==0: an empty slice is returned
func ComputePowers(x fr.Element, n uint) []fr.Element {
	if n == 0 {
		return []fr.Element{}
	}
	powers := make([]fr.Element, n)
	powers[0].SetOne()
	for i := uint(1); i < n; i++ {
		powers[i].Mul(&powers[i-1], &x)
	}

	return powers
}

// IsPowerOfTwo returns true if `value` is a power of two.
// `0` will return false
func IsPowerOfTwo(value uint64) bool {
	return value > 0 && (value&(value-1) == 0)
}

// NextPowerOfTwo returns the smallest power of two that is >= value.
// `0` is mapped to `1`.
func NextPowerOfTwo(value uint64) uint64 {
	if value <= 1 {
		return 1
	}
	return uint64(1) << (64 - bits.LeadingZeros64(value-1))
}

// PrevPowerOfTwo returns the largest power of two that is <= value.
// value must be non-zero.
func PrevPowerOfTwo(value uint64) uint64 {
	return uint64(1) << (63 - bits.LeadingZeros64(value))
}

// Reverse reverses the list in-place
func Reverse[K interface{}](list []K) {
	last := len(list) - 1
	for i := 0; i < len(list)/2; i++ {
		list[i], list[last-i] = list[last-i], list[i]
	}
}

// ReduceCanonical tries to convert a big-endian byte slice to a field element.
// Returns an error if the byte slice was not a canonical representation
// of the field element, ie the integer does not lie in [0, r-1].
func ReduceCanonical(serScalar []byte) (fr.Element, error) {
	var scalar fr.Element
	err := scalar.SetBytesCanonical(serScalar)
	return scalar, err
}

// ScalarFromUniformBytes reduces an arbitrary length big-endian byte string
// modulo the scalar field. Callers should supply at least 48 bytes
// so that the bias of the reduction is negligible.
func ScalarFromUniformBytes(b []byte) fr.Element {
	var scalar fr.Element
	scalar.SetBytes(b)
	return scalar
}
