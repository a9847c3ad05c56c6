package multiexp

import (
	"encoding/binary"
	"slices"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// getBoothIndex returns the signed Booth digit of window `windowIndex`
// for the little-endian scalar `el`.
//
// A window of w bits is read together with the top bit of the previous
// window, which maps the digit range [0, 2^w) onto [-2^{w-1}, 2^{w-1}].
// Only half of the multiples then need to be stored in the table.
func getBoothIndex(windowIndex, windowSize int, el []byte) int32 {
	skipBits := 0
	if windowIndex*windowSize > 1 {
		skipBits = windowIndex*windowSize - 1
	}
	skipBytes := skipBits / 8

	var v [4]byte
	for i := 0; i < 4 && skipBytes+i < len(el); i++ {
		v[i] = el[skipBytes+i]
	}
	tmp := binary.LittleEndian.Uint32(v[:])

	// The lowest window has no previous bit, so pad with a zero
	if windowIndex == 0 {
		tmp <<= 1
	}

	tmp >>= skipBits - (skipBytes * 8)
	tmp &= (1 << (windowSize + 1)) - 1

	isPositive := tmp&(1<<windowSize) == 0

	// ceil(tmp / 2)
	tmp = (tmp + 1) >> 1

	if isPositive {
		return int32(tmp)
	}

	mask := (uint32(1) << windowSize) - 1
	return -int32((^(tmp - 1)) & mask)
}

// scalarsToBytes returns the canonical little-endian bytes of each scalar.
func scalarsToBytes(scalars []fr.Element) [][]byte {
	encoded := make([][]byte, len(scalars))
	for i := 0; i < len(scalars); i++ {
		b := scalars[i].Bytes()
		slices.Reverse(b[:])
		encoded[i] = b[:]
	}
	return encoded
}
