package multiexp

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// The signed digits must recombine to the scalar: sum digit_i * 2^{w*i}.
func TestBoothDigitsRecombine(t *testing.T) {
	minusOne := fr.One()
	minusOne.Neg(&minusOne)

	scalars := []fr.Element{fr.NewElement(0), fr.NewElement(1), fr.NewElement(0xFFFF), minusOne}
	for i := 0; i < 8; i++ {
		var s fr.Element
		_, _ = s.SetRandom()
		scalars = append(scalars, s)
	}

	for _, windowSize := range []int{2, 3, 4, 5, 8, 11, 16} {
		encoded := scalarsToBytes(scalars)
		numWindows := fr.Bits/windowSize + 1

		for k, scalarBytes := range encoded {
			var acc big.Int
			for w := numWindows - 1; w >= 0; w-- {
				acc.Lsh(&acc, uint(windowSize))
				digit := getBoothIndex(w, windowSize, scalarBytes)

				limit := int32(1) << (windowSize - 1)
				if digit > limit || digit < -limit {
					t.Fatalf("digit %d out of range for window size %d", digit, windowSize)
				}
				acc.Add(&acc, big.NewInt(int64(digit)))
			}

			var expected big.Int
			scalars[k].BigInt(&expected)
			if acc.Cmp(&expected) != 0 {
				t.Fatalf("booth digits do not recombine for scalar %d with window size %d", k, windowSize)
			}
		}
	}
}

func TestScalarsToBytesIsLittleEndian(t *testing.T) {
	encoded := scalarsToBytes([]fr.Element{fr.NewElement(0x0102)})
	if encoded[0][0] != 0x02 || encoded[0][1] != 0x01 {
		t.Fatalf("expected little-endian bytes, got %x", encoded[0][:4])
	}
}
