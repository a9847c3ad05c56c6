package multiexp

import (
	"math/big"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// MultiExpG1 computes a multi exponentiation -- That is, an inner product between points and scalars.
//
// More precisely, the result is set to scalars[0]*points[0] + ... + scalars[n-1]*points[n-1], where n is the length of both slices
// If the slices differ in length, this function returns an error.
//
// numGoRoutines is used to configure the amount of concurrency needed. Setting this
// value to a negative number or 0 will make it default to the number of CPUs.
//
// Returns an error if the numGoRoutines exceeds 1024.
func MultiExpG1(scalars []fr.Element, points []bls12381.G1Affine, numGoRoutines int) (*bls12381.G1Affine, error) {
	err := isValidNumGoRoutines(numGoRoutines)
	if err != nil {
		return nil, err
	}
	if len(scalars) != len(points) {
		return nil, ErrMismatchedLengths
	}
	if len(scalars) == 0 {
		return new(bls12381.G1Affine), nil
	}
	return new(bls12381.G1Affine).MultiExp(points, scalars, ecc.MultiExpConfig{NbTasks: numGoRoutines})
}

// MultiExpG2 is MultiExpG1 over G2.
//
// It is used by the verifier of the shared point set multi-proof, which commits
// to the vanishing polynomial of the opening points in G2.
func MultiExpG2(scalars []fr.Element, points []bls12381.G2Affine, numGoRoutines int) (*bls12381.G2Affine, error) {
	err := isValidNumGoRoutines(numGoRoutines)
	if err != nil {
		return nil, err
	}
	if len(scalars) != len(points) {
		return nil, ErrMismatchedLengths
	}
	if len(scalars) == 0 {
		return new(bls12381.G2Affine), nil
	}
	return new(bls12381.G2Affine).MultiExp(points, scalars, ecc.MultiExpConfig{NbTasks: numGoRoutines})
}

// MaxGoRoutines is the exclusive upper bound on numGoRoutines.
//
// 1024 is chosen here as the underlying gnark-crypto library will
// return an error for more than 1024.
const MaxGoRoutines = 1024

// isValidNumGoRoutines will return an error if the number
// of go routines to be used is not Valid.
//
// Instead of waiting until the user tries to call an algorithm
// which requires numGoRoutines, we return the error here instead.
func isValidNumGoRoutines(value int) error {
	if value >= MaxGoRoutines {
		return ErrTooManyGoRoutines
	}
	return nil
}

// MultiExpNaive computes the inner product with one scalar multiplication
// per point. It is the baseline that every other method is compared against.
func MultiExpNaive(scalars []fr.Element, points []bls12381.G1Affine) (*bls12381.G1Affine, error) {
	if len(scalars) != len(points) {
		return nil, ErrMismatchedLengths
	}

	var acc, tmp bls12381.G1Jac
	var bi big.Int
	for i := 0; i < len(scalars); i++ {
		if scalars[i].IsZero() {
			continue
		}
		scalars[i].BigInt(&bi)
		tmp.FromAffine(&points[i])
		tmp.ScalarMultiplication(&tmp, &bi)
		acc.AddAssign(&tmp)
	}

	var result bls12381.G1Affine
	result.FromJacobian(&acc)
	return &result, nil
}

// MultiExpWindowed computes the inner product with the bucket method on a
// single goroutine.
//
// The scalars are split into windows of c bits. For every window each point
// is added into the bucket selected by its c-bit digit, and the buckets are
// then summed with a running sum so that bucket i is counted i times.
func MultiExpWindowed(scalars []fr.Element, points []bls12381.G1Affine) (*bls12381.G1Affine, error) {
	if len(points) != len(scalars) {
		return nil, ErrMismatchedLengths
	}
	if len(scalars) == 0 {
		return new(bls12381.G1Affine), nil
	}

	// Regular (non-Montgomery) little-endian limbs of every scalar
	limbs := make([][fr.Limbs]uint64, len(scalars))
	for i := 0; i < len(scalars); i++ {
		limbs[i] = scalars[i].Bits()
	}

	c := windowSize(len(scalars))
	numWindows := (fr.Bits + c - 1) / c
	windows := make([]bls12381.G1Jac, numWindows)
	buckets := make([]bls12381.G1Jac, 1<<c)

	for w := 0; w < numWindows; w++ {
		for i := range buckets {
			buckets[i] = bls12381.G1Jac{}
		}

		for i := 0; i < len(limbs); i++ {
			digit := windowDigit(&limbs[i], w*c, c)
			if digit == 0 {
				continue
			}
			buckets[digit].AddMixed(&points[i])
		}

		var sum, acc bls12381.G1Jac
		for i := len(buckets) - 1; i > 0; i-- {
			sum.AddAssign(&buckets[i])
			acc.AddAssign(&sum)
		}
		windows[w] = acc
	}

	var acc bls12381.G1Jac
	for w := numWindows - 1; w >= 0; w-- {
		for j := 0; j < c; j++ {
			acc.DoubleAssign()
		}
		acc.AddAssign(&windows[w])
	}

	var result bls12381.G1Affine
	result.FromJacobian(&acc)
	return &result, nil
}

// windowSize approximates the bucket width that balances the number of
// bucket additions against the number of windows.
func windowSize(n int) int {
	c := bits.Len(uint(n)) / 2
	if c < 1 {
		return 1
	}
	if c > 16 {
		return 16
	}
	return c
}

// windowDigit returns the c-bit digit of the scalar starting at bit `offset`.
func windowDigit(limbs *[fr.Limbs]uint64, offset, c int) uint64 {
	limbIdx := offset / 64
	shift := offset % 64
	if limbIdx >= fr.Limbs {
		return 0
	}

	digit := limbs[limbIdx] >> shift
	// The window straddles two limbs
	if shift+c > 64 && limbIdx+1 < fr.Limbs {
		digit |= limbs[limbIdx+1] << (64 - shift)
	}
	return digit & ((uint64(1) << c) - 1)
}
