package multiexp

import (
	"slices"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	bls12381_copied "github.com/crate-crypto/go-kzg-grid/internal/bls12381"
)

// MSMTable holds precomputed multiples of a fixed set of bases, so that
// multi-scalar multiplications against those bases need no doublings per point.
//
// The table is read-only after construction and may be shared across goroutines.
type MSMTable struct {
	table [][]bls12381.G1Affine
	wbits uint8
}

// NewMSMTable creates a new lookup table for fixed base multi-scalar multiplication.
//
// For every point P we store 1*P, ..., 2^{wbits-1}*P; Booth encoding
// gives the remaining digits by negation. The total memory is roughly
// numPoints * 2^{wbits-1} affine points.
func NewMSMTable(points []bls12381.G1Affine, wbits uint8) (*MSMTable, error) {
	if wbits < 2 || wbits > 16 {
		return nil, ErrInvalidWindowSize
	}

	precomputedPoints := make([][]bls12381.G1Affine, len(points))
	for i := 0; i < len(points); i++ {
		precomputedPoints[i] = precomputeMultiples(wbits, &points[i])
	}

	return &MSMTable{
		table: precomputedPoints,
		wbits: wbits,
	}, nil
}

// NumPoints returns the number of bases in the table.
func (msmt *MSMTable) NumPoints() int {
	return len(msmt.table)
}

func precomputeMultiples(wbits uint8, point *bls12381.G1Affine) []bls12381.G1Affine {
	tableSize := 1 << (wbits - 1)
	multiples := make([]bls12381.G1Jac, tableSize)

	var base bls12381.G1Jac
	base.FromAffine(point)
	multiples[0] = base
	for i := 1; i < tableSize; i++ {
		multiples[i] = multiples[i-1]
		multiples[i].AddAssign(&base)
	}

	return bls12381_copied.BatchJacobianToAffineG1(multiples)
}

// MultiScalarMul computes sum scalars[i] * points[i] for the first
// len(scalars) bases of the table.
func (msmt *MSMTable) MultiScalarMul(scalars []fr.Element) (bls12381.G1Jac, error) {
	if len(scalars) > len(msmt.table) {
		return bls12381.G1Jac{}, ErrTooManyScalars
	}
	if len(scalars) == 0 {
		return bls12381.G1Jac{}, nil
	}

	scalarsBytes := scalarsToBytes(scalars)
	wbits := int(msmt.wbits)
	numWindows := fr.Bits/wbits + 1

	// Gather, for every window, the (signed) table entries selected by
	// each scalar's Booth digit. Summing a window is then a plain
	// addition of points, done in batches with shared inversions.
	windowsOfPoints := make([][]bls12381.G1Affine, numWindows)
	for windowIdx := 0; windowIdx < numWindows; windowIdx++ {
		for scalarIdx := 0; scalarIdx < len(scalarsBytes); scalarIdx++ {
			digit := getBoothIndex(windowIdx, wbits, scalarsBytes[scalarIdx])
			if digit == 0 {
				continue
			}

			point := msmt.table[scalarIdx][absInt32(digit)-1]
			if digit < 0 {
				point.Neg(&point)
			}
			windowsOfPoints[windowIdx] = append(windowsOfPoints[windowIdx], point)
		}
	}

	windowSums := MultiBatchAdditionBinaryTreeStride(windowsOfPoints)

	// Horner over the windows, highest window first
	slices.Reverse(windowSums)
	result := windowSums[0]
	for i := 1; i < len(windowSums); i++ {
		for k := 0; k < wbits; k++ {
			result.DoubleAssign()
		}
		result.AddAssign(&windowSums[i])
	}

	return result, nil
}

func absInt32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}
