package multiexp

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
)

// BatchInverseThreshold is the number of pending additions below which a
// batch inversion no longer pays for itself and we fall back to mixed
// Jacobian additions.
const BatchInverseThreshold = 16

var three = fp.NewElement(3)

// pointAddDouble adds two affine points given the inverse of the
// denominator computed by chooseAddOrDouble.
func pointAddDouble(p1, p2 bls12381.G1Affine, inv *fp.Element) bls12381.G1Affine {
	var lambda, x, y fp.Element

	if p1.Equal(&p2) {
		// lambda = 3x²/2y
		lambda.Square(&p1.X)
		lambda.Mul(&lambda, &three)
		lambda.Mul(&lambda, inv)
	} else {
		// lambda = (y2-y1)/(x2-x1)
		lambda.Sub(&p2.Y, &p1.Y)
		lambda.Mul(&lambda, inv)
	}

	// x3 = lambda² - x1 - x2
	x.Square(&lambda)
	x.Sub(&x, &p1.X)
	x.Sub(&x, &p2.X)

	// y3 = lambda * (x1 - x3) - y1
	y.Sub(&p1.X, &x)
	y.Mul(&y, &lambda)
	y.Sub(&y, &p1.Y)

	return bls12381.G1Affine{X: x, Y: y}
}

// chooseAddOrDouble returns the denominator of the slope for p1 + p2.
func chooseAddOrDouble(p1, p2 bls12381.G1Affine) fp.Element {
	var result fp.Element
	if p1.Equal(&p2) {
		result.Add(&p2.Y, &p2.Y)
	} else {
		result.Sub(&p2.X, &p1.X)
	}
	return result
}

// affineFormulaFails reports whether p1 + p2 cannot be computed with the
// affine formula: an operand is the identity or the sum is the identity.
func affineFormulaFails(p1, p2 *bls12381.G1Affine) bool {
	if p1.IsInfinity() || p2.IsInfinity() {
		return true
	}
	return p1.X.Equal(&p2.X) && !p1.Y.Equal(&p2.Y)
}

// MultiBatchAdditionBinaryTreeStride sums each set of points independently,
// sharing one field inversion per round across all of the sets.
//
// Note: multiPoints is mutated in this function, to preserve it copy the points before passing
// it to this function.
func MultiBatchAdditionBinaryTreeStride(multiPoints [][]bls12381.G1Affine) []bls12381.G1Jac {
	sums := make([]bls12381.G1Jac, len(multiPoints))
	working := multiPoints

	maxPairs := 0
	for _, points := range working {
		maxPairs = max(maxPairs, len(points)/2)
	}
	denominators := make([]fp.Element, 0, maxPairs)

	for numPairs(working) > BatchInverseThreshold {
		denominators = denominators[:0]

		for i := 0; i < len(working); i++ {
			points := working[i]

			// The odd one out goes straight into the accumulator
			if len(points)%2 != 0 {
				sums[i].AddMixed(&points[len(points)-1])
				points = points[:len(points)-1]
			}

			// Compact the pairs that the affine formula can handle to
			// the front of the slice; the others are accumulated here.
			kept := 0
			for j := 0; j+1 < len(points); j += 2 {
				p, q := points[j], points[j+1]
				if affineFormulaFails(&p, &q) {
					sums[i].AddMixed(&p)
					sums[i].AddMixed(&q)
					continue
				}
				points[kept], points[kept+1] = p, q
				kept += 2
				denominators = append(denominators, chooseAddOrDouble(p, q))
			}
			working[i] = points[:kept]
		}

		denominators = fp.BatchInvert(denominators)

		offset := 0
		for i := 0; i < len(working); i++ {
			points := working[i]
			half := len(points) / 2
			for j := 0; j < half; j++ {
				points[j] = pointAddDouble(points[2*j], points[2*j+1], &denominators[offset+j])
			}
			working[i] = points[:half]
			offset += half
		}
	}

	for i := 0; i < len(working); i++ {
		for k := 0; k < len(working[i]); k++ {
			sums[i].AddMixed(&working[i][k])
		}
	}

	return sums
}

func numPairs(multiPoints [][]bls12381.G1Affine) int {
	total := 0
	for _, points := range multiPoints {
		total += len(points) / 2
	}
	return total
}
