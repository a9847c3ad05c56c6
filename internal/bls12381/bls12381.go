package bls12381_copied

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// BatchJacobianToAffineG1 converts points to affine form with a single field
// inversion.
//
// This method has been copied from gnark, however we removed the usage of parallelism
// since the callers already run it on a per-row goroutine.
func BatchJacobianToAffineG1(points []bls12381.G1Jac) []bls12381.G1Affine {
	result := make([]bls12381.G1Affine, len(points))
	zeroes := make([]bool, len(points))
	accumulator := fp.One()

	// batch invert all points[].Z coordinates with Montgomery batch inversion trick
	// (stores points[].Z^-1 in result[i].X to avoid allocating a slice of fp.Elements)
	for i := 0; i < len(points); i++ {
		if points[i].Z.IsZero() {
			zeroes[i] = true
			continue
		}
		result[i].X = accumulator
		accumulator.Mul(&accumulator, &points[i].Z)
	}

	var accInverse fp.Element
	accInverse.Inverse(&accumulator)

	for i := len(points) - 1; i >= 0; i-- {
		if zeroes[i] {
			// (X=0, Y=0) is infinity point in affine
			continue
		}
		result[i].X.Mul(&result[i].X, &accInverse)
		accInverse.Mul(&accInverse, &points[i].Z)
	}

	for i := 0; i < len(points); i++ {
		if zeroes[i] {
			continue
		}
		var a, b fp.Element
		a = result[i].X
		b.Square(&a)
		result[i].X.Mul(&points[i].X, &b)
		result[i].Y.Mul(&points[i].Y, &b).
			Mul(&result[i].Y, &a)
	}

	return result
}

// ScalarMulG1 returns [s]p in Jacobian form.
func ScalarMulG1(p *bls12381.G1Affine, s *fr.Element) bls12381.G1Jac {
	var sBI big.Int
	s.BigInt(&sBI)

	var res bls12381.G1Jac
	res.FromAffine(p)
	res.ScalarMultiplication(&res, &sBI)
	return res
}

// ScalarMulG2 returns [s]p in Jacobian form.
func ScalarMulG2(p *bls12381.G2Affine, s *fr.Element) bls12381.G2Jac {
	var sBI big.Int
	s.BigInt(&sBI)

	var res bls12381.G2Jac
	res.FromAffine(p)
	res.ScalarMultiplication(&res, &sBI)
	return res
}
