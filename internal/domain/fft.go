package domain

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	bls12381_copied "github.com/crate-crypto/go-kzg-grid/internal/bls12381"
)

// Both transforms below use the iterative decimation-in-frequency
// (Gentleman-Sande) butterfly: inputs in natural order, outputs in
// bit-reversed order, followed by a bit-reversal permutation so that
// callers only ever see natural order.
//
// See: https://faculty.sites.iastate.edu/jia/files/inline-files/polymultiply.pdf
// for a reference.

// FftFr evaluates the polynomial with coefficients `values` over the domain.
//
// `values` may be shorter than the domain, in which case it is zero-padded.
// Returns a newly allocated slice of length Cardinality.
func (domain *Domain) FftFr(values []fr.Element) []fr.Element {
	output := domain.padFr(values)
	fftFr(output, domain.Generator)
	return output
}

// IfftFr interpolates the evaluations `values` over the domain and returns
// the coefficients of the resulting polynomial.
//
// `values` may be shorter than the domain, in which case it is zero-padded.
func (domain *Domain) IfftFr(values []fr.Element) []fr.Element {
	output := domain.padFr(values)
	fftFr(output, domain.GeneratorInv)

	for i := 0; i < len(output); i++ {
		output[i].Mul(&output[i], &domain.CardinalityInv)
	}

	return output
}

// FftFrInPlace is the in-place version of [Domain.FftFr].
// len(values) must equal the domain size.
func (domain *Domain) FftFrInPlace(values []fr.Element) {
	domain.assertSize(len(values))
	fftFr(values, domain.Generator)
}

// IfftFrInPlace is the in-place version of [Domain.IfftFr].
// len(values) must equal the domain size.
func (domain *Domain) IfftFrInPlace(values []fr.Element) {
	domain.assertSize(len(values))
	fftFr(values, domain.GeneratorInv)
	for i := 0; i < len(values); i++ {
		values[i].Mul(&values[i], &domain.CardinalityInv)
	}
}

// FftG1 computes an FFT (Fast Fourier Transform) of the G1 elements.
//
// `values` may be shorter than the domain, in which case it is padded with
// the identity. The elements are returned in natural order.
func (domain *Domain) FftG1(values []bls12381.G1Affine) []bls12381.G1Affine {
	points := domain.padG1(values)
	fftG1(points, domain.Generator)
	return bls12381_copied.BatchJacobianToAffineG1(points)
}

// IfftG1 computes an IFFT (Inverse Fast Fourier Transform) of the G1 elements.
//
// Applied to the monomial SRS this yields the SRS in Lagrange form.
func (domain *Domain) IfftG1(values []bls12381.G1Affine) []bls12381.G1Affine {
	points := domain.padG1(values)
	fftG1(points, domain.GeneratorInv)

	var invDomainBI big.Int
	domain.CardinalityInv.BigInt(&invDomainBI)
	for i := 0; i < len(points); i++ {
		points[i].ScalarMultiplication(&points[i], &invDomainBI)
	}

	return bls12381_copied.BatchJacobianToAffineG1(points)
}

func (domain *Domain) assertSize(n int) {
	if uint64(n) != domain.Cardinality {
		panic(fmt.Sprintf("expected %d values, got %d", domain.Cardinality, n))
	}
}

func (domain *Domain) padFr(values []fr.Element) []fr.Element {
	if uint64(len(values)) > domain.Cardinality {
		panic(fmt.Sprintf("cannot fit %d values into a domain of size %d", len(values), domain.Cardinality))
	}
	output := make([]fr.Element, domain.Cardinality)
	copy(output, values)
	return output
}

func (domain *Domain) padG1(values []bls12381.G1Affine) []bls12381.G1Jac {
	if uint64(len(values)) > domain.Cardinality {
		panic(fmt.Sprintf("cannot fit %d points into a domain of size %d", len(values), domain.Cardinality))
	}
	points := make([]bls12381.G1Jac, domain.Cardinality)
	for i := 0; i < len(values); i++ {
		points[i].FromAffine(&values[i])
	}
	for i := len(values); i < len(points); i++ {
		// (1, 1, 0) is the point at infinity in Jacobian coordinates
		points[i].X.SetOne()
		points[i].Y.SetOne()
	}
	return points
}

// twiddleFactors returns generator^0, ..., generator^{n/2 - 1}.
func twiddleFactors(generator fr.Element, n int) []fr.Element {
	half := n / 2
	if half == 0 {
		return nil
	}
	twiddles := make([]fr.Element, half)
	twiddles[0].SetOne()
	for i := 1; i < half; i++ {
		twiddles[i].Mul(&twiddles[i-1], &generator)
	}
	return twiddles
}

// fftFr performs an in-place FFT where `nthRootOfUnity` has order len(values).
func fftFr(values []fr.Element, nthRootOfUnity fr.Element) {
	n := len(values)
	if n <= 1 {
		return
	}
	twiddles := twiddleFactors(nthRootOfUnity, n)

	for size := n; size >= 2; size /= 2 {
		halfSize := size / 2
		// The primitive size'th root of unity is nthRootOfUnity^(n/size)
		stride := n / size

		for start := 0; start < n; start += size {
			for k := 0; k < halfSize; k++ {
				topIdx := start + k
				botIdx := topIdx + halfSize

				var tmp fr.Element
				tmp.Sub(&values[topIdx], &values[botIdx])
				values[topIdx].Add(&values[topIdx], &values[botIdx])
				values[botIdx].Mul(&tmp, &twiddles[k*stride])
			}
		}
	}

	BitReverse(values)
}

// fftG1 is fftFr with the scalar multiplications replaced by group operations.
func fftG1(values []bls12381.G1Jac, nthRootOfUnity fr.Element) {
	n := len(values)
	if n <= 1 {
		return
	}
	twiddles := twiddleFactors(nthRootOfUnity, n)
	twiddlesBI := make([]big.Int, len(twiddles))
	for i := 0; i < len(twiddles); i++ {
		twiddles[i].BigInt(&twiddlesBI[i])
	}

	for size := n; size >= 2; size /= 2 {
		halfSize := size / 2
		stride := n / size

		for start := 0; start < n; start += size {
			for k := 0; k < halfSize; k++ {
				topIdx := start + k
				botIdx := topIdx + halfSize

				var tmp bls12381.G1Jac
				tmp.Set(&values[topIdx])
				tmp.SubAssign(&values[botIdx])
				values[topIdx].AddAssign(&values[botIdx])

				if k == 0 {
					values[botIdx].Set(&tmp)
				} else {
					values[botIdx].ScalarMultiplication(&tmp, &twiddlesBI[k*stride])
				}
			}
		}
	}

	BitReverse(values)
}
