package erasure_code

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/domain"
	"github.com/crate-crypto/go-kzg-grid/internal/poly"
	"github.com/crate-crypto/go-kzg-grid/internal/pool"
)

// Generator of the coset that the division by the vanishing polynomial is
// done over. It must not be a root of unity of the evaluation domain.
const cosetGenerator = 7

// recoveryBuffers holds preallocated buffers for FFT operations
type recoveryBuffers struct {
	zXEvalBuf        []fr.Element
	eZEvalBuf        []fr.Element
	cosetZxEvalBuf   []fr.Element
	cosetQuotientBuf []fr.Element
}

// DataRecovery recovers a polynomial of degree < numScalarsInDataWord from
// its evaluations over a domain of size numScalarsInCodeword, given which
// evaluations are missing.
//
// With E the evaluations (zero where missing) and Z the polynomial that
// vanishes exactly on the missing points, E*Z and D*Z agree on the whole
// domain for the data polynomial D. Since deg(D*Z) is below the domain size,
// interpolating E*Z gives D*Z exactly, and D is recovered by dividing by Z over
// a coset where Z has no roots.
type DataRecovery struct {
	domainExtended      *domain.Domain
	domainExtendedCoset *domain.CosetDomain

	// numScalarsInCodeword is the size of the evaluation domain
	numScalarsInCodeword int
	// numScalarsInDataWord is the number of coefficients of the recovered polynomial
	numScalarsInDataWord int

	buffers *pool.Pool[*recoveryBuffers]
}

// NewDataRecovery returns a DataRecovery over `domainExtended`.
func NewDataRecovery(domainExtended *domain.Domain, numScalarsInDataWord int) *DataRecovery {
	numScalarsInCodeword := int(domainExtended.Cardinality)
	fftCoset := domain.NewFFTCoset(fr.NewElement(cosetGenerator))

	return &DataRecovery{
		domainExtended:       domainExtended,
		domainExtendedCoset:  domain.NewCosetDomain(domainExtended, fftCoset),
		numScalarsInCodeword: numScalarsInCodeword,
		numScalarsInDataWord: numScalarsInDataWord,
		buffers: pool.New(func() *recoveryBuffers {
			return &recoveryBuffers{
				zXEvalBuf:        make([]fr.Element, numScalarsInCodeword),
				eZEvalBuf:        make([]fr.Element, numScalarsInCodeword),
				cosetZxEvalBuf:   make([]fr.Element, numScalarsInCodeword),
				cosetQuotientBuf: make([]fr.Element, numScalarsInCodeword),
			}
		}),
	}
}

// constructVanishingPoly returns the polynomial that vanishes on the domain
// points at `missingIndices`, padded to the size of the domain.
func (dr *DataRecovery) constructVanishingPoly(missingIndices []uint64) []fr.Element {
	missingRoots := make([]fr.Element, len(missingIndices))
	for i, index := range missingIndices {
		missingRoots[i] = dr.domainExtended.Roots[index]
	}

	zeroPolyCoeff := make([]fr.Element, dr.numScalarsInCodeword)
	copy(zeroPolyCoeff, poly.VanishingPoly(missingRoots))
	return zeroPolyCoeff
}

// RecoverPolynomialCoefficients returns the coefficients of the data
// polynomial. `data` holds an evaluation for every point of the domain, with
// any value at the `missingIndices`; those values are ignored.
//
// The number of missing indices must be at most
// numScalarsInCodeword - numScalarsInDataWord.
func (dr *DataRecovery) RecoverPolynomialCoefficients(data []fr.Element, missingIndices []uint64) ([]fr.Element, error) {
	if len(data) != dr.numScalarsInCodeword {
		return nil, errInvalidDataLength
	}
	zX := dr.constructVanishingPoly(missingIndices)

	buf, err := dr.buffers.Get()
	if err != nil {
		return nil, err
	}
	defer dr.buffers.Put(buf)

	// Z(x) evaluations, keeping zX intact for the coset FFT below
	zXEval := buf.zXEvalBuf
	copy(zXEval, zX)
	dr.domainExtended.FftFrInPlace(zXEval)

	// (E*Z)(x) is zero at the missing points, whatever `data` holds there
	eZEval := buf.eZEvalBuf
	for i := 0; i < len(data); i++ {
		eZEval[i].Mul(&data[i], &zXEval[i])
	}

	// (D*Z)(X) in coefficient form, then on the coset
	dzPoly := eZEval
	dr.domainExtended.IfftFrInPlace(dzPoly)
	cosetDzEval := dzPoly
	dr.domainExtendedCoset.CosetFFtFrInPlace(cosetDzEval)

	cosetZxEval := buf.cosetZxEvalBuf
	copy(cosetZxEval, zX)
	dr.domainExtendedCoset.CosetFFtFrInPlace(cosetZxEval)
	cosetZxEvalInv := fr.BatchInvert(cosetZxEval)

	cosetQuotientEval := buf.cosetQuotientBuf
	for i := 0; i < len(cosetZxEvalInv); i++ {
		cosetQuotientEval[i].Mul(&cosetDzEval[i], &cosetZxEvalInv[i])
	}
	dr.domainExtendedCoset.CosetIFFtFrInPlace(cosetQuotientEval)

	// Copy result since we're returning the buffer to the pool
	result := make([]fr.Element, dr.numScalarsInDataWord)
	copy(result, cosetQuotientEval[:dr.numScalarsInDataWord])

	return result, nil
}
