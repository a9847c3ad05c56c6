// Package erasure_code implements the Reed-Solomon row codec of the grid.
//
// A row of n values is read as the evaluations of a polynomial of degree < n
// over the domain of size n. Extending the row evaluates that polynomial at
// f*n further points, so that any n of the (1+f)*n values determine the row.
package erasure_code

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/domain"
	"github.com/crate-crypto/go-kzg-grid/internal/poly"
	"github.com/crate-crypto/go-kzg-grid/internal/utils"
)

// DecodeMethod selects how missing values are reconstructed.
type DecodeMethod int

const (
	// DecodeAuto copies the row when every systematic column is present and
	// falls back to DecodeFFT otherwise.
	DecodeAuto DecodeMethod = iota
	// DecodeFFT recovers the row with the vanishing polynomial of the missing
	// positions and a coset division.
	DecodeFFT
	// DecodeLagrange interpolates n of the samples directly.
	DecodeLagrange
)

func (m DecodeMethod) String() string {
	switch m {
	case DecodeAuto:
		return "auto"
	case DecodeFFT:
		return "fft"
	case DecodeLagrange:
		return "lagrange"
	default:
		return fmt.Sprintf("DecodeMethod(%d)", int(m))
	}
}

// Codec extends rows of numCols values to (1+factor)*numCols values and
// reconstructs them from any numCols of those.
//
// The extended values are evaluations over a domain of size M, the next power
// of two above the extended width. Column c < numCols is the systematic
// column at domain index c*s with s = M/numCols, which is the c'th point of
// the row domain. Column c >= numCols is the (c-numCols)'th domain index that
// is not a multiple of s.
//
// A Codec is read-only after construction and safe for concurrent use.
type Codec struct {
	numCols uint64
	factor  uint64
	width   uint64
	stride  uint64

	// positions[c] is the domain index of column c
	positions []uint64

	rowDomain      *domain.Domain
	extendedDomain *domain.Domain
	recovery       *DataRecovery
}

// NewCodec returns the codec for rows of `numCols` values extended by
// `factor`. A factor of zero gives the identity code.
func NewCodec(numCols, factor uint64) (*Codec, error) {
	if !utils.IsPowerOfTwo(numCols) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidNumCols, numCols)
	}
	width := (1 + factor) * numCols
	if factor >= 1<<domain.MaxOrderRoot || width/numCols != 1+factor || width > 1<<domain.MaxOrderRoot {
		return nil, fmt.Errorf("%w: %d columns with factor %d", ErrInvalidFactor, numCols, factor)
	}

	domainSize := utils.NextPowerOfTwo(width)
	stride := domainSize / numCols

	positions := make([]uint64, 0, width)
	for c := uint64(0); c < numCols; c++ {
		positions = append(positions, c*stride)
	}
	for index := uint64(0); uint64(len(positions)) < width; index++ {
		if index%stride != 0 {
			positions = append(positions, index)
		}
	}

	extendedDomain := domain.NewDomain(domainSize)
	return &Codec{
		numCols:        numCols,
		factor:         factor,
		width:          width,
		stride:         stride,
		positions:      positions,
		rowDomain:      domain.NewDomain(numCols),
		extendedDomain: extendedDomain,
		recovery:       NewDataRecovery(extendedDomain, int(numCols)),
	}, nil
}

// NumCols returns the number of values in an original row.
func (c *Codec) NumCols() uint64 { return c.numCols }

// Factor returns the extension factor.
func (c *Codec) Factor() uint64 { return c.factor }

// Width returns the number of values in an extended row.
func (c *Codec) Width() uint64 { return c.width }

// DomainSize returns the size of the evaluation domain of extended rows.
func (c *Codec) DomainSize() uint64 { return c.extendedDomain.Cardinality }

// RowDomain returns the domain that original rows are evaluated over.
func (c *Codec) RowDomain() *domain.Domain { return c.rowDomain }

// Point returns the domain point that column `column` is the evaluation at.
func (c *Codec) Point(column uint64) (fr.Element, error) {
	if column >= c.width {
		return fr.Element{}, fmt.Errorf("%w: column %d, width %d", ErrOutOfRange, column, c.width)
	}
	return c.extendedDomain.Roots[c.positions[column]], nil
}

// Encode extends a row of NumCols values to Width values. The first
// NumCols values of the result are the row itself.
func (c *Codec) Encode(row []fr.Element) ([]fr.Element, error) {
	if uint64(len(row)) != c.numCols {
		return nil, fmt.Errorf("%w: got %d values, expected %d", ErrMismatchedLength, len(row), c.numCols)
	}
	coeffs := c.rowDomain.IfftFr(row)
	return c.EncodeCoefficients(coeffs)
}

// EncodeCoefficients extends the row whose polynomial has coefficients `coeffs`.
func (c *Codec) EncodeCoefficients(coeffs []fr.Element) ([]fr.Element, error) {
	if uint64(len(coeffs)) > c.numCols {
		return nil, fmt.Errorf("%w: got %d coefficients, expected at most %d", ErrMismatchedLength, len(coeffs), c.numCols)
	}
	evals := c.extendedDomain.FftFr(coeffs)

	extended := make([]fr.Element, c.width)
	for column, position := range c.positions {
		extended[column] = evals[position]
	}
	return extended, nil
}

// EncodeG1 extends NumCols group elements the same way Encode extends field
// elements. Applied to commitments of the rows of a grid, it yields the
// commitments of the rows of the column-extended grid.
func (c *Codec) EncodeG1(points []bls12381.G1Affine) ([]bls12381.G1Affine, error) {
	if uint64(len(points)) != c.numCols {
		return nil, fmt.Errorf("%w: got %d points, expected %d", ErrMismatchedLength, len(points), c.numCols)
	}
	coeffs := c.rowDomain.IfftG1(points)
	evals := c.extendedDomain.FftG1(coeffs)

	extended := make([]bls12381.G1Affine, c.width)
	for column, position := range c.positions {
		extended[column] = evals[position]
	}
	return extended, nil
}

// Decode reconstructs the NumCols values of a row from samples of the
// extended row, where values[i] is the value of column indices[i].
func (c *Codec) Decode(indices []uint64, values []fr.Element, method DecodeMethod) ([]fr.Element, error) {
	if err := c.checkSamples(indices, values); err != nil {
		return nil, err
	}

	switch method {
	case DecodeAuto:
		if row, ok := c.systematicRow(indices, values); ok {
			return row, nil
		}
		return c.decodeFFT(indices, values)
	case DecodeFFT:
		return c.decodeFFT(indices, values)
	case DecodeLagrange:
		return c.decodeLagrange(indices, values)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDecode, method)
	}
}

func (c *Codec) checkSamples(indices []uint64, values []fr.Element) error {
	if len(indices) != len(values) {
		return fmt.Errorf("%w: %d indices, %d values", ErrMismatchedSamples, len(indices), len(values))
	}

	seen := make([]bool, c.width)
	for _, index := range indices {
		if index >= c.width {
			return fmt.Errorf("%w: column %d, width %d", ErrOutOfRange, index, c.width)
		}
		if seen[index] {
			return fmt.Errorf("%w: column %d", ErrDuplicateSample, index)
		}
		seen[index] = true
	}

	if uint64(len(indices)) < c.numCols {
		return fmt.Errorf("%w: got %d, need %d", ErrInsufficientSamples, len(indices), c.numCols)
	}
	return nil
}

// systematicRow returns the row when every systematic column was sampled.
func (c *Codec) systematicRow(indices []uint64, values []fr.Element) ([]fr.Element, bool) {
	row := make([]fr.Element, c.numCols)
	found := uint64(0)
	for i, index := range indices {
		if index < c.numCols {
			row[index] = values[i]
			found++
		}
	}
	return row, found == c.numCols
}

func (c *Codec) decodeFFT(indices []uint64, values []fr.Element) ([]fr.Element, error) {
	domainSize := c.extendedDomain.Cardinality

	data := make([]fr.Element, domainSize)
	present := make([]bool, domainSize)
	for i, index := range indices {
		position := c.positions[index]
		data[position] = values[i]
		present[position] = true
	}

	missing := make([]uint64, 0, domainSize-uint64(len(indices)))
	for position := uint64(0); position < domainSize; position++ {
		if !present[position] {
			missing = append(missing, position)
		}
	}

	coeffs, err := c.recovery.RecoverPolynomialCoefficients(data, missing)
	if err != nil {
		return nil, err
	}
	return c.rowDomain.FftFr(coeffs), nil
}

func (c *Codec) decodeLagrange(indices []uint64, values []fr.Element) ([]fr.Element, error) {
	points := make([]fr.Element, c.numCols)
	for i := uint64(0); i < c.numCols; i++ {
		points[i] = c.extendedDomain.Roots[c.positions[indices[i]]]
	}

	coeffs, err := poly.LagrangeInterpolate(points, values[:c.numCols])
	if err != nil {
		return nil, err
	}
	return c.rowDomain.FftFr(coeffs), nil
}
