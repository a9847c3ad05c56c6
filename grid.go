package kzggrid

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/kzg"
	"github.com/crate-crypto/go-kzg-grid/serialization"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Grid is a matrix of scalars stored row by row. Every row has the same
// length.
type Grid = [][]fr.Element

// ExtendedGrid is a grid whose rows were erasure coded from NumCols values
// to (1+ExtensionFactor)*NumCols values. The first NumCols values of every
// row are the original row.
type ExtendedGrid struct {
	Rows            [][]fr.Element
	NumCols         uint64
	ExtensionFactor uint64
}

// Width returns the number of columns of the extended grid.
func (g *ExtendedGrid) Width() uint64 {
	return (1 + g.ExtensionFactor) * g.NumCols
}

// Column samples column `index` of every row.
func (g *ExtendedGrid) Column(index uint64) (Column, error) {
	if index >= g.Width() {
		return Column{}, fmt.Errorf("%w: column %d, width %d", ErrOutOfRange, index, g.Width())
	}
	values := make([]fr.Element, len(g.Rows))
	for i, row := range g.Rows {
		values[i] = row[index]
	}
	return Column{Index: index, Values: values}, nil
}

// Column is one column of an extended grid as received by a sampler.
type Column struct {
	Index  uint64
	Values []fr.Element
	// Absent[r] marks the cell of row r as missing. A nil slice means every
	// cell is present.
	Absent []bool
}

func (c *Column) present(row int) bool {
	return c.Absent == nil || !c.Absent[row]
}

// DecodeResult is the outcome of DecodeGrid. Rows[r] is nil exactly when
// RowErrors[r] is not.
type DecodeResult struct {
	Rows      [][]fr.Element
	RowErrors []error
}

// Err combines the errors of the rows that could not be decoded. It is nil
// when every row was decoded.
func (r *DecodeResult) Err() error {
	var result *multierror.Error
	for row, err := range r.RowErrors {
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("row %d: %w", row, err))
		}
	}
	return result.ErrorOrNil()
}

// EncodeGrid extends every row of `grid` by `factor`.
func (ctx *Context) EncodeGrid(grid Grid, factor uint64) (*ExtendedGrid, error) {
	numCols, err := checkGrid(grid)
	if err != nil {
		return nil, err
	}
	codec, err := ctx.codec(numCols, factor)
	if err != nil {
		return nil, err
	}
	ctx.logger.Debug("encoding grid",
		zap.Int("num_rows", len(grid)),
		zap.Uint64("num_cols", numCols),
		zap.Uint64("factor", factor),
	)

	rows := make([][]fr.Element, len(grid))
	group := ctx.group()
	for i := range grid {
		group.Go(func() error {
			row, err := codec.Encode(grid[i])
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			rows[i] = row
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &ExtendedGrid{
		Rows:            rows,
		NumCols:         numCols,
		ExtensionFactor: factor,
	}, nil
}

// DecodeGrid reconstructs the original rows of a grid whose rows were
// extended from `numCols` values by `factor`, given some of its columns.
//
// Malformed input fails the whole call: an index outside of the extended
// width, a repeated index or columns of different heights. A row with fewer
// than numCols present cells fails on its own with ErrInsufficientSamples
// and the other rows are still decoded.
func (ctx *Context) DecodeGrid(columns []Column, numCols, factor uint64) (*DecodeResult, error) {
	codec, err := ctx.codec(numCols, factor)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrInsufficientSamples)
	}

	numRows := len(columns[0].Values)
	seen := make(map[uint64]struct{}, len(columns))
	for i := range columns {
		column := &columns[i]
		if column.Index >= codec.Width() {
			return nil, fmt.Errorf("%w: column %d, width %d", ErrOutOfRange, column.Index, codec.Width())
		}
		if _, ok := seen[column.Index]; ok {
			return nil, fmt.Errorf("%w: column %d", ErrDuplicateSample, column.Index)
		}
		seen[column.Index] = struct{}{}
		if len(column.Values) != numRows || (column.Absent != nil && len(column.Absent) != numRows) {
			return nil, fmt.Errorf("%w: column %d", ErrRaggedColumns, column.Index)
		}
	}
	ctx.logger.Debug("decoding grid",
		zap.Int("num_rows", numRows),
		zap.Int("num_columns", len(columns)),
		zap.Uint64("num_cols", numCols),
		zap.Uint64("factor", factor),
	)

	result := &DecodeResult{
		Rows:      make([][]fr.Element, numRows),
		RowErrors: make([]error, numRows),
	}
	group := ctx.group()
	for r := 0; r < numRows; r++ {
		group.Go(func() error {
			indices := make([]uint64, 0, len(columns))
			values := make([]fr.Element, 0, len(columns))
			for i := range columns {
				if columns[i].present(r) {
					indices = append(indices, columns[i].Index)
					values = append(values, columns[i].Values[r])
				}
			}

			row, err := codec.Decode(indices, values, DecodeAuto)
			if err != nil {
				ctx.logger.Warn("could not decode row",
					zap.Int("row", r),
					zap.Int("num_samples", len(indices)),
					zap.Error(err),
				)
				result.RowErrors[r] = err
				return nil
			}
			result.Rows[r] = row
			return nil
		})
	}
	// Row failures are kept in RowErrors, so no goroutine returns an error
	_ = group.Wait()

	return result, nil
}

// ExtendColumns extends every column of `grid` by `factor`. The number of
// rows must be a power of two; the result has (1+factor) times as many rows.
func (ctx *Context) ExtendColumns(grid Grid, factor uint64) (Grid, error) {
	numCols, err := checkGrid(grid)
	if err != nil {
		return nil, err
	}
	codec, err := ctx.codec(uint64(len(grid)), factor)
	if err != nil {
		return nil, err
	}
	ctx.logger.Debug("extending columns",
		zap.Int("num_rows", len(grid)),
		zap.Uint64("num_cols", numCols),
		zap.Uint64("factor", factor),
	)

	extended := make(Grid, codec.Width())
	for i := range extended {
		extended[i] = make([]fr.Element, numCols)
	}

	group := ctx.group()
	for c := uint64(0); c < numCols; c++ {
		group.Go(func() error {
			column := make([]fr.Element, len(grid))
			for r := range grid {
				column[r] = grid[r][c]
			}
			extendedColumn, err := codec.Encode(column)
			if err != nil {
				return fmt.Errorf("column %d: %w", c, err)
			}
			// Each goroutine writes a distinct column
			for r := range extendedColumn {
				extended[r][c] = extendedColumn[r]
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return extended, nil
}

// Extend2D extends the rows of `grid` by `rowFactor` and then the columns of
// the result by `colFactor`.
func (ctx *Context) Extend2D(grid Grid, rowFactor, colFactor uint64) (Grid, error) {
	rowExtended, err := ctx.EncodeGrid(grid, rowFactor)
	if err != nil {
		return nil, err
	}
	return ctx.ExtendColumns(rowExtended.Rows, colFactor)
}

// CommitRows commits to the polynomial of every row, where the values of a
// row are the evaluations of its polynomial over the row domain.
func (ctx *Context) CommitRows(grid Grid) ([]Commitment, error) {
	numCols, err := checkGrid(grid)
	if err != nil {
		return nil, err
	}
	ctx.logger.Debug("committing to rows",
		zap.Int("num_rows", len(grid)),
		zap.Uint64("num_cols", numCols),
		zap.String("strategy", ctx.strategy.Name()),
	)

	commitments := make([]Commitment, len(grid))
	group := ctx.group()
	for i := range grid {
		group.Go(func() error {
			commitment, err := ctx.CommitEvaluations(grid[i])
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			commitments[i] = *commitment
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return commitments, nil
}

// ExtendCommitments extends the row commitments of a grid by `factor`. The
// result holds the commitments to the rows of the grid whose columns were
// extended by `factor`.
func (ctx *Context) ExtendCommitments(commitments []Commitment, factor uint64) ([]Commitment, error) {
	return ctx.EncodePoints(commitments, factor)
}

// EncodePoints erasure codes G1 points the way EncodeGrid codes a row.
func (ctx *Context) EncodePoints(points []bls12381.G1Affine, factor uint64) ([]bls12381.G1Affine, error) {
	codec, err := ctx.codec(uint64(len(points)), factor)
	if err != nil {
		return nil, err
	}
	return codec.EncodeG1(points)
}

// ColumnOpening proves the values of one column of a 2-D extended grid
// against the extended row commitments.
type ColumnOpening struct {
	// Column index in the row-extended grid
	Column uint64
	// Shape of the row extension the column belongs to
	NumCols   uint64
	RowFactor uint64
	// Domain point of the column
	Point fr.Element
	// One proof per row of the column-extended grid. Proofs[r].ClaimedValue
	// is the cell at row r.
	Proofs []OpeningProof
}

// Values returns the cells of the column, one per extended row.
func (o *ColumnOpening) Values() []fr.Element {
	values := make([]fr.Element, len(o.Proofs))
	for i := range o.Proofs {
		values[i] = o.Proofs[i].ClaimedValue
	}
	return values
}

// OpenColumn opens every row polynomial of `grid` at the point of column
// `column` of the row-extended grid, then extends the values and proofs by
// `colFactor` so there is a proof for every row of the 2-D extended grid.
func (ctx *Context) OpenColumn(grid Grid, rowFactor, colFactor, column uint64) (*ColumnOpening, error) {
	numCols, err := checkGrid(grid)
	if err != nil {
		return nil, err
	}
	rowCodec, err := ctx.codec(numCols, rowFactor)
	if err != nil {
		return nil, err
	}
	colCodec, err := ctx.codec(uint64(len(grid)), colFactor)
	if err != nil {
		return nil, err
	}
	point, err := rowCodec.Point(column)
	if err != nil {
		return nil, err
	}
	ctx.logger.Debug("opening column",
		zap.Uint64("column", column),
		zap.Int("num_rows", len(grid)),
		zap.Uint64("col_factor", colFactor),
	)

	// 1. Open every original row at the column's point
	values := make([]fr.Element, len(grid))
	quotients := make([]bls12381.G1Affine, len(grid))
	group := ctx.group()
	for i := range grid {
		group.Go(func() error {
			coeffs := rowCodec.RowDomain().IfftFr(grid[i])
			proof, err := kzg.Open(ctx.strategy, coeffs, point)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			values[i] = proof.ClaimedValue
			quotients[i] = proof.QuotientComm
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	// 2. Extend the values and the quotient commitments along the column.
	// Opening is linear, so these open the extended rows.
	extendedValues, err := colCodec.Encode(values)
	if err != nil {
		return nil, err
	}
	extendedQuotients, err := colCodec.EncodeG1(quotients)
	if err != nil {
		return nil, err
	}

	proofs := make([]OpeningProof, len(extendedValues))
	for i := range proofs {
		proofs[i] = OpeningProof{
			QuotientComm: extendedQuotients[i],
			InputPoint:   point,
			ClaimedValue: extendedValues[i],
		}
	}
	return &ColumnOpening{
		Column:    column,
		NumCols:   numCols,
		RowFactor: rowFactor,
		Point:     point,
		Proofs:    proofs,
	}, nil
}

// VerifyColumn checks a column opening against the extended row
// commitments returned by ExtendCommitments.
func (ctx *Context) VerifyColumn(extendedCommitments []Commitment, opening *ColumnOpening) (bool, error) {
	rowCodec, err := ctx.codec(opening.NumCols, opening.RowFactor)
	if err != nil {
		return false, err
	}
	point, err := rowCodec.Point(opening.Column)
	if err != nil {
		return false, err
	}
	if !point.Equal(&opening.Point) {
		return false, fmt.Errorf("%w: column %d", ErrColumnMismatch, opening.Column)
	}

	for i := range opening.Proofs {
		if !opening.Proofs[i].InputPoint.Equal(&opening.Point) {
			return false, fmt.Errorf("%w: proof %d", ErrColumnMismatch, i)
		}
	}
	return ctx.BatchVerify(extendedCommitments, opening.Proofs)
}

// GridFromBytes reads rows of `numCols` scalars serialized as 32 byte
// little-endian integers, row after row.
func GridFromBytes(data []byte, numCols uint64) (Grid, error) {
	scalars, err := serialization.DeserializeScalars(data)
	if err != nil {
		return nil, err
	}
	if numCols == 0 || uint64(len(scalars))%numCols != 0 {
		return nil, fmt.Errorf("%w: %d scalars, %d per row", ErrInvalidGridSize, len(scalars), numCols)
	}

	grid := make(Grid, uint64(len(scalars))/numCols)
	for i := range grid {
		grid[i] = scalars[uint64(i)*numCols : uint64(i+1)*numCols]
	}
	return grid, nil
}

// GridBytes is the inverse of GridFromBytes.
func GridBytes(grid Grid) []byte {
	var out []byte
	for _, row := range grid {
		out = append(out, serialization.SerializeScalars(row)...)
	}
	return out
}

// checkGrid returns the row length of a non-empty rectangular grid.
func checkGrid(grid Grid) (uint64, error) {
	if len(grid) == 0 {
		return 0, ErrEmptyGrid
	}
	numCols := len(grid[0])
	for i, row := range grid {
		if len(row) != numCols {
			return 0, fmt.Errorf("%w: row %d has %d values, row 0 has %d", ErrRaggedGrid, i, len(row), numCols)
		}
	}
	return uint64(numCols), nil
}
