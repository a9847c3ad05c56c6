package multiexp

import (
	"errors"
	"math/big"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

func TestMSMTable(t *testing.T) {
	t.Run("single point multiplication", func(t *testing.T) {
		_, _, point, _ := bls12381.Generators()

		scalar := fr.One()

		table, err := NewMSMTable([]bls12381.G1Affine{point}, 4)
		if err != nil {
			t.Fatal(err)
		}
		result, err := table.MultiScalarMul([]fr.Element{scalar})
		if err != nil {
			t.Fatal(err)
		}

		var expected bls12381.G1Jac
		expected.FromAffine(&point)

		if !result.Equal(&expected) {
			t.Error("single point multiplication failed")
		}
	})

	t.Run("zero scalar", func(t *testing.T) {
		_, _, point, _ := bls12381.Generators()

		table, err := NewMSMTable([]bls12381.G1Affine{point}, 4)
		if err != nil {
			t.Fatal(err)
		}
		result, err := table.MultiScalarMul([]fr.Element{{}})
		if err != nil {
			t.Fatal(err)
		}

		var resultAff bls12381.G1Affine
		resultAff.FromJacobian(&result)
		if !resultAff.IsInfinity() {
			t.Error("multiplication by zero should give point at infinity")
		}
	})

	t.Run("multiple points", func(t *testing.T) {
		_, _, P, _ := bls12381.Generators()

		var twoP bls12381.G1Affine
		twoP.Add(&P, &P)

		scalars := []fr.Element{fr.NewElement(2), fr.NewElement(3)}
		points := []bls12381.G1Affine{P, twoP}

		table, err := NewMSMTable(points, 4)
		if err != nil {
			t.Fatal(err)
		}
		result, err := table.MultiScalarMul(scalars)
		if err != nil {
			t.Fatal(err)
		}
		var resultAff bls12381.G1Affine
		resultAff.FromJacobian(&result)

		// 2*P + 3*(2P) = 8P
		var expected bls12381.G1Affine
		expected.ScalarMultiplication(&P, big.NewInt(8))
		if !resultAff.Equal(&expected) {
			t.Error("multiple point multiplication failed")
		}
	})

	t.Run("large random scalars", func(t *testing.T) {
		numPoints := 40
		points := make([]bls12381.G1Affine, numPoints)
		scalars := make([]fr.Element, numPoints)
		for i := 0; i < numPoints; i++ {
			points[i] = randomPoint()
			if _, err := scalars[i].SetRandom(); err != nil {
				t.Fatal(err)
			}
		}

		table, err := NewMSMTable(points, 8)
		if err != nil {
			t.Fatal(err)
		}
		msmResult, err := table.MultiScalarMul(scalars)
		if err != nil {
			t.Fatal(err)
		}
		var msmResultAff bls12381.G1Affine
		msmResultAff.FromJacobian(&msmResult)

		expected, err := slowMultiExp(scalars, points)
		if err != nil {
			t.Fatal(err)
		}
		if !msmResultAff.Equal(expected) {
			t.Error("MSM result doesn't match naive implementation")
		}
	})

	t.Run("prefix of the bases", func(t *testing.T) {
		points := genG1Points(12)
		scalars := make([]fr.Element, 5)
		for i := range scalars {
			_, _ = scalars[i].SetRandom()
		}

		table, err := NewMSMTable(points, 5)
		if err != nil {
			t.Fatal(err)
		}
		got, err := table.MultiScalarMul(scalars)
		if err != nil {
			t.Fatal(err)
		}
		var gotAff bls12381.G1Affine
		gotAff.FromJacobian(&got)

		expected, err := slowMultiExp(scalars, points[:5])
		if err != nil {
			t.Fatal(err)
		}
		if !gotAff.Equal(expected) {
			t.Error("MSM over a prefix of the table is incorrect")
		}
	})

	t.Run("window size edge cases", func(t *testing.T) {
		_, _, point, _ := bls12381.Generators()

		for _, wbits := range []uint8{2, 4, 8, 16} {
			table, err := NewMSMTable([]bls12381.G1Affine{point}, wbits)
			if err != nil {
				t.Fatal(err)
			}

			result, err := table.MultiScalarMul([]fr.Element{fr.NewElement(2)})
			if err != nil {
				t.Fatal(err)
			}

			var expected bls12381.G1Jac
			expected.FromAffine(&point)
			expected.Double(&expected)

			if !result.Equal(&expected) {
				t.Errorf("multiplication failed for window size %d", wbits)
			}
		}
	})

	t.Run("errors", func(t *testing.T) {
		_, _, point, _ := bls12381.Generators()
		if _, err := NewMSMTable([]bls12381.G1Affine{point}, 1); !errors.Is(err, ErrInvalidWindowSize) {
			t.Errorf("expected ErrInvalidWindowSize, got %v", err)
		}
		table, err := NewMSMTable([]bls12381.G1Affine{point}, 4)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := table.MultiScalarMul(make([]fr.Element, 2)); !errors.Is(err, ErrTooManyScalars) {
			t.Errorf("expected ErrTooManyScalars, got %v", err)
		}
	})
}
