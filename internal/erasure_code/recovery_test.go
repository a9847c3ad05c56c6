package erasure_code

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/domain"
	"github.com/crate-crypto/go-kzg-grid/internal/poly"
)

func TestVanishingPolyOnIndices(t *testing.T) {
	d := domain.NewDomain(16)
	dr := NewDataRecovery(d, 4)

	missing := []uint64{1, 5, 6, 15}
	zeroPoly := dr.constructVanishingPoly(missing)
	if len(zeroPoly) != 16 {
		t.Fatalf("expected the vanishing polynomial to be padded to the domain size")
	}

	for i := uint64(0); i < 16; i++ {
		eval := poly.PolyEval(zeroPoly, d.Roots[i])
		isMissing := i == 1 || i == 5 || i == 6 || i == 15
		if eval.IsZero() != isMissing {
			t.Fatalf("vanishing polynomial at root %d: zero=%v, missing=%v", i, eval.IsZero(), isMissing)
		}
	}
}

func TestRecoverPolynomialCoefficients(t *testing.T) {
	d := domain.NewDomain(16)
	dr := NewDataRecovery(d, 8)

	coeffs := randRow(8)
	data := d.FftFr(coeffs)

	// Lose the maximum number of evaluations and fill them with garbage
	missing := []uint64{0, 2, 3, 7, 8, 9, 13, 14}
	for _, index := range missing {
		data[index] = fr.NewElement(0xdead)
	}

	recovered, err := dr.RecoverPolynomialCoefficients(data, missing)
	if err != nil {
		t.Fatal(err)
	}
	for i := range coeffs {
		if !recovered[i].Equal(&coeffs[i]) {
			t.Fatalf("coefficient %d was not recovered", i)
		}
	}

	// The buffers come back from the pool dirty; a second run must agree
	recovered, err = dr.RecoverPolynomialCoefficients(d.FftFr(coeffs), nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := range coeffs {
		if !recovered[i].Equal(&coeffs[i]) {
			t.Fatalf("coefficient %d was not recovered without erasures", i)
		}
	}

	if _, err := dr.RecoverPolynomialCoefficients(data[:8], missing); err == nil {
		t.Fatalf("expected an error for data of the wrong length")
	}
}
