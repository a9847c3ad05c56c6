package kzg

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/poly"
)

// OpeningProof is the proof that a committed polynomial f evaluates to
// `ClaimedValue` at `InputPoint`.
type OpeningProof struct {
	// Commitment to the quotient (f(X) - f(a))/(X - a), plus the blinding
	// quotient when the commitment is hiding
	QuotientComm bls12381.G1Affine

	// Point that we are evaluating the polynomial at : `a`
	InputPoint fr.Element

	// ClaimedValue purported value : `f(a)`
	ClaimedValue fr.Element

	// RandomV is r(a) for the blinding polynomial r. It is nil for
	// proofs against unblinded commitments.
	RandomV *fr.Element
}

// Open creates a proof that `p` evaluates to p(point) at `point`.
func Open(strategy CommitmentStrategy, p Polynomial, point fr.Element) (OpeningProof, error) {
	if err := checkDegree(p, strategy.CommitKey()); err != nil {
		return OpeningProof{}, err
	}

	claimedValue := poly.PolyEval(p, point)
	quotient, err := quotientAt(p, point, claimedValue)
	if err != nil {
		return OpeningProof{}, err
	}

	quotientComm, err := strategy.Commit(quotient)
	if err != nil {
		return OpeningProof{}, err
	}

	return OpeningProof{
		QuotientComm: *quotientComm,
		InputPoint:   point,
		ClaimedValue: claimedValue,
	}, nil
}

// OpenHiding creates a proof against the commitment to `p` blinded with
// `blinding`.
//
// The proof commits to both quotients, [q(τ)]g + [q̂(τ)]γg, and reveals the
// blinding polynomial's value at `point`.
func OpenHiding(strategy CommitmentStrategy, p, blinding Polynomial, point fr.Element) (OpeningProof, error) {
	proof, err := Open(strategy, p, point)
	if err != nil {
		return OpeningProof{}, err
	}
	if len(blinding) == 0 {
		var zero fr.Element
		proof.RandomV = &zero
		return proof, nil
	}

	ck := strategy.CommitKey()
	if err := checkHidingDegree(blinding, ck); err != nil {
		return OpeningProof{}, err
	}

	randomV := poly.PolyEval(blinding, point)
	blindingQuotient, err := quotientAt(blinding, point, randomV)
	if err != nil {
		return OpeningProof{}, err
	}
	hiding, err := commitBlinding(blindingQuotient, ck)
	if err != nil {
		return OpeningProof{}, err
	}

	proof.QuotientComm.Add(&proof.QuotientComm, hiding)
	proof.RandomV = &randomV
	return proof, nil
}

// quotientAt computes (p(X) - value) / (X - point).
//
// Any remainder means that `value` is not p(point) and the division was not
// exact, which callers must never ignore.
func quotientAt(p Polynomial, point, value fr.Element) (Polynomial, error) {
	if len(p) == 0 {
		if !value.IsZero() {
			return nil, ErrNonZeroRemainder
		}
		return Polynomial{}, nil
	}

	numerator := make(Polynomial, len(p))
	copy(numerator, p)
	numerator[0].Sub(&numerator[0], &value)

	quotient, remainder := poly.DividePolyByXminusA(numerator, point)
	if !remainder.IsZero() {
		return nil, fmt.Errorf("%w: dividing by (X - %s)", ErrNonZeroRemainder, point.String())
	}
	return quotient, nil
}
