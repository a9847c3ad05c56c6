package kzg

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/multiexp"
)

// Commitment to a polynomial: [p(τ)]g, plus [r(τ)]γg when blinded.
type Commitment = bls12381.G1Affine

// Polynomial in coefficient form, lowest degree first.
type Polynomial = []fr.Element

// Commit commits to `poly` using `strategy`, and adds the hiding term for
// `blinding` when it is non-empty.
//
// An empty polynomial commits to the identity.
func Commit(strategy CommitmentStrategy, poly, blinding Polynomial) (*Commitment, error) {
	ck := strategy.CommitKey()
	if err := checkDegree(poly, ck); err != nil {
		return nil, err
	}
	if err := checkHidingDegree(blinding, ck); err != nil {
		return nil, err
	}

	comm, err := strategy.Commit(poly)
	if err != nil {
		return nil, err
	}
	if len(blinding) == 0 {
		return comm, nil
	}

	hiding, err := commitBlinding(blinding, ck)
	if err != nil {
		return nil, err
	}
	var res bls12381.G1Affine
	res.Add(comm, hiding)
	return &res, nil
}

func checkHidingDegree(blinding Polynomial, ck *CommitKey) error {
	if len(blinding) > len(ck.GammaG1) {
		return fmt.Errorf("%w: blinding degree %d, hiding bound is %d", ErrDegreeExceeded, len(blinding)-1, ck.HidingBound())
	}
	return nil
}

// commitBlinding computes [r(τ)]γg. The blinding polynomial is small, so this
// does not go through the configured strategy.
func commitBlinding(blinding Polynomial, ck *CommitKey) (*bls12381.G1Affine, error) {
	return multiexp.MultiExpG1(blinding, ck.GammaG1[:len(blinding)], 0)
}
