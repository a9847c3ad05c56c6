package kzg

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/multiexp"
	"github.com/crate-crypto/go-kzg-grid/internal/utils"
)

// Verify checks a KZG opening proof. A proof that does not verify returns
// false with a nil error; errors are reserved for malformed inputs.
//
// The check is e(C - [v]g - [r(a)]γg, h) = e(π, [τ - a]h), where the hiding
// term is only present when the proof carries RandomV.
func Verify(commitment *Commitment, proof *OpeningProof, openKey *OpeningKey) (bool, error) {
	if err := checkSubgroup(commitment, &proof.QuotientComm); err != nil {
		return false, err
	}

	// [-1]h
	var negG2 bls12381.G2Affine
	negG2.Neg(&openKey.GenG2)

	// [τ - a]h
	var genG2Jac bls12381.G2Jac
	genG2Jac.FromAffine(&openKey.GenG2)
	var pointBigInt big.Int
	proof.InputPoint.BigInt(&pointBigInt)
	var inputPointG2Jac bls12381.G2Jac
	inputPointG2Jac.ScalarMultiplication(&genG2Jac, &pointBigInt)

	var alphaMinusAG2Jac bls12381.G2Jac
	alphaMinusAG2Jac.FromAffine(&openKey.AlphaG2)
	alphaMinusAG2Jac.SubAssign(&inputPointG2Jac)
	var alphaMinusAG2Aff bls12381.G2Affine
	alphaMinusAG2Aff.FromJacobian(&alphaMinusAG2Jac)

	// C - [v]g - [r(a)]γg
	valueComm := evaluationCommitment(proof.ClaimedValue, proof.RandomV, openKey)
	var lhsJac bls12381.G1Jac
	lhsJac.FromAffine(commitment)
	lhsJac.SubAssign(&valueComm)
	var lhsAff bls12381.G1Affine
	lhsAff.FromJacobian(&lhsJac)

	return bls12381.PairingCheck(
		[]bls12381.G1Affine{lhsAff, proof.QuotientComm},
		[]bls12381.G2Affine{negG2, alphaMinusAG2Aff},
	)
}

// BatchVerify checks many opening proofs with a single pairing check, by
// taking a random linear combination of the individual checks.
//
// The result is the same as verifying each proof with Verify, except with
// negligible probability.
func BatchVerify(commitments []Commitment, proofs []OpeningProof, openKey *OpeningKey) (bool, error) {
	if len(commitments) != len(proofs) {
		return false, ErrInvalidNumDigests
	}

	// Nothing to verify
	if len(commitments) == 0 {
		return true, nil
	}

	if len(commitments) == 1 {
		return Verify(&commitments[0], &proofs[0], openKey)
	}

	for i := range commitments {
		if err := checkSubgroup(&commitments[i], &proofs[i].QuotientComm); err != nil {
			return false, fmt.Errorf("proof %d: %w", i, err)
		}
	}

	// Powers of one random scalar are enough, since they form a
	// Vandermonde matrix, which is linearly independent.
	var randomNumber fr.Element
	if _, err := randomNumber.SetRandom(); err != nil {
		return false, err
	}
	randomNumbers := utils.ComputePowers(randomNumber, uint(len(commitments)))

	// Σ r_i π_i
	quotients := make([]bls12381.G1Affine, len(proofs))
	for i := 0; i < len(proofs); i++ {
		quotients[i] = proofs[i].QuotientComm
	}
	foldedQuotients, err := multiexp.MultiExpG1(randomNumbers, quotients, 0)
	if err != nil {
		return false, err
	}

	// Σ r_i C_i, Σ r_i v_i and Σ r_i r(a_i)
	evals := make([]fr.Element, len(proofs))
	blindingEvals := make([]fr.Element, len(proofs))
	hiding := false
	for i := 0; i < len(proofs); i++ {
		evals[i] = proofs[i].ClaimedValue
		if proofs[i].RandomV != nil {
			blindingEvals[i] = *proofs[i].RandomV
			hiding = true
		}
	}
	foldedCommitments, foldedEvals, err := fold(commitments, evals, randomNumbers)
	if err != nil {
		return false, err
	}
	var foldedBlindingEvals *fr.Element
	if hiding {
		folded := innerProduct(blindingEvals, randomNumbers)
		foldedBlindingEvals = &folded
	}

	// Σ r_i a_i π_i
	pointFactors := make([]fr.Element, len(proofs))
	for i := 0; i < len(proofs); i++ {
		pointFactors[i].Mul(&randomNumbers[i], &proofs[i].InputPoint)
	}
	foldedPointsQuotients, err := multiexp.MultiExpG1(pointFactors, quotients, 0)
	if err != nil {
		return false, err
	}

	// Σ r_i (C_i - [v_i]g - [r(a_i)]γg + a_i π_i)
	valueComm := evaluationCommitment(foldedEvals, foldedBlindingEvals, openKey)
	var lhsJac bls12381.G1Jac
	lhsJac.FromAffine(&foldedCommitments)
	lhsJac.SubAssign(&valueComm)
	lhsJac.AddMixed(foldedPointsQuotients)
	var lhs bls12381.G1Affine
	lhs.FromJacobian(&lhsJac)

	var negQuotients bls12381.G1Affine
	negQuotients.Neg(foldedQuotients)

	return bls12381.PairingCheck(
		[]bls12381.G1Affine{lhs, negQuotients},
		[]bls12381.G2Affine{openKey.GenG2, openKey.AlphaG2},
	)
}

// evaluationCommitment returns [v]g + [rv]γg, omitting the hiding term when
// rv is nil.
func evaluationCommitment(v fr.Element, rv *fr.Element, openKey *OpeningKey) bls12381.G1Jac {
	var res bls12381.G1Jac
	var vBigInt big.Int
	v.BigInt(&vBigInt)
	res.FromAffine(&openKey.GenG1)
	res.ScalarMultiplication(&res, &vBigInt)

	if rv != nil {
		var rvBigInt big.Int
		rv.BigInt(&rvBigInt)
		var hiding bls12381.G1Jac
		hiding.FromAffine(&openKey.GammaG1)
		hiding.ScalarMultiplication(&hiding, &rvBigInt)
		res.AddAssign(&hiding)
	}
	return res
}

func fold(commitments []Commitment, evaluations []fr.Element, factors []fr.Element) (Commitment, fr.Element, error) {
	foldedEvaluations := innerProduct(evaluations, factors)

	foldedCommitments, err := multiexp.MultiExpG1(factors, commitments, 0)
	if err != nil {
		return Commitment{}, fr.Element{}, err
	}
	return *foldedCommitments, foldedEvaluations, nil
}

func innerProduct(a, b []fr.Element) fr.Element {
	var res, tmp fr.Element
	for i := 0; i < len(a); i++ {
		tmp.Mul(&a[i], &b[i])
		res.Add(&res, &tmp)
	}
	return res
}

func checkSubgroup(points ...*bls12381.G1Affine) error {
	for _, p := range points {
		if !p.IsInfinity() && !p.IsInSubGroup() {
			return ErrPointNotInSubgroup
		}
	}
	return nil
}
