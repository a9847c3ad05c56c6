package multiproof

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/fiatshamir"
	"github.com/crate-crypto/go-kzg-grid/internal/kzg"
	"github.com/crate-crypto/go-kzg-grid/internal/multiexp"
	"github.com/crate-crypto/go-kzg-grid/internal/poly"
	"github.com/crate-crypto/go-kzg-grid/internal/utils"
)

// OpenBDFG opens polynomial f_i at its own point set S_i, with S the union
// of the sets.
//
// The prover commits to W = [Σ γ^i (f_i - r_i) / Z_{S_i}], derives z from the
// transcript and then commits to W' = [L / (X - z)] where
//
//	L = Σ γ^i Z_{S∖S_i}(z) (f_i - r_i(z)) - Z_S(z) Σ γ^i (f_i - r_i) / Z_{S_i}
//
// vanishes at z.
func OpenBDFG(strategy kzg.CommitmentStrategy, commitments []kzg.Commitment, openings []Opening, transcript *fiatshamir.Transcript, numGoRoutines int) (*Proof, []Claim, error) {
	claims, err := validateOpenings(commitments, openings, strategy.CommitKey())
	if err != nil {
		return nil, nil, err
	}

	appendStatement(transcript, bdfgLabel, commitments, claims)
	gamma := transcript.ChallengeScalar()
	gammaPowers := utils.ComputePowers(gamma, uint(len(openings)))

	quotients, err := computeQuotients(openings, claims, numGoRoutines)
	if err != nil {
		return nil, nil, err
	}
	quotientPolys := make([]kzg.Polynomial, len(quotients))
	for i := range quotients {
		quotientPolys[i] = quotients[i].q
	}
	h := linearCombination(quotientPolys, gammaPowers)

	w, err := strategy.Commit(h)
	if err != nil {
		return nil, nil, err
	}

	transcript.AppendPoint(*w)
	z := transcript.ChallengeScalar()

	// L = Σ γ^i Z_{S∖S_i}(z) (f_i - r_i(z)) - Z_S(z) h
	union := unionOfPoints(claims)
	factors := complementFactors(union, claims, gammaPowers, z)

	size := len(h)
	for _, opening := range openings {
		size = max(size, len(opening.Poly))
	}
	l := make(kzg.Polynomial, size)
	for i, opening := range openings {
		shifted := make(kzg.Polynomial, max(len(opening.Poly), 1))
		copy(shifted, opening.Poly)
		rz := poly.PolyEval(quotients[i].interpolation, z)
		shifted[0].Sub(&shifted[0], &rz)
		poly.PolyAddScaledInPlace(l, shifted, factors[i])
	}
	zsAtZ := poly.EvalVanishingPoly(union, z)
	var negZsAtZ fr.Element
	negZsAtZ.Neg(&zsAtZ)
	poly.PolyAddScaledInPlace(l, h, negZsAtZ)

	lQuotient, remainder := poly.DividePolyByXminusA(l, z)
	if !remainder.IsZero() {
		return nil, nil, fmt.Errorf("%w: linearisation polynomial does not vanish at z", kzg.ErrNonZeroRemainder)
	}
	wPrime, err := strategy.Commit(lQuotient)
	if err != nil {
		return nil, nil, err
	}

	return &Proof{
		Scheme: SchemeBDFG,
		W:      *w,
		WPrime: *wPrime,
		Gamma:  gamma,
		Z:      z,
	}, claims, nil
}

// VerifyBDFG checks e(F + zW', h) = e(W', τh) where
//
//	F = Σ γ^i Z_{S∖S_i}(z) C_i - [Σ γ^i Z_{S∖S_i}(z) r_i(z)]g - Z_S(z) W
//
// is the commitment to L computed from public values.
func VerifyBDFG(commitments []kzg.Commitment, claims []Claim, proof *Proof, openKey *kzg.OpeningKey, transcript *fiatshamir.Transcript) (bool, error) {
	if proof.Scheme != SchemeBDFG {
		return false, fmt.Errorf("%w: got %q", ErrWrongScheme, proof.Scheme)
	}
	if err := validateClaims(commitments, claims); err != nil {
		return false, err
	}

	gamma, z := deriveChallenges(transcript, SchemeBDFG, commitments, claims, proof.W)
	gammaPowers := utils.ComputePowers(gamma, uint(len(claims)))

	union := unionOfPoints(claims)
	factors := complementFactors(union, claims, gammaPowers, z)

	// Σ γ^i Z_{S∖S_i}(z) r_i(z)
	var foldedEval fr.Element
	for i, claim := range claims {
		interpolation, err := poly.LagrangeInterpolate(claim.Points, claim.Values)
		if err != nil {
			return false, err
		}
		rz := poly.PolyEval(interpolation, z)
		rz.Mul(&rz, &factors[i])
		foldedEval.Add(&foldedEval, &rz)
	}

	// F + zW' = Σ factor_i C_i - Z_S(z) W + z W' - [foldedEval]g
	zsAtZ := poly.EvalVanishingPoly(union, z)
	var negZsAtZ fr.Element
	negZsAtZ.Neg(&zsAtZ)

	points := make([]bls12381.G1Affine, 0, len(commitments)+2)
	scalars := make([]fr.Element, 0, len(commitments)+2)
	points = append(points, commitments...)
	scalars = append(scalars, factors...)
	points = append(points, proof.W, proof.WPrime)
	scalars = append(scalars, negZsAtZ, z)

	lhs, err := multiexp.MultiExpG1(scalars, points, 0)
	if err != nil {
		return false, err
	}

	var foldedEvalBigInt big.Int
	foldedEval.BigInt(&foldedEvalBigInt)
	var evalComm bls12381.G1Jac
	evalComm.FromAffine(&openKey.GenG1)
	evalComm.ScalarMultiplication(&evalComm, &foldedEvalBigInt)

	var lhsJac bls12381.G1Jac
	lhsJac.FromAffine(lhs)
	lhsJac.SubAssign(&evalComm)
	var lhsAff bls12381.G1Affine
	lhsAff.FromJacobian(&lhsJac)

	var negWPrime bls12381.G1Affine
	negWPrime.Neg(&proof.WPrime)

	return bls12381.PairingCheck(
		[]bls12381.G1Affine{lhsAff, negWPrime},
		[]bls12381.G2Affine{openKey.GenG2, openKey.AlphaG2},
	)
}

// unionOfPoints returns the distinct points of every claim, in order of
// first appearance.
func unionOfPoints(claims []Claim) []fr.Element {
	seen := make(map[fr.Element]struct{})
	var union []fr.Element
	for _, claim := range claims {
		for _, point := range claim.Points {
			if _, ok := seen[point]; ok {
				continue
			}
			seen[point] = struct{}{}
			union = append(union, point)
		}
	}
	return union
}

// complementFactors returns γ^i Z_{S∖S_i}(z) for every claim.
func complementFactors(union []fr.Element, claims []Claim, gammaPowers []fr.Element, z fr.Element) []fr.Element {
	factors := make([]fr.Element, len(claims))
	for i, claim := range claims {
		inSet := make(map[fr.Element]struct{}, len(claim.Points))
		for _, point := range claim.Points {
			inSet[point] = struct{}{}
		}
		complement := make([]fr.Element, 0, len(union)-len(claim.Points))
		for _, point := range union {
			if _, ok := inSet[point]; !ok {
				complement = append(complement, point)
			}
		}
		factors[i] = poly.EvalVanishingPoly(complement, z)
		factors[i].Mul(&factors[i], &gammaPowers[i])
	}
	return factors
}
