package multiproof

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/fiatshamir"
	"github.com/crate-crypto/go-kzg-grid/internal/kzg"
	"github.com/crate-crypto/go-kzg-grid/internal/multiexp"
	"github.com/crate-crypto/go-kzg-grid/internal/poly"
	"github.com/crate-crypto/go-kzg-grid/internal/utils"
)

// OpenSharedSet opens every polynomial at the same set of points S, with
// |S| at most `maxEvalPoints`.
//
// The proof is π = [Σ γ^i (f_i - r_i) / Z_S], where r_i interpolates f_i
// over S and γ is the transcript challenge.
func OpenSharedSet(strategy kzg.CommitmentStrategy, maxEvalPoints int, commitments []kzg.Commitment, openings []Opening, transcript *fiatshamir.Transcript, numGoRoutines int) (*Proof, []Claim, error) {
	claims, err := validateOpenings(commitments, openings, strategy.CommitKey())
	if err != nil {
		return nil, nil, err
	}
	if err := checkSharedPoints(claims); err != nil {
		return nil, nil, err
	}
	if len(claims[0].Points) > maxEvalPoints {
		return nil, nil, fmt.Errorf("%w: %d points, at most %d", ErrTooManyPoints, len(claims[0].Points), maxEvalPoints)
	}

	appendStatement(transcript, sharedSetLabel, commitments, claims)
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

	w, err := strategy.Commit(linearCombination(quotientPolys, gammaPowers))
	if err != nil {
		return nil, nil, err
	}

	return &Proof{
		Scheme: SchemeSharedSet,
		W:      *w,
		Gamma:  gamma,
	}, claims, nil
}

// VerifySharedSet checks
//
//	e(Σ γ^i C_i, h) = e(π, [Z_S(τ)]h) · e(g, [Σ γ^i r_i(τ)]h)
//
// Both [Z_S(τ)]h and the interpolation term are computed in G2, so the
// verifier needs |S|+1 powers of τ in G2.
func VerifySharedSet(commitments []kzg.Commitment, claims []Claim, proof *Proof, openKey *kzg.OpeningKey, transcript *fiatshamir.Transcript) (bool, error) {
	if proof.Scheme != SchemeSharedSet {
		return false, fmt.Errorf("%w: got %q", ErrWrongScheme, proof.Scheme)
	}
	if err := validateClaims(commitments, claims); err != nil {
		return false, err
	}
	if err := checkSharedPoints(claims); err != nil {
		return false, err
	}
	points := claims[0].Points
	if len(points) > openKey.MaxEvalPoints() {
		return false, fmt.Errorf("%w: %d points, at most %d", ErrTooManyPoints, len(points), openKey.MaxEvalPoints())
	}

	// The challenge carried by the proof is not used
	gamma, _ := deriveChallenges(transcript, SchemeSharedSet, commitments, claims, proof.W)
	gammaPowers := utils.ComputePowers(gamma, uint(len(claims)))

	// Σ γ^i C_i
	foldedComms, err := multiexp.MultiExpG1(gammaPowers, commitments, 0)
	if err != nil {
		return false, err
	}

	// Σ γ^i r_i
	interpolations := make([]kzg.Polynomial, len(claims))
	for i, claim := range claims {
		interpolations[i], err = poly.LagrangeInterpolate(claim.Points, claim.Values)
		if err != nil {
			return false, err
		}
	}
	foldedInterpolation := linearCombination(interpolations, gammaPowers)

	// [R(τ)]h and [Z_S(τ)]h
	interpolationG2, err := multiexp.MultiExpG2(foldedInterpolation, openKey.G2[:len(foldedInterpolation)], 0)
	if err != nil {
		return false, err
	}
	vanishing := poly.VanishingPoly(points)
	vanishingG2, err := multiexp.MultiExpG2(vanishing, openKey.G2[:len(vanishing)], 0)
	if err != nil {
		return false, err
	}

	var negW, negGenG1 bls12381.G1Affine
	negW.Neg(&proof.W)
	negGenG1.Neg(&openKey.GenG1)

	return bls12381.PairingCheck(
		[]bls12381.G1Affine{*foldedComms, negW, negGenG1},
		[]bls12381.G2Affine{openKey.GenG2, *vanishingG2, *interpolationG2},
	)
}

// checkSharedPoints checks that every claim uses the points of the first
// claim, in the same order.
func checkSharedPoints(claims []Claim) error {
	points := claims[0].Points
	for i := 1; i < len(claims); i++ {
		if !equalPoints(points, claims[i].Points) {
			return fmt.Errorf("%w: set %d differs from set 0", ErrPointSetMismatch, i)
		}
	}
	return nil
}

func equalPoints(a, b []fr.Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(&b[i]) {
			return false
		}
	}
	return true
}
