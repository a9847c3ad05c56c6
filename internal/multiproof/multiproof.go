// Package multiproof opens many committed polynomials, each at its own set of
// points, with a constant size proof.
//
// Two schemes are provided: a shared point set scheme where every polynomial
// is opened at the same points, and the scheme of Boneh, Drake, Fisch and
// Gabizon (https://eprint.iacr.org/2020/081) which allows a different set per
// polynomial. Both are made non-interactive with a Fiat-Shamir transcript.
package multiproof

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/fiatshamir"
	"github.com/crate-crypto/go-kzg-grid/internal/kzg"
	"github.com/crate-crypto/go-kzg-grid/internal/poly"
	"golang.org/x/sync/errgroup"
)

// Names of the multi-proof schemes.
const (
	SchemeSharedSet = "shared_set"
	SchemeBDFG      = "bdfg"
)

// Domain separators for the transcripts of each scheme.
const (
	sharedSetLabel = "kzg-grid/multiproof/shared-set/v1"
	bdfgLabel      = "kzg-grid/multiproof/bdfg/v1"
)

// Opening is a polynomial and the points it should be opened at.
type Opening struct {
	Poly   kzg.Polynomial
	Points []fr.Element
}

// Claim is the public statement about one committed polynomial: it
// evaluates to Values[j] at Points[j].
type Claim struct {
	Points []fr.Element
	Values []fr.Element
}

// Proof is a multi-point opening proof.
type Proof struct {
	Scheme string
	// Commitment to the combined quotient
	W bls12381.G1Affine
	// Commitment to the linearisation quotient. Only set by the BDFG scheme.
	WPrime bls12381.G1Affine

	// Challenges the prover derived. The verifier recomputes them from its
	// own transcript and ignores these.
	Gamma fr.Element
	Z     fr.Element
}

// Open creates a proof with the named scheme. `maxEvalPoints` bounds the
// point set of the shared set scheme.
//
// The challenges in the proof are replayed on a copy of the transcript taken
// before proving, and a difference fails with ErrChallengeMismatch. That only
// happens when the transcript is written to while the proof is being made.
func Open(scheme string, strategy kzg.CommitmentStrategy, maxEvalPoints int, commitments []kzg.Commitment, openings []Opening, transcript *fiatshamir.Transcript, numGoRoutines int) (*Proof, []Claim, error) {
	snapshot, err := transcript.Clone()
	if err != nil {
		return nil, nil, err
	}

	var proof *Proof
	var claims []Claim
	switch scheme {
	case SchemeSharedSet:
		proof, claims, err = OpenSharedSet(strategy, maxEvalPoints, commitments, openings, transcript, numGoRoutines)
	case SchemeBDFG:
		proof, claims, err = OpenBDFG(strategy, commitments, openings, transcript, numGoRoutines)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
	if err != nil {
		return nil, nil, err
	}

	if err := checkChallenges(snapshot, commitments, claims, proof); err != nil {
		return nil, nil, err
	}
	return proof, claims, nil
}

// Verify checks a proof created by Open, using the scheme recorded in the proof.
func Verify(commitments []kzg.Commitment, claims []Claim, proof *Proof, openKey *kzg.OpeningKey, transcript *fiatshamir.Transcript) (bool, error) {
	switch proof.Scheme {
	case SchemeSharedSet:
		return VerifySharedSet(commitments, claims, proof, openKey, transcript)
	case SchemeBDFG:
		return VerifyBDFG(commitments, claims, proof, openKey, transcript)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownScheme, proof.Scheme)
	}
}

// Schemes lists the names accepted by Open.
func Schemes() []string {
	return []string{SchemeSharedSet, SchemeBDFG}
}

// validateOpenings checks the prover's input and evaluates every polynomial
// at its points.
func validateOpenings(commitments []kzg.Commitment, openings []Opening, ck *kzg.CommitKey) ([]Claim, error) {
	if len(openings) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(commitments) != len(openings) {
		return nil, fmt.Errorf("%w: %d commitments, %d openings", ErrMismatchedLengths, len(commitments), len(openings))
	}

	claims := make([]Claim, len(openings))
	for i, opening := range openings {
		if len(opening.Poly) > len(ck.G1) {
			return nil, fmt.Errorf("%w: polynomial %d has degree %d", kzg.ErrDegreeExceeded, i, len(opening.Poly)-1)
		}
		if err := checkPointSet(opening.Points); err != nil {
			return nil, fmt.Errorf("polynomial %d: %w", i, err)
		}

		values := make([]fr.Element, len(opening.Points))
		for j := range opening.Points {
			values[j] = poly.PolyEval(opening.Poly, opening.Points[j])
		}
		claims[i] = Claim{Points: opening.Points, Values: values}
	}
	return claims, nil
}

// validateClaims checks the verifier's input.
func validateClaims(commitments []kzg.Commitment, claims []Claim) error {
	if len(claims) == 0 {
		return ErrEmptyBatch
	}
	if len(commitments) != len(claims) {
		return fmt.Errorf("%w: %d commitments, %d claims", ErrMismatchedLengths, len(commitments), len(claims))
	}
	for i, claim := range claims {
		if len(claim.Points) != len(claim.Values) {
			return fmt.Errorf("%w: claim %d has %d points and %d values", ErrMismatchedLengths, i, len(claim.Points), len(claim.Values))
		}
		if err := checkPointSet(claim.Points); err != nil {
			return fmt.Errorf("claim %d: %w", i, err)
		}
	}
	return nil
}

func checkPointSet(points []fr.Element) error {
	if len(points) == 0 {
		return ErrEmptyPointSet
	}
	seen := make(map[fr.Element]struct{}, len(points))
	for _, point := range points {
		if _, ok := seen[point]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePoint, point.String())
		}
		seen[point] = struct{}{}
	}
	return nil
}

// appendStatement binds the transcript to everything both parties know
// before the first challenge.
func appendStatement(transcript *fiatshamir.Transcript, label string, commitments []kzg.Commitment, claims []Claim) {
	transcript.DomainSep(label)
	transcript.AppendPoints(commitments)
	transcript.AppendUint64(uint64(len(claims)))
	for _, claim := range claims {
		transcript.AppendScalars(claim.Points)
		transcript.AppendScalars(claim.Values)
	}
}

// deriveChallenges replays the transcript of `scheme` over the statement and
// the first proof element. z is zero for the shared set scheme.
func deriveChallenges(transcript *fiatshamir.Transcript, scheme string, commitments []kzg.Commitment, claims []Claim, w bls12381.G1Affine) (gamma, z fr.Element) {
	if scheme == SchemeSharedSet {
		appendStatement(transcript, sharedSetLabel, commitments, claims)
		return transcript.ChallengeScalar(), z
	}

	appendStatement(transcript, bdfgLabel, commitments, claims)
	gamma = transcript.ChallengeScalar()
	transcript.AppendPoint(w)
	z = transcript.ChallengeScalar()
	return gamma, z
}

// checkChallenges compares the challenges carried by `proof` with the ones
// `transcript` gives for it.
func checkChallenges(transcript *fiatshamir.Transcript, commitments []kzg.Commitment, claims []Claim, proof *Proof) error {
	gamma, z := deriveChallenges(transcript, proof.Scheme, commitments, claims, proof.W)
	if !gamma.Equal(&proof.Gamma) || !z.Equal(&proof.Z) {
		return ErrChallengeMismatch
	}
	return nil
}

// quotient is (f - r) / Z where r interpolates the claim and Z vanishes on
// its points, together with r.
type quotient struct {
	q             kzg.Polynomial
	interpolation kzg.Polynomial
}

// computeQuotients divides every polynomial by the vanishing polynomial of
// its point set, one goroutine per polynomial.
func computeQuotients(openings []Opening, claims []Claim, numGoRoutines int) ([]quotient, error) {
	quotients := make([]quotient, len(openings))

	var group errgroup.Group
	if numGoRoutines > 0 {
		group.SetLimit(numGoRoutines)
	}
	for i := range openings {
		group.Go(func() error {
			interpolation, err := poly.LagrangeInterpolate(claims[i].Points, claims[i].Values)
			if err != nil {
				return err
			}
			numerator := poly.PolySub(openings[i].Poly, interpolation)

			q, remainder, err := poly.DividePoly(numerator, poly.VanishingPoly(claims[i].Points))
			if err != nil {
				return err
			}
			if !poly.IsZero(remainder) {
				return fmt.Errorf("%w: polynomial %d", kzg.ErrNonZeroRemainder, i)
			}
			quotients[i] = quotient{q: q, interpolation: interpolation}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return quotients, nil
}

// linearCombination returns Σ factors[i] * polys[i].
func linearCombination(polys []kzg.Polynomial, factors []fr.Element) kzg.Polynomial {
	size := 0
	for _, p := range polys {
		size = max(size, len(p))
	}
	result := make(kzg.Polynomial, size)
	for i, p := range polys {
		poly.PolyAddScaledInPlace(result, p, factors[i])
	}
	return result
}
