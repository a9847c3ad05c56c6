package kzg

import (
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	bls12381_copied "github.com/crate-crypto/go-kzg-grid/internal/bls12381"
	"github.com/crate-crypto/go-kzg-grid/internal/utils"
)

// MaxDegreeCeiling is the largest polynomial degree an SRS can be created for.
const MaxDegreeCeiling = 1 << 24

// Number of random bytes read per trapdoor. The extra 16 bytes over the
// size of the field make the bias of the reduction negligible.
const trapdoorEntropyBytes = 48

// OpeningKey is the part of the SRS needed to verify opening proofs.
type OpeningKey struct {
	// Generator of G1: g
	GenG1 bls12381.G1Affine
	// Hiding generator: [γ]g
	GammaG1 bls12381.G1Affine
	// Generator of G2: h
	GenG2 bls12381.G2Affine
	// [τ]h
	AlphaG2 bls12381.G2Affine
	// Powers of τ in G2: [h, τh, ..., τ^k h]
	G2 []bls12381.G2Affine
}

// MaxEvalPoints returns the largest point set a shared set multi-proof
// can be verified over.
func (ok *OpeningKey) MaxEvalPoints() int {
	return len(ok.G2) - 1
}

// CommitKey is the part of the SRS needed to commit to polynomials and to
// create opening proofs.
type CommitKey struct {
	// Powers of τ in G1: [g, τg, ..., τ^d g]
	G1 []bls12381.G1Affine
	// Powers of τ in G1 scaled by γ, used for blinding: [γg, τγg, ..., τ^hb γg]
	GammaG1 []bls12381.G1Affine
}

// MaxDegree returns the largest degree that can be committed to.
func (ck *CommitKey) MaxDegree() int {
	return len(ck.G1) - 1
}

// HidingBound returns the largest degree of a blinding polynomial.
func (ck *CommitKey) HidingBound() int {
	return len(ck.GammaG1) - 1
}

// SRS is the structured reference string for making and verifying KZG proofs.
//
// It is read-only once created and can be shared across goroutines.
type SRS struct {
	CommitKey  CommitKey
	OpeningKey OpeningKey
}

// NewSRS samples the trapdoors τ and γ from `rng` and creates an SRS that can
// commit to polynomials of degree at most `maxDegree`, verify shared set
// multi-proofs over at most `maxEvalPoints` points, and blind with
// polynomials of degree at most `hidingBound`.
//
// The trapdoors are zeroed before returning.
func NewSRS(maxDegree, maxEvalPoints, hidingBound uint64, rng io.Reader) (*SRS, error) {
	if err := validateParams(maxDegree, maxEvalPoints, hidingBound); err != nil {
		return nil, err
	}

	var entropy [2 * trapdoorEntropyBytes]byte
	if _, err := io.ReadFull(rng, entropy[:]); err != nil {
		return nil, fmt.Errorf("reading trapdoor randomness: %w", err)
	}
	tau := utils.ScalarFromUniformBytes(entropy[:trapdoorEntropyBytes])
	gamma := utils.ScalarFromUniformBytes(entropy[trapdoorEntropyBytes:])
	clear(entropy[:])

	srs := newSRS(maxDegree, maxEvalPoints, hidingBound, tau, gamma)

	tau.SetZero()
	gamma.SetZero()

	return srs, nil
}

// NewSRSInsecure creates an SRS from known trapdoors.
//
// Anyone knowing `tau` can forge proofs, so this is only for tests and
// deterministic vectors.
func NewSRSInsecure(maxDegree, maxEvalPoints, hidingBound uint64, tau, gamma *big.Int) (*SRS, error) {
	if err := validateParams(maxDegree, maxEvalPoints, hidingBound); err != nil {
		return nil, err
	}

	var tauFr, gammaFr fr.Element
	tauFr.SetBigInt(tau)
	gammaFr.SetBigInt(gamma)

	return newSRS(maxDegree, maxEvalPoints, hidingBound, tauFr, gammaFr), nil
}

func validateParams(maxDegree, maxEvalPoints, hidingBound uint64) error {
	if maxDegree == 0 {
		return fmt.Errorf("%w: max degree must be at least 1", ErrConfig)
	}
	if maxDegree > MaxDegreeCeiling {
		return fmt.Errorf("%w: max degree %d is above the ceiling %d", ErrConfig, maxDegree, MaxDegreeCeiling)
	}
	if maxEvalPoints == 0 || maxEvalPoints > maxDegree+1 {
		return fmt.Errorf("%w: max evaluation points must be in [1, %d], got %d", ErrConfig, maxDegree+1, maxEvalPoints)
	}
	if hidingBound > maxDegree {
		return fmt.Errorf("%w: hiding bound %d is above the max degree %d", ErrConfig, hidingBound, maxDegree)
	}
	return nil
}

func newSRS(maxDegree, maxEvalPoints, hidingBound uint64, tau, gamma fr.Element) *SRS {
	_, _, genG1, genG2 := bls12381.Generators()

	// [1, τ, ..., τ^m] with m = max(d, k). The opening key may hold one more
	// power than the commit key.
	powers := utils.ComputePowers(tau, uint(max(maxDegree, maxEvalPoints)+1))

	var commitKey CommitKey
	commitKey.G1 = make([]bls12381.G1Affine, maxDegree+1)
	commitKey.G1[0] = genG1
	copy(commitKey.G1[1:], bls12381.BatchScalarMultiplicationG1(&genG1, powers[1:]))

	var gammaG1 bls12381.G1Affine
	gammaG1Jac := bls12381_copied.ScalarMulG1(&genG1, &gamma)
	gammaG1.FromJacobian(&gammaG1Jac)
	commitKey.GammaG1 = make([]bls12381.G1Affine, hidingBound+1)
	commitKey.GammaG1[0] = gammaG1
	if hidingBound > 0 {
		copy(commitKey.GammaG1[1:], bls12381.BatchScalarMultiplicationG1(&gammaG1, powers[1:hidingBound+1]))
	}

	var openKey OpeningKey
	openKey.GenG1 = genG1
	openKey.GammaG1 = gammaG1
	openKey.GenG2 = genG2
	openKey.G2 = make([]bls12381.G2Affine, maxEvalPoints+1)
	openKey.G2[0] = genG2
	for i := 1; i < len(openKey.G2); i++ {
		g2Jac := bls12381_copied.ScalarMulG2(&genG2, &powers[i])
		openKey.G2[i].FromJacobian(&g2Jac)
	}
	openKey.AlphaG2 = openKey.G2[1]

	clear(powers)

	return &SRS{
		CommitKey:  commitKey,
		OpeningKey: openKey,
	}
}

// Trim returns an SRS that only commits to polynomials of degree at most
// `maxDegree`. The returned SRS shares its points with the receiver.
func (srs *SRS) Trim(maxDegree uint64) (*SRS, error) {
	if maxDegree == 0 {
		return nil, fmt.Errorf("%w: max degree must be at least 1", ErrConfig)
	}
	if maxDegree > uint64(srs.CommitKey.MaxDegree()) {
		return nil, fmt.Errorf("%w: cannot trim an srs of degree %d to %d", ErrDegreeExceeded, srs.CommitKey.MaxDegree(), maxDegree)
	}

	trimmed := *srs
	trimmed.CommitKey.G1 = srs.CommitKey.G1[:maxDegree+1]
	if uint64(len(trimmed.CommitKey.GammaG1)) > maxDegree+1 {
		trimmed.CommitKey.GammaG1 = srs.CommitKey.GammaG1[:maxDegree+1]
	}
	if uint64(len(trimmed.OpeningKey.G2)) > maxDegree+2 {
		trimmed.OpeningKey.G2 = srs.OpeningKey.G2[:maxDegree+2]
	}
	return &trimmed, nil
}
