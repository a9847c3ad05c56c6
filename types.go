package kzggrid

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/erasure_code"
	"github.com/crate-crypto/go-kzg-grid/internal/fiatshamir"
	"github.com/crate-crypto/go-kzg-grid/internal/kzg"
	"github.com/crate-crypto/go-kzg-grid/internal/multiproof"
)

// Scalar is an element of the scalar field of BLS12-381.
type Scalar = fr.Element

// Polynomial is a polynomial in coefficient form, lowest degree first.
type Polynomial = kzg.Polynomial

// SRS is the structured reference string. It is created once and shared
// read-only between contexts.
type SRS = kzg.SRS

// Commitment is a G1 commitment to a polynomial.
type Commitment = kzg.Commitment

// OpeningProof proves the value of a committed polynomial at one point.
type OpeningProof = kzg.OpeningProof

// Opening is a polynomial together with the points to open it at.
type Opening = multiproof.Opening

// Claim is the verifier's view of an Opening: the points and the values
// the polynomial takes there.
type Claim = multiproof.Claim

// AggregatedProof opens many polynomials at many points.
type AggregatedProof = multiproof.Proof

// Transcript is a Fiat-Shamir transcript. A transcript belongs to a single
// goroutine and is consumed by the proof it is used for.
type Transcript = fiatshamir.Transcript

// NewTranscript returns a transcript seeded with `label`. The prover and the
// verifier must use the same label.
func NewTranscript(label string) *Transcript {
	return fiatshamir.NewTranscript(label)
}

// DecodeMethod selects how rows are reconstructed from samples.
type DecodeMethod = erasure_code.DecodeMethod

const (
	DecodeAuto     = erasure_code.DecodeAuto
	DecodeFFT      = erasure_code.DecodeFFT
	DecodeLagrange = erasure_code.DecodeLagrange
)

// Names of the commitment strategies.
const (
	StrategyNaive       = kzg.StrategyNaive
	StrategyWindowed    = kzg.StrategyWindowed
	StrategyPippenger   = kzg.StrategyPippenger
	StrategyPrecomputed = kzg.StrategyPrecomputed
	StrategyLagrange    = kzg.StrategyLagrange
)

// Names of the multi-proof schemes.
const (
	SchemeSharedSet = multiproof.SchemeSharedSet
	SchemeBDFG      = multiproof.SchemeBDFG
)
