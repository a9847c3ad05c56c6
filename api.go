package kzggrid

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/kzg"
	"github.com/crate-crypto/go-kzg-grid/internal/multiproof"
	"go.uber.org/zap"
)

// Commit commits to `poly`. A non-empty `blinding` polynomial makes the
// commitment hiding; its degree must not exceed the hiding bound.
func (ctx *Context) Commit(poly, blinding Polynomial) (*Commitment, error) {
	return kzg.Commit(ctx.strategy, poly, blinding)
}

// CommitEvaluations commits to the polynomial of degree < len(evals) whose
// evaluations over the domain of size len(evals) are `evals`.
func (ctx *Context) CommitEvaluations(evals []fr.Element) (*Commitment, error) {
	// The Lagrange strategy commits to evaluations directly
	if committer, ok := ctx.strategy.(kzg.EvaluationCommitter); ok {
		return committer.CommitEvaluations(evals)
	}
	if len(evals) == 0 {
		return ctx.strategy.Commit(nil)
	}

	// 1. Interpolate the evaluations
	codec, err := ctx.codec(uint64(len(evals)), 0)
	if err != nil {
		return nil, err
	}
	coeffs := codec.RowDomain().IfftFr(evals)

	// 2. Commit to the coefficients
	return ctx.strategy.Commit(coeffs)
}

// Open computes p(point) and a proof for it.
func (ctx *Context) Open(poly Polynomial, point fr.Element) (OpeningProof, error) {
	return kzg.Open(ctx.strategy, poly, point)
}

// OpenHiding is Open for a commitment created with a blinding polynomial.
func (ctx *Context) OpenHiding(poly, blinding Polynomial, point fr.Element) (OpeningProof, error) {
	return kzg.OpenHiding(ctx.strategy, poly, blinding, point)
}

// Verify checks a single opening. An invalid proof returns false and no
// error.
func (ctx *Context) Verify(commitment *Commitment, proof *OpeningProof) (bool, error) {
	return kzg.Verify(commitment, proof, &ctx.srs.OpeningKey)
}

// BatchVerify checks many openings with one pairing check. It returns true
// exactly when Verify returns true for every pair.
func (ctx *Context) BatchVerify(commitments []Commitment, proofs []OpeningProof) (bool, error) {
	return kzg.BatchVerify(commitments, proofs, &ctx.srs.OpeningKey)
}

// OpenMany opens every polynomial at its points with a single aggregated
// proof, using the configured multi-proof scheme. It returns the proof and
// the claims the verifier needs.
func (ctx *Context) OpenMany(commitments []Commitment, openings []Opening, transcript *Transcript) (*AggregatedProof, []Claim, error) {
	ctx.logger.Debug("opening polynomials",
		zap.String("scheme", ctx.config.MultiProofScheme),
		zap.Int("num_polys", len(openings)),
	)
	return multiproof.Open(ctx.config.MultiProofScheme, ctx.strategy, ctx.srs.OpeningKey.MaxEvalPoints(), commitments, openings, ctx.transcriptOrDefault(transcript), ctx.config.NumGoRoutines)
}

// VerifyMany checks an aggregated proof. The transcript must be seeded the
// same way as the prover's. A false claim returns false and no error.
func (ctx *Context) VerifyMany(commitments []Commitment, claims []Claim, proof *AggregatedProof, transcript *Transcript) (bool, error) {
	ok, err := multiproof.Verify(commitments, claims, proof, &ctx.srs.OpeningKey, ctx.transcriptOrDefault(transcript))
	if err != nil {
		ctx.logger.Debug("aggregated proof rejected", zap.String("scheme", proof.Scheme), zap.Error(err))
	}
	return ok, err
}

// defaultTranscriptLabel seeds the transcript when the caller passes nil.
const defaultTranscriptLabel = "kzg-grid/v1"

func (ctx *Context) transcriptOrDefault(transcript *Transcript) *Transcript {
	if transcript == nil {
		return NewTranscript(defaultTranscriptLabel)
	}
	return transcript
}
