package kzg

import (
	"errors"
	"math/big"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"
)

var (
	testTau, _   = new(big.Int).SetString("1927409816240961209460912649124", 10)
	testGamma, _ = new(big.Int).SetString("8923749873459872394872394823", 10)
)

func newTestSRS(t testing.TB, maxDegree, maxEvalPoints, hidingBound uint64) *SRS {
	t.Helper()
	srs, err := NewSRSInsecure(maxDegree, maxEvalPoints, hidingBound, testTau, testGamma)
	if err != nil {
		t.Fatalf("creating srs: %v", err)
	}
	return srs
}

func newTestStrategy(t testing.TB, name string, ck *CommitKey) CommitmentStrategy {
	t.Helper()
	strategy, err := NewCommitmentStrategy(name, ck, StrategyConfig{PrecomputeWindowBits: 4})
	if err != nil {
		t.Fatalf("creating %s strategy: %v", name, err)
	}
	return strategy
}

func polyFromUint64(coeffs ...uint64) Polynomial {
	p := make(Polynomial, len(coeffs))
	for i, c := range coeffs {
		p[i].SetUint64(c)
	}
	return p
}

func randPoly(t testing.TB, size int) Polynomial {
	t.Helper()
	p := make(Polynomial, size)
	for i := range p {
		if _, err := p[i].SetRandom(); err != nil {
			t.Fatal(err)
		}
	}
	return p
}

func TestOpenAndVerifySmoke(t *testing.T) {
	srs := newTestSRS(t, 4, 1, 1)
	// 1 + 2X + 3X^2 + 4X^3
	p := polyFromUint64(1, 2, 3, 4)
	point := fr.NewElement(5)
	expected := fr.NewElement(586)

	for _, name := range Strategies() {
		t.Run(name, func(t *testing.T) {
			strategy := newTestStrategy(t, name, &srs.CommitKey)

			comm, err := Commit(strategy, p, nil)
			require.NoError(t, err)

			proof, err := Open(strategy, p, point)
			require.NoError(t, err)
			require.True(t, proof.ClaimedValue.Equal(&expected), "got %s", proof.ClaimedValue.String())
			require.Nil(t, proof.RandomV)

			ok, err := Verify(comm, &proof, &srs.OpeningKey)
			require.NoError(t, err)
			require.True(t, ok)

			proof.ClaimedValue = fr.NewElement(587)
			ok, err = Verify(comm, &proof, &srs.OpeningKey)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestVerifyRejectsWrongPoint(t *testing.T) {
	srs := newTestSRS(t, 8, 1, 1)
	strategy := newTestStrategy(t, StrategyPippenger, &srs.CommitKey)
	p := randPoly(t, 9)

	comm, err := Commit(strategy, p, nil)
	require.NoError(t, err)
	proof, err := Open(strategy, p, fr.NewElement(12))
	require.NoError(t, err)

	proof.InputPoint = fr.NewElement(13)
	ok, err := Verify(comm, &proof, &srs.OpeningKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpenAtZeroAndConstant(t *testing.T) {
	srs := newTestSRS(t, 4, 1, 1)
	strategy := newTestStrategy(t, StrategyNaive, &srs.CommitKey)

	// A constant polynomial has an empty quotient, so the proof is the identity
	p := polyFromUint64(42)
	comm, err := Commit(strategy, p, nil)
	require.NoError(t, err)
	proof, err := Open(strategy, p, fr.NewElement(77))
	require.NoError(t, err)
	require.True(t, proof.QuotientComm.IsInfinity())

	ok, err := Verify(comm, &proof, &srs.OpeningKey)
	require.NoError(t, err)
	require.True(t, ok)

	// Opening at zero returns the constant term
	p = polyFromUint64(9, 8, 7)
	proof, err = Open(strategy, p, fr.NewElement(0))
	require.NoError(t, err)
	nine := fr.NewElement(9)
	require.True(t, proof.ClaimedValue.Equal(&nine))
}

func TestCommitDegreeExceeded(t *testing.T) {
	srs := newTestSRS(t, 4, 1, 1)

	for _, name := range Strategies() {
		strategy := newTestStrategy(t, name, &srs.CommitKey)

		_, err := Commit(strategy, randPoly(t, 6), nil)
		if !errors.Is(err, ErrDegreeExceeded) {
			t.Fatalf("%s: expected ErrDegreeExceeded, got %v", name, err)
		}
		_, err = Open(strategy, randPoly(t, 6), fr.NewElement(1))
		if !errors.Is(err, ErrDegreeExceeded) {
			t.Fatalf("%s: expected ErrDegreeExceeded from Open, got %v", name, err)
		}
	}

	// The hiding bound is 1, so the blinding polynomial can have two coefficients
	strategy := newTestStrategy(t, StrategyNaive, &srs.CommitKey)
	_, err := Commit(strategy, randPoly(t, 5), randPoly(t, 3))
	require.ErrorIs(t, err, ErrDegreeExceeded)
}

func TestCommitEmptyPolynomial(t *testing.T) {
	srs := newTestSRS(t, 4, 1, 1)
	for _, name := range Strategies() {
		strategy := newTestStrategy(t, name, &srs.CommitKey)
		comm, err := Commit(strategy, Polynomial{}, nil)
		require.NoError(t, err)
		require.True(t, comm.IsInfinity(), "%s: empty polynomial must commit to the identity", name)
	}
}

func TestQuotientRejectsWrongValue(t *testing.T) {
	p := polyFromUint64(1, 2, 3, 4)

	_, err := quotientAt(p, fr.NewElement(5), fr.NewElement(587))
	require.ErrorIs(t, err, ErrInternalInvariantViolation)

	_, err = quotientAt(Polynomial{}, fr.NewElement(5), fr.NewElement(1))
	require.ErrorIs(t, err, ErrNonZeroRemainder)

	quotient, err := quotientAt(p, fr.NewElement(5), fr.NewElement(586))
	require.NoError(t, err)
	require.Len(t, quotient, 3)
}

func TestHidingOpening(t *testing.T) {
	srs := newTestSRS(t, 16, 1, 3)
	strategy := newTestStrategy(t, StrategyPippenger, &srs.CommitKey)

	p := randPoly(t, 17)
	blinding := randPoly(t, 4)
	point := fr.NewElement(31337)

	comm, err := Commit(strategy, p, blinding)
	require.NoError(t, err)

	unblinded, err := Commit(strategy, p, nil)
	require.NoError(t, err)
	require.False(t, comm.Equal(unblinded))

	proof, err := OpenHiding(strategy, p, blinding, point)
	require.NoError(t, err)
	require.NotNil(t, proof.RandomV)

	ok, err := Verify(comm, &proof, &srs.OpeningKey)
	require.NoError(t, err)
	require.True(t, ok)

	// The blinded commitment does not verify without the hiding term
	withoutHiding := proof
	withoutHiding.RandomV = nil
	ok, err = Verify(comm, &withoutHiding, &srs.OpeningKey)
	require.NoError(t, err)
	require.False(t, ok)

	var tampered fr.Element
	tampered.Add(proof.RandomV, new(fr.Element).SetOne())
	proof.RandomV = &tampered
	ok, err = Verify(comm, &proof, &srs.OpeningKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHidingOpeningWithoutBlinding(t *testing.T) {
	srs := newTestSRS(t, 8, 1, 1)
	strategy := newTestStrategy(t, StrategyWindowed, &srs.CommitKey)
	p := randPoly(t, 5)

	comm, err := Commit(strategy, p, nil)
	require.NoError(t, err)
	proof, err := OpenHiding(strategy, p, nil, fr.NewElement(3))
	require.NoError(t, err)
	require.True(t, proof.RandomV.IsZero())

	ok, err := Verify(comm, &proof, &srs.OpeningKey)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsPointOutsideSubgroup(t *testing.T) {
	srs := newTestSRS(t, 4, 1, 1)
	strategy := newTestStrategy(t, StrategyNaive, &srs.CommitKey)
	p := polyFromUint64(1, 2, 3, 4)

	comm, err := Commit(strategy, p, nil)
	require.NoError(t, err)
	proof, err := Open(strategy, p, fr.NewElement(5))
	require.NoError(t, err)

	// (0, 2) is on the curve y^2 = x^3 + 4 but not in the prime order subgroup
	var bad bls12381.G1Affine
	bad.Y.SetUint64(2)
	proof.QuotientComm = bad

	_, err = Verify(comm, &proof, &srs.OpeningKey)
	require.ErrorIs(t, err, ErrPointNotInSubgroup)
}

func TestBatchVerify(t *testing.T) {
	srs := newTestSRS(t, 16, 1, 2)
	strategy := newTestStrategy(t, StrategyPippenger, &srs.CommitKey)

	numProofs := 10
	commitments := make([]Commitment, 0, numProofs)
	proofs := make([]OpeningProof, 0, numProofs)
	for i := 0; i < numProofs; i++ {
		p := randPoly(t, 1+i)
		var point fr.Element
		_, _ = point.SetRandom()

		// Mix hiding and non-hiding proofs
		var blinding Polynomial
		if i%3 == 0 {
			blinding = randPoly(t, 3)
		}
		comm, err := Commit(strategy, p, blinding)
		require.NoError(t, err)
		proof, err := OpenHiding(strategy, p, blinding, point)
		require.NoError(t, err)
		if blinding == nil {
			proof.RandomV = nil
		}

		commitments = append(commitments, *comm)
		proofs = append(proofs, proof)
	}

	ok, err := BatchVerify(commitments, proofs, &srs.OpeningKey)
	require.NoError(t, err)
	require.True(t, ok)

	// An invalid proof makes the whole batch fail
	proofs[4].ClaimedValue.Add(&proofs[4].ClaimedValue, new(fr.Element).SetOne())
	ok, err = BatchVerify(commitments, proofs, &srs.OpeningKey)
	require.NoError(t, err)
	require.False(t, ok)

	// Verifying each proof individually gives the same answer
	allValid := true
	for i := range proofs {
		valid, err := Verify(&commitments[i], &proofs[i], &srs.OpeningKey)
		require.NoError(t, err)
		allValid = allValid && valid
	}
	require.False(t, allValid)
}

func TestBatchVerifyEdgeCases(t *testing.T) {
	srs := newTestSRS(t, 4, 1, 1)

	ok, err := BatchVerify(nil, nil, &srs.OpeningKey)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = BatchVerify(make([]Commitment, 2), make([]OpeningProof, 1), &srs.OpeningKey)
	require.ErrorIs(t, err, ErrInvalidNumDigests)

	strategy := newTestStrategy(t, StrategyNaive, &srs.CommitKey)
	p := polyFromUint64(1, 2, 3, 4)
	comm, err := Commit(strategy, p, nil)
	require.NoError(t, err)
	proof, err := Open(strategy, p, fr.NewElement(5))
	require.NoError(t, err)

	ok, err = BatchVerify([]Commitment{*comm}, []OpeningProof{proof}, &srs.OpeningKey)
	require.NoError(t, err)
	require.True(t, ok)
}
