package kzg

import (
	"errors"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestStrategiesAgree(t *testing.T) {
	// 20 points, so the lagrange strategy commits in chunks of 16
	srs := newTestSRS(t, 19, 1, 1)

	strategies := make([]CommitmentStrategy, 0)
	for _, name := range Strategies() {
		strategies = append(strategies, newTestStrategy(t, name, &srs.CommitKey))
	}

	for size := 1; size <= 20; size++ {
		p := randPoly(t, size)

		expected, err := strategies[0].Commit(p)
		require.NoError(t, err)

		for _, strategy := range strategies[1:] {
			got, err := strategy.Commit(p)
			require.NoError(t, err)
			if !expected.Equal(got) {
				t.Fatalf("%s and %s disagree for a polynomial of size %d", strategies[0].Name(), strategy.Name(), size)
			}
		}
	}
}

func TestStrategiesAgreeWithBlinding(t *testing.T) {
	srs := newTestSRS(t, 7, 1, 2)
	p := randPoly(t, 8)
	blinding := randPoly(t, 3)

	var expected *Commitment
	for _, name := range Strategies() {
		comm, err := Commit(newTestStrategy(t, name, &srs.CommitKey), p, blinding)
		require.NoError(t, err)
		if expected == nil {
			expected = comm
			continue
		}
		require.True(t, expected.Equal(comm), "%s differs", name)
	}
}

func TestLagrangeCommitEvaluations(t *testing.T) {
	srs := newTestSRS(t, 15, 1, 1)
	strategy := newTestStrategy(t, StrategyLagrange, &srs.CommitKey)
	evalCommitter, ok := strategy.(EvaluationCommitter)
	require.True(t, ok)

	for _, size := range []uint64{1, 2, 8, 16} {
		d := domain.NewDomain(size)
		evals := randPoly(t, int(size))
		coeffs := d.IfftFr(evals)

		expected, err := strategy.Commit(coeffs)
		require.NoError(t, err)
		got, err := evalCommitter.CommitEvaluations(evals)
		require.NoError(t, err)
		require.True(t, expected.Equal(got), "size %d", size)
	}

	_, err := evalCommitter.CommitEvaluations(make([]fr.Element, 3))
	require.ErrorIs(t, err, ErrConfig)

	_, err = evalCommitter.CommitEvaluations(make([]fr.Element, 32))
	require.ErrorIs(t, err, ErrDegreeExceeded)
}

func TestNewCommitmentStrategyErrors(t *testing.T) {
	srs := newTestSRS(t, 4, 1, 1)

	_, err := NewCommitmentStrategy("fast", &srs.CommitKey, StrategyConfig{})
	if !errors.Is(err, ErrUnknownStrategy) || !errors.Is(err, ErrConfig) {
		t.Fatalf("expected an unknown strategy config error, got %v", err)
	}

	_, err = NewCommitmentStrategy(StrategyPrecomputed, &srs.CommitKey, StrategyConfig{PrecomputeWindowBits: 17})
	require.ErrorIs(t, err, ErrConfig)

	_, err = NewCommitmentStrategy(StrategyPippenger, &srs.CommitKey, StrategyConfig{NumGoRoutines: 1024})
	require.ErrorIs(t, err, ErrConfig)

	for _, name := range Strategies() {
		strategy, err := NewCommitmentStrategy(name, &srs.CommitKey, StrategyConfig{})
		require.NoError(t, err)
		require.Equal(t, name, strategy.Name())
		require.Same(t, &srs.CommitKey, strategy.CommitKey())
	}
}

func TestStrategiesAreSafeForConcurrentUse(t *testing.T) {
	srs := newTestSRS(t, 31, 1, 1)
	p := randPoly(t, 32)

	for _, name := range []string{StrategyPrecomputed, StrategyLagrange} {
		strategy := newTestStrategy(t, name, &srs.CommitKey)

		results := make(chan *Commitment, 8)
		errs := make(chan error, 8)
		for i := 0; i < 8; i++ {
			go func() {
				comm, err := strategy.Commit(p)
				results <- comm
				errs <- err
			}()
		}

		var first *Commitment
		for i := 0; i < 8; i++ {
			require.NoError(t, <-errs)
			comm := <-results
			if first == nil {
				first = comm
				continue
			}
			require.True(t, first.Equal(comm))
		}
	}
}
