package kzg

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/stretchr/testify/require"
)

func TestSRSStructure(t *testing.T) {
	srs := newTestSRS(t, 6, 3, 2)

	require.Len(t, srs.CommitKey.G1, 7)
	require.Len(t, srs.CommitKey.GammaG1, 3)
	require.Len(t, srs.OpeningKey.G2, 4)
	require.Equal(t, 6, srs.CommitKey.MaxDegree())
	require.Equal(t, 2, srs.CommitKey.HidingBound())
	require.Equal(t, 3, srs.OpeningKey.MaxEvalPoints())

	_, _, genG1, genG2 := bls12381.Generators()
	require.True(t, srs.CommitKey.G1[0].Equal(&genG1))
	require.True(t, srs.OpeningKey.G2[0].Equal(&genG2))
	require.True(t, srs.OpeningKey.AlphaG2.Equal(&srs.OpeningKey.G2[1]))
	require.True(t, srs.OpeningKey.GammaG1.Equal(&srs.CommitKey.GammaG1[0]))

	// e(τ^{i+1} g, h) = e(τ^i g, τh)
	for i := 0; i+1 < len(srs.CommitKey.G1); i++ {
		assertPairingRatio(t, srs.CommitKey.G1[i+1], srs.OpeningKey.GenG2, srs.CommitKey.G1[i], srs.OpeningKey.AlphaG2)
	}
	for i := 0; i+1 < len(srs.CommitKey.GammaG1); i++ {
		assertPairingRatio(t, srs.CommitKey.GammaG1[i+1], srs.OpeningKey.GenG2, srs.CommitKey.GammaG1[i], srs.OpeningKey.AlphaG2)
	}
	// e(g, τ^{i+1} h) = e(τg, τ^i h)
	for i := 0; i+1 < len(srs.OpeningKey.G2); i++ {
		assertPairingRatio(t, srs.CommitKey.G1[0], srs.OpeningKey.G2[i+1], srs.CommitKey.G1[1], srs.OpeningKey.G2[i])
	}
}

// assertPairingRatio checks e(a1, b1) = e(a2, b2).
func assertPairingRatio(t *testing.T, a1 bls12381.G1Affine, b1 bls12381.G2Affine, a2 bls12381.G1Affine, b2 bls12381.G2Affine) {
	t.Helper()
	var negA2 bls12381.G1Affine
	negA2.Neg(&a2)
	ok, err := bls12381.PairingCheck([]bls12381.G1Affine{a1, negA2}, []bls12381.G2Affine{b1, b2})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestNewSRSFromReader(t *testing.T) {
	entropy := bytes.Repeat([]byte{0xab, 0x01, 0x77}, 32)

	first, err := NewSRS(8, 2, 1, bytes.NewReader(entropy))
	require.NoError(t, err)
	second, err := NewSRS(8, 2, 1, bytes.NewReader(entropy))
	require.NoError(t, err)

	// Same randomness gives the same SRS
	for i := range first.CommitKey.G1 {
		require.True(t, first.CommitKey.G1[i].Equal(&second.CommitKey.G1[i]))
	}
	require.True(t, first.OpeningKey.GammaG1.Equal(&second.OpeningKey.GammaG1))

	// A short reader is an error rather than a weak trapdoor
	_, err = NewSRS(8, 2, 1, bytes.NewReader(entropy[:50]))
	require.Error(t, err)
}

func TestNewSRSValidation(t *testing.T) {
	tau := big.NewInt(12345)
	tests := []struct {
		name                                 string
		maxDegree, maxEvalPoints, hidingBound uint64
	}{
		{"zero degree", 0, 1, 0},
		{"above ceiling", MaxDegreeCeiling + 1, 1, 0},
		{"zero eval points", 4, 0, 0},
		{"too many eval points", 4, 6, 0},
		{"hiding bound above degree", 4, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSRSInsecure(tt.maxDegree, tt.maxEvalPoints, tt.hidingBound, tau, tau)
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("expected ErrConfig, got %v", err)
			}
		})
	}

	_, err := NewSRSInsecure(4, 5, 4, tau, tau)
	require.NoError(t, err)
}

func TestEvalPointsOneAboveDegree(t *testing.T) {
	for _, maxDegree := range []uint64{1, 2, 4, 15} {
		srs := newTestSRS(t, maxDegree, maxDegree+1, 1)
		require.Len(t, srs.CommitKey.G1, int(maxDegree)+1)
		require.Len(t, srs.OpeningKey.G2, int(maxDegree)+2)
		require.Equal(t, int(maxDegree)+1, srs.OpeningKey.MaxEvalPoints())

		// The G2 power past the commit key is still τ^{d+1} h
		last := len(srs.OpeningKey.G2) - 1
		assertPairingRatio(t, srs.CommitKey.G1[0], srs.OpeningKey.G2[last], srs.CommitKey.G1[1], srs.OpeningKey.G2[last-1])
	}
}

func TestTrim(t *testing.T) {
	srs := newTestSRS(t, 8, 4, 3)

	trimmed, err := srs.Trim(2)
	require.NoError(t, err)
	require.Equal(t, 2, trimmed.CommitKey.MaxDegree())
	require.Equal(t, 2, trimmed.CommitKey.HidingBound())
	require.Equal(t, 3, trimmed.OpeningKey.MaxEvalPoints())
	// The original is unchanged
	require.Equal(t, 8, srs.CommitKey.MaxDegree())

	strategy := newTestStrategy(t, StrategyNaive, &trimmed.CommitKey)
	_, err = Commit(strategy, polyFromUint64(1, 2, 3, 4), nil)
	require.ErrorIs(t, err, ErrDegreeExceeded)

	// Commitments under the trimmed SRS match the full one
	p := polyFromUint64(1, 2, 3)
	full, err := Commit(newTestStrategy(t, StrategyNaive, &srs.CommitKey), p, nil)
	require.NoError(t, err)
	small, err := Commit(strategy, p, nil)
	require.NoError(t, err)
	require.True(t, full.Equal(small))

	_, err = srs.Trim(9)
	require.ErrorIs(t, err, ErrDegreeExceeded)
	_, err = srs.Trim(0)
	require.ErrorIs(t, err, ErrConfig)
}
