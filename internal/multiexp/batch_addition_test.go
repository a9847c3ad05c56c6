package multiexp

import (
	"math/big"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

func TestMultiBatchAdditionBinaryStride(t *testing.T) {
	numPoints := 99
	numSets := 5

	sets := make([][]bls12381.G1Affine, numSets)
	for i := range sets {
		sets[i] = genG1Points(uint(numPoints + i))
	}

	// Calculate expected results with plain mixed additions
	expected := make([]bls12381.G1Jac, len(sets))
	for i, points := range sets {
		for j := range points {
			expected[i].AddMixed(&points[j])
		}
	}

	got := MultiBatchAdditionBinaryTreeStride(clonePoints(sets))
	for i := range expected {
		if !expected[i].Equal(&got[i]) {
			t.Errorf("Results don't match for set %d", i)
		}
	}
}

func TestBatchAdditionSingleSet(t *testing.T) {
	points := genG1Points(101)

	var expected bls12381.G1Jac
	for i := 0; i < len(points); i++ {
		expected.AddMixed(&points[i])
	}

	got := MultiBatchAdditionBinaryTreeStride(clonePoints([][]bls12381.G1Affine{points}))[0]
	if !expected.Equal(&got) {
		t.Error("Batch addition result doesn't match regular addition")
	}

	emptyResult := MultiBatchAdditionBinaryTreeStride([][]bls12381.G1Affine{{}})[0]
	if !emptyResult.Equal(new(bls12381.G1Jac)) {
		t.Error("Empty slice should return identity point")
	}

	singlePoint := randomPoint()
	singleResult := MultiBatchAdditionBinaryTreeStride([][]bls12381.G1Affine{{singlePoint}})[0]
	var expectedSingle bls12381.G1Jac
	expectedSingle.FromAffine(&singlePoint)
	if !singleResult.Equal(&expectedSingle) {
		t.Error("Single point addition failed")
	}
}

func TestBatchAdditionHandlesDegeneratePairs(t *testing.T) {
	// Pairs of P and -P, doublings and the identity all need to be handled
	points := genG1Points(40)
	for i := 0; i < 10; i += 2 {
		points[i+1].Neg(&points[i])
	}
	points[20] = points[21]
	points[30] = bls12381.G1Affine{}

	var expected bls12381.G1Jac
	for i := 0; i < len(points); i++ {
		expected.AddMixed(&points[i])
	}

	got := MultiBatchAdditionBinaryTreeStride(clonePoints([][]bls12381.G1Affine{points}))[0]
	if !expected.Equal(&got) {
		t.Error("batch addition with degenerate pairs doesn't match regular addition")
	}
}

func clonePoints(sets [][]bls12381.G1Affine) [][]bls12381.G1Affine {
	clone := make([][]bls12381.G1Affine, len(sets))
	for i := range sets {
		clone[i] = make([]bls12381.G1Affine, len(sets[i]))
		copy(clone[i], sets[i])
	}
	return clone
}

func randomPoint() bls12381.G1Affine {
	var s fr.Element
	if _, err := s.SetRandom(); err != nil {
		panic(err)
	}
	bi := new(big.Int)
	s.BigInt(bi)

	var point bls12381.G1Affine
	point.ScalarMultiplicationBase(bi)

	return point
}
