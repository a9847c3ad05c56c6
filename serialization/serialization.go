package serialization

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/utils"
)

// This is the number of bytes needed to represent a
// group element in G1 when compressed.
const CompressedG1Size = 48

// This is the number of bytes needed to represent a
// group element in G2 when compressed.
const CompressedG2Size = 96

// This is the number of bytes needed to represent a field
// element corresponding to the order of the G1 group.
const SerializedScalarSize = 32

type Scalar = [SerializedScalarSize]byte
type G1Point = [CompressedG1Size]byte
type G2Point = [CompressedG2Size]byte

func SerializeG1Point(affine bls12381.G1Affine) G1Point {
	return affine.Bytes()
}

// DeserializeG1Point decodes a compressed point. This does a subgroup check.
func DeserializeG1Point(serPoint G1Point) (bls12381.G1Affine, error) {
	var point bls12381.G1Affine

	_, err := point.SetBytes(serPoint[:])
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	return point, nil
}

func SerializeG2Point(point bls12381.G2Affine) G2Point {
	return point.Bytes()
}

func DeserializeG2Point(serPoint G2Point) (bls12381.G2Affine, error) {
	var point bls12381.G2Affine

	_, err := point.SetBytes(serPoint[:])
	if err != nil {
		return bls12381.G2Affine{}, err
	}
	return point, nil
}

// SerializeScalar encodes the scalar as 32 little-endian bytes.
func SerializeScalar(element fr.Element) Scalar {
	byts := element.Bytes()
	utils.Reverse(byts[:])
	return byts
}

// DeserializeScalar decodes 32 little-endian bytes, rejecting integers that
// are not reduced modulo the scalar field.
func DeserializeScalar(serScalar Scalar) (fr.Element, error) {
	// gnark uses big-endian, so we reverse the scalar
	utils.Reverse(serScalar[:])
	scalar, err := utils.ReduceCanonical(serScalar[:])
	if err != nil {
		return fr.Element{}, ErrNonCanonicalScalar
	}
	return scalar, nil
}

// SerializeScalars concatenates the encodings of the scalars.
func SerializeScalars(scalars []fr.Element) []byte {
	out := make([]byte, 0, len(scalars)*SerializedScalarSize)
	for i := 0; i < len(scalars); i++ {
		serializedScalar := SerializeScalar(scalars[i])
		out = append(out, serializedScalar[:]...)
	}
	return out
}

// DeserializeScalars decodes a concatenation of 32 byte scalars.
func DeserializeScalars(byts []byte) ([]fr.Element, error) {
	if len(byts)%SerializedScalarSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(byts))
	}

	scalars := make([]fr.Element, len(byts)/SerializedScalarSize)
	for i, j := 0, 0; i < len(byts); i, j = i+SerializedScalarSize, j+1 {
		// Convert slice to array
		serializedScalar := (*Scalar)(byts[i : i+SerializedScalarSize])

		scalar, err := DeserializeScalar(*serializedScalar)
		if err != nil {
			return nil, fmt.Errorf("scalar %d: %w", j, err)
		}
		scalars[j] = scalar
	}
	return scalars, nil
}
