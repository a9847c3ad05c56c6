package fiatshamir

import (
	"crypto/sha256"
	"encoding"
	"encoding/binary"
	"fmt"
	"hash"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/utils"
)

// Transcript accumulates the public messages of a protocol and squeezes
// challenge scalars out of them. See: Fiat-Shamir
//
// A Transcript has a single owner: every append and every challenge
// mutates it, so it must not be shared between goroutines.
type Transcript struct {
	state hash.Hash
}

// NewTranscript returns a transcript bound to the protocol `label`.
func NewTranscript(label string) *Transcript {
	transcript := &Transcript{
		state: sha256.New(),
	}
	transcript.DomainSep(label)

	return transcript
}

// DomainSep separates a sub protocol using a length-prefixed label.
func (t *Transcript) DomainSep(label string) {
	t.AppendUint64(uint64(len(label)))
	t.appendMessage([]byte(label))
}

// Clone returns a transcript with the same state that evolves independently
// of the receiver.
func (t *Transcript) Clone() (*Transcript, error) {
	marshaler, ok := t.state.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("transcript state %T cannot be copied", t.state)
	}
	state, err := marshaler.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("copying transcript state: %w", err)
	}

	clone := sha256.New()
	if err := clone.(encoding.BinaryUnmarshaler).UnmarshalBinary(state); err != nil {
		return nil, fmt.Errorf("copying transcript state: %w", err)
	}
	return &Transcript{state: clone}, nil
}

func (t *Transcript) appendMessage(message []byte) {
	t.state.Write(message)
}

// AppendUint64 appends the little-endian encoding of n.
func (t *Transcript) AppendUint64(n uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], n)
	t.appendMessage(b[:])
}

// AppendScalar appends the 32 byte little-endian encoding of the scalar.
func (t *Transcript) AppendScalar(scalar fr.Element) {
	tmpBytes := scalar.Bytes()
	utils.Reverse(tmpBytes[:])

	t.appendMessage(tmpBytes[:])
}

// AppendScalars appends the number of scalars followed by each scalar.
func (t *Transcript) AppendScalars(scalars []fr.Element) {
	t.AppendUint64(uint64(len(scalars)))
	for _, scalar := range scalars {
		t.AppendScalar(scalar)
	}
}

// AppendPoint appends the 48 byte compressed encoding of the point.
//
// The bytes are not reversed; we use the zcash encoding format.
func (t *Transcript) AppendPoint(point bls12381.G1Affine) {
	tmpBytes := point.Bytes()
	t.appendMessage(tmpBytes[:])
}

// AppendPoints appends the number of points followed by each point.
func (t *Transcript) AppendPoints(points []bls12381.G1Affine) {
	t.AppendUint64(uint64(len(points)))
	for _, point := range points {
		t.AppendPoint(point)
	}
}

// ChallengeScalars computes challenges based off of the state of the transcript.
//
// Hash the transcript state, then reduce the hash modulo the size of the
// scalar field, appending an integer to denote the challenge index.
//
// The compressed state is appended back into the transcript, so calling this
// twice yields different challenges and later appends are bound to the earlier
// challenges.
func (t *Transcript) ChallengeScalars(numChallenges uint8) []fr.Element {
	compressedState := t.state.Sum(nil)

	challenges := make([]fr.Element, numChallenges)
	hashInput := make([]byte, len(compressedState)+1)
	copy(hashInput, compressedState)
	for challengeIndex := uint8(0); challengeIndex < numChallenges; challengeIndex++ {
		hashInput[len(hashInput)-1] = challengeIndex
		digest := sha256.Sum256(hashInput)

		// Interpret the digest as a little-endian integer
		utils.Reverse(digest[:])
		challenges[challengeIndex].SetBytes(digest[:])
	}

	t.state.Reset()
	t.appendMessage(compressedState)

	return challenges
}

// ChallengeScalar returns a single challenge.
func (t *Transcript) ChallengeScalar() fr.Element {
	return t.ChallengeScalars(1)[0]
}
