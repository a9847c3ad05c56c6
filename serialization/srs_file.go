package serialization

import (
	"encoding/hex"
	"fmt"
	"io"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/crate-crypto/go-kzg-grid/internal/kzg"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"
)

// Hex string for a compressed G1 point without the `0x` prefix
type G1CompressedHexStr = string

// Hex string for a compressed G2 point without the `0x` prefix
type G2CompressedHexStr = string

// SRSFile is the YAML layout of a structured reference string.
type SRSFile struct {
	// Powers of τ in G1
	G1 []G1CompressedHexStr `yaml:"g1"`
	// Powers of τ in G1 scaled by γ
	GammaG1 []G1CompressedHexStr `yaml:"gamma_g1"`
	// Powers of τ in G2
	G2 []G2CompressedHexStr `yaml:"g2"`
}

// WriteSRS writes `srs` to `w` as YAML.
func WriteSRS(w io.Writer, srs *kzg.SRS) error {
	file := SRSFile{
		G1:      make([]G1CompressedHexStr, len(srs.CommitKey.G1)),
		GammaG1: make([]G1CompressedHexStr, len(srs.CommitKey.GammaG1)),
		G2:      make([]G2CompressedHexStr, len(srs.OpeningKey.G2)),
	}
	for i := range srs.CommitKey.G1 {
		serPoint := SerializeG1Point(srs.CommitKey.G1[i])
		file.G1[i] = hex.EncodeToString(serPoint[:])
	}
	for i := range srs.CommitKey.GammaG1 {
		serPoint := SerializeG1Point(srs.CommitKey.GammaG1[i])
		file.GammaG1[i] = hex.EncodeToString(serPoint[:])
	}
	for i := range srs.OpeningKey.G2 {
		serPoint := SerializeG2Point(srs.OpeningKey.G2[i])
		file.G2[i] = hex.EncodeToString(serPoint[:])
	}

	out, err := yaml.Marshal(&file)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// ReadSRS parses an SRS written by WriteSRS. Points are decompressed and
// subgroup checked on up to numGoRoutines goroutines; 0 means no limit.
//
// The powers are checked to be consistent with each other, but nothing
// proves that the trapdoor was discarded.
func ReadSRS(r io.Reader, numGoRoutines int) (*kzg.SRS, error) {
	in, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var file SRSFile
	if err := yaml.UnmarshalStrict(in, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSRS, err)
	}
	if len(file.G1) < 2 || len(file.GammaG1) < 1 || len(file.G2) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 G1 powers, 1 hiding power and 2 G2 powers", ErrInvalidSRS)
	}

	var (
		g1      []bls12381.G1Affine
		gammaG1 []bls12381.G1Affine
		g2      []bls12381.G2Affine
	)
	var group errgroup.Group
	group.Go(func() (err error) {
		g1, err = parseG1PointsPar(file.G1, numGoRoutines)
		return err
	})
	group.Go(func() (err error) {
		gammaG1, err = parseG1PointsPar(file.GammaG1, numGoRoutines)
		return err
	})
	group.Go(func() (err error) {
		g2, err = parseG2PointsPar(file.G2, numGoRoutines)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSRS, err)
	}

	srs := &kzg.SRS{
		CommitKey: kzg.CommitKey{
			G1:      g1,
			GammaG1: gammaG1,
		},
		OpeningKey: kzg.OpeningKey{
			GenG1:   g1[0],
			GammaG1: gammaG1[0],
			GenG2:   g2[0],
			AlphaG2: g2[1],
			G2:      g2,
		},
	}
	if err := checkConsistency(srs); err != nil {
		return nil, err
	}
	return srs, nil
}

// checkConsistency checks the generators and that the G1 and G2 powers
// share the same τ: e(τg, h) = e(g, τh).
func checkConsistency(srs *kzg.SRS) error {
	_, _, genG1, genG2 := bls12381.Generators()
	if !srs.OpeningKey.GenG1.Equal(&genG1) || !srs.OpeningKey.GenG2.Equal(&genG2) {
		return fmt.Errorf("%w: first powers are not the generators", ErrInvalidSRS)
	}

	var negTauG1 bls12381.G1Affine
	negTauG1.Neg(&srs.CommitKey.G1[1])
	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{negTauG1, srs.OpeningKey.GenG1},
		[]bls12381.G2Affine{srs.OpeningKey.GenG2, srs.OpeningKey.AlphaG2},
	)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: G1 and G2 powers use different trapdoors", ErrInvalidSRS)
	}
	return nil
}

func parseG1Point(hexString string) (bls12381.G1Affine, error) {
	byts, err := hex.DecodeString(hexString)
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	if len(byts) != CompressedG1Size {
		return bls12381.G1Affine{}, fmt.Errorf("%w: G1 point has %d bytes", ErrInvalidLength, len(byts))
	}

	var serializedPoint G1Point
	copy(serializedPoint[:], byts)

	return DeserializeG1Point(serializedPoint)
}

func parseG2Point(hexString string) (bls12381.G2Affine, error) {
	byts, err := hex.DecodeString(hexString)
	if err != nil {
		return bls12381.G2Affine{}, err
	}
	if len(byts) != CompressedG2Size {
		return bls12381.G2Affine{}, fmt.Errorf("%w: G2 point has %d bytes", ErrInvalidLength, len(byts))
	}

	var serializedPoint G2Point
	copy(serializedPoint[:], byts)

	return DeserializeG2Point(serializedPoint)
}

func parseG1PointsPar(hexStrings []string, numGoRoutines int) ([]bls12381.G1Affine, error) {
	g1Points := make([]bls12381.G1Affine, len(hexStrings))

	var group errgroup.Group
	if numGoRoutines > 0 {
		group.SetLimit(numGoRoutines)
	}
	for i := range hexStrings {
		group.Go(func() error {
			g1Point, err := parseG1Point(hexStrings[i])
			if err != nil {
				return fmt.Errorf("G1 point %d: %w", i, err)
			}
			g1Points[i] = g1Point
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return g1Points, nil
}

func parseG2PointsPar(hexStrings []string, numGoRoutines int) ([]bls12381.G2Affine, error) {
	g2Points := make([]bls12381.G2Affine, len(hexStrings))

	var group errgroup.Group
	if numGoRoutines > 0 {
		group.SetLimit(numGoRoutines)
	}
	for i := range hexStrings {
		group.Go(func() error {
			g2Point, err := parseG2Point(hexStrings[i])
			if err != nil {
				return fmt.Errorf("G2 point %d: %w", i, err)
			}
			g2Points[i] = g2Point
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return g2Points, nil
}
