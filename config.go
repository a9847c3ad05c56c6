package kzggrid

import (
	"fmt"
	"io"
	"slices"

	"github.com/crate-crypto/go-kzg-grid/internal/kzg"
	"github.com/crate-crypto/go-kzg-grid/internal/multiexp"
	"github.com/crate-crypto/go-kzg-grid/internal/multiproof"
	"gopkg.in/yaml.v2"
)

// Config holds the parameters of a Context. The SRS parameters are only used
// when the context generates its own SRS.
type Config struct {
	// Maximum degree of a committed polynomial
	MaxDegree uint64 `yaml:"max_degree"`
	// Maximum size of the point set of a shared set multi-proof
	MaxEvalPoints uint64 `yaml:"max_eval_points"`
	// Maximum degree of a blinding polynomial
	HidingBound uint64 `yaml:"hiding_bound"`

	CommitmentStrategy   string `yaml:"commitment_strategy"`
	MultiProofScheme     string `yaml:"multi_proof_scheme"`
	PrecomputeWindowBits uint8  `yaml:"precompute_window_bits"`

	// Limit on the goroutines used for fan-out and multi exponentiations.
	// 0 means no limit.
	NumGoRoutines int `yaml:"num_go_routines"`
	// Number of erasure codecs kept around, keyed by row length and factor
	CodecCacheSize int `yaml:"codec_cache_size"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		MaxDegree:            4095,
		MaxEvalPoints:        16,
		HidingBound:          1,
		CommitmentStrategy:   kzg.StrategyPippenger,
		MultiProofScheme:     multiproof.SchemeBDFG,
		PrecomputeWindowBits: kzg.DefaultPrecomputeWindowBits,
		NumGoRoutines:        0,
		CodecCacheSize:       16,
	}
}

// LoadConfig reads a YAML configuration. Missing fields keep their default
// values and unknown fields are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	in, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}

	config := DefaultConfig()
	if err := yaml.UnmarshalStrict(in, &config); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks every field. The returned error wraps ErrConfig.
func (c *Config) Validate() error {
	switch {
	case c.MaxDegree == 0 || c.MaxDegree > kzg.MaxDegreeCeiling:
		return fmt.Errorf("%w: max_degree must be in [1, %d], got %d", ErrConfig, kzg.MaxDegreeCeiling, c.MaxDegree)
	case c.MaxEvalPoints == 0 || c.MaxEvalPoints > c.MaxDegree+1:
		return fmt.Errorf("%w: max_eval_points must be in [1, max_degree+1], got %d", ErrConfig, c.MaxEvalPoints)
	case c.HidingBound > c.MaxDegree:
		return fmt.Errorf("%w: hiding_bound %d is larger than max_degree", ErrConfig, c.HidingBound)
	case !slices.Contains(kzg.Strategies(), c.CommitmentStrategy):
		return fmt.Errorf("%w: commitment_strategy %q, expected one of %v", ErrConfig, c.CommitmentStrategy, kzg.Strategies())
	case !slices.Contains(multiproof.Schemes(), c.MultiProofScheme):
		return fmt.Errorf("%w: multi_proof_scheme %q, expected one of %v", ErrConfig, c.MultiProofScheme, multiproof.Schemes())
	case c.PrecomputeWindowBits < 2 || c.PrecomputeWindowBits > 16:
		return fmt.Errorf("%w: precompute_window_bits must be in [2, 16], got %d", ErrConfig, c.PrecomputeWindowBits)
	case c.NumGoRoutines < 0 || c.NumGoRoutines >= multiexp.MaxGoRoutines:
		return fmt.Errorf("%w: num_go_routines must be in [0, %d), got %d", ErrConfig, multiexp.MaxGoRoutines, c.NumGoRoutines)
	case c.CodecCacheSize < 1:
		return fmt.Errorf("%w: codec_cache_size must be positive, got %d", ErrConfig, c.CodecCacheSize)
	}
	return nil
}
