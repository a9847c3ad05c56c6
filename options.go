package kzggrid

import "go.uber.org/zap"

type settings struct {
	config Config
	logger *zap.Logger
}

// Option changes how a Context is built.
type Option func(*settings)

// WithConfig replaces every field of the configuration. Options given after
// it still apply.
func WithConfig(config Config) Option {
	return func(s *settings) {
		s.config = config
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithNumGoRoutines limits the goroutines used per call. 0 means no limit.
func WithNumGoRoutines(numGoRoutines int) Option {
	return func(s *settings) {
		s.config.NumGoRoutines = numGoRoutines
	}
}

// WithCommitmentStrategy selects the MSM algorithm used for commitments.
func WithCommitmentStrategy(name string) Option {
	return func(s *settings) {
		s.config.CommitmentStrategy = name
	}
}

// WithMultiProofScheme selects the scheme used by OpenMany.
func WithMultiProofScheme(name string) Option {
	return func(s *settings) {
		s.config.MultiProofScheme = name
	}
}

// WithPrecomputeWindowBits sets the window of the precomputed strategy.
func WithPrecomputeWindowBits(wbits uint8) Option {
	return func(s *settings) {
		s.config.PrecomputeWindowBits = wbits
	}
}

// WithCodecCacheSize sets how many erasure codecs are kept.
func WithCodecCacheSize(size int) Option {
	return func(s *settings) {
		s.config.CodecCacheSize = size
	}
}
