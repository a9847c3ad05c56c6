package kzggrid

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/crate-crypto/go-kzg-grid/internal/erasure_code"
	"github.com/crate-crypto/go-kzg-grid/internal/kzg"
	"github.com/crate-crypto/go-kzg-grid/serialization"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Context holds the SRS and everything derived from it that is needed to
// commit, open, verify and extend grids. It is safe for concurrent use.
type Context struct {
	srs      *kzg.SRS
	config   Config
	logger   *zap.Logger
	strategy kzg.CommitmentStrategy

	// (numCols, factor) -> *erasure_code.Codec
	codecs *lru.Cache
}

type codecKey struct {
	numCols uint64
	factor  uint64
}

// NewContext creates a context over `srs`. The SRS fields of the
// configuration are taken from `srs`.
func NewContext(srs *SRS, opts ...Option) (*Context, error) {
	s := settings{
		config: DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.config.MaxDegree = uint64(srs.CommitKey.MaxDegree())
	s.config.MaxEvalPoints = uint64(srs.OpeningKey.MaxEvalPoints())
	s.config.HidingBound = uint64(srs.CommitKey.HidingBound())
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	return newContext(srs, s)
}

// NewContextFromConfig generates a fresh SRS with the parameters of `config`
// and creates a context over it. A nil `rng` uses crypto/rand.
func NewContextFromConfig(config Config, rng io.Reader, opts ...Option) (*Context, error) {
	s := settings{
		config: config,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.Reader
	}

	srs, err := kzg.NewSRS(s.config.MaxDegree, s.config.MaxEvalPoints, s.config.HidingBound, rng)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("generated srs",
		zap.Uint64("max_degree", s.config.MaxDegree),
		zap.Uint64("max_eval_points", s.config.MaxEvalPoints),
		zap.Uint64("hiding_bound", s.config.HidingBound),
	)
	return newContext(srs, s)
}

func newContext(srs *kzg.SRS, s settings) (*Context, error) {
	strategy, err := kzg.NewCommitmentStrategy(s.config.CommitmentStrategy, &srs.CommitKey, kzg.StrategyConfig{
		NumGoRoutines:        s.config.NumGoRoutines,
		PrecomputeWindowBits: s.config.PrecomputeWindowBits,
	})
	if err != nil {
		return nil, err
	}

	codecs, err := lru.New(s.config.CodecCacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	s.logger.Debug("created context",
		zap.String("commitment_strategy", strategy.Name()),
		zap.String("multi_proof_scheme", s.config.MultiProofScheme),
		zap.Int("max_degree", srs.CommitKey.MaxDegree()),
		zap.Int("num_go_routines", s.config.NumGoRoutines),
	)

	return &Context{
		srs:      srs,
		config:   s.config,
		logger:   s.logger,
		strategy: strategy,
		codecs:   codecs,
	}, nil
}

// GenerateSRS samples a new SRS supporting polynomials of degree up to
// `maxDegree`, with the default number of evaluation points and hiding
// bound capped to what the degree allows. A nil `rng` uses crypto/rand.
func GenerateSRS(maxDegree uint64, rng io.Reader) (*SRS, error) {
	defaults := DefaultConfig()
	if rng == nil {
		rng = rand.Reader
	}
	return kzg.NewSRS(maxDegree, min(defaults.MaxEvalPoints, maxDegree+1), min(defaults.HidingBound, maxDegree), rng)
}

// LoadSRS reads an SRS in the YAML format written by WriteSRS.
func LoadSRS(r io.Reader, numGoRoutines int) (*SRS, error) {
	return serialization.ReadSRS(r, numGoRoutines)
}

// WriteSRS writes `srs` as YAML with hex encoded compressed points.
func WriteSRS(w io.Writer, srs *SRS) error {
	return serialization.WriteSRS(w, srs)
}

// SRS returns the reference string of the context.
func (ctx *Context) SRS() *SRS {
	return ctx.srs
}

// Config returns the configuration the context was built with.
func (ctx *Context) Config() Config {
	return ctx.config
}

// codec returns the erasure codec for rows of `numCols` values extended by
// `factor`, building it on first use.
func (ctx *Context) codec(numCols, factor uint64) (*erasure_code.Codec, error) {
	key := codecKey{numCols: numCols, factor: factor}
	if cached, ok := ctx.codecs.Get(key); ok {
		return cached.(*erasure_code.Codec), nil
	}

	codec, err := erasure_code.NewCodec(numCols, factor)
	if err != nil {
		return nil, err
	}
	ctx.logger.Debug("created codec",
		zap.Uint64("num_cols", numCols),
		zap.Uint64("factor", factor),
		zap.Uint64("domain_size", codec.DomainSize()),
	)
	ctx.codecs.Add(key, codec)
	return codec, nil
}

// group returns an errgroup limited to the configured number of goroutines.
func (ctx *Context) group() *errgroup.Group {
	var group errgroup.Group
	if ctx.config.NumGoRoutines > 0 {
		group.SetLimit(ctx.config.NumGoRoutines)
	}
	return &group
}
