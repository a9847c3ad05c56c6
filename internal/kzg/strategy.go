package kzg

import (
	"fmt"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/domain"
	"github.com/crate-crypto/go-kzg-grid/internal/multiexp"
	"github.com/crate-crypto/go-kzg-grid/internal/utils"
)

// Names of the commitment strategies.
const (
	StrategyNaive       = "naive"
	StrategyWindowed    = "windowed"
	StrategyPippenger   = "pippenger"
	StrategyPrecomputed = "precomputed"
	StrategyLagrange    = "lagrange"
)

// DefaultPrecomputeWindowBits is the window used by the precomputed strategy
// when none is configured.
const DefaultPrecomputeWindowBits = 8

// CommitmentStrategy computes the unblinded commitment to a polynomial in
// coefficient form against the G1 powers of a CommitKey.
//
// Every strategy returns the same commitment for the same polynomial.
// Implementations are safe for concurrent use.
type CommitmentStrategy interface {
	Name() string
	CommitKey() *CommitKey
	Commit(poly Polynomial) (*Commitment, error)
}

// EvaluationCommitter is implemented by strategies that can commit to a
// polynomial given by its evaluations over a power of two domain, without
// interpolating it first.
type EvaluationCommitter interface {
	CommitEvaluations(evals []fr.Element) (*Commitment, error)
}

// StrategyConfig carries the tuning knobs of the strategies.
// The zero value selects the defaults.
type StrategyConfig struct {
	// Concurrency passed to the gnark multi exponentiation. 0 uses every CPU.
	NumGoRoutines int
	// Window of the precomputed tables, in bits.
	PrecomputeWindowBits uint8
}

// Strategies lists the names accepted by NewCommitmentStrategy.
func Strategies() []string {
	return []string{StrategyNaive, StrategyWindowed, StrategyPippenger, StrategyPrecomputed, StrategyLagrange}
}

// NewCommitmentStrategy returns the strategy called `name` bound to `ck`.
func NewCommitmentStrategy(name string, ck *CommitKey, config StrategyConfig) (CommitmentStrategy, error) {
	if config.NumGoRoutines >= multiexp.MaxGoRoutines {
		return nil, fmt.Errorf("%w: %w", ErrConfig, multiexp.ErrTooManyGoRoutines)
	}

	switch name {
	case StrategyNaive:
		return &naiveStrategy{ck: ck}, nil
	case StrategyWindowed:
		return &windowedStrategy{ck: ck}, nil
	case StrategyPippenger:
		return &pippengerStrategy{ck: ck, numGoRoutines: config.NumGoRoutines}, nil
	case StrategyPrecomputed:
		wbits := config.PrecomputeWindowBits
		if wbits == 0 {
			wbits = DefaultPrecomputeWindowBits
		}
		if wbits < 2 || wbits > 16 {
			return nil, fmt.Errorf("%w: %w", ErrConfig, multiexp.ErrInvalidWindowSize)
		}
		return &precomputedStrategy{ck: ck, wbits: wbits}, nil
	case StrategyLagrange:
		return newLagrangeStrategy(ck, config.NumGoRoutines), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

func checkDegree(poly Polynomial, ck *CommitKey) error {
	if len(poly) > len(ck.G1) {
		return fmt.Errorf("%w: degree %d, srs supports %d", ErrDegreeExceeded, len(poly)-1, ck.MaxDegree())
	}
	return nil
}

type naiveStrategy struct {
	ck *CommitKey
}

func (s *naiveStrategy) Name() string          { return StrategyNaive }
func (s *naiveStrategy) CommitKey() *CommitKey { return s.ck }

func (s *naiveStrategy) Commit(poly Polynomial) (*Commitment, error) {
	if err := checkDegree(poly, s.ck); err != nil {
		return nil, err
	}
	return multiexp.MultiExpNaive(poly, s.ck.G1[:len(poly)])
}

type windowedStrategy struct {
	ck *CommitKey
}

func (s *windowedStrategy) Name() string          { return StrategyWindowed }
func (s *windowedStrategy) CommitKey() *CommitKey { return s.ck }

func (s *windowedStrategy) Commit(poly Polynomial) (*Commitment, error) {
	if err := checkDegree(poly, s.ck); err != nil {
		return nil, err
	}
	return multiexp.MultiExpWindowed(poly, s.ck.G1[:len(poly)])
}

type pippengerStrategy struct {
	ck            *CommitKey
	numGoRoutines int
}

func (s *pippengerStrategy) Name() string          { return StrategyPippenger }
func (s *pippengerStrategy) CommitKey() *CommitKey { return s.ck }

func (s *pippengerStrategy) Commit(poly Polynomial) (*Commitment, error) {
	if err := checkDegree(poly, s.ck); err != nil {
		return nil, err
	}
	return multiexp.MultiExpG1(poly, s.ck.G1[:len(poly)], s.numGoRoutines)
}

// precomputedStrategy builds its fixed-base table on first use, since the
// table is 2^{wbits-1} times larger than the commit key.
type precomputedStrategy struct {
	ck    *CommitKey
	wbits uint8

	once     sync.Once
	table    *multiexp.MSMTable
	tableErr error
}

func (s *precomputedStrategy) Name() string          { return StrategyPrecomputed }
func (s *precomputedStrategy) CommitKey() *CommitKey { return s.ck }

func (s *precomputedStrategy) Commit(poly Polynomial) (*Commitment, error) {
	if err := checkDegree(poly, s.ck); err != nil {
		return nil, err
	}

	s.once.Do(func() {
		s.table, s.tableErr = multiexp.NewMSMTable(s.ck.G1, s.wbits)
	})
	if s.tableErr != nil {
		return nil, s.tableErr
	}

	resJac, err := s.table.MultiScalarMul(poly)
	if err != nil {
		return nil, err
	}
	var res bls12381.G1Affine
	res.FromJacobian(&resJac)
	return &res, nil
}

// lagrangeStrategy commits in evaluation form.
//
// The coefficients are split into chunks of size m, the largest power of two
// that fits in the commit key. Chunk j is moved to evaluation form over the
// domain of size m and committed against the Lagrange basis of the monomial
// points G1[jm : jm+m], which is their inverse FFT.
type lagrangeStrategy struct {
	ck            *CommitKey
	numGoRoutines int
	chunkSize     uint64

	mu      sync.Mutex
	domains map[uint64]*domain.Domain
	bases   map[lagrangeBasisKey][]bls12381.G1Affine
}

type lagrangeBasisKey struct {
	offset uint64
	size   uint64
}

func newLagrangeStrategy(ck *CommitKey, numGoRoutines int) *lagrangeStrategy {
	return &lagrangeStrategy{
		ck:            ck,
		numGoRoutines: numGoRoutines,
		chunkSize:     utils.PrevPowerOfTwo(uint64(len(ck.G1))),
		domains:       make(map[uint64]*domain.Domain),
		bases:         make(map[lagrangeBasisKey][]bls12381.G1Affine),
	}
}

func (s *lagrangeStrategy) Name() string          { return StrategyLagrange }
func (s *lagrangeStrategy) CommitKey() *CommitKey { return s.ck }

func (s *lagrangeStrategy) Commit(poly Polynomial) (*Commitment, error) {
	if err := checkDegree(poly, s.ck); err != nil {
		return nil, err
	}

	var acc bls12381.G1Jac
	for offset := uint64(0); offset < uint64(len(poly)); offset += s.chunkSize {
		end := min(offset+s.chunkSize, uint64(len(poly)))

		d, basis := s.basis(offset, s.chunkSize)
		evals := d.FftFr(poly[offset:end])

		chunkComm, err := multiexp.MultiExpG1(evals, basis, s.numGoRoutines)
		if err != nil {
			return nil, err
		}
		acc.AddMixed(chunkComm)
	}

	var res bls12381.G1Affine
	res.FromJacobian(&acc)
	return &res, nil
}

// CommitEvaluations commits to the polynomial of degree < len(evals) whose
// evaluations over the domain of size len(evals) are `evals`.
func (s *lagrangeStrategy) CommitEvaluations(evals []fr.Element) (*Commitment, error) {
	if len(evals) == 0 {
		return new(bls12381.G1Affine), nil
	}
	if !utils.IsPowerOfTwo(uint64(len(evals))) {
		return nil, fmt.Errorf("%w: %d evaluations is not a power of two", ErrConfig, len(evals))
	}
	if err := checkDegree(evals, s.ck); err != nil {
		return nil, err
	}

	_, basis := s.basis(0, uint64(len(evals)))
	return multiexp.MultiExpG1(evals, basis, s.numGoRoutines)
}

// basis returns the domain of size `size` and the Lagrange basis of the
// monomial points starting at `offset`. Missing points past the end of the
// commit key are treated as the identity.
func (s *lagrangeStrategy) basis(offset, size uint64) (*domain.Domain, []bls12381.G1Affine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.domains[size]
	if !ok {
		d = domain.NewDomain(size)
		s.domains[size] = d
	}

	key := lagrangeBasisKey{offset: offset, size: size}
	basis, ok := s.bases[key]
	if !ok {
		end := min(offset+size, uint64(len(s.ck.G1)))
		basis = d.IfftG1(s.ck.G1[offset:end])
		s.bases[key] = basis
	}
	return d, basis
}
