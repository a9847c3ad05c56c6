package domain

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/crate-crypto/go-kzg-grid/internal/utils"
)

// MaxOrderRoot is the 2-adicity of the BLS12-381 scalar field: the largest
// power-of-two subgroup of fr* has order 2^MaxOrderRoot.
const MaxOrderRoot uint64 = 32

// rootOfUnity2Adic generates the subgroup of order 2^32.
var rootOfUnity2Adic = func() fr.Element {
	var root fr.Element
	_, err := root.SetString("10238227357739495823651030575849232062558860180284477541189508159991286009131")
	if err != nil {
		panic("failed to initialize root of unity")
	}
	return root
}()

// Domain is the set of points that polynomials are evaluated over.
//
// The points are the Cardinality'th roots of unity, stored in natural
// order: Roots[i] = Generator^i.
type Domain struct {
	// Size of the domain. This must be a power of 2, at most 2^32.
	Cardinality uint64
	// Inverse of the size of the domain as a field element.
	CardinalityInv fr.Element
	// Generator has order Cardinality.
	// It is not a generator for the *whole* field.
	Generator fr.Element
	// Inverse of the Generator, used by the inverse FFTs.
	GeneratorInv fr.Element

	Roots []fr.Element
}

// NewDomain returns a new domain with the desired number of points x.
//
// We only support powers of 2 for x; callers validate sizes that come
// from user input before calling this.
//
// Modified from [gnark-crypto].
//
// [gnark-crypto]: https://github.com/ConsenSys/gnark-crypto/blob/8f7ca09273c24ed9465043566906cbecf5dcee91/ecc/bls12-381/fr/fft/domain.go#L66
func NewDomain(x uint64) *Domain {
	if !utils.IsPowerOfTwo(x) {
		panic(fmt.Sprintf("x (%d) is not a power of 2. This library only supports domain sizes that are powers of two", x))
	}
	logx := uint64(bits.TrailingZeros64(x))
	if logx > MaxOrderRoot {
		panic(fmt.Sprintf("x (%d) is too big: the required root of unity does not exist", x))
	}

	domain := &Domain{Cardinality: x}

	// Powering the generator of the 2^32 subgroup by 2^32/x
	// gives an element of order x.
	expo := uint64(1) << (MaxOrderRoot - logx)
	domain.Generator.Exp(rootOfUnity2Adic, new(big.Int).SetUint64(expo))

	domain.GeneratorInv.Inverse(&domain.Generator)
	domain.CardinalityInv.SetUint64(x)
	domain.CardinalityInv.Inverse(&domain.CardinalityInv)

	domain.Roots = utils.ComputePowers(domain.Generator, uint(x))

	return domain
}

// BitReverse applies the bit-reversal permutation to `list`.
// `len(list)` must be a power of 2
//
// For post-state list output and pre-state list input,
// we have output[i] == input[bitreverse(i)], where bitreverse reverses the bit-pattern
// of i, interpreted as a log2(len(list))-bit integer.
//
// Modified from [gnark-crypto].
//
// [gnark-crypto]: https://github.com/ConsenSys/gnark-crypto/blob/8f7ca09273c24ed9465043566906cbecf5dcee91/ecc/bls12-381/fr/fft/fft.go#L245
func BitReverse[K interface{}](list []K) {
	n := uint64(len(list))
	if n <= 1 {
		return
	}

	for i := uint64(0); i < n; i++ {
		irev := BitReverseInt(i, n)
		if irev > i {
			list[i], list[irev] = list[irev], list[i]
		}
	}
}

// BitReverseInt reverses the bits of k, interpreted as a log2(bitsize)-bit integer.
func BitReverseInt(k, bitsize uint64) uint64 {
	if !utils.IsPowerOfTwo(bitsize) {
		panic("bitsize given to bitReverse must be a power of two")
	}

	// bits.Reverse64 inverts a 64-bit integer, so shift
	// the result back down to log2(bitsize) bits.
	shiftCorrection := uint64(64 - bits.TrailingZeros64(bitsize))
	return bits.Reverse64(k) >> shiftCorrection
}
