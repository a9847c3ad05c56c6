package poly

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// PolynomialCoeff is a polynomial in monomial form, lowest degree first.
type PolynomialCoeff = []fr.Element

var (
	ErrDuplicatePoint    = errors.New("interpolation points must be distinct")
	ErrMismatchedLengths = errors.New("number of points and values differ")
	ErrDivisionByZero    = errors.New("division by the zero polynomial")
)

// PolyAdd returns a + b.
func PolyAdd(a, b PolynomialCoeff) PolynomialCoeff {
	if len(a) < len(b) {
		a, b = b, a
	}
	result := make([]fr.Element, len(a))
	copy(result, a)
	for i := 0; i < len(b); i++ {
		result[i].Add(&result[i], &b[i])
	}
	return result
}

// PolySub returns a - b.
func PolySub(a, b PolynomialCoeff) PolynomialCoeff {
	n := max(len(a), len(b))
	result := make([]fr.Element, n)
	copy(result, a)
	for i := 0; i < len(b); i++ {
		result[i].Sub(&result[i], &b[i])
	}
	return result
}

// PolyScale returns s * a.
func PolyScale(a PolynomialCoeff, s fr.Element) PolynomialCoeff {
	result := make([]fr.Element, len(a))
	for i := 0; i < len(a); i++ {
		result[i].Mul(&a[i], &s)
	}
	return result
}

// PolyAddScaledInPlace sets acc = acc + s * a. acc must be at least as long as a.
func PolyAddScaledInPlace(acc, a PolynomialCoeff, s fr.Element) {
	var tmp fr.Element
	for i := 0; i < len(a); i++ {
		tmp.Mul(&a[i], &s)
		acc[i].Add(&acc[i], &tmp)
	}
}

// PolyMul returns a * b using schoolbook multiplication.
func PolyMul(a, b PolynomialCoeff) PolynomialCoeff {
	if len(a) == 0 || len(b) == 0 {
		return []fr.Element{}
	}
	result := make([]fr.Element, len(a)+len(b)-1)
	var tmp fr.Element
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			tmp.Mul(&a[i], &b[j])
			result[i+j].Add(&result[i+j], &tmp)
		}
	}
	return result
}

// PolyEval evaluates the polynomial at `point` using Horner's method.
func PolyEval(poly PolynomialCoeff, point fr.Element) fr.Element {
	var result fr.Element
	for i := len(poly) - 1; i >= 0; i-- {
		result.Mul(&result, &point)
		result.Add(&result, &poly[i])
	}
	return result
}

// Degree returns the index of the highest non-zero coefficient,
// or -1 for the zero polynomial.
func Degree(poly PolynomialCoeff) int {
	for i := len(poly) - 1; i >= 0; i-- {
		if !poly[i].IsZero() {
			return i
		}
	}
	return -1
}

// IsZero reports whether every coefficient is zero.
func IsZero(poly PolynomialCoeff) bool {
	return Degree(poly) == -1
}

// DividePolyByXminusA computes f(X) / (X - a) with synthetic division and
// returns the quotient together with the remainder, which equals f(a).
//
// The caller decides whether a non-zero remainder is an error.
func DividePolyByXminusA(poly PolynomialCoeff, a fr.Element) (PolynomialCoeff, fr.Element) {
	if len(poly) == 0 {
		return []fr.Element{}, fr.Element{}
	}

	quotient := make([]fr.Element, len(poly)-1)
	var carry fr.Element
	for i := len(poly) - 1; i >= 1; i-- {
		carry.Mul(&carry, &a)
		carry.Add(&carry, &poly[i])
		quotient[i-1] = carry
	}

	var remainder fr.Element
	remainder.Mul(&carry, &a)
	remainder.Add(&remainder, &poly[0])

	return quotient, remainder
}

// DividePoly computes the quotient and remainder of num / den with long division.
func DividePoly(num, den PolynomialCoeff) (PolynomialCoeff, PolynomialCoeff, error) {
	denDegree := Degree(den)
	if denDegree == -1 {
		return nil, nil, ErrDivisionByZero
	}
	numDegree := Degree(num)
	if numDegree < denDegree {
		remainder := make([]fr.Element, len(num))
		copy(remainder, num)
		return []fr.Element{}, remainder, nil
	}

	remainder := make([]fr.Element, numDegree+1)
	copy(remainder, num)
	quotient := make([]fr.Element, numDegree-denDegree+1)

	var leadInv fr.Element
	leadInv.Inverse(&den[denDegree])

	var tmp fr.Element
	for i := numDegree - denDegree; i >= 0; i-- {
		var coeff fr.Element
		coeff.Mul(&remainder[i+denDegree], &leadInv)
		quotient[i] = coeff
		for j := 0; j <= denDegree; j++ {
			tmp.Mul(&coeff, &den[j])
			remainder[i+j].Sub(&remainder[i+j], &tmp)
		}
	}

	return quotient, remainder[:denDegree], nil
}

// VanishingPoly returns the monic polynomial that has roots exactly at `points`.
func VanishingPoly(points []fr.Element) PolynomialCoeff {
	result := make([]fr.Element, len(points)+1)
	result[0].SetOne()

	// Multiply by (X - x) one root at a time, in place.
	for k := 0; k < len(points); k++ {
		var negX fr.Element
		negX.Neg(&points[k])
		for i := k + 1; i >= 1; i-- {
			var tmp fr.Element
			tmp.Mul(&result[i], &negX)
			result[i].Set(&result[i-1])
			result[i].Add(&result[i], &tmp)
		}
		result[0].Mul(&result[0], &negX)
	}
	return result
}

// EvalVanishingPoly computes prod (z - x) over `points` without
// materialising the polynomial.
func EvalVanishingPoly(points []fr.Element, z fr.Element) fr.Element {
	result := fr.One()
	var tmp fr.Element
	for i := 0; i < len(points); i++ {
		tmp.Sub(&z, &points[i])
		result.Mul(&result, &tmp)
	}
	return result
}

// LagrangeInterpolate returns the polynomial of degree < len(points) that
// takes `values[i]` at `points[i]`.
func LagrangeInterpolate(points, values []fr.Element) (PolynomialCoeff, error) {
	if len(points) != len(values) {
		return nil, fmt.Errorf("%w: %d points, %d values", ErrMismatchedLengths, len(points), len(values))
	}
	n := len(points)
	if n == 0 {
		return []fr.Element{}, nil
	}

	vanishing := VanishingPoly(points)

	// basis[i] = Z(X) / (X - x_i), weights[i] = basis[i](x_i)
	basis := make([]PolynomialCoeff, n)
	weights := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		basis[i], _ = DividePolyByXminusA(vanishing, points[i])
		weights[i] = PolyEval(basis[i], points[i])
		if weights[i].IsZero() {
			return nil, fmt.Errorf("%w: point %d repeats", ErrDuplicatePoint, i)
		}
	}
	weights = fr.BatchInvert(weights)

	result := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		var scale fr.Element
		scale.Mul(&values[i], &weights[i])
		PolyAddScaledInPlace(result, basis[i], scale)
	}

	return result, nil
}
