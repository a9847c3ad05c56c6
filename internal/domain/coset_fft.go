package domain

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// FFTCoset holds the generator of a multiplicative coset and its inverse.
type FFTCoset struct {
	// CosetGen shifts the domain: evaluations are taken over CosetGen * H.
	CosetGen fr.Element

	// InvCosetGen shifts back to H in the inverse transform.
	InvCosetGen fr.Element
}

// NewFFTCoset returns the coset generated by `gen`. `gen` must not lie
// in the subgroup that the coset is taken from.
func NewFFTCoset(gen fr.Element) FFTCoset {
	var coset FFTCoset
	coset.CosetGen = gen
	coset.InvCosetGen.Inverse(&gen)
	return coset
}

// CosetDomain evaluates and interpolates polynomials over a coset of a Domain.
//
// Evaluating over a coset lets us divide by a polynomial that vanishes
// somewhere on the original domain.
type CosetDomain struct {
	domain *Domain
	coset  FFTCoset
}

// NewCosetDomain creates a new CosetDomain with the given Domain and FFTCoset.
func NewCosetDomain(domain *Domain, fftCoset FFTCoset) *CosetDomain {
	return &CosetDomain{
		domain: domain,
		coset:  fftCoset,
	}
}

// CosetFFtFr evaluates the polynomial with coefficients `values` over the coset.
//
// It scales coefficient i by CosetGen^i and then performs a standard FFT.
func (d *CosetDomain) CosetFFtFr(values []fr.Element) []fr.Element {
	result := d.domain.padFr(values)
	scaleByPowers(result, d.coset.CosetGen)
	fftFr(result, d.domain.Generator)
	return result
}

// CosetIFFtFr interpolates evaluations over the coset back to coefficients.
func (d *CosetDomain) CosetIFFtFr(values []fr.Element) []fr.Element {
	result := d.domain.IfftFr(values)
	scaleByPowers(result, d.coset.InvCosetGen)
	return result
}

// CosetFFtFrInPlace is the in-place version of [CosetDomain.CosetFFtFr].
func (d *CosetDomain) CosetFFtFrInPlace(values []fr.Element) {
	d.domain.assertSize(len(values))
	scaleByPowers(values, d.coset.CosetGen)
	fftFr(values, d.domain.Generator)
}

// CosetIFFtFrInPlace is the in-place version of [CosetDomain.CosetIFFtFr].
func (d *CosetDomain) CosetIFFtFrInPlace(values []fr.Element) {
	d.domain.IfftFrInPlace(values)
	scaleByPowers(values, d.coset.InvCosetGen)
}

// scaleByPowers multiplies values[i] by x^i.
func scaleByPowers(values []fr.Element, x fr.Element) {
	scale := fr.One()
	for i := 0; i < len(values); i++ {
		values[i].Mul(&values[i], &scale)
		scale.Mul(&scale, &x)
	}
}
