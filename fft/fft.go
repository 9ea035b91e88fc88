// Package fft provides the multiplicative evaluation domain of the circuit
// and the number-theoretic transforms over it: in-place radix-2 NTT/iNTT of
// size n, and the shifted size-4n transforms used for quotient evaluation.
package fft

import (
	"fmt"
	"math/bits"

	"github.com/consensys/babyplonk/curve"
)

// Domain is the multiplicative subgroup of order n = 2^k together with its
// 4n extension coset. Immutable after construction.
type Domain struct {
	e curve.Engine

	N uint64
	K int

	Omega     curve.Scalar // primitive n-th root of unity
	OmegaInv  curve.Scalar
	Omega4    curve.Scalar // primitive 4n-th root, Omega4^4 == Omega
	Omega4Inv curve.Scalar
	Shift     curve.Scalar // coset generator, outside <Omega4>
	ShiftInv  curve.Scalar
	NInv      curve.Scalar
	N4Inv     curve.Scalar

	roots []curve.Scalar // Omega^i for i < n
}

// NewDomain builds the domain of size 2^k over the engine's scalar field.
func NewDomain(e curve.Engine, k int) (*Domain, error) {
	if k < 2 {
		return nil, fmt.Errorf("fft: domain of size 2^%d too small", k)
	}
	omega4, err := e.RootOfUnity(k + 2)
	if err != nil {
		return nil, err
	}
	n := uint64(1) << k
	d := &Domain{
		e:      e,
		N:      n,
		K:      k,
		Omega:  e.Exp(omega4, 4),
		Omega4: omega4,
		Shift:  e.CosetShift(),
	}
	if d.OmegaInv, err = e.Inverse(d.Omega); err != nil {
		return nil, err
	}
	if d.Omega4Inv, err = e.Inverse(d.Omega4); err != nil {
		return nil, err
	}
	if d.ShiftInv, err = e.Inverse(d.Shift); err != nil {
		return nil, err
	}
	if d.NInv, err = e.Inverse(e.FromUint64(n)); err != nil {
		return nil, err
	}
	if d.N4Inv, err = e.Inverse(e.FromUint64(4 * n)); err != nil {
		return nil, err
	}

	d.roots = make([]curve.Scalar, n)
	d.roots[0] = e.One()
	for i := uint64(1); i < n; i++ {
		d.roots[i] = e.Mul(d.roots[i-1], d.Omega)
	}
	return d, nil
}

// Roots returns the table Omega^i for i < n. The slice is shared; callers
// must not mutate it.
func (d *Domain) Roots() []curve.Scalar { return d.roots }

// NTT transforms buf from coefficient form to evaluation form over the
// subgroup, in place. len(buf) must be n.
func (d *Domain) NTT(buf []curve.Scalar) error {
	if uint64(len(buf)) != d.N {
		return fmt.Errorf("fft: ntt on %d values, domain size %d", len(buf), d.N)
	}
	transform(d.e, buf, d.Omega)
	return nil
}

// INTT transforms buf from evaluation form back to coefficients, in place.
func (d *Domain) INTT(buf []curve.Scalar) error {
	if uint64(len(buf)) != d.N {
		return fmt.Errorf("fft: intt on %d values, domain size %d", len(buf), d.N)
	}
	transform(d.e, buf, d.OmegaInv)
	for i := range buf {
		buf[i] = d.e.Mul(buf[i], d.NInv)
	}
	return nil
}

// CosetNTT4n evaluates the polynomial given by coeffs on the shifted domain
// g*Omega4^i, i < 4n. len(coeffs) must not exceed 4n; the input is not
// modified.
func (d *Domain) CosetNTT4n(coeffs []curve.Scalar) ([]curve.Scalar, error) {
	n4 := 4 * d.N
	if uint64(len(coeffs)) > n4 {
		return nil, fmt.Errorf("fft: %d coefficients exceed extended domain %d", len(coeffs), n4)
	}
	out := make([]curve.Scalar, n4)
	shift := d.e.One()
	for i := range coeffs {
		out[i] = d.e.Mul(coeffs[i], shift)
		shift = d.e.Mul(shift, d.Shift)
	}
	transform(d.e, out, d.Omega4)
	return out, nil
}

// CosetINTT4n recovers the coefficients of a polynomial from its values on
// the shifted 4n domain. The input is not modified.
func (d *Domain) CosetINTT4n(evals []curve.Scalar) ([]curve.Scalar, error) {
	n4 := 4 * d.N
	if uint64(len(evals)) != n4 {
		return nil, fmt.Errorf("fft: coset intt on %d values, extended domain %d", len(evals), n4)
	}
	out := make([]curve.Scalar, n4)
	copy(out, evals)
	transform(d.e, out, d.Omega4Inv)
	shift := d.N4Inv
	for i := range out {
		out[i] = d.e.Mul(out[i], shift)
		shift = d.e.Mul(shift, d.ShiftInv)
	}
	return out, nil
}

// transform is the iterative radix-2 transform: bit-reverse permutation
// followed by decimation-in-time butterflies. root must be a primitive
// len(buf)-th root of unity; the output is in natural order.
func transform(e curve.Engine, buf []curve.Scalar, root curve.Scalar) {
	n := uint64(len(buf))
	BitReverse(buf)
	for length := uint64(2); length <= n; length <<= 1 {
		wlen := e.Exp(root, n/length)
		half := length >> 1
		for start := uint64(0); start < n; start += length {
			w := e.One()
			for j := uint64(0); j < half; j++ {
				u := buf[start+j]
				v := e.Mul(buf[start+j+half], w)
				buf[start+j] = e.Add(u, v)
				buf[start+j+half] = e.Sub(u, v)
				w = e.Mul(w, wlen)
			}
		}
	}
}

// BitReverse applies the bit-reversal permutation to buf.
// len(buf) must be a power of 2.
func BitReverse(buf []curve.Scalar) {
	n := uint64(len(buf))
	nn := uint64(64 - bits.TrailingZeros64(n))
	for i := uint64(0); i < n; i++ {
		irev := bits.Reverse64(i) >> nn
		if irev > i {
			buf[i], buf[irev] = buf[irev], buf[i]
		}
	}
}
