// Package polynomial implements dense univariate polynomials in coefficient
// form over a curve engine's scalar field, plus the value-form Evaluations
// vector over the extended domain.
package polynomial

import (
	"errors"
	"fmt"

	"github.com/consensys/babyplonk/curve"
	"github.com/consensys/babyplonk/debug"
	"github.com/consensys/babyplonk/fft"
)

// ErrDivisibility is returned by the division helpers when the dividend is
// not exactly divisible and the debug assertions are enabled.
var ErrDivisibility = errors.New("polynomial: division leaves a remainder")

// Polynomial is a dense coefficient vector c[0..L). It exclusively owns its
// buffer; clones are explicit.
type Polynomial struct {
	e      curve.Engine
	coeffs []curve.Scalar
}

// New returns the zero polynomial with the given number of coefficients.
func New(e curve.Engine, length int) *Polynomial {
	return &Polynomial{e: e, coeffs: make([]curve.Scalar, length)}
}

// FromScalars wraps coeffs as a polynomial, taking ownership of the slice.
func FromScalars(e curve.Engine, coeffs []curve.Scalar) *Polynomial {
	return &Polynomial{e: e, coeffs: coeffs}
}

// FromEvaluations interpolates the polynomial taking the given values on the
// domain's subgroup. The input is not modified.
func FromEvaluations(d *fft.Domain, e curve.Engine, evals []curve.Scalar) (*Polynomial, error) {
	coeffs := make([]curve.Scalar, len(evals))
	copy(coeffs, evals)
	if err := d.INTT(coeffs); err != nil {
		return nil, err
	}
	return &Polynomial{e: e, coeffs: coeffs}, nil
}

// Coefficients exposes the underlying buffer. Callers must not grow it.
func (p *Polynomial) Coefficients() []curve.Scalar { return p.coeffs }

// Length returns the number of stored coefficients, trailing zeros included.
func (p *Polynomial) Length() int { return len(p.coeffs) }

// Degree returns the index of the highest non-zero coefficient, or 0 if the
// polynomial is zero or empty.
func (p *Polynomial) Degree() int {
	for i := len(p.coeffs) - 1; i > 0; i-- {
		if !p.e.IsZero(p.coeffs[i]) {
			return i
		}
	}
	return 0
}

// Clone returns a deep copy.
func (p *Polynomial) Clone() *Polynomial {
	coeffs := make([]curve.Scalar, len(p.coeffs))
	copy(coeffs, p.coeffs)
	return &Polynomial{e: p.e, coeffs: coeffs}
}

// Evaluate computes p(z) by Horner's rule.
func (p *Polynomial) Evaluate(z curve.Scalar) curve.Scalar {
	acc := p.e.Zero()
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		acc = p.e.Add(p.e.Mul(acc, z), p.coeffs[i])
	}
	return acc
}

// Add adds other to p in place, optionally scaling other first. The other
// polynomial must not be longer than p.
func (p *Polynomial) Add(other *Polynomial, scale *curve.Scalar) error {
	if other.Length() > p.Length() {
		return fmt.Errorf("polynomial: add length %d > %d", other.Length(), p.Length())
	}
	for i, c := range other.coeffs {
		if scale != nil {
			c = p.e.Mul(c, *scale)
		}
		p.coeffs[i] = p.e.Add(p.coeffs[i], c)
	}
	return nil
}

// Sub subtracts other from p in place, optionally scaling other first. The
// other polynomial must not be longer than p.
func (p *Polynomial) Sub(other *Polynomial, scale *curve.Scalar) error {
	if other.Length() > p.Length() {
		return fmt.Errorf("polynomial: sub length %d > %d", other.Length(), p.Length())
	}
	for i, c := range other.coeffs {
		if scale != nil {
			c = p.e.Mul(c, *scale)
		}
		p.coeffs[i] = p.e.Sub(p.coeffs[i], c)
	}
	return nil
}

// MulScalar multiplies every coefficient by s.
func (p *Polynomial) MulScalar(s curve.Scalar) {
	for i := range p.coeffs {
		p.coeffs[i] = p.e.Mul(p.coeffs[i], s)
	}
}

// AddScalar adds s to the constant term.
func (p *Polynomial) AddScalar(s curve.Scalar) {
	if len(p.coeffs) == 0 {
		return
	}
	p.coeffs[0] = p.e.Add(p.coeffs[0], s)
}

// SubScalar subtracts s from the constant term.
func (p *Polynomial) SubScalar(s curve.Scalar) {
	if len(p.coeffs) == 0 {
		return
	}
	p.coeffs[0] = p.e.Sub(p.coeffs[0], s)
}

// Blind extends p by len(factors) coefficients, adding factors[i] at
// position L+i and subtracting it at position i. For L == n this realises
// p(X) + (sum_i b_i X^i) * Z_H(X), leaving values on the subgroup unchanged.
func (p *Polynomial) Blind(factors []curve.Scalar) {
	l := len(p.coeffs)
	p.coeffs = append(p.coeffs, factors...)
	for i, b := range factors {
		p.coeffs[i] = p.e.Sub(p.coeffs[i], b)
		p.coeffs[l+i] = b
	}
}

// DivByXMinus divides p by (X - z) in place using synthetic division. The
// length is preserved and the top coefficient is forced to zero. A non-zero
// remainder is reported only when the debug assertions are compiled in.
func (p *Polynomial) DivByXMinus(z curve.Scalar) error {
	l := len(p.coeffs)
	if l < 2 {
		return fmt.Errorf("polynomial: dividing %d coefficients by a linear factor", l)
	}
	q := make([]curve.Scalar, l)
	q[l-2] = p.coeffs[l-1]
	for i := l - 3; i >= 0; i-- {
		q[i] = p.e.Add(p.coeffs[i+1], p.e.Mul(z, q[i+1]))
	}
	if debug.Debug {
		rem := p.e.Add(p.coeffs[0], p.e.Mul(z, q[0]))
		if !p.e.IsZero(rem) {
			return ErrDivisibility
		}
	}
	p.coeffs = q
	return nil
}

// DivByZh divides a length-4n polynomial known to be divisible by
// Z_H = X^n - 1, in place. The length stays 4n.
func (p *Polynomial) DivByZh(n uint64) error {
	if uint64(len(p.coeffs)) != 4*n {
		return fmt.Errorf("polynomial: div by Z_H on %d coefficients, want %d", len(p.coeffs), 4*n)
	}
	q := make([]curve.Scalar, 4*n)
	for i := uint64(0); i < n; i++ {
		q[i] = p.e.Neg(p.coeffs[i])
	}
	for i := n; i < 4*n; i++ {
		q[i] = p.e.Sub(q[i-n], p.coeffs[i])
	}
	if debug.Debug {
		for i := 3 * n; i < 4*n; i++ {
			if !p.e.IsZero(q[i]) {
				return ErrDivisibility
			}
		}
	}
	p.coeffs = q
	return nil
}

// Split cuts p into numParts chunks of deg+1 coefficients (the last chunk
// takes the remainder). Every non-last chunk j gets blinding[j] appended at
// position deg+1; every non-first chunk j has blinding[j-1] subtracted from
// its constant term. The chunks weighted by X^{j(deg+1)} sum to p.
func (p *Polynomial) Split(numParts, deg int, blinding []curve.Scalar) ([]*Polynomial, error) {
	if numParts < 1 {
		return nil, fmt.Errorf("polynomial: split into %d parts", numParts)
	}
	if len(blinding) < numParts-1 {
		return nil, fmt.Errorf("polynomial: split needs %d blinding factors, got %d", numParts-1, len(blinding))
	}
	cs := deg + 1
	parts := make([]*Polynomial, numParts)
	for j := 0; j < numParts; j++ {
		lo := j * cs
		hi := lo + cs
		if j == numParts-1 || hi > len(p.coeffs) {
			hi = len(p.coeffs)
		}
		if lo > len(p.coeffs) {
			lo = len(p.coeffs)
		}
		last := j == numParts-1
		size := cs + 1 // room for the blinding coefficient
		if last {
			size = hi - lo
		}
		coeffs := make([]curve.Scalar, size)
		copy(coeffs, p.coeffs[lo:hi])
		if !last {
			coeffs[cs] = blinding[j]
		}
		if j > 0 {
			coeffs[0] = p.e.Sub(coeffs[0], blinding[j-1])
		}
		parts[j] = &Polynomial{e: p.e, coeffs: coeffs}
	}
	return parts, nil
}

// Truncate shrinks the buffer to degree+1 coefficients.
func (p *Polynomial) Truncate() {
	p.coeffs = p.coeffs[:p.Degree()+1]
}
