// Package curve defines the field and group interface the prover core
// consumes. Concrete engines live in the bn254 and bls12381 subpackages and
// delegate to gnark-crypto; the registry selects one from the field primes
// found in a proving key.
package curve

import (
	"errors"
	"io"
	"math/big"
)

// ErrZeroInversion is returned when a batch or single inversion hits a zero
// divisor. Under a well-formed witness this cannot happen.
var ErrZeroInversion = errors.New("curve: inversion of zero")

// ScalarBytes is the byte size of a scalar field element. Both supported
// curves have a 32-byte scalar field.
const ScalarBytes = 32

// Scalar is an element of F_r in Montgomery form, little-endian limb
// encoding. The zero value is the field's zero.
type Scalar [ScalarBytes]byte

// G1 is an affine G_1 point in the engine's raw encoding: x coordinate
// followed by y, each a Montgomery-form little-endian base-field element.
// The all-zero encoding is the point at infinity.
type G1 []byte

// PointTable is an immutable table of G_1 points, typically the powers of τ
// read from a proving key. It is safe for concurrent MultiExp calls.
type PointTable interface {
	Len() int
}

// Engine bundles scalar-field arithmetic and G_1 operations for one curve.
// Engines are stateless and safe for concurrent use.
type Engine interface {
	Name() string

	// ScalarModulus returns r, BaseModulus returns q.
	ScalarModulus() *big.Int
	BaseModulus() *big.Int

	// PointBytes is the size of a raw affine G_1 encoding (two base-field
	// coordinates).
	PointBytes() int

	Zero() Scalar
	One() Scalar
	FromUint64(v uint64) Scalar
	Add(a, b Scalar) Scalar
	Sub(a, b Scalar) Scalar
	Neg(a Scalar) Scalar
	Mul(a, b Scalar) Scalar
	Square(a Scalar) Scalar
	Div(a, b Scalar) (Scalar, error)
	Inverse(a Scalar) (Scalar, error)
	Exp(a Scalar, k uint64) Scalar
	Equal(a, b Scalar) bool
	IsZero(a Scalar) bool

	// Random samples a scalar from rand, uniform mod r.
	Random(rand io.Reader) (Scalar, error)

	// FromLEBytes reduces a canonical little-endian integer mod r and
	// converts it to Montgomery form. ToLEBytes is the inverse on reduced
	// values.
	FromLEBytes(b []byte) Scalar
	ToLEBytes(a Scalar) [ScalarBytes]byte

	// BatchToMontgomery reinterprets each element of buf as a canonical
	// little-endian integer and replaces it with its Montgomery form.
	// BatchFromMontgomery is the inverse.
	BatchToMontgomery(buf []Scalar)
	BatchFromMontgomery(buf []Scalar)

	// BatchInverse inverts buf in place using Montgomery's trick. A zero
	// element aborts with ErrZeroInversion, leaving buf unspecified.
	BatchInverse(buf []Scalar) error

	// RootOfUnity returns a primitive 2^k-th root of unity.
	RootOfUnity(k int) (Scalar, error)

	// CosetShift returns the smallest multiplicative generator of F_r,
	// used to shift the evaluation domain off the subgroup.
	CosetShift() Scalar

	// NewPointTable parses a packed affine point section (PointBytes per
	// point) into an MSM-ready table.
	NewPointTable(raw []byte) (PointTable, error)

	// MultiExp computes sum_i scalars[i] * table[i]. The table may be
	// longer than the scalar vector; trailing points are ignored.
	MultiExp(table PointTable, scalars []Scalar) (G1, error)

	// PowersOfTau builds a packed table of count points tau^i * G, the CRS
	// layout consumed by NewPointTable.
	PowersOfTau(tau Scalar, count int) ([]byte, error)

	// PointCoordinates returns the affine coordinates as canonical
	// little-endian base-field integers.
	PointCoordinates(p G1) (x, y []byte, err error)

	// PointStrings returns the affine coordinates as decimal strings.
	PointStrings(p G1) (x, y string, err error)
}
