// Package bls12381 implements the curve.Engine interface over BLS12-381,
// delegating arithmetic to gnark-crypto.
package bls12381

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
	"runtime"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"

	"github.com/consensys/babyplonk/curve"
)

// MaxK is the two-adicity of the BLS12-381 scalar field.
const MaxK = 32

func init() {
	curve.Register(Engine{})
}

// Engine is the BLS12-381 implementation of curve.Engine.
type Engine struct{}

func (Engine) Name() string { return "bls12381" }

func (Engine) ScalarModulus() *big.Int { return fr.Modulus() }
func (Engine) BaseModulus() *big.Int   { return fp.Modulus() }
func (Engine) PointBytes() int         { return 2 * fp.Bytes }

func decode(s curve.Scalar) fr.Element {
	var z fr.Element
	for i := 0; i < fr.Limbs; i++ {
		z[i] = binary.LittleEndian.Uint64(s[8*i:])
	}
	return z
}

func encode(z fr.Element) curve.Scalar {
	var s curve.Scalar
	for i := 0; i < fr.Limbs; i++ {
		binary.LittleEndian.PutUint64(s[8*i:], z[i])
	}
	return s
}

func (Engine) Zero() curve.Scalar { return curve.Scalar{} }

func (Engine) One() curve.Scalar {
	var z fr.Element
	z.SetOne()
	return encode(z)
}

func (Engine) FromUint64(v uint64) curve.Scalar {
	var z fr.Element
	z.SetUint64(v)
	return encode(z)
}

func (Engine) Add(a, b curve.Scalar) curve.Scalar {
	x, y := decode(a), decode(b)
	x.Add(&x, &y)
	return encode(x)
}

func (Engine) Sub(a, b curve.Scalar) curve.Scalar {
	x, y := decode(a), decode(b)
	x.Sub(&x, &y)
	return encode(x)
}

func (Engine) Neg(a curve.Scalar) curve.Scalar {
	x := decode(a)
	x.Neg(&x)
	return encode(x)
}

func (Engine) Mul(a, b curve.Scalar) curve.Scalar {
	x, y := decode(a), decode(b)
	x.Mul(&x, &y)
	return encode(x)
}

func (Engine) Square(a curve.Scalar) curve.Scalar {
	x := decode(a)
	x.Square(&x)
	return encode(x)
}

func (e Engine) Div(a, b curve.Scalar) (curve.Scalar, error) {
	inv, err := e.Inverse(b)
	if err != nil {
		return curve.Scalar{}, err
	}
	return e.Mul(a, inv), nil
}

func (Engine) Inverse(a curve.Scalar) (curve.Scalar, error) {
	x := decode(a)
	if x.IsZero() {
		return curve.Scalar{}, curve.ErrZeroInversion
	}
	x.Inverse(&x)
	return encode(x), nil
}

func (Engine) Exp(a curve.Scalar, k uint64) curve.Scalar {
	x := decode(a)
	var z fr.Element
	z.Exp(x, new(big.Int).SetUint64(k))
	return encode(z)
}

func (Engine) Equal(a, b curve.Scalar) bool {
	x, y := decode(a), decode(b)
	return x.Equal(&y)
}

func (Engine) IsZero(a curve.Scalar) bool {
	x := decode(a)
	return x.IsZero()
}

func (Engine) Random(rand io.Reader) (curve.Scalar, error) {
	var buf [48]byte
	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return curve.Scalar{}, fmt.Errorf("sampling scalar: %w", err)
	}
	var z fr.Element
	z.SetBytes(buf[:])
	return encode(z), nil
}

func (Engine) FromLEBytes(b []byte) curve.Scalar {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	var z fr.Element
	z.SetBytes(be)
	return encode(z)
}

func (Engine) ToLEBytes(a curve.Scalar) [curve.ScalarBytes]byte {
	z := decode(a)
	be := z.Bytes()
	var le [curve.ScalarBytes]byte
	for i := range be {
		le[len(be)-1-i] = be[i]
	}
	return le
}

func (e Engine) BatchToMontgomery(buf []curve.Scalar) {
	for i := range buf {
		buf[i] = e.FromLEBytes(buf[i][:])
	}
}

func (e Engine) BatchFromMontgomery(buf []curve.Scalar) {
	for i := range buf {
		buf[i] = e.ToLEBytes(buf[i])
	}
}

func (Engine) BatchInverse(buf []curve.Scalar) error {
	elems := make([]fr.Element, len(buf))
	for i := range buf {
		elems[i] = decode(buf[i])
		if elems[i].IsZero() {
			return curve.ErrZeroInversion
		}
	}
	inv := fr.BatchInvert(elems)
	for i := range buf {
		buf[i] = encode(inv[i])
	}
	return nil
}

func (Engine) RootOfUnity(k int) (curve.Scalar, error) {
	if k < 1 || k > MaxK {
		return curve.Scalar{}, fmt.Errorf("bls12381: no 2^%d-th root of unity", k)
	}
	d := fft.NewDomain(uint64(1) << k)
	return encode(d.Generator), nil
}

func (Engine) CosetShift() curve.Scalar {
	d := fft.NewDomain(4)
	return encode(d.FrMultiplicativeGen)
}

type pointTable struct {
	points []bls12381.G1Affine
}

func (t *pointTable) Len() int { return len(t.points) }

func decodeFp(b []byte) fp.Element {
	var z fp.Element
	for i := 0; i < fp.Limbs; i++ {
		z[i] = binary.LittleEndian.Uint64(b[8*i:])
	}
	return z
}

func encodeFp(z fp.Element, b []byte) {
	for i := 0; i < fp.Limbs; i++ {
		binary.LittleEndian.PutUint64(b[8*i:], z[i])
	}
}

func (e Engine) NewPointTable(raw []byte) (curve.PointTable, error) {
	sz := e.PointBytes()
	if len(raw)%sz != 0 {
		return nil, errors.New("bls12381: truncated point section")
	}
	points := make([]bls12381.G1Affine, len(raw)/sz)
	for i := range points {
		points[i].X = decodeFp(raw[i*sz:])
		points[i].Y = decodeFp(raw[i*sz+fp.Bytes:])
		if !points[i].IsInfinity() && !points[i].IsOnCurve() {
			return nil, fmt.Errorf("bls12381: point %d not on curve", i)
		}
	}
	return &pointTable{points: points}, nil
}

func (e Engine) MultiExp(table curve.PointTable, scalars []curve.Scalar) (curve.G1, error) {
	t, ok := table.(*pointTable)
	if !ok {
		return nil, errors.New("bls12381: foreign point table")
	}
	if len(scalars) > len(t.points) {
		return nil, fmt.Errorf("bls12381: %d scalars for %d points", len(scalars), len(t.points))
	}
	elems := make([]fr.Element, len(scalars))
	for i := range scalars {
		elems[i] = decode(scalars[i])
	}
	var p bls12381.G1Affine
	if _, err := p.MultiExp(t.points[:len(scalars)], elems, ecc.MultiExpConfig{NbTasks: runtime.NumCPU()}); err != nil {
		return nil, err
	}
	return e.encodePoint(p), nil
}

func (e Engine) encodePoint(p bls12381.G1Affine) curve.G1 {
	out := make(curve.G1, e.PointBytes())
	encodeFp(p.X, out)
	encodeFp(p.Y, out[fp.Bytes:])
	return out
}

func (e Engine) decodePoint(g curve.G1) (bls12381.G1Affine, error) {
	var p bls12381.G1Affine
	if len(g) != e.PointBytes() {
		return p, errors.New("bls12381: bad point encoding")
	}
	p.X = decodeFp(g)
	p.Y = decodeFp(g[fp.Bytes:])
	return p, nil
}

func (e Engine) PowersOfTau(tau curve.Scalar, count int) ([]byte, error) {
	_, _, g1, _ := bls12381.Generators()
	le := e.ToLEBytes(tau)
	be := make([]byte, len(le))
	for i := range le {
		be[len(le)-1-i] = le[i]
	}
	tauBig := new(big.Int).SetBytes(be)

	out := make([]byte, count*e.PointBytes())
	acc := big.NewInt(1)
	var p bls12381.G1Affine
	for i := 0; i < count; i++ {
		p.ScalarMultiplication(&g1, acc)
		encodeFp(p.X, out[i*e.PointBytes():])
		encodeFp(p.Y, out[i*e.PointBytes()+fp.Bytes:])
		acc.Mul(acc, tauBig)
		acc.Mod(acc, fr.Modulus())
	}
	return out, nil
}

func (e Engine) PointCoordinates(g curve.G1) (x, y []byte, err error) {
	p, err := e.decodePoint(g)
	if err != nil {
		return nil, nil, err
	}
	xb, yb := p.X.Bytes(), p.Y.Bytes()
	x = make([]byte, fp.Bytes)
	y = make([]byte, fp.Bytes)
	for i := 0; i < fp.Bytes; i++ {
		x[fp.Bytes-1-i] = xb[i]
		y[fp.Bytes-1-i] = yb[i]
	}
	return x, y, nil
}

func (e Engine) PointStrings(g curve.G1) (x, y string, err error) {
	p, err := e.decodePoint(g)
	if err != nil {
		return "", "", err
	}
	return p.X.String(), p.Y.String(), nil
}
