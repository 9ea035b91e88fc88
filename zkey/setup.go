package zkey

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/consensys/babyplonk/curve"
	"github.com/consensys/babyplonk/fft"
	"github.com/consensys/babyplonk/internal/binfile"
)

// Circuit describes a Baby-Plonk circuit to Setup. Row vectors have one
// entry per constraint row (n = 2^Power); scalar entries are in Montgomery
// form.
type Circuit struct {
	Power   int
	NVars   uint32
	NPublic uint32

	// AMap and BMap assign a witness wire to each a / b slot.
	AMap, BMap []uint32

	// K is the additive correction applied to the b column.
	K []curve.Scalar

	// Q1 and Q2 are the selector values per row.
	Q1, Q2 []curve.Scalar

	// Permutation maps slot -> slot over the 2n slot space (a slots first,
	// then b slots). Cycles must connect slots holding equal values.
	Permutation []int

	Additions []Addition

	// K1 distinguishes the b-column slot labels; it must lie outside the
	// subgroup generated by omega. Defaults to 2.
	K1 curve.Scalar
}

// Setup builds a serialized proving key for the circuit, using tau as the
// commitment trapdoor. It replaces the external key builder for programmatic
// and test use.
func Setup(e curve.Engine, c *Circuit, tau curve.Scalar) ([]byte, error) {
	d, err := fft.NewDomain(e, c.Power)
	if err != nil {
		return nil, err
	}
	n := int(d.N)
	if len(c.AMap) != n || len(c.BMap) != n || len(c.K) != n || len(c.Q1) != n || len(c.Q2) != n {
		return nil, fmt.Errorf("zkey: row vectors must have %d entries", n)
	}
	if len(c.Permutation) != 2*n {
		return nil, fmt.Errorf("zkey: permutation must cover %d slots", 2*n)
	}
	k1 := c.K1
	if e.IsZero(k1) {
		k1 = e.FromUint64(2)
	}

	b := newWriter(e)

	// protocol + header
	proto := binary.LittleEndian.AppendUint32(nil, ProtocolBabyPlonk)
	header := b.header(c, k1)

	// slot labels: omega^i for a slots, k1*omega^i for b slots
	roots := d.Roots()
	label := func(slot int) curve.Scalar {
		if slot < n {
			return roots[slot]
		}
		return e.Mul(k1, roots[slot-n])
	}
	sigma1 := make([]curve.Scalar, n)
	sigma2 := make([]curve.Scalar, n)
	for i := 0; i < n; i++ {
		sigma1[i] = label(c.Permutation[i])
		sigma2[i] = label(c.Permutation[n+i])
	}

	q1, err := b.poly4(d, c.Q1)
	if err != nil {
		return nil, err
	}
	q2, err := b.poly4(d, c.Q2)
	if err != nil {
		return nil, err
	}
	s1, err := b.poly4(d, sigma1)
	if err != nil {
		return nil, err
	}
	s2, err := b.poly4(d, sigma2)
	if err != nil {
		return nil, err
	}

	// Lagrange records for each public input; at least one so the boundary
	// polynomial L_1 is always available.
	m := int(c.NPublic)
	if m == 0 {
		m = 1
	}
	lagrange := make([]byte, 0, m*5*n*curve.ScalarBytes)
	unit := make([]curve.Scalar, n)
	for j := 0; j < m; j++ {
		for i := range unit {
			unit[i] = curve.Scalar{}
		}
		unit[j] = e.One()
		rec, err := b.poly4(d, unit)
		if err != nil {
			return nil, err
		}
		lagrange = append(lagrange, rec...)
	}

	ptau, err := e.PowersOfTau(tau, 4*n+6)
	if err != nil {
		return nil, err
	}

	additions := make([]byte, 0, len(c.Additions)*(8+2*curve.ScalarBytes))
	for _, a := range c.Additions {
		additions = binary.LittleEndian.AppendUint32(additions, a.Signal1)
		additions = binary.LittleEndian.AppendUint32(additions, a.Signal2)
		additions = append(additions, a.Factor1[:]...)
		additions = append(additions, a.Factor2[:]...)
	}

	out := binfile.NewBuilder(Magic, Version)
	out.AddSection(SectionProtocol, proto)
	out.AddSection(SectionHeader, header)
	out.AddSection(SectionAdditions, additions)
	out.AddSection(SectionAMap, packU32(c.AMap))
	out.AddSection(SectionBMap, packU32(c.BMap))
	out.AddSection(SectionK, packScalars(c.K))
	out.AddSection(SectionQ1, q1)
	out.AddSection(SectionQ2, q2)
	out.AddSection(SectionSigma, append(append([]byte{}, s1...), s2...))
	out.AddSection(SectionLagrange, lagrange)
	out.AddSection(SectionPTau, ptau)
	return out.Bytes(), nil
}

type writer struct {
	e curve.Engine
}

func newWriter(e curve.Engine) *writer { return &writer{e: e} }

func (w *writer) header(c *Circuit, k1 curve.Scalar) []byte {
	n8q := (w.e.BaseModulus().BitLen() + 7) / 8
	out := binary.LittleEndian.AppendUint32(nil, uint32(n8q))
	out = append(out, bigToLE(w.e.BaseModulus(), n8q)...)
	out = binary.LittleEndian.AppendUint32(out, curve.ScalarBytes)
	out = append(out, bigToLE(w.e.ScalarModulus(), curve.ScalarBytes)...)
	out = binary.LittleEndian.AppendUint32(out, c.NVars)
	out = binary.LittleEndian.AppendUint32(out, c.NPublic)
	out = binary.LittleEndian.AppendUint32(out, uint32(c.Power))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(c.Additions)))
	out = binary.LittleEndian.AppendUint32(out, uint32(1)<<c.Power)
	out = append(out, k1[:]...)
	return out
}

// poly4 serialises a row-value vector as coefficients followed by
// extended-domain evaluations.
func (w *writer) poly4(d *fft.Domain, rows []curve.Scalar) ([]byte, error) {
	coefs := make([]curve.Scalar, len(rows))
	copy(coefs, rows)
	if err := d.INTT(coefs); err != nil {
		return nil, err
	}
	evals, err := d.CosetNTT4n(coefs)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, (len(coefs)+len(evals))*curve.ScalarBytes)
	out = append(out, packScalars(coefs)...)
	out = append(out, packScalars(evals)...)
	return out, nil
}

func packScalars(s []curve.Scalar) []byte {
	out := make([]byte, 0, len(s)*curve.ScalarBytes)
	for i := range s {
		out = append(out, s[i][:]...)
	}
	return out
}

func packU32(v []uint32) []byte {
	out := make([]byte, 0, 4*len(v))
	for _, x := range v {
		out = binary.LittleEndian.AppendUint32(out, x)
	}
	return out
}

func bigToLE(v *big.Int, n8 int) []byte {
	be := v.FillBytes(make([]byte, n8))
	le := make([]byte, n8)
	for i := range be {
		le[n8-1-i] = be[i]
	}
	return le
}
