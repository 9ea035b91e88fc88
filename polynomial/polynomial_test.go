package polynomial_test

import (
	mrand "math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/consensys/babyplonk/curve"
	"github.com/consensys/babyplonk/curve/bn254"
	"github.com/consensys/babyplonk/fft"
	"github.com/consensys/babyplonk/polynomial"
)

var eng = bn254.Engine{}

func randomScalars(rng *mrand.Rand, n int) []curve.Scalar {
	out := make([]curve.Scalar, n)
	for i := range out {
		out[i], _ = eng.Random(rng)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)
	properties.Property("evaluate matches the power-basis inner product", prop.ForAll(
		func(seed int64, n int) bool {
			rng := mrand.New(mrand.NewSource(seed))
			coeffs := randomScalars(rng, n)
			z, _ := eng.Random(rng)
			p := polynomial.FromScalars(eng, coeffs)

			want := eng.Zero()
			pow := eng.One()
			for i := range coeffs {
				want = eng.Add(want, eng.Mul(coeffs[i], pow))
				pow = eng.Mul(pow, z)
			}
			return eng.Equal(want, p.Evaluate(z))
		},
		gen.Int64(),
		gen.IntRange(1, 32),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFromEvaluations(t *testing.T) {
	d, err := fft.NewDomain(eng, 3)
	require.NoError(t, err)
	evals := randomScalars(mrand.New(mrand.NewSource(1)), 8)
	p, err := polynomial.FromEvaluations(d, eng, evals)
	require.NoError(t, err)
	for i, root := range d.Roots() {
		require.True(t, eng.Equal(evals[i], p.Evaluate(root)))
	}
}

func TestBlindPreservesSubgroupValues(t *testing.T) {
	d, err := fft.NewDomain(eng, 3)
	require.NoError(t, err)
	rng := mrand.New(mrand.NewSource(2))
	p := polynomial.FromScalars(eng, randomScalars(rng, 8))
	q := p.Clone()
	q.Blind(randomScalars(rng, 2))
	require.Equal(t, 10, q.Length())

	for _, root := range d.Roots() {
		require.True(t, eng.Equal(p.Evaluate(root), q.Evaluate(root)))
	}
	// off the subgroup the blinding must show
	z, _ := eng.Random(rng)
	require.False(t, eng.Equal(p.Evaluate(z), q.Evaluate(z)))
}

func TestSplitRecombines(t *testing.T) {
	rng := mrand.New(mrand.NewSource(3))
	p := polynomial.FromScalars(eng, randomScalars(rng, 32))
	blinding := randomScalars(rng, 2)
	parts, err := p.Split(3, 9, blinding)
	require.NoError(t, err)
	require.Len(t, parts, 3)

	// sum_j X^{j*(deg+1)} * part_j == p at random points
	for trial := 0; trial < 8; trial++ {
		z, _ := eng.Random(rng)
		offset := eng.Exp(z, 10)
		sum := eng.Zero()
		pow := eng.One()
		for _, part := range parts {
			sum = eng.Add(sum, eng.Mul(part.Evaluate(z), pow))
			pow = eng.Mul(pow, offset)
		}
		require.True(t, eng.Equal(p.Evaluate(z), sum))
	}
}

func TestDivByXMinus(t *testing.T) {
	rng := mrand.New(mrand.NewSource(4))
	g := randomScalars(rng, 15)
	zeta, _ := eng.Random(rng)

	// build (X - zeta) * g(X)
	prod := make([]curve.Scalar, 16)
	for i := range g {
		prod[i+1] = eng.Add(prod[i+1], g[i])
		prod[i] = eng.Sub(prod[i], eng.Mul(zeta, g[i]))
	}
	p := polynomial.FromScalars(eng, prod)
	require.NoError(t, p.DivByXMinus(zeta))
	require.Equal(t, 16, p.Length())

	coeffs := p.Coefficients()
	require.True(t, eng.IsZero(coeffs[15]))
	for i := range g {
		require.True(t, eng.Equal(g[i], coeffs[i]), "coefficient %d", i)
	}
}

func TestDivByZh(t *testing.T) {
	const n = 8
	rng := mrand.New(mrand.NewSource(5))
	h := randomScalars(rng, 3*n)

	// build (X^n - 1) * h(X), padded to 4n
	prod := make([]curve.Scalar, 4*n)
	for i := range h {
		prod[i+n] = eng.Add(prod[i+n], h[i])
		prod[i] = eng.Sub(prod[i], h[i])
	}
	p := polynomial.FromScalars(eng, prod)
	require.NoError(t, p.DivByZh(n))
	require.Equal(t, 4*n, p.Length())

	coeffs := p.Coefficients()
	for i := 0; i < 4*n; i++ {
		if i < len(h) {
			require.True(t, eng.Equal(h[i], coeffs[i]), "coefficient %d", i)
		} else {
			require.True(t, eng.IsZero(coeffs[i]), "coefficient %d", i)
		}
	}

	require.Error(t, polynomial.FromScalars(eng, make([]curve.Scalar, 7)).DivByZh(n))
}

func TestArithmetic(t *testing.T) {
	rng := mrand.New(mrand.NewSource(6))
	a := polynomial.FromScalars(eng, randomScalars(rng, 8))
	b := polynomial.FromScalars(eng, randomScalars(rng, 6))
	s, _ := eng.Random(rng)
	z, _ := eng.Random(rng)

	sum := a.Clone()
	require.NoError(t, sum.Add(b, nil))
	require.True(t, eng.Equal(sum.Evaluate(z), eng.Add(a.Evaluate(z), b.Evaluate(z))))

	scaled := a.Clone()
	require.NoError(t, scaled.Add(b, &s))
	require.True(t, eng.Equal(scaled.Evaluate(z), eng.Add(a.Evaluate(z), eng.Mul(s, b.Evaluate(z)))))

	diff := a.Clone()
	require.NoError(t, diff.Sub(b, nil))
	require.True(t, eng.Equal(diff.Evaluate(z), eng.Sub(a.Evaluate(z), b.Evaluate(z))))

	// the shorter polynomial cannot absorb the longer one
	short := b.Clone()
	require.Error(t, short.Add(a, nil))
	require.Error(t, short.Sub(a, nil))

	m := a.Clone()
	m.MulScalar(s)
	require.True(t, eng.Equal(m.Evaluate(z), eng.Mul(s, a.Evaluate(z))))

	c := a.Clone()
	c.AddScalar(s)
	require.True(t, eng.Equal(c.Evaluate(z), eng.Add(a.Evaluate(z), s)))
	c.SubScalar(s)
	require.True(t, eng.Equal(c.Evaluate(z), a.Evaluate(z)))
}

func TestDegreeAndTruncate(t *testing.T) {
	coeffs := make([]curve.Scalar, 10)
	coeffs[0] = eng.FromUint64(3)
	coeffs[4] = eng.FromUint64(7)
	p := polynomial.FromScalars(eng, coeffs)
	require.Equal(t, 4, p.Degree())
	p.Truncate()
	require.Equal(t, 5, p.Length())

	zero := polynomial.FromScalars(eng, make([]curve.Scalar, 5))
	require.Equal(t, 0, zero.Degree())
	zero.Truncate()
	require.Equal(t, 1, zero.Length())
}

func TestEvaluations(t *testing.T) {
	vals := randomScalars(mrand.New(mrand.NewSource(7)), 16)
	ev := polynomial.NewEvaluations(vals)
	require.Equal(t, 16, ev.Len())
	require.Equal(t, vals[3], ev.Get(3))
	require.Equal(t, vals[1], ev.GetWrapped(17))
	require.Equal(t, vals[15], ev.GetWrapped(-1))
	require.Panics(t, func() { ev.Get(16) })
}
