package fiatshamir_test

import (
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/consensys/babyplonk/curve"
	"github.com/consensys/babyplonk/curve/bn254"
	"github.com/consensys/babyplonk/fiatshamir"
)

var eng = bn254.Engine{}

func somePoint(t *testing.T) curve.G1 {
	t.Helper()
	raw, err := eng.PowersOfTau(eng.FromUint64(5), 2)
	require.NoError(t, err)
	return curve.G1(raw[eng.PointBytes():])
}

func TestDeterminism(t *testing.T) {
	rng := mrand.New(mrand.NewSource(1))
	s1, _ := eng.Random(rng)
	s2, _ := eng.Random(rng)
	p := somePoint(t)

	run := func() []curve.Scalar {
		tr := fiatshamir.NewTranscript(eng)
		tr.AbsorbScalar(s1)
		require.NoError(t, tr.AbsorbPoint(p))
		c1 := tr.Squeeze()
		tr.AbsorbScalar(s2)
		c2 := tr.Squeeze()
		c3 := tr.Squeeze() // chained squeeze without absorbs
		return []curve.Scalar{c1, c2, c3}
	}

	a, b := run(), run()
	for i := range a {
		require.True(t, eng.Equal(a[i], b[i]), "challenge %d", i)
	}
	require.False(t, eng.Equal(a[0], a[1]))
	require.False(t, eng.Equal(a[1], a[2]))
}

func TestOrderMatters(t *testing.T) {
	rng := mrand.New(mrand.NewSource(2))
	s1, _ := eng.Random(rng)
	s2, _ := eng.Random(rng)

	tr1 := fiatshamir.NewTranscript(eng)
	tr1.AbsorbScalar(s1)
	tr1.AbsorbScalar(s2)

	tr2 := fiatshamir.NewTranscript(eng)
	tr2.AbsorbScalar(s2)
	tr2.AbsorbScalar(s1)

	require.False(t, eng.Equal(tr1.Squeeze(), tr2.Squeeze()))
}

func TestReset(t *testing.T) {
	rng := mrand.New(mrand.NewSource(3))
	s, _ := eng.Random(rng)

	tr1 := fiatshamir.NewTranscript(eng)
	tr1.AbsorbScalar(s)
	tr1.Reset()
	c1 := tr1.Squeeze()

	// a reset transcript behaves like a fresh one
	tr2 := fiatshamir.NewTranscript(eng)
	c2 := tr2.Squeeze()
	require.True(t, eng.Equal(c1, c2))

	// and discards the digest chaining too
	tr1.Reset()
	require.True(t, eng.Equal(c2, tr1.Squeeze()))
}
