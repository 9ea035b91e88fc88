package curve_test

import (
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/consensys/babyplonk/curve"
	"github.com/consensys/babyplonk/curve/bls12381"
	"github.com/consensys/babyplonk/curve/bn254"
)

func engines() map[string]curve.Engine {
	return map[string]curve.Engine{
		"bn254":    bn254.Engine{},
		"bls12381": bls12381.Engine{},
	}
}

func toBig(e curve.Engine, s curve.Scalar) *big.Int {
	le := e.ToLEBytes(s)
	be := make([]byte, len(le))
	for i := range le {
		be[len(le)-1-i] = le[i]
	}
	return new(big.Int).SetBytes(be)
}

func randomScalar(t *testing.T, e curve.Engine, rng *mrand.Rand) curve.Scalar {
	t.Helper()
	s, err := e.Random(rng)
	require.NoError(t, err)
	return s
}

func TestFieldOps(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			rng := mrand.New(mrand.NewSource(1))
			r := e.ScalarModulus()
			for i := 0; i < 50; i++ {
				a := randomScalar(t, e, rng)
				b := randomScalar(t, e, rng)

				// cross-check mul and add against big.Int
				ab := new(big.Int).Mul(toBig(e, a), toBig(e, b))
				ab.Mod(ab, r)
				require.Equal(t, ab, toBig(e, e.Mul(a, b)))

				sum := new(big.Int).Add(toBig(e, a), toBig(e, b))
				sum.Mod(sum, r)
				require.Equal(t, sum, toBig(e, e.Add(a, b)))

				require.True(t, e.Equal(a, e.Sub(e.Add(a, b), b)))
				require.True(t, e.Equal(e.Square(a), e.Mul(a, a)))
				require.True(t, e.IsZero(e.Add(a, e.Neg(a))))

				if !e.IsZero(b) {
					q, err := e.Div(a, b)
					require.NoError(t, err)
					require.True(t, e.Equal(a, e.Mul(q, b)))
				}

				// a^5 == a*a*a*a*a
				pow := e.Mul(e.Mul(e.Square(a), e.Square(a)), a)
				require.True(t, e.Equal(pow, e.Exp(a, 5)))
			}

			require.True(t, e.IsZero(e.Zero()))
			require.True(t, e.Equal(e.One(), e.FromUint64(1)))
			require.Equal(t, big.NewInt(42), toBig(e, e.FromUint64(42)))

			_, err := e.Inverse(e.Zero())
			require.ErrorIs(t, err, curve.ErrZeroInversion)
		})
	}
}

func TestMontgomeryConversions(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			rng := mrand.New(mrand.NewSource(2))
			for i := 0; i < 20; i++ {
				a := randomScalar(t, e, rng)
				le := e.ToLEBytes(a)
				require.True(t, e.Equal(a, e.FromLEBytes(le[:])))
			}

			// batch conversions are inverses of each other
			buf := make([]curve.Scalar, 16)
			for i := range buf {
				buf[i] = randomScalar(t, e, rng)
			}
			orig := make([]curve.Scalar, len(buf))
			copy(orig, buf)
			e.BatchFromMontgomery(buf)
			e.BatchToMontgomery(buf)
			require.Equal(t, orig, buf)
		})
	}
}

func TestBatchInverse(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			rng := mrand.New(mrand.NewSource(3))
			buf := make([]curve.Scalar, 32)
			orig := make([]curve.Scalar, len(buf))
			for i := range buf {
				buf[i] = randomScalar(t, e, rng)
				orig[i] = buf[i]
			}
			require.NoError(t, e.BatchInverse(buf))
			for i := range buf {
				require.True(t, e.Equal(e.One(), e.Mul(orig[i], buf[i])))
			}

			buf[7] = e.Zero()
			require.ErrorIs(t, e.BatchInverse(buf), curve.ErrZeroInversion)
		})
	}
}

func TestRootOfUnity(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			for _, k := range []int{2, 3, 8} {
				omega, err := e.RootOfUnity(k)
				require.NoError(t, err)
				n := uint64(1) << k
				require.True(t, e.Equal(e.One(), e.Exp(omega, n)))
				require.False(t, e.Equal(e.One(), e.Exp(omega, n/2)))
			}
			_, err := e.RootOfUnity(64)
			require.Error(t, err)
		})
	}
}

func TestRegistry(t *testing.T) {
	for name, e := range engines() {
		got, err := curve.ForPrime(e.BaseModulus())
		require.NoError(t, err)
		require.Equal(t, name, got.Name())

		got, err = curve.ByName(name)
		require.NoError(t, err)
		require.Equal(t, name, got.Name())
	}
	_, err := curve.ForPrime(big.NewInt(101))
	require.Error(t, err)
	_, err = curve.ByName("secp256k1")
	require.Error(t, err)
}

func TestRandomDeterministic(t *testing.T) {
	e := bn254.Engine{}
	a := randomScalar(t, e, mrand.New(mrand.NewSource(7)))
	b := randomScalar(t, e, mrand.New(mrand.NewSource(7)))
	require.True(t, e.Equal(a, b))
}

func TestMultiExp(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			rng := mrand.New(mrand.NewSource(4))
			tau := randomScalar(t, e, rng)
			raw, err := e.PowersOfTau(tau, 12)
			require.NoError(t, err)
			table, err := e.NewPointTable(raw)
			require.NoError(t, err)
			require.Equal(t, 12, table.Len())

			scalars := make([]curve.Scalar, 8)
			for i := range scalars {
				scalars[i] = randomScalar(t, e, rng)
			}

			// sum_i s_i tau^i * G == (sum_i s_i tau^i) * G
			folded := e.Zero()
			tauPow := e.One()
			for i := range scalars {
				folded = e.Add(folded, e.Mul(scalars[i], tauPow))
				tauPow = e.Mul(tauPow, tau)
			}
			got, err := e.MultiExp(table, scalars)
			require.NoError(t, err)
			want, err := e.MultiExp(table, []curve.Scalar{folded})
			require.NoError(t, err)
			require.Equal(t, want, got)

			// trailing table points are ignored
			shortRaw := raw[:8*e.PointBytes()]
			shortTable, err := e.NewPointTable(shortRaw)
			require.NoError(t, err)
			gotShort, err := e.MultiExp(shortTable, scalars)
			require.NoError(t, err)
			require.Equal(t, got, gotShort)

			// more scalars than points is rejected
			_, err = e.MultiExp(shortTable, make([]curve.Scalar, 9))
			require.Error(t, err)

			// coordinates round through canonical and decimal encodings
			x, y, err := e.PointCoordinates(got)
			require.NoError(t, err)
			require.Len(t, x, e.PointBytes()/2)
			require.Len(t, y, e.PointBytes()/2)
			xs, _, err := e.PointStrings(got)
			require.NoError(t, err)
			require.NotEmpty(t, xs)
		})
	}
}
