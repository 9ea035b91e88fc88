package witness_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/consensys/babyplonk/curve"
	"github.com/consensys/babyplonk/curve/bls12381"
	"github.com/consensys/babyplonk/curve/bn254"
	"github.com/consensys/babyplonk/witness"
)

func TestRoundTrip(t *testing.T) {
	e := bn254.Engine{}
	values := []*big.Int{big.NewInt(1), big.NewInt(9), big.NewInt(3), big.NewInt(0)}
	raw := witness.Serialize(e.ScalarModulus(), values)

	w, err := witness.Read(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, 4, w.Len())
	require.EqualValues(t, curve.ScalarBytes, w.N8)
	require.Zero(t, w.Prime.Cmp(e.ScalarModulus()))

	scalars, err := w.Scalars(e)
	require.NoError(t, err)
	require.Len(t, scalars, 4)
	for i, v := range values {
		require.True(t, e.Equal(scalars[i], e.FromUint64(v.Uint64())), "value %d", i)
	}
}

func TestFieldMismatch(t *testing.T) {
	e := bn254.Engine{}
	raw := witness.Serialize(e.ScalarModulus(), []*big.Int{big.NewInt(1)})
	w, err := witness.Read(bytes.NewReader(raw))
	require.NoError(t, err)

	_, err = w.Scalars(bls12381.Engine{})
	require.Error(t, err)
}

func TestBadContainer(t *testing.T) {
	_, err := witness.Read(bytes.NewReader([]byte("zkey\x01\x00\x00\x00\x00\x00\x00\x00")))
	require.Error(t, err)
}
