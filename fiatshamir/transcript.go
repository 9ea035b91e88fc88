// Package fiatshamir derives the prover challenges from a Keccak-256
// transcript of prior commitments and evaluations.
package fiatshamir

import (
	"bytes"

	"golang.org/x/crypto/sha3"

	"github.com/consensys/babyplonk/curve"
)

// Transcript accumulates absorbed bytes and squeezes field challenges. The
// sequence of absorbs and squeezes is a total order; two transcripts fed the
// same sequence produce identical challenges.
type Transcript struct {
	e       curve.Engine
	pending bytes.Buffer
}

// NewTranscript returns an empty transcript bound to the engine's field.
func NewTranscript(e curve.Engine) *Transcript {
	return &Transcript{e: e}
}

// AbsorbScalar appends the canonical 32-byte little-endian form of s.
func (t *Transcript) AbsorbScalar(s curve.Scalar) {
	le := t.e.ToLEBytes(s)
	t.pending.Write(le[:])
}

// AbsorbPoint appends the affine coordinates of p in canonical base-field
// encoding.
func (t *Transcript) AbsorbPoint(p curve.G1) error {
	x, y, err := t.e.PointCoordinates(p)
	if err != nil {
		return err
	}
	t.pending.Write(x)
	t.pending.Write(y)
	return nil
}

// Squeeze finalises the Keccak-256 digest of the pending bytes, reduces it
// mod r into a challenge, and restarts the transcript with the digest as its
// only prior input, so chained squeezes without further absorbs are
// deterministic.
func (t *Transcript) Squeeze() curve.Scalar {
	h := sha3.NewLegacyKeccak256()
	h.Write(t.pending.Bytes())
	digest := h.Sum(nil)

	t.pending.Reset()
	t.pending.Write(digest)

	// digest is a big-endian integer; FromLEBytes reduces mod r
	le := make([]byte, len(digest))
	for i := range digest {
		le[len(digest)-1-i] = digest[i]
	}
	return t.e.FromLEBytes(le)
}

// Reset discards the transcript state entirely.
func (t *Transcript) Reset() {
	t.pending.Reset()
}
