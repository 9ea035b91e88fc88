package prover

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/consensys/babyplonk/curve"
)

// Proof is a Baby-Plonk argument: seven group commitments and seven scalar
// openings, tagged with the protocol and curve names.
type Proof struct {
	e curve.Engine

	A, B, Z   curve.G1
	TL, TH    curve.G1
	Wxi, Wxiw curve.G1

	EvalA  curve.Scalar
	EvalB  curve.Scalar
	EvalS1 curve.Scalar
	EvalAW curve.Scalar
	EvalBW curve.Scalar
	EvalZW curve.Scalar
	EvalR  curve.Scalar
}

// Protocol is the protocol tag carried by serialized proofs.
const Protocol = "baby_plonk"

// CurveName returns the name of the curve the proof was produced over.
func (p *Proof) CurveName() string { return p.e.Name() }

type proofJSON struct {
	A        [2]string `json:"A"`
	B        [2]string `json:"B"`
	Z        [2]string `json:"Z"`
	TL       [2]string `json:"TL"`
	TH       [2]string `json:"TH"`
	Wxi      [2]string `json:"Wxi"`
	Wxiw     [2]string `json:"Wxiw"`
	EvalA    string    `json:"a"`
	EvalB    string    `json:"b"`
	EvalS1   string    `json:"s1"`
	EvalAW   string    `json:"aw"`
	EvalBW   string    `json:"bw"`
	EvalZW   string    `json:"zw"`
	EvalR    string    `json:"r"`
	Protocol string    `json:"protocol"`
	Curve    string    `json:"curve"`
}

// MarshalJSON encodes the proof with decimal coordinates, the snarkjs
// convention.
func (p *Proof) MarshalJSON() ([]byte, error) {
	out := proofJSON{
		Protocol: Protocol,
		Curve:    p.e.Name(),
		EvalA:    scalarString(p.e, p.EvalA),
		EvalB:    scalarString(p.e, p.EvalB),
		EvalS1:   scalarString(p.e, p.EvalS1),
		EvalAW:   scalarString(p.e, p.EvalAW),
		EvalBW:   scalarString(p.e, p.EvalBW),
		EvalZW:   scalarString(p.e, p.EvalZW),
		EvalR:    scalarString(p.e, p.EvalR),
	}
	points := []struct {
		src curve.G1
		dst *[2]string
	}{
		{p.A, &out.A}, {p.B, &out.B}, {p.Z, &out.Z},
		{p.TL, &out.TL}, {p.TH, &out.TH},
		{p.Wxi, &out.Wxi}, {p.Wxiw, &out.Wxiw},
	}
	for _, pt := range points {
		x, y, err := p.e.PointStrings(pt.src)
		if err != nil {
			return nil, err
		}
		pt.dst[0], pt.dst[1] = x, y
	}
	return json.Marshal(out)
}

type proofCBOR struct {
	Curve  string `cbor:"1,keyasint"`
	A      []byte `cbor:"2,keyasint"`
	B      []byte `cbor:"3,keyasint"`
	Z      []byte `cbor:"4,keyasint"`
	TL     []byte `cbor:"5,keyasint"`
	TH     []byte `cbor:"6,keyasint"`
	Wxi    []byte `cbor:"7,keyasint"`
	Wxiw   []byte `cbor:"8,keyasint"`
	EvalA  []byte `cbor:"9,keyasint"`
	EvalB  []byte `cbor:"10,keyasint"`
	EvalS1 []byte `cbor:"11,keyasint"`
	EvalAW []byte `cbor:"12,keyasint"`
	EvalBW []byte `cbor:"13,keyasint"`
	EvalZW []byte `cbor:"14,keyasint"`
	EvalR  []byte `cbor:"15,keyasint"`
}

// MarshalCBOR encodes the proof in its raw binary representation.
func (p *Proof) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(proofCBOR{
		Curve: p.e.Name(),
		A:     p.A, B: p.B, Z: p.Z,
		TL: p.TL, TH: p.TH,
		Wxi: p.Wxi, Wxiw: p.Wxiw,
		EvalA:  p.EvalA[:],
		EvalB:  p.EvalB[:],
		EvalS1: p.EvalS1[:],
		EvalAW: p.EvalAW[:],
		EvalBW: p.EvalBW[:],
		EvalZW: p.EvalZW[:],
		EvalR:  p.EvalR[:],
	})
}

// UnmarshalCBOR decodes a proof and rebinds it to its curve engine.
func (p *Proof) UnmarshalCBOR(data []byte) error {
	var raw proofCBOR
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	e, err := curve.ByName(raw.Curve)
	if err != nil {
		return err
	}
	p.e = e
	p.A, p.B, p.Z = raw.A, raw.B, raw.Z
	p.TL, p.TH = raw.TL, raw.TH
	p.Wxi, p.Wxiw = raw.Wxi, raw.Wxiw
	for _, s := range []struct {
		dst *curve.Scalar
		src []byte
	}{
		{&p.EvalA, raw.EvalA}, {&p.EvalB, raw.EvalB}, {&p.EvalS1, raw.EvalS1},
		{&p.EvalAW, raw.EvalAW}, {&p.EvalBW, raw.EvalBW}, {&p.EvalZW, raw.EvalZW},
		{&p.EvalR, raw.EvalR},
	} {
		if len(s.src) != curve.ScalarBytes {
			return fmt.Errorf("prover: bad scalar length %d in proof", len(s.src))
		}
		copy(s.dst[:], s.src)
	}
	return nil
}

func scalarString(e curve.Engine, s curve.Scalar) string {
	le := e.ToLEBytes(s)
	be := make([]byte, len(le))
	for i := range le {
		be[len(le)-1-i] = le[i]
	}
	return new(big.Int).SetBytes(be).String()
}
