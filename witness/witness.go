// Package witness reads the binary witness (.wtns) format.
//
// Binary protocol, inside the standard sectioned container (magic "wtns"):
//
//	section 1 (header)  -> [u32 n8 | prime (n8 bytes, little-endian) | u32 nWitness]
//	section 2 (values)  -> [value*nWitness], each value n8 bytes little-endian, canonical (< prime)
package witness

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/babyplonk/curve"
	"github.com/consensys/babyplonk/internal/binfile"
)

// Magic identifies a witness container.
var Magic = [4]byte{'w', 't', 'n', 's'}

// Version is the container version this package reads and writes.
const Version = 2

const (
	sectionHeader = 1
	sectionValues = 2
)

var errMalformed = errors.New("witness: malformed file")

// Witness is a parsed witness file. Values are canonical little-endian
// scalars, not yet in Montgomery form.
type Witness struct {
	N8    uint32
	Prime *big.Int
	raw   []byte
	count uint32
}

// Read parses the witness container.
func Read(rd io.ReaderAt) (*Witness, error) {
	f, err := binfile.ReadFile(rd, Magic)
	if err != nil {
		return nil, fmt.Errorf("witness: %w", err)
	}
	header, err := f.ReadSection(sectionHeader)
	if err != nil {
		return nil, fmt.Errorf("witness: %w", err)
	}
	if len(header) < 8 {
		return nil, errMalformed
	}
	n8 := binary.LittleEndian.Uint32(header)
	if uint32(len(header)) != 8+n8 {
		return nil, errMalformed
	}
	primeLE := header[4 : 4+n8]
	primeBE := make([]byte, n8)
	for i := range primeLE {
		primeBE[int(n8)-1-i] = primeLE[i]
	}
	w := &Witness{
		N8:    n8,
		Prime: new(big.Int).SetBytes(primeBE),
		count: binary.LittleEndian.Uint32(header[4+n8:]),
	}
	if w.raw, err = f.ReadSection(sectionValues); err != nil {
		return nil, fmt.Errorf("witness: %w", err)
	}
	if uint32(len(w.raw)) != w.count*n8 {
		return nil, errMalformed
	}
	return w, nil
}

// Len returns the number of witness values.
func (w *Witness) Len() int { return int(w.count) }

// Scalars converts the payload into Montgomery-form scalars for the engine.
// The witness prime must match the engine's scalar field.
func (w *Witness) Scalars(e curve.Engine) ([]curve.Scalar, error) {
	if w.Prime.Cmp(e.ScalarModulus()) != 0 {
		return nil, fmt.Errorf("witness: field prime does not match curve %s", e.Name())
	}
	if int(w.N8) != curve.ScalarBytes {
		return nil, errMalformed
	}
	out := make([]curve.Scalar, w.count)
	for i := range out {
		copy(out[i][:], w.raw[i*int(w.N8):])
	}
	e.BatchToMontgomery(out)
	return out, nil
}

// Serialize writes a witness container for the given canonical values.
func Serialize(prime *big.Int, values []*big.Int) []byte {
	n8 := curve.ScalarBytes
	header := make([]byte, 0, 8+n8)
	header = binary.LittleEndian.AppendUint32(header, uint32(n8))
	header = append(header, toLE(prime, n8)...)
	header = binary.LittleEndian.AppendUint32(header, uint32(len(values)))

	payload := make([]byte, 0, len(values)*n8)
	for _, v := range values {
		payload = append(payload, toLE(v, n8)...)
	}

	b := binfile.NewBuilder(Magic, Version)
	b.AddSection(sectionHeader, header)
	b.AddSection(sectionValues, payload)
	return b.Bytes()
}

func toLE(v *big.Int, n8 int) []byte {
	be := v.FillBytes(make([]byte, n8))
	le := make([]byte, n8)
	for i := range be {
		le[n8-1-i] = be[i]
	}
	return le
}
