// Package zkey reads Baby-Plonk proving keys from their sectioned binary
// container, and builds them from a circuit description (see Setup).
package zkey

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/babyplonk/curve"
	"github.com/consensys/babyplonk/internal/binfile"
)

// Magic identifies a proving-key container.
var Magic = [4]byte{'z', 'k', 'e', 'y'}

// Version is the container version this package reads and writes.
const Version = 1

// ProtocolBabyPlonk is the protocol identifier stored in the key header.
const ProtocolBabyPlonk uint32 = 20

// Section ids of the proving-key container.
const (
	SectionProtocol  = 1
	SectionHeader    = 2
	SectionAdditions = 3
	SectionAMap      = 4
	SectionBMap      = 5
	SectionK         = 6
	SectionQ1        = 7
	SectionQ2        = 8
	SectionSigma     = 9
	SectionLagrange  = 10
	SectionPTau      = 11
)

// ErrInvalidProvingKey reports a malformed or foreign proving key.
var ErrInvalidProvingKey = errors.New("zkey: invalid proving key")

// Addition is one entry of the additions section: an internal witness value
// computed as factor1*w[signal1] + factor2*w[signal2].
type Addition struct {
	Signal1, Signal2 uint32
	Factor1, Factor2 curve.Scalar
}

// ProvingKey is the parsed header of a proving-key container plus lazy
// access to its sections.
type ProvingKey struct {
	file *binfile.File

	N8q, N8r     uint32
	Q, R         *big.Int
	Power        int // k, with n = 2^k
	N            uint64
	K1           curve.Scalar
	NVars        uint32
	NPublic      uint32
	NAdditions   uint32
	NConstraints uint32
}

// Read parses the container header sections and validates the protocol id.
func Read(rd io.ReaderAt) (*ProvingKey, error) {
	f, err := binfile.ReadFile(rd, Magic)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProvingKey, err)
	}
	proto, err := f.ReadSection(SectionProtocol)
	if err != nil || len(proto) != 4 {
		return nil, fmt.Errorf("%w: missing protocol section", ErrInvalidProvingKey)
	}
	if id := binary.LittleEndian.Uint32(proto); id != ProtocolBabyPlonk {
		return nil, fmt.Errorf("%w: protocol id %d", ErrInvalidProvingKey, id)
	}

	header, err := f.ReadSection(SectionHeader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProvingKey, err)
	}
	pk := &ProvingKey{file: f}
	rdr := bytesReader(header)
	n8q, err := rdr.u32()
	if err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidProvingKey)
	}
	pk.N8q = n8q
	qLE, err := rdr.bytes(int(n8q))
	if err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidProvingKey)
	}
	pk.Q = leToBig(qLE)
	n8r, err := rdr.u32()
	if err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidProvingKey)
	}
	pk.N8r = n8r
	if n8r != curve.ScalarBytes {
		return nil, fmt.Errorf("%w: scalar size %d", ErrInvalidProvingKey, n8r)
	}
	rLE, err := rdr.bytes(int(n8r))
	if err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidProvingKey)
	}
	pk.R = leToBig(rLE)

	var fields [5]uint32
	for i := range fields {
		if fields[i], err = rdr.u32(); err != nil {
			return nil, fmt.Errorf("%w: truncated header", ErrInvalidProvingKey)
		}
	}
	pk.NVars, pk.NPublic = fields[0], fields[1]
	pk.Power = int(fields[2])
	pk.NAdditions, pk.NConstraints = fields[3], fields[4]
	pk.N = uint64(1) << pk.Power

	k1, err := rdr.bytes(int(n8r))
	if err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidProvingKey)
	}
	copy(pk.K1[:], k1)

	if uint64(pk.NConstraints) > pk.N {
		return nil, fmt.Errorf("%w: %d constraints exceed domain %d", ErrInvalidProvingKey, pk.NConstraints, pk.N)
	}
	return pk, nil
}

// ReadAdditions parses the additions section.
func (pk *ProvingKey) ReadAdditions() ([]Addition, error) {
	raw, err := pk.file.ReadSection(SectionAdditions)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProvingKey, err)
	}
	recSize := 8 + 2*curve.ScalarBytes
	if len(raw) != recSize*int(pk.NAdditions) {
		return nil, fmt.Errorf("%w: additions section size %d", ErrInvalidProvingKey, len(raw))
	}
	out := make([]Addition, pk.NAdditions)
	for i := range out {
		rec := raw[i*recSize:]
		out[i].Signal1 = binary.LittleEndian.Uint32(rec)
		out[i].Signal2 = binary.LittleEndian.Uint32(rec[4:])
		copy(out[i].Factor1[:], rec[8:])
		copy(out[i].Factor2[:], rec[8+curve.ScalarBytes:])
	}
	return out, nil
}

// ReadMap parses a wire-map section (SectionAMap or SectionBMap).
func (pk *ProvingKey) ReadMap(id uint32) ([]uint32, error) {
	raw, err := pk.file.ReadSection(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProvingKey, err)
	}
	if len(raw) != 4*int(pk.NConstraints) {
		return nil, fmt.Errorf("%w: map section %d size %d", ErrInvalidProvingKey, id, len(raw))
	}
	out := make([]uint32, pk.NConstraints)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(raw[4*i:])
	}
	return out, nil
}

// ReadScalars parses a section holding exactly count Montgomery-form
// scalars.
func (pk *ProvingKey) ReadScalars(id uint32, count uint64) ([]curve.Scalar, error) {
	raw, err := pk.file.ReadSection(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProvingKey, err)
	}
	if uint64(len(raw)) != count*curve.ScalarBytes {
		return nil, fmt.Errorf("%w: section %d size %d, want %d scalars", ErrInvalidProvingKey, id, len(raw), count)
	}
	out := make([]curve.Scalar, count)
	for i := range out {
		copy(out[i][:], raw[i*curve.ScalarBytes:])
	}
	return out, nil
}

// ReadPoly4 parses a selector section laid out as n coefficients followed by
// 4n extended-domain evaluations.
func (pk *ProvingKey) ReadPoly4(id uint32) (coefs, evals []curve.Scalar, err error) {
	all, err := pk.ReadScalars(id, 5*pk.N)
	if err != nil {
		return nil, nil, err
	}
	return all[:pk.N], all[pk.N:], nil
}

// ReadSigma parses the permutation section: sigma1 coefficients, sigma1
// evaluations, sigma2 coefficients, sigma2 evaluations. The two evaluation
// windows are returned concatenated (8n values).
func (pk *ProvingKey) ReadSigma() (s1Coefs, s2Coefs, evals []curve.Scalar, err error) {
	n := pk.N
	all, err := pk.ReadScalars(SectionSigma, 10*n)
	if err != nil {
		return nil, nil, nil, err
	}
	s1Coefs = all[:n]
	s2Coefs = all[5*n : 6*n]
	evals = make([]curve.Scalar, 8*n)
	copy(evals[:4*n], all[n:5*n])
	copy(evals[4*n:], all[6*n:])
	return s1Coefs, s2Coefs, evals, nil
}

// ReadLagrange parses the Lagrange section: max(nPublic, 1) records of n
// coefficients plus 4n evaluations each, returned as one concatenated
// buffer indexed as record*5n.
func (pk *ProvingKey) ReadLagrange() ([]curve.Scalar, error) {
	m := uint64(pk.NPublic)
	if m == 0 {
		m = 1
	}
	return pk.ReadScalars(SectionLagrange, m*5*pk.N)
}

// ReadPTau parses the powers-of-tau section into an MSM table.
func (pk *ProvingKey) ReadPTau(e curve.Engine) (curve.PointTable, error) {
	raw, err := pk.file.ReadSection(SectionPTau)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProvingKey, err)
	}
	t, err := e.NewPointTable(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProvingKey, err)
	}
	return t, nil
}

func leToBig(le []byte) *big.Int {
	be := make([]byte, len(le))
	for i := range le {
		be[len(le)-1-i] = le[i]
	}
	return new(big.Int).SetBytes(be)
}

type bytesReader []byte

func (r *bytesReader) u32() (uint32, error) {
	if len(*r) < 4 {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(*r)
	*r = (*r)[4:]
	return v, nil
}

func (r *bytesReader) bytes(n int) ([]byte, error) {
	if len(*r) < n {
		return nil, io.ErrUnexpectedEOF
	}
	v := (*r)[:n]
	*r = (*r)[n:]
	return v, nil
}
