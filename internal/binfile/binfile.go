// Package binfile reads and writes the sectioned little-endian binary
// container shared by the proving-key and witness file formats:
//
//	magic[4] | u32 version | u32 nSections | { u32 id | u64 size | payload }*
package binfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidFormat reports a malformed container layout.
var ErrInvalidFormat = errors.New("binfile: invalid format")

type section struct {
	offset int64
	size   int64
}

// File is a parsed container indexing its sections by id.
type File struct {
	rd       io.ReaderAt
	version  uint32
	sections map[uint32]section
}

// ReadFile parses the section table of rd, checking the expected magic.
func ReadFile(rd io.ReaderAt, magic [4]byte) (*File, error) {
	var header [12]byte
	if _, err := rd.ReadAt(header[:], 0); err != nil {
		return nil, fmt.Errorf("binfile: reading header: %w", err)
	}
	if [4]byte(header[:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidFormat, header[:4])
	}
	f := &File{
		rd:       rd,
		version:  binary.LittleEndian.Uint32(header[4:]),
		sections: make(map[uint32]section),
	}
	nSections := binary.LittleEndian.Uint32(header[8:])
	offset := int64(12)
	var sh [12]byte
	for i := uint32(0); i < nSections; i++ {
		if _, err := rd.ReadAt(sh[:], offset); err != nil {
			return nil, fmt.Errorf("binfile: reading section table: %w", err)
		}
		id := binary.LittleEndian.Uint32(sh[:])
		size := binary.LittleEndian.Uint64(sh[4:])
		if size > 1<<40 {
			return nil, fmt.Errorf("%w: section %d size %d", ErrInvalidFormat, id, size)
		}
		if _, dup := f.sections[id]; dup {
			return nil, fmt.Errorf("%w: duplicate section %d", ErrInvalidFormat, id)
		}
		f.sections[id] = section{offset: offset + 12, size: int64(size)}
		offset += 12 + int64(size)
	}
	return f, nil
}

// Version returns the container version.
func (f *File) Version() uint32 { return f.version }

// HasSection reports whether a section with the given id exists.
func (f *File) HasSection(id uint32) bool {
	_, ok := f.sections[id]
	return ok
}

// SectionSize returns the payload size of the given section.
func (f *File) SectionSize(id uint32) (int64, error) {
	s, ok := f.sections[id]
	if !ok {
		return 0, fmt.Errorf("%w: missing section %d", ErrInvalidFormat, id)
	}
	return s.size, nil
}

// Section returns a bounded reader over the payload of the given section.
func (f *File) Section(id uint32) (*io.SectionReader, error) {
	s, ok := f.sections[id]
	if !ok {
		return nil, fmt.Errorf("%w: missing section %d", ErrInvalidFormat, id)
	}
	return io.NewSectionReader(f.rd, s.offset, s.size), nil
}

// ReadSection reads the full payload of the given section.
func (f *File) ReadSection(id uint32) ([]byte, error) {
	s, ok := f.sections[id]
	if !ok {
		return nil, fmt.Errorf("%w: missing section %d", ErrInvalidFormat, id)
	}
	buf := make([]byte, s.size)
	if _, err := f.rd.ReadAt(buf, s.offset); err != nil {
		return nil, fmt.Errorf("binfile: reading section %d: %w", id, err)
	}
	return buf, nil
}

// Builder assembles a container in memory.
type Builder struct {
	magic    [4]byte
	version  uint32
	ids      []uint32
	payloads [][]byte
}

// NewBuilder starts a container with the given magic and version.
func NewBuilder(magic [4]byte, version uint32) *Builder {
	return &Builder{magic: magic, version: version}
}

// AddSection appends a section. Sections are written in insertion order.
func (b *Builder) AddSection(id uint32, payload []byte) {
	b.ids = append(b.ids, id)
	b.payloads = append(b.payloads, payload)
}

// Bytes serialises the container.
func (b *Builder) Bytes() []byte {
	size := 12
	for _, p := range b.payloads {
		size += 12 + len(p)
	}
	out := make([]byte, 0, size)
	out = append(out, b.magic[:]...)
	out = binary.LittleEndian.AppendUint32(out, b.version)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(b.ids)))
	for i, id := range b.ids {
		out = binary.LittleEndian.AppendUint32(out, id)
		out = binary.LittleEndian.AppendUint64(out, uint64(len(b.payloads[i])))
		out = append(out, b.payloads[i]...)
	}
	return out
}
