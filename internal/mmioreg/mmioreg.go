// Package mmioreg models a memory-mapped register block as a typed,
// bounds-checked view over a byte slice, replacing the raw pointer casts a
// freestanding driver would use over BAR-mapped physical memory. In this
// hosted build the slice is ordinary Go memory (or, for an in-memory test
// double, a plain []byte); the same Space type stands in for the xHCI
// capability, operational, port, and doorbell register blocks.
package mmioreg

import "fmt"

// Space is a little-endian register block of fixed length.
type Space struct {
	base []byte
}

// New wraps buf as a register space. buf is not copied; writes through the
// Space are visible to anyone else holding buf.
func New(buf []byte) *Space {
	return &Space{base: buf}
}

// Len returns the size of the register block in bytes.
func (s *Space) Len() int { return len(s.base) }

func (s *Space) check(off, width int) {
	if off < 0 || off+width > len(s.base) {
		panic(fmt.Sprintf("mmioreg: offset %#x width %d out of bounds (len %#x)", off, width, len(s.base)))
	}
}

// Read8 reads a byte at offset off.
func (s *Space) Read8(off int) uint8 {
	s.check(off, 1)
	return s.base[off]
}

// Write8 writes a byte at offset off.
func (s *Space) Write8(off int, v uint8) {
	s.check(off, 1)
	s.base[off] = v
}

// Read32 reads a little-endian uint32 at offset off.
func (s *Space) Read32(off int) uint32 {
	s.check(off, 4)
	b := s.base[off : off+4]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Write32 writes a little-endian uint32 at offset off.
func (s *Space) Write32(off int, v uint32) {
	s.check(off, 4)
	b := s.base[off : off+4]
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// Read64 reads a little-endian uint64 at offset off.
func (s *Space) Read64(off int) uint64 {
	return uint64(s.Read32(off)) | uint64(s.Read32(off+4))<<32
}

// Write64 writes a little-endian uint64 at offset off.
func (s *Space) Write64(off int, v uint64) {
	s.Write32(off, uint32(v))
	s.Write32(off+4, uint32(v>>32))
}

// SetBits32 sets the bits of mask in the register at off, leaving others
// unchanged.
func (s *Space) SetBits32(off int, mask uint32) {
	s.Write32(off, s.Read32(off)|mask)
}

// ClearBits32 clears the bits of mask in the register at off, leaving
// others unchanged.
func (s *Space) ClearBits32(off int, mask uint32) {
	s.Write32(off, s.Read32(off)&^mask)
}

// TestBits32 reports whether all bits of mask are set in the register at
// off.
func (s *Space) TestBits32(off int, mask uint32) bool {
	return s.Read32(off)&mask == mask
}

// Sub returns a Space over the sub-region [off, off+length) of s, used to
// model a register block computed from another (operational registers at
// BAR0+cap_length, doorbells at BAR0+dboff, a given port's PORTSC group).
func (s *Space) Sub(off, length int) *Space {
	s.check(off, length)
	return &Space{base: s.base[off : off+length]}
}
