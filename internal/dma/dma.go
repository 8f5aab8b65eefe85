// Package dma models the aligned, zero-filled, identity-mapped buffers the
// xHCI driver needs for structures the controller reads or writes directly
// (DCBAA, rings, device contexts, HID report buffers). On real hardware these
// come from a physically contiguous, identity-mapped pool; hosted here, the
// Allocator carves them out of a single backing arena and hands back typed
// handles instead of raw pointers.
package dma

import "errors"

// ErrExhausted is returned when the arena has no room left for a request of
// the given size and alignment. Callers during xHCI bring-up must treat this
// as fatal.
var ErrExhausted = errors.New("dma: allocator exhausted")

// ErrBadAlignment is returned for a non-power-of-two alignment or one that
// exceeds the allocator's page size.
var ErrBadAlignment = errors.New("dma: alignment must be a power of two <= 4096")

const maxAlign = 4096

// Buffer is an owned, aligned view over a region of the allocator's arena.
// It carries its own base/length rather than a raw pointer so callers cannot
// outlive or alias the arena by accident.
type Buffer struct {
	base  uint64
	bytes []byte
}

// Base returns the buffer's offset within the allocator's arena. On real
// hardware this stands in for the identity-mapped physical address.
func (b *Buffer) Base() uint64 { return b.base }

// Len returns the buffer's length in bytes.
func (b *Buffer) Len() int { return len(b.bytes) }

// Bytes exposes the zero-filled backing region for reads and writes.
func (b *Buffer) Bytes() []byte { return b.bytes }

// Uint32 reads a little-endian uint32 at the given byte offset.
func (b *Buffer) Uint32(off int) uint32 {
	return uint32(b.bytes[off]) | uint32(b.bytes[off+1])<<8 |
		uint32(b.bytes[off+2])<<16 | uint32(b.bytes[off+3])<<24
}

// PutUint32 writes a little-endian uint32 at the given byte offset.
func (b *Buffer) PutUint32(off int, v uint32) {
	b.bytes[off] = byte(v)
	b.bytes[off+1] = byte(v >> 8)
	b.bytes[off+2] = byte(v >> 16)
	b.bytes[off+3] = byte(v >> 24)
}

// Uint64 reads a little-endian uint64 at the given byte offset.
func (b *Buffer) Uint64(off int) uint64 {
	return uint64(b.Uint32(off)) | uint64(b.Uint32(off+4))<<32
}

// PutUint64 writes a little-endian uint64 at the given byte offset.
func (b *Buffer) PutUint64(off int, v uint64) {
	b.PutUint32(off, uint32(v))
	b.PutUint32(off+4, uint32(v>>32))
}

// Allocator carves aligned, zero-filled buffers out of a fixed-size arena. It
// never coalesces, compacts, or reuses a region: the bump offset only grows
// and Free is a no-op, matching the driver's own allocate-and-never-free
// lifetime for everything it allocates.
type Allocator struct {
	arena []byte
	next  uint64 // bump offset, grows monotonically
}

// New creates an Allocator backed by an arena of the given size in bytes.
func New(size int) *Allocator {
	return &Allocator{arena: make([]byte, size)}
}

// Allocate returns a zero-filled Buffer of size bytes whose base is a
// multiple of align. align must be a power of two no greater than 4096.
func (a *Allocator) Allocate(size, align uint32) (*Buffer, error) {
	if align == 0 || align&(align-1) != 0 || align > maxAlign {
		return nil, ErrBadAlignment
	}
	start := alignUp(a.next, uint64(align))
	end := start + uint64(size)
	if end > uint64(len(a.arena)) {
		return nil, ErrExhausted
	}
	region := a.arena[start:end]
	for i := range region {
		region[i] = 0
	}
	a.next = end
	return &Buffer{base: start, bytes: region}, nil
}

// Free is a no-op for the bump allocator: nothing in the driver's bring-up
// path frees DCBAA/ring/context buffers before shutdown. It exists so
// callers can express "this buffer is no longer needed" without the
// allocator having to track refcounts it doesn't need.
func (a *Allocator) Free(*Buffer) {}

func alignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}
