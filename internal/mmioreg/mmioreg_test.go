package mmioreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadWrite32RoundTrip(t *testing.T) {
	s := New(make([]byte, 16))
	s.Write32(4, 0xDEADBEEF)
	assert.Equal(t, uint32(0xDEADBEEF), s.Read32(4))
}

func TestSetClearTestBits32(t *testing.T) {
	s := New(make([]byte, 8))
	s.SetBits32(0, 0x0F)
	assert.True(t, s.TestBits32(0, 0x05))
	s.ClearBits32(0, 0x05)
	assert.False(t, s.TestBits32(0, 0x05))
	assert.True(t, s.TestBits32(0, 0x0A))
}

func TestOutOfBoundsPanics(t *testing.T) {
	s := New(make([]byte, 4))
	assert.Panics(t, func() { s.Read32(2) })
}

func TestSub(t *testing.T) {
	s := New(make([]byte, 32))
	s.Write32(16, 0x1234)
	sub := s.Sub(16, 16)
	assert.Equal(t, uint32(0x1234), sub.Read32(0))
}

func TestUint64RoundTrip(t *testing.T) {
	s := New(make([]byte, 16))
	s.Write64(0, 0x0102030405060708)
	assert.Equal(t, uint64(0x0102030405060708), s.Read64(0))
}
