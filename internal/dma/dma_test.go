package dma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateAlignsAndZeroFills(t *testing.T) {
	a := New(4096)
	buf, err := a.Allocate(64, 64)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), buf.Base()%64)
	for _, b := range buf.Bytes() {
		assert.Equal(t, byte(0), b)
	}
}

func TestAllocateExhaustion(t *testing.T) {
	a := New(128)
	_, err := a.Allocate(64, 64)
	require.NoError(t, err)
	_, err = a.Allocate(128, 64)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestAllocateRejectsBadAlignment(t *testing.T) {
	a := New(4096)
	_, err := a.Allocate(8, 3)
	assert.ErrorIs(t, err, ErrBadAlignment)
	_, err = a.Allocate(8, 8192)
	assert.ErrorIs(t, err, ErrBadAlignment)
}

func TestBufferUint32RoundTrip(t *testing.T) {
	a := New(4096)
	buf, err := a.Allocate(16, 16)
	require.NoError(t, err)
	buf.PutUint32(0, 0xAABBCCDD)
	assert.Equal(t, uint32(0xAABBCCDD), buf.Uint32(0))
	buf.PutUint64(8, 0x1122334455667788)
	assert.Equal(t, uint64(0x1122334455667788), buf.Uint64(8))
}
