package blockdev

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemDeviceReadWrite(t *testing.T) {
	dev := NewMemDevice(64)

	src := make([]byte, SectorSize*2)
	for i := range src {
		src[i] = byte(i)
	}
	require.NoError(t, dev.WriteSectors(10, 2, src))

	dst := make([]byte, SectorSize*2)
	require.NoError(t, dev.ReadSectors(10, 2, dst))
	assert.Equal(t, src, dst)
}

func TestMemDeviceOutOfRange(t *testing.T) {
	dev := NewMemDevice(4)
	buf := make([]byte, SectorSize)
	assert.Error(t, dev.ReadSectors(10, 1, buf))
	assert.Error(t, dev.WriteSectors(10, 1, buf))
}

func TestMemDeviceFromBytesRejectsShortImage(t *testing.T) {
	_, err := NewMemDeviceFromBytes(make([]byte, SectorSize+1))
	assert.Error(t, err)
}

func TestNormalizeVolumePath(t *testing.T) {
	assert.Equal(t, `\\.\E:`, NormalizeVolumePath("E"))
	assert.Equal(t, `\\.\E:`, NormalizeVolumePath("E:"))
	assert.Equal(t, "disk.img", NormalizeVolumePath("disk.img"))
}
