package fat32

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relunix/fatkernel/internal/blockdev"
	"github.com/relunix/fatkernel/internal/logger"
)

func TestRenameOverwritesNameInPlace(t *testing.T) {
	vol, _ := newFormattedVolume(t, 1)
	require.NoError(t, vol.Create("OLD.TXT", []byte("x")))
	require.NoError(t, vol.Rename("OLD.TXT", "NEW.TXT"))

	_, _, err := vol.findEntry(vol.curDirCluster, Canonicalize83("OLD.TXT"))
	assert.Equal(t, NotFound, CodeOf(err))

	e, _, err := vol.findEntry(vol.curDirCluster, Canonicalize83("NEW.TXT"))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), e.FileSize)
}

func TestWriteFileReplacesExistingContent(t *testing.T) {
	vol, _ := newFormattedVolume(t, 1)
	require.NoError(t, vol.WriteFile("A", []byte("first")))
	require.NoError(t, vol.WriteFile("A", []byte("second, longer content")))

	buf := make([]byte, 64)
	n, err := vol.ReadToBuffer("A", buf)
	require.NoError(t, err)
	assert.Equal(t, "second, longer content", string(buf[:n]))
}

func TestWriteFileOnMissingFileCreates(t *testing.T) {
	vol, _ := newFormattedVolume(t, 1)
	require.NoError(t, vol.WriteFile("NEW", []byte("data")))
	buf := make([]byte, 8)
	n, err := vol.ReadToBuffer("NEW", buf)
	require.NoError(t, err)
	assert.Equal(t, "data", string(buf[:n]))
}

func TestCreateFailsDirectoryFullAndFreesChain(t *testing.T) {
	vol, _ := newFormattedVolume(t, 1)
	entriesPerRootCluster := vol.ClusterBytes() / dirEntrySize

	for i := 0; i < entriesPerRootCluster; i++ {
		require.NoError(t, vol.Create(fmt.Sprintf("F%d", i), []byte("x")))
	}

	freeBefore, _, err := vol.Stat()
	require.NoError(t, err)
	_ = freeBefore

	err = vol.Create("ONEMORE", []byte("x"))
	require.Error(t, err)
	assert.Equal(t, DirectoryFull, CodeOf(err))

	orphans, err := vol.Chkdsk()
	require.NoError(t, err)
	assert.Equal(t, 0, orphans, "the rejected chain must already have been freed, not merely orphaned")
}

func TestMountFailsNotFat32OnGarbageSector(t *testing.T) {
	dev := blockdev.NewMemDevice(1024)
	log := logger.New(io.Discard, logger.WarnLevel)
	_, err := Mount(dev, log)
	require.Error(t, err)
	assert.Equal(t, NotFat32, CodeOf(err))
}
