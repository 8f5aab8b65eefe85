package fat32

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relunix/fatkernel/internal/blockdev"
	"github.com/relunix/fatkernel/internal/logger"
)

// minSectorsFor returns a sector count large enough for Format to clear
// the 65525-cluster minimum at the given sectors-per-cluster, with slack.
func minSectorsFor(secPerClus uint8) uint32 {
	switch secPerClus {
	case 1:
		return 66200
	default:
		return 525000 + 2048
	}
}

func newFormattedVolume(t *testing.T, secPerClus uint8) (*Volume, blockdev.Device) {
	t.Helper()
	total := minSectorsFor(secPerClus)
	dev := blockdev.NewMemDevice(uint64(total))
	log := logger.New(io.Discard, logger.WarnLevel)
	require.NoError(t, Format(dev, total, secPerClus, log, nil))
	vol, err := Mount(dev, log)
	require.NoError(t, err)
	return vol, dev
}
