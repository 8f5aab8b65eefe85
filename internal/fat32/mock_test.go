package fat32

import (
	"errors"
	"io"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relunix/fatkernel/internal/blockdev"
	"github.com/relunix/fatkernel/internal/logger"
)

func TestMountSurfacesDeviceReadFailureAsIoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	dev := blockdev.NewMockDevice(ctrl)
	dev.EXPECT().
		ReadSectors(uint32(0), uint32(1), gomock.Any()).
		Return(errors.New("disk yanked"))

	log := logger.New(io.Discard, logger.WarnLevel)
	_, err := Mount(dev, log)
	require.Error(t, err)
	assert.Equal(t, IoError, CodeOf(err))
}
