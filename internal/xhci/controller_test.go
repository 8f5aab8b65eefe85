package xhci

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relunix/fatkernel/internal/dma"
	"github.com/relunix/fatkernel/internal/logger"
	"github.com/relunix/fatkernel/internal/mmioreg"
)

func fakeBAR(maxSlots, maxPorts uint8) []byte {
	return NewSimulatedBAR(maxSlots, maxPorts)
}

// S6: bring-up against a stub controller that never clears HCRST times
// out within the bounded-spin budget, and USB never becomes available.
func TestScenario6BringupTimeout(t *testing.T) {
	buf := fakeBAR(4, 2)
	bar := mmioreg.New(buf)
	alloc := dma.New(1 << 16)
	log := logger.New(io.Discard, logger.WarnLevel)

	_, err := Bringup(bar, alloc, log)
	require.ErrorIs(t, err, ErrBringupTimeout)
}

func TestNewRegistersRejectsImplausibleVersion(t *testing.T) {
	buf := fakeBAR(4, 2)
	putLE16At(buf, capOffHCIVersion, 0xFFFF)
	_, err := NewRegisters(mmioreg.New(buf))
	assert.Error(t, err)
}

func TestNewRegistersRejectsZeroCapLength(t *testing.T) {
	buf := fakeBAR(4, 2)
	buf[capOffCapLength] = 0
	_, err := NewRegisters(mmioreg.New(buf))
	assert.Error(t, err)
}

func TestNewRegistersReadsSlotsAndPorts(t *testing.T) {
	buf := fakeBAR(7, 3)
	regs, err := NewRegisters(mmioreg.New(buf))
	require.NoError(t, err)
	assert.Equal(t, uint8(7), regs.MaxSlots())
	assert.Equal(t, uint8(3), regs.MaxPorts())
}
