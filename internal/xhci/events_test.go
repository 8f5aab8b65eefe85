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

func newTestController(t *testing.T) *Controller {
	alloc := dma.New(1 << 16)
	evRing, err := NewEventRing(alloc)
	require.NoError(t, err)
	regs, err := NewRegisters(mmioreg.New(fakeBAR(4, 2)))
	require.NoError(t, err)
	return &Controller{regs: regs, evRing: evRing, log: logger.New(io.Discard, logger.WarnLevel)}
}

func TestHandleIRQRunsEventPumpAndClearsEINT(t *testing.T) {
	c := newTestController(t)
	c.evRing.PutTRB(0, TRB{Control: uint32(trbTypeCommandComplete) << ctrlTypeShift}, c.evRing.ExpectedCycle())
	c.regs.op.Write32(opOffUSBSTS, usbstsEINT)

	c.HandleIRQ()

	assert.False(t, c.evRing.Ready(), "HandleIRQ must drain the event ring on EINT")
	assert.Zero(t, c.regs.usbsts()&usbstsEINT, "EINT must be cleared after handling")
}

func TestHandleIRQReportsAndClearsHSE(t *testing.T) {
	c := newTestController(t)
	c.regs.op.Write32(opOffUSBSTS, usbstsHSE)

	c.HandleIRQ()

	assert.Zero(t, c.regs.usbsts()&usbstsHSE, "HSE must be cleared after handling")
}

func TestHandleIRQClearsPCD(t *testing.T) {
	c := newTestController(t)
	c.regs.op.Write32(opOffUSBSTS, usbstsPCD)

	c.HandleIRQ()

	assert.Zero(t, c.regs.usbsts()&usbstsPCD, "PCD must be cleared after handling")
}

func TestHandleIRQIsNoopWithNoStatusBitsSet(t *testing.T) {
	c := newTestController(t)
	c.evRing.PutTRB(0, TRB{Control: uint32(trbTypeCommandComplete) << ctrlTypeShift}, c.evRing.ExpectedCycle())

	c.HandleIRQ()

	assert.True(t, c.evRing.Ready(), "without EINT set, the event pump must not run")
}
