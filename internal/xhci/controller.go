package xhci

import (
	"github.com/relunix/fatkernel/internal/dma"
	"github.com/relunix/fatkernel/internal/logger"
	"github.com/relunix/fatkernel/internal/mmioreg"
)

// Bounded-spin iteration budgets, spec.md §4.4.1 steps 4-5.
const (
	maxHaltSpins = 1_000_000
	maxResetSpins = 10_000_000
)

// Controller is a brought-up xHCI host controller: DCBAA, command ring,
// and event ring are allocated once and held for the lifetime of the
// kernel, per spec.md §3's ownership note. It never frees them.
type Controller struct {
	regs    *Registers
	dcbaa   *dma.Buffer
	cmdRing *CommandRing
	evRing  *EventRing
	log     *logger.Logger
	kb      *Keyboard
}

// Bringup runs the strict-ordering reset and setup sequence of spec.md
// §4.4.1 against bar, a register space already mapped at the controller's
// BAR0 (with the low 4 BAR-type bits masked off by the caller, per
// pciconf.FindXHCI). On any bounded-spin timeout it returns
// ErrBringupTimeout and the driver is not usable; the kernel continues
// with USB unavailable and PS/2 as the input path, per spec.md §7.
func Bringup(bar *mmioreg.Space, alloc *dma.Allocator, log *logger.Logger) (*Controller, error) {
	regs, err := NewRegisters(bar)
	if err != nil {
		return nil, err
	}
	log.Infof("xhci: controller found, %d slots, %d ports", regs.MaxSlots(), regs.MaxPorts())

	if regs.usbsts()&usbstsHCHalted == 0 {
		regs.setUSBCMD(regs.usbcmd() &^ usbcmdRS)
		if err := spin(maxHaltSpins, func() bool { return regs.usbsts()&usbstsHCHalted != 0 }); err != nil {
			return nil, err
		}
	}

	regs.setUSBCMD(regs.usbcmd() | usbcmdHCRST)
	if err := spin(maxResetSpins, func() bool { return regs.usbcmd()&usbcmdHCRST == 0 }); err != nil {
		return nil, err
	}

	dcbaa, err := alloc.Allocate(uint32(regs.MaxSlots()+1)*8, 64)
	if err != nil {
		return nil, err
	}
	regs.op.Write64(opOffDCBAAP, dcbaa.Base())

	cmdRing, err := NewCommandRing(alloc)
	if err != nil {
		return nil, err
	}
	const ringCycleState = 1
	regs.op.Write64(opOffCRCR, cmdRing.Base()|ringCycleState)

	evRing, err := NewEventRing(alloc)
	if err != nil {
		return nil, err
	}

	regs.op.Write32(opOffCONFIG, uint32(regs.MaxSlots()))

	regs.setUSBCMD(regs.usbcmd() | usbcmdRS)
	if err := spin(maxHaltSpins, func() bool { return regs.usbsts()&usbstsHCHalted == 0 }); err != nil {
		return nil, err
	}

	regs.RingDoorbell(0, 0)

	for i := uint8(0); i < regs.MaxPorts(); i++ {
		if regs.PortConnected(i) {
			log.Infof("xhci: port %d connected", i)
		}
	}

	regs.setUSBCMD(regs.usbcmd() | usbcmdEIE | usbcmdHSEE)

	return &Controller{regs: regs, dcbaa: dcbaa, cmdRing: cmdRing, evRing: evRing, log: log}, nil
}

func spin(maxIters int, cond func() bool) error {
	for i := 0; i < maxIters; i++ {
		if cond() {
			return nil
		}
	}
	return ErrBringupTimeout
}

// EventRing exposes the controller's event ring, used by tests to inject
// synthetic transfer events.
func (c *Controller) EventRing() *EventRing { return c.evRing }

// Registers exposes the controller's register block, used by tests to
// observe USBSTS/USBCMD state.
func (c *Controller) Registers() *Registers { return c.regs }
