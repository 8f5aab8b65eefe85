package xhci

// NewSimulatedBAR builds a synthetic BAR0 byte image of a freshly reset,
// halted xHCI controller with the given slot/port counts, for use where
// no real MMIO-mapped hardware is available: the fatkernel CLI's xhci
// demo command, and this package's own bring-up tests. It never clears
// HCRST on its own, so Bringup against it always ends at
// ErrBringupTimeout once it reaches the reset step — a real controller's
// self-clearing behavior has no meaning for a passive byte buffer.
func NewSimulatedBAR(maxSlots, maxPorts uint8) []byte {
	const capLength = 0x20
	opLen := opOffPortSC + int(maxPorts)*0x10
	buf := make([]byte, capLength+opLen+256)
	buf[capOffCapLength] = capLength
	putLE16At(buf, capOffHCIVersion, 0x0100)
	hcsParams1 := uint32(maxSlots) | uint32(maxPorts)<<24
	putLE32(buf[capOffHCSParams1:], hcsParams1)
	dboff := uint32(capLength + opLen)
	putLE32(buf[capOffDBOff:], dboff)
	putLE32(buf[capLength+opOffUSBSTS:], usbstsHCHalted)
	return buf
}

func putLE16At(b []byte, off int, v uint16) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
}
