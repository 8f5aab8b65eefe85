package xhci

import (
	"fmt"

	"github.com/relunix/fatkernel/internal/mmioreg"
)

// Capability register offsets, relative to BAR0.
const (
	capOffCapLength   = 0x00 // u8
	capOffHCIVersion  = 0x02 // u16
	capOffHCSParams1  = 0x04
	capOffDBOff       = 0x14
)

// Operational register offsets, relative to BAR0+cap_length.
const (
	opOffUSBCMD = 0x00
	opOffUSBSTS = 0x04
	opOffCRCR   = 0x18
	opOffDCBAAP = 0x30
	opOffCONFIG = 0x38
	opOffPortSC = 0x400 // first port's PORTSC; each port's group is 0x10 bytes
)

// USBCMD bits, spec.md §4.4.1/§4.4.5.
const (
	usbcmdRS   = 1 << 0
	usbcmdHCRST = 1 << 1
	usbcmdEIE  = 1 << 2
	usbcmdHSEE = 1 << 3
)

// USBSTS bits, spec.md §4.4.5.
const (
	usbstsHCHalted = 1 << 0
	usbstsHSE      = 1 << 2
	usbstsEINT     = 1 << 3
	usbstsPCD      = 1 << 4
)

const portSCConnected = 1 << 0 // CCS, Current Connect Status

// Registers holds typed views over the capability, operational, and
// doorbell register blocks computed from a single BAR0 mapping, per
// spec.md §4.4.1 steps 2-3.
type Registers struct {
	op       *mmioreg.Space
	db       *mmioreg.Space
	maxSlots uint8
	maxPorts uint8
}

// NewRegisters validates hci_version and cap_length and slices bar into
// the operational and doorbell register blocks, per spec.md §4.4.1
// step 2: "Validate hci_version not in {0x0000, 0xFFFF} and cap_length
// != 0."
func NewRegisters(bar *mmioreg.Space) (*Registers, error) {
	capLength := bar.Read8(capOffCapLength)
	hciVersion := leU16FromSpace(bar, capOffHCIVersion)
	if capLength == 0 {
		return nil, fmt.Errorf("xhci: cap_length is zero")
	}
	if hciVersion == 0x0000 || hciVersion == 0xFFFF {
		return nil, fmt.Errorf("xhci: implausible hci_version %#04x", hciVersion)
	}

	hcsParams1 := bar.Read32(capOffHCSParams1)
	maxSlots := uint8(hcsParams1 & 0xFF)
	maxPorts := uint8((hcsParams1 >> 24) & 0xFF)

	dboff := bar.Read32(capOffDBOff) &^ 0x3

	opLen := int(opOffPortSC) + int(maxPorts)*0x10
	op := bar.Sub(int(capLength), opLen)
	db := bar.Sub(int(dboff), int(maxSlots+1)*4)

	return &Registers{op: op, db: db, maxSlots: maxSlots, maxPorts: maxPorts}, nil
}

func leU16FromSpace(s *mmioreg.Space, off int) uint16 {
	return uint16(s.Read8(off)) | uint16(s.Read8(off+1))<<8
}

// MaxSlots returns HCSPARAMS1's MaxSlots field.
func (r *Registers) MaxSlots() uint8 { return r.maxSlots }

// MaxPorts returns HCSPARAMS1's MaxPorts field.
func (r *Registers) MaxPorts() uint8 { return r.maxPorts }

func (r *Registers) usbcmd() uint32        { return r.op.Read32(opOffUSBCMD) }
func (r *Registers) setUSBCMD(v uint32)    { r.op.Write32(opOffUSBCMD, v) }
func (r *Registers) usbsts() uint32        { return r.op.Read32(opOffUSBSTS) }

// RingDoorbell writes value to doorbell register slot (0 is the command
// ring's doorbell; 1..maxSlots are per-device-slot doorbells).
func (r *Registers) RingDoorbell(slot uint8, value uint32) {
	r.db.Write32(int(slot)*4, value)
}

// PortConnected reports PORTSC[i]'s CCS bit.
func (r *Registers) PortConnected(i uint8) bool {
	return r.op.TestBits32(opOffPortSC+int(i)*0x10, portSCConnected)
}
