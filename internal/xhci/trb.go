package xhci

const trbSize = 16

// TRB is one 16-byte Transfer Request Block, the element type of every
// xHCI ring, spec.md §3. Fields are laid out exactly as the controller
// expects them on the wire; Encode/decodeTRB move between this struct and
// its packed byte form.
type TRB struct {
	Parameter uint64
	Status    uint32
	Control   uint32
}

// Control-word bit layout.
const (
	ctrlCycleBit    = 1 << 0
	ctrlToggleCycle = 1 << 1
	ctrlIOC         = 1 << 5 // Interrupt On Completion
	ctrlTypeShift   = 10
	ctrlTypeMask    = 0x3F << ctrlTypeShift
	ctrlEndpointShift = 16
	ctrlEndpointMask  = 0x1F << ctrlEndpointShift
	ctrlSlotShift     = 24
	ctrlSlotMask      = 0xFF << ctrlSlotShift
)

// TRB types relevant to this driver, spec.md §4.4.3.
const (
	trbTypeNormal          = 1
	trbTypeLink            = 6
	trbTypeTransferEvent   = 32
	trbTypeCommandComplete = 33
)

// Cycle reports the TRB's cycle bit.
func (t TRB) Cycle() bool { return t.Control&ctrlCycleBit != 0 }

// Type returns the TRB Type field (Control bits 15:10).
func (t TRB) Type() uint32 { return (t.Control & ctrlTypeMask) >> ctrlTypeShift }

// CompletionCode returns the Completion Code field (Status bits 31:24),
// valid for Transfer Event and Command Completion Event TRBs.
func (t TRB) CompletionCode() uint8 { return uint8(t.Status >> 24) }

// TransferLength returns the TRB Transfer Length / residual field (Status
// bits 23:0).
func (t TRB) TransferLength() uint32 { return t.Status & 0x00FFFFFF }

// SlotID returns the Slot ID field (Control bits 31:24).
func (t TRB) SlotID() uint8 { return uint8((t.Control & ctrlSlotMask) >> ctrlSlotShift) }

// EndpointID returns the Endpoint ID field (Control bits 20:16).
func (t TRB) EndpointID() uint8 { return uint8((t.Control & ctrlEndpointMask) >> ctrlEndpointShift) }

func encodeTRB(t TRB, dst []byte) {
	putLE64(dst[0:8], t.Parameter)
	putLE32(dst[8:12], t.Status)
	putLE32(dst[12:16], t.Control)
}

func decodeTRB(src []byte) TRB {
	return TRB{
		Parameter: leU64(src[0:8]),
		Status:    leU32(src[8:12]),
		Control:   leU32(src[12:16]),
	}
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
func putLE32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}
func leU64(b []byte) uint64 {
	return uint64(leU32(b[0:4])) | uint64(leU32(b[4:8]))<<32
}
func putLE64(b []byte, v uint64) {
	putLE32(b[0:4], uint32(v))
	putLE32(b[4:8], uint32(v>>32))
}
