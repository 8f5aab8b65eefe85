package xhci

import "github.com/relunix/fatkernel/internal/dma"

// OnKey delivers a translated, non-zero ASCII character to the
// surrounding shell's line editor, spec.md §6.
type OnKey func(ascii byte)

// HIDReport is the 8-byte keyboard state packet delivered by the
// interrupt-IN endpoint, spec.md §3.
type HIDReport struct {
	Modifiers byte
	Reserved  byte
	Keycodes  [6]byte
}

// ShiftActive reports whether either shift modifier bit is set.
func (r HIDReport) ShiftActive() bool { return r.Modifiers&0x22 != 0 }

func decodeHIDReport(b []byte) HIDReport {
	var r HIDReport
	r.Modifiers = b[0]
	r.Reserved = b[1]
	copy(r.Keycodes[:], b[2:8])
	return r
}

// Input context field offsets for the one endpoint this driver configures
// (EP-interrupt-IN), a simplified slot layout: [0:32) input control
// context, [32:64) slot context, [64:96) EP0 context, [96:128) EP-IN
// context — enough fields to express the dequeue pointer, max packet
// size, and endpoint type spec.md §4.4.2 calls out; the remaining context
// fields a full xHCI slot carries are out of scope.
const (
	epInCtxOff        = 96
	epTypeInterruptIn = 7
)

const inputContextSize = 128

// Keyboard is a configured HID-keyboard interrupt-IN endpoint on the
// assumed slot 1, spec.md §4.4.2.
type Keyboard struct {
	slot      uint8
	epID      uint8
	inputCtx  *dma.Buffer
	xferRing  *TransferRing
	reportBuf *dma.Buffer
	last      HIDReport
	onKey     OnKey
}

// ConfigureKeyboard allocates the input-device-context and transfer ring
// for the keyboard endpoint on slot, configures EP-IN (type INTERRUPT_IN,
// max packet 8, average TRB length 8), and queues the first Normal TRB
// requesting an 8-byte HID report, per spec.md §4.4.2.
func ConfigureKeyboard(alloc *dma.Allocator, slot, endpointID uint8, onKey OnKey) (*Keyboard, error) {
	inputCtx, err := alloc.Allocate(inputContextSize, 64)
	if err != nil {
		return nil, err
	}
	xferRing, err := NewTransferRing(alloc)
	if err != nil {
		return nil, err
	}
	reportBuf, err := alloc.Allocate(8, 8)
	if err != nil {
		return nil, err
	}

	ep := inputCtx.Bytes()[epInCtxOff : epInCtxOff+32]
	putLE32(ep[4:8], epTypeInterruptIn<<3|uint32(8)<<16) // EP type + max packet size
	dequeue := xferRing.Base() | uint64(xferRing.Cycle())
	putLE64(ep[8:16], dequeue)
	putLE32(ep[16:20], 8) // average TRB length

	k := &Keyboard{slot: slot, epID: endpointID, inputCtx: inputCtx, xferRing: xferRing, reportBuf: reportBuf, onKey: onKey}
	k.queueReportRequest()
	return k, nil
}

func (k *Keyboard) queueReportRequest() uint64 {
	return k.xferRing.Enqueue(k.reportBuf.Base(), 8)
}

// handleTransferEvent processes a completed HID-IN transfer: on a
// successful completion with at least 8 bytes transferred, it decodes the
// report, diffs it against the last report, delivers any new keypresses,
// and re-queues the next report request, per spec.md §4.4.3/§4.4.4.
func (k *Keyboard) handleTransferEvent(trb TRB) {
	const completionSuccess = 1
	if trb.SlotID() != k.slot || trb.EndpointID() != k.epID {
		return
	}
	if trb.CompletionCode() != completionSuccess {
		return
	}
	if trb.TransferLength() < 8 {
		return
	}
	cur := decodeHIDReport(k.reportBuf.Bytes())
	k.diffAndDeliver(cur)
	k.last = cur
	k.queueReportRequest()
}

func (k *Keyboard) diffAndDeliver(cur HIDReport) {
	table := usagePageTable
	if cur.ShiftActive() {
		table = usagePageTableShifted
	}
	for _, code := range cur.Keycodes {
		if code == 0 || containsByte(k.last.Keycodes, code) {
			continue
		}
		if ascii, ok := table[code]; ok && ascii != 0 && k.onKey != nil {
			k.onKey(ascii)
		}
	}
}

func containsByte(haystack [6]byte, needle byte) bool {
	for _, b := range haystack {
		if b == needle {
			return true
		}
	}
	return false
}

// usagePageTable translates USB-HID Usage Page 0x07 keycodes to
// unshifted ASCII, spec.md §4.4.4.
var usagePageTable = buildUsagePageTable(false)

// usagePageTableShifted is the shifted variant, selected when
// HIDReport.ShiftActive() is true.
var usagePageTableShifted = buildUsagePageTable(true)

func buildUsagePageTable(shifted bool) map[byte]byte {
	t := make(map[byte]byte, 48)
	for i := byte(0); i < 26; i++ {
		letter := 'a' + i
		if shifted {
			letter = 'A' + i
		}
		t[0x04+i] = byte(letter)
	}
	digits := "1234567890"
	shiftedDigits := "!@#$%^&*()"
	for i := 0; i < 10; i++ {
		if shifted {
			t[0x1E+byte(i)] = shiftedDigits[i]
		} else {
			t[0x1E+byte(i)] = digits[i]
		}
	}
	t[0x28] = '\n' // Enter
	t[0x2C] = ' '  // Space
	t[0x2A] = '\b' // Backspace
	return t
}
