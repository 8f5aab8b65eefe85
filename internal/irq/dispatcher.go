// Package irq demultiplexes a delivered hardware interrupt to the timer
// tick, the PS/2 keyboard path, or the xHCI event-ring pump, and signals
// end-of-interrupt to the PIC. GDT/IDT/PIC/PIT setup and the PS/2
// scancode translator are out of scope (spec.md §1); this package only
// contracts against them, per spec.md §6's "the core expects an
// interrupt to be delivered when the controller signals an event."
package irq

import "github.com/relunix/fatkernel/internal/logger"

// OnKey is invoked with a translated ASCII character from whichever
// keyboard path is active.
type OnKey func(ascii byte)

// Tick is invoked on every timer IRQ.
type Tick func()

// Source identifies which hardware source raised the interrupt being
// dispatched.
type Source int

const (
	SourceTimer Source = iota
	SourcePS2
	SourceXHCI
)

// PIC signals end-of-interrupt for a given IRQ line, sending EOI to the
// slave controller first when irq >= 8, matching the master/slave 8259
// cascade. Real port I/O (outb 0x20/0xA0) has no portable Go expression;
// production wiring of this interface lives outside this repo's scope.
type PIC interface {
	EndOfInterrupt(irq int)
}

// XHCIPump is satisfied by an xhci.Controller's IRQ top-half: it reads
// USBSTS, runs the event pump on EINT, and clears every status bit it
// handles. Dispatching straight to the event pump and skipping USBSTS
// would leave EINT/HSE/PCD unacknowledged and the interrupt re-raised
// forever on real hardware.
type XHCIPump interface {
	HandleIRQ()
}

// PS2Reader is satisfied by the (out-of-scope) PS/2 scancode translator:
// it reports one translated ASCII byte per call, or ok=false if nothing
// is pending.
type PS2Reader interface {
	ReadScancode() (ascii byte, ok bool)
}

// Dispatcher routes a delivered IRQ to the right handler and always signals
// end-of-interrupt afterward, whether or not the handler itself errored —
// a stalled event pump must never leave the PIC masked.
type Dispatcher struct {
	pic  PIC
	log  *logger.Logger
	tick Tick
	onKey OnKey

	xhci XHCIPump
	ps2  PS2Reader

	// usbKeyboardActive is the single-writer boolean spec.md §5 requires:
	// when true, the PS/2 handler takes no action beyond acknowledging the
	// PIC. Set once by successful xHCI bring-up; never cleared at runtime.
	usbKeyboardActive bool
}

// New creates a Dispatcher. xhci and ps2 may be nil if that path is not
// wired.
func New(pic PIC, log *logger.Logger, tick Tick, onKey OnKey, xhci XHCIPump, ps2 PS2Reader) *Dispatcher {
	return &Dispatcher{pic: pic, log: log, tick: tick, onKey: onKey, xhci: xhci, ps2: ps2}
}

// SetUSBKeyboardActive is called once by xHCI bring-up on success. It is
// never cleared: once USB keyboard input is live, PS/2 dispatch is
// permanently disabled, matching spec.md §5's mutual-exclusion note.
func (d *Dispatcher) SetUSBKeyboardActive(active bool) {
	d.usbKeyboardActive = active
}

// USBKeyboardActive reports the current state of the shared flag.
func (d *Dispatcher) USBKeyboardActive() bool { return d.usbKeyboardActive }

// Dispatch handles one delivered interrupt from source on line irq and
// unconditionally signals end-of-interrupt afterward.
func (d *Dispatcher) Dispatch(irq int, source Source) {
	switch source {
	case SourceTimer:
		if d.tick != nil {
			d.tick()
		}
	case SourcePS2:
		d.dispatchPS2()
	case SourceXHCI:
		d.dispatchXHCI()
	}
	d.pic.EndOfInterrupt(irq)
}

func (d *Dispatcher) dispatchPS2() {
	if d.usbKeyboardActive {
		return // PS/2 handler takes no action beyond acknowledging the PIC
	}
	if d.ps2 == nil {
		return
	}
	if ascii, ok := d.ps2.ReadScancode(); ok && d.onKey != nil {
		d.onKey(ascii)
	}
}

func (d *Dispatcher) dispatchXHCI() {
	if d.xhci == nil {
		return
	}
	d.xhci.HandleIRQ()
}
