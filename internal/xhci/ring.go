package xhci

import "github.com/relunix/fatkernel/internal/dma"

// ringSize is the TRB capacity of every command, event, and transfer ring
// this driver allocates, per spec.md §4.4.1 step 7 and §4.4.2.
const ringSize = 256

// CommandRing is the driver-produced, controller-consumed ring used to
// post commands. It reserves its last slot for a Link TRB that toggles
// the cycle bit on wraparound, per spec.md §3 and the "cyclic rings"
// design note in §9: cycle-bit state is tracked as an explicit field, not
// derived from the index.
type CommandRing struct {
	buf      *dma.Buffer
	enqueue  int
	cycle    uint32
}

// NewCommandRing allocates a 256-TRB, 64-byte-aligned, zero-filled ring
// with a Link TRB pre-placed at the last slot.
func NewCommandRing(alloc *dma.Allocator) (*CommandRing, error) {
	buf, err := alloc.Allocate(ringSize*trbSize, 64)
	if err != nil {
		return nil, err
	}
	cr := &CommandRing{buf: buf, cycle: 1}
	cr.writeLinkTRB()
	return cr, nil
}

// Base returns the ring's DMA base address, for programming CRCR.
func (r *CommandRing) Base() uint64 { return r.buf.Base() }

func (r *CommandRing) writeLinkTRB() {
	link := TRB{
		Parameter: r.buf.Base(),
		Control:   uint32(trbTypeLink)<<ctrlTypeShift | ctrlToggleCycle | r.cycle,
	}
	encodeTRB(link, r.buf.Bytes()[(ringSize-1)*trbSize:ringSize*trbSize])
}

// Enqueue posts cmd with the ring's current cycle bit and returns its
// physical address for the caller to ring the doorbell against. It
// transparently advances over the Link TRB and toggles the producer cycle
// on wraparound.
func (r *CommandRing) Enqueue(cmd TRB) uint64 {
	cmd.Control = (cmd.Control &^ ctrlCycleBit) | r.cycle
	addr := r.buf.Base() + uint64(r.enqueue*trbSize)
	encodeTRB(cmd, r.buf.Bytes()[r.enqueue*trbSize:(r.enqueue+1)*trbSize])
	r.enqueue++
	if r.enqueue == ringSize-1 {
		r.cycle ^= 1
		r.writeLinkTRB()
		r.enqueue = 0
	}
	return addr
}

// TransferRing is the per-endpoint driver-produced ring used to queue
// Normal TRBs (here, one outstanding HID report request at a time), with
// the same Link-TRB wraparound technique as CommandRing.
type TransferRing struct {
	buf     *dma.Buffer
	enqueue int
	cycle   uint32
}

// NewTransferRing allocates a 256-TRB, 64-byte-aligned, zero-filled ring
// with a Link TRB at the last slot, per spec.md §4.4.2.
func NewTransferRing(alloc *dma.Allocator) (*TransferRing, error) {
	buf, err := alloc.Allocate(ringSize*trbSize, 64)
	if err != nil {
		return nil, err
	}
	t := &TransferRing{buf: buf, cycle: 1}
	t.writeLinkTRB()
	return t, nil
}

// Base returns the ring's DMA base address.
func (t *TransferRing) Base() uint64 { return t.buf.Base() }

// Cycle returns the ring's current producer cycle bit (0 or 1), used to
// build the endpoint's initial dequeue pointer (DCS).
func (t *TransferRing) Cycle() uint32 { return t.cycle }

func (t *TransferRing) writeLinkTRB() {
	link := TRB{
		Parameter: t.buf.Base(),
		Control:   uint32(trbTypeLink)<<ctrlTypeShift | ctrlToggleCycle | t.cycle,
	}
	encodeTRB(link, t.buf.Bytes()[(ringSize-1)*trbSize:ringSize*trbSize])
}

// Enqueue posts a Normal TRB of length bytes pointing at bufAddr with
// IOC set, per spec.md §4.4.2, and returns its physical address.
func (t *TransferRing) Enqueue(bufAddr uint64, length uint32) uint64 {
	trb := TRB{
		Parameter: bufAddr,
		Status:    length & 0x00FFFFFF,
		Control:   uint32(trbTypeNormal)<<ctrlTypeShift | ctrlIOC | t.cycle,
	}
	addr := t.buf.Base() + uint64(t.enqueue*trbSize)
	encodeTRB(trb, t.buf.Bytes()[t.enqueue*trbSize:(t.enqueue+1)*trbSize])
	t.enqueue++
	if t.enqueue == ringSize-1 {
		t.cycle ^= 1
		t.writeLinkTRB()
		t.enqueue = 0
	}
	return addr
}

// EventRing is the controller-produced, driver-consumed ring. The driver
// tracks a dequeue index and an expected cycle value; a TRB is valid for
// the consumer iff its cycle bit matches the expected value, per spec.md
// §3. This design's wraparound (spec.md §4.4.3) resets the dequeue index
// to 0 and flips the expected cycle when it reaches ring_size-1, rather
// than relying on a Link TRB or an Event Ring Segment Table.
type EventRing struct {
	buf      *dma.Buffer
	dq       int
	expCycle uint32
}

// NewEventRing allocates a 256-TRB, 64-byte-aligned, zero-filled ring for
// the controller to post events into.
func NewEventRing(alloc *dma.Allocator) (*EventRing, error) {
	buf, err := alloc.Allocate(ringSize*trbSize, 64)
	if err != nil {
		return nil, err
	}
	return &EventRing{buf: buf, expCycle: 1}, nil
}

// Base returns the ring's DMA base address.
func (e *EventRing) Base() uint64 { return e.buf.Base() }

// Bytes exposes the raw ring memory, used by tests to inject synthetic
// events at a known index and cycle.
func (e *EventRing) Bytes() []byte { return e.buf.Bytes() }

// DequeueIndex returns the ring index the next call to Peek will read.
func (e *EventRing) DequeueIndex() int { return e.dq }

// ExpectedCycle returns the cycle bit the consumer currently expects.
func (e *EventRing) ExpectedCycle() uint32 { return e.expCycle }

// Peek decodes the TRB currently at the dequeue index without advancing.
func (e *EventRing) Peek() TRB {
	return decodeTRB(e.buf.Bytes()[e.dq*trbSize : (e.dq+1)*trbSize])
}

// Ready reports whether the TRB at the dequeue index is valid for
// consumption: its cycle bit matches the expected value.
func (e *EventRing) Ready() bool {
	return e.Peek().Cycle() == (e.expCycle != 0)
}

// Advance moves past the just-consumed TRB, wrapping per spec.md §4.4.3.
func (e *EventRing) Advance() {
	e.dq++
	if e.dq == ringSize-1 {
		e.dq = 0
		e.expCycle ^= 1
	}
}

// PutTRB writes trb at ring index idx with the given cycle bit — a test
// helper for injecting synthetic controller-produced events.
func (e *EventRing) PutTRB(idx int, trb TRB, cycle uint32) {
	trb.Control = (trb.Control &^ ctrlCycleBit) | (cycle & 1)
	encodeTRB(trb, e.buf.Bytes()[idx*trbSize:(idx+1)*trbSize])
}
