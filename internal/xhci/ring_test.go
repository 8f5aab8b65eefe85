package xhci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relunix/fatkernel/internal/dma"
)

func TestCommandRingWraparoundTogglesCycle(t *testing.T) {
	alloc := dma.New(1 << 20)
	cr, err := NewCommandRing(alloc)
	require.NoError(t, err)

	initialCycle := cr.cycle
	for i := 0; i < ringSize-1; i++ {
		cr.Enqueue(TRB{Parameter: uint64(i)})
	}
	assert.NotEqual(t, initialCycle, cr.cycle, "cycle should toggle after wrapping past the Link TRB")
	assert.Equal(t, 0, cr.enqueue)
}

func TestTransferRingEnqueueSetsCycleAndIOC(t *testing.T) {
	alloc := dma.New(1 << 16)
	tr, err := NewTransferRing(alloc)
	require.NoError(t, err)

	tr.Enqueue(0x1000, 8)
	trb := decodeTRB(tr.buf.Bytes()[0:trbSize])
	assert.True(t, trb.Cycle())
	assert.Equal(t, uint32(trbTypeNormal), trb.Type())
	assert.NotZero(t, trb.Control&ctrlIOC)
	assert.Equal(t, uint32(8), trb.TransferLength())
}

// Invariant 8: event-ring progress. Given N enqueued transfer events with
// correct cycle bits, the pump consumes exactly N TRBs and stops on the
// (N+1)th.
func TestInvariantEventRingProgress(t *testing.T) {
	alloc := dma.New(1 << 16)
	er, err := NewEventRing(alloc)
	require.NoError(t, err)

	const n = 5
	for i := 0; i < n; i++ {
		er.PutTRB(i, TRB{Control: uint32(trbTypeCommandComplete) << ctrlTypeShift}, er.ExpectedCycle())
	}

	consumed := 0
	for er.Ready() {
		er.Advance()
		consumed++
	}
	assert.Equal(t, n, consumed)
	assert.False(t, er.Ready())
}
