package xhci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relunix/fatkernel/internal/dma"
)

func TestConfigureKeyboardQueuesInitialReportRequest(t *testing.T) {
	alloc := dma.New(1 << 16)
	kb, err := ConfigureKeyboard(alloc, 1, 1, nil)
	require.NoError(t, err)

	trb := decodeTRB(kb.xferRing.buf.Bytes()[0:trbSize])
	assert.Equal(t, kb.reportBuf.Base(), trb.Parameter)
	assert.Equal(t, uint32(8), trb.TransferLength())
}

func TestKeyboardDiffDeliversOnlyNewKeycodes(t *testing.T) {
	var delivered []byte
	alloc := dma.New(1 << 16)
	kb, err := ConfigureKeyboard(alloc, 1, 1, func(ascii byte) {
		delivered = append(delivered, ascii)
	})
	require.NoError(t, err)

	kb.last = HIDReport{Keycodes: [6]byte{0x04, 0x05, 0, 0, 0, 0}} // "ab" held
	cur := HIDReport{Keycodes: [6]byte{0x04, 0x05, 0x06, 0, 0, 0}} // "c" newly pressed
	kb.diffAndDeliver(cur)

	require.Len(t, delivered, 1)
	assert.Equal(t, byte('c'), delivered[0])
}

func TestKeyboardDiffRespectsShift(t *testing.T) {
	var delivered []byte
	alloc := dma.New(1 << 16)
	kb, err := ConfigureKeyboard(alloc, 1, 1, func(ascii byte) {
		delivered = append(delivered, ascii)
	})
	require.NoError(t, err)

	cur := HIDReport{Modifiers: 0x02, Keycodes: [6]byte{0x04, 0, 0, 0, 0, 0}} // left shift + 'a'
	kb.diffAndDeliver(cur)

	require.Len(t, delivered, 1)
	assert.Equal(t, byte('A'), delivered[0])
}

func TestHandleTransferEventFiltersBySlotAndEndpoint(t *testing.T) {
	var delivered []byte
	alloc := dma.New(1 << 16)
	kb, err := ConfigureKeyboard(alloc, 1, 1, func(ascii byte) {
		delivered = append(delivered, ascii)
	})
	require.NoError(t, err)

	copy(kb.reportBuf.Bytes(), []byte{0, 0, 0x04, 0, 0, 0, 0, 0}) // 'a'
	wrongSlot := TRB{Control: uint32(2)<<ctrlSlotShift | uint32(1)<<ctrlEndpointShift, Status: uint32(1)<<24 | 8}
	kb.handleTransferEvent(wrongSlot)
	assert.Empty(t, delivered)

	ok := TRB{Control: uint32(1)<<ctrlSlotShift | uint32(1)<<ctrlEndpointShift, Status: uint32(1)<<24 | 8}
	kb.handleTransferEvent(ok)
	require.Len(t, delivered, 1)
	assert.Equal(t, byte('a'), delivered[0])
}
