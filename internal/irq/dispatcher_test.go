package irq

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relunix/fatkernel/internal/logger"
)

type fakePS2 struct {
	ascii byte
	ok    bool
	calls int
}

func (f *fakePS2) ReadScancode() (byte, bool) {
	f.calls++
	return f.ascii, f.ok
}

type fakeXHCIPump struct {
	calls int
}

func (f *fakeXHCIPump) HandleIRQ() {
	f.calls++
}

func TestDispatchTimerInvokesTick(t *testing.T) {
	ticked := false
	pic := &FakePIC{}
	d := New(pic, logger.New(io.Discard, logger.WarnLevel), func() { ticked = true }, nil, nil, nil)

	d.Dispatch(0, SourceTimer)
	assert.True(t, ticked)
	require.Equal(t, []int{0}, pic.MasterEOIs)
}

func TestDispatchPS2DeliversKeyWhenUSBInactive(t *testing.T) {
	var got byte
	pic := &FakePIC{}
	ps2 := &fakePS2{ascii: 'x', ok: true}
	d := New(pic, logger.New(io.Discard, logger.WarnLevel), nil, func(a byte) { got = a }, nil, ps2)

	d.Dispatch(1, SourcePS2)
	assert.Equal(t, byte('x'), got)
	assert.Equal(t, 1, ps2.calls)
}

func TestDispatchPS2SuppressedWhenUSBActive(t *testing.T) {
	pic := &FakePIC{}
	ps2 := &fakePS2{ascii: 'x', ok: true}
	d := New(pic, logger.New(io.Discard, logger.WarnLevel), nil, nil, nil, ps2)
	d.SetUSBKeyboardActive(true)

	d.Dispatch(1, SourcePS2)
	assert.Equal(t, 0, ps2.calls, "PS/2 handler must take no action beyond acknowledging the PIC")
	require.Equal(t, []int{1}, pic.MasterEOIs)
}

func TestDispatchXHCIRunsHandleIRQAndAlwaysAcks(t *testing.T) {
	pic := &FakePIC{}
	pump := &fakeXHCIPump{}
	d := New(pic, logger.New(io.Discard, logger.WarnLevel), nil, nil, pump, nil)

	d.Dispatch(11, SourceXHCI)
	assert.Equal(t, 1, pump.calls)
	require.Equal(t, []int{11}, pic.MasterEOIs)
	require.Equal(t, []int{11}, pic.SlaveEOIs, "irq >= 8 must also signal the slave PIC")
}
