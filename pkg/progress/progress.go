// Package progress reports zero-fill progress during formatfs, adapted
// from the teacher's pkg/pbar.ProgressBarState — the same
// rate/ETA-over-an-update-interval shape, with FilesFound dropped since
// formatfs has no file count to report.
package progress

import (
	"fmt"
	"io"
	"time"
)

const updateInterval = 200 * time.Millisecond

// FormatState tracks FAT-sector zero-fill progress across a Format call.
type FormatState struct {
	TotalSectors    uint32
	ZeroedSectors   uint32
	StartTime       time.Time
	LastUpdateTime  time.Time
	lastZeroed      uint32
}

// NewFormatState starts a FormatState for a run that will write total
// FAT sectors.
func NewFormatState(total uint32) *FormatState {
	now := time.Now()
	return &FormatState{TotalSectors: total, StartTime: now, LastUpdateTime: now}
}

// Advance records that n additional FAT sectors were written.
func (s *FormatState) Advance(n uint32) {
	s.ZeroedSectors += n
}

// Render writes a one-line progress report to w if at least
// updateInterval has elapsed since the last render, or immediately when
// force is true.
func (s *FormatState) Render(w io.Writer, force bool) {
	now := time.Now()
	if !force && now.Sub(s.LastUpdateTime) < updateInterval {
		return
	}
	elapsed := now.Sub(s.LastUpdateTime).Seconds()
	rate := float64(s.ZeroedSectors-s.lastZeroed)
	if elapsed > 0 {
		rate /= elapsed
	}
	pct := 0.0
	if s.TotalSectors > 0 {
		pct = 100 * float64(s.ZeroedSectors) / float64(s.TotalSectors)
	}
	fmt.Fprintf(w, "formatfs: %d/%d FAT sectors (%.1f%%), %.0f sectors/s\n",
		s.ZeroedSectors, s.TotalSectors, pct, rate)
	s.lastZeroed = s.ZeroedSectors
	s.LastUpdateTime = now
}

// Finish writes the final summary line.
func (s *FormatState) Finish(w io.Writer) {
	fmt.Fprintf(w, "formatfs: done, %d FAT sectors written in %s\n",
		s.ZeroedSectors, time.Since(s.StartTime).Round(time.Millisecond))
}
