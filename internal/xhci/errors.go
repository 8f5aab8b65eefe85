package xhci

import "errors"

// ErrBringupTimeout is returned when a bounded-spin reset step exceeds its
// iteration budget, per spec.md §4.4.1 steps 4-5 and §7: fatal for the
// driver only, never for the kernel as a whole.
var ErrBringupTimeout = errors.New("xhci: bring-up step timed out")
