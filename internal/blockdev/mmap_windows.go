//go:build windows

package blockdev

import "os"

// tryMmap has no cheap cross-platform equivalent to syscall.Mmap wired up
// here for Windows; FileDevice falls back to ReadAt/WriteAt on this
// platform, which is correct, just not mmap-accelerated.
func tryMmap(f *os.File, size int64) ([]byte, func() error, error) {
	return nil, nil, errUnsupportedMmap
}

var errUnsupportedMmap = &mmapUnsupportedError{}

type mmapUnsupportedError struct{}

func (*mmapUnsupportedError) Error() string { return "blockdev: mmap not wired on windows" }
