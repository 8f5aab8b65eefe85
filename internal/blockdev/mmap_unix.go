//go:build !windows

package blockdev

import (
	"os"
	"syscall"
)

// tryMmap maps the first size bytes of f read-only, shared, grounded on the
// teacher's internal/mmap.NewMmapFile. A size of zero or less is rejected
// here; that, or anything syscall.Mmap itself rejects (a pipe, say), makes
// the caller fall back to ReadAt.
func tryMmap(f *os.File, size int64) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, syscall.EINVAL
	}
	region, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return region, func() error { return syscall.Munmap(region) }, nil
}
