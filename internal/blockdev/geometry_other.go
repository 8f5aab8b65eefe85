//go:build !linux && !windows

package blockdev

import (
	"fmt"
	"os"
)

// ProbeGeometry falls back to Stat().Size() on platforms without a wired
// ioctl/DeviceIoControl path; only plain disk-image files are supported
// here, not raw device nodes.
func ProbeGeometry(path string) (sectorSize int64, totalSectors uint64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("blockdev: probe %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return 0, 0, fmt.Errorf("blockdev: stat %s: %w", path, err)
	}
	return SectorSize, uint64(info.Size()) / SectorSize, nil
}
