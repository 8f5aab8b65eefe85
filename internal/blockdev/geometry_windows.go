//go:build windows

package blockdev

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// diskGeometry mirrors the Win32 DISK_GEOMETRY struct used by
// IOCTL_DISK_GET_DRIVE_GEOMETRY.
type diskGeometry struct {
	Cylinders         int64
	MediaType         uint32
	TracksPerCylinder uint32
	SectorsPerTrack   uint32
	BytesPerSector    uint32
}

const ioctlDiskGetDriveGeometry = 0x70000

// ProbeGeometry resolves sector size and total size via
// IOCTL_DISK_GET_DRIVE_GEOMETRY, grounded on the teacher's
// internal/fs.WindowsDiskFile, which issues the same ioctl through
// DeviceIoControl. Falls back to Stat().Size() for a plain disk image file
// where the ioctl isn't supported.
func ProbeGeometry(path string) (sectorSize int64, totalSectors uint64, err error) {
	h, err := windows.CreateFile(
		windows.StringToUTF16Ptr(path),
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil, windows.OPEN_EXISTING, 0, 0)
	if err == nil {
		defer windows.CloseHandle(h)
		var geo diskGeometry
		var returned uint32
		ioctlErr := windows.DeviceIoControl(h, ioctlDiskGetDriveGeometry, nil, 0,
			(*byte)(unsafe.Pointer(&geo)), uint32(unsafe.Sizeof(geo)), &returned, nil)
		if ioctlErr == nil && geo.BytesPerSector != 0 {
			total := uint64(geo.Cylinders) * uint64(geo.TracksPerCylinder) *
				uint64(geo.SectorsPerTrack) * uint64(geo.BytesPerSector)
			return int64(geo.BytesPerSector), total / uint64(geo.BytesPerSector), nil
		}
	}

	f, serr := os.Open(path)
	if serr != nil {
		return 0, 0, fmt.Errorf("blockdev: probe %s: %w", path, serr)
	}
	defer f.Close()
	info, serr := f.Stat()
	if serr != nil {
		return 0, 0, fmt.Errorf("blockdev: stat %s: %w", path, serr)
	}
	return SectorSize, uint64(info.Size()) / SectorSize, nil
}
