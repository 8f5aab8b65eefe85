// Package blockdev abstracts synchronous 512-byte sector read/write over
// the underlying storage, standing in for the AHCI/SATA controller the
// source system talks to directly. The FAT32 engine never sees an *os.File
// or a raw device node; it sees this narrow interface, matching the
// teacher's habit of hiding concrete disk access behind a small interface
// (internal/disk.DiskInfo, internal/fs.File) rather than passing *os.File
// around.
package blockdev

import "errors"

// SectorSize is the fixed sector size this engine works in. Larger
// physical sectors are not supported; spec.md's BPB always declares 512.
const SectorSize = 512

// ErrShortIO is returned when an underlying read or write transfers fewer
// bytes than requested without itself returning an error, which the
// interface's synchronous contract does not tolerate.
var ErrShortIO = errors.New("blockdev: short read or write")

// Device is the block device interface every engine operation issues
// reads and writes through. Implementations surface any error verbatim;
// neither implementation nor caller retries (spec.md §4.2, §7).
type Device interface {
	// ReadSectors reads count sectors starting at lba into dst, which must
	// be at least count*SectorSize bytes.
	ReadSectors(lba, count uint32, dst []byte) error
	// WriteSectors writes count sectors starting at lba from src, which
	// must be at least count*SectorSize bytes.
	WriteSectors(lba, count uint32, src []byte) error
	// TotalSectors returns the device's total sector count.
	TotalSectors() uint64
	// Close releases any resources held by the device.
	Close() error
}
