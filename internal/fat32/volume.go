package fat32

import (
	"fmt"

	"github.com/relunix/fatkernel/internal/blockdev"
	"github.com/relunix/fatkernel/internal/logger"
)

const (
	fatFree   uint32 = 0
	fatBad    uint32 = 0x0FFFFFF7
	fatEOCMin uint32 = 0x0FFFFFF8
	fatEOC    uint32 = 0x0FFFFFFF
	fatMask   uint32 = 0x0FFFFFFF
)

func isEndOrBad(v uint32) bool { return v&fatMask >= fatBad }

// Volume is a mounted FAT32 filesystem, caching the BPB-derived geometry
// spec.md §3 requires: first_data = reserved + num_fats*sectors_per_fat is
// maintained as an invariant from Mount through every subsequent operation.
type Volume struct {
	dev blockdev.Device
	log *logger.Logger

	bytesPerSector uint16
	sectorsPerClus uint8
	reservedSecCnt uint16
	numFATs        uint8
	fatSz32        uint32
	totSec32       uint32
	rootClus       uint32

	firstFAT   uint32
	firstData  uint32
	maxCluster uint32 // exclusive upper bound on valid cluster numbers

	curDirCluster uint32
	nextFreeHint  uint32
}

// Info mirrors spec.md §3's Volume attribute list, exposed read-only for
// the mount command's geometry report and for tests.
type Info struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	SectorsPerFAT     uint32
	RootDirCluster    uint32
	TotalSectors      uint32
	FirstFATLBA       uint32
	FirstDataLBA      uint32
	CurrentDirCluster uint32
}

// Mount reads sector 0 of dev, validates it as a FAT32 BPB, and caches the
// geometry every later operation relies on, per spec.md §4.3.1. On any
// read error it fails with IoError; on a non-FAT32 signature it fails with
// NotFat32.
func Mount(dev blockdev.Device, log *logger.Logger) (*Volume, error) {
	sector := make([]byte, blockdev.SectorSize)
	if err := dev.ReadSectors(0, 1, sector); err != nil {
		return nil, newErr("Mount", IoError, err)
	}
	bpb, err := ReadBPB(sector)
	if err != nil {
		return nil, err
	}

	firstFAT := uint32(bpb.ReservedSecCnt)
	firstData := firstFAT + uint32(bpb.NumFATs)*bpb.FATSz32
	if firstData >= bpb.TotSec32 {
		return nil, newErr("Mount", NotFat32, fmt.Errorf("first_data %d exceeds total sectors %d", firstData, bpb.TotSec32))
	}
	dataSectors := bpb.TotSec32 - firstData
	clusterCount := dataSectors / uint32(bpb.SectorsPerClus)

	v := &Volume{
		dev:            dev,
		log:            log,
		bytesPerSector: bpb.BytesPerSector,
		sectorsPerClus: bpb.SectorsPerClus,
		reservedSecCnt: bpb.ReservedSecCnt,
		numFATs:        bpb.NumFATs,
		fatSz32:        bpb.FATSz32,
		totSec32:       bpb.TotSec32,
		rootClus:       bpb.RootClus,
		firstFAT:       firstFAT,
		firstData:      firstData,
		maxCluster:     clusterCount + 2,
		curDirCluster:  bpb.RootClus,
		nextFreeHint:   3,
	}
	v.log.Infof("fat32: mounted volume, %d clusters of %d bytes, root at %d", clusterCount, v.ClusterBytes(), v.rootClus)
	return v, nil
}

// Unmount detaches the Volume from its block device. Any further call on
// v that reads or writes the device panics via a nil-device dereference,
// matching the
// source's treatment of mount state as owned, not reference-counted.
func (v *Volume) Unmount() {
	v.log.Info("fat32: unmounted volume")
	v.dev = nil
}

// ClusterBytes returns sectors-per-cluster * bytes-per-sector.
func (v *Volume) ClusterBytes() int {
	return int(v.sectorsPerClus) * int(v.bytesPerSector)
}

// MaxCluster returns the exclusive upper bound on valid cluster numbers.
func (v *Volume) MaxCluster() uint32 { return v.maxCluster }

// Info returns the Volume's cached geometry.
func (v *Volume) Info() Info {
	return Info{
		BytesPerSector:    v.bytesPerSector,
		SectorsPerCluster: v.sectorsPerClus,
		ReservedSectors:   v.reservedSecCnt,
		NumFATs:           v.numFATs,
		SectorsPerFAT:     v.fatSz32,
		RootDirCluster:    v.rootClus,
		TotalSectors:      v.totSec32,
		FirstFATLBA:       v.firstFAT,
		FirstDataLBA:      v.firstData,
		CurrentDirCluster: v.curDirCluster,
	}
}

// Stat returns the free and total cluster counts. The free count is the
// FSInfo sector's free-count field as Format wrote it: file operations do
// not update that field, and an FSInfo sector with a bad signature yields
// a free count of 0 (NEW read-only accessor; no new invariant beyond what
// spec.md §4.3.7 already requires writing).
func (v *Volume) Stat() (freeClusters, totalClusters uint32, err error) {
	sector := make([]byte, blockdev.SectorSize)
	if err := v.dev.ReadSectors(1, 1, sector); err != nil {
		return 0, 0, newErr("Stat", IoError, err)
	}
	fsi, err2 := ReadFSInfo(sector)
	if err2 != nil {
		return 0, v.maxCluster - 2, nil
	}
	return fsi.FreeCount, v.maxCluster - 2, nil
}

func (v *Volume) clusterLBA(c uint32) uint32 {
	return v.firstData + (c-2)*uint32(v.sectorsPerClus)
}

// readEntry computes off = c*4, reads the FAT0 sector at first_fat +
// off/512, and returns the 32-bit little-endian word at offset e masked
// to 28 bits, per spec.md §4.3.2.
func (v *Volume) readEntry(c uint32) (uint32, error) {
	off := c * 4
	sector := v.firstFAT + off/blockdev.SectorSize
	e := off % blockdev.SectorSize
	buf := make([]byte, blockdev.SectorSize)
	if err := v.dev.ReadSectors(sector, 1, buf); err != nil {
		return 0, newErr("readEntry", IoError, err)
	}
	return le32(buf[e:e+4]) & fatMask, nil
}

// writeEntry replaces the low 28 bits of the FAT word for cluster c,
// preserving the high 4 reserved bits, and mirrors the write identically
// to every FAT copy. Failure on any mirror is fatal for the call, per
// spec.md §4.3.2 and the "mirrored FAT writes" design note in §9.
func (v *Volume) writeEntry(c uint32, val uint32) error {
	off := c * 4
	sectorOff := off / blockdev.SectorSize
	e := off % blockdev.SectorSize

	buf := make([]byte, blockdev.SectorSize)
	if err := v.dev.ReadSectors(v.firstFAT+sectorOff, 1, buf); err != nil {
		return newErr("writeEntry", IoError, err)
	}
	old := le32(buf[e : e+4])
	word := (old & ^fatMask) | (val & fatMask)
	putLE32(buf[e:e+4], word)

	for fatIdx := uint32(0); fatIdx < uint32(v.numFATs); fatIdx++ {
		lba := v.firstFAT + fatIdx*v.fatSz32 + sectorOff
		if err := v.dev.WriteSectors(lba, 1, buf); err != nil {
			return newErr("writeEntry", IoError, fmt.Errorf("mirror FAT%d: %w", fatIdx, err))
		}
	}
	return nil
}

// findFree scans [from, maxCluster) then wraps [2, from), returning 0 if
// every cluster is occupied.
func (v *Volume) findFree(from uint32) (uint32, error) {
	if from < 2 {
		from = 2
	}
	for c := from; c < v.maxCluster; c++ {
		val, err := v.readEntry(c)
		if err != nil {
			return 0, err
		}
		if val == fatFree {
			return c, nil
		}
	}
	for c := uint32(2); c < from; c++ {
		val, err := v.readEntry(c)
		if err != nil {
			return 0, err
		}
		if val == fatFree {
			return c, nil
		}
	}
	return 0, nil
}

// allocateOne finds a free cluster starting at next_free_hint, marks it
// EOC, zero-fills its sectors, and advances the hint.
func (v *Volume) allocateOne() (uint32, error) {
	c, err := v.findFree(v.nextFreeHint)
	if err != nil {
		return 0, err
	}
	if c == 0 {
		return 0, newErr("allocateOne", DiskFull, nil)
	}
	if err := v.writeEntry(c, fatEOC); err != nil {
		return 0, err
	}
	zero := make([]byte, v.ClusterBytes())
	if err := v.dev.WriteSectors(v.clusterLBA(c), uint32(v.sectorsPerClus), zero); err != nil {
		return 0, newErr("allocateOne", IoError, err)
	}
	v.nextFreeHint = c + 1
	return c, nil
}

// allocateChain allocates n linked clusters, rolling back via freeChain on
// any mid-chain failure, per spec.md §4.3.3 and §7's partial-mutation
// rule. n==0 allocates nothing and returns cluster 0.
func (v *Volume) allocateChain(n uint32) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	head, err := v.allocateOne()
	if err != nil {
		return 0, err
	}
	prev := head
	for i := uint32(1); i < n; i++ {
		c, err := v.allocateOne()
		if err != nil {
			v.freeChain(head)
			return 0, err
		}
		if err := v.writeEntry(prev, c); err != nil {
			v.freeChain(head)
			return 0, err
		}
		prev = c
	}
	return head, nil
}

// freeChain walks the chain starting at c0, marking every cluster FREE,
// terminating safely on an out-of-range link rather than looping forever
// on a corrupt chain, per spec.md §4.3.3.
func (v *Volume) freeChain(c0 uint32) {
	c := c0
	for c >= 2 && c < fatBad {
		next, err := v.readEntry(c)
		if err != nil {
			return
		}
		if err := v.writeEntry(c, fatFree); err != nil {
			return
		}
		if c < v.nextFreeHint {
			v.nextFreeHint = c
		}
		if isEndOrBad(next) {
			return
		}
		c = next
	}
}
