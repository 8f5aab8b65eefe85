package fat32

import (
	"fmt"

	"github.com/relunix/fatkernel/internal/blockdev"
	"github.com/relunix/fatkernel/internal/logger"
)

const minFormatClusters = 65525

// Format writes a fresh FAT32 volume spanning totalSectors sectors of
// 512 bytes each, with sectorsPerClus sectors per cluster, per spec.md
// §4.3.7. totalSectors must be at least 65536 and sectorsPerClus must be
// a power of two; the resulting cluster count must be at least 65525 or
// the call fails with TooFewClusters.
func Format(dev blockdev.Device, totalSectors uint32, sectorsPerClus uint8, log *logger.Logger, onProgress func(done, total uint32)) error {
	if onProgress == nil {
		onProgress = func(uint32, uint32) {}
	}
	if totalSectors < 65536 {
		return newErr("Format", NotFat32, fmt.Errorf("total sectors %d below minimum 65536", totalSectors))
	}
	if !isPowerOfTwoU8(sectorsPerClus) {
		return newErr("Format", NotFat32, fmt.Errorf("sectors_per_cluster %d is not a power of two", sectorsPerClus))
	}

	const reserved = 32
	clusters := uint64(totalSectors-reserved) * 512 / (uint64(sectorsPerClus)*512 + 4)
	if clusters < minFormatClusters {
		return newErr("Format", TooFewClusters, fmt.Errorf("%d clusters below minimum %d", clusters, minFormatClusters))
	}
	fatSectors := uint32((clusters*4 + 511) / 512)

	volID := uint32(0xA5A5A5A5)
	bpbSector := EncodeBPB(totalSectors, fatSectors, 2, sectorsPerClus, volID)
	if err := dev.WriteSectors(0, 1, bpbSector); err != nil {
		return newErr("Format", IoError, err)
	}
	if err := dev.WriteSectors(6, 1, bpbSector); err != nil {
		return newErr("Format", IoError, err)
	}

	fsInfoSector := EncodeFSInfo(uint32(clusters)-1, 3)
	if err := dev.WriteSectors(1, 1, fsInfoSector); err != nil {
		return newErr("Format", IoError, err)
	}

	firstFAT := uint32(reserved)
	firstFATSector := make([]byte, 512)
	putLE32(firstFATSector[0:4], 0x0FFFFFF8)  // cluster 0: media descriptor
	putLE32(firstFATSector[4:8], 0x0FFFFFFF)  // cluster 1: reserved
	putLE32(firstFATSector[8:12], fatEOC)     // cluster 2: root, single cluster

	zeroSector := make([]byte, 512)
	total := 2 * fatSectors
	var done uint32
	for fatIdx := uint32(0); fatIdx < 2; fatIdx++ {
		base := firstFAT + fatIdx*fatSectors
		if err := dev.WriteSectors(base, 1, firstFATSector); err != nil {
			return newErr("Format", IoError, err)
		}
		done++
		onProgress(done, total)
		for s := uint32(1); s < fatSectors; s++ {
			if err := dev.WriteSectors(base+s, 1, zeroSector); err != nil {
				return newErr("Format", IoError, err)
			}
			done++
			onProgress(done, total)
		}
	}

	firstData := firstFAT + 2*fatSectors
	for s := uint32(0); s < uint32(sectorsPerClus); s++ {
		if err := dev.WriteSectors(firstData+s, 1, zeroSector); err != nil {
			return newErr("Format", IoError, err)
		}
	}

	log.Infof("fat32: formatted %d sectors, %d clusters of %d bytes, %d FAT sectors", totalSectors, clusters, int(sectorsPerClus)*512, fatSectors)
	return nil
}
