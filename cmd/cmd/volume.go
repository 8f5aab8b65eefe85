package cmd

import (
	"fmt"

	"github.com/relunix/fatkernel/internal/blockdev"
	"github.com/relunix/fatkernel/internal/fat32"
)

// openVolume opens path as a block device and mounts it as a FAT32
// volume, first rewriting a bare drive-letter argument ("E" or "E:") into
// a Windows volume path; the rewrite is applied on every platform.
func openVolume(path string) (*fat32.Volume, blockdev.Device, error) {
	path = blockdev.NormalizeVolumePath(path)
	dev, err := blockdev.OpenFile(path, 0)
	if err != nil {
		return nil, nil, err
	}
	vol, err := fat32.Mount(dev, log)
	if err != nil {
		dev.Close()
		return nil, nil, err
	}
	return vol, dev, nil
}

func closeVolume(vol *fat32.Volume, dev blockdev.Device) {
	vol.Unmount()
	if err := dev.Close(); err != nil {
		log.Warnf("fatkernel: closing device: %v", err)
	}
}

func fmtSize(n uint32, clusterBytes int) string {
	return fmt.Sprintf("%d (%d bytes)", n, int(n)*clusterBytes)
}
