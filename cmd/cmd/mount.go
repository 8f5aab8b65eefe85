package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mountCmd = &cobra.Command{
	Use:   "mount <image>",
	Short: "Mount a FAT32 volume and print its geometry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vol, dev, err := openVolume(args[0])
		if err != nil {
			return err
		}
		defer closeVolume(vol, dev)

		info := vol.Info()
		free, total, err := vol.Stat()
		if err != nil {
			return err
		}
		fmt.Printf("bytes/sector:      %d\n", info.BytesPerSector)
		fmt.Printf("sectors/cluster:   %d\n", info.SectorsPerCluster)
		fmt.Printf("reserved sectors:  %d\n", info.ReservedSectors)
		fmt.Printf("FATs:              %d\n", info.NumFATs)
		fmt.Printf("sectors/FAT:       %d\n", info.SectorsPerFAT)
		fmt.Printf("root cluster:      %d\n", info.RootDirCluster)
		fmt.Printf("total sectors:     %d\n", info.TotalSectors)
		fmt.Printf("first FAT LBA:     %d\n", info.FirstFATLBA)
		fmt.Printf("first data LBA:    %d\n", info.FirstDataLBA)
		fmt.Printf("clusters free:     %s\n", fmtSize(free, vol.ClusterBytes()))
		fmt.Printf("clusters total:    %s\n", fmtSize(total, vol.ClusterBytes()))
		return nil
	},
}
