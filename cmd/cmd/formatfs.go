package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relunix/fatkernel/internal/blockdev"
	"github.com/relunix/fatkernel/internal/fat32"
	"github.com/relunix/fatkernel/pkg/bytesize"
	"github.com/relunix/fatkernel/pkg/progress"
)

var (
	formatfsSize              string
	formatfsSectorsPerCluster uint8
)

var formatfsCmd = &cobra.Command{
	Use:   "formatfs <image>",
	Short: "Create and format a fresh FAT32 image file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sizeBytes, err := bytesize.ParseBytes(formatfsSize)
		if err != nil {
			return err
		}
		totalSectors := uint32(sizeBytes / blockdev.SectorSize)

		path := args[0]
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("formatfs: create %s: %w", path, err)
		}
		if err := f.Truncate(sizeBytes); err != nil {
			f.Close()
			return fmt.Errorf("formatfs: truncate %s: %w", path, err)
		}
		f.Close()

		dev, err := blockdev.OpenFile(path, 0)
		if err != nil {
			return err
		}
		defer dev.Close()

		state := progress.NewFormatState(0)
		err = fat32.Format(dev, totalSectors, formatfsSectorsPerCluster, log, func(done, total uint32) {
			state.TotalSectors = total
			state.ZeroedSectors = done
			state.Render(os.Stdout, false)
		})
		if err != nil {
			return err
		}
		state.Finish(os.Stdout)
		return nil
	},
}

func init() {
	formatfsCmd.Flags().StringVar(&formatfsSize, "size", "64MiB", "volume size (e.g. 64MiB, 1GB)")
	formatfsCmd.Flags().Uint8Var(&formatfsSectorsPerCluster, "sectors-per-cluster", 8, "sectors per cluster, must be a power of two")
}
