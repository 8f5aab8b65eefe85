package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relunix/fatkernel/internal/fusevol"
)

var fuseCmd = &cobra.Command{
	Use:   "fuse <image> <mountpoint>",
	Short: "Mount a FAT32 volume's root directory read-only via FUSE (Linux only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vol, dev, err := openVolume(args[0])
		if err != nil {
			return err
		}
		defer closeVolume(vol, dev)

		fmt.Printf("fuse: serving %s at %s, Ctrl-C to unmount\n", args[0], args[1])
		return fusevol.Mount(args[1], vol)
	},
}
