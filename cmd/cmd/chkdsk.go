package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var chkdskCmd = &cobra.Command{
	Use:   "chkdsk <image>",
	Short: "Reclaim orphaned clusters on a FAT32 volume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vol, dev, err := openVolume(args[0])
		if err != nil {
			return err
		}
		defer closeVolume(vol, dev)

		orphans, err := vol.Chkdsk()
		if err != nil {
			return err
		}
		fmt.Printf("chkdsk: reclaimed %d orphaned cluster(s)\n", orphans)
		return nil
	},
}
