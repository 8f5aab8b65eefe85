package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls <image>",
	Short: "List the root directory of a FAT32 volume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vol, dev, err := openVolume(args[0])
		if err != nil {
			return err
		}
		defer closeVolume(vol, dev)

		entries, err := vol.List()
		if err != nil {
			return err
		}
		for _, e := range entries {
			kind := "F"
			if e.IsDir {
				kind = "D"
			}
			fmt.Printf("%s  %10d  %s\n", kind, e.Size, e.Name)
		}
		return nil
	},
}
