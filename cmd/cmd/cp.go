package cmd

import "github.com/spf13/cobra"

var cpCmd = &cobra.Command{
	Use:   "cp <image> <src> <dst>",
	Short: "Copy a file within a FAT32 volume",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		vol, dev, err := openVolume(args[0])
		if err != nil {
			return err
		}
		defer closeVolume(vol, dev)
		return vol.Copy(args[1], args[2])
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv <image> <old> <new>",
	Short: "Rename a file within a FAT32 volume",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		vol, dev, err := openVolume(args[0])
		if err != nil {
			return err
		}
		defer closeVolume(vol, dev)
		return vol.Rename(args[1], args[2])
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <image> <name>",
	Short: "Remove a file from a FAT32 volume",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vol, dev, err := openVolume(args[0])
		if err != nil {
			return err
		}
		defer closeVolume(vol, dev)
		return vol.Remove(args[1])
	},
}
