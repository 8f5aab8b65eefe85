package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <image> <name>",
	Short: "Print a file's contents to stdout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vol, dev, err := openVolume(args[0])
		if err != nil {
			return err
		}
		defer closeVolume(vol, dev)

		buf := make([]byte, 1<<20)
		n, err := vol.ReadToBuffer(args[1], buf)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(os.Stdout, string(buf[:n]))
		return err
	},
}
